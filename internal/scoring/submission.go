package scoring

// SubmissionReport is the full scoring output for one submission: one
// NodeScore per graphable group node plus the weight-pooled overall score.
type SubmissionReport struct {
	OverallScore float64     `json:"overall_score"`
	NodeScores   []NodeScore `json:"node_scores"`
}

// ScoreSubmission scores one submission's answers against one questionnaire
// structure. The computation is deterministic and side-effect free: scoring
// the same inputs twice yields identical output.
//
// The overall score pools weight across root-level domains:
//
//	overall = sum(domain.weightedScore) / sum(domain.totalWeight)
//
// Domains carrying more question weight therefore dominate the overall
// figure. This is intentionally NOT an unweighted mean of domain
// percentages; callers must not substitute one for the other.
func ScoreSubmission(answers []Answer, structure []*QuestionnaireNode) SubmissionReport {
	index := NewStructureIndex(structure)

	report := SubmissionReport{NodeScores: []NodeScore{}}

	var totalWeighted, totalWeight float64
	for _, entry := range Flatten(structure) {
		if entry.Node.Type != NodeGroup || !entry.Node.IsGraphable() {
			continue
		}
		nodeScore := ScoreNode(entry.Node, entry.Path, answers, index)
		report.NodeScores = append(report.NodeScores, nodeScore)

		// Root-level domains only; nested groups are already folded into
		// their domain through path-prefix matching.
		if len(entry.Path) == 1 {
			totalWeighted += nodeScore.WeightedScore
			totalWeight += nodeScore.TotalWeight
		}
	}

	if totalWeight > 0 {
		report.OverallScore = round2(clamp(totalWeighted/totalWeight, 0, MaxScore))
	}
	return report
}

// DomainScores returns only the root-level domain entries of the report.
func (r *SubmissionReport) DomainScores() []NodeScore {
	var domains []NodeScore
	for _, ns := range r.NodeScores {
		if len(ns.NodePath) == 1 {
			domains = append(domains, ns)
		}
	}
	return domains
}
