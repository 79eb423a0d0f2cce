package scoring

// Answer is one submitted value for a question within a submission. The
// input type is declared redundantly on the answer so scoring survives
// template drift.
type Answer struct {
	QuestionID string      `json:"question_id"`
	NodePath   []string    `json:"node_path"`
	InputType  InputType   `json:"input_type"`
	Answer     interface{} `json:"answer"`
	Weight     *float64    `json:"weight,omitempty"`
	Graphable  *bool       `json:"graphable,omitempty"`
}

// IsGraphable reports whether the answer participates in scoring. Absent
// flags count as graphable.
func (a *Answer) IsGraphable() bool {
	return a.Graphable == nil || *a.Graphable
}

// AnswerDetail is the audit trail entry for one graphable answer folded
// into a node score.
type AnswerDetail struct {
	QuestionID      string      `json:"question_id"`
	QuestionTitle   string      `json:"question_title"`
	RawAnswer       interface{} `json:"raw_answer"`
	NormalizedScore float64     `json:"normalized_score"`
	Weight          float64     `json:"weight"`
	WeightedScore   float64     `json:"weighted_score"`
}

// NodeScore is the scoring output for one group node. Score is
// weightedScore/totalWeight when totalWeight > 0, otherwise 0, and
// always stays within [0,100].
type NodeScore struct {
	NodeID            string         `json:"node_id"`
	NodePath          []string       `json:"node_path"`
	Title             string         `json:"title"`
	Score             float64        `json:"score"`
	MaxScore          float64        `json:"max_score"`
	AnsweredQuestions int            `json:"answered_questions"`
	TotalQuestions    int            `json:"total_questions"`
	WeightedScore     float64        `json:"weighted_score"`
	TotalWeight       float64        `json:"total_weight"`
	Details           []AnswerDetail `json:"details"`
}

// ScoreNode computes the NodeScore for one group node against a
// submission's full answer set. Answers owned by the node or any of its
// descendants contribute, so a domain's score includes every nested
// sub-group's answers. Answers that cannot be resolved against the
// structure are skipped, never errored.
func ScoreNode(node *QuestionnaireNode, nodePath []string, answers []Answer, index *StructureIndex) NodeScore {
	score := NodeScore{
		NodeID:   node.ID,
		NodePath: nodePath,
		Title:    node.Title,
		MaxScore: MaxScore,
		Details:  []AnswerDetail{},
	}

	for _, question := range LeafQuestions(node) {
		if question.IsGraphable() {
			score.TotalQuestions++
		}
	}

	for i := range answers {
		answer := &answers[i]
		if !pathHasPrefix(answer.NodePath, nodePath) {
			continue
		}
		if !answer.IsGraphable() {
			continue
		}

		question := index.Question(answer.QuestionID)
		if question == nil || !question.IsGraphable() {
			// Template drift: the question was removed or retired from
			// scoring. Accepted lossy behavior.
			continue
		}

		normalized := NormalizeAnswer(answer.Answer, answerInputType(answer, question), question.Options, question.ScaleMin, question.ScaleMax)
		weight := answerWeight(answer, question)
		weighted := normalized * weight

		score.Details = append(score.Details, AnswerDetail{
			QuestionID:      answer.QuestionID,
			QuestionTitle:   question.Title,
			RawAnswer:       answer.Answer,
			NormalizedScore: normalized,
			Weight:          weight,
			WeightedScore:   weighted,
		})
		score.WeightedScore += weighted
		score.TotalWeight += weight
	}

	score.AnsweredQuestions = len(score.Details)
	if score.TotalWeight > 0 {
		score.Score = round2(clamp(score.WeightedScore/score.TotalWeight, 0, MaxScore))
	}
	return score
}

// answerInputType prefers the type declared on the answer and falls back to
// the template's question node.
func answerInputType(answer *Answer, question *QuestionnaireNode) InputType {
	if answer.InputType != "" {
		return answer.InputType
	}
	return question.InputType
}

// answerWeight resolves the fold-in weight: answer override first, then the
// question node's weight, then 1.
func answerWeight(answer *Answer, question *QuestionnaireNode) float64 {
	if answer.Weight != nil {
		return *answer.Weight
	}
	return question.NodeWeight()
}
