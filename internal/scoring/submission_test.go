package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// One domain with a choice question (weight 1) and a scale question
// (weight 2).
func TestScoreSubmission_WeightedDomainScore(t *testing.T) {
	structure := []*QuestionnaireNode{
		{
			ID:    "social",
			Type:  NodeGroup,
			Title: "Social interaction",
			Children: []*QuestionnaireNode{
				{
					ID:        "choice-q",
					Type:      NodeQuestion,
					Title:     "Choice question",
					InputType: InputSingleChoice,
					Options: []Option{
						{Value: 1, Label: "low"},
						{Value: 5, Label: "high"},
					},
				},
				{
					ID:        "scale-q",
					Type:      NodeQuestion,
					Title:     "Scale question",
					InputType: InputScale,
					ScaleMin:  f64(0),
					ScaleMax:  f64(10),
					Weight:    f64(2),
				},
			},
		},
	}

	answers := []Answer{
		{QuestionID: "choice-q", NodePath: []string{"social", "choice-q"}, InputType: InputSingleChoice, Answer: float64(5)},
		{QuestionID: "scale-q", NodePath: []string{"social", "scale-q"}, InputType: InputScale, Answer: float64(8)},
	}

	report := ScoreSubmission(answers, structure)

	require.Len(t, report.NodeScores, 1)
	domain := report.NodeScores[0]
	assert.Equal(t, 260.0, domain.WeightedScore)
	assert.Equal(t, 3.0, domain.TotalWeight)
	assert.Equal(t, 86.67, domain.Score)
	assert.Equal(t, 86.67, report.OverallScore)
}

// The overall score pools weight across domains; it is not the unweighted
// mean of domain percentages.
func TestScoreSubmission_OverallScoreIsWeightPooled(t *testing.T) {
	structure := []*QuestionnaireNode{
		{
			ID:    "light",
			Type:  NodeGroup,
			Title: "Light domain",
			Children: []*QuestionnaireNode{
				{ID: "l1", Type: NodeQuestion, Title: "L1", InputType: InputNumber},
			},
		},
		{
			ID:    "heavy",
			Type:  NodeGroup,
			Title: "Heavy domain",
			Children: []*QuestionnaireNode{
				{ID: "h1", Type: NodeQuestion, Title: "H1", InputType: InputNumber, Weight: f64(3)},
			},
		},
	}

	answers := []Answer{
		{QuestionID: "l1", NodePath: []string{"light", "l1"}, InputType: InputNumber, Answer: float64(100)},
		{QuestionID: "h1", NodePath: []string{"heavy", "h1"}, InputType: InputNumber, Answer: float64(40)},
	}

	report := ScoreSubmission(answers, structure)

	// Pooled: (100*1 + 40*3) / (1+3) = 55. Unweighted mean would be 70.
	assert.Equal(t, 55.0, report.OverallScore)
	unweightedMean := (report.NodeScores[0].Score + report.NodeScores[1].Score) / 2
	assert.NotEqual(t, unweightedMean, report.OverallScore)
}

func TestScoreSubmission_NestedGroupsGetOwnScores(t *testing.T) {
	structure := []*QuestionnaireNode{communicationDomain()}
	answers := []Answer{
		{QuestionID: "vocabulary", NodePath: []string{"communication", "verbal", "vocabulary"}, InputType: InputScale, Answer: float64(10)},
	}

	report := ScoreSubmission(answers, structure)

	require.Len(t, report.NodeScores, 2)
	assert.Equal(t, []string{"communication"}, report.NodeScores[0].NodePath)
	assert.Equal(t, []string{"communication", "verbal"}, report.NodeScores[1].NodePath)
	assert.Equal(t, 100.0, report.NodeScores[0].Score)
	assert.Equal(t, 100.0, report.NodeScores[1].Score)

	// Only the root domain feeds the overall score; the nested group is
	// not double counted.
	assert.Equal(t, 100.0, report.OverallScore)
}

func TestScoreSubmission_SkipsNonGraphableGroups(t *testing.T) {
	structure := []*QuestionnaireNode{
		{
			ID:        "admin",
			Type:      NodeGroup,
			Title:     "Administrative",
			Graphable: boolp(false),
			Children: []*QuestionnaireNode{
				{ID: "a1", Type: NodeQuestion, Title: "A1", InputType: InputNumber},
			},
		},
	}
	answers := []Answer{
		{QuestionID: "a1", NodePath: []string{"admin", "a1"}, InputType: InputNumber, Answer: float64(90)},
	}

	report := ScoreSubmission(answers, structure)
	assert.Empty(t, report.NodeScores)
	assert.Equal(t, 0.0, report.OverallScore)
}

func TestScoreSubmission_EmptySubmission(t *testing.T) {
	report := ScoreSubmission(nil, []*QuestionnaireNode{communicationDomain()})

	require.Len(t, report.NodeScores, 2)
	for _, ns := range report.NodeScores {
		assert.Equal(t, 0.0, ns.Score)
		assert.Empty(t, ns.Details)
	}
	assert.Equal(t, 0.0, report.OverallScore)
}

func TestScoreSubmission_Deterministic(t *testing.T) {
	structure := []*QuestionnaireNode{communicationDomain()}
	answers := []Answer{
		{QuestionID: "eye-contact", NodePath: []string{"communication", "eye-contact"}, InputType: InputSingleChoice, Answer: float64(5)},
		{QuestionID: "vocabulary", NodePath: []string{"communication", "verbal", "vocabulary"}, InputType: InputScale, Answer: float64(7)},
	}

	first := ScoreSubmission(answers, structure)
	second := ScoreSubmission(answers, structure)
	assert.Equal(t, first, second)
}
