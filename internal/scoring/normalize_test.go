package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func f64(v float64) *float64 { return &v }

func TestNormalizeAnswer_SingleChoice(t *testing.T) {
	options := []Option{
		{ID: "opt-low", Value: 1, Label: "low"},
		{ID: "opt-mid", Value: 3, Label: "mid"},
		{ID: "opt-high", Value: 5, Label: "high"},
	}

	tests := []struct {
		name     string
		raw      interface{}
		expected float64
	}{
		{"match by value - max", float64(5), 100},
		{"match by value - min", float64(1), 0},
		{"match by value - mid", float64(3), 50},
		{"match by option id", "opt-high", 100},
		{"numeric string matches value", "5", 100},
		{"no matching option", float64(42), 0},
		{"nil answer", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAnswer(tt.raw, InputSingleChoice, options, nil, nil)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeAnswer_DegenerateRangeIsFullMatch(t *testing.T) {
	single := []Option{{ID: "only", Value: 4, Label: "only"}}

	assert.Equal(t, 100.0, NormalizeAnswer(float64(4), InputSingleChoice, single, nil, nil))
	assert.Equal(t, 100.0, NormalizeAnswer([]interface{}{float64(4)}, InputMultipleChoice, single, nil, nil))
	assert.Equal(t, 100.0, NormalizeAnswer(float64(4), InputScale, single, nil, nil))
	assert.Equal(t, 100.0, NormalizeAnswer(float64(7), InputNumber, nil, f64(3), f64(3)))
}

func TestNormalizeAnswer_MultipleChoice(t *testing.T) {
	options := []Option{
		{ID: "a", Value: 0, Label: "never"},
		{ID: "b", Value: 2, Label: "sometimes"},
		{ID: "c", Value: 4, Label: "always"},
	}

	tests := []struct {
		name     string
		raw      interface{}
		expected float64
	}{
		{"all selected averages", []interface{}{float64(0), float64(2), float64(4)}, 50},
		{"top only", []interface{}{float64(4)}, 100},
		{"selection by id", []interface{}{"b", "c"}, 75},
		{"unresolved selection counts as zero", []interface{}{float64(4), "missing"}, 50},
		{"empty selection", []interface{}{}, 0},
		{"not a sequence", "b", 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAnswer(tt.raw, InputMultipleChoice, options, nil, nil)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeAnswer_Scale(t *testing.T) {
	tests := []struct {
		name     string
		raw      interface{}
		options  []Option
		min, max *float64
		expected float64
	}{
		{"explicit bounds", float64(8), nil, f64(0), f64(10), 80},
		{"clamped above", float64(15), nil, f64(0), f64(10), 100},
		{"clamped below", float64(-3), nil, f64(0), f64(10), 0},
		{"bounds derived from options", float64(3), []Option{{Value: 1}, {Value: 5}}, nil, nil, 50},
		{"non-numeric answer", "not a number", nil, f64(0), f64(10), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeAnswer(tt.raw, InputScale, tt.options, tt.min, tt.max)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNormalizeAnswer_Number(t *testing.T) {
	// Default bounds are [0,100].
	assert.Equal(t, 73.0, NormalizeAnswer(float64(73), InputNumber, nil, nil, nil))
	assert.Equal(t, 100.0, NormalizeAnswer(float64(250), InputNumber, nil, nil, nil))
	assert.Equal(t, 25.0, NormalizeAnswer(float64(5), InputNumber, nil, f64(0), f64(20)))
	assert.Equal(t, 0.0, NormalizeAnswer("abc", InputNumber, nil, nil, nil))
}

func TestNormalizeAnswer_Text(t *testing.T) {
	// Free text always lands on the neutral midpoint regardless of content.
	assert.Equal(t, 50.0, NormalizeAnswer("anything at all", InputText, nil, nil, nil))
	assert.Equal(t, 50.0, NormalizeAnswer("", InputText, nil, nil, nil))
	assert.Equal(t, 50.0, NormalizeAnswer(nil, InputText, nil, nil, nil))
}

func TestNormalizeAnswer_UnknownInputType(t *testing.T) {
	assert.Equal(t, 0.0, NormalizeAnswer(float64(5), InputType("checkbox-grid"), nil, nil, nil))
}

func TestNormalizeAnswer_RoundsToTwoDecimals(t *testing.T) {
	options := []Option{{Value: 0}, {Value: 3}}
	// 1/3 of the range -> 33.333... -> 33.33
	assert.Equal(t, 33.33, NormalizeAnswer(float64(1), InputSingleChoice, options, nil, nil))
}
