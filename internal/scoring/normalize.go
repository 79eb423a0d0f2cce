package scoring

import (
	"math"
	"strconv"
)

const (
	// MaxScore is the upper bound of the normalized scale.
	MaxScore = 100.0

	// textNeutralScore is what free-text answers normalize to. Free text
	// carries no intrinsic numeric signal, so it sits at the midpoint.
	textNeutralScore = 50.0

	defaultNumberMin = 0.0
	defaultNumberMax = 100.0
)

// NormalizeAnswer maps one raw answer onto the 0-100 scale given the
// question's input type, option set and optional explicit bounds. It is a
// pure function: malformed input degrades to 0, it never errors.
func NormalizeAnswer(raw interface{}, inputType InputType, options []Option, scaleMin, scaleMax *float64) float64 {
	switch inputType {
	case InputSingleChoice:
		return normalizeSingleChoice(raw, options)
	case InputMultipleChoice:
		return normalizeMultipleChoice(raw, options)
	case InputScale:
		min, max := scaleBounds(options, scaleMin, scaleMax)
		return normalizeNumeric(raw, min, max)
	case InputNumber:
		min, max := numberBounds(scaleMin, scaleMax)
		return normalizeNumeric(raw, min, max)
	case InputText:
		return textNeutralScore
	default:
		return 0
	}
}

func normalizeSingleChoice(raw interface{}, options []Option) float64 {
	if len(options) == 0 {
		return 0
	}
	selected, ok := resolveOption(raw, options)
	if !ok {
		return 0
	}
	min, max := optionValueRange(options)
	return round2(linearScale(selected, min, max))
}

func normalizeMultipleChoice(raw interface{}, options []Option) float64 {
	values, ok := rawSlice(raw)
	if !ok || len(values) == 0 || len(options) == 0 {
		return 0
	}

	// Unresolvable selections contribute 0 to the average.
	sum := 0.0
	for _, v := range values {
		if resolved, found := resolveOption(v, options); found {
			sum += resolved
		}
	}
	avg := sum / float64(len(values))

	min, max := optionValueRange(options)
	return round2(clamp(linearScale(avg, min, max), 0, MaxScore))
}

func normalizeNumeric(raw interface{}, min, max float64) float64 {
	value, ok := rawFloat(raw)
	if !ok {
		return 0
	}
	value = clamp(value, min, max)
	return round2(linearScale(value, min, max))
}

// linearScale maps value from [min,max] onto [0,100]. A degenerate range
// counts as a full match.
func linearScale(value, min, max float64) float64 {
	if min == max {
		return MaxScore
	}
	return (value - min) / (max - min) * MaxScore
}

// resolveOption finds the option selected by raw, comparing against option
// values and option ids. Both conventions appear in stored answers, so both
// are tried.
func resolveOption(raw interface{}, options []Option) (float64, bool) {
	num, isNum := rawFloat(raw)
	str, isStr := rawString(raw)

	for _, opt := range options {
		if isNum && opt.Value == num {
			return opt.Value, true
		}
		if isStr && opt.ID != "" && opt.ID == str {
			return opt.Value, true
		}
	}
	return 0, false
}

func optionValueRange(options []Option) (float64, float64) {
	min, max := options[0].Value, options[0].Value
	for _, opt := range options[1:] {
		if opt.Value < min {
			min = opt.Value
		}
		if opt.Value > max {
			max = opt.Value
		}
	}
	return min, max
}

func scaleBounds(options []Option, scaleMin, scaleMax *float64) (float64, float64) {
	if scaleMin != nil && scaleMax != nil {
		return *scaleMin, *scaleMax
	}
	if len(options) > 0 {
		return optionValueRange(options)
	}
	return defaultNumberMin, defaultNumberMax
}

func numberBounds(scaleMin, scaleMax *float64) (float64, float64) {
	min, max := defaultNumberMin, defaultNumberMax
	if scaleMin != nil {
		min = *scaleMin
	}
	if scaleMax != nil {
		max = *scaleMax
	}
	return min, max
}

// rawFloat coerces scalar answer payloads to a number. JSON decoding hands
// numbers over as float64, but stored answers also carry numeric strings.
func rawFloat(raw interface{}) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func rawString(raw interface{}) (string, bool) {
	switch v := raw.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case int:
		return strconv.Itoa(v), true
	default:
		return "", false
	}
}

func rawSlice(raw interface{}) ([]interface{}, bool) {
	switch v := raw.(type) {
	case []interface{}:
		return v, true
	case []string:
		out := make([]interface{}, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out, true
	case []float64:
		out := make([]interface{}, len(v))
		for i, f := range v {
			out[i] = f
		}
		return out, true
	default:
		return nil, false
	}
}

func clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func round2(value float64) float64 {
	return math.Round(value*100) / 100
}
