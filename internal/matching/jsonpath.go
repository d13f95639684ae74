package matching

import (
	"encoding/json"
	"reflect"

	"github.com/ohler55/ojg/jp"
)

// MatchJSONPath evaluates JSONPath conditions against a JSON request body.
// Every condition must match. A body that is not valid JSON never matches.
//
// Expected values of the form map["exists"]bool turn the condition into an
// existence check instead of a value comparison.
func MatchJSONPath(conditions map[string]any, body []byte) bool {
	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return false
	}

	for path, expected := range conditions {
		if !matchSingleJSONPath(path, expected, data) {
			return false
		}
	}
	return true
}

func matchSingleJSONPath(path string, expected, data any) bool {
	expr, err := jp.ParseString(path)
	if err != nil {
		return false
	}

	results := expr.Get(data)

	if exists, ok := existenceCheck(expected); ok {
		return exists == (len(results) > 0)
	}

	// Wildcard paths may yield multiple results; any match suffices.
	for _, result := range results {
		if valuesEqual(result, expected) {
			return true
		}
	}
	return false
}

// existenceCheck recognizes the {"exists": bool} condition form.
func existenceCheck(expected any) (want bool, ok bool) {
	m, isMap := expected.(map[string]any)
	if !isMap || len(m) != 1 {
		return false, false
	}
	v, present := m["exists"]
	if !present {
		return false, false
	}
	b, isBool := v.(bool)
	return b, isBool
}

// valuesEqual compares a JSONPath result with an expected value, normalizing
// numeric types since decoded JSON numbers arrive as float64.
func valuesEqual(actual, expected any) bool {
	if reflect.DeepEqual(actual, expected) {
		return true
	}

	af, aok := toFloat(actual)
	ef, eok := toFloat(expected)
	return aok && eok && af == ef
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
