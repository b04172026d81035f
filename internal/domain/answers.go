package domain

import (
	"fmt"
	"strings"
)

// AnswerMap maps question ids to answer values. Values are string, bool or
// []string; anything else only appears when decoded from a foreign snapshot.
type AnswerMap map[string]any

// Clone returns a shallow copy with list values copied.
func (m AnswerMap) Clone() AnswerMap {
	out := make(AnswerMap, len(m))
	for k, v := range m {
		if list, ok := v.([]string); ok {
			v = append([]string(nil), list...)
		}
		out[k] = v
	}
	return out
}

// NormalizeAnswerValue converts JSON-decoded values into the shapes the
// collector produces. Lists made only of strings become []string.
func NormalizeAnswerValue(v any) any {
	items, ok := v.([]any)
	if !ok {
		return v
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return v
		}
		out = append(out, s)
	}
	return out
}

// FormatAnswer renders a value for display: lists joined with ", ",
// booleans as yes/no, everything else via fmt.
func FormatAnswer(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "yes"
		}
		return "no"
	case []string:
		return strings.Join(val, ", ")
	case []any:
		parts := make([]string, len(val))
		for i, item := range val {
			parts[i] = FormatAnswer(item)
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}

// AnswerBool interprets a stored value as a confirm pre-fill.
func AnswerBool(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		return val != ""
	case []string:
		return len(val) > 0
	case []any:
		return len(val) > 0
	case float64:
		return val != 0
	default:
		return true
	}
}

// AnswerList interprets a stored value as a multiselect pre-fill.
func AnswerList(v any) []string {
	switch val := NormalizeAnswerValue(v).(type) {
	case []string:
		return val
	default:
		return nil
	}
}

// SplitList splits comma-separated input, trimming entries and dropping
// empty ones. Order and duplicates are preserved.
func SplitList(input string) []string {
	out := []string{}
	for _, part := range strings.Split(input, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
