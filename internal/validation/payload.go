// Package validation checks inbound payloads against the fixed profile and
// workout schemas before anything touches the store. Field sets must match the
// expected set exactly; both missing and extra fields fail. The first violated
// rule is reported and nothing is aggregated.
package validation

import (
	"math"
	"sort"
	"strings"
)

func isString(v any) bool {
	_, ok := v.(string)
	return ok
}

func isBool(v any) bool {
	_, ok := v.(bool)
	return ok
}

// isNumber accepts any JSON number. encoding/json decodes all of them into
// float64, but int is tolerated for payloads built in Go code (tests, seeds).
func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int32, int64:
		return true
	}
	return false
}

// isWholeNumber accepts numbers without a fractional part.
func isWholeNumber(v any) bool {
	switch n := v.(type) {
	case int, int32, int64:
		return true
	case float64:
		return n == math.Trunc(n)
	case float32:
		return float64(n) == math.Trunc(float64(n))
	}
	return false
}

func isStringList(v any) bool {
	list, ok := v.([]any)
	if !ok {
		// Payloads assembled in Go may carry []string directly.
		_, ok = v.([]string)
		return ok
	}
	for _, item := range list {
		if !isString(item) {
			return false
		}
	}
	return true
}

func asObject(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func asList(v any) ([]any, bool) {
	l, ok := v.([]any)
	return l, ok
}

// listLen returns the length of a JSON list value regardless of whether it was
// decoded as []any or built in Go as []string.
func listLen(v any) (int, bool) {
	switch l := v.(type) {
	case []any:
		return len(l), true
	case []string:
		return len(l), true
	}
	return 0, false
}

// hasExactKeys reports whether m's key set equals keys.
func hasExactKeys(m map[string]any, keys ...string) bool {
	if len(m) != len(keys) {
		return false
	}
	for _, k := range keys {
		if _, ok := m[k]; !ok {
			return false
		}
	}
	return true
}

// NumberValue widens any JSON-style numeric value to float64.
func NumberValue(v any) (float64, bool) {
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
	}
	return 0, false
}

func keyList(keys []string) string {
	sorted := append([]string(nil), keys...)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}
