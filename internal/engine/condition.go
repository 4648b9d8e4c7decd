package engine

import (
	"fmt"
	"log/slog"
	"strings"
)

// conditionKind enumerates the four supported condition forms. The grammar is
// intentionally minimal; see parseCondition for the precedence order.
type conditionKind int

const (
	condEquals conditionKind = iota
	condNotEquals
	condExists
	condTruthy
)

type condition struct {
	kind     conditionKind
	variable string
	expected string
}

// parseCondition splits a raw condition string into its variant. Precedence:
// " == ", then " != ", then trailing " exists", otherwise the whole string is
// a variable name checked for truthiness.
func parseCondition(raw string) condition {
	if v, expected, ok := strings.Cut(raw, " == "); ok {
		return condition{kind: condEquals, variable: strings.TrimSpace(v), expected: stripQuotes(expected)}
	}
	if v, expected, ok := strings.Cut(raw, " != "); ok {
		return condition{kind: condNotEquals, variable: strings.TrimSpace(v), expected: stripQuotes(expected)}
	}
	if strings.HasSuffix(raw, " exists") {
		v := strings.TrimSpace(strings.TrimSuffix(raw, " exists"))
		return condition{kind: condExists, variable: v}
	}
	return condition{kind: condTruthy, variable: strings.TrimSpace(raw)}
}

func stripQuotes(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"'`)
}

// EvaluateCondition decides whether a step should run. An empty condition
// always runs. Comparisons are on the string form of the context value, so
// `flag == true` does not match a context value "false" but also treats the
// boolean true and the string "true" alike. Evaluation never propagates an
// error: the bias is toward forward progress, so a condition that cannot be
// evaluated runs the step and logs the reason.
func EvaluateCondition(raw string, execContext map[string]any) bool {
	if strings.TrimSpace(raw) == "" {
		return true
	}

	cond := parseCondition(raw)
	if cond.variable == "" {
		slog.Warn("condition has no variable, executing step", "condition", raw)
		return true
	}

	val, present := execContext[cond.variable]
	switch cond.kind {
	case condEquals:
		return stringForm(val) == cond.expected
	case condNotEquals:
		return stringForm(val) != cond.expected
	case condExists:
		return present && val != nil
	default:
		return isTruthy(val)
	}
}

// stringForm mirrors the source system's str() comparison semantics,
// including the "<nil>"-never-matches behavior for absent variables.
func stringForm(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%v", v)
}

// isTruthy converts a context value to a boolean.
func isTruthy(v any) bool {
	if v == nil {
		return false
	}
	switch val := v.(type) {
	case bool:
		return val
	case string:
		return val != ""
	case int:
		return val != 0
	case int64:
		return val != 0
	case float64:
		return val != 0
	case []any:
		return len(val) > 0
	case map[string]any:
		return len(val) > 0
	default:
		return true
	}
}
