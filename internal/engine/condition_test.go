package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluateCondition(t *testing.T) {
	execContext := map[string]any{
		"flag":      true,
		"offFlag":   false,
		"status":    "ready",
		"count":     0,
		"total":     7,
		"empty":     "",
		"nilValue":  nil,
		"items":     []any{1},
		"noItems":   []any{},
		"settings":  map[string]any{"a": 1},
		"boolStr":   "true",
		"statusNum": 200,
	}

	tests := []struct {
		name string
		cond string
		want bool
	}{
		{"empty condition runs", "", true},
		{"whitespace condition runs", "   ", true},

		{"equals match", `status == "ready"`, true},
		{"equals mismatch", `status == "done"`, false},
		{"equals unquoted", "status == ready", true},
		{"equals single quotes", "status == 'ready'", true},
		{"equals bool true", "flag == true", true},
		{"equals bool against false value", "offFlag == true", false},
		{"equals string form of bool", "boolStr == true", true},
		{"equals number", "statusNum == 200", true},
		{"equals missing variable never matches", "missing == anything", false},
		{"equals nil never matches", "nilValue == x", false},

		{"not equals mismatch", `status != "done"`, true},
		{"not equals match", `status != "ready"`, false},
		{"not equals missing variable", "missing != anything", true},

		{"exists present", "status exists", true},
		{"exists missing", "missing exists", false},
		{"exists nil", "nilValue exists", false},
		{"exists zero value counts", "count exists", true},

		{"truthy bool", "flag", true},
		{"truthy false bool", "offFlag", false},
		{"truthy string", "status", true},
		{"truthy empty string", "empty", false},
		{"truthy zero", "count", false},
		{"truthy nonzero", "total", true},
		{"truthy missing", "missing", false},
		{"truthy slice", "items", true},
		{"truthy empty slice", "noItems", false},
		{"truthy map", "settings", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EvaluateCondition(tt.cond, execContext), "condition %q", tt.cond)
		})
	}
}

func TestParseCondition(t *testing.T) {
	tests := []struct {
		raw      string
		kind     conditionKind
		variable string
		expected string
	}{
		{`a == "b"`, condEquals, "a", "b"},
		{"a != b", condNotEquals, "a", "b"},
		{"a exists", condExists, "a", ""},
		{"a", condTruthy, "a", ""},
		// == wins over a trailing exists.
		{"a == b exists", condEquals, "a", "b exists"},
	}
	for _, tt := range tests {
		cond := parseCondition(tt.raw)
		assert.Equal(t, tt.kind, cond.kind, "raw %q", tt.raw)
		assert.Equal(t, tt.variable, cond.variable, "raw %q", tt.raw)
		assert.Equal(t, tt.expected, cond.expected, "raw %q", tt.raw)
	}
}
