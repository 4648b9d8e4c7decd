package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveVariables(t *testing.T) {
	execContext := map[string]any{
		"name":  "world",
		"count": 3,
		"nested": map[string]any{
			"inner": map[string]any{"value": "deep"},
		},
		"items":    []any{"a", "b"},
		"nilValue": nil,
	}

	tests := []struct {
		name  string
		input any
		want  any
	}{
		{
			name:  "plain string untouched",
			input: "no placeholders here",
			want:  "no placeholders here",
		},
		{
			name:  "single placeholder",
			input: "hello {{name}}",
			want:  "hello world",
		},
		{
			name:  "multiple placeholders",
			input: "{{name}} x{{count}}",
			want:  "world x3",
		},
		{
			name:  "dotted path",
			input: "{{nested.inner.value}}",
			want:  "deep",
		},
		{
			name:  "missing variable left as-is",
			input: "value: {{missing}}",
			want:  "value: {{missing}}",
		},
		{
			name:  "nil value left as-is",
			input: "{{nilValue}}",
			want:  "{{nilValue}}",
		},
		{
			name:  "missing path segment left as-is",
			input: "{{nested.missing.value}}",
			want:  "{{nested.missing.value}}",
		},
		{
			name:  "pure placeholder is stringified",
			input: "{{count}}",
			want:  "3",
		},
		{
			name:  "non-string passthrough",
			input: 42,
			want:  42,
		},
		{
			name: "recurses into maps",
			input: map[string]any{
				"greeting": "hi {{name}}",
				"deep":     map[string]any{"v": "{{count}}"},
			},
			want: map[string]any{
				"greeting": "hi world",
				"deep":     map[string]any{"v": "3"},
			},
		},
		{
			name:  "recurses into slices",
			input: []any{"{{name}}", 7, "{{missing}}"},
			want:  []any{"world", 7, "{{missing}}"},
		},
		{
			name:  "whitespace inside braces tolerated",
			input: "{{ name }}",
			want:  "world",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveVariables(tt.input, execContext))
		})
	}
}

func TestResolveParameters(t *testing.T) {
	execContext := map[string]any{"topic": "news"}

	params := map[string]any{
		"query": "latest {{topic}}",
		"limit": 5,
	}
	resolved := ResolveParameters(params, execContext)
	assert.Equal(t, "latest news", resolved["query"])
	assert.Equal(t, 5, resolved["limit"])

	// Original parameters stay untouched.
	assert.Equal(t, "latest {{topic}}", params["query"])

	assert.Nil(t, ResolveParameters(nil, execContext))
}

func TestLookupPathStructFields(t *testing.T) {
	type inner struct{ Value string }
	execContext := map[string]any{
		"obj": &inner{Value: "from-struct"},
	}
	assert.Equal(t, "from-struct", ResolveVariables("{{obj.Value}}", execContext))
	assert.Equal(t, "{{obj.hidden}}", ResolveVariables("{{obj.hidden}}", execContext))
}
