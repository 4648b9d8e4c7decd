package actions

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
)

// DataTransformAction applies a list of extract/filter/map/combine operations
// to execution context variables. Each operation reads a source variable and
// writes into the action output under its target key.
type DataTransformAction struct{}

func (a *DataTransformAction) Type() string        { return "data_transform" }
func (a *DataTransformAction) Description() string { return "Transform context data with extract/filter/map/combine operations" }

func (a *DataTransformAction) Validate(params map[string]any) error {
	ops, ok := params["operations"]
	if !ok {
		return fmt.Errorf("data_transform action requires %q parameter", "operations")
	}
	if _, ok := ops.([]any); !ok {
		return fmt.Errorf("data_transform action parameter %q must be a list", "operations")
	}
	return nil
}

func (a *DataTransformAction) Execute(ctx context.Context, params map[string]any, execContext map[string]any) (any, error) {
	if err := a.Validate(params); err != nil {
		return nil, err
	}
	ops := params["operations"].([]any)
	result := make(map[string]any)

	slog.Info("executing data transformations", "count", len(ops))

	for i, raw := range ops {
		op, ok := raw.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("operation %d is not an object", i)
		}
		opType, _ := op["type"].(string)
		source, _ := op["source"].(string)
		target, _ := op["target"].(string)
		if target == "" {
			return nil, fmt.Errorf("operation %d has no target", i)
		}

		switch opType {
		case "extract":
			path, _ := op["path"].(string)
			result[target] = extract(execContext[source], path)
		case "filter":
			condition, _ := op["condition"].(string)
			filtered, err := filterList(asList(execContext[source]), condition)
			if err != nil {
				return nil, fmt.Errorf("operation %d: %w", i, err)
			}
			result[target] = filtered
		case "map":
			field, _ := op["field"].(string)
			result[target] = mapList(asList(execContext[source]), field)
		case "combine":
			result[target] = combine(op["sources"], execContext)
		default:
			return nil, fmt.Errorf("operation %d has unknown type %q", i, opType)
		}
	}
	return result, nil
}

// extract walks a dotted path through nested maps and lists. Numeric path
// segments index into lists. A failed step yields nil.
func extract(data any, path string) any {
	if path == "" {
		return data
	}
	for _, part := range strings.Split(path, ".") {
		switch v := data.(type) {
		case map[string]any:
			data = v[part]
		case []any:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil
			}
			data = v[idx]
		default:
			return nil
		}
	}
	return data
}

// filterList keeps items for which the condition expression evaluates to
// true. The item is exposed to the expression as "item"; map items also
// expose their keys directly. An empty condition keeps everything.
func filterList(items []any, condition string) ([]any, error) {
	if condition == "" {
		return items, nil
	}
	filtered := make([]any, 0, len(items))
	for _, item := range items {
		env := map[string]any{"item": item}
		if m, ok := item.(map[string]any); ok {
			for k, v := range m {
				env[k] = v
			}
		}
		program, err := expr.Compile(condition, expr.Env(env))
		if err != nil {
			return nil, fmt.Errorf("compile filter condition %q: %w", condition, err)
		}
		out, err := expr.Run(program, env)
		if err != nil {
			return nil, fmt.Errorf("evaluate filter condition %q: %w", condition, err)
		}
		if keep, ok := out.(bool); ok && keep {
			filtered = append(filtered, item)
		}
	}
	return filtered, nil
}

func mapList(items []any, field string) []any {
	mapped := make([]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			mapped = append(mapped, m[field])
		} else {
			mapped = append(mapped, item)
		}
	}
	return mapped
}

func combine(sources any, execContext map[string]any) map[string]any {
	combined := make(map[string]any)
	list, _ := sources.([]any)
	for _, s := range list {
		name, _ := s.(string)
		if m, ok := execContext[name].(map[string]any); ok {
			for k, v := range m {
				combined[k] = v
			}
		}
	}
	return combined
}

func asList(v any) []any {
	list, _ := v.([]any)
	return list
}
