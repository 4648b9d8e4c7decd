package engine

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
)

var placeholderPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// ResolveVariables substitutes {{path.to.value}} placeholders in value with
// values from the execution context, recursing into maps and slices.
// A placeholder whose path is missing or resolves to nil is left unchanged
// so downstream actions (or humans) can detect unresolved bindings.
func ResolveVariables(value any, execContext map[string]any) any {
	switch v := value.(type) {
	case string:
		return resolveString(v, execContext)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			out[k] = ResolveVariables(item, execContext)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = ResolveVariables(item, execContext)
		}
		return out
	default:
		return value
	}
}

// ResolveParameters resolves a full parameter block against the context.
func ResolveParameters(params map[string]any, execContext map[string]any) map[string]any {
	if params == nil {
		return nil
	}
	return ResolveVariables(params, execContext).(map[string]any)
}

func resolveString(s string, execContext map[string]any) string {
	return placeholderPattern.ReplaceAllStringFunc(s, func(match string) string {
		path := strings.TrimSpace(strings.Trim(match, "{}"))
		val, ok := lookupPath(path, execContext)
		if !ok || val == nil {
			return match
		}
		// The resolved value is always stringified, even when the whole
		// string is a single placeholder. Step results pulled through
		// {{x}} therefore arrive as strings; callers relying on typed
		// values must pass literals instead of placeholders.
		return fmt.Sprintf("%v", val)
	})
}

// lookupPath traverses a dotted path ("a.b.c") through nested maps, falling
// back to exported struct fields for non-map values. Any traversal error is
// treated as not-found.
func lookupPath(path string, execContext map[string]any) (any, bool) {
	var current any = execContext
	for _, part := range strings.Split(path, ".") {
		next, ok := access(current, part)
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

func access(v any, key string) (any, bool) {
	if m, ok := v.(map[string]any); ok {
		val, ok := m[key]
		return val, ok
	}

	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		val := rv.MapIndex(reflect.ValueOf(key))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true
	case reflect.Struct:
		f := rv.FieldByName(key)
		if !f.IsValid() || !f.CanInterface() {
			return nil, false
		}
		return f.Interface(), true
	}
	return nil, false
}
