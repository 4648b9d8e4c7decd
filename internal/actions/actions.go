// Package actions contains the built-in workflow actions and their
// registration entry point.
package actions

import (
	"fmt"

	"github.com/csw48/AI-autonomous-platform/internal/engine"
	"github.com/csw48/AI-autonomous-platform/internal/notion"
	"github.com/csw48/AI-autonomous-platform/internal/provider"
)

// Deps carries the external services the built-in actions need. Nil fields
// are allowed; actions that depend on a missing service fail at execution
// time, not at registration.
type Deps struct {
	Providers *provider.Registry
	Searcher  DocumentSearcher
	Notion    *notion.Client
}

// RegisterBuiltins registers every built-in action on the given registry.
func RegisterBuiltins(reg *engine.Registry, deps Deps) {
	reg.Register(func() engine.Action { return &EchoAction{} })
	reg.Register(func() engine.Action { return &LLMQueryAction{providers: deps.Providers} })
	reg.Register(func() engine.Action { return &DocSearchAction{searcher: deps.Searcher} })
	reg.Register(func() engine.Action { return &HTTPRequestAction{} })
	reg.Register(func() engine.Action { return &NotionUpdateAction{client: deps.Notion} })
	reg.Register(func() engine.Action { return &DataTransformAction{} })
}

func requireString(params map[string]any, key, actionType string) (string, error) {
	v, ok := params[key]
	if !ok {
		return "", fmt.Errorf("%s action requires %q parameter", actionType, key)
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s action parameter %q must be a string", actionType, key)
	}
	return s, nil
}

// numParam reads an optional numeric parameter, tolerating the float64 that
// JSON decoding produces for every number.
func numParam(params map[string]any, key string, def float64) float64 {
	v, ok := params[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	default:
		return def
	}
}
