// Package engine executes workflows: it dispatches steps to registered
// actions, threads a shared variable context between them, and records
// execution and step state through the repository layer.
package engine

import (
	"context"
	"log/slog"
	"sync"
)

// Action is a pluggable unit of step logic identified by a stable type string.
// Implementations must be stateless across calls; the registry constructs a
// fresh instance per invocation.
type Action interface {
	// Type returns the unique action type identifier.
	Type() string
	// Description returns a human-readable description for discovery/UI.
	Description() string
	// Validate checks the raw parameter block. It is called both at workflow
	// definition time and again immediately before each execution attempt.
	Validate(params map[string]any) error
	// Execute runs the action with resolved parameters against the current
	// execution context and returns the value bound to the step's output
	// variable.
	Execute(ctx context.Context, params map[string]any, execContext map[string]any) (any, error)
}

// Factory produces a fresh Action instance.
type Factory func() Action

// Registry maps action type strings to factories. It is safe for concurrent
// lookups from multiple running executions.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty action registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// Register adds a factory under the type reported by a probe instance.
// Re-registration for the same type is not an error: the last registration
// wins and the overwrite is logged.
func (r *Registry) Register(f Factory) {
	action := f()
	actionType := action.Type()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[actionType]; exists {
		slog.Warn("overwriting existing action registration", "type", actionType)
	}
	r.factories[actionType] = f
	slog.Info("registered action", "type", actionType)
}

// Resolve returns a fresh instance of the action for the given type.
func (r *Registry) Resolve(actionType string) (Action, bool) {
	r.mu.RLock()
	f, ok := r.factories[actionType]
	r.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return f(), true
}

// IsRegistered reports whether an action type is known.
func (r *Registry) IsRegistered(actionType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[actionType]
	return ok
}

// List returns all registered action types mapped to their descriptions.
func (r *Registry) List() map[string]string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]string, len(r.factories))
	for actionType, f := range r.factories {
		out[actionType] = f().Description()
	}
	return out
}
