package actions

import (
	"context"
	"fmt"
)

// EchoAction returns its resolved value parameter unchanged.
type EchoAction struct{}

func (a *EchoAction) Type() string        { return "echo" }
func (a *EchoAction) Description() string { return "Return the value parameter unchanged" }

func (a *EchoAction) Validate(params map[string]any) error {
	if _, ok := params["value"]; !ok {
		return fmt.Errorf("echo action requires %q parameter", "value")
	}
	return nil
}

func (a *EchoAction) Execute(ctx context.Context, params map[string]any, execContext map[string]any) (any, error) {
	return params["value"], nil
}
