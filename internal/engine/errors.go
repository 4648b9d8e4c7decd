package engine

import (
	"errors"
	"fmt"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
)

// ErrWorkflowDisabled is returned when a run is requested for a workflow
// whose enabled flag is false.
var ErrWorkflowDisabled = errors.New("workflow is disabled")

// DefinitionError reports an invalid workflow definition: zero steps, an
// unregistered action type, or parameters an action rejects. It is surfaced
// at create/update time, before any execution exists.
type DefinitionError struct {
	StepIndex int // -1 for workflow-level problems
	Reason    string
}

func (e *DefinitionError) Error() string {
	if e.StepIndex < 0 {
		return fmt.Sprintf("invalid workflow: %s", e.Reason)
	}
	return fmt.Sprintf("invalid workflow: step %d: %s", e.StepIndex, e.Reason)
}

// UnknownActionError reports a step whose action type is not in the registry
// at run time (configuration drift between definition and run).
type UnknownActionError struct {
	ActionType string
}

func (e *UnknownActionError) Error() string {
	return fmt.Sprintf("unknown action type: %s", e.ActionType)
}

// StepError wraps a failure from a step's validate or execute call and pins
// it to the failing step index.
type StepError struct {
	StepIndex  int
	ActionType string
	Err        error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%s): %v", e.StepIndex, e.ActionType, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// InvalidTransitionError reports a cancel request against an execution that
// is already in a terminal state.
type InvalidTransitionError struct {
	ExecutionID string
	Status      aip.ExecutionStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot cancel execution %s in status %q", e.ExecutionID, e.Status)
}
