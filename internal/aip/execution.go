package aip

import (
	"fmt"
	"time"
)

// ExecutionStatus is the lifecycle state of a workflow execution.
type ExecutionStatus string

const (
	ExecutionPending   ExecutionStatus = "pending"
	ExecutionRunning   ExecutionStatus = "running"
	ExecutionCompleted ExecutionStatus = "completed"
	ExecutionFailed    ExecutionStatus = "failed"
	ExecutionCancelled ExecutionStatus = "cancelled"
)

// Terminal reports whether the status permits no further transitions.
func (s ExecutionStatus) Terminal() bool {
	switch s {
	case ExecutionCompleted, ExecutionFailed, ExecutionCancelled:
		return true
	}
	return false
}

// Execution is one run of a workflow against a given input.
// Context accumulates every variable bound during the run; Output is only
// populated when the run completes.
type Execution struct {
	ID          string          `json:"id"`
	WorkflowID  string          `json:"workflow_id"`
	Status      ExecutionStatus `json:"status"`
	CurrentStep int             `json:"current_step"`
	Input       map[string]any  `json:"input_data,omitempty"`
	Output      map[string]any  `json:"output_data,omitempty"`
	Context     map[string]any  `json:"context,omitempty"`
	Error       *string         `json:"error_message,omitempty"`
	ErrorStep   *int            `json:"error_step,omitempty"`
	StartedAt   *time.Time      `json:"started_at,omitempty"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
	DurationMS  *int64          `json:"duration_ms,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Finish stamps the completion time and, when a start time exists, the
// derived duration. Duration is never set without both timestamps.
func (e *Execution) Finish(at time.Time) {
	e.CompletedAt = &at
	if e.StartedAt != nil {
		ms := at.Sub(*e.StartedAt).Milliseconds()
		e.DurationMS = &ms
	}
}

// StepStatus is the lifecycle state of a single step attempt.
type StepStatus string

const (
	StepPending   StepStatus = "pending"
	StepRunning   StepStatus = "running"
	StepCompleted StepStatus = "completed"
	StepFailed    StepStatus = "failed"
	StepSkipped   StepStatus = "skipped"
)

// StepExecution records one attempted or skipped step within an execution.
// Parameters holds the raw pre-resolution block; Input is the resolved
// snapshot fed to the action. RetryCount is reserved for a future retry
// layer and is never incremented by the engine.
type StepExecution struct {
	ID          string         `json:"id"`
	ExecutionID string         `json:"execution_id"`
	StepIndex   int            `json:"step_index"`
	StepName    string         `json:"step_name,omitempty"`
	ActionType  string         `json:"action_type"`
	Status      StepStatus     `json:"status"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	Input       map[string]any `json:"input_data,omitempty"`
	Output      any            `json:"output_data,omitempty"`
	Error       *string        `json:"error_message,omitempty"`
	RetryCount  int            `json:"retry_count"`
	StartedAt   *time.Time     `json:"started_at,omitempty"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`
	DurationMS  *int64         `json:"duration_ms,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// Finish stamps the completion time and derived duration.
func (s *StepExecution) Finish(at time.Time) {
	s.CompletedAt = &at
	if s.StartedAt != nil {
		ms := at.Sub(*s.StartedAt).Milliseconds()
		s.DurationMS = &ms
	}
}

// DefaultOutputVariable is the generated context key for a step that does
// not declare an output variable name.
func DefaultOutputVariable(stepIndex int) string {
	return fmt.Sprintf("step_%d_output", stepIndex)
}
