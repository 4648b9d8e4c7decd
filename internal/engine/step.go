package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	"github.com/csw48/AI-autonomous-platform/internal/repository"
)

// StepRunner executes exactly one step definition against a live context,
// producing a persisted StepExecution record.
type StepRunner struct {
	registry *Registry
	steps    repository.StepExecutionRepository
}

// NewStepRunner creates a StepRunner backed by the given registry and store.
func NewStepRunner(registry *Registry, steps repository.StepExecutionRepository) *StepRunner {
	return &StepRunner{registry: registry, steps: steps}
}

// Run validates, resolves, and executes one step. On success it returns the
// action result for the executor to bind into context. A missing action type
// is a hard failure before any step record is written; validate and execute
// failures are recorded on the step row and propagated as a StepError.
func (r *StepRunner) Run(ctx context.Context, executionID string, stepIndex int, step aip.StepDefinition, execContext map[string]any) (any, error) {
	action, ok := r.registry.Resolve(step.Action)
	if !ok {
		return nil, &UnknownActionError{ActionType: step.Action}
	}

	now := time.Now()
	record := &aip.StepExecution{
		ID:          aip.GenerateID("step"),
		ExecutionID: executionID,
		StepIndex:   stepIndex,
		StepName:    step.Name,
		ActionType:  step.Action,
		Status:      aip.StepRunning,
		Parameters:  step.Parameters,
		StartedAt:   &now,
		CreatedAt:   now,
	}
	if err := r.steps.Create(ctx, record); err != nil {
		return nil, &StepError{StepIndex: stepIndex, ActionType: step.Action, Err: err}
	}

	if err := action.Validate(step.Parameters); err != nil {
		r.fail(ctx, record, err)
		return nil, &StepError{StepIndex: stepIndex, ActionType: step.Action, Err: err}
	}

	resolved := ResolveParameters(step.Parameters, execContext)
	record.Input = resolved

	result, err := action.Execute(ctx, resolved, execContext)
	if err != nil {
		r.fail(ctx, record, err)
		return nil, &StepError{StepIndex: stepIndex, ActionType: step.Action, Err: err}
	}

	record.Status = aip.StepCompleted
	record.Output = result
	record.Finish(time.Now())
	if err := r.steps.Update(ctx, record); err != nil {
		slog.Warn("failed to persist completed step", "execution", executionID, "step", stepIndex, "err", err)
	}
	return result, nil
}

// RecordSkipped persists a skipped step row. Skipped steps carry no
// timestamps and no output.
func (r *StepRunner) RecordSkipped(ctx context.Context, executionID string, stepIndex int, step aip.StepDefinition) error {
	record := &aip.StepExecution{
		ID:          aip.GenerateID("step"),
		ExecutionID: executionID,
		StepIndex:   stepIndex,
		StepName:    step.Name,
		ActionType:  step.Action,
		Status:      aip.StepSkipped,
		Parameters:  step.Parameters,
		CreatedAt:   time.Now(),
	}
	return r.steps.Create(ctx, record)
}

func (r *StepRunner) fail(ctx context.Context, record *aip.StepExecution, cause error) {
	msg := cause.Error()
	record.Status = aip.StepFailed
	record.Error = &msg
	record.Finish(time.Now())
	if err := r.steps.Update(ctx, record); err != nil {
		slog.Warn("failed to persist failed step", "execution", record.ExecutionID, "step", record.StepIndex, "err", err)
	}
}
