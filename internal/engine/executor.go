package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	"github.com/csw48/AI-autonomous-platform/internal/repository"
)

// Executor owns the execution state machine. One execution runs on a single
// goroutine from start to completion; steps are strictly ordered because
// later steps may reference earlier outputs by name. Distinct executions may
// run concurrently without shared mutable state beyond the repositories.
type Executor struct {
	workflows  repository.WorkflowRepository
	executions repository.ExecutionRepository
	registry   *Registry
	runner     *StepRunner
}

// NewExecutor wires an Executor from its collaborators.
func NewExecutor(workflows repository.WorkflowRepository, executions repository.ExecutionRepository, steps repository.StepExecutionRepository, registry *Registry) *Executor {
	return &Executor{
		workflows:  workflows,
		executions: executions,
		registry:   registry,
		runner:     NewStepRunner(registry, steps),
	}
}

// Run executes the workflow synchronously and returns only after the
// execution reaches a terminal state. The returned execution is non-nil
// whenever a run was actually started, including on failure.
func (e *Executor) Run(ctx context.Context, workflowID string, input map[string]any) (*aip.Execution, error) {
	wf, err := e.workflows.Get(ctx, workflowID)
	if err != nil {
		return nil, fmt.Errorf("load workflow %s: %w", workflowID, err)
	}
	if !wf.Enabled {
		return nil, fmt.Errorf("workflow %s: %w", workflowID, ErrWorkflowDisabled)
	}

	exec := &aip.Execution{
		ID:         aip.GenerateID("exec"),
		WorkflowID: wf.ID,
		Status:     aip.ExecutionPending,
		Input:      input,
		Context:    map[string]any{},
		CreatedAt:  time.Now(),
	}
	if err := e.executions.Create(ctx, exec); err != nil {
		return nil, fmt.Errorf("create execution: %w", err)
	}

	slog.Info("starting workflow execution", "execution", exec.ID, "workflow", wf.ID)

	// Seed context: workflow defaults first, caller input wins on collision.
	execContext := map[string]any{}
	for k, v := range wf.Variables {
		execContext[k] = v
	}
	for k, v := range input {
		execContext[k] = v
	}

	now := time.Now()
	exec.Status = aip.ExecutionRunning
	exec.StartedAt = &now
	if err := e.executions.Update(ctx, exec); err != nil {
		return exec, fmt.Errorf("mark execution running: %w", err)
	}

	for stepIndex, step := range wf.Steps {
		if cancelled, err := e.cancelledExternally(ctx, exec); err == nil && cancelled {
			slog.Info("execution cancelled, stopping before step", "execution", exec.ID, "step", stepIndex)
			return exec, nil
		}

		if !EvaluateCondition(step.Condition, execContext) {
			slog.Info("skipping step due to condition", "execution", exec.ID, "step", stepIndex, "condition", step.Condition)
			if err := e.runner.RecordSkipped(ctx, exec.ID, stepIndex, step); err != nil {
				slog.Warn("failed to record skipped step", "execution", exec.ID, "step", stepIndex, "err", err)
			}
			continue
		}

		result, stepErr := e.runner.Run(ctx, exec.ID, stepIndex, step, execContext)
		if stepErr != nil {
			slog.Error("step failed", "execution", exec.ID, "step", stepIndex, "err", stepErr)
			msg := stepErr.Error()
			idx := stepIndex
			exec.Status = aip.ExecutionFailed
			exec.Error = &msg
			exec.ErrorStep = &idx
			exec.Finish(time.Now())
			if err := e.executions.Update(ctx, exec); err != nil {
				slog.Warn("failed to persist failed execution", "execution", exec.ID, "err", err)
			}
			return exec, stepErr
		}

		outputVar := step.OutputVariable
		if outputVar == "" {
			outputVar = aip.DefaultOutputVariable(stepIndex)
		}
		execContext[outputVar] = result

		// Re-check before persisting progress so a cancel that landed while
		// the step ran is not overwritten with a running status.
		if cancelled, err := e.cancelledExternally(ctx, exec); err == nil && cancelled {
			slog.Info("execution cancelled during step", "execution", exec.ID, "step", stepIndex)
			return exec, nil
		}

		exec.Context = snapshot(execContext)
		exec.CurrentStep = stepIndex + 1
		if err := e.executions.Update(ctx, exec); err != nil {
			slog.Warn("failed to persist execution progress", "execution", exec.ID, "err", err)
		}
	}

	exec.Status = aip.ExecutionCompleted
	exec.Output = snapshot(execContext)
	exec.Context = exec.Output
	exec.Finish(time.Now())
	if err := e.executions.Update(ctx, exec); err != nil {
		return exec, fmt.Errorf("persist completed execution: %w", err)
	}

	slog.Info("workflow execution completed", "execution", exec.ID, "workflow", wf.ID)
	return exec, nil
}

// Cancel transitions a pending or running execution to cancelled. It does
// not interrupt a step already in flight; the run loop checks for
// cancellation before each step.
func (e *Executor) Cancel(ctx context.Context, executionID string) error {
	exec, err := e.executions.Get(ctx, executionID)
	if err != nil {
		return fmt.Errorf("load execution %s: %w", executionID, err)
	}
	if exec.Status != aip.ExecutionPending && exec.Status != aip.ExecutionRunning {
		return &InvalidTransitionError{ExecutionID: executionID, Status: exec.Status}
	}

	exec.Status = aip.ExecutionCancelled
	exec.Finish(time.Now())
	if err := e.executions.Update(ctx, exec); err != nil {
		return fmt.Errorf("persist cancelled execution: %w", err)
	}

	slog.Info("cancelled execution", "execution", executionID)
	return nil
}

// ListActions exposes the registry's catalog for discovery.
func (e *Executor) ListActions() map[string]string {
	return e.registry.List()
}

// cancelledExternally reloads the execution and reports whether an external
// Cancel won the race since the last step boundary.
func (e *Executor) cancelledExternally(ctx context.Context, exec *aip.Execution) (bool, error) {
	stored, err := e.executions.Get(ctx, exec.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	if stored.Status == aip.ExecutionCancelled {
		exec.Status = stored.Status
		exec.CompletedAt = stored.CompletedAt
		exec.DurationMS = stored.DurationMS
		return true, nil
	}
	return false, nil
}

func snapshot(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
