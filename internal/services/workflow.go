// Package services holds the application layer between the REST API and the
// engine/repository packages: workflow and template management plus the cron
// scheduler.
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	"github.com/csw48/AI-autonomous-platform/internal/engine"
	"github.com/csw48/AI-autonomous-platform/internal/repository"
)

// WorkflowService manages workflow definitions and delegates execution to
// the engine. Definitions are validated against the action registry before
// they are stored, so a stored workflow can always at least start.
type WorkflowService struct {
	repo     repository.WorkflowRepository
	execRepo repository.ExecutionRepository
	stepRepo repository.StepExecutionRepository
	registry *engine.Registry
	executor *engine.Executor
}

func NewWorkflowService(
	repo repository.WorkflowRepository,
	execRepo repository.ExecutionRepository,
	stepRepo repository.StepExecutionRepository,
	registry *engine.Registry,
	executor *engine.Executor,
) *WorkflowService {
	return &WorkflowService{
		repo:     repo,
		execRepo: execRepo,
		stepRepo: stepRepo,
		registry: registry,
		executor: executor,
	}
}

// validateDefinition checks a workflow definition against the registry.
// Actions also re-validate parameters at run time; this catches mistakes at
// definition time where the author can still fix them.
func (s *WorkflowService) validateDefinition(wf *aip.Workflow) error {
	if wf.Name == "" {
		return &engine.DefinitionError{StepIndex: -1, Reason: "name is required"}
	}
	if len(wf.Steps) == 0 {
		return &engine.DefinitionError{StepIndex: -1, Reason: "workflow must have at least one step"}
	}
	for i, step := range wf.Steps {
		if step.Action == "" {
			return &engine.DefinitionError{StepIndex: i, Reason: "action type is required"}
		}
		action, ok := s.registry.Resolve(step.Action)
		if !ok {
			return &engine.DefinitionError{StepIndex: i, Reason: fmt.Sprintf("unknown action type: %s", step.Action)}
		}
		if err := action.Validate(step.Parameters); err != nil {
			return &engine.DefinitionError{StepIndex: i, Reason: err.Error()}
		}
	}
	return nil
}

func (s *WorkflowService) Create(ctx context.Context, wf *aip.Workflow) error {
	if err := s.validateDefinition(wf); err != nil {
		return err
	}
	if wf.ID == "" {
		wf.ID = aip.GenerateID("wf")
	}
	if wf.Variables == nil {
		wf.Variables = map[string]any{}
	}
	wf.Version = 1
	now := time.Now()
	wf.CreatedAt = now
	wf.UpdatedAt = now
	return s.repo.Create(ctx, wf)
}

func (s *WorkflowService) Get(ctx context.Context, id string) (*aip.Workflow, error) {
	return s.repo.Get(ctx, id)
}

func (s *WorkflowService) List(ctx context.Context, enabledOnly bool, limit, offset int) ([]*aip.Workflow, error) {
	return s.repo.List(ctx, enabledOnly, limit, offset)
}

// Update validates the new definition and bumps the version when the steps
// or variables changed. Metadata-only edits keep the version.
func (s *WorkflowService) Update(ctx context.Context, wf *aip.Workflow) error {
	if err := s.validateDefinition(wf); err != nil {
		return err
	}
	existing, err := s.repo.Get(ctx, wf.ID)
	if err != nil {
		return err
	}

	wf.Version = existing.Version
	if definitionChanged(existing, wf) {
		wf.Version = existing.Version + 1
	}
	wf.CreatedAt = existing.CreatedAt
	wf.CreatedBy = existing.CreatedBy
	wf.TemplateID = existing.TemplateID
	wf.UpdatedAt = time.Now()
	return s.repo.Update(ctx, wf)
}

func (s *WorkflowService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Execute runs a workflow synchronously and returns the finished execution.
func (s *WorkflowService) Execute(ctx context.Context, workflowID string, input map[string]any) (*aip.Execution, error) {
	return s.executor.Run(ctx, workflowID, input)
}

func (s *WorkflowService) CancelExecution(ctx context.Context, executionID string) error {
	return s.executor.Cancel(ctx, executionID)
}

func (s *WorkflowService) GetExecution(ctx context.Context, executionID string) (*aip.Execution, error) {
	return s.execRepo.Get(ctx, executionID)
}

func (s *WorkflowService) ListExecutions(ctx context.Context, filter repository.ExecutionFilter) ([]*aip.Execution, int, error) {
	return s.execRepo.List(ctx, filter)
}

// GetExecutionSteps returns the per-step records of an execution in step
// order.
func (s *WorkflowService) GetExecutionSteps(ctx context.Context, executionID string) ([]*aip.StepExecution, error) {
	if _, err := s.execRepo.Get(ctx, executionID); err != nil {
		return nil, err
	}
	return s.stepRepo.ListByExecution(ctx, executionID)
}

// ListAvailableActions returns the registered action types with descriptions.
func (s *WorkflowService) ListAvailableActions() map[string]string {
	return s.registry.List()
}

func definitionChanged(old, new *aip.Workflow) bool {
	if len(old.Steps) != len(new.Steps) {
		return true
	}
	for i := range old.Steps {
		if !stepEqual(old.Steps[i], new.Steps[i]) {
			return true
		}
	}
	return !mapEqual(old.Variables, new.Variables)
}

func stepEqual(a, b aip.StepDefinition) bool {
	return a.Name == b.Name &&
		a.Action == b.Action &&
		a.OutputVariable == b.OutputVariable &&
		a.Condition == b.Condition &&
		mapEqual(a.Parameters, b.Parameters)
}

func mapEqual(a, b map[string]any) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		bv, ok := b[k]
		if !ok || fmt.Sprintf("%v", v) != fmt.Sprintf("%v", bv) {
			return false
		}
	}
	return true
}
