package services

import (
	"context"
	"errors"
	"testing"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	"github.com/csw48/AI-autonomous-platform/internal/engine"
	"github.com/csw48/AI-autonomous-platform/internal/repository"
)

type stubAction struct{ actionType string }

func (a *stubAction) Type() string        { return a.actionType }
func (a *stubAction) Description() string { return "stub" }

func (a *stubAction) Validate(params map[string]any) error {
	if _, ok := params["required"]; !ok {
		return errors.New("missing required parameter")
	}
	return nil
}

func (a *stubAction) Execute(ctx context.Context, params map[string]any, execContext map[string]any) (any, error) {
	return params["required"], nil
}

func newTestWorkflowService(t *testing.T) *WorkflowService {
	t.Helper()
	reg := engine.NewRegistry()
	reg.Register(func() engine.Action { return &stubAction{actionType: "stub"} })

	wfRepo := repository.NewMemoryWorkflowRepository()
	execRepo := repository.NewMemoryExecutionRepository()
	stepRepo := repository.NewMemoryStepExecutionRepository()
	executor := engine.NewExecutor(wfRepo, execRepo, stepRepo, reg)
	return NewWorkflowService(wfRepo, execRepo, stepRepo, reg, executor)
}

func validWorkflow() *aip.Workflow {
	return &aip.Workflow{
		Name:    "test",
		Enabled: true,
		Steps: []aip.StepDefinition{
			{Name: "one", Action: "stub", Parameters: map[string]any{"required": "x"}},
		},
	}
}

func TestWorkflowCreateAssignsIDAndVersion(t *testing.T) {
	svc := newTestWorkflowService(t)
	wf := validWorkflow()
	if err := svc.Create(context.Background(), wf); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if wf.ID == "" {
		t.Error("expected generated ID")
	}
	if wf.Version != 1 {
		t.Errorf("version = %d, want 1", wf.Version)
	}
}

func TestWorkflowCreateRejectsZeroSteps(t *testing.T) {
	svc := newTestWorkflowService(t)
	wf := &aip.Workflow{Name: "empty"}
	err := svc.Create(context.Background(), wf)
	var defErr *engine.DefinitionError
	if !errors.As(err, &defErr) {
		t.Fatalf("error = %v, want DefinitionError", err)
	}
	if defErr.StepIndex != -1 {
		t.Errorf("StepIndex = %d, want -1", defErr.StepIndex)
	}
}

func TestWorkflowCreateRejectsUnknownAction(t *testing.T) {
	svc := newTestWorkflowService(t)
	wf := &aip.Workflow{
		Name:  "bad",
		Steps: []aip.StepDefinition{{Action: "nonexistent"}},
	}
	err := svc.Create(context.Background(), wf)
	var defErr *engine.DefinitionError
	if !errors.As(err, &defErr) {
		t.Fatalf("error = %v, want DefinitionError", err)
	}
	if defErr.StepIndex != 0 {
		t.Errorf("StepIndex = %d, want 0", defErr.StepIndex)
	}
}

func TestWorkflowCreateRejectsInvalidParameters(t *testing.T) {
	svc := newTestWorkflowService(t)
	wf := &aip.Workflow{
		Name:  "bad-params",
		Steps: []aip.StepDefinition{{Action: "stub", Parameters: map[string]any{}}},
	}
	var defErr *engine.DefinitionError
	if err := svc.Create(context.Background(), wf); !errors.As(err, &defErr) {
		t.Fatalf("error = %v, want DefinitionError", err)
	}
}

func TestWorkflowUpdateBumpsVersionOnStepChange(t *testing.T) {
	svc := newTestWorkflowService(t)
	ctx := context.Background()
	wf := validWorkflow()
	if err := svc.Create(ctx, wf); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// Metadata-only edit keeps the version.
	wf.Description = "new description"
	if err := svc.Update(ctx, wf); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if wf.Version != 1 {
		t.Errorf("version after metadata edit = %d, want 1", wf.Version)
	}

	// Step edit bumps it.
	wf.Steps[0].Parameters = map[string]any{"required": "changed"}
	if err := svc.Update(ctx, wf); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if wf.Version != 2 {
		t.Errorf("version after step edit = %d, want 2", wf.Version)
	}

	// Variable edit bumps it too.
	wf.Variables = map[string]any{"k": "v"}
	if err := svc.Update(ctx, wf); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if wf.Version != 3 {
		t.Errorf("version after variable edit = %d, want 3", wf.Version)
	}
}

func TestWorkflowExecuteAndHistory(t *testing.T) {
	svc := newTestWorkflowService(t)
	ctx := context.Background()
	wf := validWorkflow()
	if err := svc.Create(ctx, wf); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	exec, err := svc.Execute(ctx, wf.ID, map[string]any{"msg": "hi"})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if exec.Status != aip.ExecutionCompleted {
		t.Errorf("status = %s, want completed", exec.Status)
	}

	got, err := svc.GetExecution(ctx, exec.ID)
	if err != nil {
		t.Fatalf("GetExecution() error = %v", err)
	}
	if got.ID != exec.ID {
		t.Errorf("got execution %s, want %s", got.ID, exec.ID)
	}

	execs, total, err := svc.ListExecutions(ctx, repository.ExecutionFilter{WorkflowID: wf.ID})
	if err != nil {
		t.Fatalf("ListExecutions() error = %v", err)
	}
	if total != 1 || len(execs) != 1 {
		t.Errorf("got %d/%d executions, want 1/1", len(execs), total)
	}

	steps, err := svc.GetExecutionSteps(ctx, exec.ID)
	if err != nil {
		t.Fatalf("GetExecutionSteps() error = %v", err)
	}
	if len(steps) != 1 {
		t.Fatalf("got %d steps, want 1", len(steps))
	}
	if steps[0].Status != aip.StepCompleted {
		t.Errorf("step status = %s, want completed", steps[0].Status)
	}
}

func TestWorkflowCancelCompletedExecution(t *testing.T) {
	svc := newTestWorkflowService(t)
	ctx := context.Background()
	wf := validWorkflow()
	if err := svc.Create(ctx, wf); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	exec, err := svc.Execute(ctx, wf.ID, nil)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	err = svc.CancelExecution(ctx, exec.ID)
	var transErr *engine.InvalidTransitionError
	if !errors.As(err, &transErr) {
		t.Fatalf("error = %v, want InvalidTransitionError", err)
	}
}

func TestWorkflowListAvailableActions(t *testing.T) {
	svc := newTestWorkflowService(t)
	actions := svc.ListAvailableActions()
	if _, ok := actions["stub"]; !ok {
		t.Errorf("actions = %v, want stub present", actions)
	}
}
