package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	"github.com/csw48/AI-autonomous-platform/internal/repository"
)

type executorFixture struct {
	workflows *repository.MemoryWorkflowRepository
	execs     *repository.MemoryExecutionRepository
	steps     *repository.MemoryStepExecutionRepository
	registry  *Registry
	executor  *Executor
}

func newExecutorFixture(t *testing.T) *executorFixture {
	t.Helper()
	f := &executorFixture{
		workflows: repository.NewMemoryWorkflowRepository(),
		execs:     repository.NewMemoryExecutionRepository(),
		steps:     repository.NewMemoryStepExecutionRepository(),
		registry:  NewRegistry(),
	}
	f.registry.Register(func() Action {
		return &fakeAction{actionType: "echo", executeFn: func(params, execContext map[string]any) (any, error) {
			return params["value"], nil
		}}
	})
	f.executor = NewExecutor(f.workflows, f.execs, f.steps, f.registry)
	return f
}

func (f *executorFixture) addWorkflow(t *testing.T, wf *aip.Workflow) {
	t.Helper()
	if wf.ID == "" {
		wf.ID = aip.GenerateID("wf")
	}
	wf.CreatedAt = time.Now()
	wf.UpdatedAt = wf.CreatedAt
	if err := f.workflows.Create(context.Background(), wf); err != nil {
		t.Fatalf("create workflow: %v", err)
	}
}

func TestExecutorRunCompletes(t *testing.T) {
	f := newExecutorFixture(t)
	f.addWorkflow(t, &aip.Workflow{
		Name:      "greeter",
		Enabled:   true,
		Variables: map[string]any{"who": "default", "tone": "polite"},
		Steps: []aip.StepDefinition{
			{Name: "say", Action: "echo", Parameters: map[string]any{"value": "hello {{who}}"}, OutputVariable: "greeting"},
			{Name: "repeat", Action: "echo", Parameters: map[string]any{"value": "{{greeting}}!"}},
		},
	})
	wfID := mustOnlyWorkflowID(t, f)

	exec, err := f.executor.Run(context.Background(), wfID, map[string]any{"who": "world"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if exec.Status != aip.ExecutionCompleted {
		t.Errorf("status = %s, want completed", exec.Status)
	}
	// Input overrides workflow variables on collision.
	if exec.Output["who"] != "world" {
		t.Errorf("who = %v, want world", exec.Output["who"])
	}
	if exec.Output["tone"] != "polite" {
		t.Errorf("tone = %v, want polite", exec.Output["tone"])
	}
	if exec.Output["greeting"] != "hello world" {
		t.Errorf("greeting = %v", exec.Output["greeting"])
	}
	// Second step has no output variable, so it gets the positional default.
	if exec.Output[aip.DefaultOutputVariable(1)] != "hello world!" {
		t.Errorf("step_1_output = %v", exec.Output[aip.DefaultOutputVariable(1)])
	}
	if exec.CurrentStep != 2 {
		t.Errorf("current step = %d, want 2", exec.CurrentStep)
	}
	if exec.StartedAt == nil || exec.CompletedAt == nil || exec.DurationMS == nil {
		t.Error("expected start/completion timestamps and duration")
	}

	records, _ := f.steps.ListByExecution(context.Background(), exec.ID)
	if len(records) != 2 {
		t.Fatalf("got %d step records, want 2", len(records))
	}
}

func TestExecutorOutputVariableLastWriterWins(t *testing.T) {
	f := newExecutorFixture(t)
	f.addWorkflow(t, &aip.Workflow{
		Name:    "overwrite",
		Enabled: true,
		Steps: []aip.StepDefinition{
			{Action: "echo", Parameters: map[string]any{"value": "first"}, OutputVariable: "result"},
			{Action: "echo", Parameters: map[string]any{"value": "second"}, OutputVariable: "result"},
		},
	})
	wfID := mustOnlyWorkflowID(t, f)

	exec, err := f.executor.Run(context.Background(), wfID, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if exec.Output["result"] != "second" {
		t.Errorf("result = %v, want second", exec.Output["result"])
	}
}

func TestExecutorConditionSkipsStep(t *testing.T) {
	f := newExecutorFixture(t)
	f.addWorkflow(t, &aip.Workflow{
		Name:      "conditional",
		Enabled:   true,
		Variables: map[string]any{"flag": "false"},
		Steps: []aip.StepDefinition{
			{Name: "guarded", Action: "echo", Parameters: map[string]any{"value": "never"}, Condition: "flag == true", OutputVariable: "guarded"},
			{Name: "always", Action: "echo", Parameters: map[string]any{"value": "ran"}, OutputVariable: "always"},
		},
	})
	wfID := mustOnlyWorkflowID(t, f)

	exec, err := f.executor.Run(context.Background(), wfID, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if exec.Status != aip.ExecutionCompleted {
		t.Errorf("status = %s, want completed", exec.Status)
	}
	if _, ok := exec.Output["guarded"]; ok {
		t.Error("skipped step must not bind its output variable")
	}
	if exec.Output["always"] != "ran" {
		t.Errorf("always = %v", exec.Output["always"])
	}

	records, _ := f.steps.ListByExecution(context.Background(), exec.ID)
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Status != aip.StepSkipped {
		t.Errorf("first step status = %s, want skipped", records[0].Status)
	}
	if records[1].Status != aip.StepCompleted {
		t.Errorf("second step status = %s, want completed", records[1].Status)
	}
}

func TestExecutorStepFailureStopsRun(t *testing.T) {
	f := newExecutorFixture(t)
	f.registry.Register(func() Action {
		return &fakeAction{actionType: "boom", executeErr: errors.New("exploded")}
	})
	f.addWorkflow(t, &aip.Workflow{
		Name:    "failing",
		Enabled: true,
		Steps: []aip.StepDefinition{
			{Action: "echo", Parameters: map[string]any{"value": "ok"}, OutputVariable: "first"},
			{Action: "boom"},
			{Action: "echo", Parameters: map[string]any{"value": "unreached"}},
		},
	})
	wfID := mustOnlyWorkflowID(t, f)

	exec, err := f.executor.Run(context.Background(), wfID, nil)
	if err == nil {
		t.Fatal("expected error from failing step")
	}
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("error = %v, want StepError", err)
	}

	if exec.Status != aip.ExecutionFailed {
		t.Errorf("status = %s, want failed", exec.Status)
	}
	if exec.ErrorStep == nil || *exec.ErrorStep != 1 {
		t.Errorf("error step = %v, want 1", exec.ErrorStep)
	}
	if exec.Error == nil {
		t.Error("expected error message on execution")
	}
	if exec.CompletedAt == nil || exec.DurationMS == nil {
		t.Error("failed execution still gets completion timestamp and duration")
	}

	// Third step never produced a record.
	records, _ := f.steps.ListByExecution(context.Background(), exec.ID)
	if len(records) != 2 {
		t.Errorf("got %d records, want 2", len(records))
	}
}

func TestExecutorDisabledWorkflow(t *testing.T) {
	f := newExecutorFixture(t)
	f.addWorkflow(t, &aip.Workflow{
		Name:    "off",
		Enabled: false,
		Steps:   []aip.StepDefinition{{Action: "echo", Parameters: map[string]any{"value": "x"}}},
	})
	wfID := mustOnlyWorkflowID(t, f)

	_, err := f.executor.Run(context.Background(), wfID, nil)
	if !errors.Is(err, ErrWorkflowDisabled) {
		t.Fatalf("error = %v, want ErrWorkflowDisabled", err)
	}

	// No execution row for a run that never started.
	_, total, _ := f.execs.List(context.Background(), repository.ExecutionFilter{WorkflowID: wfID})
	if total != 0 {
		t.Errorf("got %d executions, want 0", total)
	}
}

func TestExecutorUnknownWorkflow(t *testing.T) {
	f := newExecutorFixture(t)
	_, err := f.executor.Run(context.Background(), "wf-missing", nil)
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestExecutorCancelTerminalExecution(t *testing.T) {
	f := newExecutorFixture(t)
	f.addWorkflow(t, &aip.Workflow{
		Name:    "quick",
		Enabled: true,
		Steps:   []aip.StepDefinition{{Action: "echo", Parameters: map[string]any{"value": "x"}}},
	})
	wfID := mustOnlyWorkflowID(t, f)

	exec, err := f.executor.Run(context.Background(), wfID, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	err = f.executor.Cancel(context.Background(), exec.ID)
	var transErr *InvalidTransitionError
	if !errors.As(err, &transErr) {
		t.Fatalf("error = %v, want InvalidTransitionError", err)
	}
	if transErr.Status != aip.ExecutionCompleted {
		t.Errorf("reported status = %s", transErr.Status)
	}
}

func TestExecutorCancelUnknownExecution(t *testing.T) {
	f := newExecutorFixture(t)
	if err := f.executor.Cancel(context.Background(), "exec-missing"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestExecutorStopsAfterExternalCancel(t *testing.T) {
	f := newExecutorFixture(t)

	// Cancel the stored execution from inside step one, the way a concurrent
	// Cancel call would; the executor must notice at the next step boundary.
	f.registry.Register(func() Action {
		return &fakeAction{actionType: "flip", executeFn: func(params, execContext map[string]any) (any, error) {
			execs, _, err := f.execs.List(context.Background(), repository.ExecutionFilter{})
			if err != nil || len(execs) != 1 {
				return nil, errors.New("expected exactly one execution")
			}
			return "flipped", f.executor.Cancel(context.Background(), execs[0].ID)
		}}
	})
	f.addWorkflow(t, &aip.Workflow{
		Name:    "interrupted",
		Enabled: true,
		Steps: []aip.StepDefinition{
			{Action: "flip", OutputVariable: "first"},
			{Action: "echo", Parameters: map[string]any{"value": "unreached"}, OutputVariable: "second"},
		},
	})
	wfID := mustOnlyWorkflowID(t, f)

	exec, err := f.executor.Run(context.Background(), wfID, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if exec.Status != aip.ExecutionCancelled {
		t.Errorf("status = %s, want cancelled", exec.Status)
	}

	records, _ := f.steps.ListByExecution(context.Background(), exec.ID)
	if len(records) != 1 {
		t.Errorf("got %d step records, want 1 (second step skipped by cancellation)", len(records))
	}
}

func TestExecutorListActions(t *testing.T) {
	f := newExecutorFixture(t)
	catalog := f.executor.ListActions()
	if _, ok := catalog["echo"]; !ok {
		t.Errorf("catalog = %v, want echo present", catalog)
	}
}

func mustOnlyWorkflowID(t *testing.T, f *executorFixture) string {
	t.Helper()
	workflows, err := f.workflows.List(context.Background(), false, 0, 0)
	if err != nil || len(workflows) != 1 {
		t.Fatalf("expected exactly one workflow, got %d (err %v)", len(workflows), err)
	}
	return workflows[0].ID
}
