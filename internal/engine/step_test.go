package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	"github.com/csw48/AI-autonomous-platform/internal/repository"
)

func TestStepRunnerSuccess(t *testing.T) {
	reg := NewRegistry()
	reg.Register(func() Action {
		return &fakeAction{actionType: "work", executeFn: func(params, execContext map[string]any) (any, error) {
			return params["msg"], nil
		}}
	})
	steps := repository.NewMemoryStepExecutionRepository()
	runner := NewStepRunner(reg, steps)

	step := aip.StepDefinition{
		Name:       "greet",
		Action:     "work",
		Parameters: map[string]any{"msg": "hi {{who}}"},
	}
	result, err := runner.Run(context.Background(), "exec-1", 0, step, map[string]any{"who": "there"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result != "hi there" {
		t.Errorf("result = %v, want 'hi there'", result)
	}

	records, err := steps.ListByExecution(context.Background(), "exec-1")
	if err != nil {
		t.Fatalf("ListByExecution() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Status != aip.StepCompleted {
		t.Errorf("status = %s, want completed", rec.Status)
	}
	// Raw parameters keep the placeholder, the input snapshot is resolved.
	if rec.Parameters["msg"] != "hi {{who}}" {
		t.Errorf("parameters = %v", rec.Parameters)
	}
	if rec.Input["msg"] != "hi there" {
		t.Errorf("input = %v", rec.Input)
	}
	if rec.Output != "hi there" {
		t.Errorf("output = %v", rec.Output)
	}
	if rec.StartedAt == nil || rec.CompletedAt == nil || rec.DurationMS == nil {
		t.Error("expected timestamps and duration on completed step")
	}
	if rec.RetryCount != 0 {
		t.Errorf("retry count = %d, want 0", rec.RetryCount)
	}
}

func TestStepRunnerUnknownActionWritesNoRecord(t *testing.T) {
	steps := repository.NewMemoryStepExecutionRepository()
	runner := NewStepRunner(NewRegistry(), steps)

	_, err := runner.Run(context.Background(), "exec-1", 0, aip.StepDefinition{Action: "ghost"}, map[string]any{})
	var unknownErr *UnknownActionError
	if !errors.As(err, &unknownErr) {
		t.Fatalf("error = %v, want UnknownActionError", err)
	}

	records, _ := steps.ListByExecution(context.Background(), "exec-1")
	if len(records) != 0 {
		t.Errorf("got %d records, want none for unknown action", len(records))
	}
}

func TestStepRunnerValidationFailure(t *testing.T) {
	reg := NewRegistry()
	reg.Register(func() Action {
		return &fakeAction{actionType: "strict", validateErr: errors.New("bad params")}
	})
	steps := repository.NewMemoryStepExecutionRepository()
	runner := NewStepRunner(reg, steps)

	_, err := runner.Run(context.Background(), "exec-1", 0, aip.StepDefinition{Action: "strict"}, map[string]any{})
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("error = %v, want StepError", err)
	}
	if stepErr.StepIndex != 0 || stepErr.ActionType != "strict" {
		t.Errorf("stepErr = %+v", stepErr)
	}

	records, _ := steps.ListByExecution(context.Background(), "exec-1")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Status != aip.StepFailed {
		t.Errorf("status = %s, want failed", rec.Status)
	}
	if rec.Error == nil || *rec.Error != "bad params" {
		t.Errorf("error = %v", rec.Error)
	}
}

func TestStepRunnerExecuteFailure(t *testing.T) {
	reg := NewRegistry()
	reg.Register(func() Action {
		return &fakeAction{actionType: "boom", executeErr: errors.New("exploded")}
	})
	steps := repository.NewMemoryStepExecutionRepository()
	runner := NewStepRunner(reg, steps)

	_, err := runner.Run(context.Background(), "exec-1", 2, aip.StepDefinition{Action: "boom"}, map[string]any{})
	var stepErr *StepError
	if !errors.As(err, &stepErr) {
		t.Fatalf("error = %v, want StepError", err)
	}
	if !errors.Is(err, stepErr.Err) {
		t.Error("StepError should unwrap to its cause")
	}

	records, _ := steps.ListByExecution(context.Background(), "exec-1")
	if records[0].Status != aip.StepFailed {
		t.Errorf("status = %s, want failed", records[0].Status)
	}
}

func TestRecordSkippedHasNoTimestamps(t *testing.T) {
	steps := repository.NewMemoryStepExecutionRepository()
	runner := NewStepRunner(NewRegistry(), steps)

	step := aip.StepDefinition{Name: "maybe", Action: "work", Condition: "flag"}
	if err := runner.RecordSkipped(context.Background(), "exec-1", 1, step); err != nil {
		t.Fatalf("RecordSkipped() error = %v", err)
	}

	records, _ := steps.ListByExecution(context.Background(), "exec-1")
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	rec := records[0]
	if rec.Status != aip.StepSkipped {
		t.Errorf("status = %s, want skipped", rec.Status)
	}
	if rec.StartedAt != nil || rec.CompletedAt != nil || rec.DurationMS != nil {
		t.Error("skipped step must not carry timestamps or duration")
	}
	if rec.Output != nil {
		t.Errorf("output = %v, want nil", rec.Output)
	}
}
