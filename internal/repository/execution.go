package repository

import (
	"context"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
)

// ExecutionFilter narrows execution listings. Zero values mean "no filter".
type ExecutionFilter struct {
	WorkflowID string
	Status     aip.ExecutionStatus
	Limit      int
	Offset     int
}

// ExecutionRepository abstracts persistence for workflow execution records.
type ExecutionRepository interface {
	Create(ctx context.Context, exec *aip.Execution) error
	Get(ctx context.Context, id string) (*aip.Execution, error)
	Update(ctx context.Context, exec *aip.Execution) error
	// List returns executions newest first, with the total match count.
	List(ctx context.Context, filter ExecutionFilter) ([]*aip.Execution, int, error)
}

// StepExecutionRepository abstracts persistence for per-step records.
type StepExecutionRepository interface {
	Create(ctx context.Context, step *aip.StepExecution) error
	Update(ctx context.Context, step *aip.StepExecution) error
	// ListByExecution returns an execution's step records ordered by step index.
	ListByExecution(ctx context.Context, executionID string) ([]*aip.StepExecution, error)
}
