package repository

import (
	"context"
	"log/slog"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	"github.com/csw48/AI-autonomous-platform/internal/db"
)

// PersistentExecutionRepository wraps a MemoryExecutionRepository with a
// PostgreSQL backend, write-through with read fallback.
type PersistentExecutionRepository struct {
	mem *MemoryExecutionRepository
	db  *db.DB
}

func NewPersistentExecutionRepository(mem *MemoryExecutionRepository, database *db.DB) *PersistentExecutionRepository {
	return &PersistentExecutionRepository{mem: mem, db: database}
}

func (r *PersistentExecutionRepository) Create(ctx context.Context, exec *aip.Execution) error {
	_ = r.mem.Create(ctx, exec)
	if err := r.db.CreateExecution(ctx, exec); err != nil {
		slog.Warn("db create execution failed, in-memory only", "err", err)
	}
	return nil
}

func (r *PersistentExecutionRepository) Get(ctx context.Context, id string) (*aip.Execution, error) {
	exec, err := r.mem.Get(ctx, id)
	if err == nil {
		return exec, nil
	}

	dbExec, dbErr := r.db.GetExecution(ctx, id)
	if dbErr != nil {
		return nil, err
	}

	_ = r.mem.Create(ctx, dbExec)
	return dbExec, nil
}

func (r *PersistentExecutionRepository) Update(ctx context.Context, exec *aip.Execution) error {
	_ = r.mem.Update(ctx, exec)
	if err := r.db.UpdateExecution(ctx, exec); err != nil {
		slog.Warn("db update execution failed, in-memory only", "err", err)
	}
	return nil
}

func (r *PersistentExecutionRepository) List(ctx context.Context, filter ExecutionFilter) ([]*aip.Execution, int, error) {
	execs, total, err := r.db.ListExecutions(ctx, filter.WorkflowID, string(filter.Status), filter.Limit, filter.Offset)
	if err == nil {
		return execs, total, nil
	}
	slog.Warn("db list executions failed, falling back to in-memory", "err", err)
	return r.mem.List(ctx, filter)
}

// PersistentStepExecutionRepository is the step-record counterpart.
type PersistentStepExecutionRepository struct {
	mem *MemoryStepExecutionRepository
	db  *db.DB
}

func NewPersistentStepExecutionRepository(mem *MemoryStepExecutionRepository, database *db.DB) *PersistentStepExecutionRepository {
	return &PersistentStepExecutionRepository{mem: mem, db: database}
}

func (r *PersistentStepExecutionRepository) Create(ctx context.Context, step *aip.StepExecution) error {
	_ = r.mem.Create(ctx, step)
	if err := r.db.CreateStepExecution(ctx, step); err != nil {
		slog.Warn("db create step execution failed, in-memory only", "err", err)
	}
	return nil
}

func (r *PersistentStepExecutionRepository) Update(ctx context.Context, step *aip.StepExecution) error {
	_ = r.mem.Update(ctx, step)
	if err := r.db.UpdateStepExecution(ctx, step); err != nil {
		slog.Warn("db update step execution failed, in-memory only", "err", err)
	}
	return nil
}

func (r *PersistentStepExecutionRepository) ListByExecution(ctx context.Context, executionID string) ([]*aip.StepExecution, error) {
	steps, err := r.db.ListStepExecutions(ctx, executionID)
	if err == nil {
		return steps, nil
	}
	slog.Warn("db list step executions failed, falling back to in-memory", "err", err)
	return r.mem.ListByExecution(ctx, executionID)
}
