package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	memstore "github.com/csw48/AI-autonomous-platform/internal/repository/memory"
)

// MemoryExecutionRepository is a thread-safe in-memory ExecutionRepository.
type MemoryExecutionRepository struct {
	store *memstore.Store[*aip.Execution]
}

// NewMemoryExecutionRepository creates an empty in-memory repository.
func NewMemoryExecutionRepository() *MemoryExecutionRepository {
	return &MemoryExecutionRepository{
		store: memstore.New(func(e *aip.Execution) string { return e.ID }),
	}
}

func (r *MemoryExecutionRepository) Create(ctx context.Context, exec *aip.Execution) error {
	return r.store.Set(ctx, exec)
}

func (r *MemoryExecutionRepository) Get(ctx context.Context, id string) (*aip.Execution, error) {
	exec, err := r.store.Get(ctx, id)
	if errors.Is(err, memstore.ErrNotFound) {
		return nil, fmt.Errorf("%w: execution %s", ErrNotFound, id)
	}
	return exec, err
}

func (r *MemoryExecutionRepository) Update(ctx context.Context, exec *aip.Execution) error {
	if err := r.store.Update(ctx, exec); err != nil {
		return fmt.Errorf("%w: execution %s", ErrNotFound, exec.ID)
	}
	return nil
}

func (r *MemoryExecutionRepository) List(ctx context.Context, filter ExecutionFilter) ([]*aip.Execution, int, error) {
	all, err := r.store.Filter(ctx, func(e *aip.Execution) bool {
		if filter.WorkflowID != "" && e.WorkflowID != filter.WorkflowID {
			return false
		}
		if filter.Status != "" && e.Status != filter.Status {
			return false
		}
		return true
	})
	if err != nil {
		return nil, 0, err
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return paginate(all, filter.Limit, filter.Offset), len(all), nil
}

// MemoryStepExecutionRepository is a thread-safe in-memory StepExecutionRepository.
type MemoryStepExecutionRepository struct {
	store *memstore.Store[*aip.StepExecution]
}

// NewMemoryStepExecutionRepository creates an empty in-memory repository.
func NewMemoryStepExecutionRepository() *MemoryStepExecutionRepository {
	return &MemoryStepExecutionRepository{
		store: memstore.New(func(s *aip.StepExecution) string { return s.ID }),
	}
}

func (r *MemoryStepExecutionRepository) Create(ctx context.Context, step *aip.StepExecution) error {
	return r.store.Set(ctx, step)
}

func (r *MemoryStepExecutionRepository) Update(ctx context.Context, step *aip.StepExecution) error {
	if err := r.store.Update(ctx, step); err != nil {
		return fmt.Errorf("%w: step execution %s", ErrNotFound, step.ID)
	}
	return nil
}

func (r *MemoryStepExecutionRepository) ListByExecution(ctx context.Context, executionID string) ([]*aip.StepExecution, error) {
	steps, err := r.store.Filter(ctx, func(s *aip.StepExecution) bool {
		return s.ExecutionID == executionID
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(steps, func(i, j int) bool {
		return steps[i].StepIndex < steps[j].StepIndex
	})
	return steps, nil
}
