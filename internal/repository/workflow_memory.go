package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	memstore "github.com/csw48/AI-autonomous-platform/internal/repository/memory"
)

// MemoryWorkflowRepository is a thread-safe in-memory WorkflowRepository.
type MemoryWorkflowRepository struct {
	store *memstore.Store[*aip.Workflow]
}

// NewMemoryWorkflowRepository creates an empty in-memory repository.
func NewMemoryWorkflowRepository() *MemoryWorkflowRepository {
	return &MemoryWorkflowRepository{
		store: memstore.New(func(wf *aip.Workflow) string { return wf.ID }),
	}
}

func (r *MemoryWorkflowRepository) Create(ctx context.Context, wf *aip.Workflow) error {
	return r.store.Set(ctx, wf)
}

func (r *MemoryWorkflowRepository) Get(ctx context.Context, id string) (*aip.Workflow, error) {
	wf, err := r.store.Get(ctx, id)
	if errors.Is(err, memstore.ErrNotFound) {
		return nil, fmt.Errorf("%w: workflow %s", ErrNotFound, id)
	}
	return wf, err
}

func (r *MemoryWorkflowRepository) List(ctx context.Context, enabledOnly bool, limit, offset int) ([]*aip.Workflow, error) {
	all, err := r.store.Filter(ctx, func(wf *aip.Workflow) bool {
		return !enabledOnly || wf.Enabled
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return paginate(all, limit, offset), nil
}

func (r *MemoryWorkflowRepository) Update(ctx context.Context, wf *aip.Workflow) error {
	if err := r.store.Update(ctx, wf); err != nil {
		return fmt.Errorf("%w: workflow %s", ErrNotFound, wf.ID)
	}
	return nil
}

func (r *MemoryWorkflowRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: workflow %s", ErrNotFound, id)
	}
	return nil
}

// paginate slices a sorted result set. limit <= 0 means "no limit".
func paginate[V any](all []V, limit, offset int) []V {
	if offset >= len(all) {
		return nil
	}
	out := all[offset:]
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out
}
