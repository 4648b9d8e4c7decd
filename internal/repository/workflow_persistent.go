package repository

import (
	"context"
	"log/slog"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	"github.com/csw48/AI-autonomous-platform/internal/db"
)

// PersistentWorkflowRepository wraps a MemoryWorkflowRepository with a
// PostgreSQL backend. Writes go to both stores (DB failure is logged but
// non-fatal). Reads try memory first, falling back to the database.
type PersistentWorkflowRepository struct {
	mem *MemoryWorkflowRepository
	db  *db.DB
}

func NewPersistentWorkflowRepository(mem *MemoryWorkflowRepository, database *db.DB) *PersistentWorkflowRepository {
	return &PersistentWorkflowRepository{mem: mem, db: database}
}

func (r *PersistentWorkflowRepository) Create(ctx context.Context, wf *aip.Workflow) error {
	_ = r.mem.Create(ctx, wf)
	if err := r.db.CreateWorkflow(ctx, wf); err != nil {
		slog.Warn("db create workflow failed, in-memory only", "err", err)
	}
	return nil
}

func (r *PersistentWorkflowRepository) Get(ctx context.Context, id string) (*aip.Workflow, error) {
	wf, err := r.mem.Get(ctx, id)
	if err == nil {
		return wf, nil
	}

	dbWf, dbErr := r.db.GetWorkflow(ctx, id)
	if dbErr != nil {
		return nil, err // return original ErrNotFound
	}

	_ = r.mem.Create(ctx, dbWf)
	return dbWf, nil
}

func (r *PersistentWorkflowRepository) List(ctx context.Context, enabledOnly bool, limit, offset int) ([]*aip.Workflow, error) {
	wfs, err := r.db.ListWorkflows(ctx, enabledOnly, limit, offset)
	if err == nil {
		return wfs, nil
	}
	slog.Warn("db list workflows failed, falling back to in-memory", "err", err)
	return r.mem.List(ctx, enabledOnly, limit, offset)
}

func (r *PersistentWorkflowRepository) Update(ctx context.Context, wf *aip.Workflow) error {
	if err := r.mem.Update(ctx, wf); err != nil {
		return err
	}
	if err := r.db.UpdateWorkflow(ctx, wf); err != nil {
		slog.Warn("db update workflow failed, in-memory only", "err", err)
	}
	return nil
}

func (r *PersistentWorkflowRepository) Delete(ctx context.Context, id string) error {
	if err := r.mem.Delete(ctx, id); err != nil {
		return err
	}
	if err := r.db.DeleteWorkflow(ctx, id); err != nil {
		slog.Warn("db delete workflow failed, in-memory only", "err", err)
	}
	return nil
}
