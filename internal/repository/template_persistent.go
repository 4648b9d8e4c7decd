package repository

import (
	"context"
	"log/slog"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	"github.com/csw48/AI-autonomous-platform/internal/db"
)

// PersistentTemplateRepository wraps a MemoryTemplateRepository with a
// PostgreSQL backend, write-through with read fallback.
type PersistentTemplateRepository struct {
	mem *MemoryTemplateRepository
	db  *db.DB
}

func NewPersistentTemplateRepository(mem *MemoryTemplateRepository, database *db.DB) *PersistentTemplateRepository {
	return &PersistentTemplateRepository{mem: mem, db: database}
}

func (r *PersistentTemplateRepository) Create(ctx context.Context, tpl *aip.Template) error {
	_ = r.mem.Create(ctx, tpl)
	if err := r.db.CreateTemplate(ctx, tpl); err != nil {
		slog.Warn("db create template failed, in-memory only", "err", err)
	}
	return nil
}

func (r *PersistentTemplateRepository) Get(ctx context.Context, id string) (*aip.Template, error) {
	tpl, err := r.mem.Get(ctx, id)
	if err == nil {
		return tpl, nil
	}

	dbTpl, dbErr := r.db.GetTemplate(ctx, id)
	if dbErr != nil {
		return nil, err
	}

	_ = r.mem.Create(ctx, dbTpl)
	return dbTpl, nil
}

func (r *PersistentTemplateRepository) List(ctx context.Context, filter TemplateFilter) ([]*aip.Template, error) {
	tpls, err := r.db.ListTemplates(ctx, filter.Category, filter.PublicOnly, filter.Limit, filter.Offset)
	if err == nil {
		return tpls, nil
	}
	slog.Warn("db list templates failed, falling back to in-memory", "err", err)
	return r.mem.List(ctx, filter)
}

func (r *PersistentTemplateRepository) Update(ctx context.Context, tpl *aip.Template) error {
	if err := r.mem.Update(ctx, tpl); err != nil {
		return err
	}
	if err := r.db.UpdateTemplate(ctx, tpl); err != nil {
		slog.Warn("db update template failed, in-memory only", "err", err)
	}
	return nil
}

func (r *PersistentTemplateRepository) Delete(ctx context.Context, id string) error {
	if err := r.mem.Delete(ctx, id); err != nil {
		return err
	}
	if err := r.db.DeleteTemplate(ctx, id); err != nil {
		slog.Warn("db delete template failed, in-memory only", "err", err)
	}
	return nil
}
