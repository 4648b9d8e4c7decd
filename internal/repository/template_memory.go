package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	memstore "github.com/csw48/AI-autonomous-platform/internal/repository/memory"
)

// MemoryTemplateRepository is a thread-safe in-memory TemplateRepository.
type MemoryTemplateRepository struct {
	store *memstore.Store[*aip.Template]
}

// NewMemoryTemplateRepository creates an empty in-memory repository.
func NewMemoryTemplateRepository() *MemoryTemplateRepository {
	return &MemoryTemplateRepository{
		store: memstore.New(func(t *aip.Template) string { return t.ID }),
	}
}

func (r *MemoryTemplateRepository) Create(ctx context.Context, tpl *aip.Template) error {
	return r.store.Set(ctx, tpl)
}

func (r *MemoryTemplateRepository) Get(ctx context.Context, id string) (*aip.Template, error) {
	tpl, err := r.store.Get(ctx, id)
	if errors.Is(err, memstore.ErrNotFound) {
		return nil, fmt.Errorf("%w: template %s", ErrNotFound, id)
	}
	return tpl, err
}

func (r *MemoryTemplateRepository) List(ctx context.Context, filter TemplateFilter) ([]*aip.Template, error) {
	all, err := r.store.Filter(ctx, func(t *aip.Template) bool {
		if filter.Category != "" && t.Category != filter.Category {
			return false
		}
		if filter.PublicOnly && !t.IsPublic {
			return false
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	// Most used templates first.
	sort.Slice(all, func(i, j int) bool {
		return all[i].UsageCount > all[j].UsageCount
	})
	return paginate(all, filter.Limit, filter.Offset), nil
}

func (r *MemoryTemplateRepository) Update(ctx context.Context, tpl *aip.Template) error {
	if err := r.store.Update(ctx, tpl); err != nil {
		return fmt.Errorf("%w: template %s", ErrNotFound, tpl.ID)
	}
	return nil
}

func (r *MemoryTemplateRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: template %s", ErrNotFound, id)
	}
	return nil
}
