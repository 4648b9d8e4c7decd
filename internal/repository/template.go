package repository

import (
	"context"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
)

// TemplateFilter narrows template listings. Zero values mean "no filter".
type TemplateFilter struct {
	Category   string
	PublicOnly bool
	Limit      int
	Offset     int
}

// TemplateRepository abstracts persistence for workflow templates.
type TemplateRepository interface {
	Create(ctx context.Context, tpl *aip.Template) error
	Get(ctx context.Context, id string) (*aip.Template, error)
	// List returns templates ordered by usage count descending.
	List(ctx context.Context, filter TemplateFilter) ([]*aip.Template, error)
	Update(ctx context.Context, tpl *aip.Template) error
	Delete(ctx context.Context, id string) error
}
