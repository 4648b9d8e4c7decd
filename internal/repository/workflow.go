// Package repository defines storage interfaces for domain entities.
package repository

import (
	"context"
	"errors"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// WorkflowRepository abstracts workflow persistence so callers don't need to
// know whether storage is in-memory, PostgreSQL, or a mix.
type WorkflowRepository interface {
	Create(ctx context.Context, wf *aip.Workflow) error
	Get(ctx context.Context, id string) (*aip.Workflow, error)
	// List returns workflows newest first. enabledOnly filters on the
	// enabled flag when true.
	List(ctx context.Context, enabledOnly bool, limit, offset int) ([]*aip.Workflow, error)
	Update(ctx context.Context, wf *aip.Workflow) error
	Delete(ctx context.Context, id string) error
}
