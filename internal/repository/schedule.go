package repository

import (
	"context"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
)

// ScheduleRepository abstracts persistence for cron schedules.
type ScheduleRepository interface {
	Create(ctx context.Context, s *aip.Schedule) error
	Get(ctx context.Context, id string) (*aip.Schedule, error)
	List(ctx context.Context) ([]*aip.Schedule, error)
	Update(ctx context.Context, s *aip.Schedule) error
	Delete(ctx context.Context, id string) error
}
