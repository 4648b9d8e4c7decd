package repository

import (
	"context"
	"log/slog"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	"github.com/csw48/AI-autonomous-platform/internal/db"
)

// PersistentScheduleRepository wraps a MemoryScheduleRepository with a
// PostgreSQL backend, write-through with read fallback.
type PersistentScheduleRepository struct {
	mem *MemoryScheduleRepository
	db  *db.DB
}

func NewPersistentScheduleRepository(mem *MemoryScheduleRepository, database *db.DB) *PersistentScheduleRepository {
	return &PersistentScheduleRepository{mem: mem, db: database}
}

func (r *PersistentScheduleRepository) Create(ctx context.Context, s *aip.Schedule) error {
	_ = r.mem.Create(ctx, s)
	if err := r.db.CreateSchedule(ctx, s); err != nil {
		slog.Warn("db create schedule failed, in-memory only", "err", err)
	}
	return nil
}

func (r *PersistentScheduleRepository) Get(ctx context.Context, id string) (*aip.Schedule, error) {
	s, err := r.mem.Get(ctx, id)
	if err == nil {
		return s, nil
	}

	dbSched, dbErr := r.db.GetSchedule(ctx, id)
	if dbErr != nil {
		return nil, err
	}

	_ = r.mem.Create(ctx, dbSched)
	return dbSched, nil
}

func (r *PersistentScheduleRepository) List(ctx context.Context) ([]*aip.Schedule, error) {
	scheds, err := r.db.ListSchedules(ctx)
	if err == nil {
		return scheds, nil
	}
	slog.Warn("db list schedules failed, falling back to in-memory", "err", err)
	return r.mem.List(ctx)
}

func (r *PersistentScheduleRepository) Update(ctx context.Context, s *aip.Schedule) error {
	if err := r.mem.Update(ctx, s); err != nil {
		return err
	}
	if err := r.db.UpdateSchedule(ctx, s); err != nil {
		slog.Warn("db update schedule failed, in-memory only", "err", err)
	}
	return nil
}

func (r *PersistentScheduleRepository) Delete(ctx context.Context, id string) error {
	if err := r.mem.Delete(ctx, id); err != nil {
		return err
	}
	if err := r.db.DeleteSchedule(ctx, id); err != nil {
		slog.Warn("db delete schedule failed, in-memory only", "err", err)
	}
	return nil
}
