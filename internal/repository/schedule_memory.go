package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	memstore "github.com/csw48/AI-autonomous-platform/internal/repository/memory"
)

// MemoryScheduleRepository is a thread-safe in-memory ScheduleRepository.
type MemoryScheduleRepository struct {
	store *memstore.Store[*aip.Schedule]
}

// NewMemoryScheduleRepository creates an empty in-memory repository.
func NewMemoryScheduleRepository() *MemoryScheduleRepository {
	return &MemoryScheduleRepository{
		store: memstore.New(func(s *aip.Schedule) string { return s.ID }),
	}
}

func (r *MemoryScheduleRepository) Create(ctx context.Context, s *aip.Schedule) error {
	return r.store.Set(ctx, s)
}

func (r *MemoryScheduleRepository) Get(ctx context.Context, id string) (*aip.Schedule, error) {
	s, err := r.store.Get(ctx, id)
	if errors.Is(err, memstore.ErrNotFound) {
		return nil, fmt.Errorf("%w: schedule %s", ErrNotFound, id)
	}
	return s, err
}

func (r *MemoryScheduleRepository) List(ctx context.Context) ([]*aip.Schedule, error) {
	all, err := r.store.All(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all, nil
}

func (r *MemoryScheduleRepository) Update(ctx context.Context, s *aip.Schedule) error {
	if err := r.store.Update(ctx, s); err != nil {
		return fmt.Errorf("%w: schedule %s", ErrNotFound, s.ID)
	}
	return nil
}

func (r *MemoryScheduleRepository) Delete(ctx context.Context, id string) error {
	if err := r.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: schedule %s", ErrNotFound, id)
	}
	return nil
}
