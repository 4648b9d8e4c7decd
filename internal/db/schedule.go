package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
)

// CreateSchedule stores a new schedule.
func (d *DB) CreateSchedule(ctx context.Context, s *aip.Schedule) error {
	inputJSON, _ := json.Marshal(s.Input)

	_, err := d.Pool.ExecContext(ctx,
		`INSERT INTO schedules (id, workflow_id, cron_expr, timezone, input, enabled, next_run_at, last_run_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		s.ID, s.WorkflowID, s.CronExpr, s.Timezone, inputJSON,
		s.Enabled, s.NextRunAt, s.LastRunAt, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert schedule: %w", err)
	}
	return nil
}

// GetSchedule retrieves a schedule by ID.
func (d *DB) GetSchedule(ctx context.Context, id string) (*aip.Schedule, error) {
	s := &aip.Schedule{}
	var inputJSON []byte

	err := d.Pool.QueryRowContext(ctx,
		`SELECT id, workflow_id, cron_expr, timezone, input, enabled, next_run_at, last_run_at, created_at, updated_at
		 FROM schedules WHERE id = $1`, id,
	).Scan(&s.ID, &s.WorkflowID, &s.CronExpr, &s.Timezone, &inputJSON,
		&s.Enabled, &s.NextRunAt, &s.LastRunAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("schedule not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}

	json.Unmarshal(inputJSON, &s.Input)
	return s, nil
}

// ListSchedules returns all schedules, newest first.
func (d *DB) ListSchedules(ctx context.Context) ([]*aip.Schedule, error) {
	rows, err := d.Pool.QueryContext(ctx,
		`SELECT id, workflow_id, cron_expr, timezone, input, enabled, next_run_at, last_run_at, created_at, updated_at
		 FROM schedules ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	defer rows.Close()

	var result []*aip.Schedule
	for rows.Next() {
		s := &aip.Schedule{}
		var inputJSON []byte
		if err := rows.Scan(&s.ID, &s.WorkflowID, &s.CronExpr, &s.Timezone, &inputJSON,
			&s.Enabled, &s.NextRunAt, &s.LastRunAt, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan schedule: %w", err)
		}
		json.Unmarshal(inputJSON, &s.Input)
		result = append(result, s)
	}
	return result, rows.Err()
}

// UpdateSchedule updates an existing schedule.
func (d *DB) UpdateSchedule(ctx context.Context, s *aip.Schedule) error {
	inputJSON, _ := json.Marshal(s.Input)

	_, err := d.Pool.ExecContext(ctx,
		`UPDATE schedules SET cron_expr = $1, timezone = $2, input = $3, enabled = $4, next_run_at = $5, last_run_at = $6, updated_at = $7
		 WHERE id = $8`,
		s.CronExpr, s.Timezone, inputJSON, s.Enabled,
		s.NextRunAt, s.LastRunAt, s.UpdatedAt, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	return nil
}

// DeleteSchedule removes a schedule.
func (d *DB) DeleteSchedule(ctx context.Context, id string) error {
	_, err := d.Pool.ExecContext(ctx, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	return nil
}
