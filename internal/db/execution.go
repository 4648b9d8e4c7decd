package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
)

// CreateExecution stores a new execution record.
func (d *DB) CreateExecution(ctx context.Context, e *aip.Execution) error {
	inputJSON, _ := json.Marshal(e.Input)
	outputJSON, _ := json.Marshal(e.Output)
	contextJSON, _ := json.Marshal(e.Context)

	_, err := d.Pool.ExecContext(ctx,
		`INSERT INTO workflow_executions (id, workflow_id, status, current_step, input_data, output_data, context, error_message, error_step, started_at, completed_at, duration_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		e.ID, e.WorkflowID, string(e.Status), e.CurrentStep,
		inputJSON, outputJSON, contextJSON, e.Error, e.ErrorStep,
		e.StartedAt, e.CompletedAt, e.DurationMS, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert execution: %w", err)
	}
	return nil
}

// GetExecution retrieves an execution record by ID.
func (d *DB) GetExecution(ctx context.Context, id string) (*aip.Execution, error) {
	row := d.Pool.QueryRowContext(ctx,
		`SELECT id, workflow_id, status, current_step, input_data, output_data, context, error_message, error_step, started_at, completed_at, duration_ms, created_at
		 FROM workflow_executions WHERE id = $1`, id,
	)
	e, err := scanExecution(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("execution not found: %s", id)
	}
	return e, err
}

// UpdateExecution updates an existing execution record.
func (d *DB) UpdateExecution(ctx context.Context, e *aip.Execution) error {
	outputJSON, _ := json.Marshal(e.Output)
	contextJSON, _ := json.Marshal(e.Context)

	_, err := d.Pool.ExecContext(ctx,
		`UPDATE workflow_executions SET status = $1, current_step = $2, output_data = $3, context = $4, error_message = $5, error_step = $6, started_at = $7, completed_at = $8, duration_ms = $9
		 WHERE id = $10`,
		string(e.Status), e.CurrentStep, outputJSON, contextJSON,
		e.Error, e.ErrorStep, e.StartedAt, e.CompletedAt, e.DurationMS, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update execution: %w", err)
	}
	return nil
}

// ListExecutions returns executions matching the filter, newest first, with
// the total match count. Empty workflowID or status matches everything.
func (d *DB) ListExecutions(ctx context.Context, workflowID, status string, limit, offset int) ([]*aip.Execution, int, error) {
	where := ` WHERE ($1 = '' OR workflow_id = $1) AND ($2 = '' OR status = $2)`

	var total int
	err := d.Pool.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workflow_executions`+where,
		workflowID, status,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("count executions: %w", err)
	}

	rows, err := d.Pool.QueryContext(ctx,
		`SELECT id, workflow_id, status, current_step, input_data, output_data, context, error_message, error_step, started_at, completed_at, duration_ms, created_at
		 FROM workflow_executions`+where+` ORDER BY created_at DESC LIMIT NULLIF($3, 0) OFFSET $4`,
		workflowID, status, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list executions: %w", err)
	}
	defer rows.Close()

	var result []*aip.Execution
	for rows.Next() {
		e, err := scanExecution(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, e)
	}
	return result, total, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExecution(row rowScanner) (*aip.Execution, error) {
	e := &aip.Execution{}
	var status string
	var inputJSON, outputJSON, contextJSON []byte

	err := row.Scan(&e.ID, &e.WorkflowID, &status, &e.CurrentStep,
		&inputJSON, &outputJSON, &contextJSON, &e.Error, &e.ErrorStep,
		&e.StartedAt, &e.CompletedAt, &e.DurationMS, &e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.Status = aip.ExecutionStatus(status)
	json.Unmarshal(inputJSON, &e.Input)
	json.Unmarshal(outputJSON, &e.Output)
	json.Unmarshal(contextJSON, &e.Context)
	return e, nil
}

// CreateStepExecution stores a new step execution record.
func (d *DB) CreateStepExecution(ctx context.Context, s *aip.StepExecution) error {
	parametersJSON, _ := json.Marshal(s.Parameters)
	inputJSON, _ := json.Marshal(s.Input)
	outputJSON, _ := json.Marshal(s.Output)

	_, err := d.Pool.ExecContext(ctx,
		`INSERT INTO workflow_step_executions (id, execution_id, step_index, step_name, action_type, status, parameters, input_data, output_data, error_message, retry_count, started_at, completed_at, duration_ms, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`,
		s.ID, s.ExecutionID, s.StepIndex, s.StepName, s.ActionType, string(s.Status),
		parametersJSON, inputJSON, outputJSON, s.Error, s.RetryCount,
		s.StartedAt, s.CompletedAt, s.DurationMS, s.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert step execution: %w", err)
	}
	return nil
}

// UpdateStepExecution updates an existing step execution record.
func (d *DB) UpdateStepExecution(ctx context.Context, s *aip.StepExecution) error {
	inputJSON, _ := json.Marshal(s.Input)
	outputJSON, _ := json.Marshal(s.Output)

	_, err := d.Pool.ExecContext(ctx,
		`UPDATE workflow_step_executions SET status = $1, input_data = $2, output_data = $3, error_message = $4, retry_count = $5, completed_at = $6, duration_ms = $7
		 WHERE id = $8`,
		string(s.Status), inputJSON, outputJSON, s.Error, s.RetryCount,
		s.CompletedAt, s.DurationMS, s.ID,
	)
	if err != nil {
		return fmt.Errorf("update step execution: %w", err)
	}
	return nil
}

// ListStepExecutions returns an execution's step records ordered by index.
func (d *DB) ListStepExecutions(ctx context.Context, executionID string) ([]*aip.StepExecution, error) {
	rows, err := d.Pool.QueryContext(ctx,
		`SELECT id, execution_id, step_index, step_name, action_type, status, parameters, input_data, output_data, error_message, retry_count, started_at, completed_at, duration_ms, created_at
		 FROM workflow_step_executions WHERE execution_id = $1 ORDER BY step_index`,
		executionID,
	)
	if err != nil {
		return nil, fmt.Errorf("list step executions: %w", err)
	}
	defer rows.Close()

	var result []*aip.StepExecution
	for rows.Next() {
		s := &aip.StepExecution{}
		var status string
		var parametersJSON, inputJSON, outputJSON []byte
		if err := rows.Scan(&s.ID, &s.ExecutionID, &s.StepIndex, &s.StepName, &s.ActionType, &status,
			&parametersJSON, &inputJSON, &outputJSON, &s.Error, &s.RetryCount,
			&s.StartedAt, &s.CompletedAt, &s.DurationMS, &s.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan step execution: %w", err)
		}
		s.Status = aip.StepStatus(status)
		json.Unmarshal(parametersJSON, &s.Parameters)
		json.Unmarshal(inputJSON, &s.Input)
		json.Unmarshal(outputJSON, &s.Output)
		result = append(result, s)
	}
	return result, rows.Err()
}
