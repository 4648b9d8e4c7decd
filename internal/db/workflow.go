package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
)

// CreateWorkflow stores a new workflow.
func (d *DB) CreateWorkflow(ctx context.Context, wf *aip.Workflow) error {
	stepsJSON, _ := json.Marshal(wf.Steps)
	variablesJSON, _ := json.Marshal(wf.Variables)

	_, err := d.Pool.ExecContext(ctx,
		`INSERT INTO workflows (id, name, description, steps, variables, enabled, version, created_by, template_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		wf.ID, wf.Name, wf.Description, stepsJSON, variablesJSON,
		wf.Enabled, wf.Version, wf.CreatedBy, wf.TemplateID,
		wf.CreatedAt, wf.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert workflow: %w", err)
	}
	return nil
}

// GetWorkflow retrieves a workflow by ID.
func (d *DB) GetWorkflow(ctx context.Context, id string) (*aip.Workflow, error) {
	wf := &aip.Workflow{}
	var stepsJSON, variablesJSON []byte

	err := d.Pool.QueryRowContext(ctx,
		`SELECT id, name, description, steps, variables, enabled, version, created_by, template_id, created_at, updated_at
		 FROM workflows WHERE id = $1`, id,
	).Scan(&wf.ID, &wf.Name, &wf.Description, &stepsJSON, &variablesJSON,
		&wf.Enabled, &wf.Version, &wf.CreatedBy, &wf.TemplateID,
		&wf.CreatedAt, &wf.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("workflow not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get workflow: %w", err)
	}

	json.Unmarshal(stepsJSON, &wf.Steps)
	json.Unmarshal(variablesJSON, &wf.Variables)
	return wf, nil
}

// ListWorkflows returns workflows newest first with pagination.
func (d *DB) ListWorkflows(ctx context.Context, enabledOnly bool, limit, offset int) ([]*aip.Workflow, error) {
	query := `SELECT id, name, description, steps, variables, enabled, version, created_by, template_id, created_at, updated_at
	          FROM workflows`
	if enabledOnly {
		query += ` WHERE enabled = TRUE`
	}
	query += ` ORDER BY created_at DESC LIMIT NULLIF($1, 0) OFFSET $2`

	rows, err := d.Pool.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list workflows: %w", err)
	}
	defer rows.Close()

	var result []*aip.Workflow
	for rows.Next() {
		wf := &aip.Workflow{}
		var stepsJSON, variablesJSON []byte
		if err := rows.Scan(&wf.ID, &wf.Name, &wf.Description, &stepsJSON, &variablesJSON,
			&wf.Enabled, &wf.Version, &wf.CreatedBy, &wf.TemplateID,
			&wf.CreatedAt, &wf.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan workflow: %w", err)
		}
		json.Unmarshal(stepsJSON, &wf.Steps)
		json.Unmarshal(variablesJSON, &wf.Variables)
		result = append(result, wf)
	}
	return result, rows.Err()
}

// UpdateWorkflow updates an existing workflow.
func (d *DB) UpdateWorkflow(ctx context.Context, wf *aip.Workflow) error {
	stepsJSON, _ := json.Marshal(wf.Steps)
	variablesJSON, _ := json.Marshal(wf.Variables)

	_, err := d.Pool.ExecContext(ctx,
		`UPDATE workflows SET name = $1, description = $2, steps = $3, variables = $4, enabled = $5, version = $6, updated_at = $7
		 WHERE id = $8`,
		wf.Name, wf.Description, stepsJSON, variablesJSON,
		wf.Enabled, wf.Version, wf.UpdatedAt, wf.ID,
	)
	if err != nil {
		return fmt.Errorf("update workflow: %w", err)
	}
	return nil
}

// DeleteWorkflow removes a workflow and, via cascade, its executions.
func (d *DB) DeleteWorkflow(ctx context.Context, id string) error {
	_, err := d.Pool.ExecContext(ctx, `DELETE FROM workflows WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete workflow: %w", err)
	}
	return nil
}
