package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
)

// CreateTemplate stores a new workflow template.
func (d *DB) CreateTemplate(ctx context.Context, t *aip.Template) error {
	stepsJSON, _ := json.Marshal(t.Steps)
	defaultsJSON, _ := json.Marshal(t.DefaultVariables)
	requiredJSON, _ := json.Marshal(t.RequiredVariables)
	tagsJSON, _ := json.Marshal(t.Tags)

	_, err := d.Pool.ExecContext(ctx,
		`INSERT INTO workflow_templates (id, name, description, category, steps, default_variables, required_variables, tags, author, is_public, usage_count, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		t.ID, t.Name, t.Description, t.Category, stepsJSON,
		defaultsJSON, requiredJSON, tagsJSON,
		t.Author, t.IsPublic, t.UsageCount, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert template: %w", err)
	}
	return nil
}

// GetTemplate retrieves a template by ID.
func (d *DB) GetTemplate(ctx context.Context, id string) (*aip.Template, error) {
	t := &aip.Template{}
	var stepsJSON, defaultsJSON, requiredJSON, tagsJSON []byte

	err := d.Pool.QueryRowContext(ctx,
		`SELECT id, name, description, category, steps, default_variables, required_variables, tags, author, is_public, usage_count, created_at
		 FROM workflow_templates WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Description, &t.Category, &stepsJSON,
		&defaultsJSON, &requiredJSON, &tagsJSON,
		&t.Author, &t.IsPublic, &t.UsageCount, &t.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("template not found: %s", id)
	}
	if err != nil {
		return nil, fmt.Errorf("get template: %w", err)
	}

	json.Unmarshal(stepsJSON, &t.Steps)
	json.Unmarshal(defaultsJSON, &t.DefaultVariables)
	json.Unmarshal(requiredJSON, &t.RequiredVariables)
	json.Unmarshal(tagsJSON, &t.Tags)
	return t, nil
}

// ListTemplates returns templates matching the filter, most used first.
// Empty category matches everything.
func (d *DB) ListTemplates(ctx context.Context, category string, publicOnly bool, limit, offset int) ([]*aip.Template, error) {
	rows, err := d.Pool.QueryContext(ctx,
		`SELECT id, name, description, category, steps, default_variables, required_variables, tags, author, is_public, usage_count, created_at
		 FROM workflow_templates
		 WHERE ($1 = '' OR category = $1) AND (NOT $2 OR is_public)
		 ORDER BY usage_count DESC LIMIT NULLIF($3, 0) OFFSET $4`,
		category, publicOnly, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	var result []*aip.Template
	for rows.Next() {
		t := &aip.Template{}
		var stepsJSON, defaultsJSON, requiredJSON, tagsJSON []byte
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Category, &stepsJSON,
			&defaultsJSON, &requiredJSON, &tagsJSON,
			&t.Author, &t.IsPublic, &t.UsageCount, &t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		json.Unmarshal(stepsJSON, &t.Steps)
		json.Unmarshal(defaultsJSON, &t.DefaultVariables)
		json.Unmarshal(requiredJSON, &t.RequiredVariables)
		json.Unmarshal(tagsJSON, &t.Tags)
		result = append(result, t)
	}
	return result, rows.Err()
}

// UpdateTemplate updates an existing template.
func (d *DB) UpdateTemplate(ctx context.Context, t *aip.Template) error {
	stepsJSON, _ := json.Marshal(t.Steps)
	defaultsJSON, _ := json.Marshal(t.DefaultVariables)

	_, err := d.Pool.ExecContext(ctx,
		`UPDATE workflow_templates SET name = $1, description = $2, category = $3, steps = $4, default_variables = $5, is_public = $6, usage_count = $7
		 WHERE id = $8`,
		t.Name, t.Description, t.Category, stepsJSON, defaultsJSON,
		t.IsPublic, t.UsageCount, t.ID,
	)
	if err != nil {
		return fmt.Errorf("update template: %w", err)
	}
	return nil
}

// DeleteTemplate removes a template.
func (d *DB) DeleteTemplate(ctx context.Context, id string) error {
	_, err := d.Pool.ExecContext(ctx, `DELETE FROM workflow_templates WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}
