// Package aip defines the domain types shared across the platform:
// workflow definitions, executions, templates, and schedules.
package aip

import "time"

// StepDefinition is one entry in a workflow's ordered step sequence.
// Parameters may contain {{variable}} placeholders resolved at run time.
type StepDefinition struct {
	Name           string         `json:"name,omitempty"`
	Action         string         `json:"action"`
	Parameters     map[string]any `json:"parameters,omitempty"`
	OutputVariable string         `json:"output_variable,omitempty"`
	Condition      string         `json:"condition,omitempty"`
}

// Workflow is a versioned, declarative list of steps.
type Workflow struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Steps       []StepDefinition `json:"steps"`
	Variables   map[string]any   `json:"variables,omitempty"`
	Enabled     bool             `json:"enabled"`
	Version     int              `json:"version"`
	CreatedBy   string           `json:"created_by,omitempty"`
	TemplateID  *string          `json:"template_id,omitempty"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

// Template is a reusable blueprint from which workflows are instantiated.
type Template struct {
	ID                string           `json:"id"`
	Name              string           `json:"name"`
	Description       string           `json:"description,omitempty"`
	Category          string           `json:"category,omitempty"`
	Steps             []StepDefinition `json:"steps"`
	DefaultVariables  map[string]any   `json:"default_variables,omitempty"`
	RequiredVariables []string         `json:"required_variables,omitempty"`
	Tags              []string         `json:"tags,omitempty"`
	Author            string           `json:"author,omitempty"`
	IsPublic          bool             `json:"is_public"`
	UsageCount        int              `json:"usage_count"`
	CreatedAt         time.Time        `json:"created_at"`
}
