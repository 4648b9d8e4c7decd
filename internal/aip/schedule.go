package aip

import "time"

// Schedule defines a cron-based recurring workflow execution.
type Schedule struct {
	ID         string         `json:"id"`
	WorkflowID string         `json:"workflow_id"`
	CronExpr   string         `json:"cron_expr"`
	Timezone   string         `json:"timezone,omitempty"`
	Input      map[string]any `json:"input,omitempty"`
	Enabled    bool           `json:"enabled"`
	NextRunAt  time.Time      `json:"next_run_at"`
	LastRunAt  *time.Time     `json:"last_run_at,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}
