package actions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/csw48/AI-autonomous-platform/internal/notion"
)

// NotionUpdateAction patches properties on a Notion task page.
type NotionUpdateAction struct {
	client *notion.Client
}

func (a *NotionUpdateAction) Type() string        { return "notion_update" }
func (a *NotionUpdateAction) Description() string { return "Update a Notion task's properties" }

func (a *NotionUpdateAction) Validate(params map[string]any) error {
	if _, err := requireString(params, "task_id", a.Type()); err != nil {
		return err
	}
	if _, ok := params["properties"]; !ok {
		return fmt.Errorf("%s action requires %q parameter", a.Type(), "properties")
	}
	return nil
}

func (a *NotionUpdateAction) Execute(ctx context.Context, params map[string]any, execContext map[string]any) (any, error) {
	taskID, err := requireString(params, "task_id", a.Type())
	if err != nil {
		return nil, err
	}
	properties, ok := params["properties"].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s action parameter %q must be an object", a.Type(), "properties")
	}
	if a.client == nil || !a.client.Enabled() {
		return nil, fmt.Errorf("notion integration is not configured")
	}

	slog.Info("updating notion task", "task_id", taskID)

	if err := a.client.UpdatePage(ctx, taskID, properties); err != nil {
		return nil, fmt.Errorf("notion update: %w", err)
	}

	updated := make([]string, 0, len(properties))
	for k := range properties {
		updated = append(updated, k)
	}
	return map[string]any{
		"status":             "success",
		"task_id":            taskID,
		"updated_properties": updated,
	}, nil
}
