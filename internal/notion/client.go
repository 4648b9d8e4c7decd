// Package notion is a minimal client for the Notion REST API covering the
// task-tracking operations workflows use: finding a task page by title,
// updating its status, and logging milestone pages.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"
)

type Client struct {
	baseURL    string
	apiKey     string
	databaseID string
	client     *http.Client
}

// NewClient returns a disabled client when apiKey or databaseID is empty.
// Callers check Enabled() before use; operations on a disabled client fail.
func NewClient(apiKey, databaseID string) *Client {
	c := &Client{baseURL: defaultBaseURL, apiKey: apiKey, databaseID: databaseID, client: &http.Client{}}
	if !c.Enabled() {
		slog.Warn("notion API key or database ID not provided, integration disabled")
	}
	return c
}

// SetBaseURL overrides the API endpoint, used in tests.
func (c *Client) SetBaseURL(url string) { c.baseURL = url }

func (c *Client) Enabled() bool {
	return c.apiKey != "" && c.databaseID != ""
}

// UpdateTaskStatus finds the first page whose title contains taskName and
// sets its Status property.
func (c *Client) UpdateTaskStatus(ctx context.Context, taskName, status string) error {
	if !c.Enabled() {
		return fmt.Errorf("notion integration disabled")
	}

	pageID, err := c.findPageByTitle(ctx, taskName)
	if err != nil {
		return err
	}

	props := map[string]any{
		"Status": map[string]any{"status": map[string]any{"name": status}},
	}
	if err := c.UpdatePage(ctx, pageID, props); err != nil {
		return err
	}

	slog.Info("notion task updated", "task", taskName, "status", status)
	return nil
}

// LogMilestone creates a new page in the database marking a milestone as done.
func (c *Client) LogMilestone(ctx context.Context, name string) error {
	if !c.Enabled() {
		return fmt.Errorf("notion integration disabled")
	}

	body := map[string]any{
		"parent": map[string]any{"database_id": c.databaseID},
		"properties": map[string]any{
			"Name": map[string]any{
				"title": []map[string]any{
					{"text": map[string]any{"content": "Milestone: " + name}},
				},
			},
			"Status": map[string]any{"status": map[string]any{"name": "Done"}},
		},
	}

	if err := c.do(ctx, "POST", "/pages", body, nil); err != nil {
		return fmt.Errorf("log milestone %q: %w", name, err)
	}

	slog.Info("notion milestone logged", "milestone", name)
	return nil
}

func (c *Client) findPageByTitle(ctx context.Context, title string) (string, error) {
	body := map[string]any{
		"filter": map[string]any{
			"property": "Name",
			"title":    map[string]any{"contains": title},
		},
	}

	var result struct {
		Results []struct {
			ID string `json:"id"`
		} `json:"results"`
	}
	path := fmt.Sprintf("/databases/%s/query", c.databaseID)
	if err := c.do(ctx, "POST", path, body, &result); err != nil {
		return "", fmt.Errorf("query database: %w", err)
	}
	if len(result.Results) == 0 {
		return "", fmt.Errorf("task %q not found in notion database", title)
	}
	return result.Results[0].ID, nil
}

// UpdatePage patches arbitrary properties on a page.
func (c *Client) UpdatePage(ctx context.Context, pageID string, properties map[string]any) error {
	if !c.Enabled() {
		return fmt.Errorf("notion integration disabled")
	}
	body := map[string]any{"properties": properties}
	if err := c.do(ctx, "PATCH", "/pages/"+pageID, body, nil); err != nil {
		return fmt.Errorf("update page %s: %w", pageID, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	jsonData, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Notion-Version", apiVersion)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
