package actions

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/csw48/AI-autonomous-platform/internal/db"
)

// DocumentSearcher is the port the doc_search action needs from the storage
// layer. *db.DB satisfies it.
type DocumentSearcher interface {
	SearchDocuments(ctx context.Context, query string, limit int) ([]db.DocumentMatch, error)
}

// DocSearchAction runs a keyword search over the indexed document store.
type DocSearchAction struct {
	searcher DocumentSearcher
}

func (a *DocSearchAction) Type() string        { return "doc_search" }
func (a *DocSearchAction) Description() string { return "Search indexed documents by keyword" }

func (a *DocSearchAction) Validate(params map[string]any) error {
	_, err := requireString(params, "query", a.Type())
	return err
}

// Execute returns a map with results and count. limit defaults to 5.
func (a *DocSearchAction) Execute(ctx context.Context, params map[string]any, execContext map[string]any) (any, error) {
	query, err := requireString(params, "query", a.Type())
	if err != nil {
		return nil, err
	}
	if a.searcher == nil {
		return nil, fmt.Errorf("document search is not available")
	}
	limit := int(numParam(params, "limit", 5))

	slog.Info("searching documents", "query", query, "limit", limit)

	matches, err := a.searcher.SearchDocuments(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("document search: %w", err)
	}

	results := make([]any, 0, len(matches))
	for _, m := range matches {
		results = append(results, map[string]any{
			"id":       m.ID,
			"filename": m.Filename,
			"title":    m.Title,
			"snippet":  m.Snippet,
		})
	}
	return map[string]any{
		"results": results,
		"count":   len(results),
	}, nil
}
