package db

import (
	"context"
	"fmt"
)

// DocumentMatch is one document search result.
type DocumentMatch struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Title    string `json:"title,omitempty"`
	Snippet  string `json:"snippet"`
}

// SearchDocuments performs a keyword search over indexed document content
// using Postgres full-text search. Vector similarity stays with the
// indexing subsystem; this search backs the doc_search workflow action.
func (d *DB) SearchDocuments(ctx context.Context, query string, limit int) ([]DocumentMatch, error) {
	if limit <= 0 {
		limit = 5
	}

	rows, err := d.Pool.QueryContext(ctx,
		`SELECT id, filename, COALESCE(title, ''),
		        ts_headline('english', content, plainto_tsquery('english', $1)) AS snippet
		 FROM documents
		 WHERE status = 'completed'
		   AND to_tsvector('english', content) @@ plainto_tsquery('english', $1)
		 ORDER BY ts_rank(to_tsvector('english', content), plainto_tsquery('english', $1)) DESC
		 LIMIT $2`,
		query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search documents: %w", err)
	}
	defer rows.Close()

	var result []DocumentMatch
	for rows.Next() {
		var m DocumentMatch
		if err := rows.Scan(&m.ID, &m.Filename, &m.Title, &m.Snippet); err != nil {
			return nil, fmt.Errorf("scan document match: %w", err)
		}
		result = append(result, m)
	}
	return result, rows.Err()
}
