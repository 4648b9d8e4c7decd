package api

import (
	"net/http"
)

// searchDocuments runs a keyword search over the document store.
// GET /api/search?q=&limit=
func (s *Server) searchDocuments(w http.ResponseWriter, r *http.Request) {
	if s.searcher == nil {
		http.Error(w, "document search not available", http.StatusServiceUnavailable)
		return
	}

	query := r.URL.Query().Get("q")
	if query == "" {
		http.Error(w, "q is required", http.StatusBadRequest)
		return
	}
	limit := queryInt(r, "limit", 5)

	matches, err := s.searcher.SearchDocuments(r.Context(), query, limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"results": matches,
		"count":   len(matches),
	})
}
