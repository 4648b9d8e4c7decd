package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	"github.com/csw48/AI-autonomous-platform/internal/repository"
)

// createTemplate creates a workflow template.
// POST /api/templates
func (s *Server) createTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl aip.Template
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.templateSvc.Create(r.Context(), &tpl); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, tpl)
}

// listTemplates returns templates, most used first.
// GET /api/templates?category=&public_only=true&limit=&offset=
func (s *Server) listTemplates(w http.ResponseWriter, r *http.Request) {
	filter := repository.TemplateFilter{
		Category:   r.URL.Query().Get("category"),
		PublicOnly: r.URL.Query().Get("public_only") == "true",
		Limit:      queryInt(r, "limit", 0),
		Offset:     queryInt(r, "offset", 0),
	}
	templates, err := s.templateSvc.List(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if templates == nil {
		templates = []*aip.Template{}
	}
	writeJSON(w, http.StatusOK, templates)
}

// getTemplate returns one template.
// GET /api/templates/{id}
func (s *Server) getTemplate(w http.ResponseWriter, r *http.Request) {
	tpl, err := s.templateSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

// updateTemplate replaces a template definition.
// PUT /api/templates/{id}
func (s *Server) updateTemplate(w http.ResponseWriter, r *http.Request) {
	var tpl aip.Template
	if err := json.NewDecoder(r.Body).Decode(&tpl); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	tpl.ID = chi.URLParam(r, "id")

	if err := s.templateSvc.Update(r.Context(), &tpl); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tpl)
}

// deleteTemplate removes a template.
// DELETE /api/templates/{id}
func (s *Server) deleteTemplate(w http.ResponseWriter, r *http.Request) {
	if err := s.templateSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// instantiateTemplate creates a workflow from a template.
// POST /api/templates/{id}/instantiate
func (s *Server) instantiateTemplate(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name      string         `json:"name"`
		Variables map[string]any `json:"variables"`
		CreatedBy string         `json:"created_by"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}

	wf, err := s.templateSvc.Instantiate(r.Context(), chi.URLParam(r, "id"), body.Name, body.Variables, body.CreatedBy)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wf)
}
