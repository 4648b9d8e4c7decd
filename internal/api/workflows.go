package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	"github.com/csw48/AI-autonomous-platform/internal/repository"
)

// createWorkflow creates a workflow definition.
// POST /api/workflows
func (s *Server) createWorkflow(w http.ResponseWriter, r *http.Request) {
	var wf aip.Workflow
	if err := json.NewDecoder(r.Body).Decode(&wf); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := s.workflowSvc.Create(r.Context(), &wf); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, wf)
}

// listWorkflows returns workflows, optionally filtered to enabled ones.
// GET /api/workflows?enabled_only=true&limit=&offset=
func (s *Server) listWorkflows(w http.ResponseWriter, r *http.Request) {
	enabledOnly := r.URL.Query().Get("enabled_only") == "true"
	limit := queryInt(r, "limit", 0)
	offset := queryInt(r, "offset", 0)

	workflows, err := s.workflowSvc.List(r.Context(), enabledOnly, limit, offset)
	if err != nil {
		writeError(w, err)
		return
	}
	if workflows == nil {
		workflows = []*aip.Workflow{}
	}
	writeJSON(w, http.StatusOK, workflows)
}

// getWorkflow returns one workflow.
// GET /api/workflows/{id}
func (s *Server) getWorkflow(w http.ResponseWriter, r *http.Request) {
	wf, err := s.workflowSvc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wf)
}

// updateWorkflow replaces a workflow definition.
// PUT /api/workflows/{id}
func (s *Server) updateWorkflow(w http.ResponseWriter, r *http.Request) {
	var wf aip.Workflow
	if err := json.NewDecoder(r.Body).Decode(&wf); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	wf.ID = chi.URLParam(r, "id")

	if err := s.workflowSvc.Update(r.Context(), &wf); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, wf)
}

// deleteWorkflow removes a workflow.
// DELETE /api/workflows/{id}
func (s *Server) deleteWorkflow(w http.ResponseWriter, r *http.Request) {
	if err := s.workflowSvc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// executeWorkflow runs a workflow synchronously with the posted input.
// POST /api/workflows/{id}/execute
func (s *Server) executeWorkflow(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Input map[string]any `json:"input"`
	}
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
	}

	exec, err := s.workflowSvc.Execute(r.Context(), chi.URLParam(r, "id"), body.Input)
	if err != nil && exec == nil {
		writeError(w, err)
		return
	}
	// A failed run still produced an execution record; return it.
	writeJSON(w, http.StatusOK, exec)
}

// listWorkflowExecutions returns the execution history of one workflow.
// GET /api/workflows/{id}/executions?status=&limit=&offset=
func (s *Server) listWorkflowExecutions(w http.ResponseWriter, r *http.Request) {
	filter := repository.ExecutionFilter{
		WorkflowID: chi.URLParam(r, "id"),
		Status:     aip.ExecutionStatus(r.URL.Query().Get("status")),
		Limit:      queryInt(r, "limit", 0),
		Offset:     queryInt(r, "offset", 0),
	}
	executions, total, err := s.workflowSvc.ListExecutions(r.Context(), filter)
	if err != nil {
		writeError(w, err)
		return
	}
	if executions == nil {
		executions = []*aip.Execution{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"executions": executions,
		"total":      total,
	})
}

// listActions returns the registered action catalog.
// GET /api/actions
func (s *Server) listActions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.workflowSvc.ListAvailableActions())
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
