package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	"github.com/csw48/AI-autonomous-platform/internal/repository"
)

// listExecutions returns executions across all workflows.
// GET /api/executions?workflow_id=&status=&limit=&offset=
func (s *Server) listExecutions(w http.ResponseWriter, r *http.Request) {
	filter := repository.ExecutionFilter{
		WorkflowID: r.URL.Query().Get("workflow_id"),
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

// getExecution returns one execution.
// GET /api/executions/{id}
func (s *Server) getExecution(w http.ResponseWriter, r *http.Request) {
	exec, err := s.workflowSvc.GetExecution(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exec)
}

// listExecutionSteps returns the per-step records of an execution.
// GET /api/executions/{id}/steps
func (s *Server) listExecutionSteps(w http.ResponseWriter, r *http.Request) {
	steps, err := s.workflowSvc.GetExecutionSteps(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if steps == nil {
		steps = []*aip.StepExecution{}
	}
	writeJSON(w, http.StatusOK, steps)
}

// cancelExecution requests cooperative cancellation of a pending or running
// execution.
// POST /api/executions/{id}/cancel
func (s *Server) cancelExecution(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.workflowSvc.CancelExecution(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	exec, err := s.workflowSvc.GetExecution(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, exec)
}
