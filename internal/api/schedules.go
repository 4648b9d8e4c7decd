package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	"github.com/csw48/AI-autonomous-platform/internal/repository"
)

// createSchedule creates a cron schedule for a workflow.
// POST /api/schedules
func (s *Server) createSchedule(w http.ResponseWriter, r *http.Request) {
	if s.schedulerSvc == nil {
		http.Error(w, "scheduler not available", http.StatusServiceUnavailable)
		return
	}

	var schedule aip.Schedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if schedule.WorkflowID == "" || schedule.CronExpr == "" {
		http.Error(w, "workflow_id and cron_expr are required", http.StatusBadRequest)
		return
	}

	if err := s.schedulerSvc.AddSchedule(r.Context(), &schedule); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, err)
			return
		}
		// Remaining failures are bad cron expressions or timezones.
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, http.StatusCreated, schedule)
}

// listSchedules returns all schedules.
// GET /api/schedules
func (s *Server) listSchedules(w http.ResponseWriter, r *http.Request) {
	if s.schedulerSvc == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}

	schedules, err := s.schedulerSvc.ListSchedules(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if schedules == nil {
		schedules = []*aip.Schedule{}
	}
	writeJSON(w, http.StatusOK, schedules)
}

// getSchedule returns one schedule.
// GET /api/schedules/{id}
func (s *Server) getSchedule(w http.ResponseWriter, r *http.Request) {
	if s.schedulerSvc == nil {
		http.Error(w, "scheduler not available", http.StatusServiceUnavailable)
		return
	}

	schedule, err := s.schedulerSvc.GetSchedule(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

// updateSchedule modifies an existing schedule.
// PUT /api/schedules/{id}
func (s *Server) updateSchedule(w http.ResponseWriter, r *http.Request) {
	if s.schedulerSvc == nil {
		http.Error(w, "scheduler not available", http.StatusServiceUnavailable)
		return
	}

	var schedule aip.Schedule
	if err := json.NewDecoder(r.Body).Decode(&schedule); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	schedule.ID = chi.URLParam(r, "id")

	if err := s.schedulerSvc.UpdateSchedule(r.Context(), &schedule); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, schedule)
}

// deleteSchedule removes a schedule and its cron job.
// DELETE /api/schedules/{id}
func (s *Server) deleteSchedule(w http.ResponseWriter, r *http.Request) {
	if s.schedulerSvc == nil {
		http.Error(w, "scheduler not available", http.StatusServiceUnavailable)
		return
	}

	if err := s.schedulerSvc.RemoveSchedule(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// triggerSchedule fires a schedule immediately.
// POST /api/schedules/{id}/trigger
func (s *Server) triggerSchedule(w http.ResponseWriter, r *http.Request) {
	if s.schedulerSvc == nil {
		http.Error(w, "scheduler not available", http.StatusServiceUnavailable)
		return
	}

	if err := s.schedulerSvc.TriggerNow(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
