// Package api exposes the platform over a JSON REST surface.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/csw48/AI-autonomous-platform/internal/actions"
	"github.com/csw48/AI-autonomous-platform/internal/engine"
	"github.com/csw48/AI-autonomous-platform/internal/repository"
	"github.com/csw48/AI-autonomous-platform/internal/services"
)

type Server struct {
	workflowSvc  *services.WorkflowService
	templateSvc  *services.TemplateService
	schedulerSvc *services.SchedulerService
	searcher     actions.DocumentSearcher
}

func NewServer(workflowSvc *services.WorkflowService, templateSvc *services.TemplateService) *Server {
	return &Server{workflowSvc: workflowSvc, templateSvc: templateSvc}
}

// SetSchedulerService enables the schedule endpoints.
func (s *Server) SetSchedulerService(svc *services.SchedulerService) {
	s.schedulerSvc = svc
}

// SetSearcher enables the document search endpoint.
func (s *Server) SetSearcher(searcher actions.DocumentSearcher) {
	s.searcher = searcher
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))
	r.Route("/api", func(r chi.Router) {
		r.Route("/workflows", func(r chi.Router) {
			r.Post("/", s.createWorkflow)
			r.Get("/", s.listWorkflows)
			r.Get("/{id}", s.getWorkflow)
			r.Put("/{id}", s.updateWorkflow)
			r.Delete("/{id}", s.deleteWorkflow)
			r.Post("/{id}/execute", s.executeWorkflow)
			r.Get("/{id}/executions", s.listWorkflowExecutions)
		})
		r.Route("/executions", func(r chi.Router) {
			r.Get("/", s.listExecutions)
			r.Get("/{id}", s.getExecution)
			r.Get("/{id}/steps", s.listExecutionSteps)
			r.Post("/{id}/cancel", s.cancelExecution)
		})
		r.Route("/templates", func(r chi.Router) {
			r.Post("/", s.createTemplate)
			r.Get("/", s.listTemplates)
			r.Get("/{id}", s.getTemplate)
			r.Put("/{id}", s.updateTemplate)
			r.Delete("/{id}", s.deleteTemplate)
			r.Post("/{id}/instantiate", s.instantiateTemplate)
		})
		r.Route("/schedules", func(r chi.Router) {
			r.Post("/", s.createSchedule)
			r.Get("/", s.listSchedules)
			r.Get("/{id}", s.getSchedule)
			r.Put("/{id}", s.updateSchedule)
			r.Delete("/{id}", s.deleteSchedule)
			r.Post("/{id}/trigger", s.triggerSchedule)
		})
		r.Get("/actions", s.listActions)
		r.Get("/search", s.searchDocuments)
	})
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError maps domain errors to HTTP status codes: invalid definitions
// are 422, missing entities 404, state conflicts 409, the rest 500.
func writeError(w http.ResponseWriter, err error) {
	var defErr *engine.DefinitionError
	var unknownErr *engine.UnknownActionError
	var transErr *engine.InvalidTransitionError

	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &defErr), errors.As(err, &unknownErr):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, repository.ErrNotFound):
		status = http.StatusNotFound
	case errors.As(err, &transErr), errors.Is(err, engine.ErrWorkflowDisabled):
		status = http.StatusConflict
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
