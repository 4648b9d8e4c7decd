package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	"github.com/csw48/AI-autonomous-platform/internal/repository"
)

// TemplateService manages workflow templates and workflow instantiation
// from them.
type TemplateService struct {
	repo      repository.TemplateRepository
	workflows *WorkflowService
}

func NewTemplateService(repo repository.TemplateRepository, workflows *WorkflowService) *TemplateService {
	return &TemplateService{repo: repo, workflows: workflows}
}

// Create validates the template's steps the same way workflows are
// validated, so instantiation cannot produce a broken workflow.
func (s *TemplateService) Create(ctx context.Context, tpl *aip.Template) error {
	probe := &aip.Workflow{Name: tpl.Name, Steps: tpl.Steps}
	if err := s.workflows.validateDefinition(probe); err != nil {
		return err
	}
	if tpl.ID == "" {
		tpl.ID = aip.GenerateID("tpl")
	}
	tpl.UsageCount = 0
	tpl.CreatedAt = time.Now()
	return s.repo.Create(ctx, tpl)
}

func (s *TemplateService) Get(ctx context.Context, id string) (*aip.Template, error) {
	return s.repo.Get(ctx, id)
}

func (s *TemplateService) List(ctx context.Context, filter repository.TemplateFilter) ([]*aip.Template, error) {
	return s.repo.List(ctx, filter)
}

func (s *TemplateService) Update(ctx context.Context, tpl *aip.Template) error {
	probe := &aip.Workflow{Name: tpl.Name, Steps: tpl.Steps}
	if err := s.workflows.validateDefinition(probe); err != nil {
		return err
	}
	existing, err := s.repo.Get(ctx, tpl.ID)
	if err != nil {
		return err
	}
	tpl.UsageCount = existing.UsageCount
	tpl.CreatedAt = existing.CreatedAt
	return s.repo.Update(ctx, tpl)
}

func (s *TemplateService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Instantiate creates a workflow from a template. Template default
// variables are merged with the caller's variables, caller wins. The
// template's usage counter is incremented on success.
func (s *TemplateService) Instantiate(ctx context.Context, templateID, name string, variables map[string]any, createdBy string) (*aip.Workflow, error) {
	tpl, err := s.repo.Get(ctx, templateID)
	if err != nil {
		return nil, err
	}

	merged := map[string]any{}
	for k, v := range tpl.DefaultVariables {
		merged[k] = v
	}
	for k, v := range variables {
		merged[k] = v
	}

	wf := &aip.Workflow{
		Name:        name,
		Description: tpl.Description,
		Steps:       tpl.Steps,
		Variables:   merged,
		Enabled:     true,
		CreatedBy:   createdBy,
		TemplateID:  &tpl.ID,
	}
	if err := s.workflows.Create(ctx, wf); err != nil {
		return nil, err
	}

	tpl.UsageCount++
	if err := s.repo.Update(ctx, tpl); err != nil {
		slog.Warn("failed to bump template usage count", "template", tpl.ID, "err", err)
	}

	slog.Info("created workflow from template", "workflow", wf.ID, "template", tpl.ID)
	return wf, nil
}
