package services

import (
	"context"
	"errors"
	"testing"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	"github.com/csw48/AI-autonomous-platform/internal/engine"
	"github.com/csw48/AI-autonomous-platform/internal/repository"
)

func newTestTemplateService(t *testing.T) (*TemplateService, *WorkflowService) {
	t.Helper()
	wfSvc := newTestWorkflowService(t)
	return NewTemplateService(repository.NewMemoryTemplateRepository(), wfSvc), wfSvc
}

func validTemplate() *aip.Template {
	return &aip.Template{
		Name:     "report",
		Category: "reporting",
		Steps: []aip.StepDefinition{
			{Name: "one", Action: "stub", Parameters: map[string]any{"required": "{{topic}}"}},
		},
		DefaultVariables: map[string]any{"topic": "weekly", "format": "md"},
	}
}

func TestTemplateCreateValidatesSteps(t *testing.T) {
	svc, _ := newTestTemplateService(t)
	tpl := &aip.Template{Name: "broken", Steps: []aip.StepDefinition{{Action: "nope"}}}
	var defErr *engine.DefinitionError
	if err := svc.Create(context.Background(), tpl); !errors.As(err, &defErr) {
		t.Fatalf("error = %v, want DefinitionError", err)
	}
}

func TestTemplateInstantiate(t *testing.T) {
	svc, wfSvc := newTestTemplateService(t)
	ctx := context.Background()

	tpl := validTemplate()
	if err := svc.Create(ctx, tpl); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	wf, err := svc.Instantiate(ctx, tpl.ID, "my report", map[string]any{"topic": "monthly"}, "tester")
	if err != nil {
		t.Fatalf("Instantiate() error = %v", err)
	}

	// Caller variables win over template defaults.
	if wf.Variables["topic"] != "monthly" {
		t.Errorf("topic = %v, want monthly", wf.Variables["topic"])
	}
	if wf.Variables["format"] != "md" {
		t.Errorf("format = %v, want md", wf.Variables["format"])
	}
	if wf.TemplateID == nil || *wf.TemplateID != tpl.ID {
		t.Errorf("TemplateID = %v, want %s", wf.TemplateID, tpl.ID)
	}

	stored, err := wfSvc.Get(ctx, wf.ID)
	if err != nil {
		t.Fatalf("workflow not stored: %v", err)
	}
	if stored.Name != "my report" {
		t.Errorf("name = %q", stored.Name)
	}

	// Usage counter bumped.
	storedTpl, err := svc.Get(ctx, tpl.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if storedTpl.UsageCount != 1 {
		t.Errorf("usage count = %d, want 1", storedTpl.UsageCount)
	}
}

func TestTemplateInstantiateNotFound(t *testing.T) {
	svc, _ := newTestTemplateService(t)
	_, err := svc.Instantiate(context.Background(), "tpl-missing", "x", nil, "")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
}

func TestTemplateListFilter(t *testing.T) {
	svc, _ := newTestTemplateService(t)
	ctx := context.Background()

	a := validTemplate()
	if err := svc.Create(ctx, a); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	b := validTemplate()
	b.Name = "other"
	b.Category = "ops"
	if err := svc.Create(ctx, b); err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	tpls, err := svc.List(ctx, repository.TemplateFilter{Category: "ops"})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(tpls) != 1 || tpls[0].Category != "ops" {
		t.Errorf("got %d templates, want the single ops one", len(tpls))
	}
}
