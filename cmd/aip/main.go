package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/csw48/AI-autonomous-platform/internal/actions"
	"github.com/csw48/AI-autonomous-platform/internal/api"
	"github.com/csw48/AI-autonomous-platform/internal/config"
	"github.com/csw48/AI-autonomous-platform/internal/db"
	"github.com/csw48/AI-autonomous-platform/internal/engine"
	"github.com/csw48/AI-autonomous-platform/internal/notion"
	"github.com/csw48/AI-autonomous-platform/internal/provider"
	"github.com/csw48/AI-autonomous-platform/internal/repository"
	"github.com/csw48/AI-autonomous-platform/internal/services"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		if err := serve(); err != nil {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
		return
	}
	fmt.Println("aip v0.1.0")
	fmt.Println("Usage: aip serve")
}

func serve() error {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}

	cfg, err := config.LoadDefault()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Repositories: in-memory always, write-through to Postgres when a
	// database URL is configured.
	wfMem := repository.NewMemoryWorkflowRepository()
	execMem := repository.NewMemoryExecutionRepository()
	stepMem := repository.NewMemoryStepExecutionRepository()
	tplMem := repository.NewMemoryTemplateRepository()
	schedMem := repository.NewMemoryScheduleRepository()

	var wfRepo repository.WorkflowRepository = wfMem
	var execRepo repository.ExecutionRepository = execMem
	var stepRepo repository.StepExecutionRepository = stepMem
	var tplRepo repository.TemplateRepository = tplMem
	var schedRepo repository.ScheduleRepository = schedMem

	var database *db.DB
	if cfg.Database.URL != "" {
		database, err = db.New(ctx, cfg.Database.URL)
		if err != nil {
			slog.Warn("database unavailable, running in-memory only", "err", err)
		} else {
			defer database.Close()
			if err := database.Migrate(ctx); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			wfRepo = repository.NewPersistentWorkflowRepository(wfMem, database)
			execRepo = repository.NewPersistentExecutionRepository(execMem, database)
			stepRepo = repository.NewPersistentStepExecutionRepository(stepMem, database)
			tplRepo = repository.NewPersistentTemplateRepository(tplMem, database)
			schedRepo = repository.NewPersistentScheduleRepository(schedMem, database)
			slog.Info("connected to database")
		}
	} else {
		slog.Info("no database configured, running in-memory only")
	}

	providers := provider.NewRegistry()
	for name, pc := range cfg.Providers {
		switch pc.Type {
		case "openai", "":
			providers.Register(provider.NewOpenAIProvider(name, pc.URL, pc.APIKey))
		default:
			slog.Warn("unknown provider type, skipping", "name", name, "type", pc.Type)
		}
	}

	notionClient := notion.NewClient(cfg.Notion.APIKey, cfg.Notion.DatabaseID)

	registry := engine.NewRegistry()
	deps := actions.Deps{Providers: providers, Notion: notionClient}
	if database != nil {
		deps.Searcher = database
	}
	actions.RegisterBuiltins(registry, deps)

	executor := engine.NewExecutor(wfRepo, execRepo, stepRepo, registry)
	workflowSvc := services.NewWorkflowService(wfRepo, execRepo, stepRepo, registry, executor)
	templateSvc := services.NewTemplateService(tplRepo, workflowSvc)
	schedulerSvc := services.NewSchedulerService(schedRepo, workflowSvc)

	srv := api.NewServer(workflowSvc, templateSvc)
	srv.SetSchedulerService(schedulerSvc)
	if database != nil {
		srv.SetSearcher(database)
	}

	if err := schedulerSvc.Start(ctx); err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{Addr: addr, Handler: srv.Handler()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("starting server", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down")
		schedulerSvc.Stop()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
