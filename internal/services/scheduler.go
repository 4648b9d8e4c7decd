package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/csw48/AI-autonomous-platform/internal/aip"
	"github.com/csw48/AI-autonomous-platform/internal/repository"
)

// maxConcurrentScheduledRuns bounds how many cron-triggered executions may
// be in flight at once.
const maxConcurrentScheduledRuns = 4

// SchedulerService manages cron-based workflow scheduling on top of
// robfig/cron. Fired schedules dispatch workflow runs through a bounded
// errgroup so a burst of due schedules cannot exhaust the process.
type SchedulerService struct {
	cron      *cron.Cron
	repo      repository.ScheduleRepository
	workflows *WorkflowService
	group     *errgroup.Group

	mu       sync.RWMutex
	entryMap map[string]cron.EntryID // schedule ID -> cron entry
}

func NewSchedulerService(repo repository.ScheduleRepository, workflows *WorkflowService) *SchedulerService {
	g := &errgroup.Group{}
	g.SetLimit(maxConcurrentScheduledRuns)
	return &SchedulerService{
		cron:      cron.New(cron.WithSeconds()),
		repo:      repo,
		workflows: workflows,
		group:     g,
		entryMap:  make(map[string]cron.EntryID),
	}
}

// Start loads enabled schedules from the repository and begins the cron
// loop.
func (s *SchedulerService) Start(ctx context.Context) error {
	schedules, err := s.repo.List(ctx)
	if err != nil {
		slog.Warn("scheduler: failed to load schedules", "err", err)
	} else {
		for _, sched := range schedules {
			if sched.Enabled {
				if err := s.registerCronJob(sched); err != nil {
					slog.Warn("scheduler: failed to register schedule", "id", sched.ID, "err", err)
				}
			}
		}
		slog.Info("scheduler: loaded schedules", "count", len(schedules))
	}

	s.cron.Start()
	slog.Info("scheduler: started")
	return nil
}

// Stop stops the cron loop and waits for in-flight scheduled runs.
func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	_ = s.group.Wait()
	slog.Info("scheduler: stopped")
}

// AddSchedule validates the cron expression, stores the schedule, and
// registers its cron job when enabled.
func (s *SchedulerService) AddSchedule(ctx context.Context, schedule *aip.Schedule) error {
	if _, err := s.workflows.Get(ctx, schedule.WorkflowID); err != nil {
		return err
	}
	cronSched, err := parseCronExpr(schedule.CronExpr, schedule.Timezone)
	if err != nil {
		return err
	}

	now := time.Now()
	schedule.ID = aip.GenerateID("sched")
	schedule.NextRunAt = cronSched.Next(now)
	schedule.CreatedAt = now
	schedule.UpdatedAt = now
	if schedule.Timezone == "" {
		schedule.Timezone = "UTC"
	}

	if err := s.repo.Create(ctx, schedule); err != nil {
		return err
	}
	if schedule.Enabled {
		return s.registerCronJob(schedule)
	}
	return nil
}

// RemoveSchedule removes a schedule and its cron job.
func (s *SchedulerService) RemoveSchedule(ctx context.Context, id string) error {
	s.unregister(id)
	return s.repo.Delete(ctx, id)
}

// UpdateSchedule re-validates the cron expression and re-registers the job.
func (s *SchedulerService) UpdateSchedule(ctx context.Context, schedule *aip.Schedule) error {
	if _, err := parseCronExpr(schedule.CronExpr, schedule.Timezone); err != nil {
		return err
	}
	s.unregister(schedule.ID)

	schedule.UpdatedAt = time.Now()
	if err := s.repo.Update(ctx, schedule); err != nil {
		return err
	}
	if schedule.Enabled {
		return s.registerCronJob(schedule)
	}
	return nil
}

func (s *SchedulerService) GetSchedule(ctx context.Context, id string) (*aip.Schedule, error) {
	return s.repo.Get(ctx, id)
}

func (s *SchedulerService) ListSchedules(ctx context.Context) ([]*aip.Schedule, error) {
	return s.repo.List(ctx)
}

// TriggerNow runs a schedule's workflow immediately through the same path
// as a cron fire, timestamps included.
func (s *SchedulerService) TriggerNow(ctx context.Context, id string) error {
	schedule, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	s.executeScheduledRun(schedule)
	return nil
}

// parseCronExpr accepts both 6-field (with seconds) and standard 5-field
// expressions. A non-UTC timezone is applied via the CRON_TZ prefix.
func parseCronExpr(expr string, timezone string) (cron.Schedule, error) {
	if timezone != "" && timezone != "UTC" {
		expr = "CRON_TZ=" + timezone + " " + expr
	}
	parser6 := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser6.Parse(expr)
	if err == nil {
		return sched, nil
	}
	parser5 := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	return parser5.Parse(expr)
}

func (s *SchedulerService) registerCronJob(schedule *aip.Schedule) error {
	cronSched, err := parseCronExpr(schedule.CronExpr, schedule.Timezone)
	if err != nil {
		return err
	}

	entryID := s.cron.Schedule(cronSched, cron.FuncJob(func() {
		s.group.Go(func() error {
			s.executeScheduledRun(schedule)
			return nil
		})
	}))

	s.mu.Lock()
	s.entryMap[schedule.ID] = entryID
	s.mu.Unlock()

	slog.Info("scheduler: registered cron job",
		"schedule", schedule.ID, "workflow", schedule.WorkflowID, "expr", schedule.CronExpr)
	return nil
}

func (s *SchedulerService) unregister(id string) {
	s.mu.Lock()
	if entryID, ok := s.entryMap[id]; ok {
		s.cron.Remove(entryID)
		delete(s.entryMap, id)
	}
	s.mu.Unlock()
}

// executeScheduledRun fires one scheduled workflow run and stamps the
// schedule's LastRunAt/NextRunAt.
func (s *SchedulerService) executeScheduledRun(schedule *aip.Schedule) {
	ctx := context.Background()

	slog.Info("scheduler: executing scheduled run",
		"schedule", schedule.ID, "workflow", schedule.WorkflowID)

	exec, err := s.workflows.Execute(ctx, schedule.WorkflowID, schedule.Input)
	if err != nil {
		slog.Error("scheduler: scheduled run failed",
			"schedule", schedule.ID, "workflow", schedule.WorkflowID, "err", err)
	} else {
		slog.Info("scheduler: scheduled run finished",
			"schedule", schedule.ID, "execution", exec.ID, "status", exec.Status)
	}

	now := time.Now()
	schedule.LastRunAt = &now
	if cronSched, parseErr := parseCronExpr(schedule.CronExpr, schedule.Timezone); parseErr == nil {
		schedule.NextRunAt = cronSched.Next(now)
	}
	schedule.UpdatedAt = now
	if updateErr := s.repo.Update(ctx, schedule); updateErr != nil {
		slog.Warn("scheduler: failed to update schedule after run", "err", updateErr)
	}
}
