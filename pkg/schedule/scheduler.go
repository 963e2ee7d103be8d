// Package schedule runs scenarios on recurring cron schedules.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/poib/testflow/pkg/models"
	"github.com/poib/testflow/pkg/store"
)

// runStarter is the slice of store behavior the scheduler drives.
type runStarter interface {
	StartRun(ctx context.Context, scenarioID string, opts store.RunOptions) (*models.RunnerExecution, error)
}

// Scheduler triggers scenario runs from cron expressions. A tick that fires
// while the previous run for the same entry is still being started is
// skipped.
type Scheduler struct {
	store  runStarter
	logger *slog.Logger
	cron   *cron.Cron
	jobs   map[string]cron.EntryID // maps scenario ID to entry ID
	mutex  sync.RWMutex
	ctx    context.Context
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler over the given store.
func NewScheduler(s runStarter, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:  s,
		logger: logger.With("module", "scheduler"),
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DefaultLogger),
			cron.Recover(cron.DefaultLogger),
		)),
		jobs: make(map[string]cron.EntryID),
	}
}

// Add registers a recurring run for a scenario. The cron expression uses the
// standard five-field format. Adding a schedule for an already scheduled
// scenario replaces the previous one.
func (s *Scheduler) Add(cronExpr, scenarioID string, opts store.RunOptions) error {
	if scenarioID == "" {
		return fmt.Errorf("scenario id is required")
	}

	if _, err := cron.ParseStandard(cronExpr); err != nil {
		return fmt.Errorf("invalid cron expression '%s' for scenario %s: %w", cronExpr, scenarioID, err)
	}

	logger := s.logger.With("scenario_id", scenarioID, "cron", cronExpr)

	entryID, err := s.cron.AddFunc(cronExpr, func() {
		s.runScenario(scenarioID, opts)
	})
	if err != nil {
		return fmt.Errorf("failed to add cron job for scenario %s: %w", scenarioID, err)
	}

	s.mutex.Lock()

	if previous, ok := s.jobs[scenarioID]; ok {
		s.cron.Remove(previous)
	}

	s.jobs[scenarioID] = entryID
	s.mutex.Unlock()

	logger.Info("Added cron job for scenario", "entry_id", entryID)

	return nil
}

// Remove drops the schedule for a scenario if one exists.
func (s *Scheduler) Remove(scenarioID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if entryID, ok := s.jobs[scenarioID]; ok {
		s.cron.Remove(entryID)
		delete(s.jobs, scenarioID)
	}
}

// Start begins firing scheduled runs.
func (s *Scheduler) Start(ctx context.Context) {
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.cron.Start()
	s.logger.Info("Scheduler started", "jobs_count", len(s.jobs))
}

// Stop halts the scheduler and waits for in-flight jobs to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}

	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Scheduler stopped")
}

func (s *Scheduler) runScenario(scenarioID string, opts store.RunOptions) {
	logger := s.logger.With("scenario_id", scenarioID)
	logger.Debug("Triggering scheduled run")

	execution, err := s.store.StartRun(s.ctx, scenarioID, opts)
	if err != nil {
		logger.Error("Scheduled run failed to start", "error", err)

		return
	}

	logger.Info("Scheduled run started", "execution_id", execution.ID)
}
