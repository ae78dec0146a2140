package scheduler

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"bloodlink-backend/internal/config"
	"bloodlink-backend/internal/jobs"
	"bloodlink-backend/internal/logger"
)

// Scheduler wires the maintenance jobs onto their cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	runner *jobs.JobRunner
}

func New(runner *jobs.JobRunner, cfg config.SchedulerConfig) (*Scheduler, error) {
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
	)

	if _, err := c.AddFunc(cfg.SendUrgentRequestReminders, runner.RunSendUrgentRequestReminders); err != nil {
		return nil, fmt.Errorf("failed to schedule urgent request reminders: %w", err)
	}
	if _, err := c.AddFunc(cfg.CancelStaleRequests, runner.RunCancelStaleRequests); err != nil {
		return nil, fmt.Errorf("failed to schedule stale request sweep: %w", err)
	}

	return &Scheduler{cron: c, runner: runner}, nil
}

// Start begins running jobs on their schedules. It returns immediately.
func (s *Scheduler) Start() {
	s.cron.Start()
	logger.Info("Scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop halts the scheduler and waits for any running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	logger.Info("Scheduler stopped")
}
