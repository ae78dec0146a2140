package jobs

import (
	"context"
	"time"

	"bloodlink-backend/internal/config"
	"bloodlink-backend/internal/events"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/repository/postgres"
	"bloodlink-backend/internal/service"
)

// JobRunner executes the scheduled maintenance jobs against the store.
type JobRunner struct {
	store  *postgres.Store
	email  service.EmailService
	broker *events.Broker
	cfg    *config.Config
}

func NewJobRunner(store *postgres.Store, email service.EmailService, broker *events.Broker, cfg *config.Config) *JobRunner {
	return &JobRunner{store: store, email: email, broker: broker, cfg: cfg}
}

// runWithRecovery wraps a job so a panic inside one job cannot take down the
// scheduler process.
func (r *JobRunner) runWithRecovery(name string, job func(ctx context.Context) error) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Job panicked", "job", name, "panic", rec)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	start := time.Now()
	logger.Info("Job started", "job", name)
	if err := job(ctx); err != nil {
		logger.Error("Job failed", "job", name, "duration", time.Since(start), "error", err)
		return
	}
	logger.Info("Job finished", "job", name, "duration", time.Since(start))
}

// RunSendUrgentRequestReminders is the cron entrypoint for the reminder job.
func (r *JobRunner) RunSendUrgentRequestReminders() {
	r.runWithRecovery("send_urgent_request_reminders", r.SendUrgentRequestReminders)
}

// RunCancelStaleRequests is the cron entrypoint for the stale-request sweep.
func (r *JobRunner) RunCancelStaleRequests() {
	r.runWithRecovery("cancel_stale_requests", r.CancelStaleRequests)
}
