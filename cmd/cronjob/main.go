package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"bloodlink-backend/internal/config"
	"bloodlink-backend/internal/events"
	"bloodlink-backend/internal/jobs"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/repository/postgres"
	"bloodlink-backend/internal/scheduler"
	"bloodlink-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "path to config file")
	runOnce := flag.String("run-once", "", "run a single job and exit: reminders or stale-sweep")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting bloodlink cronjob")

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelPing()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	store := postgres.NewStore(db)
	broker := events.NewBroker()
	emailSvc := service.NewEmailService(cfg.SendGrid)
	runner := jobs.NewJobRunner(store, emailSvc, broker, cfg)

	if *runOnce != "" {
		switch *runOnce {
		case "reminders":
			runner.RunSendUrgentRequestReminders()
		case "stale-sweep":
			runner.RunCancelStaleRequests()
		default:
			fmt.Fprintf(os.Stderr, "unknown job: %s\n", *runOnce)
			os.Exit(2)
		}
		return
	}

	sched, err := scheduler.New(runner, cfg.Scheduler)
	if err != nil {
		logger.Error("Failed to build scheduler", "error", err)
		os.Exit(1)
	}
	sched.Start()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	sig := <-stop
	logger.Info("Shutting down", "signal", sig.String())

	sched.Stop()
}
