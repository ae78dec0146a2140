package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"bloodlink-backend/internal/api/rest"
	"bloodlink-backend/internal/config"
	"bloodlink-backend/internal/events"
	"bloodlink-backend/internal/jobs"
	"bloodlink-backend/internal/logger"
	"bloodlink-backend/internal/repository/postgres"
	"bloodlink-backend/internal/scheduler"
	"bloodlink-backend/internal/security"
	"bloodlink-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting bloodlink server", "address", cfg.GetServerAddress())

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancelPing := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelPing()
	if err := db.PingContext(pingCtx); err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Connected to database", "host", cfg.Database.Host, "database", cfg.Database.Database)

	store := postgres.NewStore(db)
	broker := events.NewBroker()

	tokens := security.NewTokenManager(cfg.Auth.Secret, cfg.Auth.AccessTokenExpiry, cfg.Auth.RefreshTokenExpiry)

	var verifier security.Verifier = tokens
	if cfg.Auth.Provider == "firebase" {
		fv, err := security.NewFirebaseVerifier(context.Background(), cfg.Auth.FirebaseCredentialsFile)
		if err != nil {
			logger.Error("Failed to initialize firebase verifier", "error", err)
			os.Exit(1)
		}
		verifier = fv
		logger.Info("Using firebase identity verification")
	}

	emailSvc := service.NewEmailService(cfg.SendGrid)
	authSvc := service.NewAuthService(store.ProfileRepository, store.DonorRepository, tokens)
	requestSvc := service.NewRequestService(store.RequestRepository, store.PledgeRepository, broker)
	donorSvc := service.NewDonorService(store.DonorRepository, broker)
	pledgeSvc := service.NewPledgeService(store.PledgeRepository, store.RequestRepository, store.DonorRepository, store.ProfileRepository, store.NotificationRepository, emailSvc, broker)
	notificationSvc := service.NewNotificationService(store.NotificationRepository)

	// The server runs the scheduler in-process; the cronjob binary exists for
	// deployments that want jobs isolated from serving traffic.
	runner := jobs.NewJobRunner(store, emailSvc, broker, cfg)
	sched, err := scheduler.New(runner, cfg.Scheduler)
	if err != nil {
		logger.Error("Failed to build scheduler", "error", err)
		os.Exit(1)
	}
	sched.Start()
	defer sched.Stop()

	apiServer := rest.NewServer(authSvc, requestSvc, donorSvc, pledgeSvc, notificationSvc, verifier, broker)

	httpServer := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE streams stay open indefinitely
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Error("HTTP server failed", "error", err)
		os.Exit(1)
	case sig := <-stop:
		logger.Info("Shutting down", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
