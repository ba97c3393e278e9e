package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/medpass/internal/api"
	"github.com/vytor/medpass/internal/config"
	"github.com/vytor/medpass/internal/db"
	"github.com/vytor/medpass/internal/jobs"
	"github.com/vytor/medpass/internal/logger"
	"github.com/vytor/medpass/internal/repository/sqlite"
	"github.com/vytor/medpass/internal/services"
	"github.com/vytor/medpass/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
		logger.WithColors(true),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("MedPass Server Starting")
	log.Info("===========================================")
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration: %v", err)
		os.Exit(1)
	}
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("recalc_worker_count=%d", cfg.RecalcWorkerCount)
	log.Debug("recalc_queue_size=%d", cfg.RecalcQueueSize)
	log.Debug("upcoming_review_limit=%d", cfg.UpcomingReviewLimit)

	// Open database
	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize repositories
	lectureRepo := sqlite.NewLectureRepository(database.DB)
	itemRepo := sqlite.NewItemRepository(database.DB)
	settingsRepo := sqlite.NewSettingsRepository(database.DB)

	// Initialize worker pool and job queue
	recalcPool := worker.NewPool(cfg.RecalcWorkerCount, cfg.RecalcQueueSize)
	jobQueue := jobs.NewWorkerQueue(recalcPool, lectureRepo, settingsRepo)

	// Initialize services
	lectureService := services.NewLectureService(lectureRepo, settingsRepo)
	reviewService := services.NewReviewService(itemRepo, settingsRepo, cfg.UpcomingReviewLimit)
	settingsService := services.NewSettingsService(settingsRepo, jobQueue)

	srv := &api.Server{
		DB:              database,
		LectureService:  lectureService,
		ReviewService:   reviewService,
		SettingsService: settingsService,
	}

	ctx, cancel := context.WithCancel(context.Background())
	recalcPool.Start(ctx)

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	// Graceful shutdown
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Cancel worker context
	log.Debug("stopping worker pool")
	cancel()

	// Shutdown HTTP server
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Wait for workers to finish
	recalcPool.Stop()

	log.Info("===========================================")
	log.Info("MedPass Server Stopped")
	log.Info("===========================================")
}
