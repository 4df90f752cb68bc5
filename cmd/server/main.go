package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mkrogh/academy/internal/api"
	"github.com/mkrogh/academy/internal/config"
	"github.com/mkrogh/academy/internal/db"
	"github.com/mkrogh/academy/internal/jobs"
	"github.com/mkrogh/academy/internal/logger"
	"github.com/mkrogh/academy/internal/repository/sqlite"
	"github.com/mkrogh/academy/internal/services"
	"github.com/mkrogh/academy/internal/worker"
)

func main() {
	cfg := config.Load()

	// Initialize logger
	log := logger.New(
		logger.WithLevel(logger.ParseLevel(cfg.LogLevel)),
	)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("Academy Server Starting")
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
	log.Debug("dnf_threshold_hours=%d", cfg.DNFThresholdHours)
	log.Debug("dnf_sweep_minutes=%d", cfg.DNFSweepMinutes)

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

	// Repositories and services
	userRepo := sqlite.NewUserRepository(database)
	gameRepo := sqlite.NewGameRepository(database)
	statsRepo := sqlite.NewStatsRepository(database)

	statsService := services.NewStatsService(gameRepo, statsRepo)
	gameService := services.NewGameService(gameRepo, userRepo, statsService)
	userService := services.NewUserService(userRepo)
	rankingService := services.NewRankingService(statsRepo, userRepo, gameRepo)
	distributionService := services.NewDistributionService(gameRepo)

	// Background jobs
	dnfThreshold := time.Duration(cfg.DNFThresholdHours) * time.Hour
	pool := worker.NewPool(cfg.RecalcWorkerCount, cfg.RecalcQueueSize)
	queue := jobs.NewWorkerQueue(pool, statsService, gameService, dnfThreshold)

	srv := &api.Server{
		DB:            database,
		Games:         gameService,
		Stats:         statsService,
		Rankings:      rankingService,
		Distributions: distributionService,
		Users:         userService,
		Queue:         queue,
	}

	ctx, cancel := context.WithCancel(context.Background())
	pool.Start(ctx)

	// Sweep for abandoned games on a fixed interval.
	sweepTicker := time.NewTicker(time.Duration(cfg.DNFSweepMinutes) * time.Minute)
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-sweepTicker.C:
				if err := queue.EnqueueDNFSweep(); err != nil {
					log.Warn("could not queue dnf sweep: %v", err)
				}
			}
		}
	}()

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

	sweepTicker.Stop()

	// Cancel worker context
	log.Debug("stopping worker pool")
	cancel()

	// Shutdown HTTP server
	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	// Wait for workers to finish
	pool.Stop()

	log.Info("===========================================")
	log.Info("Academy Server Stopped")
	log.Info("===========================================")
}
