package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"fintrack/internal/amqp"
	"fintrack/internal/config"
	applog "fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
	"fintrack/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.Config{
		Level:     slog.LevelInfo,
		Component: "fintrack-worker",
	})
	applog.SetDefault(logger)

	logger.Info("Starting fintrack-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// Without AMQP the worker still heals derived fields via the periodic
	// sweep; the queue only shortens the time to repair.
	var consumer worker.RecalcConsumer
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, running sweep-only", "error", err)
		} else {
			defer amqpClient.Close()
			consumer = amqpClient
			logger.Info("AMQP consumer initialized", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
		}
	}

	recalc := services.NewRecalculator(repo, repo)
	reconciler := worker.NewReconciler(repo, recalc, consumer, worker.ReconcilerConfig{
		SweepInterval: cfg.ReconcileInterval,
		BatchSize:     cfg.ReconcileBatch,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := reconciler.Start(ctx); err != nil {
		logger.Error("Failed to start reconciler", "error", err)
		os.Exit(1)
	}

	logger.Info("Reconciler running",
		"sweep_interval", cfg.ReconcileInterval,
		"batch_size", cfg.ReconcileBatch,
		"sqlite_db", cfg.SQLiteDBPath)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	logger.Info("Shutdown signal received", "signal", sig.String())

	cancel()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer stopCancel()

	if err := reconciler.Stop(stopCtx); err != nil {
		logger.Error("Reconciler stop error", "error", err)
		os.Exit(1)
	}

	logger.Info("Worker stopped gracefully")
}
