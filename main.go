package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"
	"go.uber.org/zap"

	"github.com/briefwright/orchestrator/internal/activities"
	"github.com/briefwright/orchestrator/internal/config"
	"github.com/briefwright/orchestrator/internal/db"
	"github.com/briefwright/orchestrator/internal/evidence"
	"github.com/briefwright/orchestrator/internal/llm"
	_ "github.com/briefwright/orchestrator/internal/metrics" // Import for side effects
	"github.com/briefwright/orchestrator/internal/scraper"
	"github.com/briefwright/orchestrator/internal/workflows"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Persistence is optional: without Postgres the pipeline still runs, it
	// just skips the durable writes.
	var store activities.Store
	dbClient, err := db.NewClient(&db.Config{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
		SSLMode:  cfg.Postgres.SSLMode,
	}, logger)
	if err != nil {
		logger.Warn("Database unavailable, persistence disabled", zap.Error(err))
	} else {
		defer dbClient.Close()
		store = dbClient
	}

	// Evidence cache is likewise optional.
	var cache activities.PageCache
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		logger.Warn("Redis unavailable, evidence cache disabled", zap.Error(err))
	} else {
		cache = evidence.NewCache(rdb, cfg.Redis.PageTTL, logger)
	}
	cancel()

	generator := llm.NewClient(cfg.Generation.BaseURL, cfg.Generation.Timeout, logger)
	fetcher := scraper.NewFetcher(nil)
	acts := activities.NewActivities(generator, fetcher, cache, store, cfg.Research.SnippetBudget, logger)

	temporalClient, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		logger.Fatal("Failed to connect to Temporal", zap.Error(err))
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.CompanyResearchWorkflow)
	w.RegisterActivity(acts)

	// Admin endpoints: Prometheus metrics and a liveness probe.
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", func(rw http.ResponseWriter, r *http.Request) {
		if dbClient != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := dbClient.Ping(ctx); err != nil {
				rw.WriteHeader(http.StatusServiceUnavailable)
				fmt.Fprintln(rw, "database unreachable")
				return
			}
		}
		rw.WriteHeader(http.StatusOK)
		fmt.Fprintln(rw, "ok")
	})
	adminServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("Admin HTTP server listening", zap.Int("port", cfg.Metrics.Port))
		if err := adminServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Admin HTTP server failed", zap.Error(err))
		}
	}()

	logger.Info("Research worker starting",
		zap.String("temporal", cfg.Temporal.HostPort),
		zap.String("task_queue", cfg.Temporal.TaskQueue),
	)

	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Run(worker.InterruptCh())
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			logger.Fatal("Worker stopped with error", zap.Error(err))
		}
	case sig := <-sigCh:
		logger.Info("Shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := adminServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("Admin HTTP server shutdown failed", zap.Error(err))
	}
}
