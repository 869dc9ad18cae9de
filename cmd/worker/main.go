// Package main implements the enrichment worker. It drains the job queue
// with a pool of concurrent consumers, records one result per job and
// exposes Prometheus metrics on worker.metrics_port.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/phrazzld/shortlink-api/internal/bootstrap"
	"github.com/phrazzld/shortlink-api/internal/config"
	"github.com/phrazzld/shortlink-api/internal/platform/postgres"
	"github.com/phrazzld/shortlink-api/internal/task"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("worker failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if cfg.Queue.Backend == "memory" {
		return fmt.Errorf("the worker process needs a shared queue; queue.backend=memory runs workers inside the server")
	}

	logger, err := bootstrap.SetupLogger(cfg, "worker")
	if err != nil {
		return err
	}

	db, err := bootstrap.OpenDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database connection", "error", err)
		}
	}()

	backends, err := bootstrap.OpenBackends(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := backends.Close(); err != nil {
			logger.Error("error closing queue backend", "error", err)
		}
	}()

	jobs := task.NewJobQueue(backends.Jobs)
	w, err := newWorker(cfg, jobs, logger)
	if err != nil {
		return err
	}
	pool := bootstrap.NewWorkerPool(
		cfg,
		jobs,
		postgres.NewPostgresJobResultStore(db, logger),
		w.metrics,
		logger,
	)

	logger.Info("worker starting",
		"concurrency", pool.WorkerCount(),
		"queue", cfg.Queue.JobKey,
		"metrics_port", cfg.Worker.MetricsPort)

	return w.serve(ctx, pool)
}
