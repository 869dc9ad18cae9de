package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/phrazzld/shortlink-api/internal/bootstrap"
	"github.com/phrazzld/shortlink-api/internal/config"
	"github.com/phrazzld/shortlink-api/internal/events"
	"github.com/phrazzld/shortlink-api/internal/metrics"
	"github.com/phrazzld/shortlink-api/internal/platform/postgres"
	"github.com/phrazzld/shortlink-api/internal/service"
	"github.com/phrazzld/shortlink-api/internal/store"
	"github.com/phrazzld/shortlink-api/internal/task"
)

// application holds all the shared application dependencies to simplify management
// and ensure proper cleanup on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	backends *bootstrap.Backends
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	urlStore    store.URLStore
	resultStore store.JobResultStore
	jobQueue    *task.JobQueue
	shortener   *service.ShortenerService

	// workers is nil unless worker.run_in_server is set
	workers *task.WorkerPool
}

// newApplication creates a new application instance with all dependencies initialized.
// The database and backends must already be connected; the application owns
// them from here on and releases them in cleanup.
func newApplication(
	cfg *config.Config,
	logger *slog.Logger,
	db *sql.DB,
	backends *bootstrap.Backends,
) (*application, error) {
	app := &application{
		config:   cfg,
		logger:   logger,
		db:       db,
		backends: backends,
		registry: prometheus.NewRegistry(),
	}

	app.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.metrics = metrics.New(app.registry)

	app.urlStore = postgres.NewPostgresURLStore(db, logger)
	app.resultStore = postgres.NewPostgresJobResultStore(db, logger)
	app.jobQueue = task.NewJobQueue(backends.Jobs)
	if err := metrics.RegisterQueueDepth(app.registry, app.jobQueue); err != nil {
		return nil, fmt.Errorf("failed to register queue depth gauge: %w", err)
	}

	// Analytics fan out to the metrics counters and the analytics queue.
	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(app.metrics)
	emitter.RegisterHandler(events.NewQueueEmitter(backends.Analytics))

	var err error
	app.shortener, err = service.NewShortenerService(service.Dependencies{
		DB:            db,
		URLs:          app.urlStore,
		Results:       app.resultStore,
		Cache:         backends.Cache,
		Jobs:          app.jobQueue,
		Events:        emitter,
		ClickFailures: app.metrics,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create shortener service: %w", err)
	}

	if cfg.Worker.RunInServer {
		app.workers = bootstrap.NewWorkerPool(cfg, app.jobQueue, app.resultStore, app.metrics, logger)
	}

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the optional in-process workers and the HTTP server, and
// blocks until ctx is cancelled or the server fails.
func (app *application) Run(ctx context.Context) error {
	if app.workers != nil {
		app.workers.Start(ctx)
	}

	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.workers != nil {
		app.workers.Stop()
	}

	if err := app.backends.Close(); err != nil {
		app.logger.Error("error closing queue backend", "error", err)
	}

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
