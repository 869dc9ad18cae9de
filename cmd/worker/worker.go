package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/shortlink-api/internal/config"
	"github.com/phrazzld/shortlink-api/internal/metrics"
)

const metricsShutdownTimeout = 5 * time.Second

// pool is the lifecycle the worker process drives. *task.WorkerPool
// satisfies it.
type pool interface {
	Start(ctx context.Context)
	Stop()
}

type worker struct {
	logger   *slog.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	server   *http.Server
}

func newWorker(cfg *config.Config, jobs metrics.QueueLengther, logger *slog.Logger) (*worker, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := metrics.RegisterQueueDepth(registry, jobs); err != nil {
		return nil, fmt.Errorf("failed to register queue depth gauge: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(registry))

	return &worker{
		logger:   logger,
		registry: registry,
		metrics:  metrics.New(registry),
		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Worker.MetricsPort),
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}, nil
}

// serve runs the pool and the metrics endpoint until ctx is cancelled or
// the metrics listener fails. In-flight jobs finish before it returns.
func (w *worker) serve(ctx context.Context, p pool) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		p.Start(gctx)
		<-gctx.Done()
		w.logger.Info("stopping worker pool")
		p.Stop()
		return nil
	})

	g.Go(func() error {
		if err := w.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics server failed: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		return w.server.Shutdown(shutdownCtx)
	})

	err := g.Wait()
	w.logger.Info("worker stopped")
	return err
}
