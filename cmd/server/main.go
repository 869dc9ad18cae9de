// Package main implements the entry point for the shortlink API server,
// which registers short URLs, resolves redirects and reports per-URL
// statistics. Enrichment jobs are queued for the worker process.
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
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("server failed: %v", err)
		os.Exit(1)
	}
}

// run loads configuration, connects infrastructure and serves until ctx is
// cancelled.
func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := bootstrap.SetupLogger(cfg, "server")
	if err != nil {
		return err
	}
	logger.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"queue_backend", cfg.Queue.Backend,
		"run_workers", cfg.Worker.RunInServer)

	db, err := bootstrap.OpenDatabase(ctx, cfg.Database, logger)
	if err != nil {
		return err
	}

	backends, err := bootstrap.OpenBackends(ctx, cfg, logger)
	if err != nil {
		_ = db.Close()
		return err
	}

	app, err := newApplication(cfg, logger, db, backends)
	if err != nil {
		_ = backends.Close()
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
