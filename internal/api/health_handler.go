package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/phrazzld/shortlink-api/internal/api/shared"
	"github.com/phrazzld/shortlink-api/internal/platform/logger"
	"github.com/phrazzld/shortlink-api/internal/store"
)

// DefaultReadyTimeout bounds all dependency pings of one readiness probe.
const DefaultReadyTimeout = 2 * time.Second

// Dependency is a named backing service checked by the readiness probe.
type Dependency struct {
	Name   string
	Pinger store.Pinger
}

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	deps    []Dependency
	timeout time.Duration
	logger  *slog.Logger
}

// NewHealthHandler creates a HealthHandler that reports ready only when
// every dependency answers a ping.
func NewHealthHandler(log *slog.Logger, deps ...Dependency) *HealthHandler {
	if log == nil {
		log = slog.Default()
	}
	return &HealthHandler{
		deps:    deps,
		timeout: DefaultReadyTimeout,
		logger:  log.With("component", "health_handler"),
	}
}

// Health handles GET /health. It never touches a dependency.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{Status: "healthy"})
}

// Ready handles GET /ready.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	for _, dep := range h.deps {
		g.Go(func() error {
			if err := dep.Pinger.Ping(gctx); err != nil {
				logger.FromContextOrDefault(r.Context(), h.logger).Warn("readiness check failed",
					slog.String("dependency", dep.Name),
					slog.String("error", err.Error()))
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		shared.RespondWithError(w, r, http.StatusServiceUnavailable, "Not ready")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, StatusResponse{Status: "ready"})
}
