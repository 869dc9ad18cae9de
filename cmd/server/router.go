package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/shortlink-api/internal/api"
	apiMiddleware "github.com/phrazzld/shortlink-api/internal/api/middleware"
	"github.com/phrazzld/shortlink-api/internal/metrics"
	"github.com/phrazzld/shortlink-api/internal/platform/postgres"
)

// setupRouter creates and configures the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))
	r.Use(app.metrics.Middleware)

	urlHandler := api.NewURLHandler(app.shortener, app.config.Server.BaseURL, app.logger)
	healthHandler := api.NewHealthHandler(app.logger,
		api.Dependency{Name: "queue", Pinger: app.backends},
		api.Dependency{Name: "cache", Pinger: app.backends.Cache},
		api.Dependency{Name: "database", Pinger: postgres.DBPinger{DB: app.db}},
	)

	// Fixed paths are registered before the catch-all short code route.
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Method(http.MethodGet, "/metrics", metrics.Handler(app.registry))

	r.Post("/shorten", urlHandler.Shorten)
	r.Get("/stats/{"+api.ShortCodeParam+"}", urlHandler.Stats)
	r.Get("/{"+api.ShortCodeParam+"}", urlHandler.Redirect)

	return r
}
