package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/shortlink-api/internal/api/shared"
	"github.com/phrazzld/shortlink-api/internal/domain"
	"github.com/phrazzld/shortlink-api/internal/platform/logger"
	"github.com/phrazzld/shortlink-api/internal/service"
)

// ShortCodeParam is the chi URL parameter holding the short code.
const ShortCodeParam = "shortCode"

// Shortener is the subset of the service layer the URL handler needs.
// It is satisfied by *service.ShortenerService.
type Shortener interface {
	Shorten(ctx context.Context, rawURL, customCode string) (*domain.ShortURL, error)
	Resolve(ctx context.Context, code string) (string, error)
	Stats(ctx context.Context, code string) (*domain.URLStats, error)
}

// URLHandler handles the shorten, redirect and stats endpoints.
type URLHandler struct {
	shortener Shortener
	baseURL   string
	logger    *slog.Logger
}

// NewURLHandler creates a new URLHandler. baseURL prefixes every short link
// returned by Shorten.
func NewURLHandler(shortener Shortener, baseURL string, log *slog.Logger) *URLHandler {
	if log == nil {
		log = slog.Default()
	}
	return &URLHandler{
		shortener: shortener,
		baseURL:   baseURL,
		logger:    log.With("component", "url_handler"),
	}
}

// Shorten handles POST /shorten requests.
func (h *URLHandler) Shorten(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var req ShortenRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(&req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	shortURL, err := h.shortener.Shorten(r.Context(), req.URL, req.CustomCode)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("short url issued", slog.String("short_code", shortURL.ShortCode))

	shared.RespondWithJSON(w, r, http.StatusOK, ShortenResponse{
		ShortURL:    service.BuildShortURL(h.baseURL, shortURL.ShortCode),
		OriginalURL: shortURL.OriginalURL,
		ShortCode:   shortURL.ShortCode,
	})
}

// Redirect handles GET /{shortCode} requests. The target is returned as
// JSON rather than as a 3xx response.
func (h *URLHandler) Redirect(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, ShortCodeParam)

	target, err := h.shortener.Resolve(r.Context(), code)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RedirectResponse{RedirectURL: target})
}

// Stats handles GET /stats/{shortCode} requests.
func (h *URLHandler) Stats(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, ShortCodeParam)

	stats, err := h.shortener.Stats(r.Context(), code)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, statsToResponse(stats))
}
