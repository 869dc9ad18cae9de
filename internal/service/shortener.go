package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/phrazzld/shortlink-api/internal/cache"
	"github.com/phrazzld/shortlink-api/internal/domain"
	"github.com/phrazzld/shortlink-api/internal/events"
	"github.com/phrazzld/shortlink-api/internal/platform/logger"
	"github.com/phrazzld/shortlink-api/internal/shortcode"
	"github.com/phrazzld/shortlink-api/internal/store"
	"github.com/phrazzld/shortlink-api/internal/task"
)

// JobEnqueuer publishes enrichment jobs. It is satisfied by *task.JobQueue.
type JobEnqueuer interface {
	Enqueue(ctx context.Context, items ...domain.JobItem) error
}

// ClickFailureCounter records redirects whose click increment was lost.
// It is satisfied by *metrics.Metrics.
type ClickFailureCounter interface {
	ClickIncrementFailed()
}

type nopClickCounter struct{}

func (nopClickCounter) ClickIncrementFailed() {}

// Dependencies groups the collaborators of ShortenerService.
type Dependencies struct {
	// DB wraps the registry insert in a transaction when set. Without it the
	// insert runs directly on URLs.
	DB      *sql.DB
	URLs    store.URLStore
	Results store.JobResultStore
	Cache   cache.URLCache
	Jobs    JobEnqueuer
	// Events receives url_created and url_clicked. It is wrapped with
	// events.BestEffort so emission never fails a request.
	Events events.EventEmitter
	// ClickFailures is optional.
	ClickFailures ClickFailureCounter
}

// ShortenerService implements URL creation, redirect resolution and stats.
type ShortenerService struct {
	db            *sql.DB
	urls          store.URLStore
	results       store.JobResultStore
	cache         cache.URLCache
	jobs          JobEnqueuer
	events        events.EventEmitter
	clickFailures ClickFailureCounter
	logger        *slog.Logger
}

// NewShortenerService creates a new ShortenerService.
// It returns an error if any required dependency is nil.
func NewShortenerService(deps Dependencies, log *slog.Logger) (*ShortenerService, error) {
	if deps.URLs == nil {
		return nil, fmt.Errorf("%w: urls cannot be nil", domain.ErrValidation)
	}
	if deps.Results == nil {
		return nil, fmt.Errorf("%w: results cannot be nil", domain.ErrValidation)
	}
	if deps.Cache == nil {
		return nil, fmt.Errorf("%w: cache cannot be nil", domain.ErrValidation)
	}
	if deps.Jobs == nil {
		return nil, fmt.Errorf("%w: jobs cannot be nil", domain.ErrValidation)
	}
	if deps.Events == nil {
		return nil, fmt.Errorf("%w: events cannot be nil", domain.ErrValidation)
	}

	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "shortener_service"))

	clickFailures := deps.ClickFailures
	if clickFailures == nil {
		clickFailures = nopClickCounter{}
	}

	return &ShortenerService{
		db:            deps.DB,
		urls:          deps.URLs,
		results:       deps.Results,
		cache:         deps.Cache,
		jobs:          deps.Jobs,
		events:        events.BestEffort(deps.Events, log),
		clickFailures: clickFailures,
		logger:        log,
	}, nil
}

// Shorten registers rawURL under customCode, or under a code derived from
// rawURL when customCode is empty. Once the registry insert has committed
// the three enrichment jobs are enqueued and url_created is emitted.
//
// An enqueue failure is returned after the row has been committed; the
// registration stands and no jobs run for it.
func (s *ShortenerService) Shorten(ctx context.Context, rawURL, customCode string) (*domain.ShortURL, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	code := shortcode.Resolve(rawURL, customCode)
	shortURL, err := domain.NewShortURL(code, rawURL)
	if err != nil {
		log.Debug("rejected short url",
			slog.String("short_code", code),
			slog.String("error", err.Error()))
		return nil, NewServiceError("shorten", "invalid short url", err)
	}

	if err := s.insert(ctx, shortURL); err != nil {
		if errors.Is(err, store.ErrShortCodeExists) {
			log.Debug("short code already registered", slog.String("short_code", code))
			return nil, ErrConflict
		}
		log.Error("failed to register short url",
			slog.String("short_code", code),
			slog.String("error", err.Error()))
		return nil, NewServiceError("shorten", "failed to register short url", err)
	}

	if err := s.jobs.Enqueue(ctx, task.FanOut(shortURL.ShortCode, shortURL.OriginalURL)...); err != nil {
		log.Error("failed to enqueue enrichment jobs",
			slog.String("short_code", code),
			slog.String("error", err.Error()))
		return nil, dependencyError("shorten", "failed to enqueue enrichment jobs", err)
	}

	s.emit(ctx, domain.EventURLCreated, shortURL.ShortCode)

	log.Info("short url created",
		slog.String("short_code", shortURL.ShortCode),
		slog.String("original_url", shortURL.OriginalURL))

	return shortURL, nil
}

func (s *ShortenerService) insert(ctx context.Context, shortURL *domain.ShortURL) error {
	if s.db == nil {
		return s.urls.Insert(ctx, shortURL)
	}
	return store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.urls.WithTx(tx).Insert(ctx, shortURL)
	})
}

// Resolve returns the original URL registered under code.
// A cache hit returns without touching the registry and does not count a
// click. A miss reads the registry, populates the cache and increments the
// click counter. Both paths emit exactly one url_clicked event.
func (s *ShortenerService) Resolve(ctx context.Context, code string) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("short_code", code))

	if err := domain.ValidateShortCode(code); err != nil {
		return "", ErrNotFound
	}

	originalURL, hit, err := s.cache.Get(ctx, code)
	if err != nil {
		log.Error("failed to read redirect cache", slog.String("error", err.Error()))
		return "", dependencyError("resolve", "failed to read redirect cache", err)
	}
	if hit {
		log.Debug("redirect cache hit")
		s.emit(ctx, domain.EventURLClicked, code)
		return originalURL, nil
	}

	originalURL, err = s.urls.Lookup(ctx, code)
	if err != nil {
		if store.IsNotFoundError(err) {
			return "", ErrNotFound
		}
		log.Error("failed to look up short url", slog.String("error", err.Error()))
		return "", NewServiceError("resolve", "failed to look up short url", err)
	}

	if err := s.cache.Set(ctx, code, originalURL); err != nil {
		log.Warn("failed to populate redirect cache", slog.String("error", err.Error()))
	}

	if err := s.urls.IncrementClicks(ctx, code); err != nil {
		s.clickFailures.ClickIncrementFailed()
		log.Error("failed to increment click count", slog.String("error", err.Error()))
	}

	s.emit(ctx, domain.EventURLClicked, code)
	return originalURL, nil
}

// Stats returns the registry row for code together with every recorded job
// result.
func (s *ShortenerService) Stats(ctx context.Context, code string) (*domain.URLStats, error) {
	log := logger.FromContextOrDefault(ctx, s.logger).With(slog.String("short_code", code))

	if err := domain.ValidateShortCode(code); err != nil {
		return nil, ErrNotFound
	}

	shortURL, err := s.urls.Stats(ctx, code)
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, ErrNotFound
		}
		log.Error("failed to load short url", slog.String("error", err.Error()))
		return nil, NewServiceError("stats", "failed to load short url", err)
	}

	jobs, err := s.results.ListByShortCode(ctx, code)
	if err != nil {
		log.Error("failed to load job results", slog.String("error", err.Error()))
		return nil, NewServiceError("stats", "failed to load job results", err)
	}
	if jobs == nil {
		jobs = []domain.JobResult{}
	}

	return &domain.URLStats{
		ShortCode:   shortURL.ShortCode,
		OriginalURL: shortURL.OriginalURL,
		Clicks:      shortURL.Clicks,
		CreatedAt:   shortURL.CreatedAt,
		Jobs:        jobs,
	}, nil
}

func (s *ShortenerService) emit(ctx context.Context, eventType domain.EventType, code string) {
	event, err := domain.NewAnalyticsEvent(eventType, code)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to build analytics event",
			slog.String("error", err.Error()))
		return
	}
	_ = s.events.EmitEvent(ctx, event)
}

// BuildShortURL joins baseURL and code into the public short link.
func BuildShortURL(baseURL, code string) string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(baseURL, "/"), code)
}
