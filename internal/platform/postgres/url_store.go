package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/shortlink-api/internal/domain"
	"github.com/phrazzld/shortlink-api/internal/platform/logger"
	"github.com/phrazzld/shortlink-api/internal/store"
)

// PostgresURLStore implements the store.URLStore interface
// using a PostgreSQL database as the storage backend.
type PostgresURLStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresURLStore creates a new PostgreSQL implementation of the URLStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresURLStore(db store.DBTX, logger *slog.Logger) *PostgresURLStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresURLStore{
		db:     db,
		logger: logger.With(slog.String("component", "url_store")),
	}
}

// Ensure PostgresURLStore implements store.URLStore interface
var _ store.URLStore = (*PostgresURLStore)(nil)

// Insert implements store.URLStore.Insert.
// The conflict check and the insert are a single statement, so two concurrent
// inserts of the same code cannot both succeed.
func (s *PostgresURLStore) Insert(ctx context.Context, shortURL *domain.ShortURL) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := shortURL.Validate(); err != nil {
		log.Warn("short url validation failed during insert",
			slog.String("error", err.Error()),
			slog.String("short_code", shortURL.ShortCode))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO urls (short_code, original_url, created_at, clicks)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (short_code) DO NOTHING
		RETURNING short_code
	`

	var inserted string
	err := s.db.QueryRowContext(
		ctx,
		query,
		shortURL.ShortCode,
		shortURL.OriginalURL,
		shortURL.CreatedAt,
		shortURL.Clicks,
	).Scan(&inserted)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || IsUniqueViolation(err) {
			log.Debug("short code already registered",
				slog.String("short_code", shortURL.ShortCode))
			return store.ErrShortCodeExists
		}

		log.Error("failed to insert short url",
			slog.String("error", err.Error()),
			slog.String("short_code", shortURL.ShortCode))
		return MapError(err)
	}

	log.Info("short url registered",
		slog.String("short_code", inserted))
	return nil
}

// Lookup implements store.URLStore.Lookup
func (s *PostgresURLStore) Lookup(ctx context.Context, code string) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT original_url FROM urls WHERE short_code = $1`

	var originalURL string
	err := s.db.QueryRowContext(ctx, query, code).Scan(&originalURL)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("short code not found", slog.String("short_code", code))
			return "", store.ErrShortURLNotFound
		}

		log.Error("failed to look up short code",
			slog.String("error", err.Error()),
			slog.String("short_code", code))
		return "", MapError(err)
	}

	return originalURL, nil
}

// IncrementClicks implements store.URLStore.IncrementClicks
func (s *PostgresURLStore) IncrementClicks(ctx context.Context, code string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE urls SET clicks = clicks + 1 WHERE short_code = $1`

	result, err := s.db.ExecContext(ctx, query, code)
	if err != nil {
		log.Error("failed to increment clicks",
			slog.String("error", err.Error()),
			slog.String("short_code", code))
		return MapError(err)
	}

	return CheckRowsAffected(result, store.ErrShortURLNotFound)
}

// Stats implements store.URLStore.Stats
func (s *PostgresURLStore) Stats(ctx context.Context, code string) (*domain.ShortURL, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT short_code, original_url, created_at, clicks
		FROM urls
		WHERE short_code = $1
	`

	var shortURL domain.ShortURL
	err := s.db.QueryRowContext(ctx, query, code).Scan(
		&shortURL.ShortCode,
		&shortURL.OriginalURL,
		&shortURL.CreatedAt,
		&shortURL.Clicks,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrShortURLNotFound
		}

		log.Error("failed to load short url stats",
			slog.String("error", err.Error()),
			slog.String("short_code", code))
		return nil, MapError(err)
	}

	return &shortURL, nil
}

// WithTx implements store.URLStore.WithTx
// It returns a new URLStore instance that uses the provided transaction.
func (s *PostgresURLStore) WithTx(tx *sql.Tx) store.URLStore {
	return &PostgresURLStore{
		db:     tx,
		logger: s.logger,
	}
}
