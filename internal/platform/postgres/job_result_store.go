package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phrazzld/shortlink-api/internal/domain"
	"github.com/phrazzld/shortlink-api/internal/platform/logger"
	"github.com/phrazzld/shortlink-api/internal/store"
)

// PostgresJobResultStore implements the store.JobResultStore interface
// on the jobs table.
type PostgresJobResultStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresJobResultStore creates a new PostgresJobResultStore.
// If logger is nil, a default logger will be used.
func NewPostgresJobResultStore(db store.DBTX, logger *slog.Logger) *PostgresJobResultStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresJobResultStore{
		db:     db,
		logger: logger.With(slog.String("component", "job_result_store")),
	}
}

var _ store.JobResultStore = (*PostgresJobResultStore)(nil)

// Append implements store.JobResultStore.Append
func (s *PostgresJobResultStore) Append(ctx context.Context, result *domain.JobResult) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := result.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	query := `
		INSERT INTO jobs (short_code, job_type, status, result, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := s.db.QueryRowContext(
		ctx,
		query,
		result.ShortCode,
		string(result.JobType),
		string(result.Status),
		[]byte(result.Result),
		result.RecordedAt,
	).Scan(&result.ID)
	if err != nil {
		log.Error("failed to append job result",
			slog.String("error", err.Error()),
			slog.String("short_code", result.ShortCode),
			slog.String("job_type", string(result.JobType)))
		return MapError(err)
	}

	log.Debug("job result recorded",
		slog.Int64("id", result.ID),
		slog.String("short_code", result.ShortCode),
		slog.String("job_type", string(result.JobType)),
		slog.String("status", string(result.Status)))
	return nil
}

// ListByShortCode implements store.JobResultStore.ListByShortCode
func (s *PostgresJobResultStore) ListByShortCode(
	ctx context.Context,
	code string,
) ([]domain.JobResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, short_code, job_type, status, result, created_at
		FROM jobs
		WHERE short_code = $1
		ORDER BY created_at ASC, id ASC
	`

	rows, err := s.db.QueryContext(ctx, query, code)
	if err != nil {
		log.Error("failed to query job results",
			slog.String("error", err.Error()),
			slog.String("short_code", code))
		return nil, MapError(err)
	}
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Error("failed to close rows", slog.String("error", closeErr.Error()))
		}
	}()

	results := []domain.JobResult{}
	for rows.Next() {
		var (
			r       domain.JobResult
			jobType string
			status  string
			payload []byte
		)
		if err := rows.Scan(&r.ID, &r.ShortCode, &jobType, &status, &payload, &r.RecordedAt); err != nil {
			return nil, fmt.Errorf("failed to scan job result: %w", err)
		}
		parsed, err := domain.ParseJobType(jobType)
		if err != nil {
			log.Warn("skipping job result with unknown job type",
				slog.Int64("id", r.ID),
				slog.String("job_type", jobType),
				slog.String("short_code", code))
			continue
		}
		r.JobType = parsed
		r.Status = domain.JobStatus(status)
		r.Result = payload
		results = append(results, r)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return results, nil
}
