package store

import (
	"context"

	"github.com/phrazzld/shortlink-api/internal/domain"
)

// JobResultStore is the append-only log of processed jobs.
type JobResultStore interface {
	// Append records one result. Results are never updated or deduplicated.
	Append(ctx context.Context, result *domain.JobResult) error

	// ListByShortCode returns every result recorded for code, oldest first.
	// A code with no results yields an empty slice, not an error.
	ListByShortCode(ctx context.Context, code string) ([]domain.JobResult, error)
}
