package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/shortlink-api/internal/domain"
)

// URLStore is the registry of short codes. It is the single source of truth
// for the code to URL mapping and for click counts.
type URLStore interface {
	// Insert registers a new short URL if its code is not taken.
	// Returns ErrShortCodeExists when the code already exists; the existing
	// mapping is never overwritten.
	Insert(ctx context.Context, shortURL *domain.ShortURL) error

	// Lookup returns the original URL registered for code.
	// Returns ErrShortURLNotFound if no mapping exists.
	Lookup(ctx context.Context, code string) (string, error)

	// IncrementClicks adds one to the click count for code.
	// Returns ErrShortURLNotFound if no mapping exists.
	IncrementClicks(ctx context.Context, code string) error

	// Stats returns the full registry row for code.
	// Returns ErrShortURLNotFound if no mapping exists.
	Stats(ctx context.Context, code string) (*domain.ShortURL, error)

	// WithTx returns a new URLStore instance that uses the provided transaction.
	// This allows for multiple operations to be executed within a single transaction.
	WithTx(tx *sql.Tx) URLStore
}

// Pinger is implemented by every backing dependency checked by readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}
