package task

import (
	"context"
	"errors"
	"time"

	"github.com/phrazzld/shortlink-api/internal/domain"
)

// Common task errors
var (
	// ErrUnknownJobType is returned when an item names a type outside the closed set.
	ErrUnknownJobType = errors.New("unknown job type")

	// ErrMalformedItem is returned when a dequeued payload cannot be decoded.
	ErrMalformedItem = errors.New("malformed job item")
)

// Processor runs one kind of job and returns its result payload.
// A returned error becomes a failed JobResult; it never stops the worker.
type Processor interface {
	Process(ctx context.Context, item domain.JobItem) (any, error)
}

// ProcessorFunc adapts a function to the Processor interface.
type ProcessorFunc func(ctx context.Context, item domain.JobItem) (any, error)

// Process implements Processor
func (f ProcessorFunc) Process(ctx context.Context, item domain.JobItem) (any, error) {
	return f(ctx, item)
}

// ResultRecorder persists job results. It is satisfied by store.JobResultStore.
type ResultRecorder interface {
	Append(ctx context.Context, result *domain.JobResult) error
}

// Observer receives one observation per processed job.
type Observer interface {
	ObserveJob(jobType domain.JobType, status domain.JobStatus, duration time.Duration)
}

type nopObserver struct{}

func (nopObserver) ObserveJob(domain.JobType, domain.JobStatus, time.Duration) {}
