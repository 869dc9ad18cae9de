package queue

import (
	"context"
	"errors"
	"time"
)

// Common errors returned by Queue implementations
var (
	// ErrEmpty is returned by Pop when the wait elapses without an item.
	ErrEmpty = errors.New("queue is empty")

	ErrQueueClosed = errors.New("queue is closed")
	ErrQueueFull   = errors.New("queue is full")
)

// Queue is a FIFO of opaque payloads shared by producers and competing consumers.
// Each pushed value is delivered to at most one Pop caller.
type Queue interface {
	// Push appends values to the tail in order. Either all values are
	// accepted or an error is returned.
	Push(ctx context.Context, values ...[]byte) error

	// Pop removes the head, waiting at most timeout for one to arrive.
	// Returns ErrEmpty when the wait elapses and ctx.Err() when ctx is done first.
	Pop(ctx context.Context, timeout time.Duration) ([]byte, error)

	// Len reports the number of values waiting.
	Len(ctx context.Context) (int64, error)

	// Ping reports whether the queue backend is reachable.
	Ping(ctx context.Context) error
}
