package queue

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// MemoryQueue implements Queue with a buffered channel.
// It is only shared between goroutines of one process.
type MemoryQueue struct {
	name   string
	items  chan []byte
	logger *slog.Logger

	// dropOldest makes a full queue evict its oldest values instead of
	// rejecting the push.
	dropOldest bool
	dropped    atomic.Int64

	mu     sync.RWMutex
	closed bool
}

var _ Queue = (*MemoryQueue)(nil)

// MemoryOption configures a MemoryQueue.
type MemoryOption func(*MemoryQueue)

// WithDropOldest turns the queue into a ring buffer: a push into a full
// queue evicts the oldest values and always succeeds.
func WithDropOldest() MemoryOption {
	return func(q *MemoryQueue) {
		q.dropOldest = true
	}
}

// NewMemoryQueue creates a new queue with the specified buffer size
func NewMemoryQueue(name string, size int, logger *slog.Logger, opts ...MemoryOption) *MemoryQueue {
	if size <= 0 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	q := &MemoryQueue{
		name:   name,
		items:  make(chan []byte, size),
		logger: logger.With(slog.String("component", "memory_queue"), slog.String("queue", name)),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Push adds values to the queue.
// Returns an error if the queue is closed or lacks room for every value.
func (q *MemoryQueue) Push(ctx context.Context, values ...[]byte) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}
	if q.dropOldest {
		q.pushEvicting(values)
		return nil
	}
	if free := cap(q.items) - len(q.items); free < len(values) {
		return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.items))
	}

	for _, v := range values {
		select {
		case q.items <- v:
		default:
			// A concurrent producer took the remaining room.
			return fmt.Errorf("%w: queue capacity %d reached", ErrQueueFull, cap(q.items))
		}
	}

	q.logger.Debug("values enqueued",
		"count", len(values),
		"queue_len", len(q.items),
		"queue_cap", cap(q.items))
	return nil
}

// pushEvicting appends values, discarding the oldest entries while the
// buffer is full. Callers hold the read lock.
func (q *MemoryQueue) pushEvicting(values [][]byte) {
	var evicted int64
	for _, v := range values {
		for !q.offer(v) {
			select {
			case <-q.items:
				evicted++
			default:
			}
		}
	}

	if evicted > 0 {
		total := q.dropped.Add(evicted)
		q.logger.Debug("oldest values evicted",
			"evicted", evicted,
			"evicted_total", total,
			"queue_cap", cap(q.items))
	}
}

// offer adds v without blocking and reports whether there was room.
func (q *MemoryQueue) offer(v []byte) bool {
	select {
	case q.items <- v:
		return true
	default:
		return false
	}
}

// Dropped reports how many values a drop-oldest queue has evicted.
func (q *MemoryQueue) Dropped() int64 {
	return q.dropped.Load()
}

// Pop implements Queue.Pop
func (q *MemoryQueue) Pop(ctx context.Context, timeout time.Duration) ([]byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case v, ok := <-q.items:
		if !ok {
			return nil, ErrQueueClosed
		}
		return v, nil
	case <-timer.C:
		return nil, ErrEmpty
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len implements Queue.Len
func (q *MemoryQueue) Len(ctx context.Context) (int64, error) {
	return int64(len(q.items)), nil
}

// Ping implements Queue.Ping. A closed queue is not ready.
func (q *MemoryQueue) Ping(ctx context.Context) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	return nil
}

// Close closes the queue, preventing further submission.
// Values already queued can still be popped.
func (q *MemoryQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.items)
		q.logger.Info("queue closed")
	}
}
