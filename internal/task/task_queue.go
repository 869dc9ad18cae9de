package task

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/phrazzld/shortlink-api/internal/domain"
	"github.com/phrazzld/shortlink-api/internal/queue"
)

// JobQueue carries JSON-encoded JobItems over a queue.Queue.
type JobQueue struct {
	q queue.Queue
}

// NewJobQueue wraps q.
func NewJobQueue(q queue.Queue) *JobQueue {
	return &JobQueue{q: q}
}

// Enqueue appends items in order.
func (j *JobQueue) Enqueue(ctx context.Context, items ...domain.JobItem) error {
	payloads := make([][]byte, 0, len(items))
	for _, item := range items {
		b, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to encode job %s: %w", item.ID, err)
		}
		payloads = append(payloads, b)
	}

	if err := j.q.Push(ctx, payloads...); err != nil {
		return fmt.Errorf("failed to enqueue %d jobs: %w", len(items), err)
	}
	return nil
}

// Dequeue removes the next item, waiting at most timeout.
// Returns queue.ErrEmpty when nothing arrives and ErrMalformedItem when the
// payload cannot be decoded; in the latter case the item is already consumed.
func (j *JobQueue) Dequeue(ctx context.Context, timeout time.Duration) (*domain.JobItem, error) {
	raw, err := j.q.Pop(ctx, timeout)
	if err != nil {
		return nil, err
	}

	var item domain.JobItem
	if err := json.Unmarshal(raw, &item); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedItem, err)
	}
	if item.ShortCode == "" {
		return nil, fmt.Errorf("%w: missing short_code", ErrMalformedItem)
	}
	return &item, nil
}

// Len reports the number of waiting items.
func (j *JobQueue) Len(ctx context.Context) (int64, error) {
	return j.q.Len(ctx)
}

// Ping reports whether the underlying queue is reachable.
func (j *JobQueue) Ping(ctx context.Context) error {
	return j.q.Ping(ctx)
}

// FanOut builds the enrichment jobs for a new short URL, one per job type,
// in fan-out order.
func FanOut(shortCode, originalURL string) []domain.JobItem {
	types := domain.AllJobTypes()
	items := make([]domain.JobItem, 0, len(types))
	for _, t := range types {
		items = append(items, domain.NewJobItem(t, shortCode, originalURL))
	}
	return items
}
