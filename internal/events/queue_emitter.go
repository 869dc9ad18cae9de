package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/phrazzld/shortlink-api/internal/domain"
	"github.com/phrazzld/shortlink-api/internal/queue"
)

// QueueEmitter appends events as JSON to a queue for external consumers.
type QueueEmitter struct {
	q queue.Queue
}

var (
	_ EventEmitter = (*QueueEmitter)(nil)
	_ EventHandler = (*QueueEmitter)(nil)
)

// NewQueueEmitter creates an emitter writing to q.
func NewQueueEmitter(q queue.Queue) *QueueEmitter {
	return &QueueEmitter{q: q}
}

// EmitEvent implements EventEmitter
func (e *QueueEmitter) EmitEvent(ctx context.Context, event *domain.AnalyticsEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Event, err)
	}
	if err := e.q.Push(ctx, payload); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.Event, err)
	}
	return nil
}

// HandleEvent implements EventHandler so the emitter can be registered on
// an InMemoryEventEmitter.
func (e *QueueEmitter) HandleEvent(ctx context.Context, event *domain.AnalyticsEvent) error {
	return e.EmitEvent(ctx, event)
}
