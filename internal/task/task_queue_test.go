package task

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/shortlink-api/internal/domain"
	"github.com/phrazzld/shortlink-api/internal/queue"
)

func TestFanOut(t *testing.T) {
	items := FanOut("abc123", "https://example.com")

	require.Len(t, items, 3)
	assert.Equal(t, domain.JobTypeQRCode, items[0].Type)
	assert.Equal(t, domain.JobTypeScreenshot, items[1].Type)
	assert.Equal(t, domain.JobTypeMetadata, items[2].Type)
	for _, item := range items {
		assert.Equal(t, "abc123", item.ShortCode)
		assert.Equal(t, "https://example.com", item.URL)
	}
	assert.NotEqual(t, items[0].ID, items[1].ID)
}

func TestJobQueue_RoundTripPreservesOrder(t *testing.T) {
	q := NewJobQueue(queue.NewMemoryQueue("job_queue", 10, nil))
	ctx := context.Background()
	items := FanOut("abc123", "https://example.com")

	require.NoError(t, q.Enqueue(ctx, items...))
	n, err := q.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)

	for _, want := range items {
		got, err := q.Dequeue(ctx, time.Second)
		require.NoError(t, err)
		assert.Equal(t, want.ID, got.ID)
		assert.Equal(t, want.Type, got.Type)
	}

	_, err = q.Dequeue(ctx, 10*time.Millisecond)
	assert.ErrorIs(t, err, queue.ErrEmpty)
	assert.NoError(t, q.Ping(ctx))
}

func TestJobQueue_WireFormat(t *testing.T) {
	mem := queue.NewMemoryQueue("job_queue", 1, nil)
	q := NewJobQueue(mem)
	ctx := context.Background()

	require.NoError(t, q.Enqueue(ctx, domain.NewJobItem(domain.JobTypeMetadata, "abc123", "https://example.com")))
	raw, err := mem.Pop(ctx, time.Second)
	require.NoError(t, err)

	assert.Contains(t, string(raw), `"type":"metadata"`)
	assert.Contains(t, string(raw), `"short_code":"abc123"`)
	assert.Contains(t, string(raw), `"url":"https://example.com"`)
}

func TestJobQueue_MalformedItem(t *testing.T) {
	mem := queue.NewMemoryQueue("job_queue", 2, nil)
	q := NewJobQueue(mem)
	ctx := context.Background()

	require.NoError(t, mem.Push(ctx, []byte("not json"), []byte(`{"type":"qr_code"}`)))

	_, err := q.Dequeue(ctx, time.Second)
	assert.ErrorIs(t, err, ErrMalformedItem)
	_, err = q.Dequeue(ctx, time.Second)
	assert.ErrorIs(t, err, ErrMalformedItem)
}

func TestJobQueue_EnqueueFailure(t *testing.T) {
	mem := queue.NewMemoryQueue("job_queue", 1, nil)
	q := NewJobQueue(mem)

	err := q.Enqueue(context.Background(), FanOut("abc123", "https://example.com")...)
	assert.ErrorIs(t, err, queue.ErrQueueFull)
}
