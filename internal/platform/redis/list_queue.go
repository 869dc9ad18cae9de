package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/shortlink-api/internal/queue"
)

// minBlockingTimeout is the smallest wait BLPOP supports.
const minBlockingTimeout = time.Second

// ListQueue implements queue.Queue on a Redis list.
type ListQueue struct {
	client goredis.Cmdable
	key    string
}

var _ queue.Queue = (*ListQueue)(nil)

// NewListQueue creates a queue stored under key.
func NewListQueue(client goredis.Cmdable, key string) *ListQueue {
	return &ListQueue{client: client, key: key}
}

// Push implements queue.Queue.Push. All values go out in a single RPUSH.
func (q *ListQueue) Push(ctx context.Context, values ...[]byte) error {
	if len(values) == 0 {
		return nil
	}

	args := make([]interface{}, len(values))
	for i, v := range values {
		args[i] = v
	}

	if err := q.client.RPush(ctx, q.key, args...).Err(); err != nil {
		return fmt.Errorf("rpush %s: %w", q.key, err)
	}
	return nil
}

// Pop implements queue.Queue.Pop using BLPOP. Timeouts under a second are
// rounded up to one second.
func (q *ListQueue) Pop(ctx context.Context, timeout time.Duration) ([]byte, error) {
	if timeout < minBlockingTimeout {
		timeout = minBlockingTimeout
	}

	res, err := q.client.BLPop(ctx, timeout, q.key).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, queue.ErrEmpty
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("blpop %s: %w", q.key, err)
	}

	// BLPOP replies with [key, value].
	if len(res) != 2 {
		return nil, fmt.Errorf("blpop %s: unexpected reply length %d", q.key, len(res))
	}
	return []byte(res[1]), nil
}

// Len implements queue.Queue.Len
func (q *ListQueue) Len(ctx context.Context) (int64, error) {
	n, err := q.client.LLen(ctx, q.key).Result()
	if err != nil {
		return 0, fmt.Errorf("llen %s: %w", q.key, err)
	}
	return n, nil
}

// Ping implements queue.Queue.Ping
func (q *ListQueue) Ping(ctx context.Context) error {
	return q.client.Ping(ctx).Err()
}
