package bootstrap

import (
	"context"
	"errors"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/phrazzld/shortlink-api/internal/cache"
	"github.com/phrazzld/shortlink-api/internal/config"
	"github.com/phrazzld/shortlink-api/internal/platform/redis"
	"github.com/phrazzld/shortlink-api/internal/queue"
)

// Backends holds the queue and cache implementations selected by
// queue.backend.
type Backends struct {
	Jobs      queue.Queue
	Analytics queue.Queue
	Cache     cache.URLCache

	redis  *goredis.Client
	memory []*queue.MemoryQueue
}

// OpenBackends connects to Redis, or builds in-process queues and cache
// for the memory backend.
func OpenBackends(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Backends, error) {
	if cfg.Queue.Backend == "memory" {
		return newMemoryBackends(cfg, logger), nil
	}

	client, err := redis.NewClient(ctx, redis.ClientConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	logger.Info("redis connection established", slog.String("addr", cfg.Redis.Addr))

	return NewRedisBackends(client, cfg), nil
}

// NewRedisBackends builds list queues and the redirect cache on client.
func NewRedisBackends(client *goredis.Client, cfg *config.Config) *Backends {
	return &Backends{
		Jobs:      redis.NewListQueue(client, cfg.Queue.JobKey),
		Analytics: redis.NewListQueue(client, cfg.Queue.AnalyticsKey),
		Cache:     redis.NewURLCache(client, cfg.Cache.TTL),
		redis:     client,
	}
}

func newMemoryBackends(cfg *config.Config, logger *slog.Logger) *Backends {
	jobs := queue.NewMemoryQueue(cfg.Queue.JobKey, cfg.Queue.MemorySize, logger)
	// Nothing drains the in-process analytics stream, so it keeps the most
	// recent memory_size events.
	analytics := queue.NewMemoryQueue(cfg.Queue.AnalyticsKey, cfg.Queue.MemorySize, logger, queue.WithDropOldest())
	logger.Warn("using in-process queues and cache; jobs are lost on restart")
	return &Backends{
		Jobs:      jobs,
		Analytics: analytics,
		Cache:     cache.NewMemoryCache(cfg.Cache.TTL),
		memory:    []*queue.MemoryQueue{jobs, analytics},
	}
}

// Close releases the Redis client or closes the memory queues.
func (b *Backends) Close() error {
	for _, q := range b.memory {
		q.Close()
	}
	if b.redis != nil {
		return b.redis.Close()
	}
	return nil
}

// Ping reports whether the queue backend is reachable.
func (b *Backends) Ping(ctx context.Context) error {
	return errors.Join(b.Jobs.Ping(ctx), b.Analytics.Ping(ctx))
}
