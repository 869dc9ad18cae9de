package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/shortlink-api/internal/config"
	"github.com/phrazzld/shortlink-api/internal/domain"
	"github.com/phrazzld/shortlink-api/internal/events"
	"github.com/phrazzld/shortlink-api/internal/platform/logger"
	"github.com/phrazzld/shortlink-api/internal/queue"
	"github.com/phrazzld/shortlink-api/internal/task"
)

func testConfig(backend string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Port: 8080, LogLevel: "debug", BaseURL: "http://localhost:8080"},
		Queue: config.QueueConfig{
			Backend:      backend,
			JobKey:       "job_queue",
			AnalyticsKey: "analytics_queue",
			PollTimeout:  50 * time.Millisecond,
			MemorySize:   16,
		},
		Cache: config.CacheConfig{TTL: time.Hour},
		Worker: config.WorkerConfig{
			Concurrency:     2,
			MetadataTimeout: 2 * time.Second,
			RunInServer:     true,
		},
	}
}

type memoryRecorder struct {
	mu      sync.Mutex
	results []domain.JobResult
}

func (r *memoryRecorder) Append(_ context.Context, res *domain.JobResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.results = append(r.results, *res)
	return nil
}

func (r *memoryRecorder) snapshot() []domain.JobResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.JobResult(nil), r.results...)
}

func TestOpenBackends_Memory(t *testing.T) {
	t.Parallel()

	log, _ := logger.GetTestLogger(t)
	b, err := OpenBackends(context.Background(), testConfig("memory"), log)
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, b.Ping(ctx))
	require.NoError(t, b.Jobs.Push(ctx, []byte("a")))

	got, err := b.Jobs.Pop(ctx, 10*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got)

	_, err = b.Analytics.Pop(ctx, 10*time.Millisecond)
	assert.ErrorIs(t, err, queue.ErrEmpty, "queues are independent")

	require.NoError(t, b.Cache.Set(ctx, "abc123", "https://example.com"))
	url, hit, err := b.Cache.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, "https://example.com", url)

	require.NoError(t, b.Close())
	assert.Error(t, b.Ping(ctx))
}

func TestOpenBackends_MemoryAnalyticsKeepsAcceptingEvents(t *testing.T) {
	t.Parallel()

	log, logBuf := logger.GetTestLogger(t)
	cfg := testConfig("memory")
	cfg.Queue.MemorySize = 3
	b, err := OpenBackends(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	ctx := context.Background()
	emitter := events.NewQueueEmitter(b.Analytics)
	emit := func(eventType domain.EventType) {
		event, err := domain.NewAnalyticsEvent(eventType, "abc123")
		require.NoError(t, err)
		require.NoError(t, emitter.EmitEvent(ctx, event))
	}
	emit(domain.EventURLCreated)
	for i := 0; i < 5; i++ {
		emit(domain.EventURLClicked)
	}

	n, err := b.Analytics.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n, "the stream holds the newest memory_size events")
	assert.NotContains(t, logBuf.String(), "queue is full")

	// The job queue stays strict: a full job queue must reject work.
	for i := 0; i < cfg.Queue.MemorySize; i++ {
		require.NoError(t, b.Jobs.Push(ctx, []byte("job")))
	}
	assert.ErrorIs(t, b.Jobs.Push(ctx, []byte("job")), queue.ErrQueueFull)
}

func TestNewRedisBackends(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	b := NewRedisBackends(client, testConfig("redis"))
	t.Cleanup(func() { _ = b.Close() })

	ctx := context.Background()
	require.NoError(t, b.Ping(ctx))
	require.NoError(t, b.Jobs.Push(ctx, []byte("job")))
	require.NoError(t, b.Analytics.Push(ctx, []byte("event")))
	require.NoError(t, b.Cache.Set(ctx, "abc123", "https://example.com"))

	jobs, err := mr.List("job_queue")
	require.NoError(t, err)
	assert.Equal(t, []string{"job"}, jobs)

	events, err := mr.List("analytics_queue")
	require.NoError(t, err)
	assert.Equal(t, []string{"event"}, events)

	cached, err := mr.Get("url:abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com", cached)
	assert.Equal(t, time.Hour, mr.TTL("url:abc123"))
}

func TestNewWorkerPool_ProcessesFanOut(t *testing.T) {
	t.Parallel()

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Landing</title></head></html>`))
	}))
	t.Cleanup(site.Close)

	log, _ := logger.GetTestLogger(t)
	cfg := testConfig("memory")
	b, err := OpenBackends(context.Background(), cfg, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	jobs := task.NewJobQueue(b.Jobs)
	rec := &memoryRecorder{}
	pool := NewWorkerPool(cfg, jobs, rec, nil, log)
	assert.Equal(t, 2, pool.WorkerCount())

	require.NoError(t, jobs.Enqueue(context.Background(), task.FanOut("abc123", site.URL)...))

	pool.Start(context.Background())
	t.Cleanup(pool.Stop)

	require.Eventually(t, func() bool { return len(rec.snapshot()) == 3 }, 5*time.Second, 10*time.Millisecond)

	seen := map[domain.JobType]domain.JobStatus{}
	for _, r := range rec.snapshot() {
		seen[r.JobType] = r.Status
	}
	assert.Equal(t, map[domain.JobType]domain.JobStatus{
		domain.JobTypeQRCode:     domain.JobStatusCompleted,
		domain.JobTypeScreenshot: domain.JobStatusCompleted,
		domain.JobTypeMetadata:   domain.JobStatusCompleted,
	}, seen)
}

func TestSetupLogger(t *testing.T) {
	cfg := testConfig("memory")
	l, err := SetupLogger(cfg, "test")
	require.NoError(t, err)
	assert.NotNil(t, l)

	cfg.Server.LogLevel = "verbose"
	l, err = SetupLogger(cfg, "test")
	require.NoError(t, err, "unknown levels fall back to info")
	assert.False(t, l.Enabled(context.Background(), slog.LevelDebug))
}
