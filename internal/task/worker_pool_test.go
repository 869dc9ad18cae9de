package task

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/shortlink-api/internal/domain"
	"github.com/phrazzld/shortlink-api/internal/platform/logger"
	"github.com/phrazzld/shortlink-api/internal/queue"
)

// memoryRecorder collects recorded results for assertions.
type memoryRecorder struct {
	mu      sync.Mutex
	results []domain.JobResult
	err     error
}

func (r *memoryRecorder) Append(_ context.Context, result *domain.JobResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.results = append(r.results, *result)
	return nil
}

func (r *memoryRecorder) snapshot() []domain.JobResult {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.JobResult(nil), r.results...)
}

type countingObserver struct {
	mu     sync.Mutex
	counts map[domain.JobStatus]int
}

func (o *countingObserver) ObserveJob(_ domain.JobType, status domain.JobStatus, _ time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.counts == nil {
		o.counts = make(map[domain.JobStatus]int)
	}
	o.counts[status]++
}

// fastDispatcher answers every job immediately without touching the network.
func fastDispatcher() *Dispatcher {
	return NewDispatcher(
		NewQRCodeProcessor(),
		NewScreenshotProcessor(0),
		ProcessorFunc(func(_ context.Context, item domain.JobItem) (any, error) {
			return MetadataResult{Title: item.ShortCode, StatusCode: 200, ContentType: "text/html"}, nil
		}),
	)
}

func testPoolConfig(workers int) WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount:  workers,
		PollTimeout:  10 * time.Millisecond,
		ErrorBackoff: 10 * time.Millisecond,
		JobTimeout:   time.Second,
	}
}

func TestNewWorkerPool_Defaults(t *testing.T) {
	l, buf := logger.GetTestLogger(t)
	jobs := NewJobQueue(queue.NewMemoryQueue("job_queue", 1, nil))

	pool := NewWorkerPool(jobs, fastDispatcher(), &memoryRecorder{}, WorkerPoolConfig{WorkerCount: -5}, l)

	assert.Equal(t, 1, pool.WorkerCount())
	assert.Equal(t, time.Second, pool.pollTimeout)
	assert.Equal(t, time.Second, pool.errorBackoff)
	logger.AssertLogContains(t, buf, "invalid worker count specified")
}

func TestWorkerPool_EveryItemYieldsExactlyOneResult(t *testing.T) {
	for _, workers := range []int{1, 5} {
		t.Run(fmt.Sprintf("%d workers", workers), func(t *testing.T) {
			const urls = 20
			jobs := NewJobQueue(queue.NewMemoryQueue("job_queue", urls*3, nil))
			ctx := context.Background()

			for i := 0; i < urls; i++ {
				code := fmt.Sprintf("c%05d", i)
				require.NoError(t, jobs.Enqueue(ctx, FanOut(code, "https://example.com/"+code)...))
			}

			recorder := &memoryRecorder{}
			observer := &countingObserver{}
			pool := NewWorkerPool(jobs, fastDispatcher(), recorder, testPoolConfig(workers), nil)
			pool.SetObserver(observer)
			pool.Start(ctx)

			require.Eventually(t, func() bool {
				return len(recorder.snapshot()) == urls*3
			}, 5*time.Second, 10*time.Millisecond)
			pool.Stop()

			perCode := make(map[string]map[domain.JobType]int)
			for _, r := range recorder.snapshot() {
				assert.Equal(t, domain.JobStatusCompleted, r.Status)
				if perCode[r.ShortCode] == nil {
					perCode[r.ShortCode] = make(map[domain.JobType]int)
				}
				perCode[r.ShortCode][r.JobType]++
			}
			assert.Len(t, perCode, urls)
			for code, byType := range perCode {
				for _, jt := range domain.AllJobTypes() {
					assert.Equal(t, 1, byType[jt], "%s/%s", code, jt)
				}
			}
			assert.Equal(t, urls*3, observer.counts[domain.JobStatusCompleted])

			n, err := jobs.Len(ctx)
			require.NoError(t, err)
			assert.Zero(t, n, "queue should be drained")
		})
	}
}

func TestWorkerPool_FailuresAndPanicsBecomeFailedResults(t *testing.T) {
	jobs := NewJobQueue(queue.NewMemoryQueue("job_queue", 10, nil))
	ctx := context.Background()

	dispatcher := NewDispatcher(
		ProcessorFunc(func(context.Context, domain.JobItem) (any, error) {
			panic("renderer exploded")
		}),
		NewScreenshotProcessor(0),
		ProcessorFunc(func(context.Context, domain.JobItem) (any, error) {
			return nil, errors.New("dial tcp: connection refused")
		}),
	)

	require.NoError(t, jobs.Enqueue(ctx, FanOut("abc123", "https://example.com")...))

	recorder := &memoryRecorder{}
	pool := NewWorkerPool(jobs, dispatcher, recorder, testPoolConfig(2), nil)
	pool.Start(ctx)
	require.Eventually(t, func() bool { return len(recorder.snapshot()) == 3 }, 5*time.Second, 10*time.Millisecond)
	pool.Stop()

	byType := make(map[domain.JobType]domain.JobResult)
	for _, r := range recorder.snapshot() {
		byType[r.JobType] = r
	}

	assert.Equal(t, domain.JobStatusFailed, byType[domain.JobTypeQRCode].Status)
	assert.Contains(t, string(byType[domain.JobTypeQRCode].Result), "renderer exploded")
	assert.Equal(t, domain.JobStatusCompleted, byType[domain.JobTypeScreenshot].Status)
	assert.Equal(t, domain.JobStatusFailed, byType[domain.JobTypeMetadata].Status)
	assert.JSONEq(t, `{"error":"dial tcp: connection refused"}`, string(byType[domain.JobTypeMetadata].Result))
}

func TestWorkerPool_DropsUnknownAndMalformedItems(t *testing.T) {
	mem := queue.NewMemoryQueue("job_queue", 10, nil)
	jobs := NewJobQueue(mem)
	ctx := context.Background()

	require.NoError(t, mem.Push(ctx, []byte("{broken")))
	require.NoError(t, jobs.Enqueue(ctx,
		domain.NewJobItem("pdf_export", "abc123", "https://example.com"),
		domain.NewJobItem(domain.JobTypeScreenshot, "abc123", "https://example.com"),
	))

	l, buf := logger.GetTestLogger(t)
	recorder := &memoryRecorder{}
	pool := NewWorkerPool(jobs, fastDispatcher(), recorder, testPoolConfig(1), l)
	pool.Start(ctx)
	require.Eventually(t, func() bool { return len(recorder.snapshot()) == 1 }, 5*time.Second, 10*time.Millisecond)
	pool.Stop()

	results := recorder.snapshot()
	require.Len(t, results, 1)
	assert.Equal(t, domain.JobTypeScreenshot, results[0].JobType)
	logger.AssertLogContains(t, buf, "dropping job of unknown type")
	logger.AssertLogContains(t, buf, "dropping malformed job item")
}

func TestWorkerPool_RecorderFailureDoesNotStopWorker(t *testing.T) {
	jobs := NewJobQueue(queue.NewMemoryQueue("job_queue", 10, nil))
	ctx := context.Background()
	require.NoError(t, jobs.Enqueue(ctx, FanOut("abc123", "https://example.com")...))

	l, buf := logger.GetTestLogger(t)
	recorder := &memoryRecorder{err: errors.New("database is down")}
	pool := NewWorkerPool(jobs, fastDispatcher(), recorder, testPoolConfig(1), l)
	pool.Start(ctx)

	require.Eventually(t, func() bool {
		n, _ := jobs.Len(ctx)
		return n == 0
	}, 5*time.Second, 10*time.Millisecond)
	pool.Stop()

	logger.AssertLogContains(t, buf, "failed to record job result")
}

// flakySource fails a fixed number of times before reporting empty.
type flakySource struct {
	failures atomic.Int32
}

func (s *flakySource) Dequeue(ctx context.Context, timeout time.Duration) (*domain.JobItem, error) {
	if s.failures.Add(-1) >= 0 {
		return nil, errors.New("connection reset by peer")
	}
	return nil, queue.ErrEmpty
}

func TestWorkerPool_BacksOffOnQueueErrors(t *testing.T) {
	source := &flakySource{}
	source.failures.Store(2)

	l, buf := logger.GetTestLogger(t)
	pool := NewWorkerPool(source, fastDispatcher(), &memoryRecorder{}, testPoolConfig(1), l)
	pool.Start(context.Background())

	require.Eventually(t, func() bool { return source.failures.Load() < 0 }, 5*time.Second, 5*time.Millisecond)
	pool.Stop()

	logger.AssertLogContains(t, buf, "failed to dequeue job")
}

func TestWorkerPool_StopsWhenParentContextEnds(t *testing.T) {
	jobs := NewJobQueue(queue.NewMemoryQueue("job_queue", 1, nil))
	ctx, cancel := context.WithCancel(context.Background())

	pool := NewWorkerPool(jobs, fastDispatcher(), &memoryRecorder{}, testPoolConfig(3), nil)
	pool.Start(ctx)
	pool.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		pool.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("workers did not observe cancellation")
	}
}

func TestWorkerPool_InFlightJobFinishesOnStop(t *testing.T) {
	jobs := NewJobQueue(queue.NewMemoryQueue("job_queue", 1, nil))
	ctx := context.Background()
	require.NoError(t, jobs.Enqueue(ctx, domain.NewJobItem(domain.JobTypeScreenshot, "abc123", "https://example.com")))

	started := make(chan struct{})
	dispatcher := NewDispatcher(nil, ProcessorFunc(func(ctx context.Context, item domain.JobItem) (any, error) {
		close(started)
		time.Sleep(50 * time.Millisecond)
		return ScreenshotResult{Status: "simulated"}, ctx.Err()
	}), nil)

	recorder := &memoryRecorder{}
	pool := NewWorkerPool(jobs, dispatcher, recorder, testPoolConfig(1), nil)
	pool.Start(ctx)
	<-started
	pool.Stop()

	results := recorder.snapshot()
	require.Len(t, results, 1)
	assert.Equal(t, domain.JobStatusCompleted, results[0].Status)
}
