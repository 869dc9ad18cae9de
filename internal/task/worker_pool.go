package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/shortlink-api/internal/domain"
	"github.com/phrazzld/shortlink-api/internal/platform/logger"
	"github.com/phrazzld/shortlink-api/internal/queue"
)

// recordTimeout bounds the write of a single JobResult.
const recordTimeout = 5 * time.Second

// JobSource yields job items one at a time. *JobQueue satisfies it.
type JobSource interface {
	Dequeue(ctx context.Context, timeout time.Duration) (*domain.JobItem, error)
}

// JobDispatcher runs a job item. *Dispatcher satisfies it.
type JobDispatcher interface {
	Dispatch(ctx context.Context, item domain.JobItem) (any, error)
}

// WorkerPool manages a pool of worker goroutines that compete for items
// on a shared job queue. Each dequeued item yields exactly one JobResult,
// except items of an unknown type, which are logged and dropped.
type WorkerPool struct {
	// jobs provides the items to be processed
	jobs JobSource

	dispatcher JobDispatcher
	recorder   ResultRecorder
	observer   Observer

	// workerCount is the number of concurrent workers to start
	workerCount  int
	pollTimeout  time.Duration
	errorBackoff time.Duration
	jobTimeout   time.Duration

	// wg tracks active worker goroutines for clean shutdown
	wg sync.WaitGroup

	startOnce sync.Once
	mu        sync.Mutex
	cancel    context.CancelFunc

	// logger for structured logging
	logger *slog.Logger
}

// WorkerPoolConfig holds configuration options for the worker pool
type WorkerPoolConfig struct {
	// WorkerCount determines how many concurrent worker goroutines to start
	// If zero or negative, defaults to 1
	WorkerCount int

	// PollTimeout bounds each wait on the queue, so shutdown is observed
	// within one interval. Defaults to 1s.
	PollTimeout time.Duration

	// ErrorBackoff is the pause after a queue failure. Defaults to 1s.
	ErrorBackoff time.Duration

	// JobTimeout bounds a single processor run. Defaults to 30s.
	JobTimeout time.Duration
}

// DefaultWorkerPoolConfig returns a WorkerPoolConfig with reasonable defaults
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		WorkerCount:  5,
		PollTimeout:  time.Second,
		ErrorBackoff: time.Second,
		JobTimeout:   30 * time.Second,
	}
}

// NewWorkerPool creates a new worker pool with the specified configuration
func NewWorkerPool(
	jobs JobSource,
	dispatcher JobDispatcher,
	recorder ResultRecorder,
	config WorkerPoolConfig,
	log *slog.Logger,
) *WorkerPool {
	if log == nil {
		log = slog.Default()
	}
	log = log.With(slog.String("component", "worker_pool"))

	defaults := DefaultWorkerPoolConfig()

	// Apply defaults for invalid config values
	workerCount := config.WorkerCount
	if workerCount <= 0 {
		workerCount = 1
		log.Warn("invalid worker count specified, using default",
			"specified_count", config.WorkerCount,
			"default_count", 1)
	}
	if config.PollTimeout <= 0 {
		config.PollTimeout = defaults.PollTimeout
	}
	if config.ErrorBackoff <= 0 {
		config.ErrorBackoff = defaults.ErrorBackoff
	}
	if config.JobTimeout <= 0 {
		config.JobTimeout = defaults.JobTimeout
	}

	return &WorkerPool{
		jobs:         jobs,
		dispatcher:   dispatcher,
		recorder:     recorder,
		observer:     nopObserver{},
		workerCount:  workerCount,
		pollTimeout:  config.PollTimeout,
		errorBackoff: config.ErrorBackoff,
		jobTimeout:   config.JobTimeout,
		logger:       log,
	}
}

// SetObserver registers a sink for per-job observations. Call before Start.
func (p *WorkerPool) SetObserver(o Observer) {
	if o == nil {
		o = nopObserver{}
	}
	p.observer = o
}

// WorkerCount returns the number of workers the pool runs.
func (p *WorkerPool) WorkerCount() int {
	return p.workerCount
}

// Start launches the workers. They run until ctx is cancelled or Stop is
// called. Calling Start more than once has no effect.
func (p *WorkerPool) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		runCtx, cancel := context.WithCancel(ctx)
		p.mu.Lock()
		p.cancel = cancel
		p.mu.Unlock()

		p.logger.Info("starting worker pool", "worker_count", p.workerCount)
		for i := 0; i < p.workerCount; i++ {
			p.wg.Add(1)
			go p.worker(runCtx, i)
		}
	})
}

// Stop signals every worker to exit after its current item and waits for them.
func (p *WorkerPool) Stop() {
	p.mu.Lock()
	cancel := p.cancel
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	p.wg.Wait()
	p.logger.Info("worker pool stopped")
}

// worker pulls items until ctx is done or the queue is closed.
func (p *WorkerPool) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	log := p.logger.With("worker_id", id)
	log.Debug("starting worker")

	for {
		if ctx.Err() != nil {
			log.Debug("stopping worker")
			return
		}

		item, err := p.jobs.Dequeue(ctx, p.pollTimeout)
		switch {
		case err == nil:
			p.handle(ctx, log, *item)

		case errors.Is(err, queue.ErrEmpty):
			continue

		case ctx.Err() != nil:
			log.Debug("stopping worker")
			return

		case errors.Is(err, queue.ErrQueueClosed):
			log.Info("job queue closed, stopping worker")
			return

		case errors.Is(err, ErrMalformedItem):
			log.Warn("dropping malformed job item", "error", err)

		default:
			log.Error("failed to dequeue job", "error", err)
			if !sleepCtx(ctx, p.errorBackoff) {
				return
			}
		}
	}
}

// handle processes one item and records its result.
func (p *WorkerPool) handle(ctx context.Context, workerLog *slog.Logger, item domain.JobItem) {
	log := workerLog.With(
		"job_id", item.ID,
		"job_type", item.Type,
		"short_code", item.ShortCode,
	)

	// An in-flight job finishes even when the pool is stopping.
	jobCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.jobTimeout)
	defer cancel()
	jobCtx = logger.WithLogger(jobCtx, log)

	log.Info("processing job")
	start := time.Now()
	payload, err := p.run(jobCtx, item)
	elapsed := time.Since(start)

	if errors.Is(err, ErrUnknownJobType) {
		log.Warn("dropping job of unknown type", "error", err)
		return
	}

	var result *domain.JobResult
	if err == nil {
		result, err = domain.NewCompletedResult(item, payload)
	}
	if err != nil {
		log.Error("job failed", "error", err, "duration_ms", elapsed.Milliseconds())
		result = domain.NewFailedResult(item, err)
	} else {
		log.Info("job completed", "duration_ms", elapsed.Milliseconds())
	}

	p.observer.ObserveJob(item.Type, result.Status, elapsed)

	recordCtx, recordCancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer recordCancel()
	if err := p.recorder.Append(logger.WithLogger(recordCtx, log), result); err != nil {
		log.Error("failed to record job result",
			"status", result.Status,
			"error", err)
	}
}

// run dispatches item, converting a processor panic into an error.
func (p *WorkerPool) run(ctx context.Context, item domain.JobItem) (payload any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("processor panicked: %v", r)
		}
	}()
	return p.dispatcher.Dispatch(ctx, item)
}

// sleepCtx waits for d and reports false if ctx ended first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
