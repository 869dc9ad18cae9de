package bootstrap

import (
	"log/slog"

	"github.com/phrazzld/shortlink-api/internal/config"
	"github.com/phrazzld/shortlink-api/internal/task"
)

// NewWorkerPool builds the processors, the dispatcher and the pool that
// drains jobs into recorder.
func NewWorkerPool(
	cfg *config.Config,
	jobs task.JobSource,
	recorder task.ResultRecorder,
	observer task.Observer,
	logger *slog.Logger,
) *task.WorkerPool {
	dispatcher := task.NewDispatcher(
		task.NewQRCodeProcessor(),
		task.NewScreenshotProcessor(cfg.Worker.ScreenshotDelay),
		task.NewMetadataProcessor(nil, cfg.Worker.MetadataTimeout),
	)

	poolCfg := task.DefaultWorkerPoolConfig()
	poolCfg.WorkerCount = cfg.Worker.Concurrency
	poolCfg.PollTimeout = cfg.Queue.PollTimeout

	pool := task.NewWorkerPool(jobs, dispatcher, recorder, poolCfg, logger)
	if observer != nil {
		pool.SetObserver(observer)
	}
	return pool
}
