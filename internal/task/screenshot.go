package task

import (
	"context"
	"strings"
	"time"

	"github.com/phrazzld/shortlink-api/internal/domain"
)

// DefaultScreenshotDelay simulates the latency of a real capture.
const DefaultScreenshotDelay = 2 * time.Second

// DefaultScreenshotBaseURL prefixes simulated screenshot locations.
const DefaultScreenshotBaseURL = "https://placeholder.com"

// ScreenshotResult is the payload of a completed screenshot job.
type ScreenshotResult struct {
	ScreenshotURL string `json:"screenshot_url"`
	Status        string `json:"status"`
}

// ScreenshotProcessor simulates a page capture. No browser is driven.
type ScreenshotProcessor struct {
	Delay   time.Duration
	BaseURL string
}

// NewScreenshotProcessor creates a processor that waits delay before
// reporting a placeholder location.
func NewScreenshotProcessor(delay time.Duration) *ScreenshotProcessor {
	return &ScreenshotProcessor{Delay: delay, BaseURL: DefaultScreenshotBaseURL}
}

// Process implements Processor
func (p *ScreenshotProcessor) Process(ctx context.Context, item domain.JobItem) (any, error) {
	if p.Delay > 0 {
		timer := time.NewTimer(p.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	return ScreenshotResult{
		ScreenshotURL: strings.TrimRight(p.BaseURL, "/") + "/screenshot/" + item.ShortCode,
		Status:        "simulated",
	}, nil
}
