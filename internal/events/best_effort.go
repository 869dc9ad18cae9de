package events

import (
	"context"
	"log/slog"

	"github.com/phrazzld/shortlink-api/internal/domain"
	"github.com/phrazzld/shortlink-api/internal/platform/logger"
)

type bestEffortEmitter struct {
	next   EventEmitter
	logger *slog.Logger
}

// BestEffort wraps next so that emission failures are logged and swallowed.
func BestEffort(next EventEmitter, l *slog.Logger) EventEmitter {
	if l == nil {
		l = slog.Default()
	}
	return &bestEffortEmitter{next: next, logger: l.With("component", "analytics")}
}

// EmitEvent implements EventEmitter. It always returns nil.
func (b *bestEffortEmitter) EmitEvent(ctx context.Context, event *domain.AnalyticsEvent) error {
	if err := b.next.EmitEvent(ctx, event); err != nil {
		logger.FromContextOrDefault(ctx, b.logger).Warn("failed to emit analytics event",
			"event", event.Event,
			"short_code", event.ShortCode,
			"error", err)
	}
	return nil
}
