package task

import (
	"context"
	"fmt"

	"github.com/phrazzld/shortlink-api/internal/domain"
)

// Dispatcher routes a JobItem to the processor for its type.
type Dispatcher struct {
	qrCode     Processor
	screenshot Processor
	metadata   Processor
}

// NewDispatcher creates a dispatcher over one processor per job type.
func NewDispatcher(qrCode, screenshot, metadata Processor) *Dispatcher {
	return &Dispatcher{
		qrCode:     qrCode,
		screenshot: screenshot,
		metadata:   metadata,
	}
}

// Dispatch runs item on its processor.
// Returns ErrUnknownJobType when the type is not part of the closed set.
func (d *Dispatcher) Dispatch(ctx context.Context, item domain.JobItem) (any, error) {
	var p Processor
	switch item.Type {
	case domain.JobTypeQRCode:
		p = d.qrCode
	case domain.JobTypeScreenshot:
		p = d.screenshot
	case domain.JobTypeMetadata:
		p = d.metadata
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownJobType, item.Type)
	}

	if p == nil {
		return nil, fmt.Errorf("no processor registered for %s", item.Type)
	}
	return p.Process(ctx, item)
}
