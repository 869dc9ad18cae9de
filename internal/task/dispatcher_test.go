package task

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/shortlink-api/internal/domain"
)

func constProcessor(v string) Processor {
	return ProcessorFunc(func(context.Context, domain.JobItem) (any, error) { return v, nil })
}

func TestDispatcher_RoutesByType(t *testing.T) {
	d := NewDispatcher(constProcessor("qr"), constProcessor("shot"), constProcessor("meta"))
	ctx := context.Background()

	cases := map[domain.JobType]string{
		domain.JobTypeQRCode:     "qr",
		domain.JobTypeScreenshot: "shot",
		domain.JobTypeMetadata:   "meta",
	}
	for jobType, want := range cases {
		got, err := d.Dispatch(ctx, domain.NewJobItem(jobType, "abc123", "https://example.com"))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestDispatcher_UnknownType(t *testing.T) {
	d := NewDispatcher(constProcessor("qr"), constProcessor("shot"), constProcessor("meta"))

	_, err := d.Dispatch(context.Background(), domain.NewJobItem("pdf_export", "abc123", "https://example.com"))
	assert.ErrorIs(t, err, ErrUnknownJobType)
}

func TestDispatcher_MissingProcessor(t *testing.T) {
	d := NewDispatcher(nil, nil, nil)

	_, err := d.Dispatch(context.Background(), domain.NewJobItem(domain.JobTypeQRCode, "abc123", "https://example.com"))
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnknownJobType)
}
