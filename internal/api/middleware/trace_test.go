package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/shortlink-api/internal/api/middleware"
	"github.com/phrazzld/shortlink-api/internal/api/shared"
	"github.com/phrazzld/shortlink-api/internal/platform/logger"
)

func TestNewTraceMiddleware(t *testing.T) {
	t.Parallel()

	log, buf := logger.GetTestLogger(t)

	var traceID string
	h := chimw.RequestID(middleware.NewTraceMiddleware(log)(
		http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			traceID = shared.GetTraceID(r.Context())
			logger.FromContext(r.Context()).Info("inside handler")
		}),
	))

	req := httptest.NewRequest(http.MethodGet, "/abc123", nil)
	req.Header.Set(chimw.RequestIDHeader, "trace-xyz")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "trace-xyz", traceID)
	entries, err := buf.GetLogEntries()
	assert.NoError(t, err)
	for _, e := range entries {
		assert.Equal(t, "trace-xyz", e["trace_id"])
	}
	logger.AssertLogContains(t, buf, "inside handler")
	logger.AssertLogContains(t, buf, "request started")
}
