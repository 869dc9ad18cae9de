package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetTraceID_GeneratesUUID(t *testing.T) {
	t.Parallel()

	ctx := SetTraceID(context.Background())
	traceID := GetTraceID(ctx)

	_, err := uuid.Parse(traceID)
	require.NoError(t, err)
	assert.NotEqual(t, traceID, GetTraceID(SetTraceID(context.Background())))
}

func TestSetTraceID_ReusesRequestID(t *testing.T) {
	t.Parallel()

	var got string
	h := middleware.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		ctx := SetTraceID(r.Context())
		assert.Equal(t, middleware.GetReqID(r.Context()), GetTraceID(ctx))
		got = GetTraceID(ctx)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "req-42", got)
}

func TestGetTraceID_Missing(t *testing.T) {
	t.Parallel()

	assert.Empty(t, GetTraceID(context.Background()))
	assert.Empty(t, GetTraceID(context.WithValue(context.Background(), TraceIDKey, 42)))
}
