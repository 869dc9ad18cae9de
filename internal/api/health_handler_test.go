package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Health(t *testing.T) {
	t.Parallel()

	h := NewHealthHandler(nil, Dependency{Name: "db", Pinger: pingFunc(func(context.Context) error {
		t.Fatal("liveness must not ping dependencies")
		return nil
	})})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestHealthHandler_Ready(t *testing.T) {
	t.Parallel()

	up := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		deps       []Dependency
		wantStatus int
		wantBody   string
	}{
		{
			name:       "all dependencies up",
			deps:       []Dependency{{"database", up}, {"redis", up}},
			wantStatus: http.StatusOK,
			wantBody:   `{"status":"ready"}`,
		},
		{
			name:       "redis down",
			deps:       []Dependency{{"database", up}, {"redis", down}},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"error":"Not ready"}`,
		},
		{
			name:       "database down",
			deps:       []Dependency{{"database", down}, {"redis", up}},
			wantStatus: http.StatusServiceUnavailable,
			wantBody:   `{"error":"Not ready"}`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler(nil, tc.deps...)
			rec := httptest.NewRecorder()
			h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
			assert.Equal(t, tc.wantStatus, rec.Code)
			assert.JSONEq(t, tc.wantBody, rec.Body.String())
		})
	}
}

func TestHealthHandler_ReadyHonoursTimeout(t *testing.T) {
	t.Parallel()

	hang := pingFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	h := NewHealthHandler(nil, Dependency{Name: "redis", Pinger: hang})
	h.timeout = 10 * time.Millisecond

	rec := httptest.NewRecorder()
	h.Ready(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
