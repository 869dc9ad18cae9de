package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/shortlink-api/internal/domain"
	"github.com/phrazzld/shortlink-api/internal/store"
)

func TestNewServiceError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, NewServiceError("op", "msg", nil))
	assert.Same(t, ErrConflict, NewServiceError("shorten", "x", store.ErrShortCodeExists))
	assert.Same(t, ErrNotFound, NewServiceError("stats", "x", store.ErrShortURLNotFound))
	assert.ErrorIs(t, NewServiceError("shorten", "x", domain.ErrInvalidURL), ErrInvalidInput)

	cause := errors.New("boom")
	err := NewServiceError("resolve", "lookup failed", cause)
	var svcErr *ServiceError
	assert.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "resolve", svcErr.Operation)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "shortener resolve failed: lookup failed: boom", err.Error())
}

func TestDependencyError(t *testing.T) {
	t.Parallel()

	cause := errors.New("redis down")
	err := dependencyError("resolve", "cache read", cause)
	assert.ErrorIs(t, err, ErrDependencyUnavailable)
	assert.ErrorIs(t, err, cause)
}
