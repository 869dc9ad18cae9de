package api

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/shortlink-api/internal/service"
)

func TestMapErrorToStatusCode(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{"nil error", nil, http.StatusInternalServerError},
		{"not found", service.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("resolve: %w", service.ErrNotFound), http.StatusNotFound},
		{"conflict", service.ErrConflict, http.StatusConflict},
		{"invalid input", fmt.Errorf("%w: bad url", service.ErrInvalidInput), http.StatusBadRequest},
		{
			"dependency unavailable",
			&service.ServiceError{Operation: "resolve", Err: service.ErrDependencyUnavailable},
			http.StatusInternalServerError,
		},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedStatus, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	assert.Equal(t, "An unexpected error occurred", GetSafeErrorMessage(nil))
	assert.Equal(t, "URL not found", GetSafeErrorMessage(service.ErrNotFound))
	assert.Equal(t, "Short code already exists", GetSafeErrorMessage(service.ErrConflict))
	assert.Equal(t, "Invalid URL or short code", GetSafeErrorMessage(service.ErrInvalidInput))
	assert.Equal(t, "An unexpected error occurred",
		GetSafeErrorMessage(errors.New("pq: relation \"urls\" does not exist")))
}

func TestSanitizeValidationError(t *testing.T) {
	v := validator.New()

	err := v.Struct(struct {
		URL string `validate:"required,url"`
	}{URL: "nope"})
	assert.Equal(t, "Invalid URL: must be an absolute URL", SanitizeValidationError(err))

	err = v.Struct(struct {
		URL string `validate:"required"`
	}{})
	assert.Equal(t, "Invalid URL: required field", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(errors.New("something else")))
}
