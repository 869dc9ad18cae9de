package service

import (
	"errors"
	"fmt"

	"github.com/phrazzld/shortlink-api/internal/domain"
	"github.com/phrazzld/shortlink-api/internal/store"
)

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in ServiceError
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrInvalidInput indicates the URL or custom code was rejected.
	// API layer should map this to HTTP 400 Bad Request.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConflict indicates the short code is already registered.
	// API layer should map this to HTTP 409 Conflict.
	ErrConflict = errors.New("short code already exists")

	// ErrNotFound indicates no URL is registered under the short code.
	// API layer should map this to HTTP 404 Not Found.
	ErrNotFound = errors.New("URL not found")

	// ErrDependencyUnavailable indicates a backing service (cache, queue,
	// registry) failed. API layer should map this to HTTP 500.
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// ServiceError wraps errors from the shortener service with context.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "shorten", "resolve")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("shortener %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("shortener %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError.
// It returns known sentinel errors directly without wrapping, translating
// store and domain sentinels into their service equivalents.
func NewServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, ErrInvalidInput),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrNotFound):
		return err
	case errors.Is(err, store.ErrShortCodeExists):
		return ErrConflict
	case errors.Is(err, store.ErrShortURLNotFound):
		return ErrNotFound
	case errors.Is(err, domain.ErrValidation):
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// dependencyError marks err as a backing-service failure.
func dependencyError(operation, message string, err error) error {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       fmt.Errorf("%w: %w", ErrDependencyUnavailable, err),
	}
}
