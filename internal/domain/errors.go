// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrEmptyShortCode is returned when a short code is missing.
	ErrEmptyShortCode = fmt.Errorf("%w: short code cannot be empty", ErrValidation)

	// ErrShortCodeTooLong is returned when a short code exceeds MaxShortCodeLength.
	ErrShortCodeTooLong = fmt.Errorf("%w: short code is too long", ErrValidation)

	// ErrInvalidURL is returned when an original URL is not an absolute http(s) URL.
	ErrInvalidURL = fmt.Errorf("%w: invalid URL", ErrValidation)

	// ErrInvalidJobType is returned when a job type is outside the closed set.
	ErrInvalidJobType = fmt.Errorf("%w: invalid job type", ErrValidation)

	// ErrInvalidJobStatus is returned when a job status is not terminal.
	ErrInvalidJobStatus = fmt.Errorf("%w: invalid job status", ErrValidation)

	// ErrInvalidEventType is returned when an analytics event type is unknown.
	ErrInvalidEventType = fmt.Errorf("%w: invalid event type", ErrValidation)
)
