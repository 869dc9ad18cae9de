package domain

import (
	"fmt"
	"net/url"
	"time"
)

// MaxShortCodeLength matches the width of the short_code column.
const MaxShortCodeLength = 10

// ShortURL maps a short code to the URL it redirects to.
// The short code is immutable once assigned; only Clicks changes afterwards.
type ShortURL struct {
	ShortCode   string    `json:"short_code"`
	OriginalURL string    `json:"original_url"`
	CreatedAt   time.Time `json:"created_at"`
	Clicks      int64     `json:"clicks"`
}

// NewShortURL creates a ShortURL with a zero click count.
// Returns an error if validation fails.
func NewShortURL(shortCode, originalURL string) (*ShortURL, error) {
	s := &ShortURL{
		ShortCode:   shortCode,
		OriginalURL: originalURL,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks if the ShortURL has valid data.
func (s *ShortURL) Validate() error {
	if err := ValidateShortCode(s.ShortCode); err != nil {
		return err
	}

	return ValidateURL(s.OriginalURL)
}

// ValidateShortCode checks the length constraints of a short code.
func ValidateShortCode(code string) error {
	if code == "" {
		return ErrEmptyShortCode
	}
	if len(code) > MaxShortCodeLength {
		return fmt.Errorf("%w: %d characters (max %d)", ErrShortCodeTooLong, len(code), MaxShortCodeLength)
	}
	return nil
}

// ValidateURL checks that raw is an absolute http or https URL with a host.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%w: unsupported scheme %q", ErrInvalidURL, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: missing host", ErrInvalidURL)
	}
	return nil
}

// URLStats is the read model served by the stats endpoint.
//
// Clicks only counts redirects that missed the redirect cache; reads served
// from the cache are not reflected until a later miss.
type URLStats struct {
	ShortCode   string      `json:"short_code"`
	OriginalURL string      `json:"original_url"`
	Clicks      int64       `json:"clicks"`
	CreatedAt   time.Time   `json:"created_at"`
	Jobs        []JobResult `json:"jobs"`
}
