package domain

import (
	"errors"
	"strings"
	"testing"
)

func TestNewShortURL(t *testing.T) {
	t.Parallel()

	s, err := NewShortURL("abc123", "https://example.com/page")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if s.ShortCode != "abc123" {
		t.Errorf("Expected short code abc123, got %s", s.ShortCode)
	}
	if s.OriginalURL != "https://example.com/page" {
		t.Errorf("Expected original URL to be kept, got %s", s.OriginalURL)
	}
	if s.Clicks != 0 {
		t.Errorf("Expected zero clicks, got %d", s.Clicks)
	}
	if s.CreatedAt.IsZero() {
		t.Error("Expected non-zero CreatedAt time")
	}
}

func TestShortURLValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		code    string
		url     string
		wantErr error
	}{
		{"valid https", "abc123", "https://example.com", nil},
		{"valid http with path", "x", "http://example.com/a?b=c", nil},
		{"empty code", "", "https://example.com", ErrEmptyShortCode},
		{"code too long", strings.Repeat("a", MaxShortCodeLength+1), "https://example.com", ErrShortCodeTooLong},
		{"ftp scheme", "abc", "ftp://example.com", ErrInvalidURL},
		{"relative url", "abc", "/just/a/path", ErrInvalidURL},
		{"missing host", "abc", "https://", ErrInvalidURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := ShortURL{ShortCode: tt.code, OriginalURL: tt.url}
			err := s.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected error %v, got %v", tt.wantErr, err)
			}
		})
	}
}
