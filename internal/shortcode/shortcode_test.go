package shortcode

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerate_Deterministic(t *testing.T) {
	t.Parallel()

	first := Generate("https://example.com/page")
	second := Generate("https://example.com/page")

	assert.Equal(t, first, second)
	assert.Len(t, first, Length)
	assert.Regexp(t, "^[0-9a-f]{6}$", first)
}

func TestGenerate_KnownDigest(t *testing.T) {
	t.Parallel()

	// md5("") = d41d8cd98f00b204e9800998ecf8427e
	assert.Equal(t, "d41d8c", Generate(""))
}

func TestGenerate_DistinctURLs(t *testing.T) {
	t.Parallel()

	assert.NotEqual(t, Generate("https://example.com/a"), Generate("https://example.com/b"))
}

func TestResolve(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		url    string
		custom string
		want   string
	}{
		{"custom code wins", "https://example.com", "promo", "promo"},
		{"derived when empty", "https://example.com", "", Generate("https://example.com")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.url, tt.custom))
		})
	}
}
