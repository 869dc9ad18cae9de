// Package shortcode derives compact identifiers for shortened URLs.
package shortcode

import (
	"crypto/md5" //nolint:gosec // used as a content fingerprint, not for security
	"encoding/hex"
)

// Length is the number of characters in a derived short code.
const Length = 6

// Generate derives a deterministic short code from a content hash of rawURL.
// Distinct URLs may collide; callers surface the collision as a conflict.
func Generate(rawURL string) string {
	sum := md5.Sum([]byte(rawURL)) //nolint:gosec
	return hex.EncodeToString(sum[:])[:Length]
}

// Resolve returns custom verbatim when it is set, otherwise the derived code.
func Resolve(rawURL, custom string) string {
	if custom != "" {
		return custom
	}
	return Generate(rawURL)
}
