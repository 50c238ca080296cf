// Package slugx derives URL-safe slugs from display names.
package slugx

import (
	"strings"
	"unicode"
)

// Make converts a display name into a slug: lowercase, punctuation stripped,
// runs of whitespace joined with single hyphens.
//
// Example:
//
//	Make("Milano Slim Fit Jeans") // "milano-slim-fit-jeans"
func Make(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_':
			b.WriteRune(r)
			lastHyphen = false
		case unicode.IsSpace(r) || r == '-':
			if !lastHyphen {
				b.WriteRune('-')
				lastHyphen = true
			}
		default:
			// punctuation is dropped entirely
		}
	}

	return strings.TrimSuffix(b.String(), "-")
}

// WithSuffix appends a numeric or timestamp suffix to a base slug.
func WithSuffix(base string, suffix string) string {
	return base + "-" + suffix
}
