// Package inventory implements the part-number search core: normalization,
// dataset loading, the tiered matcher, near-miss suggestions and reply
// formatting.
package inventory

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// isPartRune reports whether r can appear in a normalized part number:
// ASCII letters (already lowercased), digits, and Cyrillic, since source data
// and queries mix both scripts. Everything else (space, dash, underscore,
// slash, dots and the rest of the punctuation zoo) is a separator.
func isPartRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || unicode.Is(unicode.Cyrillic, r)
}

var stripSeparators = runes.Remove(runes.Predicate(func(r rune) bool {
	return !isPartRune(r)
}))

// Normalize canonicalizes a part number for comparison (never for display):
// lowercase fold, then drop every separator rune. Pure and idempotent, so it
// can be applied to stored rows and incoming queries independently and still
// agree. An input that normalizes to empty must never be used as a match
// target.
func Normalize(raw string) string {
	result, _, _ := transform.String(stripSeparators, strings.ToLower(raw))
	return result
}
