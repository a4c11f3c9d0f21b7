// Package textutil provides the name normalization shared by the classifier
// and the tag ingester. Artist credits arrive with inconsistent casing,
// stray whitespace, and featuring suffixes; comparisons must survive all of
// those.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
)

// NormalizeName case-folds a credited name and collapses internal whitespace
// so that "The Beatles ", "the beatles", and "THE  BEATLES" compare equal.
func NormalizeName(name string) string {
	folded := cases.Fold().String(name)
	return CollapseWhitespace(folded)
}

// CollapseWhitespace trims the string and replaces runs of whitespace with a
// single space.
func CollapseWhitespace(value string) string {
	var builder strings.Builder
	builder.Grow(len(value))
	prevSpace := false
	for _, r := range strings.TrimSpace(value) {
		if unicode.IsSpace(r) {
			if !prevSpace {
				builder.WriteByte(' ')
				prevSpace = true
			}
			continue
		}
		builder.WriteRune(r)
		prevSpace = false
	}
	return builder.String()
}

// StripFeaturing removes a trailing featuring credit ("feat. X", "ft. X")
// from an already normalized name. Track credits frequently append guests
// that would otherwise inflate artist diversity.
func StripFeaturing(name string) string {
	for _, marker := range []string{" feat. ", " feat ", " ft. ", " ft ", " featuring "} {
		if idx := strings.Index(name, marker); idx > 0 {
			return strings.TrimSpace(name[:idx])
		}
	}
	return name
}
