// Package richtext measures the plain-text length of rich-text editor
// output so the 300-character cap applies to what the reader sees, not to
// markup.
package richtext

import (
	"html"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var stripPolicy = bluemonday.StrictPolicy()

// PlainText strips all markup from s and decodes HTML entities.
func PlainText(s string) string {
	return strings.TrimSpace(html.UnescapeString(stripPolicy.Sanitize(s)))
}

// PlainLength counts the characters a reader would see in s.
func PlainLength(s string) int {
	return utf8.RuneCountInString(PlainText(s))
}

// WithinLimit reports whether the visible text of s fits in max characters.
func WithinLimit(s string, max int) bool {
	return PlainLength(s) <= max
}
