package richtext

import (
	"strings"
	"testing"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello world", "hello world"},
		{"tags stripped", "<p>hello <strong>world</strong></p>", "hello world"},
		{"entities decoded", "fish &amp; chips", "fish & chips"},
		{"surrounding space trimmed", "  <p> padded </p>  ", "padded"},
		{"empty markup", "<p></p>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PlainText(tt.in); got != tt.want {
				t.Errorf("PlainText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWithinLimit(t *testing.T) {
	long := "<p>" + strings.Repeat("a", 301) + "</p>"
	if WithinLimit(long, 300) {
		t.Error("301 visible characters should exceed a 300 limit")
	}

	exact := strings.Repeat("b", 300)
	if !WithinLimit("<em>"+exact+"</em>", 300) {
		t.Error("300 visible characters should fit a 300 limit")
	}

	// Markup does not count against the limit.
	markupHeavy := "<p><strong><em>" + strings.Repeat("c", 299) + "</em></strong></p>"
	if !WithinLimit(markupHeavy, 300) {
		t.Error("markup should not count toward the limit")
	}
}

func TestPlainLengthCountsRunes(t *testing.T) {
	if got := PlainLength("<p>héllo</p>"); got != 5 {
		t.Errorf("PlainLength = %d, want 5", got)
	}
}
