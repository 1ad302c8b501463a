// Package render provides text rendering utilities for TUI components.
package render

import (
	"strings"
	"unicode"

	"github.com/mattn/go-runewidth"
)

// Sanitize drops control characters that break terminal rendering. Tag
// metadata is not trusted.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '\u00a0':
			return ' '
		case r == unicode.ReplacementChar, unicode.IsControl(r):
			return -1
		default:
			return r
		}
	}, s)
}

// Truncate cuts s to maxWidth terminal cells.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	return runewidth.Truncate(Sanitize(s), maxWidth, "…")
}

// Pad right-pads s with spaces to width cells.
func Pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// TruncateAndPad fits s exactly into width cells.
func TruncateAndPad(s string, width int) string {
	return Pad(Truncate(s, width), width)
}

// Row places left and right on one line of width cells, truncating left.
func Row(left, right string, width int) string {
	rw := runewidth.StringWidth(right)
	return TruncateAndPad(left, width-rw) + right
}

// Separator renders a horizontal rule.
func Separator(width int) string {
	return strings.Repeat("─", max(width, 0))
}
