// Package render provides text layout helpers for the terminal UI.
package render

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// Clean drops control characters and invalid UTF-8 from tag text and
// turns non-breaking spaces into plain spaces.
func Clean(s string) string {
	if !dirty(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		switch {
		case r == utf8.RuneError && size <= 1:
		case r == '\u00a0':
			b.WriteByte(' ')
		case r != '\t' && unicode.IsControl(r):
		default:
			b.WriteString(s[i : i+size])
		}
		i += size
	}
	return b.String()
}

func dirty(s string) bool {
	if !utf8.ValidString(s) {
		return true
	}
	for _, r := range s {
		if r == '\u00a0' || r != '\t' && unicode.IsControl(r) {
			return true
		}
	}
	return false
}

// Fit cleans s and cuts it to width cells, ending with "…" when cut.
// Styled input keeps its escape sequences.
func Fit(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(Clean(s), width, "…")
}

// FitPad is Fit followed by right padding to exactly width cells.
func FitPad(s string, width int) string {
	return Pad(Fit(s, width), width)
}

// Pad right-fills s with spaces up to width cells.
func Pad(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}

// PadPlain pads unstyled text using East Asian width rules.
func PadPlain(s string, width int) string {
	return runewidth.FillRight(s, width)
}

// Spread places left and right at the edges of a width-cell line with at
// least one space between them.
func Spread(left, right string, width int) string {
	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// Rule is a horizontal line of width cells.
func Rule(width int) string {
	return strings.Repeat("─", max(width, 0))
}
