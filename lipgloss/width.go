package lipgloss

import (
	"html"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// tabWidth is the standard terminal tab stop interval.
const tabWidth = 8

// DisplayWidth calculates the display width of a string, correctly handling
// tab characters which expand to the next 8-column boundary.
// This fixes the issue where lipgloss.Width returns 0 for tabs.
func DisplayWidth(s string) int {
	col := 0
	for _, r := range s {
		col = advance(col, r)
	}
	return col
}

func advance(col int, r rune) int {
	if r == '\t' {
		// Tab advances to next tab stop (multiple of tabWidth)
		return ((col / tabWidth) + 1) * tabWidth
	}
	return col + lipgloss.Width(string(r))
}

// PlainText turns row markup back into the source text it was built from.
func PlainText(markup string) string {
	var b strings.Builder
	for {
		open := strings.IndexByte(markup, '<')
		if open < 0 {
			b.WriteString(markup)
			break
		}
		b.WriteString(markup[:open])
		end := strings.IndexByte(markup[open:], '>')
		if end < 0 {
			b.WriteString(markup[open:])
			break
		}
		markup = markup[open+end+1:]
	}
	return html.UnescapeString(b.String())
}

// fit expands tabs in s and pads or truncates the result to width columns.
func fit(s string, width int) string {
	var b strings.Builder
	col := 0
	for _, r := range s {
		next := advance(col, r)
		if next > width {
			break
		}
		if r == '\t' {
			b.WriteString(strings.Repeat(" ", next-col))
		} else {
			b.WriteRune(r)
		}
		col = next
	}
	b.WriteString(strings.Repeat(" ", width-col))
	return b.String()
}
