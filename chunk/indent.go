package chunk

import (
	"strings"
	"unicode"

	"github.com/reviewboard/diffchunk"
)

// TabSize is the tab stop width used to compare indentation.
const TabSize = 8

// indentationChange reports whether newLine differs from oldLine only by
// added or removed leading whitespace.
func indentationChange(oldLine, newLine string) (diffchunk.IndentationChange, bool) {
	if oldLine == newLine {
		return diffchunk.IndentationChange{}, false
	}
	oldBody := strings.TrimLeftFunc(oldLine, unicode.IsSpace)
	newBody := strings.TrimLeftFunc(newLine, unicode.IsSpace)
	if oldBody == "" || oldBody != newBody {
		return diffchunk.IndentationChange{}, false
	}

	oldIndent := oldLine[:len(oldLine)-len(oldBody)]
	newIndent := newLine[:len(newLine)-len(newBody)]
	oldWidth := expandedWidth(oldIndent)
	newWidth := expandedWidth(newIndent)
	if oldWidth == newWidth {
		return diffchunk.IndentationChange{}, false
	}

	indent := newWidth > oldWidth
	raw := len(oldIndent)
	if indent {
		raw = len(newIndent)
	}
	// Whitespace shared at the end of both prefixes is not part of the
	// change.
	raw -= commonSuffix(oldIndent, newIndent)

	return diffchunk.IndentationChange{
		Indent:  indent,
		RawLen:  raw,
		NormLen: abs(newWidth - oldWidth),
	}, true
}

// expandedWidth returns the column reached by s with tabs expanded.
func expandedWidth(s string) int {
	col := 0
	for _, r := range s {
		if r == '\t' {
			col += TabSize - col%TabSize
			continue
		}
		col++
	}
	return col
}

func commonSuffix(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	return n
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

// markIndentation wraps the first rawLen whitespace characters of markup in
// an indent or unindent span. Leading tags, such as a highlighter's opening
// span, are skipped. Markup that does not start with rawLen whitespace
// characters is returned unchanged.
func markIndentation(markup string, change diffchunk.IndentationChange) string {
	start := 0
	for start < len(markup) && markup[start] == '<' {
		end := strings.IndexByte(markup[start:], '>')
		if end < 0 {
			return markup
		}
		start += end + 1
	}
	end := start + change.RawLen
	if end > len(markup) || strings.TrimSpace(markup[start:end]) != "" {
		return markup
	}

	class, marked, rest := "unindent", "", ""
	if change.Indent {
		class = "indent"
		marked, rest = serializeIndent(markup[start:end], change.NormLen)
	} else {
		marked, rest = serializeUnindent(markup[start:end], change.NormLen)
	}
	return markup[:start] + `<span class="` + class + `">` + marked + `</span>` + rest + markup[end:]
}

// serializeIndent renders one "&gt;" per space and an arrow of dashes per
// tab, up to width columns. It returns the markers and the characters left
// over.
func serializeIndent(chars string, width int) (string, string) {
	return serializeWhitespace(chars, width, func(b *strings.Builder, span int) {
		b.WriteString(strings.Repeat("&mdash;", span-1))
		b.WriteString("&gt;")
	}, "&gt;")
}

// serializeUnindent mirrors serializeIndent with arrows pointing left.
func serializeUnindent(chars string, width int) (string, string) {
	return serializeWhitespace(chars, width, func(b *strings.Builder, span int) {
		b.WriteString("&lt;")
		b.WriteString(strings.Repeat("&mdash;", span-1))
	}, "&lt;")
}

func serializeWhitespace(chars string, width int, tab func(*strings.Builder, int), space string) (string, string) {
	var b strings.Builder
	col := 0
	for i := 0; i < len(chars); i++ {
		switch chars[i] {
		case '\t':
			span := TabSize - col%TabSize
			tab(&b, span)
			col += span
		default:
			b.WriteString(space)
			col++
		}
		if col >= width {
			return b.String(), chars[i+1:]
		}
	}
	return b.String(), ""
}
