// Package chroma provides syntax highlighting using the chroma library.
package chroma

import (
	"html"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/reviewboard/diffchunk"
)

// Compile-time interface verification.
var _ diffchunk.Highlighter = (*Highlighter)(nil)

// LexerSettings is the part of diffchunk.Settings the highlighter reads.
type LexerSettings interface {
	CustomLexer(ext string) (string, bool)
}

// Highlighter renders source as HTML spans using chroma's short CSS class
// names ("k" for keywords, "s" for strings, and so on).
type Highlighter struct {
	settings LexerSettings
	logger   *slog.Logger
}

// NewHighlighter creates a chroma-based highlighter. Custom lexers from
// settings take precedence over lexers matched by filename.
func NewHighlighter(settings LexerSettings, logger *slog.Logger) *Highlighter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Highlighter{settings: settings, logger: logger}
}

// Highlight returns one markup line per line of text. It returns false if a
// configured custom lexer does not exist or tokenizing fails.
func (h *Highlighter) Highlight(text, filename string) ([]string, bool) {
	lexer, ok := h.lexer(filename)
	if !ok {
		return nil, false
	}

	// Coalesce for better performance with consecutive tokens of the same type
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, text)
	if err != nil {
		h.logger.Warn("tokenizing failed", "filename", filename, "error", err)
		return nil, false
	}

	want := strings.Count(text, "\n") + 1
	out := make([]string, 0, want)
	for _, line := range chroma.SplitTokensIntoLines(iterator.Tokens()) {
		if len(out) == want {
			break
		}
		var b strings.Builder
		for _, token := range line {
			writeToken(&b, token)
		}
		out = append(out, b.String())
	}
	// Trailing empty lines produce no tokens.
	for len(out) < want {
		out = append(out, "")
	}
	return out, true
}

func (h *Highlighter) lexer(filename string) (chroma.Lexer, bool) {
	if h.settings != nil {
		if name, ok := h.settings.CustomLexer(filepath.Ext(filename)); ok {
			lexer := lexers.Get(name)
			if lexer == nil {
				h.logger.Warn("unknown custom lexer", "filename", filename, "lexer", name)
				return nil, false
			}
			return lexer, true
		}
	}
	if lexer := lexers.Match(filepath.Base(filename)); lexer != nil {
		return lexer, true
	}
	return lexers.Fallback, true
}

func writeToken(b *strings.Builder, token chroma.Token) {
	value := strings.TrimSuffix(token.Value, "\n")
	if value == "" {
		return
	}
	escaped := html.EscapeString(value)
	class := tokenClass(token.Type)
	if class == "" {
		b.WriteString(escaped)
		return
	}
	b.WriteString(`<span class="`)
	b.WriteString(class)
	b.WriteString(`">`)
	b.WriteString(escaped)
	b.WriteString(`</span>`)
}

// tokenClass returns the CSS class for a chroma token type. Plain text and
// whitespace are left unwrapped so indentation markers can find them.
func tokenClass(tt chroma.TokenType) string {
	switch tt {
	case chroma.Text, chroma.TextWhitespace, chroma.Background:
		return ""
	}
	if class, ok := chroma.StandardTypes[tt]; ok {
		return class
	}
	// Unlisted subtypes fall back to their category.
	return chroma.StandardTypes[tt.SubCategory()]
}
