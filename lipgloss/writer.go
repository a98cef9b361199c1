// Package lipgloss renders file diffs as a side-by-side terminal preview.
package lipgloss

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/reviewboard/diffchunk"
)

// Compile-time interface verification.
var _ diffchunk.ChunkWriter = (*Writer)(nil)

// DefaultColumnWidth is the width of each side of the preview.
const DefaultColumnWidth = 60

// Writer prints chunks side by side. Collapsable chunks are folded into a
// single line naming the nearest header.
type Writer struct {
	mu     sync.Mutex
	w      io.Writer
	width  int
	styles styles
}

type styles struct {
	file, fold, lineNo, summary lipgloss.Style
	change                      map[diffchunk.Tag]lipgloss.Style
	moved, whitespace, warning  lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		file:    r.NewStyle().Bold(true),
		fold:    r.NewStyle().Faint(true),
		lineNo:  r.NewStyle().Foreground(lipgloss.Color("8")),
		summary: r.NewStyle().Italic(true),
		change: map[diffchunk.Tag]lipgloss.Style{
			diffchunk.TagEqual:   r.NewStyle(),
			diffchunk.TagDelete:  r.NewStyle().Foreground(lipgloss.Color("#e06c75")),
			diffchunk.TagInsert:  r.NewStyle().Foreground(lipgloss.Color("#98c379")),
			diffchunk.TagReplace: r.NewStyle().Foreground(lipgloss.Color("#e5c07b")),
		},
		moved:      r.NewStyle().Foreground(lipgloss.Color("#56b6c2")),
		whitespace: r.NewStyle().Faint(true),
		warning:    r.NewStyle().Foreground(lipgloss.Color("#d19a66")).Bold(true),
	}
}

// NewWriter creates a Writer printing to w. A nil renderer detects the
// color support of w. Widths below 1 use DefaultColumnWidth.
func NewWriter(w io.Writer, renderer *lipgloss.Renderer, width int) *Writer {
	if renderer == nil {
		renderer = lipgloss.NewRenderer(w)
	}
	if width < 1 {
		width = DefaultColumnWidth
	}
	return &Writer{w: w, width: width, styles: newStyles(renderer)}
}

var markers = map[diffchunk.Tag]string{
	diffchunk.TagEqual:   " ",
	diffchunk.TagDelete:  "-",
	diffchunk.TagInsert:  "+",
	diffchunk.TagReplace: "~",
}

// WriteFile prints one file.
func (w *Writer) WriteFile(ctx context.Context, f *diffchunk.FileDiff) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	var b strings.Builder
	b.WriteString(w.styles.file.Render("--- " + f.OrigFilename))
	b.WriteByte('\n')
	b.WriteString(w.styles.file.Render("+++ " + f.ModifiedFilename))
	b.WriteByte('\n')

	for _, c := range f.Chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.Collapsable {
			b.WriteString(w.fold(c))
			b.WriteByte('\n')
			continue
		}
		for _, row := range c.Lines {
			b.WriteString(w.row(c.Change, row))
			b.WriteByte('\n')
		}
	}
	b.WriteString(w.styles.summary.Render(summary(f)))
	b.WriteByte('\n')

	if _, err := io.WriteString(w.w, b.String()); err != nil {
		return fmt.Errorf("writing preview of %s: %w", f.ModifiedFilename, err)
	}
	return nil
}

func (w *Writer) fold(c diffchunk.Chunk) string {
	text := fmt.Sprintf("⋯ %d unchanged lines", c.NumLines())
	if h := c.Meta.RightHeaders; len(h) > 0 {
		text += " in " + h[len(h)-1].Text
	} else if h := c.Meta.LeftHeaders; len(h) > 0 {
		text += " in " + h[len(h)-1].Text
	}
	return w.styles.fold.Render(text)
}

func (w *Writer) row(change diffchunk.Tag, row diffchunk.Row) string {
	style := w.styles.change[change]
	if row.WhitespaceOnly {
		style = w.styles.whitespace
	}

	line := fmt.Sprintf("%s %s │ %s %s %s",
		w.styles.lineNo.Render(lineNo(row.OldLine)),
		style.Render(fit(PlainText(row.OldText), w.width)),
		w.styles.lineNo.Render(lineNo(row.NewLine)),
		style.Render(markers[change]),
		style.Render(fit(PlainText(row.NewText), w.width)),
	)
	if note := moveNote(row.Moved); note != "" {
		line += " " + w.styles.moved.Render(note)
	}
	for _, finding := range row.CodeSafety {
		ids := append(append([]string(nil), finding.Result.Errors...), finding.Result.Warnings...)
		line += " " + w.styles.warning.Render(fmt.Sprintf("⚠ %s: %s", finding.CheckerID, strings.Join(ids, ",")))
	}
	return strings.TrimRight(line, " ")
}

func lineNo(n int) string {
	if n == 0 {
		return "    "
	}
	return fmt.Sprintf("%4d", n)
}

func moveNote(m *diffchunk.Moved) string {
	switch {
	case m == nil:
		return ""
	case m.To != nil && m.To.First:
		return fmt.Sprintf("moved to %d", m.To.Line)
	case m.From != nil && m.From.First:
		return fmt.Sprintf("moved from %d", m.From.Line)
	}
	return ""
}

func summary(f *diffchunk.FileDiff) string {
	var parts []string
	for _, tag := range []diffchunk.Tag{diffchunk.TagInsert, diffchunk.TagDelete, diffchunk.TagReplace, diffchunk.TagEqual} {
		if n := f.Counts[tag]; n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, tag))
		}
	}
	if len(parts) == 0 {
		return "no lines"
	}
	return strings.Join(parts, ", ")
}
