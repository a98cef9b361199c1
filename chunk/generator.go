// Package chunk turns two versions of a file into renderer-ready chunks.
//
// The Generator decodes and splits both sides, aligns them with the
// myers differ, narrows the result to the hunks of an interdiff when one is
// given, and then annotates every row with highlighting, intraline regions,
// indentation markers, move information and code safety findings.
package chunk

import (
	"fmt"
	"html"
	"log/slog"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/reviewboard/diffchunk"
	"github.com/reviewboard/diffchunk/interdiff"
	"github.com/reviewboard/diffchunk/lines"
	"github.com/reviewboard/diffchunk/myers"
)

// Option configures a Generator.
type Option func(*Generator)

// WithHighlighter sets the syntax highlighter. Without one, text is only
// HTML-escaped.
func WithHighlighter(h diffchunk.Highlighter) Option {
	return func(g *Generator) { g.highlighter = h }
}

// WithCodeSafety sets the checker run on every row.
func WithCodeSafety(c diffchunk.CodeSafetyChecker) Option {
	return func(g *Generator) { g.safety = c }
}

// WithLogger sets the logger for degraded operation, such as highlighting
// failures.
func WithLogger(l *slog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithValidation makes the generator check the opcode stream and panic if
// it is malformed.
func WithValidation(enabled bool) Option {
	return func(g *Generator) { g.validate = enabled }
}

// WithHeaderPatterns overrides the header patterns used to find
// interesting lines.
func WithHeaderPatterns(patterns []myers.HeaderPattern) Option {
	return func(g *Generator) { g.headerPatterns = patterns }
}

// Generator produces chunks. It holds no per-diff state and may be reused.
type Generator struct {
	settings       diffchunk.Settings
	highlighter    diffchunk.Highlighter
	safety         diffchunk.CodeSafetyChecker
	logger         *slog.Logger
	validate       bool
	headerPatterns []myers.HeaderPattern
}

// NewGenerator returns a Generator using settings.
func NewGenerator(settings diffchunk.Settings, opts ...Option) *Generator {
	g := &Generator{
		settings:       settings,
		logger:         slog.New(slog.DiscardHandler),
		headerPatterns: myers.DefaultHeaderPatterns,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Interdiff holds the unified diffs whose post-images are being compared.
type Interdiff struct {
	OrigDiff []byte // diff that produced the old side
	NewDiff  []byte // diff that produced the new side
}

// Request describes one file to diff.
type Request struct {
	Old, New         []byte
	OldEncodings     []string // tried in order; lines.DefaultEncodings if empty
	NewEncodings     []string
	OrigFilename     string
	ModifiedFilename string
	Interdiff        *Interdiff // nil for a plain diff
}

// Input is a Request whose sides are already decoded and split.
type Input struct {
	OldLines         []string
	NewLines         []string
	OrigFilename     string
	ModifiedFilename string
	Interdiff        *Interdiff
}

// Generate decodes both sides of req and prepares their chunks. It fails
// only when a side cannot be decoded, with an error wrapping
// diffchunk.ErrUndecodable.
func (g *Generator) Generate(req Request) (*Result, error) {
	oldText, _, err := lines.Decode(req.Old, req.OldEncodings)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", req.OrigFilename, err)
	}
	newText, _, err := lines.Decode(req.New, req.NewEncodings)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", req.ModifiedFilename, err)
	}
	return g.GenerateLines(Input{
		OldLines:         lines.Split(oldText),
		NewLines:         lines.Split(newText),
		OrigFilename:     req.OrigFilename,
		ModifiedFilename: req.ModifiedFilename,
		Interdiff:        req.Interdiff,
	}), nil
}

// GenerateLines prepares the chunks for in. Alignment, filtering, move
// detection and highlighting happen here; rows are built as the chunks are
// iterated.
func (g *Generator) GenerateLines(in Input) *Result {
	a, b := in.OldLines, in.NewLines

	var opts []myers.Option
	if g.settings.IgnoreSpace() && !matchesAny(g.settings.IncludeSpacePatterns(), in.ModifiedFilename) {
		opts = append(opts, myers.WithIgnoreSpace())
	}
	opts = append(opts, myers.WithHeaderPatterns(g.headerPatterns))
	differ := myers.New(a, b, opts...)
	differ.AddInterestingLinesForHeaders(in.ModifiedFilename)

	ops := differ.All()
	if in.Interdiff != nil {
		ops = interdiff.Filter(ops, in.Interdiff.OrigDiff, in.Interdiff.NewDiff, g.logger)
	}
	opcodes := slices.Collect(ops)
	if g.validate {
		if err := diffchunk.ValidateOpcodes(opcodes, len(a), len(b)); err != nil {
			panic(err)
		}
	}

	metas := annotate(opcodes, a, b)
	if in.Interdiff != nil {
		metas = slices.Collect(interdiff.Collapse(slices.Values(metas)))
	}

	r := &Result{
		differ: differ,
		counts: make(map[diffchunk.Tag]int),
		safety: make(diffchunk.CodeSafetyReport),
	}
	r.chunks = (&transducer{
		gen:       g,
		a:         a,
		b:         b,
		oldMarkup: g.highlight(a, in.OrigFilename),
		newMarkup: g.highlight(b, in.ModifiedFilename),
		opcodes:   metas,
		moves:     findMoves(metas, a, b),
		left:      headerCursor{lines: differ.InterestingLines(myers.HeaderCategory, false)},
		right:     headerCursor{lines: differ.InterestingLines(myers.HeaderCategory, true)},
		result:    r,
	}).chunks
	return r
}

// highlight renders every line of one side as markup.
func (g *Generator) highlight(src []string, filename string) []string {
	if g.shouldHighlight(len(src), filename) {
		markup, ok := g.highlighter.Highlight(strings.Join(src, "\n"), filename)
		switch {
		case !ok:
			g.logger.Warn("highlighting failed, showing plain text", "filename", filename)
		case len(markup) != len(src):
			g.logger.Warn("highlighter returned wrong number of lines",
				"filename", filename, "want", len(src), "got", len(markup))
		default:
			return markup
		}
	}
	out := make([]string, len(src))
	for i, line := range src {
		out[i] = html.EscapeString(line)
	}
	return out
}

func (g *Generator) shouldHighlight(numLines int, filename string) bool {
	if g.highlighter == nil || !g.settings.SyntaxHighlighting() {
		return false
	}
	if limit := g.settings.SyntaxHighlightingThreshold(); limit > 0 && numLines > limit {
		return false
	}
	ext := strings.ToLower(filepath.Ext(filename))
	for _, blocked := range g.settings.HighlightBlacklist() {
		if strings.EqualFold(blocked, ext) {
			return false
		}
	}
	return true
}

func matchesAny(globs []string, filename string) bool {
	base := path.Base(filename)
	for _, g := range globs {
		if ok, _ := path.Match(g, base); ok {
			return true
		}
		if ok, _ := path.Match(g, filename); ok {
			return true
		}
	}
	return false
}
