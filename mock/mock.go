// Package mock provides test doubles for the diffchunk interfaces.
package mock

import (
	"context"
	"io"

	"github.com/reviewboard/diffchunk"
)

var (
	_ diffchunk.Highlighter       = (*Highlighter)(nil)
	_ diffchunk.CodeSafetyChecker = (*CodeSafetyChecker)(nil)
	_ diffchunk.ChunkWriter       = (*ChunkWriter)(nil)
	_ diffchunk.Patcher           = (*Patcher)(nil)
)

// Highlighter is a mock implementation of diffchunk.Highlighter.
type Highlighter struct {
	HighlightFn func(text, filename string) ([]string, bool)
}

func (h *Highlighter) Highlight(text, filename string) ([]string, bool) {
	return h.HighlightFn(text, filename)
}

// CodeSafetyChecker is a mock implementation of diffchunk.CodeSafetyChecker.
type CodeSafetyChecker struct {
	CheckFn func(origLine, modifiedLine string) []diffchunk.CodeSafetyFinding
}

func (c *CodeSafetyChecker) Check(origLine, modifiedLine string) []diffchunk.CodeSafetyFinding {
	return c.CheckFn(origLine, modifiedLine)
}

// ChunkWriter is a mock implementation of diffchunk.ChunkWriter.
type ChunkWriter struct {
	WriteFileFn func(ctx context.Context, f *diffchunk.FileDiff) error
}

func (w *ChunkWriter) WriteFile(ctx context.Context, f *diffchunk.FileDiff) error {
	return w.WriteFileFn(ctx, f)
}

// Patcher is a mock implementation of diffchunk.Patcher.
type Patcher struct {
	ParseFn func(r io.Reader) ([]diffchunk.FilePatch, error)
	ApplyFn func(base []byte, p diffchunk.FilePatch) ([]byte, error)
}

func (p *Patcher) Parse(r io.Reader) ([]diffchunk.FilePatch, error) {
	return p.ParseFn(r)
}

func (p *Patcher) Apply(base []byte, fp diffchunk.FilePatch) ([]byte, error) {
	return p.ApplyFn(base, fp)
}
