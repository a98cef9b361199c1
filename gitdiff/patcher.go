// Package gitdiff parses and applies unified diffs using go-gitdiff.
package gitdiff

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/bluekeyes/go-gitdiff/gitdiff"
	"github.com/reviewboard/diffchunk"
)

// Compile-time interface verification.
var _ diffchunk.Patcher = (*Patcher)(nil)

// ErrNotSingleFile is returned by Apply when a FilePatch does not hold
// exactly one file.
var ErrNotSingleFile = errors.New("patch must touch exactly one file")

const devNull = "/dev/null"

// Patcher implements diffchunk.Patcher. Binary files are skipped because
// they have no lines to diff.
type Patcher struct {
	logger *slog.Logger
}

// NewPatcher creates a Patcher. A nil logger discards output.
func NewPatcher(logger *slog.Logger) *Patcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Patcher{logger: logger}
}

// Parse splits a multi-file patch into per-file patches whose Raw text is a
// self-contained unified diff.
func (p *Patcher) Parse(r io.Reader) ([]diffchunk.FilePatch, error) {
	files, _, err := gitdiff.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing patch: %w", err)
	}

	patches := make([]diffchunk.FilePatch, 0, len(files))
	for _, f := range files {
		if f.IsBinary {
			p.logger.Debug("skipping binary file", "old", f.OldName, "new", f.NewName)
			continue
		}
		fp := diffchunk.FilePatch{
			IsNew:    f.IsNew,
			IsDelete: f.IsDelete,
			Raw:      render(f),
		}
		if !f.IsNew {
			fp.OldPath = f.OldName
		}
		if !f.IsDelete {
			fp.NewPath = f.NewName
		}
		patches = append(patches, fp)
	}
	return patches, nil
}

// Apply applies fp to base and returns the post-image.
func (p *Patcher) Apply(base []byte, fp diffchunk.FilePatch) ([]byte, error) {
	files, _, err := gitdiff.Parse(bytes.NewReader(fp.Raw))
	if err != nil {
		return nil, fmt.Errorf("parsing patch for %s: %w", fp.Path(), err)
	}
	if len(files) != 1 {
		return nil, fmt.Errorf("%s: %w (got %d)", fp.Path(), ErrNotSingleFile, len(files))
	}

	var out bytes.Buffer
	if err := gitdiff.Apply(&out, bytes.NewReader(base), files[0]); err != nil {
		return nil, fmt.Errorf("applying patch to %s: %w", fp.Path(), err)
	}
	return out.Bytes(), nil
}

// render writes the file headers and text fragments of f as a unified
// diff.
func render(f *gitdiff.File) []byte {
	var b strings.Builder

	oldName, newName := "a/"+f.OldName, "b/"+f.NewName
	if f.IsNew {
		oldName = devNull
	}
	if f.IsDelete {
		newName = devNull
	}
	fmt.Fprintf(&b, "--- %s\n+++ %s\n", oldName, newName)

	for _, frag := range f.TextFragments {
		fmt.Fprintf(&b, "@@ -%d,%d +%d,%d @@\n", frag.OldPosition, frag.OldLines, frag.NewPosition, frag.NewLines)
		for _, line := range frag.Lines {
			b.WriteString(line.Op.String())
			b.WriteString(line.Line)
			if !strings.HasSuffix(line.Line, "\n") {
				b.WriteString("\n\\ No newline at end of file\n")
			}
		}
	}
	return []byte(b.String())
}
