// Package jsonl writes file diffs as JSON Lines.
package jsonl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/reviewboard/diffchunk"
)

// Compile-time interface verification.
var _ diffchunk.ChunkWriter = (*Writer)(nil)

// Record types.
const (
	TypeChunk = "chunk"
	TypeFile  = "file"
)

// ChunkRecord is one line of output per chunk.
type ChunkRecord struct {
	Type  string          `json:"type"`
	File  string          `json:"file"`
	Chunk diffchunk.Chunk `json:"chunk"`
}

// FileRecord follows the chunks of a file and summarizes them.
type FileRecord struct {
	Type             string                     `json:"type"`
	OrigFilename     string                     `json:"orig_filename"`
	ModifiedFilename string                     `json:"modified_filename"`
	Chunks           int                        `json:"chunks"`
	Counts           map[diffchunk.Tag]int      `json:"counts"`
	CodeSafety       diffchunk.CodeSafetyReport `json:"code_safety,omitempty"`
}

// Writer writes one JSON record per chunk followed by a file record. It is
// safe for concurrent use; the records of one file are never interleaved
// with another's.
type Writer struct {
	mu  sync.Mutex
	enc *json.Encoder
}

// NewWriter creates a Writer writing to w.
func NewWriter(w io.Writer) *Writer {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &Writer{enc: enc}
}

// WriteFile writes the records of f.
func (w *Writer) WriteFile(ctx context.Context, f *diffchunk.FileDiff) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	name := f.ModifiedFilename
	if name == "" {
		name = f.OrigFilename
	}
	for _, c := range f.Chunks {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := w.enc.Encode(ChunkRecord{Type: TypeChunk, File: name, Chunk: c}); err != nil {
			return fmt.Errorf("writing chunk %d of %s: %w", c.Index, name, err)
		}
	}

	rec := FileRecord{
		Type:             TypeFile,
		OrigFilename:     f.OrigFilename,
		ModifiedFilename: f.ModifiedFilename,
		Chunks:           len(f.Chunks),
		Counts:           f.Counts,
		CodeSafety:       f.CodeSafety,
	}
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("writing summary of %s: %w", name, err)
	}
	return nil
}
