package diffchunk

import "context"

// FileDiff is the rendered result for one file.
type FileDiff struct {
	OrigFilename     string
	ModifiedFilename string
	Chunks           []Chunk
	Counts           map[Tag]int // rows per chunk change type
	CodeSafety       CodeSafetyReport
}

// ChunkWriter writes rendered file diffs to an output.
type ChunkWriter interface {
	// WriteFile writes one file's chunks.
	WriteFile(ctx context.Context, f *FileDiff) error
}
