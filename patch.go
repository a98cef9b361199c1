package diffchunk

import "io"

// FilePatch is the part of a patch that touches a single file.
type FilePatch struct {
	OldPath  string // empty for new files
	NewPath  string // empty for deleted files
	IsNew    bool
	IsDelete bool
	Raw      []byte // file headers and hunks in unified diff form
}

// Path returns the name the file has after the patch is applied, or its
// old name for deletions.
func (p FilePatch) Path() string {
	if p.NewPath != "" {
		return p.NewPath
	}
	return p.OldPath
}

// Patcher parses patches and applies them to file content.
type Patcher interface {
	// Parse splits a multi-file patch into per-file patches.
	Parse(r io.Reader) ([]FilePatch, error)
	// Apply applies a file patch to base and returns the post-image.
	Apply(base []byte, p FilePatch) ([]byte, error)
}
