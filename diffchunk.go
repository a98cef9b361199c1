// Package diffchunk provides domain types for computing line diffs and
// turning them into renderer-ready chunks.
package diffchunk

import (
	"fmt"
	"strconv"
	"strings"
)

// Tag identifies the kind of edit an Opcode describes.
type Tag int

// Opcode tags.
const (
	TagEqual Tag = iota
	TagInsert
	TagDelete
	TagReplace
	TagFilteredEqual // outside the ranges touched by either side of an interdiff
)

var tagNames = [...]string{
	TagEqual:         "equal",
	TagInsert:        "insert",
	TagDelete:        "delete",
	TagReplace:       "replace",
	TagFilteredEqual: "filtered-equal",
}

// String returns the tag name, e.g. "replace".
func (t Tag) String() string {
	if t < 0 || int(t) >= len(tagNames) {
		return "Tag(" + strconv.Itoa(int(t)) + ")"
	}
	return tagNames[t]
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(tagNames) {
		return nil, fmt.Errorf("unknown tag %d", int(t))
	}
	return []byte(tagNames[t]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Tag) UnmarshalText(text []byte) error {
	for i, name := range tagNames {
		if name == string(text) {
			*t = Tag(i)
			return nil
		}
	}
	return fmt.Errorf("unknown tag %q", text)
}

// Opcode aligns the half-open range [I1,I2) of sequence A with [J1,J2) of
// sequence B.
type Opcode struct {
	Tag Tag
	I1  int
	I2  int
	J1  int
	J2  int
}

// String formats the opcode as ("tag", i1, i2, j1, j2).
func (o Opcode) String() string {
	return fmt.Sprintf("(%q, %d, %d, %d, %d)", o.Tag.String(), o.I1, o.I2, o.J1, o.J2)
}

// OldLen returns the number of A lines covered by the opcode.
func (o Opcode) OldLen() int { return o.I2 - o.I1 }

// NewLen returns the number of B lines covered by the opcode.
func (o Opcode) NewLen() int { return o.J2 - o.J1 }

// LinePair identifies one aligned pair of lines by their 1-based line numbers.
type LinePair struct {
	Old int
	New int
}

// MarshalText encodes the pair as "old-new", so it can key JSON objects.
func (p LinePair) MarshalText() ([]byte, error) {
	return []byte(strconv.Itoa(p.Old) + "-" + strconv.Itoa(p.New)), nil
}

// UnmarshalText decodes a pair written by MarshalText.
func (p *LinePair) UnmarshalText(text []byte) error {
	oldNum, newNum, ok := strings.Cut(string(text), "-")
	if !ok {
		return fmt.Errorf("invalid line pair %q", text)
	}
	o, err := strconv.Atoi(oldNum)
	if err != nil {
		return fmt.Errorf("invalid line pair %q: %w", text, err)
	}
	n, err := strconv.Atoi(newNum)
	if err != nil {
		return fmt.Errorf("invalid line pair %q: %w", text, err)
	}
	p.Old, p.New = o, n
	return nil
}

// IndentationChange describes a pure indent or unindent between two lines.
type IndentationChange struct {
	Indent  bool `json:"indent"`   // true when the new line is indented further
	RawLen  int  `json:"raw_len"`  // leading whitespace characters on the marked side
	NormLen int  `json:"norm_len"` // columns added or removed after tab expansion
}

// OpcodeMeta carries per-opcode metadata computed before chunking.
type OpcodeMeta struct {
	WhitespaceChunk    bool
	WhitespaceLines    []LinePair
	IndentationChanges map[LinePair]IndentationChange
}

// MetaOpcode is an Opcode together with its metadata.
type MetaOpcode struct {
	Opcode
	Meta OpcodeMeta
}

// Region is a half-open span of character (rune) offsets within one line.
type Region struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// MoveInfo points from a moved line to its counterpart on the other side.
type MoveInfo struct {
	Line  int  `json:"line"`  // 1-based line number on the other side
	First bool `json:"first"` // starts a contiguous moved run
}

// Moved holds the move annotations of one row.
type Moved struct {
	To   *MoveInfo `json:"to,omitempty"`   // set on deleted lines that reappear
	From *MoveInfo `json:"from,omitempty"` // set on inserted lines that came from elsewhere
}

// CodeSafetyResult lists the warning and error identifiers a checker raised.
type CodeSafetyResult struct {
	Warnings []string `json:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty"`
}

// Empty reports whether the result carries no findings.
func (r CodeSafetyResult) Empty() bool {
	return len(r.Warnings) == 0 && len(r.Errors) == 0
}

// CodeSafetyFinding is one checker's result for a row.
type CodeSafetyFinding struct {
	CheckerID string           `json:"checker_id"`
	Result    CodeSafetyResult `json:"result"`
}

// CodeSafetySummary counts the lines that raised each warning or error.
type CodeSafetySummary struct {
	Warnings map[string]int `json:"warnings,omitempty"`
	Errors   map[string]int `json:"errors,omitempty"`
}

// CodeSafetyReport aggregates findings for a whole diff, keyed by checker ID.
type CodeSafetyReport map[string]CodeSafetySummary

// Row is one rendered line pair of a chunk.
type Row struct {
	Row            int                 `json:"row"`      // 1-based display row
	OldLine        int                 `json:"old_line"` // 0 if the row has no old content
	OldText        string              `json:"old_text"` // HTML markup
	OldRegions     []Region            `json:"old_regions"`
	NewLine        int                 `json:"new_line"` // 0 if the row has no new content
	NewText        string              `json:"new_text"`
	NewRegions     []Region            `json:"new_regions"`
	WhitespaceOnly bool                `json:"whitespace_only"`
	Moved          *Moved              `json:"moved,omitempty"`
	CodeSafety     []CodeSafetyFinding `json:"code_safety,omitempty"`
}

// Header is an interesting line (such as a function signature) attached to
// a chunk.
type Header struct {
	Line int    `json:"line"` // 1-based
	Text string `json:"text"`
}

// ChunkMeta is the metadata of a rendered chunk.
type ChunkMeta struct {
	LeftHeaders        []Header                       `json:"left_headers"`
	RightHeaders       []Header                       `json:"right_headers"`
	WhitespaceChunk    bool                           `json:"whitespace_chunk"`
	WhitespaceLines    []LinePair                     `json:"whitespace_lines"`
	IndentationChanges map[LinePair]IndentationChange `json:"indentation_changes,omitempty"`
}

// Chunk is a renderer-facing group of rows sharing one change type.
type Chunk struct {
	Change      Tag       `json:"change"`
	Index       int       `json:"index"`
	Collapsable bool      `json:"collapsable"`
	Lines       []Row     `json:"lines"`
	Meta        ChunkMeta `json:"meta"`
}

// NumLines returns the number of rows in the chunk.
func (c Chunk) NumLines() int { return len(c.Lines) }

// InterestingLine is a line captured by a registered pattern during diffing.
type InterestingLine struct {
	Index int    // 0-based index into its sequence
	Text  string // line content
}
