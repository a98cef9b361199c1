package chunk

import (
	"iter"

	"github.com/reviewboard/diffchunk"
	"github.com/reviewboard/diffchunk/myers"
)

// Result is the chunk stream of one file. The stream can be iterated once;
// the accessors other than InterestingLines report on the rows produced so
// far and are complete once the stream has been drained.
type Result struct {
	chunks   iter.Seq[diffchunk.Chunk]
	consumed bool

	differ *myers.Differ
	counts map[diffchunk.Tag]int
	safety diffchunk.CodeSafetyReport
}

// Chunks returns the chunk stream. Calls after the first return an empty
// sequence.
func (r *Result) Chunks() iter.Seq[diffchunk.Chunk] {
	if r.consumed {
		return func(func(diffchunk.Chunk) bool) {}
	}
	r.consumed = true
	return r.chunks
}

// Collect drains the stream into a FileDiff.
func (r *Result) Collect(origFilename, modifiedFilename string) *diffchunk.FileDiff {
	f := &diffchunk.FileDiff{
		OrigFilename:     origFilename,
		ModifiedFilename: modifiedFilename,
	}
	for c := range r.Chunks() {
		f.Chunks = append(f.Chunks, c)
	}
	f.Counts = r.Counts()
	f.CodeSafety = r.CodeSafety()
	return f
}

// Counts returns the number of rows emitted per chunk change type.
func (r *Result) Counts() map[diffchunk.Tag]int {
	return r.counts
}

// CodeSafety returns the findings aggregated over all emitted rows.
func (r *Result) CodeSafety() diffchunk.CodeSafetyReport {
	return r.safety
}

// InterestingLines returns the lines captured for category on one side.
func (r *Result) InterestingLines(category string, modified bool) []diffchunk.InterestingLine {
	return r.differ.InterestingLines(category, modified)
}

func (r *Result) record(findings []diffchunk.CodeSafetyFinding) {
	for _, f := range findings {
		summary := r.safety[f.CheckerID]
		for _, id := range f.Result.Warnings {
			if summary.Warnings == nil {
				summary.Warnings = make(map[string]int)
			}
			summary.Warnings[id]++
		}
		for _, id := range f.Result.Errors {
			if summary.Errors == nil {
				summary.Errors = make(map[string]int)
			}
			summary.Errors[id]++
		}
		r.safety[f.CheckerID] = summary
	}
}
