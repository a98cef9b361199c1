// Package myers computes line-level edit scripts with Myers' O(ND)
// difference algorithm.
//
// A Differ aligns two line sequences and reports the result as opcodes.
// Before the search, lines that have no counterpart on the other side are
// discarded, and so are very common lines inside runs of such lines. After
// the search, change runs are slid so that they merge with neighbouring
// changes where that is possible. Opcodes are computed on first access and cached.
package myers

import (
	"iter"

	"github.com/reviewboard/diffchunk"
	"github.com/reviewboard/diffchunk/lines"
)

// Option configures a Differ.
type Option func(*Differ)

// WithIgnoreSpace makes lines compare equal when they differ only in
// whitespace.
func WithIgnoreSpace() Option {
	return func(d *Differ) {
		d.ignoreSpace = true
	}
}

// WithHeaderPatterns replaces the filename-to-pattern table consulted by
// AddInterestingLinesForHeaders.
func WithHeaderPatterns(patterns []HeaderPattern) Option {
	return func(d *Differ) {
		d.headerPatterns = patterns
	}
}

// Differ computes the opcodes between two line sequences.
type Differ struct {
	a, b           []string
	ignoreSpace    bool
	headerPatterns []HeaderPattern

	matchers    []lineMatcher
	interesting [2]map[string][]diffchunk.InterestingLine

	computed bool
	opcodes  []diffchunk.Opcode
}

// New returns a Differ for sequences a and b.
func New(a, b []string, opts ...Option) *Differ {
	d := &Differ{
		a:              a,
		b:              b,
		headerPatterns: DefaultHeaderPatterns,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Opcodes returns the edit script. The first call runs the alignment; later
// calls return the cached result.
func (d *Differ) Opcodes() []diffchunk.Opcode {
	if !d.computed {
		d.opcodes = d.compute()
		d.computed = true
	}
	return d.opcodes
}

// All iterates over the opcodes.
func (d *Differ) All() iter.Seq[diffchunk.Opcode] {
	return func(yield func(diffchunk.Opcode) bool) {
		for _, op := range d.Opcodes() {
			if !yield(op) {
				return
			}
		}
	}
}

func (d *Differ) compute() []diffchunk.Opcode {
	keysA, keysB := d.keys()
	changedA, changedB := align(keysA, keysB)
	return d.emit(changedA, changedB)
}

// keys maps every line to an integer equivalence class.
func (d *Differ) keys() ([]int, []int) {
	classes := make(map[string]int)
	key := func(line string) int {
		if d.ignoreSpace {
			line = lines.NormalizeSpace(line)
		}
		k, ok := classes[line]
		if !ok {
			k = len(classes)
			classes[line] = k
		}
		return k
	}
	keysA := make([]int, len(d.a))
	for i, line := range d.a {
		keysA[i] = key(line)
	}
	keysB := make([]int, len(d.b))
	for i, line := range d.b {
		keysB[i] = key(line)
	}
	return keysA, keysB
}

// emit walks the changed flags and groups them into opcodes. changedA and
// changedB are padded by one sentinel on each side.
func (d *Differ) emit(changedA, changedB []bool) []diffchunk.Opcode {
	lenA, lenB := len(d.a), len(d.b)
	modA := func(i int) bool { return changedA[i+1] }
	modB := func(j int) bool { return changedB[j+1] }

	var (
		out  []diffchunk.Opcode
		last *diffchunk.Opcode
	)
	i, j := 0, 0
	for i < lenA || j < lenB {
		startA, startB := i, j
		var tag diffchunk.Tag
		var countA, countB int

		if i < lenA && !modA(i) && j < lenB && !modB(j) {
			tag = diffchunk.TagEqual
			countA, countB = 1, 1
			d.matchInteresting(i, j)
			i++
			j++
		} else {
			// Consume the modified lines on each side, plus the remainder of
			// one side once the other is exhausted.
			for i < lenA && (j >= lenB || modA(i)) {
				i++
			}
			for j < lenB && (i >= lenA || modB(j)) {
				j++
			}
			countA, countB = i-startA, j-startB

			switch {
			case countA == 0:
				tag = diffchunk.TagInsert
			case countB == 0:
				tag = diffchunk.TagDelete
			default:
				// A replace pairs lines one to one. The longer side's
				// surplus is left for the next iteration, where it becomes
				// an insert or a delete.
				tag = diffchunk.TagReplace
				n := min(countA, countB)
				i, j = startA+n, startB+n
				countA, countB = n, n
			}
		}

		if last != nil && last.Tag == tag {
			last.I2 += countA
			last.J2 += countB
			continue
		}
		out = append(out, diffchunk.Opcode{Tag: tag, I1: startA, I2: startA + countA, J1: startB, J2: startB + countB})
		last = &out[len(out)-1]
	}

	if len(out) == 0 {
		out = append(out, diffchunk.Opcode{Tag: diffchunk.TagEqual, I1: 0, I2: lenA, J1: 0, J2: lenB})
	}
	return out
}
