package interdiff

import (
	"iter"
	"log/slog"

	"github.com/reviewboard/diffchunk"
)

// Filter narrows opcodes to the lines touched by origDiff, which produced
// the A side, or by newDiff, which produced the B side.
func Filter(opcodes iter.Seq[diffchunk.Opcode], origDiff, newDiff []byte, logger *slog.Logger) iter.Seq[diffchunk.Opcode] {
	return FilterRanges(opcodes, FindRanges(origDiff, logger), FindRanges(newDiff, logger))
}

// FilterRanges narrows opcodes to origRanges, tracked against the A side,
// and newRanges, tracked against the B side. Both lists must be sorted.
//
// An opcode starting inside an active range keeps its tag for the part the
// range covers; the rest is reconsidered against the following ranges.
// Everything not covered becomes diffchunk.TagFilteredEqual. Equal and
// replace opcodes are always split with the same length on both sides.
// When neither list has a range the opcodes pass through unchanged.
func FilterRanges(opcodes iter.Seq[diffchunk.Opcode], origRanges, newRanges []Range) iter.Seq[diffchunk.Opcode] {
	if len(origRanges) == 0 && len(newRanges) == 0 {
		return opcodes
	}

	return func(yield func(diffchunk.Opcode) bool) {
		f := filter{orig: origRanges, mod: newRanges}
		for op := range opcodes {
			if !f.split(op, yield) {
				return
			}
		}
	}
}

type filter struct {
	orig, mod []Range
	oi, mi    int
}

func (f *filter) active(i1, j1 int) (orig, mod *Range) {
	for f.oi < len(f.orig) && i1 > f.orig[f.oi].End {
		f.oi++
	}
	for f.mi < len(f.mod) && j1 > f.mod[f.mi].End {
		f.mi++
	}
	if f.oi < len(f.orig) {
		orig = &f.orig[f.oi]
	}
	if f.mi < len(f.mod) {
		mod = &f.mod[f.mi]
	}
	return orig, mod
}

func isValid(r *Range, tag diffchunk.Tag, start, end int) bool {
	return r != nil && start >= r.Start && (tag == diffchunk.TagDelete || start != end)
}

// covered returns how many lines of [start,end) r covers, given that start
// is valid under r.
func covered(valid bool, r *Range, start, end int) int {
	if !valid {
		return 0
	}
	return min(end, r.End+1) - start
}

// leadIn returns the length of the uncovered prefix of [start,end) when r
// begins strictly inside it, and 0 otherwise.
func leadIn(r *Range, start, end int) int {
	if r == nil || r.Start <= start || r.Start >= end {
		return 0
	}
	return r.Start - start
}

func (f *filter) split(op diffchunk.Opcode, yield func(diffchunk.Opcode) bool) bool {
	tag := op.Tag
	i1, i2, j1, j2 := op.I1, op.I2, op.J1, op.J2

	for {
		orig, mod := f.active(i1, j1)
		validOrig := isValid(orig, tag, i1, i2)
		validMod := isValid(mod, tag, j1, j2)

		var next diffchunk.Opcode
		switch tag {
		case diffchunk.TagEqual, diffchunk.TagReplace:
			if validOrig || validMod {
				n := max(covered(validOrig, orig, i1, i2), covered(validMod, mod, j1, j2))
				next = diffchunk.Opcode{Tag: tag, I1: i1, I2: i1 + n, J1: j1, J2: j1 + n}
				break
			}
			n := leadIn(orig, i1, i2)
			if m := leadIn(mod, j1, j2); m > 0 && (n == 0 || m < n) {
				n = m
			}
			next = diffchunk.Opcode{Tag: diffchunk.TagFilteredEqual, I1: i1, I2: i1 + n, J1: j1, J2: j1 + n}
		case diffchunk.TagDelete:
			if validOrig {
				next = diffchunk.Opcode{Tag: tag, I1: i1, I2: i1 + covered(true, orig, i1, i2), J1: j1, J2: j2}
				break
			}
			next = diffchunk.Opcode{Tag: diffchunk.TagFilteredEqual, I1: i1, I2: i1 + leadIn(orig, i1, i2), J1: j1, J2: j2}
		case diffchunk.TagInsert:
			if validMod {
				next = diffchunk.Opcode{Tag: tag, I1: i1, I2: i2, J1: j1, J2: j1 + covered(true, mod, j1, j2)}
				break
			}
			next = diffchunk.Opcode{Tag: diffchunk.TagFilteredEqual, I1: i1, I2: i2, J1: j1, J2: j1 + leadIn(mod, j1, j2)}
		default:
			next = diffchunk.Opcode{Tag: diffchunk.TagFilteredEqual, I1: i1, I2: i2, J1: j1, J2: j2}
		}

		// Nothing split off: the rest goes out in one piece.
		if next.I2 == i1 && next.J2 == j1 || next.I2 >= i2 && next.J2 >= j2 {
			next.I1, next.I2, next.J1, next.J2 = i1, i2, j1, j2
			return yield(next)
		}
		if !yield(next) {
			return false
		}
		i1, j1 = next.I2, next.J2
	}
}
