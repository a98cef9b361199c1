package interdiff

import (
	"iter"

	"github.com/reviewboard/diffchunk"
)

// Collapse merges each run of filtered-equal opcodes and plain equal
// opcodes into a single equal opcode that keeps the first opcode's
// metadata. Equal opcodes carrying indentation changes are rendered with
// markers, so they are never merged.
//
// A run containing a demoted insert or delete covers more lines on one
// side than on the other. Its equal opcode then spans the shorter side's
// length and is followed by a filtered-equal opcode holding the surplus.
func Collapse(opcodes iter.Seq[diffchunk.MetaOpcode]) iter.Seq[diffchunk.MetaOpcode] {
	return func(yield func(diffchunk.MetaOpcode) bool) {
		var (
			pending diffchunk.MetaOpcode
			open    bool
		)
		for op := range opcodes {
			if collapsible(op) {
				if !open {
					pending = op
					pending.Tag = diffchunk.TagEqual
					open = true
					continue
				}
				pending.I2, pending.J2 = op.I2, op.J2
				continue
			}
			if open {
				open = false
				if !emit(pending, yield) {
					return
				}
			}
			if !yield(op) {
				return
			}
		}
		if open {
			emit(pending, yield)
		}
	}
}

func emit(op diffchunk.MetaOpcode, yield func(diffchunk.MetaOpcode) bool) bool {
	n := min(op.OldLen(), op.NewLen())
	if op.OldLen() == op.NewLen() {
		return yield(op)
	}
	eq := op
	eq.I2, eq.J2 = op.I1+n, op.J1+n
	if n > 0 && !yield(eq) {
		return false
	}
	return yield(diffchunk.MetaOpcode{Opcode: diffchunk.Opcode{
		Tag: diffchunk.TagFilteredEqual,
		I1:  op.I1 + n,
		I2:  op.I2,
		J1:  op.J1 + n,
		J2:  op.J2,
	}})
}

func collapsible(op diffchunk.MetaOpcode) bool {
	switch op.Tag {
	case diffchunk.TagFilteredEqual:
		return true
	case diffchunk.TagEqual:
		return len(op.Meta.IndentationChanges) == 0
	}
	return false
}
