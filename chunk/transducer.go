package chunk

import (
	"unicode/utf8"

	"github.com/reviewboard/diffchunk"
)

// transducer turns annotated opcodes into chunks, one opcode at a time.
// Rows are numbered across the whole file and chunk indexes are assigned in
// order, so the stream must be consumed from the start.
type transducer struct {
	gen                  *Generator
	a, b                 []string
	oldMarkup, newMarkup []string
	opcodes              []diffchunk.MetaOpcode
	moves                moves
	left, right          headerCursor
	result               *Result

	index int
	row   int
}

func (t *transducer) chunks(yield func(diffchunk.Chunk) bool) {
	context := t.gen.settings.ContextLines()
	threshold := 2*context + 3

	for _, op := range t.opcodes {
		change := op.Tag
		if change == diffchunk.TagFilteredEqual {
			change = diffchunk.TagEqual
		}
		n := max(op.OldLen(), op.NewLen())
		if n == 0 {
			continue
		}

		if change != diffchunk.TagEqual || n < threshold {
			if !t.emit(op, change, 0, n, false, yield) {
				return
			}
			continue
		}

		// Long equal runs keep context lines around the neighbouring changes
		// and fold the middle.
		first := op.I1 == 0 && op.J1 == 0
		last := op.I2 == len(t.a) && op.J2 == len(t.b)
		start, end := 0, n
		if !first {
			start = context
			if !t.emit(op, change, 0, start, false, yield) {
				return
			}
		}
		if !last {
			end = n - context
		}
		if !t.emit(op, change, start, end, true, yield) {
			return
		}
		if !last && !t.emit(op, change, end, n, false, yield) {
			return
		}
	}
}

// emit yields the chunk for rows [from,to) of op.
func (t *transducer) emit(op diffchunk.MetaOpcode, change diffchunk.Tag, from, to int, collapsable bool, yield func(diffchunk.Chunk) bool) bool {
	if from >= to {
		return true
	}

	meta := op.Meta
	if from > 0 || to < max(op.OldLen(), op.NewLen()) {
		meta = sliceMeta(op.Meta, op.I1+from, op.I1+to)
	}
	whitespace := make(map[diffchunk.LinePair]bool, len(meta.WhitespaceLines))
	for _, p := range meta.WhitespaceLines {
		whitespace[p] = true
	}

	c := diffchunk.Chunk{
		Change:      change,
		Index:       t.index,
		Collapsable: collapsable,
		Lines:       make([]diffchunk.Row, 0, to-from),
		Meta: diffchunk.ChunkMeta{
			LeftHeaders:        t.left.take(op.I1+from, min(op.I1+to, op.I2)),
			RightHeaders:       t.right.take(op.J1+from, min(op.J1+to, op.J2)),
			WhitespaceChunk:    meta.WhitespaceChunk,
			WhitespaceLines:    meta.WhitespaceLines,
			IndentationChanges: meta.IndentationChanges,
		},
	}
	t.index++

	for k := from; k < to; k++ {
		c.Lines = append(c.Lines, t.buildRow(op, k, meta, whitespace))
	}
	t.result.counts[change] += len(c.Lines)
	return yield(c)
}

func (t *transducer) buildRow(op diffchunk.MetaOpcode, k int, meta diffchunk.OpcodeMeta, whitespace map[diffchunk.LinePair]bool) diffchunk.Row {
	t.row++
	r := diffchunk.Row{Row: t.row}

	var oldRaw, newRaw string
	i, j := op.I1+k, op.J1+k
	hasOld, hasNew := i < op.I2, j < op.J2
	if hasOld {
		r.OldLine, r.OldText, oldRaw = i+1, t.oldMarkup[i], t.a[i]
	}
	if hasNew {
		r.NewLine, r.NewText, newRaw = j+1, t.newMarkup[j], t.b[j]
	}

	if hasOld && hasNew {
		pair := diffchunk.LinePair{Old: r.OldLine, New: r.NewLine}
		r.WhitespaceOnly = whitespace[pair]
		if ic, ok := meta.IndentationChanges[pair]; ok {
			if ic.Indent {
				r.NewText = markIndentation(r.NewText, ic)
			} else {
				r.OldText = markIndentation(r.OldText, ic)
			}
		}
		if op.Tag == diffchunk.TagReplace && !r.WhitespaceOnly && oldRaw != newRaw && t.fitsIntraline(oldRaw, newRaw) {
			if oldRegions, newRegions, ok := changedRegions(oldRaw, newRaw); ok {
				r.OldRegions, r.NewRegions = oldRegions, newRegions
			}
		}
	}

	var movedOld, movedNew int
	if op.Tag == diffchunk.TagDelete || op.Tag == diffchunk.TagReplace {
		movedOld = r.OldLine
	}
	if op.Tag == diffchunk.TagInsert || op.Tag == diffchunk.TagReplace {
		movedNew = r.NewLine
	}
	r.Moved = t.moves.info(movedOld, movedNew)

	if t.gen.safety != nil {
		for _, f := range t.gen.safety.Check(oldRaw, newRaw) {
			if !f.Result.Empty() {
				r.CodeSafety = append(r.CodeSafety, f)
			}
		}
		t.result.record(r.CodeSafety)
	}
	return r
}

func (t *transducer) fitsIntraline(oldLine, newLine string) bool {
	limit := t.gen.settings.MaxIntralineLength()
	return limit <= 0 || utf8.RuneCountInString(oldLine) <= limit && utf8.RuneCountInString(newLine) <= limit
}

// sliceMeta keeps the line metadata of old lines [i1,i2), 0-based.
func sliceMeta(m diffchunk.OpcodeMeta, i1, i2 int) diffchunk.OpcodeMeta {
	out := diffchunk.OpcodeMeta{WhitespaceChunk: m.WhitespaceChunk}
	inside := func(p diffchunk.LinePair) bool { return p.Old > i1 && p.Old <= i2 }
	for _, p := range m.WhitespaceLines {
		if inside(p) {
			out.WhitespaceLines = append(out.WhitespaceLines, p)
		}
	}
	for p, ic := range m.IndentationChanges {
		if !inside(p) {
			continue
		}
		if out.IndentationChanges == nil {
			out.IndentationChanges = make(map[diffchunk.LinePair]diffchunk.IndentationChange)
		}
		out.IndentationChanges[p] = ic
	}
	return out
}
