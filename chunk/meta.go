package chunk

import (
	"github.com/reviewboard/diffchunk"
	"github.com/reviewboard/diffchunk/lines"
)

// annotate attaches whitespace and indentation metadata to opcodes. Equal
// opcodes only carry differences when alignment ignored whitespace; those
// are split so that each run of re-indented lines stands on its own.
func annotate(opcodes []diffchunk.Opcode, a, b []string) []diffchunk.MetaOpcode {
	out := make([]diffchunk.MetaOpcode, 0, len(opcodes))
	for _, op := range opcodes {
		switch op.Tag {
		case diffchunk.TagReplace:
			out = append(out, annotateReplace(op, a, b))
		case diffchunk.TagEqual:
			out = append(out, splitEqual(op, a, b)...)
		default:
			out = append(out, diffchunk.MetaOpcode{Opcode: op})
		}
	}
	return out
}

func annotateReplace(op diffchunk.Opcode, a, b []string) diffchunk.MetaOpcode {
	m := diffchunk.MetaOpcode{Opcode: op}
	for k := range op.OldLen() {
		oldLine, newLine := a[op.I1+k], b[op.J1+k]
		pair := diffchunk.LinePair{Old: op.I1 + k + 1, New: op.J1 + k + 1}
		if whitespaceOnly(oldLine, newLine) {
			m.Meta.WhitespaceLines = append(m.Meta.WhitespaceLines, pair)
		}
		if ic, ok := indentationChange(oldLine, newLine); ok {
			if m.Meta.IndentationChanges == nil {
				m.Meta.IndentationChanges = make(map[diffchunk.LinePair]diffchunk.IndentationChange)
			}
			m.Meta.IndentationChanges[pair] = ic
		}
	}
	m.Meta.WhitespaceChunk = op.OldLen() > 0 && len(m.Meta.WhitespaceLines) == op.OldLen()
	return m
}

func splitEqual(op diffchunk.Opcode, a, b []string) []diffchunk.MetaOpcode {
	var (
		out     []diffchunk.MetaOpcode
		cur     diffchunk.MetaOpcode
		curKind bool
	)
	flush := func() {
		if cur.OldLen() > 0 {
			out = append(out, cur)
		}
	}

	cur.Opcode = diffchunk.Opcode{Tag: diffchunk.TagEqual, I1: op.I1, I2: op.I1, J1: op.J1, J2: op.J1}
	for k := range op.OldLen() {
		i, j := op.I1+k, op.J1+k
		ic, indented := indentationChange(a[i], b[j])
		if indented != curKind {
			flush()
			cur = diffchunk.MetaOpcode{Opcode: diffchunk.Opcode{Tag: diffchunk.TagEqual, I1: i, I2: i, J1: j, J2: j}}
			curKind = indented
		}
		pair := diffchunk.LinePair{Old: i + 1, New: j + 1}
		if whitespaceOnly(a[i], b[j]) {
			cur.Meta.WhitespaceLines = append(cur.Meta.WhitespaceLines, pair)
		}
		if indented {
			if cur.Meta.IndentationChanges == nil {
				cur.Meta.IndentationChanges = make(map[diffchunk.LinePair]diffchunk.IndentationChange)
			}
			cur.Meta.IndentationChanges[pair] = ic
		}
		cur.I2, cur.J2 = i+1, j+1
	}
	flush()

	if len(out) == 0 {
		return []diffchunk.MetaOpcode{{Opcode: op}}
	}
	return out
}

// whitespaceOnly reports whether two lines differ, but not once their
// whitespace is normalised.
func whitespaceOnly(oldLine, newLine string) bool {
	return oldLine != newLine && lines.NormalizeSpace(oldLine) == lines.NormalizeSpace(newLine)
}
