package chunk

import (
	"strings"

	"github.com/reviewboard/diffchunk"
	"github.com/reviewboard/diffchunk/myers"
)

// moves holds detected block moves as 1-based line number mappings.
type moves struct {
	to   map[int]int // old line -> new line it moved to
	from map[int]int // new line -> old line it came from
}

func (m moves) info(oldLine, newLine int) *diffchunk.Moved {
	var moved diffchunk.Moved
	if oldLine > 0 {
		if mi, ok := myers.MoveInfo(oldLine, m.to); ok {
			moved.To = &mi
		}
	}
	if newLine > 0 {
		if mi, ok := myers.MoveInfo(newLine, m.from); ok {
			moved.From = &mi
		}
	}
	if moved.To == nil && moved.From == nil {
		return nil
	}
	return &moved
}

// moveRun is a candidate move: old lines [oldStart,oldEnd] reappearing as
// new lines [newStart,newEnd], both inclusive and 0-based.
type moveRun struct {
	oldStart, oldEnd int
	newStart, newEnd int
}

func (r moveRun) len() int { return r.oldEnd - r.oldStart + 1 }

// moveFinder looks for runs of inserted lines whose trimmed content matches
// a run of deleted lines elsewhere in the file.
type moveFinder struct {
	a, b    []string
	removes map[string][]int // trimmed deleted line -> old indexes
	removed map[int]bool     // old indexes of deleted lines
	used    map[int]bool     // old indexes already part of a move
	found   moves
}

func findMoves(opcodes []diffchunk.MetaOpcode, a, b []string) moves {
	f := &moveFinder{
		a:       a,
		b:       b,
		removes: make(map[string][]int),
		removed: make(map[int]bool),
		used:    make(map[int]bool),
		found:   moves{to: make(map[int]int), from: make(map[int]int)},
	}
	for _, op := range opcodes {
		if op.Tag != diffchunk.TagDelete && op.Tag != diffchunk.TagReplace {
			continue
		}
		for i := op.I1; i < op.I2; i++ {
			if line := strings.TrimSpace(a[i]); line != "" {
				f.removes[line] = append(f.removes[line], i)
				f.removed[i] = true
			}
		}
	}
	if len(f.removes) == 0 {
		return f.found
	}
	for _, op := range opcodes {
		if op.Tag == diffchunk.TagInsert || op.Tag == diffchunk.TagReplace {
			f.scan(op.Opcode)
		}
	}
	return f.found
}

// scan walks the new lines of op, growing candidate runs while consecutive
// inserted lines keep matching consecutive deleted lines. Runs that stop
// growing stay around as candidates until no run can grow, and then the
// longest one is committed.
func (f *moveFinder) scan(op diffchunk.Opcode) {
	var runs []moveRun
	replace := op.Tag == diffchunk.TagReplace

	for j := op.J1; j < op.J2; j++ {
		line := strings.TrimSpace(f.b[j])

		extended := false
		for k := range runs {
			r := &runs[k]
			next := r.oldEnd + 1
			if r.newEnd+1 != j || next >= len(f.a) {
				continue
			}
			// A blank line joins a run when the deleted side has a blank
			// line at the same spot.
			if line == "" && strings.TrimSpace(f.a[next]) == "" ||
				line != "" && f.removed[next] && strings.TrimSpace(f.a[next]) == line {
				r.oldEnd, r.newEnd = next, j
				extended = true
			}
		}
		if extended {
			continue
		}

		f.flush(runs)
		runs = runs[:0]
		for _, i := range f.removes[line] {
			// A replaced line matching its own counterpart only changed
			// whitespace.
			if replace && i-op.I1 == j-op.J1 {
				continue
			}
			runs = append(runs, moveRun{oldStart: i, oldEnd: i, newStart: j, newEnd: j})
		}
	}
	f.flush(runs)
}

// flush commits the longest of runs.
func (f *moveFinder) flush(runs []moveRun) {
	if len(runs) == 0 {
		return
	}
	best := runs[0]
	for _, r := range runs[1:] {
		if r.len() > best.len() {
			best = r
		}
	}
	f.commit(best)
}

// commit records r after trimming trailing blank lines, unless it holds no
// line of at least four characters or reuses a deleted line.
func (f *moveFinder) commit(r moveRun) {
	for r.oldEnd >= r.oldStart && strings.TrimSpace(f.a[r.oldEnd]) == "" {
		r.oldEnd--
		r.newEnd--
	}
	if r.oldEnd < r.oldStart {
		return
	}

	significant := false
	for i := r.oldStart; i <= r.oldEnd; i++ {
		if f.used[i] {
			return
		}
		if len(strings.TrimSpace(f.a[i])) >= 4 {
			significant = true
		}
	}
	if !significant {
		return
	}

	for k := range r.len() {
		oldLine, newLine := r.oldStart+k+1, r.newStart+k+1
		f.used[oldLine-1] = true
		f.found.to[oldLine] = newLine
		f.found.from[newLine] = oldLine
	}
}
