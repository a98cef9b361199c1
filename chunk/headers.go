package chunk

import "github.com/reviewboard/diffchunk"

// headerCursor hands out interesting lines to chunks in order. Chunks
// arrive with ascending line ranges, so the cursor never moves back.
type headerCursor struct {
	lines []diffchunk.InterestingLine
	pos   int
}

// take returns the headers with 0-based indexes in [from,to), as 1-based
// line numbers.
func (c *headerCursor) take(from, to int) []diffchunk.Header {
	for c.pos < len(c.lines) && c.lines[c.pos].Index < from {
		c.pos++
	}
	var out []diffchunk.Header
	for c.pos < len(c.lines) && c.lines[c.pos].Index < to {
		l := c.lines[c.pos]
		out = append(out, diffchunk.Header{Line: l.Index + 1, Text: l.Text})
		c.pos++
	}
	return out
}
