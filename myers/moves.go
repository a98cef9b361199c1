package myers

import "github.com/reviewboard/diffchunk"

// MoveInfo looks up line in group, a mapping from line numbers on one side
// to their partners on the other side for lines in detected block moves.
// It reports false when line has no partner. The returned First flag is set
// when line starts a contiguous moved run: the previous line has no partner,
// or its partner is not the one just before line's partner.
func MoveInfo(line int, group map[int]int) (diffchunk.MoveInfo, bool) {
	partner, ok := group[line]
	if !ok {
		return diffchunk.MoveInfo{}, false
	}
	prev, ok := group[line-1]
	return diffchunk.MoveInfo{
		Line:  partner,
		First: !ok || prev+1 != partner,
	}, true
}
