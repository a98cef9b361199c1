// Package interdiff reconciles a diff between two post-images with the
// unified diffs that produced them.
//
// An interdiff compares the result of applying diff X with the result of
// applying diff Y. Anything that neither diff touched (upstream changes
// between the two bases, most often) is noise. Filter demotes opcodes
// outside the touched ranges to diffchunk.TagFilteredEqual and Collapse
// folds the demoted runs back into plain equal opcodes.
package interdiff

import (
	"bytes"
	"errors"
	"log/slog"
	"strconv"

	"github.com/dlclark/regexp2"
	"github.com/reviewboard/diffchunk/lines"
)

// Range is an inclusive, 0-based span of post-image line numbers touched by
// a diff's added or removed lines.
type Range struct {
	Start int
	End   int
}

var hunkHeader = regexp2.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`, regexp2.None)

// hunk tracks the lines still expected in the hunk being scanned.
type hunk struct {
	newStart  int
	newLen    int
	oldLeft   int
	newLeft   int
	leading   int
	trailing  int
	hasChange bool
}

func (h *hunk) done() bool {
	return h.oldLeft <= 0 && h.newLeft <= 0
}

func (h *hunk) context() {
	h.oldLeft--
	h.newLeft--
	if h.hasChange {
		h.trailing++
	} else {
		h.leading++
	}
}

func (h *hunk) change(old bool) {
	if old {
		h.oldLeft--
	} else {
		h.newLeft--
	}
	h.hasChange = true
	h.trailing = 0
}

func (h *hunk) span() (Range, bool) {
	length := h.newLen - h.leading - h.trailing
	if !h.hasChange || length <= 0 {
		return Range{}, false
	}
	start := h.newStart - 1 + h.leading
	return Range{Start: start, End: start + length - 1}, true
}

// FindRanges returns, in order, the post-image ranges touched by each hunk
// of a single-file unified diff. Hunk headers that cannot be parsed are
// logged at debug level and their hunks skipped. A nil logger discards.
func FindRanges(diff []byte, logger *slog.Logger) []Range {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var (
		ranges []Range
		cur    *hunk
	)
	finish := func() {
		if cur == nil {
			return
		}
		if r, ok := cur.span(); ok {
			ranges = append(ranges, r)
		}
		cur = nil
	}

	for _, raw := range lines.SplitLineEndings(diff) {
		line := lines.TrimEOL(raw)

		if bytes.HasPrefix(line, []byte("@@")) {
			finish()
			h, err := parseHunkHeader(string(line))
			if err != nil {
				logger.Debug("skipping malformed hunk header", "line", string(line), "error", err)
				continue
			}
			cur = h
			continue
		}
		if cur == nil {
			continue
		}

		switch {
		case len(line) == 0 || line[0] == ' ':
			cur.context()
		case line[0] == '-':
			cur.change(true)
		case line[0] == '+':
			cur.change(false)
		case line[0] == '\\':
			// "\ No newline at end of file"
		default:
			finish()
			continue
		}
		if cur.done() {
			finish()
		}
	}
	finish()
	return ranges
}

var errNoHunkRange = errors.New("no hunk range")

func parseHunkHeader(line string) (*hunk, error) {
	m, err := hunkHeader.FindStringMatch(line)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errNoHunkRange
	}

	field := func(n int) (int, error) {
		g := m.GroupByNumber(n)
		if g == nil || len(g.Captures) == 0 {
			return 1, nil
		}
		return strconv.Atoi(g.String())
	}

	var nums [4]int
	for i := range nums {
		v, err := field(i + 1)
		if err != nil {
			return nil, err
		}
		nums[i] = v
	}
	return &hunk{
		newStart: nums[2],
		newLen:   nums[3],
		oldLeft:  nums[1],
		newLeft:  nums[3],
	}, nil
}
