package codesafety

import (
	"github.com/reviewboard/diffchunk"
	"golang.org/x/text/unicode/bidi"
)

// Warning identifiers raised by TrojanSource.
const (
	WarningBidi      = "bidi"
	WarningZeroWidth = "zws"
)

// TrojanSource detects characters used in "Trojan Source" attacks:
// bidirectional control characters that reorder displayed text and
// zero-width characters that hide inside identifiers.
type TrojanSource struct{}

// ID implements Checker.
func (TrojanSource) ID() string { return "trojan_source" }

// Check implements Checker. Each warning is reported at most once.
func (TrojanSource) Check(lines []string) diffchunk.CodeSafetyResult {
	var hasBidi, hasZeroWidth bool
	for _, line := range lines {
		for _, r := range line {
			switch {
			case isZeroWidth(r):
				hasZeroWidth = true
			case isBidiControl(r):
				hasBidi = true
			}
		}
	}

	var res diffchunk.CodeSafetyResult
	if hasBidi {
		res.Warnings = append(res.Warnings, WarningBidi)
	}
	if hasZeroWidth {
		res.Warnings = append(res.Warnings, WarningZeroWidth)
	}
	return res
}

func isBidiControl(r rune) bool {
	p, _ := bidi.LookupRune(r)
	switch p.Class() {
	case bidi.LRO, bidi.RLO, bidi.LRE, bidi.RLE, bidi.PDF,
		bidi.LRI, bidi.RLI, bidi.FSI, bidi.PDI:
		return true
	}
	return false
}

func isZeroWidth(r rune) bool {
	switch r {
	case '\u200b', '\u200c', '\u200d', '\u2060', '\ufeff':
		return true
	}
	return false
}
