package chunk

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/reviewboard/diffchunk"
)

// minRegionRatio is the similarity below which a pair is treated as
// entirely rewritten and gets no intraline regions.
const minRegionRatio = 0.6

// changedRegions returns the character spans that differ between oldLine
// and newLine. It reports false when the lines are too dissimilar for
// regions to be useful. Equal runs shorter than three characters between
// two changes are folded into the change that follows them.
func changedRegions(oldLine, newLine string) (oldRegions, newRegions []diffchunk.Region, ok bool) {
	a := strings.Split(oldLine, "")
	b := strings.Split(newLine, "")
	m := difflib.NewMatcher(a, b)
	if m.Ratio() < minRegionRatio {
		return nil, nil, false
	}

	oldRegions, newRegions = []diffchunk.Region{}, []diffchunk.Region{}
	backOld, backNew := 0, 0
	for _, op := range m.GetOpCodes() {
		if op.Tag == 'e' {
			backOld, backNew = 0, 0
			if op.I2-op.I1 < 3 || op.J2-op.J1 < 3 {
				backOld, backNew = op.I2-op.I1, op.J2-op.J1
			}
			continue
		}
		oldRegions = addRegion(oldRegions, op.I1-backOld, op.I2)
		newRegions = addRegion(newRegions, op.J1-backNew, op.J2)
		backOld, backNew = 0, 0
	}
	return oldRegions, newRegions, true
}

func addRegion(regions []diffchunk.Region, start, end int) []diffchunk.Region {
	if n := len(regions); n > 0 && start <= regions[n-1].End && regions[n-1].End < end {
		regions[n-1].End = end
		return regions
	}
	if start < end {
		regions = append(regions, diffchunk.Region{Start: start, End: end})
	}
	return regions
}
