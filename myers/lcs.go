package myers

import "math"

// align returns the changed flags of a and b. Each slice is padded with one
// false sentinel at both ends, so line i of a is changedA[i+1].
func align(a, b []int) (changedA, changedB []bool) {
	changedA = make([]bool, len(a)+2)
	changedB = make([]bool, len(b)+2)

	countsA := make(map[int]int, len(a))
	for _, k := range a {
		countsA[k]++
	}
	countsB := make(map[int]int, len(b))
	for _, k := range b {
		countsB[k]++
	}

	marksA := discardConfusing(a, countsB)
	marksB := discardConfusing(b, countsA)

	c := &comparer{changedA: changedA, changedB: changedB}
	for i, k := range a {
		if marksA[i] == discard {
			changedA[i+1] = true
			continue
		}
		c.xs = append(c.xs, k)
		c.xIndex = append(c.xIndex, i)
	}
	for j, k := range b {
		if marksB[j] == discard {
			changedB[j+1] = true
			continue
		}
		c.ys = append(c.ys, k)
		c.yIndex = append(c.yIndex, j)
	}

	diags := len(c.xs) + len(c.ys) + 3
	c.fd = make([]int, diags)
	c.bd = make([]int, diags)
	c.doff = len(c.ys) + 1
	c.compare(0, len(c.xs), 0, len(c.ys))

	shiftBoundaries(a, changedA, changedB)
	shiftBoundaries(b, changedB, changedA)
	return changedA, changedB
}

// comparer runs the linear-space search over the lines that survived the
// discard pass, and maps its findings back to the full sequences.
type comparer struct {
	xs, ys         []int
	xIndex, yIndex []int
	changedA       []bool
	changedB       []bool

	// Furthest-reaching x per diagonal for the forward and backward
	// searches. Diagonal d lives at index d+doff.
	fd, bd []int
	doff   int
}

func (c *comparer) compare(xoff, xlim, yoff, ylim int) {
	for xoff < xlim && yoff < ylim && c.xs[xoff] == c.ys[yoff] {
		xoff++
		yoff++
	}
	for xoff < xlim && yoff < ylim && c.xs[xlim-1] == c.ys[ylim-1] {
		xlim--
		ylim--
	}

	switch {
	case xoff == xlim:
		for y := yoff; y < ylim; y++ {
			c.changedB[c.yIndex[y]+1] = true
		}
	case yoff == ylim:
		for x := xoff; x < xlim; x++ {
			c.changedA[c.xIndex[x]+1] = true
		}
	default:
		xmid, ymid := c.split(xoff, xlim, yoff, ylim)
		c.compare(xoff, xmid, yoff, ymid)
		c.compare(xmid, xlim, ymid, ylim)
	}
}

// split finds a point on an optimal edit path through the box
// [xoff,xlim) x [yoff,ylim) by running the forward and backward searches
// towards each other until they overlap.
func (c *comparer) split(xoff, xlim, yoff, ylim int) (int, int) {
	fd := func(d int) *int { return &c.fd[d+c.doff] }
	bd := func(d int) *int { return &c.bd[d+c.doff] }

	dmin, dmax := xoff-ylim, xlim-yoff
	fmid, bmid := xoff-yoff, xlim-ylim
	fmin, fmax := fmid, fmid
	bmin, bmax := bmid, bmid
	odd := (fmid-bmid)&1 != 0

	*fd(fmid) = xoff
	*bd(bmid) = xlim

	for {
		if fmin > dmin {
			fmin--
			*fd(fmin - 1) = -1
		} else {
			fmin++
		}
		if fmax < dmax {
			fmax++
			*fd(fmax + 1) = -1
		} else {
			fmax--
		}
		for d := fmax; d >= fmin; d -= 2 {
			lo, hi := *fd(d - 1), *fd(d + 1)
			x := lo + 1
			if lo < hi {
				x = hi
			}
			y := x - d
			for x < xlim && y < ylim && c.xs[x] == c.ys[y] {
				x++
				y++
			}
			*fd(d) = x
			if odd && bmin <= d && d <= bmax && *bd(d) <= x {
				return x, y
			}
		}

		if bmin > dmin {
			bmin--
			*bd(bmin - 1) = math.MaxInt
		} else {
			bmin++
		}
		if bmax < dmax {
			bmax++
			*bd(bmax + 1) = math.MaxInt
		} else {
			bmax--
		}
		for d := bmax; d >= bmin; d -= 2 {
			lo, hi := *bd(d - 1), *bd(d + 1)
			x := hi - 1
			if lo < hi {
				x = lo
			}
			y := x - d
			for xoff < x && yoff < y && c.xs[x-1] == c.ys[y-1] {
				x--
				y--
			}
			*bd(d) = x
			if !odd && fmin <= d && d <= fmax && x <= *fd(d) {
				return x, y
			}
		}
	}
}
