package myers

// Discard states for a line.
const (
	keep        = 0
	discard     = 1 // no match on the other side
	provisional = 2 // matches too often to be useful, kept unless inside a discard run
)

// discardConfusing marks lines of keys that cannot help the search. Lines
// with no equivalent in other are always discarded. Lines whose equivalents
// occur very often in other are discarded only when they sit inside a run
// of discarded lines.
func discardConfusing(keys []int, otherCounts map[int]int) []byte {
	end := len(keys)
	marks := make([]byte, end)

	many := 5
	for tem := end / 64; ; {
		tem >>= 2
		if tem <= 0 {
			break
		}
		many *= 2
	}

	for i, k := range keys {
		switch n := otherCounts[k]; {
		case n == 0:
			marks[i] = discard
		case n > many:
			marks[i] = provisional
		}
	}

	for i := 0; i < end; i++ {
		switch marks[i] {
		case keep:
			continue
		case provisional:
			// A run never starts with a provisional line.
			marks[i] = keep
			continue
		}

		j := i
		count := 0
		for ; j < end && marks[j] != keep; j++ {
			if marks[j] == provisional {
				count++
			}
		}
		// Nor does it end with one.
		for j > i && marks[j-1] == provisional {
			j--
			marks[j] = keep
			count--
		}
		length := j - i

		if count*4 > length {
			// Too many provisionals: keep all of them.
			for k := i; k < j; k++ {
				if marks[k] == provisional {
					marks[k] = keep
				}
			}
			i = j - 1
			continue
		}

		// minimum approximates sqrt(length/4). Subruns of provisionals at
		// least that long are kept.
		minimum := 1
		for tem := length >> 2; ; {
			tem >>= 2
			if tem <= 0 {
				break
			}
			minimum <<= 1
		}
		minimum++

		consec := 0
		for k := 0; k < length; k++ {
			switch {
			case marks[i+k] != provisional:
				consec = 0
			case consec+1 == minimum:
				consec++
				k -= consec
			case consec+1 > minimum:
				consec++
				marks[i+k] = keep
			default:
				consec++
			}
		}

		// Keep provisionals near either end of the run until three real
		// discards appear in a row, or a real discard eight lines in.
		trimEdge(marks, length, func(k int) int { return i + k })
		last := i + length - 1
		trimEdge(marks, length, func(k int) int { return last - k })

		i = last
	}
	return marks
}

func trimEdge(marks []byte, length int, at func(int) int) {
	consec := 0
	for k := 0; k < length; k++ {
		p := at(k)
		if k >= 8 && marks[p] == discard {
			return
		}
		switch marks[p] {
		case provisional:
			marks[p] = keep
			consec = 0
		case keep:
			consec = 0
		default:
			consec++
		}
		if consec == 3 {
			return
		}
	}
}
