package myers

// shiftBoundaries slides each run of changed lines in changed as far as the
// surrounding equal lines allow, first to merge it with neighbouring runs
// and then to line it up with a run in otherChanged. Both slices carry the
// sentinels described on align.
func shiftBoundaries(keys []int, changed, otherChanged []bool) {
	end := len(keys)
	ch := func(i int) bool { return changed[i+1] }
	set := func(i int, v bool) { changed[i+1] = v }
	other := func(j int) bool { return otherChanged[j+1] }

	i, j := 0, 0
	for {
		// Find the next run, tracking the matching position in the other
		// sequence.
		for i < end && !ch(i) {
			for other(j) {
				j++
			}
			j++
			i++
		}
		if i == end {
			return
		}

		start := i
		i++
		for ch(i) {
			i++
		}
		for other(j) {
			j++
		}

		var corresponding int
		for {
			runLength := i - start

			// Move back while the previous equal line matches the last
			// changed one.
			for start > 0 && keys[start-1] == keys[i-1] {
				start--
				set(start, true)
				i--
				set(i, false)
				for ch(start - 1) {
					start--
				}
				j--
				for other(j) {
					j--
				}
			}

			corresponding = end
			if other(j - 1) {
				corresponding = i
			}

			// Then forward while the first changed line matches the next
			// equal one.
			for i != end && keys[start] == keys[i] {
				set(start, false)
				start++
				set(i, true)
				i++
				for ch(i) {
					i++
				}
				j++
				for other(j) {
					corresponding = i
					j++
				}
			}

			if runLength == i-start {
				break
			}
		}

		// Settle on the last position that lines up with a change on the
		// other side.
		for corresponding < i {
			start--
			set(start, true)
			i--
			set(i, false)
			j--
			for other(j) {
				j--
			}
		}
	}
}
