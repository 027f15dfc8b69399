package suggest

// Distance returns the Levenshtein distance between a and b, counted in
// runes. Insertions, deletions and substitutions each cost 1.
//
// Only two rows of the (|a|+1) x (|b|+1) table are kept; b is the shorter
// string so the rows stay O(min(|a|, |b|)).
func Distance(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) < len(rb) {
		ra, rb = rb, ra
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j-1]+cost, // substitute
				prev[j]+1,      // delete
				curr[j-1]+1,    // insert
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

// lengthGap is the absolute difference in rune counts, a lower bound on Distance.
func lengthGap(a, b int) int {
	if a > b {
		return a - b
	}
	return b - a
}
