package prober

import "sort"

// SelectDiverse picks the maximum-cardinality subset of candidates in
// which any two selected windows are separated by at least
// windowSize + minDistance (non-overlap plus a minimum gap).
//
// Classic maximum-chain scheduling: sort by window start ascending
// (windows are uniform width, so that is end order too), then
// best[i] = 1 + max best[j] over compatible j < i, reconstructing the
// chain from predecessor pointers. O(N²) is fine here; N is bounded by
// the sequence length after filter attrition. Ties go to the earliest
// qualifying predecessor in scan order.
func SelectDiverse(candidates []Candidate, windowSize, minDistance int) []Candidate {
	if len(candidates) == 0 {
		return nil
	}

	ordered := make([]Candidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartRev < ordered[j].StartRev
	})

	best := make([]int, len(ordered))
	prev := make([]int, len(ordered))
	for i := range ordered {
		best[i] = 1
		prev[i] = -1
		for j := 0; j < i; j++ {
			if ordered[j].StartRev+windowSize+minDistance <= ordered[i].StartRev && best[j]+1 > best[i] {
				best[i] = best[j] + 1
				prev[i] = j
			}
		}
	}

	tail := 0
	for i := range best {
		if best[i] > best[tail] {
			tail = i
		}
	}

	var chain []Candidate
	for i := tail; i >= 0; i = prev[i] {
		chain = append(chain, ordered[i])
	}
	for l, r := 0, len(chain)-1; l < r; l, r = l+1, r-1 {
		chain[l], chain[r] = chain[r], chain[l]
	}

	return chain
}

// Subsample reduces pairs to at most n entries, evenly spaced by index
// across the position-sorted list so coverage of the transcript is
// preserved. Deterministic; a list already within the limit is
// returned unchanged.
func Subsample(pairs []Pair, n int) []Pair {
	if n >= len(pairs) {
		return pairs
	}
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []Pair{pairs[0]}
	}

	// n < len(pairs) makes step > 1, so the truncated indices are
	// strictly increasing and never repeat.
	kept := make([]Pair, 0, n)
	step := float64(len(pairs)-1) / float64(n-1)
	for i := 0; i < n; i++ {
		idx := int(float64(i) * step)
		if i == n-1 {
			idx = len(pairs) - 1 // endpoint exactly, no float truncation
		}
		kept = append(kept, pairs[idx])
	}

	return kept
}
