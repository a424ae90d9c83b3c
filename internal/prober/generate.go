package prober

import "github.com/invertome/hcr-prober/internal/sequence"

// Generate slides a windowSize window across the reverse complement of
// seq and returns one candidate per start offset, in ascending offset
// order. That order is the 5'→3' scan on the reverse complement and
// fixes every downstream tie-break. A sequence shorter than the window
// yields no candidates.
func Generate(seq string, windowSize int) []Candidate {
	rc := sequence.RevComp(seq)
	if windowSize <= 0 || len(rc) < windowSize {
		return nil
	}

	candidates := make([]Candidate, 0, len(rc)-windowSize+1)
	for i := 0; i+windowSize <= len(rc); i++ {
		candidates = append(candidates, Candidate{
			Window:   rc[i : i+windowSize],
			StartRev: i,
		})
	}

	return candidates
}
