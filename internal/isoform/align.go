package isoform

import (
	"strings"

	"github.com/biogo/biogo/align"
	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/seq/linear"

	"github.com/invertome/hcr-prober/internal/interval"
)

// SWAligner computes reference coverage with an in-process affine-gap
// Smith-Waterman alignment. Scores default to match 2, mismatch -1,
// gap open -5, gap extend -2, the parameters HCR isoform comparison
// has always used.
type SWAligner struct {
	Match     int
	Mismatch  int
	GapOpen   int
	GapExtend int
}

// NewSWAligner returns an aligner with the standard scoring scheme.
func NewSWAligner() SWAligner {
	return SWAligner{Match: 2, Mismatch: -1, GapOpen: -5, GapExtend: -2}
}

// Coverage aligns query locally against ref and returns the normalized
// reference intervals where both sequences are present (gap segments
// on either side do not count as covered).
func (a SWAligner) Coverage(ref, query string) ([]interval.Interval, error) {
	if ref == "" || query == "" {
		return nil, nil
	}

	refSeq := linear.NewSeq("ref", alphabet.BytesToLetters(sanitize(ref)), alphabet.DNAgapped)
	qrySeq := linear.NewSeq("query", alphabet.BytesToLetters(sanitize(query)), alphabet.DNAgapped)

	m, x, e := a.Match, a.Mismatch, a.GapExtend
	sw := align.SWAffine{
		// rows/cols follow the DNAgapped letter order: -, a, c, g, t
		Matrix: align.Linear{
			{0, e, e, e, e},
			{e, m, x, x, x},
			{e, x, m, x, x},
			{e, x, x, m, x},
			{e, x, x, x, m},
		},
		GapOpen: a.GapOpen,
	}

	segments, err := sw.Align(refSeq, qrySeq)
	if err != nil {
		return nil, err
	}

	var covered []interval.Interval
	for _, seg := range segments {
		f := seg.Features()
		if f[0].Len() == 0 || f[1].Len() == 0 {
			continue
		}
		covered = append(covered, interval.Interval{Start: f[0].Start(), End: f[0].End()})
	}

	return interval.Merge(covered), nil
}

// ambiguityFirst maps each IUPAC ambiguity code to the first concrete
// base it can stand for.
var ambiguityFirst = map[byte]byte{
	'r': 'a', 'y': 'c', 's': 'c', 'w': 'a',
	'k': 'g', 'm': 'a', 'b': 'c', 'd': 'a',
	'h': 'a', 'v': 'a', 'n': 'a', 'u': 't',
}

// sanitize lowercases seq and collapses anything outside ACGT to a
// concrete base so the gapped-DNA alphabet accepts every letter.
// Transcripts carry N and other IUPAC codes occasionally; they must
// degrade alignment quality, never abort it.
func sanitize(seq string) []byte {
	out := []byte(strings.ToLower(seq))
	for i, c := range out {
		switch c {
		case 'a', 'c', 'g', 't':
		default:
			b, ok := ambiguityFirst[c]
			if !ok {
				b = 'a'
			}
			out[i] = b
		}
	}
	return out
}
