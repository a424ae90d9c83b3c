package prober

import (
	"math"
	"strings"

	"github.com/invertome/hcr-prober/internal/interval"
	"github.com/invertome/hcr-prober/internal/sequence"
	"github.com/invertome/hcr-prober/internal/thermo"
)

// Audit stage names, in funnel execution order.
const (
	StageInitial    = "initial_windows"
	Stage5PrimeSkip = "after_5prime_skip"
	StageRegionMask = "after_region_mask"
	StageSeqMask    = "after_seq_mask"
	StageThermo     = "after_thermo_filter"
	StageGCBalance  = "after_gc_balance_filter"
	StageTm         = "after_tm_filter"
	StageOverlap    = "after_overlap_filter"
	StageFormat     = "after_formatting"
	StageBlast      = "after_blast_filter"
	StageSubsample  = "after_subsampling"
)

// Design runs the candidate generator and the full filter funnel over
// seq and returns the surviving, spatially-diverse candidates together
// with the audit trail. Stage order is fixed: later stages depend on
// annotations made by earlier ones.
func Design(seq string, p Params, cond thermo.Conditions) ([]Candidate, *Audit) {
	audit := &Audit{}

	candidates := Generate(seq, p.WindowSize)
	audit.Record(StageInitial, len(candidates))

	candidates = skip5Prime(candidates, len(seq), p.Skip5Prime)
	audit.Record(Stage5PrimeSkip, len(candidates))

	if len(p.MaskRegions) > 0 {
		candidates = maskRegions(candidates, len(seq), p.WindowSize, p.MaskRegions)
		audit.Record(StageRegionMask, len(candidates))
	}

	if len(p.MaskSequences) > 0 {
		candidates = maskSequences(candidates, p.MaskSequences)
		audit.Record(StageSeqMask, len(candidates))
	}

	candidates = thermoFilter(candidates, p)
	audit.Record(StageThermo, len(candidates))

	candidates = gcBalance(candidates, p)
	audit.Record(StageGCBalance, len(candidates))

	candidates = tmFilter(candidates, p, cond)
	audit.Record(StageTm, len(candidates))

	candidates = SelectDiverse(candidates, p.WindowSize, p.MinProbeDistance)
	audit.Record(StageOverlap, len(candidates))

	return candidates, audit
}

// skip5Prime drops windows closer than skip nt to the sense 5' end.
// On the reverse complement that end is the high-coordinate side.
func skip5Prime(candidates []Candidate, seqLen, skip int) []Candidate {
	cutoff := seqLen - skip
	var kept []Candidate
	for _, c := range candidates {
		if c.StartRev < cutoff {
			kept = append(kept, c)
		}
	}
	return kept
}

// maskRegions drops candidates whose sense-strand footprint overlaps
// any masked interval.
func maskRegions(candidates []Candidate, seqLen, windowSize int, masked []interval.Interval) []Candidate {
	var kept []Candidate
	for _, c := range candidates {
		start := seqLen - c.StartRev - windowSize
		span := interval.Interval{Start: start, End: start + windowSize}

		hit := false
		for _, m := range masked {
			if span.Overlaps(m) {
				hit = true
				break
			}
		}
		if !hit {
			kept = append(kept, c)
		}
	}
	return kept
}

// maskSequences drops candidates containing any banned subsequence,
// case-insensitively.
func maskSequences(candidates []Candidate, banned []string) []Candidate {
	upper := make([]string, len(banned))
	for i, b := range banned {
		upper[i] = strings.ToUpper(b)
	}

	var kept []Candidate
	for _, c := range candidates {
		win := strings.ToUpper(c.Window)
		hit := false
		for _, b := range upper {
			if b != "" && strings.Contains(win, b) {
				hit = true
				break
			}
		}
		if !hit {
			kept = append(kept, c)
		}
	}
	return kept
}

// thermoFilter drops candidates with a homopolymer run longer than
// MaxHomopolymer or a whole-window GC outside [MinGC, MaxGC].
func thermoFilter(candidates []Candidate, p Params) []Candidate {
	var kept []Candidate
	for _, c := range candidates {
		if sequence.HasHomopolymer(c.Window, p.MaxHomopolymer) {
			continue
		}
		gc := thermo.GCContent(c.Window)
		if gc < p.MinGC || gc > p.MaxGC {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// gcBalance splits each window into its two arms and drops pairs whose
// arm GC contents differ by more than MaxGCDiff. Survivors are
// annotated with both arm sequences.
func gcBalance(candidates []Candidate, p Params) []Candidate {
	var kept []Candidate
	for _, c := range candidates {
		dn := c.Window[:p.ProbeLen]
		up := c.Window[p.ProbeLen+p.SpacerLen:]
		if math.Abs(thermo.GCContent(dn)-thermo.GCContent(up)) > p.MaxGCDiff {
			continue
		}
		c.ProbeDn = dn
		c.ProbeUp = up
		kept = append(kept, c)
	}
	return kept
}

// tmFilter drops pairs unless both arm melting temperatures fall in
// [MinTm, MaxTm]. Survivors are annotated with both temperatures.
func tmFilter(candidates []Candidate, p Params, cond thermo.Conditions) []Candidate {
	var kept []Candidate
	for _, c := range candidates {
		tmDn := thermo.Tm(c.ProbeDn, cond)
		tmUp := thermo.Tm(c.ProbeUp, cond)
		if tmDn < p.MinTm || tmDn > p.MaxTm || tmUp < p.MinTm || tmUp > p.MaxTm {
			continue
		}
		c.TmDn = tmDn
		c.TmUp = tmUp
		kept = append(kept, c)
	}
	return kept
}
