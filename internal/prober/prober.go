// Package prober generates, filters and selects HCR probe-pair
// candidates for a single target sequence. The external concerns
// (BLAST screening, Tm computation inputs, report writing) stay in
// their own packages; this one owns the candidate funnel.
package prober

import (
	"github.com/invertome/hcr-prober/internal/interval"
)

// Candidate is one window on the reverse complement of the target.
// Funnel stages only drop candidates or annotate them; they never
// reorder the list.
type Candidate struct {
	// Window is the window sequence on the reverse complement.
	Window string

	// StartRev is the window start on the reverse complement.
	StartRev int

	// ProbeDn and ProbeUp are the two arms, set by the GC-balance
	// stage: ProbeDn is the first probeLen nt of the window, ProbeUp
	// the nt after probeLen+spacerLen.
	ProbeDn string
	ProbeUp string

	// TmDn and TmUp are the arm melting temperatures, set by the Tm
	// stage.
	TmDn float64
	TmUp float64
}

// Pair is a formatted candidate carrying the stable identifier used to
// join BLAST hits back to candidates, plus the final orderable
// sequences once an amplifier has been attached.
type Pair struct {
	Candidate

	// ID is the stable pair identifier, e.g. "shh_pair_3".
	ID string

	// Num is the 1-based pair number in sequence order.
	Num int

	// StartSense is the window start on the original sense strand.
	StartSense int

	// FinalUp and FinalDn are initiator + spacer + arm.
	FinalUp string
	FinalDn string
}

// Params are the design parameters threaded through the funnel. The
// struct is passed by value; stages never mutate shared state.
type Params struct {
	WindowSize     int
	ProbeLen       int
	SpacerLen      int
	Skip5Prime     int
	MinGC          float64
	MaxGC          float64
	MinTm          float64
	MaxTm          float64
	MaxHomopolymer int
	MaxGCDiff      float64

	// MinProbeDistance is the minimum gap between selected probe
	// footprints, on top of non-overlap.
	MinProbeDistance int

	// MaskRegions are sense-coordinate intervals to exclude,
	// normalized.
	MaskRegions []interval.Interval

	// MaskSequences are banned subsequences (e.g. repeats).
	MaskSequences []string
}

// AuditEntry is one stage's surviving-candidate count.
type AuditEntry struct {
	Stage string
	Count int
}

// Audit is the ordered, append-only record of how many candidates
// survived each pipeline stage. Every job keeps one so a zero-probe
// run is still diagnosable.
type Audit struct {
	entries []AuditEntry
}

// Record appends a stage count. Stages are never overwritten or
// reordered.
func (a *Audit) Record(stage string, count int) {
	a.entries = append(a.entries, AuditEntry{Stage: stage, Count: count})
}

// Entries returns the audit rows in pipeline execution order.
func (a *Audit) Entries() []AuditEntry {
	return a.entries
}

// Last returns the most recent count, or 0 for an empty trail.
func (a *Audit) Last() int {
	if len(a.entries) == 0 {
		return 0
	}
	return a.entries[len(a.entries)-1].Count
}
