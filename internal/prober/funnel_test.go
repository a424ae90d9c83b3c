package prober

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invertome/hcr-prober/internal/interval"
	"github.com/invertome/hcr-prober/internal/thermo"
)

// testSeq returns a deterministic 200 nt sequence with mixed
// composition, long enough for several 52 nt windows.
func testSeq() string {
	rng := rand.New(rand.NewSource(7))
	bases := "ACGT"
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteByte(bases[rng.Intn(4)])
	}
	return b.String()
}

func openParams() Params {
	return Params{
		WindowSize:     52,
		ProbeLen:       25,
		SpacerLen:      2,
		MinGC:          0,
		MaxGC:          100,
		MinTm:          0,
		MaxTm:          200,
		MaxHomopolymer: 52,
		MaxGCDiff:      100,
	}
}

func TestDesignAuditOrderAndMonotonicity(t *testing.T) {
	p := openParams()
	p.Skip5Prime = 20
	p.MinGC, p.MaxGC = 40, 60
	p.MinTm, p.MaxTm = 40, 80
	p.MaxHomopolymer = 4
	p.MaxGCDiff = 15

	seq := testSeq()
	candidates, audit := Design(seq, p, thermo.DefaultConditions)

	entries := audit.Entries()
	wantStages := []string{
		StageInitial, Stage5PrimeSkip, StageThermo,
		StageGCBalance, StageTm, StageOverlap,
	}
	require.Len(t, entries, len(wantStages))
	for i, e := range entries {
		assert.Equal(t, wantStages[i], e.Stage)
	}

	assert.Equal(t, len(seq)-52+1, entries[0].Count)
	for i := 1; i < len(entries); i++ {
		assert.LessOrEqual(t, entries[i].Count, entries[i-1].Count, "stage %s grew", entries[i].Stage)
	}
	assert.Equal(t, len(candidates), audit.Last())
}

func TestDesignOpenFiltersKeepEverythingExceptOverlap(t *testing.T) {
	seq := testSeq()
	candidates, audit := Design(seq, openParams(), thermo.DefaultConditions)

	entries := audit.Entries()
	// with no 5' skip and wide-open thresholds, every window survives
	// until the spatial-diversity stage
	for _, e := range entries[:len(entries)-1] {
		assert.Equal(t, 149, e.Count, e.Stage)
	}

	// 200 nt / 52 nt windows: at most 3 non-overlapping
	assert.Len(t, candidates, 3)
}

func TestDesignEmptySequence(t *testing.T) {
	candidates, audit := Design("", openParams(), thermo.DefaultConditions)
	assert.Empty(t, candidates)
	assert.Equal(t, 0, audit.Entries()[0].Count)
}

func TestDesign5PrimeSkip(t *testing.T) {
	p := openParams()
	p.Skip5Prime = 100

	seq := testSeq()
	_, audit := Design(seq, p, thermo.DefaultConditions)

	// windows with startRev >= len-skip are dropped
	entries := audit.Entries()
	assert.Equal(t, 100, entries[1].Count)
}

func TestDesignRegionMask(t *testing.T) {
	p := openParams()
	seq := testSeq()

	// mask the whole sense strand: nothing can survive
	p.MaskRegions = []interval.Interval{{Start: 0, End: len(seq)}}
	candidates, audit := Design(seq, p, thermo.DefaultConditions)
	assert.Empty(t, candidates)

	var maskCount *AuditEntry
	for i := range audit.Entries() {
		if audit.Entries()[i].Stage == StageRegionMask {
			maskCount = &audit.Entries()[i]
		}
	}
	require.NotNil(t, maskCount)
	assert.Equal(t, 0, maskCount.Count)

	// mask only the sense 3' half: windows whose footprint falls
	// entirely in the 5' half survive
	p.MaskRegions = []interval.Interval{{Start: 0, End: 100}}
	candidates, _ = Design(seq, p, thermo.DefaultConditions)
	for _, c := range candidates {
		start := len(seq) - c.StartRev - p.WindowSize
		assert.GreaterOrEqual(t, start, 100)
	}
	assert.NotEmpty(t, candidates)
}

func TestDesignSequenceMask(t *testing.T) {
	p := openParams()
	seq := testSeq()

	// ban a subsequence present in the reverse complement
	rc := revCompOf(t, seq)
	p.MaskSequences = []string{strings.ToLower(rc[10:30])}

	candidates, _ := Design(seq, p, thermo.DefaultConditions)
	for _, c := range candidates {
		assert.NotContains(t, strings.ToUpper(c.Window), strings.ToUpper(rc[10:30]))
	}
}

func revCompOf(t *testing.T, seq string) string {
	t.Helper()
	candidates := Generate(seq, len(seq))
	require.Len(t, candidates, 1)
	return candidates[0].Window
}

func TestDesignHomopolymerFilter(t *testing.T) {
	p := openParams()
	p.MaxHomopolymer = 4

	// poly-A sequence: its reverse complement is poly-T, every window
	// is one long homopolymer
	seq := strings.Repeat("A", 120)
	candidates, _ := Design(seq, p, thermo.DefaultConditions)
	assert.Empty(t, candidates)
}

func TestDesignGCBalanceAnnotates(t *testing.T) {
	p := openParams()
	candidates, _ := Design(testSeq(), p, thermo.DefaultConditions)
	require.NotEmpty(t, candidates)

	for _, c := range candidates {
		assert.Len(t, c.ProbeDn, p.ProbeLen)
		assert.Len(t, c.ProbeUp, p.WindowSize-p.ProbeLen-p.SpacerLen)
		assert.Equal(t, c.Window[:p.ProbeLen], c.ProbeDn)
		assert.Equal(t, c.Window[p.ProbeLen+p.SpacerLen:], c.ProbeUp)
		assert.Greater(t, c.TmDn, 0.0)
		assert.Greater(t, c.TmUp, 0.0)
	}
}

func TestFormat(t *testing.T) {
	p := openParams()
	seq := testSeq()
	candidates, _ := Design(seq, p, thermo.DefaultConditions)
	require.NotEmpty(t, candidates)

	amp := Amplifier{Up: "GAGGAGGGCAGCAAACGG", Dn: "GAAGAGTCTTCCTTTACG", UpSpc: "WW", DnSpc: "WW"}
	rng := rand.New(rand.NewSource(3))
	pairs := Format(candidates, "shh", amp, len(seq), p.WindowSize, rng)

	require.Len(t, pairs, len(candidates))
	for i, pr := range pairs {
		assert.Equal(t, i+1, pr.Num)
		assert.Contains(t, pr.ID, "shh_pair_")
		assert.Equal(t, len(seq)-pr.StartRev-p.WindowSize, pr.StartSense)
		assert.True(t, strings.HasPrefix(pr.FinalUp, amp.Up))
		assert.True(t, strings.HasSuffix(pr.FinalDn, amp.Dn))
		assert.True(t, strings.HasSuffix(pr.FinalUp, pr.ProbeUp))
		assert.True(t, strings.HasPrefix(pr.FinalDn, pr.ProbeDn))
		assert.Equal(t, pr.ProbeDn+"nn"+pr.ProbeUp, pr.Query())
	}
}

func TestFormatSeededSpacers(t *testing.T) {
	p := openParams()
	seq := testSeq()
	candidates, _ := Design(seq, p, thermo.DefaultConditions)
	amp := Amplifier{Up: "AAA", Dn: "TTT", UpSpc: "WWSS", DnSpc: "RRYY"}

	a := Format(candidates, "g", amp, len(seq), p.WindowSize, rand.New(rand.NewSource(9)))
	b := Format(candidates, "g", amp, len(seq), p.WindowSize, rand.New(rand.NewSource(9)))
	assert.Equal(t, a, b)
}
