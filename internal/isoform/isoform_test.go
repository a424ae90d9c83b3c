package isoform

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invertome/hcr-prober/internal/interval"
	"github.com/invertome/hcr-prober/internal/seqio"
)

// stubAligner returns canned coverage per query sequence.
type stubAligner struct {
	coverage map[string][]interval.Interval
}

func (s stubAligner) Coverage(ref, query string) ([]interval.Interval, error) {
	return s.coverage[query], nil
}

func TestGroupByPrefix(t *testing.T) {
	records := []seqio.Record{
		{ID: "shh_iso1", Seq: "AAAA"},
		{ID: "shh_iso2", Seq: "CCCC"},
		{ID: "wnt_iso1", Seq: "GGGG"},
		{ID: "bare", Seq: "TTTT"},
	}

	groups := GroupByPrefix(records, "_")
	require.Len(t, groups, 3)
	assert.Equal(t, map[string]string{"shh_iso1": "AAAA", "shh_iso2": "CCCC"}, groups["shh"])
	assert.Equal(t, map[string]string{"wnt_iso1": "GGGG"}, groups["wnt"])
	assert.Equal(t, map[string]string{"bare": "TTTT"}, groups["bare"])
}

func TestCommonRegionsSingleSequence(t *testing.T) {
	refID, common, err := CommonRegions(map[string]string{"g_iso1": strings.Repeat("A", 80)}, nil, 52)
	require.NoError(t, err)
	assert.Equal(t, "g_iso1", refID)
	assert.Equal(t, []interval.Interval{{Start: 0, End: 80}}, common)
}

func TestCommonRegionsEmptyGroup(t *testing.T) {
	_, _, err := CommonRegions(map[string]string{}, nil, 52)
	assert.Error(t, err)
}

func TestCommonRegionsIntersection(t *testing.T) {
	ref := strings.Repeat("A", 300)
	group := map[string]string{
		"g_ref":  ref,
		"g_iso2": "Q2",
		"g_iso3": "Q3",
	}
	al := stubAligner{coverage: map[string][]interval.Interval{
		"Q2": {{Start: 0, End: 200}},
		"Q3": {{Start: 100, End: 300}},
	}}

	refID, common, err := CommonRegions(group, al, 52)
	require.NoError(t, err)
	assert.Equal(t, "g_ref", refID)
	assert.Equal(t, []interval.Interval{{Start: 100, End: 200}}, common)
}

func TestCommonRegionsMinLen(t *testing.T) {
	ref := strings.Repeat("A", 300)
	group := map[string]string{
		"g_ref":  ref,
		"g_iso2": "Q2",
	}
	al := stubAligner{coverage: map[string][]interval.Interval{
		"Q2": {{Start: 0, End: 30}, {Start: 100, End: 200}},
	}}

	_, common, err := CommonRegions(group, al, 52)
	require.NoError(t, err)
	assert.Equal(t, []interval.Interval{{Start: 100, End: 200}}, common, "sub-footprint fragment dropped")
}

func TestCommonRegionsNoCoverage(t *testing.T) {
	group := map[string]string{
		"g_ref":  strings.Repeat("A", 300),
		"g_iso2": "Q2",
	}
	al := stubAligner{coverage: map[string][]interval.Interval{}}

	refID, common, err := CommonRegions(group, al, 52)
	require.NoError(t, err)
	assert.Equal(t, "g_ref", refID)
	assert.Empty(t, common, "unalignable isoform means no common region, not an error")
}

// failingAligner always errors, standing in for an alignment backend
// rejecting its input.
type failingAligner struct{}

func (failingAligner) Coverage(ref, query string) ([]interval.Interval, error) {
	return nil, fmt.Errorf("illegal letter")
}

func TestCommonRegionsAlignerFailure(t *testing.T) {
	group := map[string]string{
		"g_ref":  strings.Repeat("A", 300),
		"g_iso2": "Q2",
	}

	refID, common, err := CommonRegions(group, failingAligner{}, 52)
	require.NoError(t, err, "aligner failure degrades to no coverage, never aborts")
	assert.Equal(t, "g_ref", refID)
	assert.Empty(t, common)
}

func TestSWAlignerIdenticalSequences(t *testing.T) {
	seq := strings.Repeat("ATGCGTACGTTAGCATCGAT", 10) // 200 nt

	covered, err := NewSWAligner().Coverage(seq, seq)
	require.NoError(t, err)
	assert.Equal(t, []interval.Interval{{Start: 0, End: len(seq)}}, covered)
}

func TestSWAlignerSharedCore(t *testing.T) {
	// two isoforms that share a 100 nt core with distinct flanks
	core := strings.Repeat("ATGCGTACGT", 10)
	ref := strings.Repeat("CCCCCAAAAA", 5) + core + strings.Repeat("GGGGGTTTTT", 5)
	qry := strings.Repeat("TGTGA", 4) + core

	covered, err := NewSWAligner().Coverage(ref, qry)
	require.NoError(t, err)
	require.NotEmpty(t, covered)

	// the shared core sits at [50, 150) on the reference; coverage
	// must include it
	hit := interval.Intersect(covered, []interval.Interval{{Start: 50, End: 150}})
	require.Len(t, hit, 1)
	assert.Equal(t, interval.Interval{Start: 50, End: 150}, hit[0])
}

func TestSWAlignerAmbiguousBases(t *testing.T) {
	// transcripts with N (or any IUPAC code) must still align rather
	// than error out of the gapped-DNA alphabet
	core := strings.Repeat("ATGCGTACGT", 10)
	ref := core + "N" + core

	covered, err := NewSWAligner().Coverage(ref, core)
	require.NoError(t, err)
	require.NotEmpty(t, covered)

	hit := interval.Intersect(covered, []interval.Interval{{Start: 0, End: 100}})
	require.Len(t, hit, 1)
	assert.Equal(t, interval.Interval{Start: 0, End: 100}, hit[0])
}

func TestSWAlignerEmpty(t *testing.T) {
	covered, err := NewSWAligner().Coverage("", "ACGT")
	require.NoError(t, err)
	assert.Nil(t, covered)
}

func TestCommonRegionsIdenticalIsoforms(t *testing.T) {
	seq := strings.Repeat("ATGCGTACGTTAGCATCGAT", 10)
	group := map[string]string{"g_iso1": seq, "g_iso2": seq}

	_, common, err := CommonRegions(group, NewSWAligner(), 52)
	require.NoError(t, err)
	assert.Equal(t, []interval.Interval{{Start: 0, End: len(seq)}}, common)
}
