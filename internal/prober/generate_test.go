package prober

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/invertome/hcr-prober/internal/sequence"
)

func TestGenerateCount(t *testing.T) {
	seq := strings.Repeat("ATGC", 50) // 200 nt
	w := 52

	candidates := Generate(seq, w)
	assert.Len(t, candidates, len(seq)-w+1)

	// starts form the contiguous range [0, N-w]
	for i, c := range candidates {
		assert.Equal(t, i, c.StartRev)
		assert.Len(t, c.Window, w)
	}
}

func TestGenerateWindowsAreRevCompSlices(t *testing.T) {
	seq := "ATGCATGCATGCATGC"
	rc := sequence.RevComp(seq)

	for _, c := range Generate(seq, 8) {
		assert.Equal(t, rc[c.StartRev:c.StartRev+8], c.Window)
	}
}

func TestGenerateDegenerate(t *testing.T) {
	assert.Nil(t, Generate("", 52))
	assert.Nil(t, Generate("ATGC", 52))
	assert.Len(t, Generate("ATGC", 4), 1)
}
