package prober

import (
	"fmt"
	"math/rand"

	"github.com/invertome/hcr-prober/internal/sequence"
)

// Amplifier is one HCR chemistry: a pair of initiator sequences plus
// the spacer codes joining each initiator to its arm. Spacer codes may
// contain IUPAC ambiguity letters.
type Amplifier struct {
	Up    string `json:"up" mapstructure:"up"`
	Dn    string `json:"dn" mapstructure:"dn"`
	UpSpc string `json:"upspc" mapstructure:"upspc"`
	DnSpc string `json:"dnspc" mapstructure:"dnspc"`
}

// Format turns surviving candidates into pairs carrying stable ids,
// sense-strand coordinates and the final orderable sequences for amp.
// Spacer ambiguity codes are resolved once per job through rng, so a
// seeded source makes the whole probe set reproducible.
func Format(candidates []Candidate, gene string, amp Amplifier, seqLen, windowSize int, rng *rand.Rand) []Pair {
	if len(candidates) == 0 {
		return nil
	}

	upSpc := sequence.ResolveSpacer(amp.UpSpc, rng)
	dnSpc := sequence.ResolveSpacer(amp.DnSpc, rng)

	pairs := make([]Pair, 0, len(candidates))
	for i, c := range candidates {
		pairs = append(pairs, Pair{
			Candidate:  c,
			ID:         fmt.Sprintf("%s_pair_%d", gene, i+1),
			Num:        i + 1,
			StartSense: seqLen - c.StartRev - windowSize,
			FinalUp:    amp.Up + upSpc + c.ProbeUp,
			FinalDn:    c.ProbeDn + dnSpc + amp.Dn,
		})
	}

	return pairs
}

// Query is the sequence a pair is screened with: the two target arms
// joined by a two-base placeholder, matching the probe pair's combined
// footprint.
func (p Pair) Query() string {
	return p.ProbeDn + "nn" + p.ProbeUp
}
