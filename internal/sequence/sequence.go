// Package sequence holds nucleotide string primitives shared by the
// probe-design pipeline: reverse complement, homopolymer detection and
// IUPAC spacer resolution.
package sequence

import (
	"math/rand"
	"strings"
)

var complement [256]byte

func init() {
	complement['A'] = 'T'
	complement['C'] = 'G'
	complement['G'] = 'C'
	complement['T'] = 'A'
	complement['R'] = 'Y'
	complement['Y'] = 'R'
	complement['S'] = 'S'
	complement['W'] = 'W'
	complement['K'] = 'M'
	complement['M'] = 'K'
	complement['B'] = 'V'
	complement['V'] = 'B'
	complement['D'] = 'H'
	complement['H'] = 'D'
	complement['N'] = 'N'
}

// RevComp returns the reverse complement of seq. Unknown characters
// come back as 'N'. Case is normalized to upper.
func RevComp(seq string) string {
	n := len(seq)
	if n == 0 {
		return ""
	}

	up := strings.ToUpper(seq)
	out := make([]byte, n)
	for i := 0; i < n; i++ {
		c := complement[up[n-1-i]]
		if c == 0 {
			c = 'N'
		}
		out[i] = c
	}

	return string(out)
}

// HasHomopolymer reports whether seq contains a run of a single base
// strictly longer than maxLen. Case-insensitive.
func HasHomopolymer(seq string, maxLen int) bool {
	up := strings.ToUpper(seq)
	run := 0
	var prev byte
	for i := 0; i < len(up); i++ {
		b := up[i]
		if b == prev {
			run++
		} else {
			prev = b
			run = 1
		}
		if run > maxLen {
			return true
		}
	}
	return false
}

// iupacChoices maps the two-fold ambiguity codes that appear in
// amplifier spacers to their concrete bases.
var iupacChoices = map[byte]string{
	'R': "AG",
	'Y': "CT",
	'S': "GC",
	'W': "AT",
	'K': "GT",
	'M': "AC",
}

// ResolveSpacer replaces each IUPAC ambiguity letter in spacer with a
// concrete base drawn from rng. Non-ambiguous characters pass through.
// The random source is explicit so callers can pin a seed when
// reproducible probe sets are required.
func ResolveSpacer(spacer string, rng *rand.Rand) string {
	var b strings.Builder
	b.Grow(len(spacer))
	for i := 0; i < len(spacer); i++ {
		c := spacer[i]
		if choices, ok := iupacChoices[toUpper(c)]; ok {
			b.WriteByte(choices[rng.Intn(len(choices))])
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

func toUpper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		return c - 'a' + 'A'
	}
	return c
}
