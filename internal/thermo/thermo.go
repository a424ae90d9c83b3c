// Package thermo computes melting temperatures for probe arms with a
// nearest-neighbor model (SantaLucia unified parameter set) and GC
// content. Units: ΔH in kcal/mol, ΔS in cal/(K·mol), Tm in °C.
//
// Tm derivation:
//  1. Sum initiation + per-stack ΔH/ΔS + terminal AT penalties +
//     symmetry correction (1 M Na+).
//  2. Salt-correct ΔS for monovalent ions:
//     ΔS([Na+]) = ΔS(1M) + 0.368*(N-1)*ln[Na+].
//  3. Two-state Tm: Tm = ΔH*1000 / (ΔS_Na + R*ln(k)) − 273.15, with k
//     the effective strand concentration in mol/L.
package thermo

import (
	"math"
	"strings"
)

// Gas constant in cal/(K·mol).
const rCal = 1.9872

// Conditions describes strand concentrations and ionic strength.
type Conditions struct {
	Dnac1 float64 // concentration of the higher-concentrated strand (nM)
	Dnac2 float64 // concentration of the lower-concentrated strand (nM)
	Na    float64 // monovalent cations (mM)
}

// DefaultConditions match standard HCR hybridization mixes: 25 nM per
// strand, 50 mM Na+.
var DefaultConditions = Conditions{Dnac1: 25, Dnac2: 25, Na: 50}

type nnParams struct {
	dH float64
	dS float64
}

// Watson-Crick propagation parameters at 1 M Na+, keyed by the top
// strand dimer 5'→3'. SantaLucia & Hicks (2004), Table 1.
var stackParams = map[string]nnParams{
	"AA": {-7.6, -21.3},
	"TT": {-7.6, -21.3},
	"AT": {-7.2, -20.4},
	"TA": {-7.2, -21.3},
	"CA": {-8.5, -22.7},
	"TG": {-8.5, -22.7},
	"GT": {-8.4, -22.4},
	"AC": {-8.4, -22.4},
	"CT": {-7.8, -21.0},
	"AG": {-7.8, -21.0},
	"GA": {-8.2, -22.2},
	"TC": {-8.2, -22.2},
	"CG": {-10.6, -27.2},
	"GC": {-9.8, -24.4},
	"GG": {-8.0, -19.9},
	"CC": {-8.0, -19.9},
}

var (
	initDH, initDS     = 0.2, -5.7
	termATdH, termATdS = 2.2, 6.9
	symmDH, symmDS     = 0.0, -1.4
)

// GCContent returns the percentage of G and C bases in seq. An empty
// sequence yields 0.
func GCContent(seq string) float64 {
	if seq == "" {
		return 0
	}

	gc := 0
	up := strings.ToUpper(seq)
	for i := 0; i < len(up); i++ {
		if up[i] == 'G' || up[i] == 'C' {
			gc++
		}
	}

	return float64(gc) / float64(len(up)) * 100
}

// Tm returns the duplex melting temperature in Celsius of seq against
// its perfect complement under the given conditions. An empty or
// single-base sequence yields 0 rather than an error; bases outside
// ACGT contribute no stacking energy.
func Tm(seq string, cond Conditions) float64 {
	up := strings.ToUpper(strings.TrimSpace(seq))
	n := len(up)
	if n < 2 {
		return 0
	}

	dH := initDH
	dS := initDS
	for i := 0; i < n-1; i++ {
		if p, ok := stackParams[up[i:i+2]]; ok {
			dH += p.dH
			dS += p.dS
		}
	}

	if up[0] == 'A' || up[0] == 'T' {
		dH += termATdH
		dS += termATdS
	}
	if up[n-1] == 'A' || up[n-1] == 'T' {
		dH += termATdH
		dS += termATdS
	}
	if isSelfComplementary(up) {
		dH += symmDH
		dS += symmDS
	}

	// Effective strand concentration k in mol/L. For a
	// non-self-complementary duplex with both strands in excess over
	// the probe-target complex, k = dnac1 - dnac2/2 (equal strand
	// concentrations make this CT/4); a self-complementary strand
	// dimerizes with itself, k = dnac1.
	ct := (cond.Dnac1 - cond.Dnac2/2) * 1e-9
	if isSelfComplementary(up) {
		ct = cond.Dnac1 * 1e-9
	}
	if ct <= 0 {
		return 0
	}

	na := cond.Na * 1e-3
	dSNa := dS + 0.368*float64(n-1)*math.Log(na)

	tmK := dH * 1000 / (dSNa + rCal*math.Log(ct))
	return tmK - 273.15
}

func isSelfComplementary(seq string) bool {
	n := len(seq)
	for i := 0; i < n; i++ {
		var comp byte
		switch seq[n-1-i] {
		case 'A':
			comp = 'T'
		case 'T':
			comp = 'A'
		case 'C':
			comp = 'G'
		case 'G':
			comp = 'C'
		}
		if seq[i] != comp {
			return false
		}
	}
	return true
}
