package blast

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"
)

// highQualityBitscore is the fixed internal threshold the
// best-coverage strategy applies when making its final unique-probe
// selection. It is deliberately independent of the user-supplied
// minimum bitscore.
const highQualityBitscore = 75.0

// Strategy selects passing pair ids from the plausible-hit subset.
// Exactly one variant exists per selection mode; the variant is
// resolved once at configuration time.
type Strategy interface {
	Name() string
	pass(plausible []Hit) map[string]bool
}

// AnyStrongHit passes every pair with at least one plausible hit.
type AnyStrongHit struct{}

// Name implements Strategy.
func (AnyStrongHit) Name() string { return "any-strong-hit" }

func (AnyStrongHit) pass(plausible []Hit) map[string]bool {
	passed := make(map[string]bool)
	for _, h := range plausible {
		passed[h.PairID] = true
	}
	return passed
}

// SpecificID passes pairs that hit the named transcript and nothing
// else.
type SpecificID struct {
	TargetID string
}

// Name implements Strategy.
func (SpecificID) Name() string { return "specific-id" }

func (s SpecificID) pass(plausible []Hit) map[string]bool {
	onTarget := make(map[string]bool)
	offTarget := make(map[string]bool)
	for _, h := range plausible {
		if h.HitID == s.TargetID {
			onTarget[h.PairID] = true
		} else {
			offTarget[h.PairID] = true
		}
	}

	passed := make(map[string]bool)
	for id := range onTarget {
		if !offTarget[id] {
			passed[id] = true
		}
	}
	return passed
}

// BestCoverage ranks candidate transcripts by how many distinct pairs
// hit them (breadth) and their mean bitscore (quality), then passes
// pairs unique to the top-ranked transcript among high-quality hits.
type BestCoverage struct{}

// Name implements Strategy.
func (BestCoverage) Name() string { return "best-coverage" }

func (BestCoverage) pass(plausible []Hit) map[string]bool {
	type score struct {
		id      string
		breadth int
		quality float64
	}

	byTranscript := make(map[string][]Hit)
	for _, h := range plausible {
		byTranscript[h.HitID] = append(byTranscript[h.HitID], h)
	}
	if len(byTranscript) == 0 {
		return map[string]bool{}
	}

	scores := make([]score, 0, len(byTranscript))
	for id, hits := range byTranscript {
		pairs := make(map[string]bool)
		sum := 0.0
		for _, h := range hits {
			pairs[h.PairID] = true
			sum += h.Bitscore
		}
		scores = append(scores, score{
			id:      id,
			breadth: len(pairs),
			quality: sum / float64(len(hits)),
		})
	}

	sort.Slice(scores, func(i, j int) bool {
		if scores[i].breadth != scores[j].breadth {
			return scores[i].breadth > scores[j].breadth
		}
		if scores[i].quality != scores[j].quality {
			return scores[i].quality > scores[j].quality
		}
		return scores[i].id < scores[j].id
	})
	best := scores[0]
	logrus.Infof("best-supported transcript %q (breadth %d, mean bitscore %.2f)", best.id, best.breadth, best.quality)

	// final strict selection uses the fixed internal threshold
	onBest := make(map[string]bool)
	offBest := make(map[string]bool)
	for _, h := range plausible {
		if h.Bitscore < highQualityBitscore {
			continue
		}
		if h.HitID == best.id {
			onBest[h.PairID] = true
		} else {
			offBest[h.PairID] = true
		}
	}

	passed := make(map[string]bool)
	for id := range onBest {
		if !offBest[id] {
			passed[id] = true
		}
	}
	return passed
}

// ParseStrategy resolves a strategy name, once, at configuration time.
// specific-id requires a target transcript id.
func ParseStrategy(name, targetID string) (Strategy, error) {
	switch name {
	case "any-strong-hit", "":
		return AnyStrongHit{}, nil
	case "specific-id":
		if targetID == "" {
			return nil, fmt.Errorf("the specific-id strategy requires a target transcript id")
		}
		return SpecificID{TargetID: targetID}, nil
	case "best-coverage":
		return BestCoverage{}, nil
	}
	return nil, fmt.Errorf("unknown selection strategy %q", name)
}

// Report carries the plausible-hit table for the run summary, so every
// job's screen is auditable even when nothing passed.
type Report struct {
	PlausibleHits []Hit
}

// Screen computes the set of pair ids passing the positive specificity
// screen. Hits are first reduced to the plausible subset
// (bitscore >= minBitscore and evalue <= maxEvalue), then the strategy
// selects from that subset. An empty plausible subset passes nothing.
func Screen(hits []Hit, strategy Strategy, minBitscore, maxEvalue float64) (map[string]bool, Report) {
	var plausible []Hit
	for _, h := range hits {
		if h.Bitscore >= minBitscore && h.EValue <= maxEvalue {
			plausible = append(plausible, h)
		}
	}

	report := Report{PlausibleHits: plausible}
	if len(plausible) == 0 {
		return map[string]bool{}, report
	}

	return strategy.pass(plausible), report
}
