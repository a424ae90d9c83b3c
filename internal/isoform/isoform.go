// Package isoform finds the regions of a gene's reference transcript
// that are shared by every isoform in its group, so probes can be
// designed against common or isoform-specific sequence separately.
package isoform

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/invertome/hcr-prober/internal/interval"
	"github.com/invertome/hcr-prober/internal/seqio"
)

// Aligner yields the reference-coordinate intervals a query sequence
// covers when aligned against the reference. An unalignable pair
// returns an empty set, not an error.
type Aligner interface {
	Coverage(ref, query string) ([]interval.Interval, error)
}

// GroupByPrefix buckets sequences by the part of their id before the
// first delimiter, e.g. "shh_iso1" and "shh_iso2" both land under
// "shh".
func GroupByPrefix(records []seqio.Record, delimiter string) map[string]map[string]string {
	groups := make(map[string]map[string]string)
	for _, r := range records {
		prefix := r.ID
		if i := strings.Index(r.ID, delimiter); i >= 0 {
			prefix = r.ID[:i]
		}
		if groups[prefix] == nil {
			groups[prefix] = make(map[string]string)
		}
		groups[prefix][r.ID] = r.Seq
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)
	logrus.Infof("identified %d gene group(s): %s", len(groups), strings.Join(names, ", "))

	return groups
}

// CommonRegions returns the id of the group's reference sequence (its
// longest member) and the normalized intervals of that reference
// covered by every other isoform. Intervals shorter than minLen are
// dropped before merging. A single-sequence group is trivially all
// common; an isoform with no alignable coverage means there is no
// common region, which is a legitimate outcome rather than an error.
func CommonRegions(group map[string]string, al Aligner, minLen int) (string, []interval.Interval, error) {
	if len(group) == 0 {
		return "", nil, fmt.Errorf("empty isoform group")
	}

	refID := pickReference(group)
	refSeq := group[refID]

	if len(group) == 1 {
		logrus.Warn("gene group has only one sequence, treating the entire sequence as common")
		return refID, []interval.Interval{{Start: 0, End: len(refSeq)}}, nil
	}

	logrus.Infof("using %q (length %d) as reference for finding common regions", refID, len(refSeq))

	common := []interval.Interval{{Start: 0, End: len(refSeq)}}
	for id, seq := range group {
		if id == refID {
			continue
		}

		covered, err := al.Coverage(refSeq, seq)
		if err != nil {
			// an aligner failure means this pair contributes no shared
			// coverage; it must never abort the whole run
			logrus.Warnf("alignment of %s against %s failed: %v", id, refID, err)
			covered = nil
		}
		if len(covered) == 0 {
			logrus.Warnf("no significant alignment between %s and %s, cannot establish common regions", refID, id)
			return refID, nil, nil
		}

		common = interval.Intersect(common, covered)
		if len(common) == 0 {
			break
		}
	}

	common = interval.Merge(interval.Filter(common, minLen))
	total := 0
	for _, iv := range common {
		total += iv.Len()
	}
	logrus.Infof("found %d common region(s) totaling %d bp", len(common), total)

	return refID, common, nil
}

// pickReference returns the id of the longest sequence, breaking
// length ties on the lexicographically smaller id for determinism.
func pickReference(group map[string]string) string {
	var refID string
	for id, seq := range group {
		switch {
		case refID == "",
			len(seq) > len(group[refID]),
			len(seq) == len(group[refID]) && id < refID:
			refID = id
		}
	}
	return refID
}
