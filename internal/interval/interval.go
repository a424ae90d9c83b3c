// Package interval is a small algebra over half-open integer intervals
// on a single coordinate frame. Region masking and isoform analysis
// both build on it.
package interval

import "sort"

// Interval is a half-open span [Start, End) on the sense strand of a
// reference sequence.
type Interval struct {
	Start int
	End   int
}

// Len returns the number of positions the interval covers.
func (iv Interval) Len() int {
	return iv.End - iv.Start
}

// Overlaps reports whether two half-open intervals share any position.
func (iv Interval) Overlaps(other Interval) bool {
	lo := iv.Start
	if other.Start > lo {
		lo = other.Start
	}
	hi := iv.End
	if other.End < hi {
		hi = other.End
	}
	return lo < hi
}

// Merge sorts intervals by start and folds overlapping or adjacent
// spans into maximal ones. The input is not modified.
func Merge(ivs []Interval) []Interval {
	if len(ivs) == 0 {
		return nil
	}

	sorted := make([]Interval, len(ivs))
	copy(sorted, ivs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End < sorted[j].End
	})

	merged := []Interval{sorted[0]}
	for _, cur := range sorted[1:] {
		last := &merged[len(merged)-1]
		if cur.Start <= last.End {
			if cur.End > last.End {
				last.End = cur.End
			}
			continue
		}
		merged = append(merged, cur)
	}

	return merged
}

// Invert returns the complement of ivs over [0, total). The input may
// be raw; it is normalized first.
func Invert(total int, ivs []Interval) []Interval {
	if len(ivs) == 0 {
		if total <= 0 {
			return nil
		}
		return []Interval{{0, total}}
	}

	var inverted []Interval
	pos := 0
	for _, iv := range Merge(ivs) {
		if iv.Start > pos {
			inverted = append(inverted, Interval{pos, iv.Start})
		}
		if iv.End > pos {
			pos = iv.End
		}
	}
	if pos < total {
		inverted = append(inverted, Interval{pos, total})
	}

	return inverted
}

// Intersect returns the positions covered by both a and b, normalized.
func Intersect(a, b []Interval) []Interval {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	a = Merge(a)
	b = Merge(b)

	var out []Interval
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		lo := a[i].Start
		if b[j].Start > lo {
			lo = b[j].Start
		}
		hi := a[i].End
		if b[j].End < hi {
			hi = b[j].End
		}
		if lo < hi {
			out = append(out, Interval{lo, hi})
		}

		if a[i].End < b[j].End {
			i++
		} else {
			j++
		}
	}

	return out
}

// Filter drops intervals shorter than minLen.
func Filter(ivs []Interval, minLen int) []Interval {
	var out []Interval
	for _, iv := range ivs {
		if iv.Len() >= minLen {
			out = append(out, iv)
		}
	}
	return out
}
