package sequence

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/invertome/hcr-prober/internal/interval"
)

// ParseMaskRegions converts a human-readable region list like
// "1-100,500-650" (1-based, inclusive) into 0-based half-open
// intervals. Malformed entries are skipped with a warning rather than
// aborting the run.
func ParseMaskRegions(s string) []interval.Interval {
	if s == "" {
		return nil
	}

	var regions []interval.Interval
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		bounds := strings.SplitN(part, "-", 2)
		if len(bounds) != 2 {
			logrus.Warnf("could not parse masking region %q, ignoring", part)
			continue
		}

		start, err1 := strconv.Atoi(strings.TrimSpace(bounds[0]))
		end, err2 := strconv.Atoi(strings.TrimSpace(bounds[1]))
		if err1 != nil || err2 != nil || start < 1 || end < start {
			logrus.Warnf("could not parse masking region %q, ignoring", part)
			continue
		}

		regions = append(regions, interval.Interval{Start: start - 1, End: end})
	}

	return regions
}
