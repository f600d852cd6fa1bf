package priceaction

import (
	"time"

	"github.com/dnldd/trend/shared"
)

// MergeConsolidations coalesces runs of consolidation intervals separated by no more than
// maxGap. Trend intervals and larger gaps end a run, trend intervals pass through unchanged.
func MergeConsolidations(intervals []shared.Interval, maxGap time.Duration) []shared.Interval {
	merged := make([]shared.Interval, 0, len(intervals))

	var pending shared.Interval
	var hasPending bool
	for idx := range intervals {
		current := intervals[idx]

		if current.Trend != shared.Consolidation {
			if hasPending {
				merged = append(merged, pending)
				hasPending = false
			}
			merged = append(merged, current)
			continue
		}

		switch {
		case !hasPending:
			pending = current
			hasPending = true
		case current.Start.Sub(pending.End) <= maxGap:
			pending = shared.MergeIntervals(pending, current, shared.Consolidation)
		default:
			merged = append(merged, pending)
			pending = current
		}
	}

	if hasPending {
		merged = append(merged, pending)
	}

	return merged
}
