package priceaction

import (
	"math"
	"time"

	"github.com/dnldd/trend/shared"
)

// RefineConfig represents the trend refinement configuration.
type RefineConfig struct {
	// PullbackSignificance is the absolute fractional change at or above which a move that
	// fails to break the previous extreme is still treated as a trend.
	PullbackSignificance float64
	// BridgeConsolidations enables merging [X][short consolidation][X] into a single X.
	BridgeConsolidations bool
	// SmallBridgeSpan is the duration a bridging consolidation must stay under to be merged.
	SmallBridgeSpan time.Duration
}

// absorbReversal applies pullback and rally absorption to the current interval against the
// intervals refined so far. It returns the possibly relabeled or extended interval and the
// refined list with any absorbed reversal removed.
func absorbReversal(refined []shared.Interval, current shared.Interval, significance float64) ([]shared.Interval, shared.Interval) {
	previous := refined[len(refined)-1]
	significant := math.Abs(current.PctChange) >= significance

	var before *shared.Interval
	if len(refined) >= 2 {
		before = &refined[len(refined)-2]
	}

	switch current.Trend {
	case shared.Up:
		switch {
		case current.HighPrice <= previous.HighPrice && !significant:
			// A rally that fails to clear the previous high is noise within a range.
			current = current.WithTrend(shared.Consolidation)
		case before != nil && before.Trend == shared.Up && previous.Trend != shared.Up &&
			current.HighPrice > before.HighPrice:
			// Breaking the prior up leg's high ends the pullback, the pullback joins the trend.
			current = shared.MergeIntervals(previous, current, shared.Up)
			refined = refined[:len(refined)-1]
		}

	case shared.Down:
		switch {
		case current.LowPrice >= previous.LowPrice && !significant:
			current = current.WithTrend(shared.Consolidation)
		case before != nil && before.Trend == shared.Down && previous.Trend != shared.Down &&
			current.LowPrice < before.LowPrice:
			current = shared.MergeIntervals(previous, current, shared.Down)
			refined = refined[:len(refined)-1]
		}
	}

	return refined, current
}

// bridgeConsolidations merges every [X][consolidation shorter than span][X] run into one X.
func bridgeConsolidations(intervals []shared.Interval, span time.Duration) []shared.Interval {
	if len(intervals) < 3 {
		return intervals
	}

	bridged := make([]shared.Interval, 0, len(intervals))
	idx := 0
	for idx < len(intervals) {
		if idx+2 < len(intervals) &&
			intervals[idx].Trend == intervals[idx+2].Trend &&
			intervals[idx+1].Trend == shared.Consolidation &&
			intervals[idx+1].Duration < span {
			trend := intervals[idx].Trend
			merged := shared.MergeIntervals(intervals[idx], intervals[idx+1], trend)
			merged = shared.MergeIntervals(merged, intervals[idx+2], trend)
			bridged = append(bridged, merged)
			idx += 3
			continue
		}

		bridged = append(bridged, intervals[idx])
		idx++
	}

	return bridged
}

// RefineTrends reduces fragmentation of the provided intervals. Non-breaking reversals are
// absorbed into the enclosing trend or relabeled consolidation, same-type neighbours are
// merged and, when enabled, short consolidations between matching trends are bridged.
// No two adjacent intervals of the result share a trend type.
func RefineTrends(intervals []shared.Interval, cfg RefineConfig) []shared.Interval {
	if len(intervals) <= 1 {
		return append([]shared.Interval(nil), intervals...)
	}

	refined := make([]shared.Interval, 0, len(intervals))
	refined = append(refined, intervals[0])

	for idx := 1; idx < len(intervals); idx++ {
		var current shared.Interval
		refined, current = absorbReversal(refined, intervals[idx], cfg.PullbackSignificance)

		last := len(refined) - 1
		if refined[last].Trend == current.Trend {
			refined[last] = shared.MergeIntervals(refined[last], current, current.Trend)
			continue
		}

		refined = append(refined, current)
	}

	if cfg.BridgeConsolidations {
		refined = bridgeConsolidations(refined, cfg.SmallBridgeSpan)
	}

	return refined
}
