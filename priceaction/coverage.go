package priceaction

import (
	"time"

	"github.com/dnldd/trend/shared"
)

// CoverageConfig represents the coverage completion configuration.
type CoverageConfig struct {
	// TailExtendGap is the largest uncovered tail absorbed by extending the last interval.
	TailExtendGap time.Duration
	// FlatTrendThreshold is the fractional change a synthesized interval must exceed to be
	// labeled a trend.
	FlatTrendThreshold float64
}

// indexAtOrBefore returns the index of the last series point dated at or before date.
func indexAtOrBefore(series shared.Series, date time.Time) int {
	idx, found := series.Index(date)
	if found {
		return idx
	}

	return max(0, idx-1)
}

// indexAtOrAfter returns the index of the first series point dated at or after date.
func indexAtOrAfter(series shared.Series, date time.Time) int {
	idx, _ := series.Index(date)
	return min(len(series)-1, idx)
}

// synthesize creates an interval over the series points [startIdx, endIdx] labeled with a
// flat fractional threshold.
func synthesize(series shared.Series, startIdx int, endIdx int, threshold float64) shared.Interval {
	pct := shared.PctChange(series[startIdx].Close, series[endIdx].Close)
	return shared.NewInterval(series, startIdx, endIdx, shared.ClassifyChange(pct, threshold))
}

// CompleteCoverage guarantees the intervals span the whole series without gaps or overlaps.
// An uncovered head is absorbed by the first interval, internal gaps by the interval before
// them, and an uncovered tail either extends the last interval or becomes a new interval.
func CompleteCoverage(series shared.Series, intervals []shared.Interval, cfg CoverageConfig) ([]shared.Interval, []shared.Recovery) {
	n := len(series)
	if n < 2 {
		return append([]shared.Interval(nil), intervals...), nil
	}

	var recoveries []shared.Recovery
	first, last := series[0].Date, series[n-1].Date

	if len(intervals) == 0 {
		return []shared.Interval{synthesize(series, 0, n-1, cfg.FlatTrendThreshold)},
			[]shared.Recovery{shared.CoverageSynthesized}
	}

	covered := make([]shared.Interval, 0, len(intervals)+1)
	for idx := range intervals {
		current := intervals[idx]
		if len(covered) == 0 {
			covered = append(covered, current)
			continue
		}

		prev := &covered[len(covered)-1]
		switch {
		case !current.End.After(prev.End):
			// Fully overlapped by what is already covered.
			recoveries = append(recoveries, shared.CoverageExtended)
			continue
		case current.Start.After(prev.End):
			*prev = shared.NewInterval(series, indexAtOrAfter(series, prev.Start),
				indexAtOrBefore(series, current.Start), prev.Trend)
			recoveries = append(recoveries, shared.CoverageExtended)
		case current.Start.Before(prev.End):
			current = shared.NewInterval(series, indexAtOrAfter(series, prev.End),
				indexAtOrBefore(series, current.End), current.Trend)
			recoveries = append(recoveries, shared.CoverageExtended)
		}

		covered = append(covered, current)
	}

	head := covered[0]
	if head.Start.After(first) {
		covered[0] = shared.NewInterval(series, 0, indexAtOrBefore(series, head.End), head.Trend)
		recoveries = append(recoveries, shared.CoverageExtended)
	}

	tailIdx := len(covered) - 1
	tail := covered[tailIdx]
	if tail.End.Before(last) {
		switch {
		case last.Sub(tail.End) <= cfg.TailExtendGap:
			covered[tailIdx] = shared.NewInterval(series, indexAtOrAfter(series, tail.Start), n-1, tail.Trend)
			recoveries = append(recoveries, shared.CoverageExtended)
		default:
			extra := synthesize(series, indexAtOrBefore(series, tail.End), n-1, cfg.FlatTrendThreshold)
			if extra.Trend == tail.Trend {
				covered[tailIdx] = shared.MergeIntervals(tail, extra, tail.Trend)
			} else {
				covered = append(covered, extra)
			}
			recoveries = append(recoveries, shared.CoverageSynthesized)
		}
	}

	return covered, recoveries
}
