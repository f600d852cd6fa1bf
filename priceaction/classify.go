package priceaction

import (
	"github.com/dnldd/trend/shared"
)

// ClassifyConfig represents the segment classification thresholds.
type ClassifyConfig struct {
	// SwingThreshold is the ATR multiple a move must exceed to be a trend.
	SwingThreshold float64
	// EndpointThreshold is the flat fractional change a whole-series move must exceed to be a
	// trend when only the series endpoints are swing points.
	EndpointThreshold float64
}

// classifySegment labels a price change against the volatility at the segment start.
func classifySegment(change float64, atr float64, threshold float64) shared.TrendType {
	limit := atr * threshold
	switch {
	case change > limit:
		return shared.Up
	case change < -limit:
		return shared.Down
	default:
		return shared.Consolidation
	}
}

// ClassifySegments builds an interval for every consecutive pair of swing indices, labeling it
// by its move relative to the ATR at the segment start.
func ClassifySegments(series shared.Series, swings []int, atr []float64, cfg ClassifyConfig) []shared.Interval {
	if len(swings) < 2 {
		return nil
	}

	if len(swings) == 2 {
		start, end := swings[0], swings[1]
		pct := shared.PctChange(series[start].Close, series[end].Close)
		trend := shared.ClassifyChange(pct, cfg.EndpointThreshold)
		return []shared.Interval{shared.NewInterval(series, start, end, trend)}
	}

	intervals := make([]shared.Interval, 0, len(swings)-1)
	for idx := 1; idx < len(swings); idx++ {
		start, end := swings[idx-1], swings[idx]
		change := series[end].Close - series[start].Close
		trend := classifySegment(change, atr[start], cfg.SwingThreshold)
		intervals = append(intervals, shared.NewInterval(series, start, end, trend))
	}

	return intervals
}
