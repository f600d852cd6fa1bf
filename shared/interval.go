package shared

import (
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	// epsilon is the smallest start price magnitude used as a divisor.
	epsilon = 1e-10
	// day is the time unit for interval durations and gaps.
	day = time.Hour * 24
)

// Interval represents a labeled, non-overlapping section of a price series.
type Interval struct {
	Start      time.Time
	End        time.Time
	StartPrice float64
	EndPrice   float64
	LowPrice   float64
	HighPrice  float64
	PctChange  float64
	Duration   time.Duration
	Trend      TrendType
}

// EnrichedInterval represents an interval annotated with the dates its extremes occurred.
// Dates are nil when the full-resolution data had no points within the interval.
type EnrichedInterval struct {
	Interval
	HighPriceDate *time.Time
	LowPriceDate  *time.Time
}

// PctChange returns the fractional change from start to end, rounded to 4 decimal places.
// A non-finite change is reported as zero.
func PctChange(start float64, end float64) float64 {
	change := (end - start) / math.Max(math.Abs(start), epsilon)
	if !isFinite(change) {
		return 0
	}

	return decimal.NewFromFloat(change).Round(4).InexactFloat64()
}

// NewInterval creates the interval spanning the series points at indices [startIdx, endIdx]
// using close prices for its extremes.
func NewInterval(series Series, startIdx int, endIdx int, trend TrendType) Interval {
	start := series[startIdx]
	end := series[endIdx]

	low := math.Inf(1)
	high := math.Inf(-1)
	for idx := startIdx; idx <= endIdx; idx++ {
		low = math.Min(low, series[idx].Close)
		high = math.Max(high, series[idx].Close)
	}

	return Interval{
		Start:      start.Date,
		End:        end.Date,
		StartPrice: start.Close,
		EndPrice:   end.Close,
		LowPrice:   low,
		HighPrice:  high,
		PctChange:  PctChange(start.Close, end.Close),
		Duration:   end.Date.Sub(start.Date),
		Trend:      trend,
	}
}

// MergeIntervals combines two ordered intervals into a new interval running from the start of
// first to the end of second, labeled with the provided trend.
func MergeIntervals(first Interval, second Interval, trend TrendType) Interval {
	return Interval{
		Start:      first.Start,
		End:        second.End,
		StartPrice: first.StartPrice,
		EndPrice:   second.EndPrice,
		LowPrice:   math.Min(first.LowPrice, second.LowPrice),
		HighPrice:  math.Max(first.HighPrice, second.HighPrice),
		PctChange:  PctChange(first.StartPrice, second.EndPrice),
		Duration:   second.End.Sub(first.Start),
		Trend:      trend,
	}
}

// WithTrend returns a copy of the interval labeled with the provided trend.
func (i Interval) WithTrend(trend TrendType) Interval {
	i.Trend = trend
	return i
}

// Days returns the interval duration in whole calendar days.
func (i Interval) Days() int {
	return int(i.Duration / day)
}

// Days converts a number of calendar days to a duration.
func Days(n int) time.Duration {
	return time.Duration(n) * day
}
