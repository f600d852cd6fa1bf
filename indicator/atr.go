package indicator

import (
	"math"

	"github.com/dnldd/trend/shared"
)

const (
	// minMinuteATRPeriod is the smallest ATR period used for minute data.
	minMinuteATRPeriod = 5
	// maxDailyATRPeriod is the largest ATR period used for long daily series.
	maxDailyATRPeriod = 21
	// longDailySpanYears is the span beyond which daily series use a longer ATR period.
	longDailySpanYears = 5
)

// AdjustATRPeriod scales the base ATR period to the sampling profile of a series. Minute data
// reacts faster with a halved period, long daily histories smooth over a longer one.
func AdjustATRPeriod(base int, profile Profile) int {
	switch profile.Frequency {
	case shared.Minute:
		return max(minMinuteATRPeriod, base/2)
	case shared.Hourly:
		return base
	default:
		if profile.TimespanYears > longDailySpanYears {
			return min(maxDailyATRPeriod, int(float64(base)*1.5))
		}
		return base
	}
}

// TrueRange returns the true range of every point in the series. The first point has no
// previous close so its range is its own high-low spread.
func TrueRange(series shared.Series) []float64 {
	tr := make([]float64, len(series))
	if len(series) == 0 {
		return tr
	}

	tr[0] = series[0].High - series[0].Low
	for idx := 1; idx < len(series); idx++ {
		prevClose := series[idx-1].Close
		highLow := series[idx].High - series[idx].Low
		highClose := math.Abs(series[idx].High - prevClose)
		lowClose := math.Abs(series[idx].Low - prevClose)
		tr[idx] = math.Max(highLow, math.Max(highClose, lowClose))
	}

	return tr
}

// ATR calculates the average true range of every point in the series as a simple moving
// average over period points. Points without a full window take the first full window's value.
// Series shorter than the period use the mean of all true ranges for every point.
func ATR(series shared.Series, period int) ([]float64, []shared.Recovery) {
	tr := TrueRange(series)
	atr := make([]float64, len(tr))
	if len(tr) == 0 {
		return atr, nil
	}

	if len(tr) < period {
		var sum float64
		for idx := range tr {
			sum += tr[idx]
		}

		mean := sum / float64(len(tr))
		for idx := range atr {
			atr[idx] = mean
		}

		return atr, []shared.Recovery{shared.ShortATRWindow}
	}

	var sum float64
	for idx := range tr {
		sum += tr[idx]
		if idx >= period {
			sum -= tr[idx-period]
		}
		if idx >= period-1 {
			atr[idx] = sum / float64(period)
		}
	}

	for idx := 0; idx < period-1; idx++ {
		atr[idx] = atr[period-1]
	}

	return atr, nil
}
