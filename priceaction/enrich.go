package priceaction

import (
	"time"

	"github.com/dnldd/trend/shared"
	"github.com/rs/zerolog"
)

// extremaDates returns the dates of the first highest and first lowest values of the
// provided price field.
func extremaDates(points shared.Series, field shared.PriceField) (time.Time, time.Time) {
	highIdx, lowIdx := 0, 0
	for idx := 1; idx < len(points); idx++ {
		value := points[idx].Value(field)
		if value > points[highIdx].Value(field) {
			highIdx = idx
		}
		if value < points[lowIdx].Value(field) {
			lowIdx = idx
		}
	}

	return points[highIdx].Date, points[lowIdx].Date
}

// EnrichIntervals annotates each interval with the dates its highest and lowest prices occurred
// in the provided full-resolution series. Intervals with no data in range keep nil dates.
func EnrichIntervals(intervals []shared.Interval, series shared.Series, field shared.PriceField, logger *zerolog.Logger) []shared.EnrichedInterval {
	enriched := make([]shared.EnrichedInterval, len(intervals))
	for idx := range intervals {
		interval := intervals[idx]
		enriched[idx] = shared.EnrichedInterval{Interval: interval}

		points := series.Slice(interval.Start, interval.End)
		if len(points) == 0 {
			logger.Warn().Msgf("no %s data between %s and %s to enrich interval %d", field,
				interval.Start.Format(shared.DateLayout), interval.End.Format(shared.DateLayout), idx)
			continue
		}

		high, low := extremaDates(points, field)
		enriched[idx].HighPriceDate = &high
		enriched[idx].LowPriceDate = &low
	}

	return enriched
}
