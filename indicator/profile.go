package indicator

import (
	"errors"
	"slices"
	"time"

	"github.com/dnldd/trend/shared"
)

const (
	// daysPerYear is the number of days used to convert a time span to years.
	daysPerYear = 365
)

// Profile describes the sampling characteristics of a price series.
type Profile struct {
	Frequency     shared.Frequency
	TimespanYears float64
	DataPoints    int
	MedianGap     time.Duration
}

// ProfileFrequency classifies the sampling frequency and time span of the provided series.
func ProfileFrequency(series shared.Series) (Profile, error) {
	if len(series) < 2 {
		return Profile{}, errors.New("at least two price points are required to profile a series")
	}

	gaps := make([]time.Duration, len(series)-1)
	for idx := 1; idx < len(series); idx++ {
		gaps[idx-1] = series[idx].Date.Sub(series[idx-1].Date)
	}

	slices.Sort(gaps)
	mid := len(gaps) / 2
	median := gaps[mid]
	if len(gaps)%2 == 0 {
		median = (gaps[mid-1] + gaps[mid]) / 2
	}

	span := series[len(series)-1].Date.Sub(series[0].Date)

	return Profile{
		Frequency:     shared.FrequencyFromGap(median),
		TimespanYears: span.Hours() / 24 / daysPerYear,
		DataPoints:    len(series),
		MedianGap:     median,
	}, nil
}
