package shared

import "time"

const (
	// DateLayout is the format layout for parsing and formatting dates.
	DateLayout = "2006-01-02 15:04:05"
	// DayLayout is the format layout for parsing daily dates.
	DayLayout = "2006-01-02"
)

const (
	// minutesPerHour is the upper bound (exclusive) of a minute sampling gap.
	minutesPerHour = 60
	// minutesPerDay is the upper bound (exclusive) of an hourly sampling gap.
	minutesPerDay = 1440
)

// Frequency represents the sampling frequency of a price series.
type Frequency int

const (
	Minute Frequency = iota
	Hourly
	Daily
)

// String stringifies the provided frequency.
func (f Frequency) String() string {
	switch f {
	case Minute:
		return "minute"
	case Hourly:
		return "hourly"
	case Daily:
		return "daily"
	default:
		return "unknown"
	}
}

// FrequencyFromGap classifies the provided median sampling gap.
func FrequencyFromGap(gap time.Duration) Frequency {
	minutes := gap.Minutes()
	switch {
	case minutes < minutesPerHour:
		return Minute
	case minutes < minutesPerDay:
		return Hourly
	default:
		return Daily
	}
}

// ParseDate parses the provided date string using the supported date layouts.
func ParseDate(s string) (time.Time, error) {
	layouts := []string{DateLayout, DayLayout, time.RFC3339}

	var err error
	for _, layout := range layouts {
		var t time.Time
		t, err = time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, err
}
