package shared

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// PriceField represents the price component of a price point.
type PriceField int

const (
	ClosePrice PriceField = iota
	HighPrice
	LowPrice
)

// String stringifies the provided price field.
func (f PriceField) String() string {
	switch f {
	case ClosePrice:
		return "close"
	case HighPrice:
		return "high"
	case LowPrice:
		return "low"
	default:
		return "unknown"
	}
}

// ParsePriceField parses the provided price field string.
func ParsePriceField(s string) (PriceField, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "close":
		return ClosePrice, nil
	case "high":
		return HighPrice, nil
	case "low":
		return LowPrice, nil
	default:
		return ClosePrice, fmt.Errorf("unknown price field: %q", s)
	}
}

// PricePoint represents a unit price observation for a market.
type PricePoint struct {
	Date  time.Time
	Close float64
	High  float64
	Low   float64
}

// NewPricePoint initializes a close-only price point, the high and low default to the close.
func NewPricePoint(date time.Time, close float64) PricePoint {
	return PricePoint{
		Date:  date,
		Close: close,
		High:  close,
		Low:   close,
	}
}

// Value returns the provided price field of the price point.
func (p *PricePoint) Value(field PriceField) float64 {
	switch field {
	case HighPrice:
		return p.High
	case LowPrice:
		return p.Low
	default:
		return p.Close
	}
}

// Series represents a time ordered sequence of price points.
type Series []PricePoint

// Closes returns the close prices of the series.
func (s Series) Closes() []float64 {
	return s.Field(ClosePrice)
}

// Field returns the provided price field for every point of the series.
func (s Series) Field(field PriceField) []float64 {
	values := make([]float64, len(s))
	for idx := range s {
		values[idx] = s[idx].Value(field)
	}

	return values
}

// Validate asserts the series timestamps are strictly increasing.
func (s Series) Validate() error {
	for idx := 1; idx < len(s); idx++ {
		if !s[idx].Date.After(s[idx-1].Date) {
			return fmt.Errorf("timestamp at index %d (%s) does not follow %s", idx,
				s[idx].Date.Format(DateLayout), s[idx-1].Date.Format(DateLayout))
		}
	}

	return nil
}

// Normalize returns a copy of the series sorted by date with duplicate timestamps removed,
// the last observation for a timestamp wins.
func (s Series) Normalize() Series {
	sorted := slices.Clone(s)
	slices.SortStableFunc(sorted, func(a, b PricePoint) int {
		return a.Date.Compare(b.Date)
	})

	normalized := make(Series, 0, len(sorted))
	for idx := range sorted {
		n := len(normalized)
		if n > 0 && normalized[n-1].Date.Equal(sorted[idx].Date) {
			normalized[n-1] = sorted[idx]
			continue
		}
		normalized = append(normalized, sorted[idx])
	}

	return normalized
}

// Index returns the index of the point with the provided date.
func (s Series) Index(date time.Time) (int, bool) {
	return slices.BinarySearchFunc(s, date, func(p PricePoint, t time.Time) int {
		return p.Date.Compare(t)
	})
}

// Slice returns the points dated within [start, end] inclusive. The returned series shares
// its backing array with s and must be treated as read-only.
func (s Series) Slice(start time.Time, end time.Time) Series {
	if end.Before(start) {
		return nil
	}

	from, _ := s.Index(start)
	to, found := s.Index(end)
	if found {
		to++
	}

	if from >= to {
		return nil
	}

	return s[from:to]
}

// ParsePrice parses a price that may carry thousand separators, currency symbols,
// surrounding whitespace or accounting style parentheses for negatives.
func ParsePrice(s string) (float64, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, fmt.Errorf("empty price string")
	}

	negative := false
	if strings.HasPrefix(raw, "(") && strings.HasSuffix(raw, ")") {
		negative = true
		raw = raw[1 : len(raw)-1]
	}

	var b strings.Builder
	for _, r := range raw {
		switch {
		case unicode.IsDigit(r), r == '.', r == '-', r == '+', r == 'e', r == 'E':
			b.WriteRune(r)
		case r == ',', r == '_', unicode.IsSpace(r), unicode.Is(unicode.Sc, r):
			// separators and currency symbols carry no value.
		default:
			return 0, fmt.Errorf("unexpected character %q in price %q", r, s)
		}
	}

	d, err := decimal.NewFromString(b.String())
	if err != nil {
		return 0, fmt.Errorf("parsing price %q: %w", s, err)
	}

	if negative {
		d = d.Neg()
	}

	return d.InexactFloat64(), nil
}

// isFinite checks whether the provided value is neither NaN nor infinite.
func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
