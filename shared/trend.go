package shared

import "fmt"

// TrendType represents the direction label of a price interval.
type TrendType int

const (
	Consolidation TrendType = iota
	Up
	Down
)

// String stringifies the provided trend type.
func (t TrendType) String() string {
	switch t {
	case Consolidation:
		return "consolidation"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "unknown"
	}
}

// ParseTrendType parses the provided trend type string.
func ParseTrendType(s string) (TrendType, error) {
	switch s {
	case "consolidation":
		return Consolidation, nil
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	default:
		return Consolidation, fmt.Errorf("unknown trend type: %q", s)
	}
}

// ClassifyChange labels a fractional price change against a flat threshold. Changes
// strictly beyond the threshold in either direction are trends, everything else consolidates.
func ClassifyChange(pctChange float64, threshold float64) TrendType {
	switch {
	case pctChange > threshold:
		return Up
	case pctChange < -threshold:
		return Down
	default:
		return Consolidation
	}
}
