package shared

import "fmt"

// Variant represents the aggressiveness profile of a trend analysis.
type Variant int

const (
	// Sensitive keeps minor structure: lenient swing fallbacks, no small-bridge merges and no
	// coverage completion.
	Sensitive Variant = iota
	// Robust runs every refinement stage and guarantees full coverage of the input range.
	Robust
)

// String stringifies the provided variant.
func (v Variant) String() string {
	switch v {
	case Sensitive:
		return "sensitive"
	case Robust:
		return "robust"
	default:
		return "unknown"
	}
}

// ParseVariant parses the provided variant string.
func ParseVariant(s string) (Variant, error) {
	switch s {
	case "sensitive":
		return Sensitive, nil
	case "robust":
		return Robust, nil
	default:
		return Robust, fmt.Errorf("unknown variant: %q", s)
	}
}
