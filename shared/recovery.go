package shared

// Recovery represents a degraded input condition the analysis recovered from.
type Recovery int

const (
	InsufficientData Recovery = iota
	UnorderedInput
	ShortATRWindow
	EndpointSwingFallback
	EvenlySpacedSwingFallback
	CoverageExtended
	CoverageSynthesized
)

// String stringifies the provided recovery.
func (r Recovery) String() string {
	switch r {
	case InsufficientData:
		return "insufficient data"
	case UnorderedInput:
		return "unordered input"
	case ShortATRWindow:
		return "short atr window"
	case EndpointSwingFallback:
		return "endpoint swing fallback"
	case EvenlySpacedSwingFallback:
		return "evenly spaced swing fallback"
	case CoverageExtended:
		return "coverage extended"
	case CoverageSynthesized:
		return "coverage synthesized"
	default:
		return "unknown"
	}
}
