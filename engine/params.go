package engine

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dnldd/trend/shared"
	"gopkg.in/yaml.v3"
)

// Params represents the tunable parameters of the segmentation pipeline.
type Params struct {
	// ATRPeriod is the base ATR period, adapted to the sampling profile of each series.
	ATRPeriod int `yaml:"atrperiod"`
	// SwingThreshold is the ATR multiple a swing-to-swing move must exceed to be a trend.
	SwingThreshold float64 `yaml:"swingthreshold"`
	// SwingWindow is the base swing point detection window, adapted to the sampling profile.
	SwingWindow int `yaml:"swingwindow"`
	// ConsolidationMergeGap is the largest gap between consolidations that are merged.
	ConsolidationMergeGap time.Duration `yaml:"consolidationmergegap"`
	// PullbackSignificance is the absolute fractional change at or above which a non-breaking
	// move keeps its trend label.
	PullbackSignificance float64 `yaml:"pullbacksignificance"`
	// SmallBridgeSpan is the duration a consolidation between two matching trends must stay
	// under to be bridged.
	SmallBridgeSpan time.Duration `yaml:"smallbridgespan"`
	// TailExtendGap is the largest uncovered tail absorbed by extending the last interval.
	TailExtendGap time.Duration `yaml:"tailextendgap"`
	// FlatTrendThreshold is the fractional change a synthesized interval must exceed to trend.
	FlatTrendThreshold float64 `yaml:"flattrendthreshold"`
	// EndpointTrendThreshold is the fractional change an endpoints-only series must exceed to
	// trend.
	EndpointTrendThreshold float64 `yaml:"endpointtrendthreshold"`
}

// DefaultParams returns the default pipeline parameters.
func DefaultParams() Params {
	return Params{
		ATRPeriod:              14,
		SwingThreshold:         0.618,
		SwingWindow:            5,
		ConsolidationMergeGap:  shared.Days(5),
		PullbackSignificance:   0.15,
		SmallBridgeSpan:        shared.Days(30),
		TailExtendGap:          shared.Days(30),
		FlatTrendThreshold:     0.03,
		EndpointTrendThreshold: 0.10,
	}
}

// Validate asserts the parameters are usable.
func (p *Params) Validate() error {
	var errs error
	if p.ATRPeriod <= 0 {
		errs = errors.Join(errs, fmt.Errorf("atr period must be positive, got %d", p.ATRPeriod))
	}
	if p.SwingWindow <= 0 {
		errs = errors.Join(errs, fmt.Errorf("swing window must be positive, got %d", p.SwingWindow))
	}
	if p.SwingThreshold < 0 {
		errs = errors.Join(errs, fmt.Errorf("swing threshold cannot be negative, got %f", p.SwingThreshold))
	}
	if p.PullbackSignificance < 0 {
		errs = errors.Join(errs, fmt.Errorf("pullback significance cannot be negative, got %f", p.PullbackSignificance))
	}
	if p.FlatTrendThreshold < 0 {
		errs = errors.Join(errs, fmt.Errorf("flat trend threshold cannot be negative, got %f", p.FlatTrendThreshold))
	}
	if p.EndpointTrendThreshold < 0 {
		errs = errors.Join(errs, fmt.Errorf("endpoint trend threshold cannot be negative, got %f", p.EndpointTrendThreshold))
	}
	if p.ConsolidationMergeGap < 0 {
		errs = errors.Join(errs, fmt.Errorf("consolidation merge gap cannot be negative, got %s", p.ConsolidationMergeGap))
	}
	if p.SmallBridgeSpan < 0 {
		errs = errors.Join(errs, fmt.Errorf("small bridge span cannot be negative, got %s", p.SmallBridgeSpan))
	}
	if p.TailExtendGap < 0 {
		errs = errors.Join(errs, fmt.Errorf("tail extend gap cannot be negative, got %s", p.TailExtendGap))
	}

	return errs
}

// LoadParams reads pipeline parameters from the provided yaml file. Parameters the file does
// not set keep their defaults.
func LoadParams(path string) (Params, error) {
	params := DefaultParams()

	data, err := os.ReadFile(path)
	if err != nil {
		return Params{}, fmt.Errorf("reading params file: %w", err)
	}

	err = yaml.Unmarshal(data, &params)
	if err != nil {
		return Params{}, fmt.Errorf("parsing params file: %w", err)
	}

	err = params.Validate()
	if err != nil {
		return Params{}, fmt.Errorf("validating params: %w", err)
	}

	return params, nil
}
