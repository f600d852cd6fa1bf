package engine

import (
	"fmt"

	"github.com/dnldd/trend/indicator"
	"github.com/dnldd/trend/priceaction"
	"github.com/dnldd/trend/shared"
	"github.com/rs/zerolog"
)

type EngineConfig struct {
	// Params represents the pipeline parameters.
	Params Params
	// Variant selects the sensitive or robust pipeline.
	Variant shared.Variant
	// Logger represents the application logger.
	Logger zerolog.Logger
}

// Analysis represents the outcome of segmenting a price series.
type Analysis struct {
	// Intervals are the ordered, labeled intervals of the series.
	Intervals []shared.Interval
	// Series is the normalized series the intervals were derived from.
	Series shared.Series
	// Profile is the sampling profile of the series.
	Profile indicator.Profile
	// ATRPeriod is the adapted ATR period used.
	ATRPeriod int
	// SwingWindow is the adapted swing detection window used.
	SwingWindow int
	// Recoveries are the degraded input conditions recovered from, in the order encountered.
	Recoveries []shared.Recovery
}

// Engine segments price series into trend intervals. It holds no state across calls and is
// safe for concurrent use. The config is copied on construction.
type Engine struct {
	cfg    EngineConfig
	logger zerolog.Logger
}

// NewEngine initializes a new segmentation engine.
func NewEngine(cfg *EngineConfig) (*Engine, error) {
	err := cfg.Params.Validate()
	if err != nil {
		return nil, fmt.Errorf("validating engine params: %w", err)
	}

	switch cfg.Variant {
	case shared.Sensitive, shared.Robust:
	default:
		return nil, fmt.Errorf("unknown variant provided: %s", cfg.Variant)
	}

	return &Engine{
		cfg:    *cfg,
		logger: cfg.Logger.With().Str("variant", cfg.Variant.String()).Logger(),
	}, nil
}

// Variant returns the pipeline variant of the engine.
func (e *Engine) Variant() shared.Variant {
	return e.cfg.Variant
}

// record records and logs the provided recoveries.
func (e *Engine) record(analysis *Analysis, recoveries ...shared.Recovery) {
	for _, r := range recoveries {
		e.logger.Warn().Msgf("recovered from degraded input: %s", r)
		analysis.Recoveries = append(analysis.Recoveries, r)
	}
}

// Analyze partitions the provided series into an ordered sequence of up, down and
// consolidation intervals. Unordered input is normalized and series with fewer than two
// points yield no intervals, both are reported as recoveries rather than errors.
func (e *Engine) Analyze(series shared.Series) (*Analysis, error) {
	analysis := &Analysis{Series: series}

	if series.Validate() != nil {
		analysis.Series = series.Normalize()
		e.record(analysis, shared.UnorderedInput)
	}

	if len(analysis.Series) < 2 {
		e.record(analysis, shared.InsufficientData)
		return analysis, nil
	}

	profile, err := indicator.ProfileFrequency(analysis.Series)
	if err != nil {
		return nil, fmt.Errorf("profiling series: %w", err)
	}

	params := e.cfg.Params
	robust := e.cfg.Variant == shared.Robust

	analysis.Profile = profile
	analysis.ATRPeriod = indicator.AdjustATRPeriod(params.ATRPeriod, profile)
	analysis.SwingWindow = priceaction.AdjustSwingWindow(params.SwingWindow, profile)

	e.logger.Debug().Msgf("profiled %d points as %s over %.2f years, atr period %d, swing window %d",
		profile.DataPoints, profile.Frequency, profile.TimespanYears, analysis.ATRPeriod, analysis.SwingWindow)

	atr, recoveries := indicator.ATR(analysis.Series, analysis.ATRPeriod)
	e.record(analysis, recoveries...)

	swings, recoveries := priceaction.FindSwingPoints(analysis.Series.Closes(), analysis.SwingWindow, e.cfg.Variant)
	e.record(analysis, recoveries...)

	intervals := priceaction.ClassifySegments(analysis.Series, swings, atr, priceaction.ClassifyConfig{
		SwingThreshold:    params.SwingThreshold,
		EndpointThreshold: params.EndpointTrendThreshold,
	})
	intervals = priceaction.MergeConsolidations(intervals, params.ConsolidationMergeGap)
	intervals = priceaction.RefineTrends(intervals, priceaction.RefineConfig{
		PullbackSignificance: params.PullbackSignificance,
		BridgeConsolidations: robust,
		SmallBridgeSpan:      params.SmallBridgeSpan,
	})

	if robust {
		intervals, recoveries = priceaction.CompleteCoverage(analysis.Series, intervals, priceaction.CoverageConfig{
			TailExtendGap:      params.TailExtendGap,
			FlatTrendThreshold: params.FlatTrendThreshold,
		})
		e.record(analysis, recoveries...)
	}

	analysis.Intervals = intervals

	return analysis, nil
}

// Enrich annotates the provided intervals with the dates their extreme prices occurred in the
// provided full-resolution series.
func (e *Engine) Enrich(intervals []shared.Interval, series shared.Series, field shared.PriceField) []shared.EnrichedInterval {
	if series.Validate() != nil {
		series = series.Normalize()
	}

	return priceaction.EnrichIntervals(intervals, series, field, &e.logger)
}
