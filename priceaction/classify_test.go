package priceaction

import (
	"testing"

	"github.com/dnldd/trend/shared"
	"github.com/peterldowns/testy/assert"
)

func TestClassifySegment(t *testing.T) {
	tests := []struct {
		name   string
		change float64
		atr    float64
		want   shared.TrendType
	}{
		{"move beyond threshold is up", 10, 10, shared.Up},
		{"drop beyond threshold is down", -10, 10, shared.Down},
		{"move within threshold consolidates", 6, 10, shared.Consolidation},
		{"drop within threshold consolidates", -6, 10, shared.Consolidation},
		{"zero volatility and no move consolidates", 0, 0, shared.Consolidation},
		{"zero volatility with any move trends", 0.01, 0, shared.Up},
	}

	for _, test := range tests {
		got := classifySegment(test.change, test.atr, 0.618)
		if got != test.want {
			t.Errorf("%s: expected %s, got %s", test.name, test.want, got)
		}
	}
}

func TestClassifySegments(t *testing.T) {
	series := dailySeries(100, 104, 110, 107, 101, 102, 103)
	atr := []float64{5, 5, 5, 5, 5, 5, 5}
	cfg := ClassifyConfig{SwingThreshold: 0.618, EndpointThreshold: 0.1}

	intervals := ClassifySegments(series, []int{0, 2, 4, 6}, atr, cfg)
	assert.Equal(t, len(intervals), 3)

	// 100 -> 110 clears 5 * 0.618.
	assert.Equal(t, intervals[0].Trend, shared.Up)
	assert.Equal(t, intervals[0].HighPrice, float64(110))
	assert.Equal(t, intervals[0].LowPrice, float64(100))
	assert.Equal(t, intervals[0].PctChange, 0.1)

	// 110 -> 101 clears the threshold downwards.
	assert.Equal(t, intervals[1].Trend, shared.Down)
	assert.Equal(t, intervals[1].Start, intervals[0].End)

	// 101 -> 103 stays within it.
	assert.Equal(t, intervals[2].Trend, shared.Consolidation)
	assert.Equal(t, intervals[2].End, series[6].Date)
	assert.Equal(t, intervals[2].Duration, shared.Days(2))

	// Ensure fewer than two swing points produce nothing.
	assert.Equal(t, len(ClassifySegments(series, []int{0}, atr, cfg)), 0)
}

func TestClassifySegmentsEndpointsOnly(t *testing.T) {
	cfg := ClassifyConfig{SwingThreshold: 0.618, EndpointThreshold: 0.1}

	tests := []struct {
		name   string
		closes []float64
		want   shared.TrendType
	}{
		{"flat", []float64{100, 100, 100}, shared.Consolidation},
		{"small rise", []float64{100, 103, 105}, shared.Consolidation},
		{"large rise", []float64{100, 150, 200}, shared.Up},
		{"large fall", []float64{200, 150, 100}, shared.Down},
		{"exactly ten percent", []float64{100, 105, 110}, shared.Consolidation},
	}

	for _, test := range tests {
		series := dailySeries(test.closes...)

		// A tiny atr would label any move a trend, endpoint-only classification ignores it.
		atr := []float64{0.01, 0.01, 0.01}
		intervals := ClassifySegments(series, []int{0, len(series) - 1}, atr, cfg)
		if len(intervals) != 1 {
			t.Errorf("%s: expected a single interval, got %d", test.name, len(intervals))
			continue
		}
		if intervals[0].Trend != test.want {
			t.Errorf("%s: expected %s, got %s", test.name, test.want, intervals[0].Trend)
		}
	}
}
