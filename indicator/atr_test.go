package indicator

import (
	"math"
	"testing"
	"time"

	"github.com/dnldd/trend/shared"
	"github.com/google/go-cmp/cmp"
	"github.com/peterldowns/testy/assert"
)

func TestAdjustATRPeriod(t *testing.T) {
	tests := []struct {
		name    string
		base    int
		profile Profile
		want    int
	}{
		{
			name:    "minute data halves the period",
			base:    14,
			profile: Profile{Frequency: shared.Minute, TimespanYears: 0.01},
			want:    7,
		},
		{
			name:    "minute data period has a floor",
			base:    6,
			profile: Profile{Frequency: shared.Minute},
			want:    5,
		},
		{
			name:    "hourly data keeps the period",
			base:    14,
			profile: Profile{Frequency: shared.Hourly, TimespanYears: 2},
			want:    14,
		},
		{
			name:    "short daily data keeps the period",
			base:    14,
			profile: Profile{Frequency: shared.Daily, TimespanYears: 4},
			want:    14,
		},
		{
			name:    "long daily data lengthens the period",
			base:    10,
			profile: Profile{Frequency: shared.Daily, TimespanYears: 8},
			want:    15,
		},
		{
			name:    "long daily data period has a cap",
			base:    14,
			profile: Profile{Frequency: shared.Daily, TimespanYears: 20},
			want:    21,
		},
	}

	for _, test := range tests {
		got := AdjustATRPeriod(test.base, test.profile)
		if got != test.want {
			t.Errorf("%s: expected %d, got %d", test.name, test.want, got)
		}
	}
}

func TestTrueRange(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	series := shared.Series{
		{Date: start, Close: 10, High: 11, Low: 9},
		{Date: start.AddDate(0, 0, 1), Close: 14, High: 15, Low: 13},
		{Date: start.AddDate(0, 0, 2), Close: 8, High: 9, Low: 7},
		{Date: start.AddDate(0, 0, 3), Close: 8, High: 12, Low: 6},
	}

	// Gaps beyond the high-low spread are captured against the previous close.
	want := []float64{2, 5, 7, 6}
	if diff := cmp.Diff(want, TrueRange(series)); diff != "" {
		t.Errorf("true range mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, len(TrueRange(nil)), 0)
}

func TestATR(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	// Close-only data: true range reduces to the absolute close-to-close change.
	closes := []float64{10, 12, 11, 15, 14, 20}
	series := make(shared.Series, len(closes))
	for idx := range closes {
		series[idx] = shared.NewPricePoint(start.AddDate(0, 0, idx), closes[idx])
	}

	// true ranges: 0, 2, 1, 4, 1, 6
	atr, recoveries := ATR(series, 3)
	assert.Equal(t, len(recoveries), 0)
	want := []float64{1, 1, 1, 7.0 / 3, 2, 11.0 / 3}
	for idx := range want {
		if math.Abs(atr[idx]-want[idx]) > 1e-9 {
			t.Errorf("atr[%d]: expected %v, got %v", idx, want[idx], atr[idx])
		}
	}

	// Ensure every index carries a value when the series is shorter than the period.
	atr, recoveries = ATR(series, 10)
	assert.Equal(t, len(recoveries), 1)
	assert.Equal(t, recoveries[0], shared.ShortATRWindow)
	for idx := range atr {
		if math.Abs(atr[idx]-14.0/6) > 1e-9 {
			t.Errorf("atr[%d]: expected the mean true range, got %v", idx, atr[idx])
		}
	}

	// Ensure flat prices produce zero volatility.
	flat := make(shared.Series, 20)
	for idx := range flat {
		flat[idx] = shared.NewPricePoint(start.AddDate(0, 0, idx), 100)
	}
	atr, _ = ATR(flat, 14)
	for idx := range atr {
		assert.Equal(t, atr[idx], float64(0))
	}

	atr, recoveries = ATR(nil, 14)
	assert.Equal(t, len(atr), 0)
	assert.Equal(t, len(recoveries), 0)
}
