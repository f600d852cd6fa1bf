package service

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dnldd/trend/shared"
	"github.com/peterldowns/testy/assert"
)

func generateEnrichedIntervals() []shared.EnrichedInterval {
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	series := shared.Series{
		shared.NewPricePoint(start, 100),
		shared.NewPricePoint(start.AddDate(0, 0, 3), 110.5),
		shared.NewPricePoint(start.AddDate(0, 0, 4), 109),
	}

	high := series[1].Date
	low := series[0].Date

	return []shared.EnrichedInterval{
		{
			Interval:      shared.NewInterval(series, 0, 1, shared.Up),
			HighPriceDate: &high,
			LowPriceDate:  &low,
		},
		{
			Interval: shared.NewInterval(series, 1, 2, shared.Consolidation),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteCSV(&buf, generateEnrichedIntervals())
	assert.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, len(lines), 3)
	assert.Equal(t, lines[0], "start_date,end_date,start_price,end_price,low_price,high_price,"+
		"pct_change,duration,trend_type,high_price_date,low_price_date")
	assert.Equal(t, lines[1], "2024-01-02 00:00:00,2024-01-05 00:00:00,100.0000,110.5000,100.0000,"+
		"110.5000,0.1050,3,up,2024-01-05 00:00:00,2024-01-02 00:00:00")

	// Ensure unknown extreme dates are written as empty cells.
	assert.Equal(t, lines[2], "2024-01-05 00:00:00,2024-01-06 00:00:00,110.5000,109.0000,109.0000,"+
		"110.5000,-0.0136,1,consolidation,,")

	// Ensure no intervals still writes the header.
	buf.Reset()
	assert.NoError(t, WriteCSV(&buf, nil))
	assert.Equal(t, strings.Count(buf.String(), "\n"), 1)
}

func TestCSVFilename(t *testing.T) {
	tests := []struct {
		source  string
		market  string
		variant shared.Variant
		want    string
	}{
		{"spx", "^GSPC", shared.Robust, "spx-GSPC-robust-trend_analysis.csv"},
		{"btc daily", "BTC/USD", shared.Sensitive, "btc_daily-BTC_USD-sensitive-trend_analysis.csv"},
		{"aapl", "aapl", shared.Robust, "aapl-aapl-robust-trend_analysis.csv"},
	}

	for _, test := range tests {
		assert.Equal(t, csvFilename(test.source, test.market, test.variant), test.want)
	}
}

func TestExportCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")

	path, err := ExportCSV(dir, "pricedata", "^GSPC", shared.Robust, generateEnrichedIntervals())
	assert.NoError(t, err)
	assert.Equal(t, path, filepath.Join(dir, "pricedata-GSPC-robust-trend_analysis.csv"))

	data, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, strings.Count(string(data), "\n"), 3)
}
