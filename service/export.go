package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dnldd/trend/shared"
)

// csvHeader is the header row of exported interval files.
var csvHeader = []string{
	"start_date", "end_date", "start_price", "end_price", "low_price", "high_price",
	"pct_change", "duration", "trend_type", "high_price_date", "low_price_date",
}

// formatPrice formats a price to four decimal places.
func formatPrice(price float64) string {
	return fmt.Sprintf("%.4f", price)
}

// formatDate formats an optional date, unknown dates are empty.
func formatDate(date *time.Time) string {
	if date == nil {
		return ""
	}

	return date.Format(shared.DateLayout)
}

// WriteCSV writes the provided enriched intervals as csv rows with a header. Durations are
// whole calendar days.
func WriteCSV(w io.Writer, intervals []shared.EnrichedInterval) error {
	writer := csv.NewWriter(w)

	err := writer.Write(csvHeader)
	if err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for idx := range intervals {
		interval := intervals[idx]
		record := []string{
			interval.Start.Format(shared.DateLayout),
			interval.End.Format(shared.DateLayout),
			formatPrice(interval.StartPrice),
			formatPrice(interval.EndPrice),
			formatPrice(interval.LowPrice),
			formatPrice(interval.HighPrice),
			formatPrice(interval.PctChange),
			fmt.Sprint(interval.Days()),
			interval.Trend.String(),
			formatDate(interval.HighPriceDate),
			formatDate(interval.LowPriceDate),
		}

		err := writer.Write(record)
		if err != nil {
			return fmt.Errorf("writing csv record %d: %w", idx, err)
		}
	}

	writer.Flush()

	return writer.Error()
}

// sanitizeName replaces characters that are unsafe in filenames.
func sanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '^', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		default:
			return r
		}
	}, name)

	return strings.Trim(name, "_")
}

// csvFilename returns the export filename for a market analysis of the provided source.
func csvFilename(source string, market string, variant shared.Variant) string {
	return fmt.Sprintf("%s-%s-%s-trend_analysis.csv", sanitizeName(source), sanitizeName(market), variant)
}

// ExportCSV writes the provided enriched intervals to a csv file in the output directory and
// returns the file path. The source labels the input the intervals were derived from and must
// be unique per export within the output directory.
func ExportCSV(outputDir string, source string, market string, variant shared.Variant, intervals []shared.EnrichedInterval) (string, error) {
	err := os.MkdirAll(outputDir, 0o755)
	if err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	path := filepath.Join(outputDir, csvFilename(source, market, variant))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating csv file: %w", err)
	}

	err = WriteCSV(f, intervals)
	if err != nil {
		f.Close()
		return "", err
	}

	err = f.Close()
	if err != nil {
		return "", fmt.Errorf("closing csv file: %w", err)
	}

	return path, nil
}
