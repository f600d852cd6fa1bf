package fetch

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/dnldd/trend/shared"
)

// columnIndex returns the index of the first header matching one of the provided names.
func columnIndex(header []string, names ...string) int {
	for idx := range header {
		if slices.Contains(names, strings.ToLower(strings.TrimSpace(header[idx]))) {
			return idx
		}
	}

	return -1
}

// LoadPriceCSV loads the price data in the csv file at the provided path. The first column
// holds dates, the close column or else the second column holds close prices, optional high
// and low columns are used when present. Rows with invalid dates or prices are dropped and
// counted, the market is named after the file.
func LoadPriceCSV(path string) (*PriceData, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening price csv at path '%s': %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading price csv header: %w", err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("price csv needs a date and a price column, got %d columns", len(header))
	}

	closeIdx := columnIndex(header, "close", "price")
	if closeIdx < 0 {
		closeIdx = 1
	}
	highIdx := columnIndex(header, "high")
	lowIdx := columnIndex(header, "low")

	data := &PriceData{
		Market: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading price csv record: %w", err)
		}

		point, ok := parseRecord(record, closeIdx, highIdx, lowIdx)
		if !ok {
			data.Dropped++
			continue
		}

		data.Series = append(data.Series, point)
	}

	if len(data.Series) == 0 {
		return nil, fmt.Errorf("price csv at path '%s' has no valid rows", path)
	}

	return data, nil
}

// parseRecord parses a csv record into a price point, reporting false for invalid rows.
func parseRecord(record []string, closeIdx int, highIdx int, lowIdx int) (shared.PricePoint, bool) {
	if len(record) <= closeIdx {
		return shared.PricePoint{}, false
	}

	date, err := shared.ParseDate(strings.TrimSpace(record[0]))
	if err != nil {
		return shared.PricePoint{}, false
	}

	closePrice, err := shared.ParsePrice(record[closeIdx])
	if err != nil {
		return shared.PricePoint{}, false
	}

	point := shared.NewPricePoint(date, closePrice)

	if highIdx >= 0 && highIdx < len(record) && strings.TrimSpace(record[highIdx]) != "" {
		point.High, err = shared.ParsePrice(record[highIdx])
		if err != nil {
			return shared.PricePoint{}, false
		}
	}

	if lowIdx >= 0 && lowIdx < len(record) && strings.TrimSpace(record[lowIdx]) != "" {
		point.Low, err = shared.ParsePrice(record[lowIdx])
		if err != nil {
			return shared.PricePoint{}, false
		}
	}

	return point, true
}

// Load loads the price data at the provided path, csv files by extension and json otherwise.
func Load(path string) (*PriceData, error) {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return LoadPriceCSV(path)
	}

	return LoadPriceData(path)
}
