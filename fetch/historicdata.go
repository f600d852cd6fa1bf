package fetch

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dnldd/trend/shared"
	"github.com/tidwall/gjson"
)

// PriceData represents the historic price data of a market.
type PriceData struct {
	// Market is the market the prices belong to.
	Market string
	// Series is the price series in file order.
	Series shared.Series
	// Dropped is the number of invalid rows skipped while loading.
	Dropped int
}

// loadHistoricData loads the historic data bytes from the provided file path.
func loadHistoricData(path string) (*gjson.Result, error) {
	readb, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading historic data from file with path '%s': %w", path, err)
	}

	if !gjson.ValidBytes(readb) {
		return nil, fmt.Errorf("historic data at path '%s' is not valid json", path)
	}

	b := gjson.ParseBytes(readb)

	return &b, nil
}

// parsePrice parses a json price encoded as either a number or a string.
func parsePrice(value gjson.Result) (float64, error) {
	switch value.Type {
	case gjson.Number:
		return value.Float(), nil
	case gjson.String:
		return shared.ParsePrice(value.String())
	default:
		return 0, fmt.Errorf("unexpected price type %s for '%s'", value.Type, value.Raw)
	}
}

// ParsePricePoints parses price points from the provided json data. High and low prices
// default to the close when absent.
func ParsePricePoints(data []gjson.Result) (shared.Series, error) {
	series := make(shared.Series, 0, len(data))
	for idx := range data {
		item := data[idx]

		date, err := shared.ParseDate(item.Get("date").String())
		if err != nil {
			return nil, fmt.Errorf("parsing date of point %d: %w", idx, err)
		}

		closeValue := item.Get("close")
		if !closeValue.Exists() {
			return nil, fmt.Errorf("point %d has no close price", idx)
		}

		closePrice, err := parsePrice(closeValue)
		if err != nil {
			return nil, fmt.Errorf("parsing close of point %d: %w", idx, err)
		}

		point := shared.NewPricePoint(date, closePrice)

		if high := item.Get("high"); high.Exists() {
			point.High, err = parsePrice(high)
			if err != nil {
				return nil, fmt.Errorf("parsing high of point %d: %w", idx, err)
			}
		}

		if low := item.Get("low"); low.Exists() {
			point.Low, err = parsePrice(low)
			if err != nil {
				return nil, fmt.Errorf("parsing low of point %d: %w", idx, err)
			}
		}

		series = append(series, point)
	}

	return series, nil
}

// LoadPriceData loads the price data at the provided file path. Files without a market name
// are named after the file.
func LoadPriceData(path string) (*PriceData, error) {
	b, err := loadHistoricData(path)
	if err != nil {
		return nil, fmt.Errorf("loading historic data: %w", err)
	}

	market := b.Get("market").String()
	if market == "" {
		market = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	data := b.Get("data")
	if !data.IsArray() {
		return nil, fmt.Errorf("historic data for %s has no data array", market)
	}

	series, err := ParsePricePoints(data.Array())
	if err != nil {
		return nil, fmt.Errorf("parsing price points for %s: %w", market, err)
	}

	return &PriceData{
		Market: market,
		Series: series,
	}, nil
}
