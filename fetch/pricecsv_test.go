package fetch

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
)

func TestLoadPriceCSV(t *testing.T) {
	data, err := LoadPriceCSV("../testdata/pricedata.csv")
	assert.NoError(t, err)
	assert.Equal(t, data.Market, "pricedata")
	assert.Equal(t, data.Dropped, 2)
	assert.Equal(t, len(data.Series), 4)
	assert.NoError(t, data.Series.Validate())

	first := data.Series[0]
	assert.Equal(t, first.Date, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, first.Close, 4742.83)
	assert.Equal(t, first.High, 4754.33)
	assert.Equal(t, first.Low, 4722.67)

	// Ensure empty high and low cells default to the close.
	third := data.Series[2]
	assert.Equal(t, third.Close, 4697.24)
	assert.Equal(t, third.High, third.Close)
	assert.Equal(t, third.Low, third.Close)

	last := data.Series[3]
	assert.Equal(t, last.Close, 4763.54)

	// Ensure files without valid rows are rejected.
	_, err = LoadPriceCSV("../testdata/empty.csv")
	assert.Error(t, err)

	_, err = LoadPriceCSV("../testdata/missing.csv")
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	data, err := Load("../testdata/pricedata.csv")
	assert.NoError(t, err)
	assert.Equal(t, len(data.Series), 4)

	data, err = Load("../testdata/pricedata.json")
	assert.NoError(t, err)
	assert.Equal(t, len(data.Series), 5)
	assert.Equal(t, data.Dropped, 0)
}
