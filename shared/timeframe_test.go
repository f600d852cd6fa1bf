package shared

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
)

func TestFrequencyString(t *testing.T) {
	tests := []struct {
		name      string
		frequency Frequency
		want      string
	}{
		{
			"minute",
			Minute,
			"minute",
		},
		{
			"hourly",
			Hourly,
			"hourly",
		},
		{
			"daily",
			Daily,
			"daily",
		},
		{
			"unknown frequency",
			Frequency(999),
			"unknown",
		},
	}

	for _, test := range tests {
		str := test.frequency.String()
		if str != test.want {
			t.Errorf("%s: expected %v, got %v", test.name, test.want, str)
		}
	}
}

func TestFrequencyFromGap(t *testing.T) {
	assert.Equal(t, FrequencyFromGap(time.Minute), Minute)
	assert.Equal(t, FrequencyFromGap(time.Minute*59), Minute)
	assert.Equal(t, FrequencyFromGap(time.Hour), Hourly)
	assert.Equal(t, FrequencyFromGap(time.Hour*23), Hourly)
	assert.Equal(t, FrequencyFromGap(time.Hour*24), Daily)
	assert.Equal(t, FrequencyFromGap(time.Hour*24*7), Daily)
}

func TestParseDate(t *testing.T) {
	want := time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

	got, err := ParseDate("2024-03-15 09:30:00")
	assert.NoError(t, err)
	assert.True(t, got.Equal(want))

	got, err = ParseDate("2024-03-15T09:30:00Z")
	assert.NoError(t, err)
	assert.True(t, got.Equal(want))

	got, err = ParseDate("2024-03-15")
	assert.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)))

	// Ensure unsupported layouts are rejected.
	_, err = ParseDate("15/03/2024")
	assert.Error(t, err)
}
