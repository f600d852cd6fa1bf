package engine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dnldd/trend/shared"
	"github.com/peterldowns/testy/assert"
)

func TestParamsValidate(t *testing.T) {
	params := DefaultParams()
	assert.NoError(t, params.Validate())

	tests := []struct {
		name   string
		mutate func(p *Params)
	}{
		{"zero atr period", func(p *Params) { p.ATRPeriod = 0 }},
		{"negative swing window", func(p *Params) { p.SwingWindow = -1 }},
		{"negative swing threshold", func(p *Params) { p.SwingThreshold = -0.1 }},
		{"negative pullback significance", func(p *Params) { p.PullbackSignificance = -0.1 }},
		{"negative flat threshold", func(p *Params) { p.FlatTrendThreshold = -0.1 }},
		{"negative endpoint threshold", func(p *Params) { p.EndpointTrendThreshold = -0.1 }},
		{"negative merge gap", func(p *Params) { p.ConsolidationMergeGap = -shared.Days(1) }},
		{"negative bridge span", func(p *Params) { p.SmallBridgeSpan = -shared.Days(1) }},
		{"negative tail gap", func(p *Params) { p.TailExtendGap = -shared.Days(1) }},
	}

	for _, test := range tests {
		params := DefaultParams()
		test.mutate(&params)
		if params.Validate() == nil {
			t.Errorf("%s: expected a validation error", test.name)
		}
	}

	// Ensure every violation is reported.
	params = DefaultParams()
	params.ATRPeriod = 0
	params.SwingWindow = 0
	err := params.Validate()
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "atr period"))
	assert.True(t, strings.Contains(err.Error(), "swing window"))
}

func TestLoadParams(t *testing.T) {
	dir := t.TempDir()

	// Ensure unset params keep their defaults.
	path := filepath.Join(dir, "params.yaml")
	data := "atrperiod: 20\nswingwindow: 7\nconsolidationmergegap: 72h\n"
	assert.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	params, err := LoadParams(path)
	assert.NoError(t, err)

	want := DefaultParams()
	want.ATRPeriod = 20
	want.SwingWindow = 7
	want.ConsolidationMergeGap = shared.Days(3)
	assert.Equal(t, params, want)

	// Ensure invalid params are rejected.
	invalid := filepath.Join(dir, "invalid.yaml")
	assert.NoError(t, os.WriteFile(invalid, []byte("atrperiod: -3\n"), 0o600))
	_, err = LoadParams(invalid)
	assert.Error(t, err)

	// Ensure malformed files are rejected.
	malformed := filepath.Join(dir, "malformed.yaml")
	assert.NoError(t, os.WriteFile(malformed, []byte("atrperiod: [1, 2\n"), 0o600))
	_, err = LoadParams(malformed)
	assert.Error(t, err)

	// Ensure missing files are rejected.
	_, err = LoadParams(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
