package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eos "github.com/jplmlia/eos-go"
)

func writeConfig(t *testing.T, name, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadAppliesDefaultsWhenFileIsEmpty(t *testing.T) {
	path := writeConfig(t, "empty.json", `{}`)
	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, eos.InitDefaultParams(), p.Params)
}

func TestLoadOverridesNamedFields(t *testing.T) {
	path := writeConfig(t, "cfg.json", `{
		"thermal": {"thresholds": [1,2,3], "num_results": 5},
		"particle": {"max_bins": 64, "threshold": 12.5},
		"spectral_shape": {"rows": 10, "cols": 10, "bands": 4}
	}`)
	p, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, [3]uint16{1, 2, 3}, p.Thermal.Thresholds)
	assert.Equal(t, uint32(5), p.Thermal.NumResults)
	assert.Equal(t, uint32(64), p.Particle.MaxBins)
	assert.Equal(t, 12.5, p.Particle.Threshold)
	assert.Equal(t, eos.Shape{Rows: 10, Cols: 10, Bands: 4}, p.SpectralShape)
	// Untouched defaults survive alongside the overrides.
	assert.Equal(t, eos.InitDefaultParams().Particle.Filter, p.Particle.Filter)
}

func TestLoadRejectsNonJSONExtension(t *testing.T) {
	path := writeConfig(t, "cfg.yaml", `{}`)
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidExtension)
}

func TestLoadRejectsOversizedFile(t *testing.T) {
	big := make([]byte, maxFileSize+1)
	for i := range big {
		big[i] = ' '
	}
	path := writeConfig(t, "big.json", string(big))
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestLoadRejectsInvalidJSON(t *testing.T) {
	path := writeConfig(t, "bad.json", `{not json`)
	_, err := Load(path)
	require.Error(t, err)
}
