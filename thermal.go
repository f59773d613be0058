package eos

import (
	"github.com/jplmlia/eos-go/internal/loaders"
	"github.com/jplmlia/eos-go/internal/params"
	"github.com/jplmlia/eos-go/internal/thermal"
)

// LoadThermal parses a big-endian ETHEMIS v1 observation buffer. It does
// not require Init: loaders are pure parsing, independent of the arena.
// Trailing bytes past the parsed body are reported to the log sink at
// LogWarn and do not fail the load.
func LoadThermal(buf []byte) (*ThermalObservation, error) {
	obs, err := loaders.LoadThermalWithLog(buf, thermalTrailingLogf)
	if err != nil {
		return nil, wrapLoaderError(err, StatusETMLoadError, StatusETMVersionError)
	}
	return obs, nil
}

// ThermalDetect scans every band of obs against p's per-band thresholds
// and returns each band's top p.NumResults detections sorted by
// descending score. The thermal detector needs no scratch, so it runs
// without touching the arena, but Init must still have been called.
func ThermalDetect(obs *ThermalObservation, p ThermalParams) (*ThermalResult, error) {
	if err := before(); err != nil {
		return nil, err
	}
	if err := validateParamError(params.ValidateThermal(p, thermalLogf)); err != nil {
		return nil, err
	}

	res := thermal.Detect(obs, p.Thresholds, p.NumResults)
	out := &ThermalResult{}
	for b := 0; b < 3; b++ {
		out.Bands[b] = res.Bands[b].Results()
	}
	return out, nil
}

func thermalLogf(msg string) { logf(LogError, "%s", msg) }

func thermalTrailingLogf(msg string) { logf(LogWarn, "thermal: %s", msg) }
