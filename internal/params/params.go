// Package params validates detector parameter bundles before a detector
// runs. Each guard mirrors one of the original source's assertion
// macros; a failing guard surfaces as a generic parameter error while
// the specific cause is only logged, matching the source's design.
package params

import (
	"fmt"

	"github.com/jplmlia/eos-go/internal/eostypes"
)

// Guard is a named boolean check. Validate collects every failing guard
// into a single log-friendly report while still returning a single
// generic error to the caller.
type Guard struct {
	Name string
	OK   bool
}

// GreaterThanZero builds a guard asserting v > 0.
func GreaterThanZero(name string, v float64) Guard { return Guard{name, v > 0} }

// GreaterOrEqualZero builds a guard asserting v >= 0.
func GreaterOrEqualZero(name string, v float64) Guard { return Guard{name, v >= 0} }

// LessThanOne builds a guard asserting v < 1.
func LessThanOne(name string, v float64) Guard { return Guard{name, v < 1} }

// GreaterThanOne builds a guard asserting v > 1.
func GreaterThanOne(name string, v float64) Guard { return Guard{name, v > 1} }

// GreaterOrEqualOne builds a guard asserting v >= 1.
func GreaterOrEqualOne(name string, v float64) Guard { return Guard{name, v >= 1} }

// InRange builds a guard asserting lo <= v <= hi, inclusive both ends.
func InRange(name string, v, lo, hi float64) Guard { return Guard{name, v >= lo && v <= hi} }

// ErrParameter is returned by Validate whenever one or more guards fail.
var ErrParameter = fmt.Errorf("eos: parameter validation failed")

// Validate runs every guard and returns ErrParameter if any failed. The
// caller's log callback, not the returned error, is the place to surface
// which guard failed and why.
func Validate(logf func(string), guards ...Guard) error {
	ok := true
	for _, g := range guards {
		if !g.OK {
			ok = false
			if logf != nil {
				logf(fmt.Sprintf("parameter guard failed: %s", g.Name))
			}
		}
	}
	if !ok {
		return ErrParameter
	}
	return nil
}

// ValidateThermal checks a thermal parameter bundle.
func ValidateThermal(p eostypes.ThermalParams, logf func(string)) error {
	return Validate(logf,
		GreaterOrEqualZero("thermal.num_results", float64(p.NumResults)),
	)
}

// ValidateSpectral checks a spectral parameter bundle.
func ValidateSpectral(p eostypes.SpectralParams, logf func(string)) error {
	return Validate(logf,
		Guard{"spectral.algorithm", p.Algorithm == eostypes.SpectralAlgorithmRX},
		GreaterOrEqualZero("spectral.num_results", float64(p.NumResults)),
	)
}

// ValidateParticle checks a particle parameter bundle.
func ValidateParticle(p eostypes.ParticleParams, logf func(string)) error {
	return Validate(logf,
		Guard{"particle.algorithm", p.Algorithm == eostypes.ParticleAlgorithmBaseline},
		Guard{"particle.filter", p.Filter <= eostypes.FilterMaximum},
		GreaterOrEqualZero("particle.threshold", p.Threshold),
		GreaterThanZero("particle.max_observations", float64(p.MaxObservations)),
		GreaterThanZero("particle.max_bins", float64(p.MaxBins)),
	)
}

// ValidateAll checks every sub-bundle of a full Params struct.
func ValidateAll(p eostypes.Params, logf func(string)) error {
	if err := ValidateThermal(p.Thermal, logf); err != nil {
		return err
	}
	if err := ValidateSpectral(p.Spectral, logf); err != nil {
		return err
	}
	if err := ValidateParticle(p.Particle, logf); err != nil {
		return err
	}
	return nil
}
