// Package config loads the JSON parameter file that drives cmd/eosdetect:
// a thin, validated mirror of EosParams/EosInitParams layered on top of
// the core's own hard-coded defaults, in the same shape the teacher's
// internal/config/tuning.go loads tuning overrides (optional pointer
// fields, defaults filled in for anything the file omits).
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	eos "github.com/jplmlia/eos-go"
)

// maxFileSize caps the config file the demo command will read, matching
// the teacher's pre-read size guard on tuning files.
const maxFileSize = 1 << 20 // 1 MiB

// ErrInvalidExtension is returned when the config path does not end in
// ".json".
var ErrInvalidExtension = fmt.Errorf("config: file must have a .json extension")

// ErrFileTooLarge is returned when the config file exceeds maxFileSize.
var ErrFileTooLarge = fmt.Errorf("config: file exceeds maximum size")

type shapeFile struct {
	Rows  *uint32 `json:"rows"`
	Cols  *uint32 `json:"cols"`
	Bands *uint32 `json:"bands"`
}

func (s *shapeFile) apply(dst *eos.Shape) {
	if s == nil {
		return
	}
	if s.Rows != nil {
		dst.Rows = *s.Rows
	}
	if s.Cols != nil {
		dst.Cols = *s.Cols
	}
	if s.Bands != nil {
		dst.Bands = *s.Bands
	}
}

type thermalFile struct {
	Thresholds *[3]uint16 `json:"thresholds"`
	NumResults *uint32    `json:"num_results"`
}

type spectralFile struct {
	Algorithm  *uint32 `json:"algorithm"`
	NumResults *uint32 `json:"num_results"`
}

type particleFile struct {
	Algorithm       *uint32  `json:"algorithm"`
	Filter          *uint32  `json:"filter"`
	Threshold       *float64 `json:"threshold"`
	MaxObservations *uint32  `json:"max_observations"`
	MaxBins         *uint32  `json:"max_bins"`
}

// file mirrors eos.InitParams: every leaf is optional so a config only
// needs to name the fields it wants to override.
type file struct {
	Thermal           *thermalFile  `json:"thermal"`
	Spectral          *spectralFile `json:"spectral"`
	Particle          *particleFile `json:"particle"`
	ThermalBandShapes *[3]shapeFile `json:"thermal_band_shapes"`
	SpectralShape     *shapeFile    `json:"spectral_shape"`
}

// Load reads path, validates its extension and size, and merges its
// contents onto eos.InitDefaultParams() plus the zero InitParams shape
// fields, returning the combined InitParams ready for eos.Init.
func Load(path string) (eos.InitParams, error) {
	if filepath.Ext(path) != ".json" {
		return eos.InitParams{}, ErrInvalidExtension
	}
	info, err := os.Stat(path)
	if err != nil {
		return eos.InitParams{}, fmt.Errorf("config: %w", err)
	}
	if info.Size() > maxFileSize {
		return eos.InitParams{}, ErrFileTooLarge
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return eos.InitParams{}, fmt.Errorf("config: %w", err)
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return eos.InitParams{}, fmt.Errorf("config: invalid json: %w", err)
	}

	p := eos.InitParams{Params: eos.InitDefaultParams()}
	f.mergeInto(&p)
	return p, nil
}

func (f *file) mergeInto(p *eos.InitParams) {
	if f.Thermal != nil {
		if f.Thermal.Thresholds != nil {
			p.Thermal.Thresholds = *f.Thermal.Thresholds
		}
		if f.Thermal.NumResults != nil {
			p.Thermal.NumResults = *f.Thermal.NumResults
		}
	}
	if f.Spectral != nil {
		if f.Spectral.Algorithm != nil {
			p.Spectral.Algorithm = eos.SpectralAlgorithm(*f.Spectral.Algorithm)
		}
		if f.Spectral.NumResults != nil {
			p.Spectral.NumResults = *f.Spectral.NumResults
		}
	}
	if f.Particle != nil {
		if f.Particle.Algorithm != nil {
			p.Particle.Algorithm = eos.ParticleAlgorithm(*f.Particle.Algorithm)
		}
		if f.Particle.Filter != nil {
			p.Particle.Filter = eos.FilterKind(*f.Particle.Filter)
		}
		if f.Particle.Threshold != nil {
			p.Particle.Threshold = *f.Particle.Threshold
		}
		if f.Particle.MaxObservations != nil {
			p.Particle.MaxObservations = *f.Particle.MaxObservations
		}
		if f.Particle.MaxBins != nil {
			p.Particle.MaxBins = *f.Particle.MaxBins
		}
	}
	if f.ThermalBandShapes != nil {
		for b := range f.ThermalBandShapes {
			f.ThermalBandShapes[b].apply(&p.ThermalBandShapes[b])
		}
	}
	if f.SpectralShape != nil {
		f.SpectralShape.apply(&p.SpectralShape)
	}
}
