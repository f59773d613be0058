package eos

import (
	"github.com/jplmlia/eos-go/internal/loaders"
	"github.com/jplmlia/eos-go/internal/params"
	"github.com/jplmlia/eos-go/internal/spectral"
)

// LoadSpectral parses a big-endian MISE v1 observation buffer. It does
// not require Init. Trailing bytes past the parsed body are reported to
// the log sink at LogWarn and do not fail the load.
func LoadSpectral(buf []byte) (*SpectralObservation, error) {
	obs, err := loaders.LoadSpectralWithLog(buf, spectralTrailingLogf)
	if err != nil {
		return nil, wrapLoaderError(err, StatusMISELoadError, StatusMISEVersionError)
	}
	return obs, nil
}

// SpectralDetect runs the RX anomaly kernel over obs using the shared
// arena for its scratch (sample mean, covariance, pseudo-inverse) and
// returns the top p.NumResults pixels by descending score.
func SpectralDetect(obs *SpectralObservation, p SpectralParams) (*SpectralResult, error) {
	if err := before(); err != nil {
		return nil, err
	}
	if err := validateParamError(params.ValidateSpectral(p, spectralLogf)); err != nil {
		return nil, err
	}

	h, err := spectral.Detect(lib.arena, obs, p.NumResults)
	if err != nil {
		if err == spectral.ErrInsufficientSamples {
			return nil, statusErrorf(StatusValueError, "%v", err)
		}
		return nil, wrapArenaError(err)
	}
	return &SpectralResult{Detections: h.Results()}, nil
}

func spectralLogf(msg string) { logf(LogError, "%s", msg) }

func spectralTrailingLogf(msg string) { logf(LogWarn, "spectral: %s", msg) }
