package eos

import (
	"github.com/jplmlia/eos-go/internal/loaders"
	"github.com/jplmlia/eos-go/internal/params"
	"github.com/jplmlia/eos-go/internal/particle"
)

// LoadParticle parses a big-endian PIMS v1 file buffer. It does not
// require Init. Each mode's resolved bin count and bin-centre energies
// are reported to the log sink at LogInfo as the mode table is parsed,
// matching the original loader's per-mode diagnostic (this only fires
// once per mode per file load, never per observation). Trailing bytes
// past the parsed body are reported at LogWarn and do not fail the load.
func LoadParticle(buf []byte) (*ParticleFile, error) {
	f, err := loaders.LoadParticleWithLog(buf, particleModeLogf, particleTrailingLogf)
	if err != nil {
		return nil, wrapLoaderError(err, StatusPIMSLoadError, StatusPIMSVersionError)
	}
	return f, nil
}

func particleModeLogf(mode int, binEnergies []float32) {
	logf(LogInfo, "particle mode %d: %d bins, energies=%v", mode, len(binEnergies), binEnergies)
}

func particleTrailingLogf(msg string) { logf(LogWarn, "particle: %s", msg) }

// ParticleObservationAttributes peeks a PIMS file's mode/bin/observation
// counts without parsing the full body, so a caller can size destination
// buffers before calling LoadParticle.
func ParticleObservationAttributes(buf []byte) (numModes, maxBins, numObs uint32, err error) {
	numModes, maxBins, numObs, err = loaders.ParticleObservationAttributes(buf)
	if err != nil {
		return 0, 0, 0, wrapLoaderError(err, StatusPIMSLoadError, StatusPIMSVersionError)
	}
	return numModes, maxBins, numObs, nil
}

// ParticleState holds one stream's particle-detector state: its
// observation queue and most recently smoothed sample. Callers that
// track multiple simultaneous streams keep one ParticleState per stream,
// all sharing the single library arena across OnRecv calls.
type ParticleState struct {
	det *particle.Detector
}

// NewParticleState validates p and returns a ParticleState ready to
// accept observations for one stream.
func NewParticleState(p ParticleParams) (*ParticleState, error) {
	if err := before(); err != nil {
		return nil, err
	}
	if err := validateParamError(params.ValidateParticle(p, particleLogf)); err != nil {
		return nil, err
	}
	return &ParticleState{det: particle.NewDetector(p)}, nil
}

// OnRecv runs one streaming step against obs, smoothing it against the
// stream's recent history and scoring the change versus the previous
// smoothed sample.
func (s *ParticleState) OnRecv(obs ParticleObservation) (ParticleDetection, error) {
	if err := before(); err != nil {
		return ParticleDetection{}, err
	}
	if s == nil || s.det == nil {
		return ParticleDetection{}, statusErrorf(StatusPIMSNotInitialized, "particle state not initialized")
	}

	det, err := s.det.OnRecv(lib.arena, obs)
	if err != nil {
		return ParticleDetection{}, wrapParticleError(err)
	}
	return det, nil
}

func wrapParticleError(err error) error {
	switch err {
	case particle.ErrNotInitialized:
		return statusErrorf(StatusPIMSNotInitialized, "%v", err)
	case particle.ErrBinsMismatch:
		return statusErrorf(StatusPIMSBinsMismatch, "%v", err)
	case particle.ErrQueueFull:
		return statusErrorf(StatusPIMSQueueFull, "%v", err)
	case particle.ErrQueueEmpty:
		return statusErrorf(StatusPIMSQueueEmpty, "%v", err)
	default:
		return wrapArenaError(err)
	}
}

func particleLogf(msg string) { logf(LogError, "%s", msg) }
