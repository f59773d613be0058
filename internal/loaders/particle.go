package loaders

import (
	"math"

	"github.com/jplmlia/eos-go/internal/eostypes"
	"github.com/jplmlia/eos-go/internal/numeric"
)

const particleMagic = "EOS_PIMS"

// LoadParticle parses a PIMS v1 file from buf.
//
// Wire layout after the version byte: file-id, num_modes, max_bins,
// num_obs; then per mode, max_bins big-endian f32 bin-centre energies
// (a positive-infinity value terminates that mode's list early); then
// per observation, (obs-id, timestamp, num_bins, mode) followed by
// max_bins big-endian u32 counts, saturated to ParticleCount's width.
func LoadParticle(buf []byte) (*eostypes.ParticleFile, error) {
	return LoadParticleWithLog(buf, nil, nil)
}

// LoadParticleWithLog is LoadParticle with two optional diagnostic sinks:
// the original _load_pims_v1 logs each mode's resolved bin count and
// every bin's log-energy at INFO as it parses the mode table. modeLogf is
// called once per mode (never per observation, so it stays quiet in
// steady-state streaming) with that mode's index, bin count and
// energies. warnf is called once, after the declared body is fully
// parsed, if buf has unconsumed trailing bytes (§4.D: trailing bytes are
// a warning, not a load failure). Either callback may be nil to skip its
// diagnostic.
func LoadParticleWithLog(buf []byte, modeLogf func(mode int, binEnergies []float32), warnf func(string)) (*eostypes.ParticleFile, error) {
	r := newFrameReader(buf)
	if err := r.magic(particleMagic); err != nil {
		return nil, err
	}
	if err := r.skipPadding(len(particleMagic)); err != nil {
		return nil, err
	}
	version, err := r.version()
	if err != nil {
		return nil, err
	}
	if version != SupportedVersion {
		return nil, versionErrorf("particle: unsupported version 0x%02x", version)
	}

	fileID, err := r.u32()
	if err != nil {
		return nil, err
	}
	numModes, err := r.u32()
	if err != nil {
		return nil, err
	}
	maxBins, err := r.u32()
	if err != nil {
		return nil, err
	}
	numObs, err := r.u32()
	if err != nil {
		return nil, err
	}

	modes := make([]eostypes.ParticleModeTable, numModes)
	for m := uint32(0); m < numModes; m++ {
		energies := make([]float32, 0, maxBins)
		for i := uint32(0); i < maxBins; i++ {
			e, err := r.f32()
			if err != nil {
				return nil, loadErrorf("particle mode %d bin %d: %v", m, i, err)
			}
			if float64(e) == math.Inf(1) {
				// The mode's slot is still max_bins entries wide on the
				// wire; skip the entries after the sentinel.
				if _, err := r.take(int(maxBins-i-1) * 4); err != nil {
					return nil, loadErrorf("particle mode %d bin padding: %v", m, err)
				}
				break
			}
			energies = append(energies, e)
		}
		if len(energies) == 0 {
			return nil, loadErrorf("particle mode %d: empty bin list", m)
		}
		modes[m] = eostypes.ParticleModeTable{BinLogEnergies: energies}
		if modeLogf != nil {
			modeLogf(int(m), energies)
		}
	}

	obs := make([]eostypes.ParticleObservation, numObs)
	for o := uint32(0); o < numObs; o++ {
		obsID, err := r.u32()
		if err != nil {
			return nil, err
		}
		ts, err := r.u32()
		if err != nil {
			return nil, err
		}
		numBins, err := r.u32()
		if err != nil {
			return nil, err
		}
		modeVal, err := r.u32()
		if err != nil {
			return nil, err
		}
		mode := eostypes.ParticleMode(modeVal)
		if modeVal >= numModes {
			return nil, loadErrorf("particle observation %d: mode %d out of range", o, modeVal)
		}
		if int(numBins) != len(modes[mode].BinLogEnergies) {
			return nil, loadErrorf("particle observation %d: num_bins %d disagrees with mode %d's %d bins",
				o, numBins, mode, len(modes[mode].BinLogEnergies))
		}

		counts := make([]eostypes.ParticleCount, maxBins)
		for i := uint32(0); i < maxBins; i++ {
			raw, err := r.u32()
			if err != nil {
				return nil, loadErrorf("particle observation %d count %d: %v", o, i, err)
			}
			counts[i] = numeric.SaturateU32ToU16(raw)
		}

		obs[o] = eostypes.ParticleObservation{
			ID:             obsID,
			Timestamp:      ts,
			NumBins:        numBins,
			Mode:           mode,
			Counts:         counts[:numBins],
			BinLogEnergies: modes[mode].BinLogEnergies,
		}
	}

	r.warnTrailing(warnf)
	return &eostypes.ParticleFile{
		FileID:       fileID,
		NumModes:     numModes,
		MaxBins:      maxBins,
		NumObs:       numObs,
		Modes:        modes,
		Observations: obs,
	}, nil
}

// ParticleObservationAttributes peeks the file-id/num_modes/max_bins/
// num_obs header quartet without parsing mode tables or observation
// bodies, letting a caller size destination buffers before a full
// LoadParticle.
func ParticleObservationAttributes(buf []byte) (numModes, maxBins, numObs uint32, err error) {
	r := newFrameReader(buf)
	if err := r.magic(particleMagic); err != nil {
		return 0, 0, 0, err
	}
	if err := r.skipPadding(len(particleMagic)); err != nil {
		return 0, 0, 0, err
	}
	version, err := r.version()
	if err != nil {
		return 0, 0, 0, err
	}
	if version != SupportedVersion {
		return 0, 0, 0, versionErrorf("particle: unsupported version 0x%02x", version)
	}
	if _, err := r.u32(); err != nil { // file_id, discarded
		return 0, 0, 0, err
	}
	if numModes, err = r.u32(); err != nil {
		return 0, 0, 0, err
	}
	if maxBins, err = r.u32(); err != nil {
		return 0, 0, 0, err
	}
	if numObs, err = r.u32(); err != nil {
		return 0, 0, 0, err
	}
	return numModes, maxBins, numObs, nil
}
