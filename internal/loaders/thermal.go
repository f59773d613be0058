package loaders

import "github.com/jplmlia/eos-go/internal/eostypes"

const thermalMagic = "EOS_ETHEMIS"

// LoadThermal parses an ETHEMIS v1 observation from buf.
//
// Wire layout after the version byte: id, timestamp, then six u32 giving
// (cols, rows) for each of three bands, then each band's row-major u16
// block in turn. The original header reserves two further u32 slots
// (eight total after id/timestamp) whose semantics are undocumented in
// any version seen so far; this loader reads only the six that are
// defined and does not attempt to interpret the reserved pair.
func LoadThermal(buf []byte) (*eostypes.ThermalObservation, error) {
	return LoadThermalWithLog(buf, nil)
}

// LoadThermalWithLog is LoadThermal with an optional diagnostic sink:
// logf is called once, after the declared body is fully parsed, if buf
// has unconsumed trailing bytes (§4.D: trailing bytes are a warning, not
// a load failure). A nil logf skips the diagnostic entirely.
func LoadThermalWithLog(buf []byte, logf func(string)) (*eostypes.ThermalObservation, error) {
	r := newFrameReader(buf)
	if err := r.magic(thermalMagic); err != nil {
		return nil, err
	}
	if err := r.skipPadding(len(thermalMagic)); err != nil {
		return nil, err
	}
	version, err := r.version()
	if err != nil {
		return nil, err
	}
	if version != SupportedVersion {
		return nil, versionErrorf("thermal: unsupported version 0x%02x", version)
	}

	id, err := r.u32()
	if err != nil {
		return nil, err
	}
	ts, err := r.u32()
	if err != nil {
		return nil, err
	}

	obs := &eostypes.ThermalObservation{ID: id, Timestamp: ts}
	var shapes [3]eostypes.Shape
	for b := 0; b < 3; b++ {
		cols, err := r.u32()
		if err != nil {
			return nil, err
		}
		rows, err := r.u32()
		if err != nil {
			return nil, err
		}
		shapes[b] = eostypes.Shape{Rows: rows, Cols: cols, Bands: 1}
	}

	for b := 0; b < 3; b++ {
		shape := shapes[b]
		n := shape.Pixels()
		samples := make([]uint16, n)
		for i := 0; i < n; i++ {
			v, err := r.u16()
			if err != nil {
				return nil, loadErrorf("thermal band %d: %v", b, err)
			}
			samples[i] = v
		}
		obs.Bands[b] = eostypes.ThermalBand{Shape: shape, Samples: samples}
	}

	r.warnTrailing(logf)
	return obs, nil
}
