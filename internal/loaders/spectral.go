package loaders

import "github.com/jplmlia/eos-go/internal/eostypes"

const spectralMagic = "EOS_MISE"

// LoadSpectral parses a MISE v1 observation from buf.
//
// Wire layout after the version byte: id, timestamp, cols, rows, bands,
// then cols*rows*bands u16 samples in band-interleaved-by-pixel order.
func LoadSpectral(buf []byte) (*eostypes.SpectralObservation, error) {
	return LoadSpectralWithLog(buf, nil)
}

// LoadSpectralWithLog is LoadSpectral with an optional diagnostic sink:
// logf is called once, after the declared body is fully parsed, if buf
// has unconsumed trailing bytes (§4.D: trailing bytes are a warning, not
// a load failure). A nil logf skips the diagnostic entirely.
func LoadSpectralWithLog(buf []byte, logf func(string)) (*eostypes.SpectralObservation, error) {
	r := newFrameReader(buf)
	if err := r.magic(spectralMagic); err != nil {
		return nil, err
	}
	if err := r.skipPadding(len(spectralMagic)); err != nil {
		return nil, err
	}
	version, err := r.version()
	if err != nil {
		return nil, err
	}
	if version != SupportedVersion {
		return nil, versionErrorf("spectral: unsupported version 0x%02x", version)
	}

	id, err := r.u32()
	if err != nil {
		return nil, err
	}
	ts, err := r.u32()
	if err != nil {
		return nil, err
	}
	cols, err := r.u32()
	if err != nil {
		return nil, err
	}
	rows, err := r.u32()
	if err != nil {
		return nil, err
	}
	bands, err := r.u32()
	if err != nil {
		return nil, err
	}

	shape := eostypes.Shape{Rows: rows, Cols: cols, Bands: bands}
	n := shape.Pixels() * int(bands)
	samples := make([]uint16, n)
	for i := 0; i < n; i++ {
		v, err := r.u16()
		if err != nil {
			return nil, loadErrorf("spectral samples: %v", err)
		}
		samples[i] = v
	}

	r.warnTrailing(logf)
	return &eostypes.SpectralObservation{ID: id, Timestamp: ts, Shape: shape, Samples: samples}, nil
}
