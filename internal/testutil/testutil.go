// Package testutil provides shared fixtures for exercising the detector
// and loader packages without each _test.go file hand-rolling its own
// synthetic observations and wire buffers.
package testutil

import (
	"encoding/binary"
	"math"

	"github.com/jplmlia/eos-go/internal/eostypes"
)

// ThermalBand builds a single thermal band of the given shape, filled
// with fill, with the listed (row, col, value) overrides applied on top.
func ThermalBand(rows, cols uint32, fill uint16, overrides map[[2]int]uint16) eostypes.ThermalBand {
	samples := make([]uint16, int(rows)*int(cols))
	for i := range samples {
		samples[i] = fill
	}
	for rc, v := range overrides {
		samples[rc[0]*int(cols)+rc[1]] = v
	}
	return eostypes.ThermalBand{
		Shape:   eostypes.Shape{Rows: rows, Cols: cols, Bands: 1},
		Samples: samples,
	}
}

// SpectralObservation builds a band-interleaved-by-pixel spectral
// observation from a flat, row-major, per-pixel-then-band sample list.
func SpectralObservation(id, ts uint32, rows, cols, bands uint32, samples []uint16) *eostypes.SpectralObservation {
	return &eostypes.SpectralObservation{
		ID:        id,
		Timestamp: ts,
		Shape:     eostypes.Shape{Rows: rows, Cols: cols, Bands: bands},
		Samples:   samples,
	}
}

// ParticleObservation builds a particle observation sharing the given
// bin-energy grid.
func ParticleObservation(id, ts uint32, mode eostypes.ParticleMode, counts []uint16, binLogEnergies []float32) eostypes.ParticleObservation {
	cs := make([]eostypes.ParticleCount, len(counts))
	for i, c := range counts {
		cs[i] = eostypes.ParticleCount(c)
	}
	return eostypes.ParticleObservation{
		ID:             id,
		Timestamp:      ts,
		NumBins:        uint32(len(counts)),
		Mode:           mode,
		Counts:         cs,
		BinLogEnergies: binLogEnergies,
	}
}

// UniformBinEnergies returns n log-centre energies spaced one unit apart
// starting at 0, a stand-in bin grid for tests that don't care about its
// exact values, only that every observation in a stream shares it.
func UniformBinEnergies(n int) []float32 {
	e := make([]float32, n)
	for i := range e {
		e[i] = float32(i)
	}
	return e
}

// BEPutU32 appends v to buf in big-endian order.
func BEPutU32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

// BEPutU16 appends v to buf in big-endian order.
func BEPutU16(buf []byte, v uint16) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	return append(buf, b[:]...)
}

// BEPutF32 appends the big-endian IEEE-754 bit pattern of v to buf.
func BEPutF32(buf []byte, v float32) []byte {
	return BEPutU32(buf, math.Float32bits(v))
}

// FramedHeader writes magic, the padding the wire format requires so
// that magic+padding+version is a non-zero multiple of alignment 4, and
// the version byte, matching internal/loaders' framing convention.
func FramedHeader(magic string, version byte) []byte {
	buf := []byte(magic)
	total := len(magic) + 1
	pad := total % 4
	if pad == 0 {
		pad = 4
	} else {
		pad = 4 - pad
	}
	for i := 0; i < pad; i++ {
		buf = append(buf, 0)
	}
	return append(buf, version)
}
