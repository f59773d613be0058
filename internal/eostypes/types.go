// Package eostypes holds the data shapes shared by every detector and
// loader layer. Keeping them in one leaf package lets internal/loaders,
// internal/thermal, internal/spectral and internal/particle exchange
// observations without importing each other or the public eos package.
package eostypes

// Shape describes a rectangular pixel grid with a band count. All three
// fields are non-negative; a zero dimension describes a valid, empty
// observation.
type Shape struct {
	Rows  uint32
	Cols  uint32
	Bands uint32
}

// Empty reports whether the shape has no pixels.
func (s Shape) Empty() bool {
	return s.Rows == 0 || s.Cols == 0
}

// Pixels returns the number of pixels described by the shape (Rows*Cols).
func (s Shape) Pixels() int {
	return int(s.Rows) * int(s.Cols)
}

// ThermalBand is one band of a thermal observation: its own shape plus a
// row-major block of 16-bit unsigned samples.
type ThermalBand struct {
	Shape   Shape
	Samples []uint16
}

// ThermalObservation mirrors the ETHEMIS wire format: an identifier, a
// timestamp, and three independent bands.
type ThermalObservation struct {
	ID        uint32
	Timestamp uint32
	Bands     [3]ThermalBand
}

// SpectralObservation mirrors the MISE wire format: a single band-count
// shape and one band-interleaved-by-pixel (BIP) sample block. For pixel
// (r,c) and band b the sample lives at (r*Cols+c)*Bands+b.
type SpectralObservation struct {
	ID        uint32
	Timestamp uint32
	Shape     Shape
	Samples   []uint16
}

// At returns the sample for pixel (row,col), band b.
func (o *SpectralObservation) At(row, col, b int) uint16 {
	idx := (row*int(o.Shape.Cols)+col)*int(o.Shape.Bands) + b
	return o.Samples[idx]
}

// ParticleMode enumerates the PIMS operating regimes named in the wire
// format and the detector state machine.
type ParticleMode uint32

const (
	ModeTransition ParticleMode = iota
	ModeMagnetospheric
	ModeIonospheric
)

// ParticleCount is the compile-time-chosen width for per-bin counts. The
// design target is 16-bit. MaxParticleCount follows this alias, but the
// PIMS loader saturates with numeric.SaturateU32ToU16, which is written
// for the 16-bit width.
type ParticleCount = uint16

// MaxParticleCount is the saturation ceiling matching ParticleCount's
// width. Loaders and filters must clip, never wrap, at this value.
const MaxParticleCount = ^ParticleCount(0)

// ParticleObservation is one PIMS record: an identifier, timestamp, bin
// count, mode tag, per-bin counts and the per-bin log-centre energies
// shared by reference with the owning mode's bin table.
type ParticleObservation struct {
	ID              uint32
	Timestamp       uint32
	NumBins         uint32
	Mode            ParticleMode
	Counts          []ParticleCount
	BinLogEnergies  []float32
}

// ParticleModeTable is one mode's bin definition: the log-centre energies
// for each bin, truncated early by a positive-infinity sentinel.
type ParticleModeTable struct {
	BinLogEnergies []float32
}

// ParticleFile is the fully parsed contents of a PIMS observation file.
type ParticleFile struct {
	FileID       uint32
	NumModes     uint32
	MaxBins      uint32
	NumObs       uint32
	Modes        []ParticleModeTable
	Observations []ParticleObservation
}

// Detection is one scored pixel: (row, col, score).
type Detection struct {
	Row   uint32
	Col   uint32
	Score float64
}

// ThermalParams holds the per-band hot-pixel thresholds and the number of
// top-K results requested per band.
type ThermalParams struct {
	Thresholds  [3]uint16
	NumResults  uint32
}

// SpectralAlgorithm enumerates the spectral-detector algorithm choices.
// RX is the only algorithm this core implements; the enum exists so
// parameter validation can reject anything else explicitly.
type SpectralAlgorithm uint32

const (
	SpectralAlgorithmRX SpectralAlgorithm = iota
)

// SpectralParams holds the spectral detector's tunables.
type SpectralParams struct {
	Algorithm  SpectralAlgorithm
	NumResults uint32
}

// FilterKind enumerates the particle smoothing filters.
type FilterKind uint32

const (
	FilterIdentity FilterKind = iota
	FilterMinimum
	FilterMean
	FilterMedian
	FilterMaximum
)

// ParticleAlgorithm enumerates the particle-detector algorithm choices.
type ParticleAlgorithm uint32

const (
	ParticleAlgorithmBaseline ParticleAlgorithm = iota
)

// ParticleParams holds the streaming particle detector's tunables.
type ParticleParams struct {
	Algorithm        ParticleAlgorithm
	Filter           FilterKind
	Threshold        float64
	MaxObservations  uint32
	MaxBins          uint32
}

// Params bundles every detector's parameters, mirroring EosParams in the
// original source.
type Params struct {
	Thermal  ThermalParams
	Spectral SpectralParams
	Particle ParticleParams
}

// InitParams is the worst-case parameter envelope used to size the
// arena; it is a superset of Params restricted to the fields that drive
// memory requirements (band counts, bin counts, result counts).
type InitParams struct {
	Params

	ThermalBandShapes [3]Shape
	SpectralShape     Shape
}

// DetectionEvent enumerates the particle streaming detector's outcomes.
type DetectionEvent uint32

const (
	EventNoTransition DetectionEvent = iota
	EventTransition
)

// ParticleDetection is the result of one particle_on_recv step.
type ParticleDetection struct {
	Event     DetectionEvent
	Timestamp uint32
	Score     float64
}
