package eos

import "github.com/jplmlia/eos-go/internal/eostypes"

// The types below are aliases onto internal/eostypes so every detector
// and loader package shares one definition while still letting calling
// code import only the root eos package, mirroring how eos_types_pub.h
// is the one struct definition shared by every .c file in the original
// source.

// Shape describes a rectangular pixel grid with a band count.
type Shape = eostypes.Shape

// ThermalBand is one band of a thermal observation.
type ThermalBand = eostypes.ThermalBand

// ThermalObservation mirrors the ETHEMIS wire format.
type ThermalObservation = eostypes.ThermalObservation

// SpectralObservation mirrors the MISE wire format.
type SpectralObservation = eostypes.SpectralObservation

// ParticleMode enumerates the PIMS operating regimes.
type ParticleMode = eostypes.ParticleMode

const (
	ModeTransition     = eostypes.ModeTransition
	ModeMagnetospheric = eostypes.ModeMagnetospheric
	ModeIonospheric    = eostypes.ModeIonospheric
)

// ParticleCount is the compile-time-chosen width for per-bin counts.
type ParticleCount = eostypes.ParticleCount

// ParticleObservation is one PIMS record.
type ParticleObservation = eostypes.ParticleObservation

// ParticleModeTable is one mode's bin definition.
type ParticleModeTable = eostypes.ParticleModeTable

// ParticleFile is the fully parsed contents of a PIMS observation file.
type ParticleFile = eostypes.ParticleFile

// Detection is one scored pixel: (row, col, score).
type Detection = eostypes.Detection

// ThermalParams holds the per-band hot-pixel thresholds and result count.
type ThermalParams = eostypes.ThermalParams

// SpectralAlgorithm enumerates the spectral-detector algorithm choices.
type SpectralAlgorithm = eostypes.SpectralAlgorithm

const (
	SpectralAlgorithmRX = eostypes.SpectralAlgorithmRX
)

// SpectralParams holds the spectral detector's tunables.
type SpectralParams = eostypes.SpectralParams

// FilterKind enumerates the particle smoothing filters.
type FilterKind = eostypes.FilterKind

const (
	FilterIdentity = eostypes.FilterIdentity
	FilterMinimum  = eostypes.FilterMinimum
	FilterMean     = eostypes.FilterMean
	FilterMedian   = eostypes.FilterMedian
	FilterMaximum  = eostypes.FilterMaximum
)

// ParticleAlgorithm enumerates the particle-detector algorithm choices.
type ParticleAlgorithm = eostypes.ParticleAlgorithm

const (
	ParticleAlgorithmBaseline = eostypes.ParticleAlgorithmBaseline
)

// ParticleParams holds the streaming particle detector's tunables.
type ParticleParams = eostypes.ParticleParams

// Params bundles every detector's parameters.
type Params = eostypes.Params

// InitParams is the worst-case parameter envelope used to size the arena.
type InitParams = eostypes.InitParams

// DetectionEvent enumerates the particle streaming detector's outcomes.
type DetectionEvent = eostypes.DetectionEvent

const (
	EventNoTransition = eostypes.EventNoTransition
	EventTransition   = eostypes.EventTransition
)

// ParticleDetection is the result of one ParticleState.OnRecv step.
type ParticleDetection = eostypes.ParticleDetection

// ThermalResult holds one top-K detection list per thermal band, each
// already sorted by descending score.
type ThermalResult struct {
	Bands [3][]Detection
}

// SpectralResult holds the RX detector's top-K detection list, sorted by
// descending score.
type SpectralResult struct {
	Detections []Detection
}
