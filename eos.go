package eos

import (
	"fmt"
	"log"

	"github.com/jplmlia/eos-go/internal/arena"
	"github.com/jplmlia/eos-go/internal/loaders"
	"github.com/jplmlia/eos-go/internal/params"
	"github.com/jplmlia/eos-go/internal/particle"
	"github.com/jplmlia/eos-go/internal/spectral"
)

// LogType mirrors EosLogType: the severity tag attached to every record
// delivered to the log sink.
type LogType int

const (
	LogDebug LogType = iota
	LogInfo
	LogWarn
	LogError
	LogKeyValue
)

func (t LogType) String() string {
	switch t {
	case LogDebug:
		return "DEBUG"
	case LogInfo:
		return "INFO"
	case LogWarn:
		return "WARN"
	case LogError:
		return "ERROR"
	case LogKeyValue:
		return "KV"
	default:
		return "UNKNOWN"
	}
}

// LogFunc is the caller-supplied log sink, the Go rendering of
// eos_log.h's function-pointer callback. A nil LogFunc passed to Init
// falls back to defaultLog.
type LogFunc func(LogType, string)

// maxLogMessage caps a single log message, mirroring eos_logf's
// vsnprintf-with-truncation behaviour.
const maxLogMessage = 1024

func defaultLog(t LogType, msg string) {
	if t == LogKeyValue {
		return
	}
	log.Printf("[%s] %s", t, msg)
}

// library holds the process-lifetime singleton state: the arena, the
// log sink and the initialised flag. The single-threaded cooperative
// contract (spec §5) makes the singleton form safe; see DESIGN.md for
// why this repo keeps it rather than threading an opaque handle through
// every call.
type library struct {
	initialized bool
	selfOwned   bool
	arena       *arena.Arena
	logFn       LogFunc
	initParams  InitParams
}

var lib library

func logf(t LogType, format string, args ...any) {
	fn := lib.logFn
	if fn == nil {
		fn = defaultLog
	}
	msg := format
	if len(args) > 0 {
		msg = sprintfTruncated(format, args...)
	}
	fn(t, msg)
}

func sprintfTruncated(format string, args ...any) string {
	s := fmt.Sprintf(format, args...)
	if len(s) > maxLogMessage {
		return s[:maxLogMessage]
	}
	return s
}

// InitDefaultParams returns the parameter bundle's hard-coded defaults:
// zero thermal thresholds, RX for spectral, and a median-filtered
// baseline particle detector with threshold 0, 1000 max observations and
// 100 max bins, matching eos_init_default_params's params_init_default.
func InitDefaultParams() Params {
	return Params{
		Thermal: ThermalParams{
			Thresholds: [3]uint16{0, 0, 0},
			NumResults: 0,
		},
		Spectral: SpectralParams{
			Algorithm:  SpectralAlgorithmRX,
			NumResults: 0,
		},
		Particle: ParticleParams{
			Algorithm:       ParticleAlgorithmBaseline,
			Filter:          FilterMedian,
			Threshold:       0,
			MaxObservations: 1000,
			MaxBins:         100,
		},
	}
}

// MemoryRequirement returns the arena size needed to support any public
// call under the declared worst-case parameter envelope: the pointwise
// maximum over the thermal (zero), spectral RX, and particle detectors'
// own scratch requirements, plus STACK_MAX_DEPTH*AlignSize of per-call
// padding, mirroring eos_memory_requirement summing the same max across
// all three detectors rather than just the RX kernel (SPEC_FULL.md 12).
func MemoryRequirement(p InitParams) uint64 {
	spectralReq := spectral.ScratchRequirement(int(p.SpectralShape.Bands))
	particleReq := particle.ScratchRequirement(p.Particle.Filter, int(p.Particle.MaxBins), int(p.Particle.MaxObservations))

	callSize := spectralReq
	if particleReq > callSize {
		callSize = particleReq
	}
	padding := arena.StackMaxDepth * arena.AlignSize
	return uint64(callSize + padding)
}

// Init binds the library's arena and log sink. If memory is nil, the
// arena self-allocates MemoryRequirement(params) bytes; otherwise the
// caller-supplied region must be at least that large. Re-initialising
// tears down any prior state first.
func Init(p InitParams, memory []byte, logFn LogFunc) error {
	if lib.initialized {
		logf(LogInfo, "Tearing down prior EOS initialization.")
		Teardown()
	}

	lib.logFn = logFn
	required := MemoryRequirement(p)

	if memory == nil {
		lib.arena = arena.NewSelfAllocated(int(required))
		lib.selfOwned = true
	} else {
		if uint64(len(memory)) < required {
			logf(LogError, "Memory initialization failed.")
			return statusErrorf(StatusInsufficientMemory,
				"need %d bytes, got %d", required, len(memory))
		}
		lib.arena = arena.New(memory)
		lib.selfOwned = false
	}

	logf(LogInfo, "Memory initialization successful.")
	lib.initParams = p
	lib.initialized = true
	return nil
}

// Teardown releases the self-allocated arena (if any) and clears sinks.
func Teardown() error {
	lib.initialized = false
	lib.arena = nil
	lib.selfOwned = false
	lib.logFn = nil
	return nil
}

// before is called at the top of every public entry point that requires
// initialization: it clears any sub-allocations a prior faulty caller
// leaked and reports StatusNotInitialized if Init was never called.
func before() error {
	if !lib.initialized {
		logf(LogError, "EOS is not initialized.")
		return statusErrorf(StatusNotInitialized, "eos.Init was not called")
	}
	lib.arena.Clear()
	return nil
}

func validateParamError(err error) error {
	if err == nil {
		return nil
	}
	if err == params.ErrParameter {
		return statusErrorf(StatusParamError, "%v", err)
	}
	return err
}

// wrapArenaError maps the arena package's sentinel errors onto
// StatusInsufficientMemory: from a caller's view, a stack-full or
// out-of-memory scratch request is the same failure as undersizing the
// memory handed to Init in the first place.
func wrapArenaError(err error) error {
	switch err {
	case arena.ErrOutOfMemory, arena.ErrStackFull:
		return statusErrorf(StatusInsufficientMemory, "%v", err)
	case arena.ErrLIFOViolation:
		return statusErrorf(StatusLIFOViolation, "%v", err)
	default:
		return err
	}
}

// wrapLoaderError maps an internal/loaders.Error's Status into the public
// instrument-specific load/version status pair.
func wrapLoaderError(err error, loadStatus, versionStatus Status) error {
	le, ok := err.(*loaders.Error)
	if !ok {
		return err
	}
	status := loadStatus
	if le.Status == loaders.StatusVersionError {
		status = versionStatus
	}
	logf(LogError, "%v", le)
	return statusErrorf(status, "%v", le)
}
