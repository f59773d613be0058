package particle

import (
	"fmt"
	"math"
	"sort"
	"unsafe"

	"github.com/jplmlia/eos-go/internal/arena"
	"github.com/jplmlia/eos-go/internal/eostypes"
)

// ErrBinsMismatch is returned when a queued observation's num_bins
// disagrees with the current observation's, or when bin-centre energies
// disagree beyond tolerance.
var ErrBinsMismatch = fmt.Errorf("eos: particle observation bins mismatch")

const binTolerance = 1e-6

// sizeofParticleCount is the width (in bytes) ParticleCount is defined
// to be; scratch-sizing stays correct if the compile-time count-width
// choice (§4.J) is ever switched from uint16 to uint32.
const sizeofParticleCount = int(unsafe.Sizeof(eostypes.ParticleCount(0)))

// asCounts reinterprets an arena-backed byte buffer as a ParticleCount
// slice, the same technique internal/spectral uses to hand the RX
// kernel float64 scratch without a heap allocation per call.
func asCounts(buf []byte, n int) []eostypes.ParticleCount {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*eostypes.ParticleCount)(unsafe.Pointer(&buf[0])), n)
}

// CheckBinDefinitions reports whether a and b share the same bin count
// and agree on every bin-centre energy within binTolerance.
func CheckBinDefinitions(a, b eostypes.ParticleObservation) bool {
	if a.NumBins != b.NumBins {
		return false
	}
	if len(a.BinLogEnergies) != len(b.BinLogEnergies) {
		return false
	}
	for i := range a.BinLogEnergies {
		if math.Abs(float64(a.BinLogEnergies[i])-float64(b.BinLogEnergies[i])) > binTolerance {
			return false
		}
	}
	return true
}

// FilterScratchRequirement returns the arena bytes ApplyFilter needs for
// the given filter kind: only Median needs to materialise the full
// per-bin window (of size 1+maxObservations) in order to sort it; every
// other filter reduces the window by direct iteration and needs none.
func FilterScratchRequirement(kind eostypes.FilterKind, maxObservations int) int {
	if kind != eostypes.FilterMedian {
		return 0
	}
	return (1 + maxObservations) * sizeofParticleCount
}

// ApplyFilter overwrites current.Counts bin-by-bin with the reduction of
// kind across {current} union every observation in queue. Every queued
// observation's NumBins must equal current's; a mismatch returns
// ErrBinsMismatch and leaves current unmodified. a supplies scratch for
// filters (only Median needs any); nil is accepted when kind cannot need
// scratch.
func ApplyFilter(kind eostypes.FilterKind, current *eostypes.ParticleObservation, queue *Queue, a *arena.Arena) error {
	numBins := int(current.NumBins)
	var mismatch error
	queue.Each(func(o eostypes.ParticleObservation) {
		if mismatch == nil && int(o.NumBins) != numBins {
			mismatch = ErrBinsMismatch
		}
	})
	if mismatch != nil {
		return mismatch
	}

	if kind == eostypes.FilterIdentity {
		return nil
	}

	switch kind {
	case eostypes.FilterMinimum:
		reduceStreaming(current, queue, func(acc, v eostypes.ParticleCount) eostypes.ParticleCount {
			if v < acc {
				return v
			}
			return acc
		})
	case eostypes.FilterMaximum:
		reduceStreaming(current, queue, func(acc, v eostypes.ParticleCount) eostypes.ParticleCount {
			if v > acc {
				return v
			}
			return acc
		})
	case eostypes.FilterMean:
		applyMean(current, queue)
	case eostypes.FilterMedian:
		return applyMedian(current, queue, a)
	default:
		return fmt.Errorf("eos: unknown filter kind %d", kind)
	}
	return nil
}

// reduceStreaming folds fn(acc, v) across current plus every queued
// observation's value for each bin, without materialising the window.
func reduceStreaming(current *eostypes.ParticleObservation, queue *Queue, fn func(acc, v eostypes.ParticleCount) eostypes.ParticleCount) {
	for b := range current.Counts {
		acc := current.Counts[b]
		queue.Each(func(o eostypes.ParticleObservation) {
			acc = fn(acc, o.Counts[b])
		})
		current.Counts[b] = acc
	}
}

func applyMean(current *eostypes.ParticleObservation, queue *Queue) {
	setSize := uint64(1 + queue.Size())
	for b := range current.Counts {
		sum := uint64(current.Counts[b])
		queue.Each(func(o eostypes.ParticleObservation) {
			sum += uint64(o.Counts[b])
		})
		current.Counts[b] = eostypes.ParticleCount(sum / setSize)
	}
}

func applyMedian(current *eostypes.ParticleObservation, queue *Queue, a *arena.Arena) error {
	setSize := 1 + queue.Size()
	buf, err := a.Allocate(setSize * sizeofParticleCount)
	if err != nil {
		return err
	}
	defer a.Deallocate(buf)
	scratch := asCounts(buf.Bytes(), setSize)

	for b := range current.Counts {
		scratch[0] = current.Counts[b]
		i := 1
		queue.Each(func(o eostypes.ParticleObservation) {
			scratch[i] = o.Counts[b]
			i++
		})
		sort.Slice(scratch, func(i, j int) bool { return scratch[i] < scratch[j] })
		mid := len(scratch) / 2
		if len(scratch)%2 == 1 {
			current.Counts[b] = scratch[mid]
		} else {
			current.Counts[b] = eostypes.ParticleCount((uint32(scratch[mid-1]) + uint32(scratch[mid])) / 2)
		}
	}
	return nil
}
