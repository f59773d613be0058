package particle

import (
	"fmt"

	"github.com/jplmlia/eos-go/internal/arena"
	"github.com/jplmlia/eos-go/internal/eostypes"
)

// ErrNotInitialized is returned by OnRecv when called on a zero-value
// Detector, mirroring the original source's algorithm-registry guard
// that refuses on_recv before init has selected an algorithm.
var ErrNotInitialized = fmt.Errorf("eos: particle detector not initialized")

// Detector holds the streaming state for one particle-spectrometer
// stream: its queue of unsmoothed history (held by reference to
// caller-owned count arrays) and the most recently smoothed observation,
// whose counts live in a buffer allocated once at construction and
// overwritten in place thereafter so steady-state OnRecv calls never
// touch the Go heap.
type Detector struct {
	queue           *Queue
	lastSmoothedBuf []eostypes.ParticleCount
	lastSmoothed    eostypes.ParticleObservation
	params          eostypes.ParticleParams
	initialized     bool
	haveSeeded      bool
}

// NewDetector builds a Detector ready to accept observations under the
// given parameters. The MaxBins-sized smoothed-state buffer is allocated
// once here; every subsequent OnRecv call reuses it.
func NewDetector(params eostypes.ParticleParams) *Detector {
	return &Detector{
		queue:           NewQueue(int(params.MaxObservations)),
		lastSmoothedBuf: make([]eostypes.ParticleCount, params.MaxBins),
		params:          params,
		initialized:     true,
	}
}

// ScratchRequirement returns the arena bytes one OnRecv call needs: a
// MaxBins-sized smoothed-copy buffer plus whatever the configured
// filter's own scratch costs (see FilterScratchRequirement).
func ScratchRequirement(filter eostypes.FilterKind, maxBins, maxObservations int) int {
	return maxBins*sizeofParticleCount + FilterScratchRequirement(filter, maxObservations)
}

// OnRecv runs one streaming step: on the first observation of a stream
// it seeds last-smoothed state and reports no transition; thereafter it
// validates bin agreement, smooths obs against queued history using a
// scratch buffer on a, scores the squared-L2 change against the
// previous smoothed sample, and reports a transition when that score
// reaches the configured threshold. The unsmoothed obs is retained by
// reference in the internal queue; its Counts and BinLogEnergies slices
// must outlive every call until they age out of the window.
func (d *Detector) OnRecv(a *arena.Arena, obs eostypes.ParticleObservation) (eostypes.ParticleDetection, error) {
	if d == nil || !d.initialized {
		return eostypes.ParticleDetection{}, ErrNotInitialized
	}

	if d.queue.Empty() && !d.haveSeeded {
		d.seed(obs)
		if err := d.queue.Push(obs); err != nil {
			return eostypes.ParticleDetection{}, err
		}
		return eostypes.ParticleDetection{Event: eostypes.EventNoTransition, Timestamp: obs.Timestamp, Score: 0}, nil
	}

	if !CheckBinDefinitions(obs, d.lastSmoothed) {
		return eostypes.ParticleDetection{}, ErrBinsMismatch
	}

	n := int(obs.NumBins)
	buf, err := a.Allocate(n * sizeofParticleCount)
	if err != nil {
		return eostypes.ParticleDetection{}, err
	}
	scratch := asCounts(buf.Bytes(), n)
	copy(scratch, obs.Counts)
	smoothed := eostypes.ParticleObservation{
		ID: obs.ID, Timestamp: obs.Timestamp, NumBins: obs.NumBins,
		Mode: obs.Mode, Counts: scratch, BinLogEnergies: obs.BinLogEnergies,
	}

	if err := ApplyFilter(d.params.Filter, &smoothed, d.queue, a); err != nil {
		a.Deallocate(buf)
		return eostypes.ParticleDetection{}, err
	}

	score := squaredL2Diff(smoothed.Counts, d.lastSmoothed.Counts)

	copy(d.lastSmoothedBuf[:n], smoothed.Counts)
	d.lastSmoothed = eostypes.ParticleObservation{
		ID: obs.ID, Timestamp: obs.Timestamp, NumBins: obs.NumBins,
		Mode: obs.Mode, Counts: d.lastSmoothedBuf[:n], BinLogEnergies: obs.BinLogEnergies,
	}

	a.Deallocate(buf)

	event := eostypes.EventNoTransition
	if score >= d.params.Threshold {
		event = eostypes.EventTransition
	}

	if d.queue.Full() {
		if _, err := d.queue.Pop(); err != nil {
			return eostypes.ParticleDetection{}, err
		}
	}
	if err := d.queue.Push(obs); err != nil {
		return eostypes.ParticleDetection{}, err
	}

	return eostypes.ParticleDetection{Event: event, Timestamp: obs.Timestamp, Score: score}, nil
}

func (d *Detector) seed(obs eostypes.ParticleObservation) {
	n := int(obs.NumBins)
	copy(d.lastSmoothedBuf[:n], obs.Counts)
	d.lastSmoothed = eostypes.ParticleObservation{
		ID: obs.ID, Timestamp: obs.Timestamp, NumBins: obs.NumBins,
		Mode: obs.Mode, Counts: d.lastSmoothedBuf[:n], BinLogEnergies: obs.BinLogEnergies,
	}
	d.haveSeeded = true
}

// squaredL2Diff computes sum((a_i - b_i)^2) using an unsigned absolute
// difference widened to 64 bits before squaring, matching the source's
// overflow-safe accumulation.
func squaredL2Diff(a, b []eostypes.ParticleCount) float64 {
	var sum float64
	for i := range a {
		var diff uint64
		if a[i] > b[i] {
			diff = uint64(a[i]) - uint64(b[i])
		} else {
			diff = uint64(b[i]) - uint64(a[i])
		}
		sum += float64(diff * diff)
	}
	return sum
}
