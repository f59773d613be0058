// Package particle implements the streaming particle-spectrometer
// detector: a bounded ring of recent observations, a family of per-bin
// smoothing filters, and a squared-L2 change score against the previous
// smoothed sample.
package particle

import (
	"fmt"

	"github.com/jplmlia/eos-go/internal/eostypes"
)

// ErrQueueFull is returned by Push when the queue already holds MaxSize
// entries.
var ErrQueueFull = fmt.Errorf("eos: particle queue is full")

// ErrQueueEmpty is returned by Pop or Tail when the queue holds no
// entries.
var ErrQueueEmpty = fmt.Errorf("eos: particle queue is empty")

// Queue is a bounded ring buffer of particle observations, backed by
// MaxSize+1 physical slots so that head==tail unambiguously means empty.
type Queue struct {
	slots   []eostypes.ParticleObservation
	maxSize int
	head    int
	tail    int
}

// NewQueue returns a queue that holds at most maxSize observations.
func NewQueue(maxSize int) *Queue {
	return &Queue{
		slots:   make([]eostypes.ParticleObservation, maxSize+1),
		maxSize: maxSize,
	}
}

func (q *Queue) modulus() int { return q.maxSize + 1 }

// Size returns the current number of queued observations.
func (q *Queue) Size() int {
	return ((q.tail - q.head) % q.modulus() + q.modulus()) % q.modulus()
}

// Empty reports whether the queue holds no observations.
func (q *Queue) Empty() bool { return q.head == q.tail }

// Full reports whether the queue holds MaxSize observations.
func (q *Queue) Full() bool {
	return (q.tail+1)%q.modulus() == q.head
}

// Push appends obs at the tail. It fails with ErrQueueFull if the queue
// is already at capacity.
func (q *Queue) Push(obs eostypes.ParticleObservation) error {
	if q.Full() {
		return ErrQueueFull
	}
	q.slots[q.tail] = obs
	q.tail = (q.tail + 1) % q.modulus()
	return nil
}

// Pop removes and returns the oldest queued observation.
func (q *Queue) Pop() (eostypes.ParticleObservation, error) {
	if q.Empty() {
		return eostypes.ParticleObservation{}, ErrQueueEmpty
	}
	obs := q.slots[q.head]
	q.head = (q.head + 1) % q.modulus()
	return obs, nil
}

// Tail returns the most recently pushed observation without removing it.
func (q *Queue) Tail() (eostypes.ParticleObservation, error) {
	if q.Empty() {
		return eostypes.ParticleObservation{}, ErrQueueEmpty
	}
	idx := (q.tail - 1 + q.modulus()) % q.modulus()
	return q.slots[idx], nil
}

// Begin returns the cursor for the oldest queued observation.
func (q *Queue) Begin() int { return q.head }

// End returns the cursor one-past the newest queued observation; Next
// reaches it right after the newest entry, so callers can loop
// `for c := q.Begin(); c != q.End(); c = q.Next(c)`.
func (q *Queue) End() int { return q.tail }

// Next advances a cursor, wrapping at the physical slot array's end.
func (q *Queue) Next(cursor int) int { return (cursor + 1) % q.modulus() }

// At returns the observation at cursor.
func (q *Queue) At(cursor int) eostypes.ParticleObservation { return q.slots[cursor] }

// Each calls fn for every queued observation, oldest first.
func (q *Queue) Each(fn func(eostypes.ParticleObservation)) {
	for c := q.Begin(); c != q.End(); c = q.Next(c) {
		fn(q.At(c))
	}
}

// ObservationsEqual reports whether two observations are identical
// bin-for-bin: both their bin counts and their log-centre energies
// match exactly. This is the full-equality check distinct from the
// tolerance-based bin-definition check the streaming detector uses on
// its hot path.
func ObservationsEqual(a, b eostypes.ParticleObservation) bool {
	if a.NumBins != b.NumBins || a.Mode != b.Mode {
		return false
	}
	if len(a.Counts) != len(b.Counts) {
		return false
	}
	for i := range a.Counts {
		if a.Counts[i] != b.Counts[i] {
			return false
		}
	}
	if len(a.BinLogEnergies) != len(b.BinLogEnergies) {
		return false
	}
	for i := range a.BinLogEnergies {
		if a.BinLogEnergies[i] != b.BinLogEnergies[i] {
			return false
		}
	}
	return true
}
