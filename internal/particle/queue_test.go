package particle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jplmlia/eos-go/internal/eostypes"
)

func obsWithID(id uint32) eostypes.ParticleObservation {
	return eostypes.ParticleObservation{ID: id}
}

func TestQueueEmptyFullAndSize(t *testing.T) {
	q := NewQueue(2)
	assert.True(t, q.Empty())
	assert.False(t, q.Full())
	assert.Equal(t, 0, q.Size())

	require.NoError(t, q.Push(obsWithID(1)))
	require.NoError(t, q.Push(obsWithID(2)))
	assert.True(t, q.Full())
	assert.Equal(t, 2, q.Size())

	err := q.Push(obsWithID(3))
	assert.ErrorIs(t, err, ErrQueueFull)
}

func TestQueuePopOrdersFIFO(t *testing.T) {
	q := NewQueue(3)
	require.NoError(t, q.Push(obsWithID(1)))
	require.NoError(t, q.Push(obsWithID(2)))

	o, err := q.Pop()
	require.NoError(t, err)
	assert.Equal(t, uint32(1), o.ID)

	tail, err := q.Tail()
	require.NoError(t, err)
	assert.Equal(t, uint32(2), tail.ID)
}

func TestQueuePopEmptyFails(t *testing.T) {
	q := NewQueue(1)
	_, err := q.Pop()
	assert.ErrorIs(t, err, ErrQueueEmpty)
	_, err = q.Tail()
	assert.ErrorIs(t, err, ErrQueueEmpty)
}

func TestQueueIterationWrapsAtPhysicalEnd(t *testing.T) {
	q := NewQueue(2)
	require.NoError(t, q.Push(obsWithID(1)))
	require.NoError(t, q.Push(obsWithID(2)))
	_, err := q.Pop()
	require.NoError(t, err)
	require.NoError(t, q.Push(obsWithID(3))) // wraps the physical 3-slot array

	var ids []uint32
	q.Each(func(o eostypes.ParticleObservation) { ids = append(ids, o.ID) })
	assert.Equal(t, []uint32{2, 3}, ids)
}

func TestQueueSizeInvariantAcrossPushPop(t *testing.T) {
	q := NewQueue(5)
	for i := 0; i < 5; i++ {
		require.NoError(t, q.Push(obsWithID(uint32(i))))
	}
	for i := 0; i < 3; i++ {
		_, err := q.Pop()
		require.NoError(t, err)
		require.NoError(t, q.Push(obsWithID(uint32(10+i))))
	}
	assert.Equal(t, 5, q.Size())
}

func TestObservationsEqual(t *testing.T) {
	a := eostypes.ParticleObservation{NumBins: 2, Mode: eostypes.ModeIonospheric, Counts: []eostypes.ParticleCount{1, 2}, BinLogEnergies: []float32{0, 1}}
	b := a
	b.Counts = []eostypes.ParticleCount{1, 2}
	b.BinLogEnergies = []float32{0, 1}
	assert.True(t, ObservationsEqual(a, b))

	c := a
	c.Counts = []eostypes.ParticleCount{1, 3}
	assert.False(t, ObservationsEqual(a, c))
}
