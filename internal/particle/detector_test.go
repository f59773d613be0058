package particle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jplmlia/eos-go/internal/arena"
	"github.com/jplmlia/eos-go/internal/eostypes"
	"github.com/jplmlia/eos-go/internal/testutil"
)

func constObs(id, ts uint32, value uint16, nBins int, energies []float32) eostypes.ParticleObservation {
	counts := make([]uint16, nBins)
	for i := range counts {
		counts[i] = value
	}
	return testutil.ParticleObservation(id, ts, eostypes.ModeMagnetospheric, counts, energies)
}

// TestMedianFilterIncreasingSeries is the spec's scenario 4: six
// observations with all-bin counts 0..5 (30 bins), median filter over a
// 3-observation window, threshold 0.
func TestMedianFilterIncreasingSeries(t *testing.T) {
	energies := testutil.UniformBinEnergies(30)
	d := NewDetector(eostypes.ParticleParams{
		Filter:          eostypes.FilterMedian,
		Threshold:       0,
		MaxObservations: 3,
		MaxBins:         30,
	})
	a := arena.NewSelfAllocated(ScratchRequirement(eostypes.FilterMedian, 30, 3) + arena.StackMaxDepth*arena.AlignSize)

	wantSmoothedBin0 := []uint16{0, 0, 1, 1, 2, 3}
	wantScores := []float64{0, 0, 30, 0, 30, 30}

	for i, value := range []uint16{0, 1, 2, 3, 4, 5} {
		a.Clear()
		det, err := d.OnRecv(a, constObs(uint32(i), uint32(i), value, 30, energies))
		require.NoError(t, err)
		assert.Equal(t, wantScores[i], det.Score, "observation %d score", i)
		assert.Equal(t, wantSmoothedBin0[i], uint16(d.lastSmoothed.Counts[0]), "observation %d smoothed bin0", i)
	}
}

// TestNoFilterThresholdTransition is the spec's scenario 5: four
// observations with all-bin counts 0,1,2,3 (30 bins), identity filter,
// threshold 60. The third observation carries a mismatched 31-bin grid
// and is rejected; the fourth still transitions because its score is
// computed against the second observation's smoothed state.
func TestNoFilterThresholdTransition(t *testing.T) {
	energies30 := testutil.UniformBinEnergies(30)
	energies31 := testutil.UniformBinEnergies(31)
	d := NewDetector(eostypes.ParticleParams{
		Filter:          eostypes.FilterIdentity,
		Threshold:       60,
		MaxObservations: 3,
		MaxBins:         30,
	})
	a := arena.NewSelfAllocated(ScratchRequirement(eostypes.FilterIdentity, 31, 3) + arena.StackMaxDepth*arena.AlignSize)

	a.Clear()
	det0, err := d.OnRecv(a, constObs(0, 0, 0, 30, energies30))
	require.NoError(t, err)
	assert.Equal(t, 0.0, det0.Score)
	assert.Equal(t, eostypes.EventNoTransition, det0.Event)

	a.Clear()
	det1, err := d.OnRecv(a, constObs(1, 1, 1, 30, energies30))
	require.NoError(t, err)
	assert.Equal(t, 30.0, det1.Score)
	assert.Equal(t, eostypes.EventNoTransition, det1.Event)

	a.Clear()
	_, err = d.OnRecv(a, constObs(2, 2, 2, 31, energies31))
	assert.ErrorIs(t, err, ErrBinsMismatch)

	a.Clear()
	det3, err := d.OnRecv(a, constObs(3, 3, 3, 30, energies30))
	require.NoError(t, err)
	assert.Equal(t, 120.0, det3.Score)
	assert.Equal(t, eostypes.EventTransition, det3.Event)
}

func TestOnRecvNotInitializedOnZeroValueDetector(t *testing.T) {
	var d Detector
	_, err := d.OnRecv(arena.NewSelfAllocated(64), eostypes.ParticleObservation{})
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestOnRecvNilDetector(t *testing.T) {
	var d *Detector
	_, err := d.OnRecv(arena.NewSelfAllocated(64), eostypes.ParticleObservation{})
	assert.ErrorIs(t, err, ErrNotInitialized)
}
