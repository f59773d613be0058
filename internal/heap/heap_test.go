package heap

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jplmlia/eos-go/internal/eostypes"
)

func det(row, col uint32, score float64) eostypes.Detection {
	return eostypes.Detection{Row: row, Col: col, Score: score}
}

func TestPushSortKeepsTopKDescending(t *testing.T) {
	h := New(3)
	scores := []float64{5, 1, 9, 2, 8, 3, 7}
	for i, s := range scores {
		h.Push(det(uint32(i), 0, s))
	}
	h.Sort()

	assert.Equal(t, 3, h.Size)
	got := make([]float64, h.Size)
	for i, d := range h.Results() {
		got[i] = d.Score
	}
	assert.Equal(t, []float64{9, 8, 7}, got)
}

func TestPushCapacityOneKeepsLarger(t *testing.T) {
	h := New(1)
	h.Push(det(0, 0, 3))
	h.Push(det(1, 0, 7))
	h.Sort()
	assert.Equal(t, 1, h.Size)
	assert.Equal(t, 7.0, h.Results()[0].Score)
}

func TestZeroCapacityPushIsNoOp(t *testing.T) {
	h := New(0)
	h.Push(det(0, 0, 100))
	assert.Equal(t, 0, h.Size)
}

func TestResultLengthIsMinCapacityPushes(t *testing.T) {
	h := New(10)
	for i := 0; i < 4; i++ {
		h.Push(det(uint32(i), 0, float64(i)))
	}
	h.Sort()
	assert.Len(t, h.Results(), 4)
}

func TestSortDescendingOnRandomInput(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const n, k = 500, 17
	h := New(k)
	all := make([]float64, n)
	for i := 0; i < n; i++ {
		s := rng.Float64() * 1000
		all[i] = s
		h.Push(det(uint32(i), 0, s))
	}
	h.Sort()

	sort.Sort(sort.Reverse(sort.Float64Slice(all)))
	want := all[:k]

	got := make([]float64, h.Size)
	for i, d := range h.Results() {
		got[i] = d.Score
	}
	assert.Equal(t, want, got)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1], got[i])
	}
}
