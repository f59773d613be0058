// Package heap implements the fixed-capacity top-K detection heap shared
// by the thermal and spectral detectors: a min-heap over (row, col,
// score) triples that keeps the K highest-scoring entries seen so far.
package heap

import "github.com/jplmlia/eos-go/internal/eostypes"

// Heap is a bounded min-heap keyed on Detection.Score. The first Size
// entries of Data form a valid min-heap; entries past Size are unused.
type Heap struct {
	Data     []eostypes.Detection
	Capacity int
	Size     int
}

// New returns a heap with the given capacity. The backing array is
// caller-owned in the original source; here New allocates it, and Reset
// empties a heap without reallocating it.
func New(capacity int) *Heap {
	return &Heap{
		Data:     make([]eostypes.Detection, capacity),
		Capacity: capacity,
	}
}

// Reset empties the heap without reallocating its backing array.
func (h *Heap) Reset() {
	h.Size = 0
}

// Push inserts det, or discards it if the heap is full and det does not
// exceed the current minimum. A zero-capacity heap is always a no-op
// success.
func (h *Heap) Push(det eostypes.Detection) {
	if h.Capacity == 0 {
		return
	}
	if h.Size < h.Capacity {
		h.Data[h.Size] = det
		h.bubbleUp(h.Size)
		h.Size++
		return
	}
	if det.Score > h.Data[0].Score {
		h.Data[0] = det
		h.siftDown(0, h.Size)
	}
}

func (h *Heap) bubbleUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.Data[parent].Score <= h.Data[i].Score {
			return
		}
		h.Data[parent], h.Data[i] = h.Data[i], h.Data[parent]
		i = parent
	}
}

func (h *Heap) siftDown(i, size int) {
	for {
		left := 2*i + 1
		right := 2*i + 2
		smallest := i
		if left < size && h.Data[left].Score < h.Data[smallest].Score {
			smallest = left
		}
		if right < size && h.Data[right].Score < h.Data[smallest].Score {
			smallest = right
		}
		if smallest == i {
			return
		}
		h.Data[i], h.Data[smallest] = h.Data[smallest], h.Data[i]
		i = smallest
	}
}

// Sort destroys the heap property but leaves Data[0:Size] sorted by
// descending score, the convention callers expect when listing "top N".
// It is a classical heapsort built on the same sift-down used by Push.
func (h *Heap) Sort() {
	n := h.Size
	for end := n - 1; end > 0; end-- {
		h.Data[0], h.Data[end] = h.Data[end], h.Data[0]
		h.siftDown(0, end)
	}
	// Each pass moves the current minimum of the shrinking min-heap prefix
	// to the back, so Data[0:Size] is already in descending order here.
}

// Results returns the populated prefix of Data.
func (h *Heap) Results() []eostypes.Detection {
	return h.Data[:h.Size]
}
