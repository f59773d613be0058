// Package thermal implements the per-band hot-pixel threshold scan: the
// simplest of the three detectors, exposed by the core but not
// elaborated beyond a row-major scan against a fixed threshold per band.
package thermal

import (
	"github.com/jplmlia/eos-go/internal/eostypes"
	"github.com/jplmlia/eos-go/internal/heap"
)

// Result holds one top-K heap per thermal band.
type Result struct {
	Bands [3]*heap.Heap
}

// Detect scans each of obs's three bands row by row, column by column,
// pushing (row, col, score=value) onto that band's heap whenever
// value >= thresholds[band], then sorting each heap into descending
// score order. Empty bands and a zero requested result count both
// short-circuit to zero detections.
func Detect(obs *eostypes.ThermalObservation, thresholds [3]uint16, numResults uint32) *Result {
	res := &Result{}
	for b := 0; b < 3; b++ {
		h := heap.New(int(numResults))
		res.Bands[b] = h
		if numResults == 0 {
			continue
		}
		band := obs.Bands[b]
		if band.Shape.Empty() {
			continue
		}
		threshold := thresholds[b]
		cols := int(band.Shape.Cols)
		rows := int(band.Shape.Rows)
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				v := band.Samples[row*cols+col]
				if v >= threshold {
					h.Push(eostypes.Detection{Row: uint32(row), Col: uint32(col), Score: float64(v)})
				}
			}
		}
		h.Sort()
	}
	return res
}
