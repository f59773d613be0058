// Package spectral implements the RX (Reed-Xiaoli) anomaly detector:
// sample mean, sample covariance, symmetric eigendecomposition via cyclic
// Jacobi rotations, pseudo-inverse by eigen-reconstruction, and a
// per-pixel Mahalanobis-style score.
package spectral

import (
	"fmt"
	"math"
	"unsafe"

	"github.com/jplmlia/eos-go/internal/arena"
	"github.com/jplmlia/eos-go/internal/eostypes"
	"github.com/jplmlia/eos-go/internal/heap"
)

// ErrInsufficientSamples is returned when fewer than two pixels are
// available to form a sample covariance matrix.
var ErrInsufficientSamples = fmt.Errorf("eos: spectral covariance requires at least 2 pixels")

// ScratchRequirement returns the arena bytes the RX kernel needs for a
// scene with the given band count: mean, mean_sub and temp (B float64
// each) plus covariance and pseudo-inverse (B^2 float64 each).
func ScratchRequirement(bands int) int {
	return (3*bands + 2*bands*bands) * 8
}

// Detect runs the RX kernel over obs and returns the top-K pixels by
// score. A zero-pixel observation, or a zero requested result count,
// short-circuits to an empty, successful result; a zero-band observation
// skips the kernel and scores every pixel 0.
func Detect(a *arena.Arena, obs *eostypes.SpectralObservation, numResults uint32) (*heap.Heap, error) {
	h := heap.New(int(numResults))
	if numResults == 0 || obs.Shape.Empty() {
		return h, nil
	}

	bands := int(obs.Shape.Bands)
	n := obs.Shape.Pixels()

	if bands == 0 {
		for row := 0; row < int(obs.Shape.Rows); row++ {
			for col := 0; col < int(obs.Shape.Cols); col++ {
				h.Push(eostypes.Detection{Row: uint32(row), Col: uint32(col), Score: 0})
			}
		}
		h.Sort()
		return h, nil
	}
	if n < 2 {
		return nil, ErrInsufficientSamples
	}

	meanBuf, err := a.Allocate(bands * 8)
	if err != nil {
		return nil, err
	}
	defer a.Deallocate(meanBuf)
	meanSubBuf, err := a.Allocate(bands * 8)
	if err != nil {
		return nil, err
	}
	defer a.Deallocate(meanSubBuf)
	tempBuf, err := a.Allocate(bands * 8)
	if err != nil {
		return nil, err
	}
	defer a.Deallocate(tempBuf)
	covBuf, err := a.Allocate(bands * bands * 8)
	if err != nil {
		return nil, err
	}
	defer a.Deallocate(covBuf)
	pinvBuf, err := a.Allocate(bands * bands * 8)
	if err != nil {
		return nil, err
	}
	defer a.Deallocate(pinvBuf)

	mean := asF64(meanBuf.Bytes(), bands)
	meanSub := asF64(meanSubBuf.Bytes(), bands)
	temp := asF64(tempBuf.Bytes(), bands)
	cov := asF64(covBuf.Bytes(), bands*bands)
	pinv := asF64(pinvBuf.Bytes(), bands*bands)
	_ = temp // used per-pixel below as scratch for Sigma+ * diff

	computeMean(obs, mean)
	computeCovariance(obs, mean, meanSub, cov)

	w, v := jacobiEigenSymmetric(cov, bands)
	computePseudoInverse(w, v, bands, pinv)

	rows := int(obs.Shape.Rows)
	cols := int(obs.Shape.Cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			for b := 0; b < bands; b++ {
				meanSub[b] = float64(obs.At(row, col, b)) - mean[b]
			}
			score := rxScore(meanSub, pinv, temp, bands)
			h.Push(eostypes.Detection{Row: uint32(row), Col: uint32(col), Score: score})
		}
	}
	h.Sort()
	return h, nil
}

// asF64 reinterprets an arena-backed, zero-filled byte buffer as a
// float64 slice. AlignSize is 8, so every buffer here starts on a
// float64 boundary; this is the only way to give the RX kernel its
// working floats without a heap allocation per call.
func asF64(buf []byte, n int) []float64 {
	if n == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(&buf[0])), n)
}

func computeMean(obs *eostypes.SpectralObservation, mean []float64) {
	rows := int(obs.Shape.Rows)
	cols := int(obs.Shape.Cols)
	bands := len(mean)
	n := float64(rows * cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			for b := 0; b < bands; b++ {
				mean[b] += float64(obs.At(row, col, b))
			}
		}
	}
	for b := 0; b < bands; b++ {
		mean[b] /= n
	}
}

func computeCovariance(obs *eostypes.SpectralObservation, mean, diff []float64, cov []float64) {
	rows := int(obs.Shape.Rows)
	cols := int(obs.Shape.Cols)
	bands := len(mean)
	n := float64(rows*cols) - 1
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			for b := 0; b < bands; b++ {
				diff[b] = float64(obs.At(row, col, b)) - mean[b]
			}
			for i := 0; i < bands; i++ {
				for j := 0; j < bands; j++ {
					cov[i*bands+j] += diff[i] * diff[j]
				}
			}
		}
	}
	for i := range cov {
		cov[i] /= n
	}
}

// computePseudoInverse builds Sigma+ = V * diag(1/w_i) * V^T, omitting
// any eigenvalue with |w_i| <= 2*eps*sum(|w_j|) to regularise rank
// deficiency.
func computePseudoInverse(w []float64, v []float64, n int, pinv []float64) {
	eps := machineEpsilon()
	var sumAbs float64
	for _, wi := range w {
		sumAbs += math.Abs(wi)
	}
	threshold := 2 * eps * sumAbs

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			var acc float64
			for k := 0; k < n; k++ {
				if math.Abs(w[k]) <= threshold {
					continue
				}
				acc += v[i*n+k] * (1 / w[k]) * v[j*n+k]
			}
			pinv[i*n+j] = acc
		}
	}
}

// rxScore computes diff^T * pinv * diff using temp as B-length scratch
// for the intermediate pinv*diff product.
func rxScore(diff []float64, pinv []float64, temp []float64, n int) float64 {
	for i := 0; i < n; i++ {
		var acc float64
		for j := 0; j < n; j++ {
			acc += pinv[i*n+j] * diff[j]
		}
		temp[i] = acc
	}
	var score float64
	for i := 0; i < n; i++ {
		score += diff[i] * temp[i]
	}
	return score
}
