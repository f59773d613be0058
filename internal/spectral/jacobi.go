package spectral

import "math"

// symmetricMatrix is a dense B x B matrix stored row-major, mutated in
// place by the Jacobi sweep.
type symmetricMatrix struct {
	n    int
	data []float64
}

func newSymmetricMatrix(n int) *symmetricMatrix {
	return &symmetricMatrix{n: n, data: make([]float64, n*n)}
}

func (m *symmetricMatrix) at(i, j int) float64    { return m.data[i*m.n+j] }
func (m *symmetricMatrix) set(i, j int, v float64) { m.data[i*m.n+j] = v }

// jacobiEigenSymmetric diagonalises a symmetric B x B matrix by cyclic
// Jacobi rotations, picking at each step the pivot of largest
// off-diagonal magnitude. Per-row maxima are cached and updated
// incrementally after each rotation instead of rescanned from scratch,
// so pivot selection costs O(n) per rotation rather than O(n^2). The
// sweep stops after 30*n^2 rotations or as soon as the chosen pivot's
// magnitude reaches machine epsilon, returning the best decomposition
// found so far either way — downstream consumers only need a ranking.
//
// a is consumed (overwritten); w receives the eigenvalues (the final
// diagonal) and v receives the eigenvectors as its columns: v[i*n+k] is
// the i'th component of the eigenvector for w[k].
func jacobiEigenSymmetric(a []float64, n int) (w []float64, v []float64) {
	m := &symmetricMatrix{n: n, data: append([]float64(nil), a...)}
	vecs := newSymmetricMatrix(n)
	for i := 0; i < n; i++ {
		vecs.set(i, i, 1)
	}

	maxind := make([]int, n)
	maxval := make([]float64, n)
	rescan := func(i int) {
		if i >= n-1 {
			maxind[i] = i
			maxval[i] = 0
			return
		}
		best := i + 1
		bestVal := math.Abs(m.at(i, i+1))
		for j := i + 2; j < n; j++ {
			if v := math.Abs(m.at(i, j)); v > bestVal {
				bestVal = v
				best = j
			}
		}
		maxind[i] = best
		maxval[i] = bestVal
	}
	for i := 0; i < n; i++ {
		rescan(i)
	}

	eps := machineEpsilon()
	cap := 30 * n * n
	for iter := 0; iter < cap && n > 1; iter++ {
		p := 0
		for i := 1; i < n-1; i++ {
			if maxval[i] > maxval[p] {
				p = i
			}
		}
		q := maxind[p]
		pivot := m.at(p, q)
		if math.Abs(pivot) <= eps {
			break
		}

		theta := (m.at(q, q) - m.at(p, p)) / (2 * pivot)
		t := sign(theta) / (math.Abs(theta) + math.Sqrt(1+theta*theta))
		if theta == 0 {
			t = 1
		}
		c := 1 / math.Sqrt(t*t+1)
		s := t * c

		app := m.at(p, p) - t*pivot
		aqq := m.at(q, q) + t*pivot
		m.set(p, p, app)
		m.set(q, q, aqq)
		m.set(p, q, 0)
		m.set(q, p, 0)

		for i := 0; i < n; i++ {
			if i == p || i == q {
				continue
			}
			aip := m.at(i, p)
			aiq := m.at(i, q)
			newIP := c*aip - s*aiq
			newIQ := s*aip + c*aiq
			m.set(i, p, newIP)
			m.set(p, i, newIP)
			m.set(i, q, newIQ)
			m.set(q, i, newIQ)
		}
		for i := 0; i < n; i++ {
			vip := vecs.at(i, p)
			viq := vecs.at(i, q)
			vecs.set(i, p, c*vip-s*viq)
			vecs.set(i, q, s*vip+c*viq)
		}

		for _, i := range []int{p, q} {
			rescan(i)
		}
		for i := 0; i < n-1; i++ {
			if i == p || i == q {
				continue
			}
			for _, c := range []int{p, q} {
				if c <= i {
					continue
				}
				val := math.Abs(m.at(i, c))
				if val > maxval[i] {
					maxval[i] = val
					maxind[i] = c
				} else if maxind[i] == c {
					rescan(i)
				}
			}
		}
	}

	w = make([]float64, n)
	for i := 0; i < n; i++ {
		w[i] = m.at(i, i)
	}
	return w, vecs.data
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}

func machineEpsilon() float64 {
	eps := 1.0
	for 1+eps/2 > 1 {
		eps /= 2
	}
	return eps
}
