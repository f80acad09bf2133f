// SPDX-License-Identifier: MIT

package sketch

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// SJLTOp is a sparse Johnson–Lindenstrauss transform. Column i of S holds
// exactly k nonzeros at distinct rows rows[i*k : (i+1)*k] with values ±1/√k.
type SJLTOp struct {
	d, m, k int
	rows    []int     // len m*k, row index of each nonzero, column-major
	vals    []float64 // len m*k, ±1/√k
}

var _ Operator = (*SJLTOp)(nil)

// NewSJLT draws a d×m SJLT with min(nnz, d) nonzeros per column.
//
// Implementation:
//   - Stage 1: validate shape, clamp k = min(nnz, d).
//   - Stage 2: for each column pick k distinct rows with Floyd's sampling and
//     an independent random sign for each.
//
// Errors:
//   - ErrBadShape (d, m or nnz non-positive), ErrNilRand.
//
// Complexity:
//   - Time O(m·k²), Space O(m·k).
func NewSJLT(d, m int, rng *rand.Rand, nnz int) (*SJLTOp, error) {
	if err := validateShape(d, m, rng); err != nil {
		return nil, sketchErrorf(opSJLT, err)
	}
	if nnz <= 0 {
		return nil, sketchErrorf(opSJLT, ErrBadShape)
	}
	k := min(nnz, d)
	val := 1 / math.Sqrt(float64(k))

	s := &SJLTOp{
		d:    d,
		m:    m,
		k:    k,
		rows: make([]int, m*k),
		vals: make([]float64, m*k),
	}
	var i, t int
	for i = 0; i < m; i++ {
		col := s.rows[i*k : (i+1)*k : (i+1)*k]
		floydSample(rng, d, col)
		for t = 0; t < k; t++ {
			if rng.IntN(2) == 0 {
				s.vals[i*k+t] = val
			} else {
				s.vals[i*k+t] = -val
			}
		}
	}

	return s, nil
}

// floydScanLimit is the sample size up to which floydSample checks
// membership by scanning dst instead of a set.
const floydScanLimit = 32

// floydSample fills dst with len(dst) distinct integers from [0, n) using
// Robert Floyd's algorithm in O(len(dst)) memory. len(dst) must be <= n.
func floydSample(rng *rand.Rand, n int, dst []int) {
	k := len(dst)
	var seen map[int]struct{}
	if k > floydScanLimit {
		seen = make(map[int]struct{}, k)
	}
	filled := 0
	var j, t, u int
	var dup bool
	for j = n - k; j < n; j++ {
		t = rng.IntN(j + 1)
		if seen != nil {
			_, dup = seen[t]
		} else {
			dup = false
			for u = 0; u < filled; u++ {
				if dst[u] == t {
					dup = true
					break
				}
			}
		}
		if dup {
			t = j
		}
		dst[filled] = t
		if seen != nil {
			seen[t] = struct{}{}
		}
		filled++
	}
}

// Dims returns (d, m).
func (s *SJLTOp) Dims() (int, int) { return s.d, s.m }

// Nonzeros returns the number of nonzeros per column.
func (s *SJLTOp) Nonzeros() int { return s.k }

// Apply returns S·A. Row i of A is scattered into the k output rows of
// column i of S; column blocks of the output are filled in parallel.
//
// Complexity:
//   - Time O(k·m·n), Space O(d·n).
func (s *SJLTOp) Apply(a mat.Matrix) (*mat.Dense, error) {
	raw, err := rawOperand(a, s.m)
	if err != nil {
		return nil, sketchErrorf(opSJLT, err)
	}
	n := raw.Cols
	out := mat.NewDense(s.d, n, nil)
	dst := out.RawMatrix()

	forColumnBlocks(n, s.k*s.m*n, func(j0, j1 int) {
		var i, t, j, srcBase, dstBase int
		var v float64
		for i = 0; i < s.m; i++ {
			srcBase = i * raw.Stride
			for t = 0; t < s.k; t++ {
				dstBase = s.rows[i*s.k+t] * dst.Stride
				v = s.vals[i*s.k+t]
				for j = j0; j < j1; j++ {
					dst.Data[dstBase+j] += v * raw.Data[srcBase+j]
				}
			}
		}
	})

	return out, nil
}

// ApplyVec returns S·b.
func (s *SJLTOp) ApplyVec(b []float64) ([]float64, error) {
	if err := validateVec(b, s.m); err != nil {
		return nil, sketchErrorf(opSJLT, err)
	}
	y := make([]float64, s.d)
	var i, t int
	for i = 0; i < s.m; i++ {
		if b[i] == 0 {
			continue
		}
		for t = 0; t < s.k; t++ {
			y[s.rows[i*s.k+t]] += s.vals[i*s.k+t] * b[i]
		}
	}

	return y, nil
}
