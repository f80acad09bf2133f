// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// eps is float64 machine epsilon (2⁻⁵²).
const eps = 0x1p-52

// SolveTri solves R·x = b (trans=false) or Rᵀ·x = b (trans=true) for a
// triangular R. b is not mutated; x is freshly allocated.
//
// Implementation:
//   - Stage 1: validate R non-nil, len(b) == n, and every diagonal entry non-zero.
//   - Stage 2: copy b and run blas64.Trsv in place on the copy.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrSingular (exact zero pivot).
//
// Complexity:
//   - Time O(n²), Space O(n).
//
// Notes:
//   - Only exact zeros are rejected. A tiny pivot produces a huge but finite
//     solution; conditioning is the caller's concern.
func SolveTri(r *mat.TriDense, b []float64, trans bool) ([]float64, error) {
	if r == nil {
		return nil, backendErrorf(opSolveTri, ErrNilMatrix)
	}
	n, _ := r.Triangle()
	if err := ValidateVecLen(b, n); err != nil {
		return nil, backendErrorf(opSolveTri, fmt.Errorf("len(b)=%d, want %d: %w", len(b), n, err))
	}
	for i := 0; i < n; i++ {
		if r.At(i, i) == 0 {
			return nil, backendErrorf(opSolveTri, fmt.Errorf("R[%d,%d]=0: %w", i, i, ErrSingular))
		}
	}

	x := make([]float64, n)
	copy(x, b)
	tA := blas.NoTrans
	if trans {
		tA = blas.Trans
	}
	blas64.Trsv(tA, r.RawTriangular(), blas64.Vector{N: n, Inc: 1, Data: x})

	return x, nil
}

// Lstsq returns the minimum-norm solution of min ‖A·x − b‖₂.
//
// Implementation:
//   - Stage 1: thin SVD A = U·diag(s)·Vᵀ.
//   - Stage 2: drop singular values s_i ≤ s_0·max(m,n)·eps.
//   - Stage 3: x = V_r·diag(1/s_r)·U_rᵀ·b.
//
// Behavior highlights:
//   - Works for any shape; rank-deficient and wide systems return the
//     minimum-norm solution (LAPACK gelsd semantics).
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (len(b) != rows), ErrFactorization.
//
// Complexity:
//   - Time O(m·n·min(m,n)), Space O((m+n)·min(m,n)).
func Lstsq(a mat.Matrix, b []float64) ([]float64, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, backendErrorf(opLstsq, err)
	}
	m, n := a.Dims()
	if err := ValidateVecLen(b, m); err != nil {
		return nil, backendErrorf(opLstsq, fmt.Errorf("len(b)=%d, want %d: %w", len(b), m, err))
	}

	u, s, v, err := ThinSVD(a)
	if err != nil {
		return nil, backendErrorf(opLstsq, err)
	}
	x := make([]float64, n)
	if len(s) == 0 || s[0] == 0 {
		return x, nil
	}
	cutoff := s[0] * float64(max(m, n)) * eps

	// w = diag(1/s_r)·U_rᵀ·b
	utb, err := MulVec(u, b, true)
	if err != nil {
		return nil, backendErrorf(opLstsq, err)
	}
	var i, j int
	var w float64
	for i = 0; i < len(s); i++ {
		if s[i] <= cutoff || math.IsNaN(s[i]) {
			break // descending order: the rest are below the cutoff too
		}
		w = utb[i] / s[i]
		for j = 0; j < n; j++ {
			x[j] += v.At(j, i) * w
		}
	}

	return x, nil
}
