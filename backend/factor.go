// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// ThinQR computes the economic QR factorization A = Q·R of a tall m×n matrix.
//
// Implementation:
//   - Stage 1: ValidateTall(a).
//   - Stage 2: Householder QR through mat.QR (LAPACK dgeqrf/dorgqr).
//   - Stage 3: keep the leading m×n block of Q and the leading n×n block of R.
//
// Returns:
//   - q: m×n with orthonormal columns (independent storage).
//   - r: n×n upper triangular.
//
// Errors:
//   - ErrNilMatrix, ErrNotTall.
//
// Complexity:
//   - Time O(m·n²), Space O(m²) transiently for the full Q.
//
// Notes:
//   - R may carry negative diagonal entries; callers that need a positive
//     diagonal should flip signs of matching Q columns themselves.
//   - A rank-deficient A yields zero (or tiny) diagonal entries in R; SolveTri
//     reports an exact zero as ErrSingular.
func ThinQR(a mat.Matrix) (*mat.Dense, *mat.TriDense, error) {
	if err := ValidateTall(a); err != nil {
		return nil, nil, backendErrorf(opThinQR, err)
	}
	m, n := a.Dims()

	var qr mat.QR
	qr.Factorize(a)

	var qFull, rFull mat.Dense
	qr.QTo(&qFull)
	qr.RTo(&rFull)

	q := mat.DenseCopyOf(qFull.Slice(0, m, 0, n))
	r := mat.NewTriDense(n, mat.Upper, nil)
	var i, j int
	for i = 0; i < n; i++ {
		for j = i; j < n; j++ {
			r.SetTri(i, j, rFull.At(i, j))
		}
	}

	return q, r, nil
}

// ThinSVD computes A = U·diag(s)·Vᵀ with k = min(m,n) singular triplets,
// singular values in descending order.
//
// Errors:
//   - ErrNilMatrix, ErrFactorization (provider did not converge).
//
// Complexity:
//   - Time O(m·n·k), Space O((m+n)·k).
func ThinSVD(a mat.Matrix) (*mat.Dense, []float64, *mat.Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, nil, nil, backendErrorf(opThinSVD, err)
	}

	var svd mat.SVD
	if ok := svd.Factorize(a, mat.SVDThin); !ok {
		return nil, nil, nil, backendErrorf(opThinSVD, ErrFactorization)
	}

	var u, v mat.Dense
	svd.UTo(&u)
	svd.VTo(&v)

	return &u, svd.Values(nil), &v, nil
}

// Gram returns G = AᵀA + δ·I for an m×n matrix A.
// Only the upper triangle is computed (BLAS dsyrk with trans=T, beta=1 on δ·I);
// mat.SymDense mirrors it on read.
//
// Errors:
//   - ErrNilMatrix, ErrNaNInf (δ not finite).
//
// Complexity:
//   - Time O(m·n²), Space O(n²).
func Gram(a mat.Matrix, delta float64) (*mat.SymDense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, backendErrorf(opGram, err)
	}
	if err := ValidateFinite([]float64{delta}); err != nil {
		return nil, backendErrorf(opGram, err)
	}
	_, n := a.Dims()

	g := mat.NewSymDense(n, nil)
	if delta != 0 {
		for i := 0; i < n; i++ {
			g.SetSym(i, i, delta)
		}
	}
	blas64.Syrk(blas.Trans, 1, general(a), 1, g.RawSymmetric())

	return g, nil
}

// CholeskyUpper returns the upper triangular R with RᵀR = G.
//
// Errors:
//   - ErrNilMatrix, ErrNotPositiveDefinite.
//
// Complexity:
//   - Time O(n³/3), Space O(n²).
func CholeskyUpper(g mat.Symmetric) (*mat.TriDense, error) {
	if g == nil {
		return nil, backendErrorf(opCholesky, ErrNilMatrix)
	}

	var chol mat.Cholesky
	if ok := chol.Factorize(g); !ok {
		n := g.SymmetricDim()
		return nil, backendErrorf(opCholesky, fmt.Errorf("n=%d: %w", n, ErrNotPositiveDefinite))
	}

	var r mat.TriDense
	chol.UTo(&r)

	return &r, nil
}
