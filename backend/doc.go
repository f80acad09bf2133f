// SPDX-License-Identifier: MIT

// Package backend is the thin adapter between rla and a dense BLAS/LAPACK
// provider. Every factorization, triangular solve and matrix–vector product
// used by the randomized drivers goes through this package, so the rest of
// the module never talks to the provider directly.
//
// 🚀 What lives here?
//
//   - Lift           stack [A; scale·I] for ridge-regularized problems.
//   - ThinQR         economic QR of a tall matrix (Q m×n, R n×n upper).
//   - ThinSVD        thin SVD with descending singular values.
//   - Gram           AᵀA + δI through BLAS syrk (upper triangle only).
//   - CholeskyUpper  upper Cholesky factor R with RᵀR = G.
//   - SolveTri       triangular solve R·x = b or Rᵀ·x = b through BLAS trsv.
//   - MulVec         y = A·x or y = Aᵀ·x through BLAS gemv.
//   - Lstsq          minimum-norm dense least squares via SVD.
//   - CurrentInfo    which BLAS implementation is active.
//
// The provider is gonum (pure Go, no cgo). Switching to a cgo-linked BLAS is
// done through blas64.Use by the program that owns main; this package only
// reports what is in use.
//
// Error policy:
//
//	All exported functions validate their inputs and return the sentinels
//	from errors.go wrapped with an operation tag, e.g.
//	  "ThinQR: backend: matrix is not tall"
//	Callers match with errors.Is. Nothing panics on user input.
//
// Determinism:
//
//	Every routine is deterministic for identical inputs; the BLAS kernels
//	run single-threaded.
package backend
