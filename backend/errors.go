// SPDX-License-Identifier: MIT
// Package backend: sentinel error set.
// Algorithms return these sentinels (optionally wrapped with an op tag via
// backendErrorf) and tests check them via errors.Is.

package backend

import (
	"errors"
	"fmt"
)

var (
	// ErrNilMatrix indicates that a nil matrix argument was passed.
	ErrNilMatrix = errors.New("backend: nil matrix")

	// ErrDimensionMismatch indicates incompatible operand dimensions,
	// e.g. len(x) != A.Cols in MulVec or a non-square triangular factor.
	ErrDimensionMismatch = errors.New("backend: dimension mismatch")

	// ErrNotTall is returned by thin factorizations that require rows >= cols.
	ErrNotTall = errors.New("backend: matrix is not tall")

	// ErrSingular is returned when a triangular factor has an exactly zero
	// diagonal entry.
	ErrSingular = errors.New("backend: singular triangular factor")

	// ErrNotPositiveDefinite is returned when a Cholesky factorization fails.
	ErrNotPositiveDefinite = errors.New("backend: matrix is not positive definite")

	// ErrFactorization is returned when the provider reports a failed
	// factorization (e.g. SVD did not converge).
	ErrFactorization = errors.New("backend: factorization failed")

	// ErrNaNInf signals a NaN or ±Inf value where finite values are required.
	ErrNaNInf = errors.New("backend: NaN or Inf encountered")
)

// Operation tags used when wrapping sentinels.
const (
	opLift     = "Lift"
	opThinQR   = "ThinQR"
	opThinSVD  = "ThinSVD"
	opGram     = "Gram"
	opCholesky = "CholeskyUpper"
	opSolveTri = "SolveTri"
	opMulVec   = "MulVec"
	opLstsq    = "Lstsq"
)

// backendErrorf wraps err with an operation tag, preserving it for errors.Is.
// Call only with a non-nil err.
func backendErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
