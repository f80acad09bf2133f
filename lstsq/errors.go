// SPDX-License-Identifier: MIT
// Package lstsq: sentinel error set.
// Callers match with errors.Is; errors bubbling up from backend, sketch,
// precond and iterative keep their own sentinels in the chain.

package lstsq

import (
	"errors"
	"fmt"
)

var (
	// ErrNilMatrix indicates a nil data matrix.
	ErrNilMatrix = errors.New("lstsq: nil matrix")

	// ErrNotTall indicates a data matrix with fewer rows than columns.
	ErrNotTall = errors.New("lstsq: matrix is not tall")

	// ErrDimensionMismatch indicates a right-hand side of the wrong length.
	ErrDimensionMismatch = errors.New("lstsq: dimension mismatch")

	// ErrNegativeDelta indicates a regularization parameter δ < 0 or not finite.
	ErrNegativeDelta = errors.New("lstsq: delta must be finite and non-negative")

	// ErrIterLimit indicates iterLim <= 0.
	ErrIterLimit = errors.New("lstsq: iteration limit must be > 0")

	// ErrTolerance indicates a negative or non-finite tolerance for an
	// iterative driver.
	ErrTolerance = errors.New("lstsq: tolerance must be finite and non-negative")

	// ErrSamplingFactor indicates an embedding dimension below n.
	ErrSamplingFactor = errors.New("lstsq: sampling factor yields embedding dimension below n")

	// ErrUnknownMode indicates an SPO3 factorization mode other than QR or Cholesky.
	ErrUnknownMode = errors.New("lstsq: unknown factorization mode")
)

const (
	opSSO1         = "SSO1"
	opSPO1         = "SPO1"
	opSPO3         = "SPO3"
	opSPU1         = "SPU1"
	opEmbeddingDim = "EmbeddingDim"
	opParseMode    = "ParseMode"
)

// lstsqErrorf wraps err with an operation tag. Call only with a non-nil err.
func lstsqErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
