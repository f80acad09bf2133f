// SPDX-License-Identifier: MIT
// Package precond: sentinel error set.

package precond

import (
	"errors"
	"fmt"
)

var (
	// ErrNilMatrix indicates a nil data matrix or preconditioner.
	ErrNilMatrix = errors.New("precond: nil matrix")

	// ErrDimensionMismatch indicates the preconditioner does not have A.Cols rows.
	ErrDimensionMismatch = errors.New("precond: dimension mismatch")

	// ErrNegativeDelta indicates δ < 0 (or NaN).
	ErrNegativeDelta = errors.New("precond: regularization must be non-negative")

	// ErrZeroRank indicates the sketch has no singular value above the cutoff.
	ErrZeroRank = errors.New("precond: sketch has numerical rank zero")
)

const (
	opTimesInvR = "TimesInvR"
	opTimesM    = "TimesM"
	opSVDRight  = "SVDRight"
)

// precondErrorf wraps err with an operation tag. Call only with a non-nil err.
func precondErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
