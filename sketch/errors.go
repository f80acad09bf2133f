// SPDX-License-Identifier: MIT
// Package sketch: sentinel error set.

package sketch

import (
	"errors"
	"fmt"
)

var (
	// ErrBadShape is returned for non-positive dimensions or an embedding
	// dimension the operator cannot realize (e.g. d > m for row sampling).
	ErrBadShape = errors.New("sketch: invalid shape")

	// ErrNilRand is returned when a constructor receives a nil *rand.Rand.
	ErrNilRand = errors.New("sketch: nil random source")

	// ErrNilMatrix is returned when Apply receives a nil matrix.
	ErrNilMatrix = errors.New("sketch: nil matrix")

	// ErrDimensionMismatch is returned when the operand's row count (or vector
	// length) differs from the operator's column count m.
	ErrDimensionMismatch = errors.New("sketch: dimension mismatch")

	// ErrUnknownSketch is returned by ByName for an unregistered name.
	ErrUnknownSketch = errors.New("sketch: unknown operator")
)

const (
	opGaussian    = "Gaussian"
	opSJLT        = "SJLT"
	opSRHT        = "SRHT"
	opRows        = "UniformRows"
	opOrthonormal = "Orthonormal"
	opByName      = "ByName"
)

// sketchErrorf wraps err with an operation tag. Call only with a non-nil err.
func sketchErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
