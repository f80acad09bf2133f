// SPDX-License-Identifier: MIT
// Package: backend
//
// Purpose:
//  - Single source of truth for nil/shape/finite checks shared by all kernels.
//  - Return plain sentinels so call sites wrap uniformly with their op tag.

package backend

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// ValidateNotNil ensures the matrix reference is non-nil.
// Complexity: O(1).
func ValidateNotNil(a mat.Matrix) error {
	if a == nil {
		return ErrNilMatrix
	}

	return nil
}

// ValidateTall ensures a is non-nil and has at least as many rows as columns.
// Complexity: O(1).
func ValidateTall(a mat.Matrix) error {
	if err := ValidateNotNil(a); err != nil {
		return err
	}
	if r, c := a.Dims(); r < c {
		return ErrNotTall
	}

	return nil
}

// ValidateVecLen ensures x is non-nil and has length n.
// Complexity: O(1).
func ValidateVecLen(x []float64, n int) error {
	if x == nil || len(x) != n {
		return ErrDimensionMismatch
	}

	return nil
}

// ValidateFinite ensures every element of x is finite.
// Complexity: O(len(x)).
func ValidateFinite(x []float64) error {
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrNaNInf
		}
	}

	return nil
}
