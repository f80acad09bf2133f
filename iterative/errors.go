// SPDX-License-Identifier: MIT
// Package iterative: sentinel error set.

package iterative

import (
	"errors"
	"fmt"
)

var (
	// ErrNilOperator indicates a nil operator or preconditioner.
	ErrNilOperator = errors.New("iterative: nil operator")

	// ErrDimensionMismatch indicates a right-hand side or warm start whose
	// length does not match the operator.
	ErrDimensionMismatch = errors.New("iterative: dimension mismatch")
)

const (
	opLSQR  = "LSQR"
	opCGLS  = "CGLS"
	opPcSS1 = "PcSS1"
	opPcSS2 = "PcSS2"
)

// iterErrorf wraps err with an operation tag. Call only with a non-nil err.
func iterErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
