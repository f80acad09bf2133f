// SPDX-License-Identifier: MIT

// Package linop defines the matrix-free operator contract consumed by the
// iterative solvers: anything that can compute A·x and Aᵀ·y.
package linop

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// Operator is an r×c linear map applied without materializing it.
//
// Apply writes A·x into dst (len(dst) == r, len(x) == c).
// ApplyT writes Aᵀ·y into dst (len(dst) == c, len(y) == r).
// Implementations may assume dst does not alias the input.
type Operator interface {
	Dims() (r, c int)
	Apply(dst, x []float64)
	ApplyT(dst, y []float64)
}

// Dense adapts a mat.Matrix to Operator.
type Dense struct {
	a   mat.Matrix
	raw blas64.General
	ok  bool // raw is valid (*mat.Dense input)
}

var _ Operator = (*Dense)(nil)

// NewDense wraps a. *mat.Dense inputs are applied with raw BLAS gemv, any
// other Matrix through mat.VecDense.
func NewDense(a mat.Matrix) *Dense {
	op := &Dense{a: a}
	if d, ok := a.(*mat.Dense); ok {
		op.raw, op.ok = d.RawMatrix(), true
	}

	return op
}

// Dims returns the shape of the wrapped matrix.
func (op *Dense) Dims() (int, int) { return op.a.Dims() }

// Apply writes A·x into dst.
func (op *Dense) Apply(dst, x []float64) { op.gemv(blas.NoTrans, dst, x) }

// ApplyT writes Aᵀ·y into dst.
func (op *Dense) ApplyT(dst, y []float64) { op.gemv(blas.Trans, dst, y) }

func (op *Dense) gemv(t blas.Transpose, dst, x []float64) {
	if op.ok {
		blas64.Gemv(t, 1, op.raw,
			blas64.Vector{N: len(x), Inc: 1, Data: x},
			0, blas64.Vector{N: len(dst), Inc: 1, Data: dst})
		return
	}
	a := op.a
	if t == blas.Trans {
		a = a.T()
	}
	mat.NewVecDense(len(dst), dst).MulVec(a, mat.NewVecDense(len(x), x))
}

// transposed swaps Apply and ApplyT of an Operator.
type transposed struct{ Operator }

// Transpose returns the adjoint view of op.
func Transpose(op Operator) Operator {
	if t, ok := op.(transposed); ok {
		return t.Operator
	}

	return transposed{op}
}

func (t transposed) Dims() (int, int) {
	r, c := t.Operator.Dims()
	return c, r
}

func (t transposed) Apply(dst, x []float64)  { t.Operator.ApplyT(dst, x) }
func (t transposed) ApplyT(dst, y []float64) { t.Operator.Apply(dst, y) }
