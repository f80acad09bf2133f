// SPDX-License-Identifier: MIT

package iterative

import (
	"context"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/rla/linop"
)

// CGLS solves min ‖A·x − b‖ by conjugate gradients on AᵀA·x = Aᵀb without
// forming AᵀA.
//
// Stops when ‖Aᵀr_k‖ ≤ tol·‖Aᵀr_0‖ (StopNormalEq) or ‖r_k‖ ≤ tol·‖b‖
// (StopResidual). WithConLim is ignored. History holds the exact ‖Aᵀr_k‖.
//
// Errors:
//   - ErrNilOperator, ErrDimensionMismatch, ctx.Err() on cancellation.
func CGLS(ctx context.Context, op linop.Operator, b, x0 []float64, opts ...Option) (*Result, error) {
	m, n, err := validateSystem(op, b, x0)
	if err != nil {
		return nil, iterErrorf(opCGLS, err)
	}
	o := gatherOptions(opts...)

	x := make([]float64, n)
	r := make([]float64, m)
	copy(r, b)
	if x0 != nil {
		copy(x, x0)
		ax := make([]float64, m)
		op.Apply(ax, x)
		floats.Sub(r, ax)
	}
	bnorm := floats.Norm(b, 2)

	s := make([]float64, n)
	op.ApplyT(s, r)
	p := make([]float64, n)
	copy(p, s)
	gamma := floats.Dot(s, s)
	snorm0 := floats.Norm(s, 2)
	rnorm := floats.Norm(r, 2)

	res := &Result{X: x, ResidualNorm: rnorm}
	res.History = append(res.History, snorm0)
	if snorm0 == 0 {
		res.Stop = StopZeroRHS
		return res, nil
	}

	q := make([]float64, m)
	var itn int
	for itn < o.iterLim {
		if err = ctx.Err(); err != nil {
			return nil, iterErrorf(opCGLS, err)
		}
		itn++

		op.Apply(q, p)
		qq := floats.Dot(q, q)
		if qq == 0 {
			res.Stop = StopNormalEq
			break
		}
		alpha := gamma / qq
		floats.AddScaled(x, alpha, p)
		floats.AddScaled(r, -alpha, q)
		op.ApplyT(s, r)

		next := floats.Dot(s, s)
		floats.AddScaledTo(p, s, next/gamma, p)
		gamma = next

		snorm := floats.Norm(s, 2)
		rnorm = floats.Norm(r, 2)
		res.History = append(res.History, snorm)
		if snorm <= o.tol*snorm0 {
			res.Stop = StopNormalEq
			break
		}
		if rnorm <= o.tol*bnorm {
			res.Stop = StopResidual
			break
		}
	}

	res.Iterations = itn
	res.ResidualNorm = rnorm

	return res, nil
}
