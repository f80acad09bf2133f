// SPDX-License-Identifier: MIT

package iterative

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/rla/linop"
)

// eps is float64 machine epsilon.
const eps = 0x1p-52

// validateSystem checks op, b and an optional x0 against each other.
func validateSystem(op linop.Operator, b, x0 []float64) (int, int, error) {
	if op == nil {
		return 0, 0, ErrNilOperator
	}
	m, n := op.Dims()
	if len(b) != m {
		return 0, 0, fmt.Errorf("len(b)=%d, operator has %d rows: %w", len(b), m, ErrDimensionMismatch)
	}
	if x0 != nil && len(x0) != n {
		return 0, 0, fmt.Errorf("len(x0)=%d, operator has %d columns: %w", len(x0), n, ErrDimensionMismatch)
	}

	return m, n, nil
}

// LSQR solves min ‖A·x − b‖ for the operator A by Golub–Kahan
// bidiagonalization.
//
// Implementation:
//   - Stage 1: r0 = b − A·x0 (x0 = 0 when nil); β1 = ‖r0‖, α1 = ‖Aᵀu1‖.
//   - Stage 2: each iteration extends the bidiagonalization by one step and
//     updates x with a plane rotation. Running estimates of ‖A‖_F, cond(A),
//     ‖r‖, ‖Aᵀr‖ and ‖x − x0‖ drive the stopping tests below.
//   - Stage 3: stop on the first test that holds (atol = btol = tol):
//     test1 ‖r‖/‖b‖ ≤ btol + atol·‖A‖·‖x‖/‖b‖   → StopResidual
//     test2 ‖Aᵀr‖/(‖A‖·‖r‖) ≤ atol            → StopNormalEq
//     test3 1/cond(A) ≤ 1/conlim               → StopConditionLimit
//     and the machine-precision forms of the same three tests.
//
// Inputs:
//   - op: m×n operator; b: length m; x0: nil or length n (not modified).
//
// Returns:
//   - *Result with X = x0 + correction and the ‖Aᵀr_k‖ estimate history.
//
// Errors:
//   - ErrNilOperator, ErrDimensionMismatch, ctx.Err() on cancellation.
//
// Complexity:
//   - One Apply and one ApplyT per iteration plus O(m + n) vector work.
func LSQR(ctx context.Context, op linop.Operator, b, x0 []float64, opts ...Option) (*Result, error) {
	m, n, err := validateSystem(op, b, x0)
	if err != nil {
		return nil, iterErrorf(opLSQR, err)
	}
	o := gatherOptions(opts...)
	atol, btol := o.tol, o.tol
	ctol := 0.0
	if !math.IsInf(o.conLim, 1) {
		ctol = 1 / o.conLim
	}

	x := make([]float64, n)
	u := make([]float64, m)
	copy(u, b)
	bnorm := floats.Norm(b, 2)
	if x0 != nil {
		copy(x, x0)
		ax := make([]float64, m)
		op.Apply(ax, x)
		floats.Sub(u, ax)
	}

	v := make([]float64, n)
	alpha := 0.0
	beta := floats.Norm(u, 2)
	if beta > 0 {
		floats.Scale(1/beta, u)
		op.ApplyT(v, u)
		alpha = floats.Norm(v, 2)
	}
	if alpha > 0 {
		floats.Scale(1/alpha, v)
	}

	res := &Result{X: x, ResidualNorm: beta}
	arnorm := alpha * beta
	res.History = append(res.History, arnorm)
	if arnorm == 0 {
		res.Stop = StopZeroRHS
		return res, nil
	}

	if bnorm == 0 {
		// b = 0 with a warm start: measure against the initial residual
		bnorm = beta
	}

	w := make([]float64, n)
	copy(w, v)
	av := make([]float64, m)
	atu := make([]float64, n)

	var (
		rhobar = alpha
		phibar = beta
		rnorm  = beta
		anorm  float64
		acond  float64
		ddnorm float64
		xxnorm float64
		z      float64
		cs2    = -1.0
		sn2    float64
		itn    int
	)

	for itn < o.iterLim {
		if err = ctx.Err(); err != nil {
			return nil, iterErrorf(opLSQR, err)
		}
		itn++

		// u = A·v − α·u, v = Aᵀ·u − β·v
		op.Apply(av, v)
		floats.AddScaledTo(u, av, -alpha, u)
		beta = floats.Norm(u, 2)
		if beta > 0 {
			floats.Scale(1/beta, u)
			anorm = math.Sqrt(anorm*anorm + alpha*alpha + beta*beta)
			op.ApplyT(atu, u)
			floats.AddScaledTo(v, atu, -beta, v)
			alpha = floats.Norm(v, 2)
			if alpha > 0 {
				floats.Scale(1/alpha, v)
			}
		}

		rho := math.Hypot(rhobar, beta)
		cs := rhobar / rho
		sn := beta / rho
		theta := sn * alpha
		rhobar = -cs * alpha
		phi := cs * phibar
		phibar = sn * phibar
		tau := sn * phi

		// x += (φ/ρ)·w, w = v − (θ/ρ)·w
		t1 := phi / rho
		t2 := -theta / rho
		floats.AddScaled(x, t1, w)
		ddnorm += floats.Dot(w, w) / (rho * rho)
		floats.AddScaledTo(w, v, t2, w)

		// ‖x‖ estimate
		delta := sn2 * rho
		gambar := -cs2 * rho
		rhs := phi - delta*z
		zbar := rhs / gambar
		xnorm := math.Sqrt(xxnorm + zbar*zbar)
		gamma := math.Hypot(gambar, theta)
		cs2 = gambar / gamma
		sn2 = theta / gamma
		z = rhs / gamma
		xxnorm += z * z

		acond = anorm * math.Sqrt(ddnorm)
		rnorm = phibar
		arnorm = alpha * math.Abs(tau)
		res.History = append(res.History, arnorm)

		test1 := rnorm / bnorm
		test2 := arnorm / (anorm*rnorm + eps)
		test3 := 1 / (acond + eps)
		tt := test1 / (1 + anorm*xnorm/bnorm)
		rtol := btol + atol*anorm*xnorm/bnorm

		stop, done := StopIterLimit, false
		switch {
		case test1 <= rtol:
			stop, done = StopResidual, true
		case test2 <= atol:
			stop, done = StopNormalEq, true
		case test3 <= ctol:
			stop, done = StopConditionLimit, true
		case 1+tt <= 1:
			stop, done = StopResidual, true
		case 1+test2 <= 1:
			stop, done = StopNormalEq, true
		case 1+test3 <= 1:
			stop, done = StopConditionLimit, true
		}
		if done {
			res.Stop = stop
			break
		}
	}

	res.Iterations = itn
	res.ResidualNorm = rnorm
	res.NormEstimate = anorm
	res.CondEstimate = acond

	return res, nil
}
