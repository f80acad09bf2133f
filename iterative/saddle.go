// SPDX-License-Identifier: MIT

package iterative

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/rla/backend"
	"github.com/katalvlaran/rla/linop"
	"github.com/katalvlaran/rla/precond"
)

// ErrPreconditioner indicates a Preconditioner with neither or both of R and
// M set.
var ErrPreconditioner = errors.New("iterative: exactly one of R or M must be set")

// Error metric descriptions reported by the saddle-point solvers.
const (
	// ErrorMetricLSQR describes PcSS2 histories.
	ErrorMetricLSQR = "LSQR estimate of ‖(A·M)ᵀ(h − A·M·z)‖₂ for the preconditioned normal equations"
	// ErrorMetricCGLS describes PcSS1 histories.
	ErrorMetricCGLS = "‖(A·M)ᵀ(h − A·M·z)‖₂ for the preconditioned normal equations"
)

// Preconditioner selects the right preconditioner of a saddle-point solve.
// Exactly one field must be set.
type Preconditioner struct {
	// R is upper triangular n×n; the solver iterates on [A; √δ·I]·R⁻¹.
	R *mat.TriDense
	// M is n×k; the solver iterates on [A; √δ·I]·M.
	M *mat.Dense
}

func (pc Preconditioner) build(a mat.Matrix, delta float64) (*precond.Preconditioned, error) {
	switch {
	case pc.R != nil && pc.M == nil:
		return precond.TimesInvR(a, delta, pc.R)
	case pc.M != nil && pc.R == nil:
		return precond.TimesM(a, delta, pc.M)
	default:
		return nil, ErrPreconditioner
	}
}

// SaddleResult is the outcome of a saddle-point solve.
type SaddleResult struct {
	// X minimizes ‖A·x − b‖² + δ‖x‖² + 2cᵀx. Nil under WithDualOnly with b = 0.
	X []float64
	// Y = b − A·x.
	Y []float64
	// Z holds the preconditioned coordinates, X = M·Z. Nil with X.
	Z []float64
	// History is the error metric of the last solve after every iteration:
	// the main solve, or the shift solve when the main solve was skipped.
	History []float64
	// RHSNorm is History's starting value for x = 0; dividing History by it
	// gives the relative metric.
	RHSNorm float64
	// Iterations of the main solve.
	Iterations int
	// ShiftIterations of the solve absorbing c (0 when c = 0).
	ShiftIterations int
	// Stop is the termination reason of the solve History belongs to.
	Stop Stop
}

// TotalIterations is the number of Krylov iterations spent, never more than
// the iteration limit.
func (r *SaddleResult) TotalIterations() int { return r.Iterations + r.ShiftIterations }

// SaddleSolver solves
//
//	min_x ‖A·x − b‖² + δ‖x‖² + 2cᵀx,   y = b − A·x
//
// iterating on the right-preconditioned operator. b and c may be nil
// (treated as zero); z0 is an optional warm start in preconditioned
// coordinates.
type SaddleSolver interface {
	Solve(ctx context.Context, a mat.Matrix, b, c []float64, delta float64,
		pc Preconditioner, z0 []float64, opts ...Option) (*SaddleResult, error)
	ErrorMetric() string
}

// krylov is the signature shared by LSQR and CGLS.
type krylov func(ctx context.Context, op linop.Operator, b, x0 []float64, opts ...Option) (*Result, error)

// PcSS2 is the LSQR-backed SaddleSolver used by the lstsq and saddle drivers.
type PcSS2 struct{}

// PcSS1 is the CGLS-backed SaddleSolver.
type PcSS1 struct{}

var (
	_ SaddleSolver = PcSS2{}
	_ SaddleSolver = PcSS1{}
)

// Solve implements SaddleSolver with LSQR.
func (PcSS2) Solve(ctx context.Context, a mat.Matrix, b, c []float64, delta float64,
	pc Preconditioner, z0 []float64, opts ...Option) (*SaddleResult, error) {
	return solveSaddle(ctx, opPcSS2, LSQR, a, b, c, delta, pc, z0, opts)
}

// ErrorMetric implements SaddleSolver.
func (PcSS2) ErrorMetric() string { return ErrorMetricLSQR }

// Solve implements SaddleSolver with CGLS.
func (PcSS1) Solve(ctx context.Context, a mat.Matrix, b, c []float64, delta float64,
	pc Preconditioner, z0 []float64, opts ...Option) (*SaddleResult, error) {
	return solveSaddle(ctx, opPcSS1, CGLS, a, b, c, delta, pc, z0, opts)
}

// ErrorMetric implements SaddleSolver.
func (PcSS1) ErrorMetric() string { return ErrorMetricCGLS }

// solveSaddle runs the shared algorithm:
//
//  1. h = [b; 0] (b = 0 when nil).
//  2. If c ≠ 0: u = argmin{‖u‖ : A_pcᵀ·u = Mᵀ·c}, h -= u.
//  3. z = argmin ‖A_pc·z − h‖ from z0.
//  4. x = M·z, y = b − A·x.
//
// Step 2 makes the normal equations of step 3 read A_pcᵀA_pc·z = A_pcᵀ[b; 0] − Mᵀc.
// Steps 2 and 3 share one iteration budget. When b = 0, u lies in the range
// of A_pc and A_pc·z = −u, so y = u[:m] and step 3 is needed only for x.
func solveSaddle(ctx context.Context, tag string, solve krylov, a mat.Matrix, b, c []float64,
	delta float64, pc Preconditioner, z0 []float64, opts []Option) (*SaddleResult, error) {
	if a == nil {
		return nil, iterErrorf(tag, ErrNilOperator)
	}
	m, n := a.Dims()
	if b != nil && len(b) != m {
		return nil, iterErrorf(tag, fmt.Errorf("len(b)=%d, A has %d rows: %w", len(b), m, ErrDimensionMismatch))
	}
	if c != nil && len(c) != n {
		return nil, iterErrorf(tag, fmt.Errorf("len(c)=%d, A has %d columns: %w", len(c), n, ErrDimensionMismatch))
	}
	op, err := pc.build(a, delta)
	if err != nil {
		return nil, iterErrorf(tag, err)
	}
	o := gatherOptions(opts...)
	rows, k := op.Dims()
	zeroB := b == nil || floats.Norm(b, 2) == 0

	h := make([]float64, rows)
	copy(h, b)

	out := &SaddleResult{}
	budget := o.iterLim
	var u []float64
	if c != nil && floats.Norm(c, 2) > 0 {
		mtc := op.Adjoint(c)
		shift, err := solve(ctx, linop.Transpose(op), mtc, nil, opts...)
		if err != nil {
			return nil, iterErrorf(tag, err)
		}
		u = shift.X
		floats.Sub(h, u)
		out.ShiftIterations = shift.Iterations
		budget -= shift.Iterations

		if zeroB && o.dualOnly {
			// History[0] of the shift solve is ‖A_pc·Mᵀc‖
			amtc := make([]float64, rows)
			op.Apply(amtc, mtc)
			out.Y = append([]float64(nil), u[:m]...)
			out.History = shift.History
			out.RHSNorm = floats.Norm(amtc, 2)
			out.Stop = shift.Stop

			return out, nil
		}
	}

	athn := make([]float64, k)
	op.ApplyT(athn, h)
	out.RHSNorm = floats.Norm(athn, 2)

	var res *Result
	if budget > 0 {
		rest := append(opts[:len(opts):len(opts)], WithIterLim(budget))
		if res, err = solve(ctx, op, h, z0, rest...); err != nil {
			return nil, iterErrorf(tag, err)
		}
	} else {
		res = exhausted(op, h, z0)
	}

	x := op.Forward(res.X)
	y := make([]float64, m)
	if zeroB && u != nil {
		copy(y, u[:m])
	} else {
		ax, err := backend.MulVec(a, x, false)
		if err != nil {
			return nil, iterErrorf(tag, err)
		}
		copy(y, b)
		floats.Sub(y, ax)
	}

	out.X = x
	out.Y = y
	out.Z = res.X
	out.History = res.History
	out.Iterations = res.Iterations
	out.Stop = res.Stop

	return out, nil
}

// exhausted stands in for a main solve with no iterations left: z = z0 (or
// 0) with its normal-equations residual as the only History entry.
func exhausted(op linop.Operator, h, z0 []float64) *Result {
	rows, k := op.Dims()
	z := make([]float64, k)
	copy(z, z0)
	r := make([]float64, rows)
	op.Apply(r, z)
	floats.SubTo(r, h, r)
	g := make([]float64, k)
	op.ApplyT(g, r)

	return &Result{
		X:            z,
		Stop:         StopIterLimit,
		History:      []float64{floats.Norm(g, 2)},
		ResidualNorm: floats.Norm(r, 2),
	}
}
