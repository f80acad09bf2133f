// SPDX-License-Identifier: MIT

package lstsq

import (
	"context"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/rla/backend"
	"github.com/katalvlaran/rla/iterative"
	"github.com/katalvlaran/rla/precond"
	"github.com/katalvlaran/rla/sketch"
)

// SPO1 is the SVD-preconditioned sketch-and-precondition OverSolver.
// A need not have full column rank.
type SPO1 struct{ opts Options }

var _ OverSolver = (*SPO1)(nil)

// NewSPO1 builds an SVD-preconditioned driver. WithSmartInit (default on)
// enables the sketch-and-solve warm start.
func NewSPO1(opts ...Option) *SPO1 { return &SPO1{opts: gatherOptions(opts...)} }

// Solve approximately minimizes ‖A·x − b‖² + δ‖x‖².
//
// Implementation:
//   - Stage 1: sketch S·A (d×n); append √δ·I when δ > 0.
//   - Stage 2: thin SVD of the (lifted) sketch, M = V_r·Σ_r⁻¹.
//   - Stage 3 (smart init): z = U_r[:d]ᵀ·S·b is the sketch-and-solve
//     solution in preconditioned coordinates; keep it as warm start iff
//     ‖[b − A·M·z; √δ·M·z]‖ < ‖b‖.
//   - Stage 4: saddle solver (LSQR by default) on [A; √δ·I]·M from z.
//
// Errors:
//   - ErrNilMatrix, ErrNotTall, ErrDimensionMismatch, ErrNegativeDelta,
//     ErrIterLimit, ErrTolerance, ErrSamplingFactor, precond.ErrZeroRank,
//     wrapped sketch/backend/iterative errors, ctx.Err().
func (s *SPO1) Solve(ctx context.Context, a mat.Matrix, b []float64, delta, tol float64,
	iterLim int, rng *rand.Rand) ([]float64, *Log, error) {
	o := s.opts
	m, n, err := validateProblem(a, b, rowsLen, delta, iterLim)
	if err != nil {
		return nil, nil, lstsqErrorf(opSPO1, err)
	}
	if err = validateTol(tol); err != nil {
		return nil, nil, lstsqErrorf(opSPO1, err)
	}
	d, err := EmbeddingDim(o.samplingFactor, m, n, o.logger)
	if err != nil {
		return nil, nil, lstsqErrorf(opSPO1, err)
	}
	rng = sketch.EnsureRand(rng)
	clock := Stopwatch(o.logging)
	log := &Log{EmbeddingDim: d}

	t0 := clock.Start()
	op, sa, err := sketchMatrix(o.sketch, d, a, rng)
	if err != nil {
		return nil, nil, lstsqErrorf(opSPO1, err)
	}
	log.TimeSketch = clock.Lap(t0)

	t0 = clock.Start()
	if delta > 0 {
		if sa, err = backend.Lift(sa, math.Sqrt(delta)); err != nil {
			return nil, nil, lstsqErrorf(opSPO1, err)
		}
	}
	f, err := precond.SVDRight(sa)
	if err != nil {
		return nil, nil, lstsqErrorf(opSPO1, err)
	}
	log.TimeFactor = clock.Lap(t0)
	log.Rank = f.Rank

	var z0 []float64
	if o.smartInit {
		t0 = clock.Start()
		sb, err := op.ApplyVec(b)
		if err != nil {
			return nil, nil, lstsqErrorf(opSPO1, err)
		}
		// z = U_r[:d]ᵀ·(S·b); the lifted rows of the rhs are zero
		z, err := backend.MulVec(f.U.Slice(0, d, 0, f.Rank), sb, true)
		if err != nil {
			return nil, nil, lstsqErrorf(opSPO1, err)
		}
		x, err := backend.MulVec(f.M, z, false)
		if err != nil {
			return nil, nil, lstsqErrorf(opSPO1, err)
		}
		if liftedResidualNorm(a, b, x, delta) < floats.Norm(b, 2) {
			z0 = z
			log.WarmStart = true
		}
		log.TimePresolve = clock.Lap(t0)
	}

	t0 = clock.Start()
	res, err := o.solver.Solve(ctx, a, b, nil, delta, iterative.Preconditioner{M: f.M}, z0,
		iterative.WithTol(tol), iterative.WithIterLim(iterLim))
	if err != nil {
		return nil, nil, lstsqErrorf(opSPO1, err)
	}
	log.TimeIterate = clock.Lap(t0)
	log.Iterations = res.TotalIterations()
	if o.logging {
		log.WrapUp(res.History, res.RHSNorm)
		log.ErrorDesc = o.solver.ErrorMetric()
	}

	return res.X, log, nil
}
