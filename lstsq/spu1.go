// SPDX-License-Identifier: MIT

package lstsq

import (
	"context"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/rla/iterative"
	"github.com/katalvlaran/rla/precond"
	"github.com/katalvlaran/rla/sketch"
)

// ErrorMetricUnder describes SPU1 error histories.
const ErrorMetricUnder = "‖(A·M)·((A·M)ᵀy − Mᵀc)‖₂ for the right-preconditioned A·M; cond(A·M) is small under typical sampling factors"

// SPU1 is the SVD-preconditioned sketch-and-precondition UnderSolver.
type SPU1 struct{ opts Options }

var _ UnderSolver = (*SPU1)(nil)

// NewSPU1 builds an underdetermined driver. WithSmartInit is ignored.
func NewSPU1(opts ...Option) *SPU1 { return &SPU1{opts: gatherOptions(opts...)} }

// Solve returns y ≈ pinv(Aᵀ)·c, the minimum-norm solution of Aᵀy = c, for an
// m×n tall A and c of length n.
//
// Implementation:
//   - Stage 1: sketch S·A and take M = V_r·Σ_r⁻¹ from its SVD.
//   - Stage 2: minimum-norm solve of (A·M)ᵀy = Mᵀc within iterLim
//     iterations; no solve for x.
//
// A low-accuracy solve may violate Aᵀy = c by a wide margin.
//
// Errors:
//   - ErrNilMatrix, ErrNotTall, ErrDimensionMismatch (len(c) != n),
//     ErrIterLimit, ErrTolerance, ErrSamplingFactor, precond.ErrZeroRank,
//     wrapped sketch/iterative errors, ctx.Err().
func (s *SPU1) Solve(ctx context.Context, a mat.Matrix, c []float64, tol float64,
	iterLim int, rng *rand.Rand) ([]float64, *Log, error) {
	o := s.opts
	m, n, err := validateProblem(a, c, colsLen, 0, iterLim)
	if err != nil {
		return nil, nil, lstsqErrorf(opSPU1, err)
	}
	if err = validateTol(tol); err != nil {
		return nil, nil, lstsqErrorf(opSPU1, err)
	}
	d, err := EmbeddingDim(o.samplingFactor, m, n, o.logger)
	if err != nil {
		return nil, nil, lstsqErrorf(opSPU1, err)
	}
	rng = sketch.EnsureRand(rng)
	clock := Stopwatch(o.logging)
	log := &Log{EmbeddingDim: d}

	t0 := clock.Start()
	_, sa, err := sketchMatrix(o.sketch, d, a, rng)
	if err != nil {
		return nil, nil, lstsqErrorf(opSPU1, err)
	}
	log.TimeSketch = clock.Lap(t0)

	t0 = clock.Start()
	f, err := precond.SVDRight(sa)
	if err != nil {
		return nil, nil, lstsqErrorf(opSPU1, err)
	}
	log.TimeFactor = clock.Lap(t0)
	log.Rank = f.Rank

	t0 = clock.Start()
	res, err := o.solver.Solve(ctx, a, nil, c, 0, iterative.Preconditioner{M: f.M}, nil,
		iterative.WithTol(tol), iterative.WithIterLim(iterLim), iterative.WithDualOnly(true))
	if err != nil {
		return nil, nil, lstsqErrorf(opSPU1, err)
	}
	log.TimeIterate = clock.Lap(t0)
	log.Iterations = res.TotalIterations()
	if o.logging {
		log.WrapUp(res.History, res.RHSNorm)
		log.ErrorDesc = ErrorMetricUnder
	}

	return res.Y, log, nil
}
