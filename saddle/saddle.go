// SPDX-License-Identifier: MIT

// Package saddle solves regularized saddle-point systems
//
//	[ I   A   ] [y]   [b]
//	[ Aᵀ  −δI ] [x] = [c]
//
// for tall A by sketch-and-precondition. Eliminating y gives
// (AᵀA + δI)·x = Aᵀb − c and y = b − A·x, which is the stationarity
// condition of min ‖A·x − b‖² + δ‖x‖² + 2cᵀx.
package saddle

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/rla/backend"
	"github.com/katalvlaran/rla/iterative"
	"github.com/katalvlaran/rla/lstsq"
	"github.com/katalvlaran/rla/precond"
	"github.com/katalvlaran/rla/sketch"
)

// SPS2 sketches A, preconditions with the SVD of [S·A; √δ·I] and hands the
// system to Solver. The zero value is usable: SJLT sketch, sampling factor
// lstsq.DefaultSamplingFactor, iterative.PcSS2.
type SPS2 struct {
	Sketch         sketch.Generator
	SamplingFactor float64
	Solver         iterative.SaddleSolver

	// Logging fills timings and normalized error history in the Log.
	Logging bool
	// Logger receives warnings; nil means slog.Default().
	Logger *slog.Logger
}

func (s *SPS2) defaults() (sketch.Generator, float64, iterative.SaddleSolver, *slog.Logger) {
	gen, f, solver, logger := s.Sketch, s.SamplingFactor, s.Solver, s.Logger
	if gen == nil {
		gen = sketch.SJLT(sketch.DefaultSJLTNonzeros)
	}
	if f == 0 {
		f = lstsq.DefaultSamplingFactor
	}
	if solver == nil {
		solver = iterative.PcSS2{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return gen, f, solver, logger
}

// Solve returns (x, y) for the saddle-point system. b (length m) and c
// (length n) may be nil, meaning zero.
//
// Implementation:
//   - Stage 1: d = lstsq.EmbeddingDim; sketch S·A.
//   - Stage 2: M from precond.SVDRight([S·A; √δ·I]).
//   - Stage 3: Solver.Solve with the M preconditioner, no warm start.
//
// Errors:
//   - lstsq.ErrNilMatrix, lstsq.ErrNotTall, lstsq.ErrDimensionMismatch,
//     lstsq.ErrNegativeDelta, lstsq.ErrIterLimit, lstsq.ErrTolerance,
//     lstsq.ErrSamplingFactor, wrapped sketch/precond/iterative errors,
//     ctx.Err().
func (s *SPS2) Solve(ctx context.Context, a mat.Matrix, b, c []float64, delta, tol float64,
	iterLim int, rng *rand.Rand) ([]float64, []float64, *lstsq.Log, error) {
	if err := validate(a, b, c, delta, tol, iterLim); err != nil {
		return nil, nil, nil, saddleErrorf(opSPS2, err)
	}
	gen, factor, solver, logger := s.defaults()
	m, n := a.Dims()
	d, err := lstsq.EmbeddingDim(factor, m, n, logger)
	if err != nil {
		return nil, nil, nil, saddleErrorf(opSPS2, err)
	}
	rng = sketch.EnsureRand(rng)
	clock := lstsq.Stopwatch(s.Logging)
	log := &lstsq.Log{EmbeddingDim: d}

	t0 := clock.Start()
	op, err := gen(d, m, rng)
	if err != nil {
		return nil, nil, nil, saddleErrorf(opSPS2, err)
	}
	sa, err := op.Apply(a)
	if err != nil {
		return nil, nil, nil, saddleErrorf(opSPS2, err)
	}
	log.TimeSketch = clock.Lap(t0)

	t0 = clock.Start()
	if delta > 0 {
		if sa, err = backend.Lift(sa, math.Sqrt(delta)); err != nil {
			return nil, nil, nil, saddleErrorf(opSPS2, err)
		}
	}
	f, err := precond.SVDRight(sa)
	if err != nil {
		return nil, nil, nil, saddleErrorf(opSPS2, err)
	}
	log.TimeFactor = clock.Lap(t0)
	log.Rank = f.Rank

	t0 = clock.Start()
	res, err := solver.Solve(ctx, a, b, c, delta, iterative.Preconditioner{M: f.M}, nil,
		iterative.WithTol(tol), iterative.WithIterLim(iterLim))
	if err != nil {
		return nil, nil, nil, saddleErrorf(opSPS2, err)
	}
	log.TimeIterate = clock.Lap(t0)
	log.Iterations = res.TotalIterations()
	if s.Logging {
		log.WrapUp(res.History, res.RHSNorm)
		log.ErrorDesc = solver.ErrorMetric()
	}

	return res.X, res.Y, log, nil
}

func validate(a mat.Matrix, b, c []float64, delta, tol float64, iterLim int) error {
	if a == nil {
		return lstsq.ErrNilMatrix
	}
	m, n := a.Dims()
	switch {
	case m < n:
		return fmt.Errorf("%d×%d: %w", m, n, lstsq.ErrNotTall)
	case b != nil && len(b) != m:
		return fmt.Errorf("len(b)=%d, want %d: %w", len(b), m, lstsq.ErrDimensionMismatch)
	case c != nil && len(c) != n:
		return fmt.Errorf("len(c)=%d, want %d: %w", len(c), n, lstsq.ErrDimensionMismatch)
	case math.IsNaN(delta) || math.IsInf(delta, 0) || delta < 0:
		return fmt.Errorf("delta=%g: %w", delta, lstsq.ErrNegativeDelta)
	case math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0:
		return fmt.Errorf("tol=%g: %w", tol, lstsq.ErrTolerance)
	case iterLim <= 0:
		return fmt.Errorf("iterLim=%d: %w", iterLim, lstsq.ErrIterLimit)
	}

	return nil
}
