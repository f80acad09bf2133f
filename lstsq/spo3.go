// SPDX-License-Identifier: MIT

package lstsq

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/rla/backend"
	"github.com/katalvlaran/rla/iterative"
	"github.com/katalvlaran/rla/sketch"
)

// Mode selects how SPO3 obtains its triangular preconditioner.
type Mode int

const (
	// ModeQR factors the (lifted) sketch [S·A; √δ·I] = Q·R.
	ModeQR Mode = iota
	// ModeCholesky factors (S·A)ᵀ(S·A) + δ·I = RᵀR.
	ModeCholesky
)

// String returns the flag spelling of m.
func (m Mode) String() string {
	switch m {
	case ModeQR:
		return "qr"
	case ModeCholesky:
		return "chol"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode maps "qr" and "chol" to a Mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "qr":
		return ModeQR, nil
	case "chol", "cholesky":
		return ModeCholesky, nil
	default:
		return 0, lstsqErrorf(opParseMode, fmt.Errorf("%q: %w", s, ErrUnknownMode))
	}
}

// SPO3 is the triangular-preconditioned sketch-and-precondition OverSolver.
// It assumes A has full column rank.
type SPO3 struct {
	mode Mode
	opts Options
}

var _ OverSolver = (*SPO3)(nil)

// NewSPO3 builds a QR- or Cholesky-preconditioned driver.
func NewSPO3(mode Mode, opts ...Option) *SPO3 {
	return &SPO3{mode: mode, opts: gatherOptions(opts...)}
}

// Solve approximately minimizes ‖A·x − b‖² + δ‖x‖².
//
// Implementation:
//   - Stage 1: sketch S·A.
//   - Stage 2: R from QR of [S·A; √δ·I] (ModeQR) or Cholesky of
//     (S·A)ᵀ(S·A) + δI (ModeCholesky).
//   - Stage 3: presolve z = Q[:d]ᵀ·S·b (QR) or z = R⁻ᵀ·(S·A)ᵀ·S·b
//     (Cholesky); keep z iff the residual of R⁻¹·z beats ‖b‖.
//   - Stage 4: saddle solver on [A; √δ·I]·R⁻¹ from z.
//
// Errors:
//   - as SPO1, plus ErrUnknownMode, backend.ErrSingular (QR of a
//     numerically rank-deficient sketch) and backend.ErrNotPositiveDefinite
//     (Cholesky).
func (s *SPO3) Solve(ctx context.Context, a mat.Matrix, b []float64, delta, tol float64,
	iterLim int, rng *rand.Rand) ([]float64, *Log, error) {
	o := s.opts
	if s.mode != ModeQR && s.mode != ModeCholesky {
		return nil, nil, lstsqErrorf(opSPO3, fmt.Errorf("%v: %w", s.mode, ErrUnknownMode))
	}
	m, n, err := validateProblem(a, b, rowsLen, delta, iterLim)
	if err != nil {
		return nil, nil, lstsqErrorf(opSPO3, err)
	}
	if err = validateTol(tol); err != nil {
		return nil, nil, lstsqErrorf(opSPO3, err)
	}
	d, err := EmbeddingDim(o.samplingFactor, m, n, o.logger)
	if err != nil {
		return nil, nil, lstsqErrorf(opSPO3, err)
	}
	rng = sketch.EnsureRand(rng)
	clock := Stopwatch(o.logging)
	log := &Log{EmbeddingDim: d}

	t0 := clock.Start()
	op, sa, err := sketchMatrix(o.sketch, d, a, rng)
	if err != nil {
		return nil, nil, lstsqErrorf(opSPO3, err)
	}
	log.TimeSketch = clock.Lap(t0)

	t0 = clock.Start()
	var (
		q *mat.Dense
		r *mat.TriDense
	)
	switch s.mode {
	case ModeQR:
		lifted := sa
		if delta > 0 {
			if lifted, err = backend.Lift(sa, math.Sqrt(delta)); err != nil {
				return nil, nil, lstsqErrorf(opSPO3, err)
			}
		}
		if q, r, err = backend.ThinQR(lifted); err == nil {
			rows, _ := lifted.Dims()
			err = checkRank(r, rows)
		}
	case ModeCholesky:
		var g *mat.SymDense
		if g, err = backend.Gram(sa, delta); err == nil {
			r, err = backend.CholeskyUpper(g)
		}
	}
	if err != nil {
		return nil, nil, lstsqErrorf(opSPO3, err)
	}
	log.TimeFactor = clock.Lap(t0)

	t0 = clock.Start()
	z0, err := presolveTri(op, sa, q, r, a, b, delta)
	if err != nil {
		return nil, nil, lstsqErrorf(opSPO3, err)
	}
	log.WarmStart = z0 != nil
	log.TimePresolve = clock.Lap(t0)

	t0 = clock.Start()
	res, err := o.solver.Solve(ctx, a, b, nil, delta, iterative.Preconditioner{R: r}, z0,
		iterative.WithTol(tol), iterative.WithIterLim(iterLim))
	if err != nil {
		return nil, nil, lstsqErrorf(opSPO3, err)
	}
	log.TimeIterate = clock.Lap(t0)
	log.Iterations = res.TotalIterations()
	if o.logging {
		log.WrapUp(res.History, res.RHSNorm)
		log.ErrorDesc = o.solver.ErrorMetric()
	}

	return res.X, log, nil
}

// eps is float64 machine epsilon.
const eps = 0x1p-52

// checkRank rejects an R from the QR of a rows×n matrix when some |R_ii| is
// at or below max(rows, n)·eps·‖R‖_F. Householder QR of a rank-deficient
// matrix leaves rounding-level pivots rather than exact zeros.
func checkRank(r *mat.TriDense, rows int) error {
	n, _ := r.Triangle()
	cutoff := float64(max(rows, n)) * eps * mat.Norm(r, 2)
	var i int
	for i = 0; i < n; i++ {
		if v := math.Abs(r.At(i, i)); v <= cutoff {
			return fmt.Errorf("|R[%d,%d]|=%g ≤ %g: %w", i, i, v, cutoff, backend.ErrSingular)
		}
	}

	return nil
}

// presolveTri returns the sketch-and-solve warm start in preconditioned
// coordinates, or nil when it does not improve on x = 0.
func presolveTri(op sketch.Operator, sa, q *mat.Dense, r *mat.TriDense, a mat.Matrix,
	b []float64, delta float64) ([]float64, error) {
	sb, err := op.ApplyVec(b)
	if err != nil {
		return nil, err
	}
	d := len(sb)

	var z []float64
	if q != nil {
		_, k := q.Dims()
		z, err = backend.MulVec(q.Slice(0, d, 0, k), sb, true)
	} else {
		var g []float64
		if g, err = backend.MulVec(sa, sb, true); err == nil {
			z, err = backend.SolveTri(r, g, true)
		}
	}
	if err != nil {
		return nil, err
	}
	x, err := backend.SolveTri(r, z, false)
	if err != nil {
		return nil, err
	}
	if liftedResidualNorm(a, b, x, delta) >= floats.Norm(b, 2) {
		return nil, nil
	}

	return z, nil
}
