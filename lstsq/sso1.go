// SPDX-License-Identifier: MIT

package lstsq

import (
	"context"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/rla/backend"
	"github.com/katalvlaran/rla/sketch"
)

// SSO1 is the sketch-and-solve OverSolver.
type SSO1 struct{ opts Options }

var _ OverSolver = (*SSO1)(nil)

// NewSSO1 builds a sketch-and-solve driver.
func NewSSO1(opts ...Option) *SSO1 { return &SSO1{opts: gatherOptions(opts...)} }

// Solve returns argmin ‖S·A·x − S·b‖² + δ‖x‖² for a fresh d×m sketch S.
//
// Implementation:
//   - Stage 1: d = EmbeddingDim; draw S; form S·A and S·b.
//   - Stage 2: when δ > 0 append √δ·I to S·A and zeros to S·b.
//   - Stage 3: minimum-norm dense solve (backend.Lstsq).
//
// The accuracy is not controlled: a tol that is not NaN and iterLim > 1 are
// ignored with a warning. iterLim must still be > 0.
//
// Errors:
//   - ErrNilMatrix, ErrNotTall, ErrDimensionMismatch, ErrNegativeDelta,
//     ErrIterLimit, ErrSamplingFactor, wrapped sketch/backend errors,
//     ctx.Err().
func (s *SSO1) Solve(ctx context.Context, a mat.Matrix, b []float64, delta, tol float64,
	iterLim int, rng *rand.Rand) ([]float64, *Log, error) {
	o := s.opts
	if !math.IsNaN(tol) {
		o.logger.Warn("SSO1 cannot control the approximation error; tol is ignored", "tol", tol)
	}
	if iterLim > 1 {
		o.logger.Warn("SSO1 is not iterative; iterLim is ignored", "iterLim", iterLim)
	}
	m, n, err := validateProblem(a, b, rowsLen, delta, iterLim)
	if err != nil {
		return nil, nil, lstsqErrorf(opSSO1, err)
	}
	d, err := EmbeddingDim(o.samplingFactor, m, n, o.logger)
	if err != nil {
		return nil, nil, lstsqErrorf(opSSO1, err)
	}
	if err = ctx.Err(); err != nil {
		return nil, nil, lstsqErrorf(opSSO1, err)
	}
	rng = sketch.EnsureRand(rng)
	clock := Stopwatch(o.logging)
	log := &Log{EmbeddingDim: d}

	t0 := clock.Start()
	op, sa, err := sketchMatrix(o.sketch, d, a, rng)
	if err != nil {
		return nil, nil, lstsqErrorf(opSSO1, err)
	}
	sb, err := op.ApplyVec(b)
	if err != nil {
		return nil, nil, lstsqErrorf(opSSO1, err)
	}
	log.TimeSketch = clock.Lap(t0)

	t0 = clock.Start()
	if delta > 0 {
		if sa, err = backend.Lift(sa, math.Sqrt(delta)); err != nil {
			return nil, nil, lstsqErrorf(opSSO1, err)
		}
		sb = append(sb, make([]float64, n)...)
	}
	x, err := backend.Lstsq(sa, sb)
	if err != nil {
		return nil, nil, lstsqErrorf(opSSO1, err)
	}
	log.TimeSolve = clock.Lap(t0)

	return x, log, nil
}
