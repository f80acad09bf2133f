// SPDX-License-Identifier: MIT

package lstsq

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/rla/sketch"
)

// OverSolver approximately solves min ‖A·x − b‖² + δ‖x‖² for tall A.
//
// tol and iterLim drive the iterative phase where one exists; iterLim must be
// > 0 for every implementation. Randomness comes from rng only.
type OverSolver interface {
	Solve(ctx context.Context, a mat.Matrix, b []float64, delta, tol float64,
		iterLim int, rng *rand.Rand) ([]float64, *Log, error)
}

// UnderSolver approximately solves min{‖y‖ : Aᵀy = c} for tall A.
type UnderSolver interface {
	Solve(ctx context.Context, a mat.Matrix, c []float64, tol float64,
		iterLim int, rng *rand.Rand) ([]float64, *Log, error)
}

// EmbeddingDim returns d = ⌊samplingFactor·n⌋ for an m×n matrix, clamping
// d to m with a warning on logger (slog.Default() when nil).
//
// Errors:
//   - ErrNotTall (m < n), ErrSamplingFactor (d < n or factor not finite).
func EmbeddingDim(samplingFactor float64, m, n int, logger *slog.Logger) (int, error) {
	if m < n {
		return 0, lstsqErrorf(opEmbeddingDim, fmt.Errorf("%d×%d: %w", m, n, ErrNotTall))
	}
	if math.IsNaN(samplingFactor) || math.IsInf(samplingFactor, 0) || samplingFactor <= 0 {
		return 0, lstsqErrorf(opEmbeddingDim, fmt.Errorf("factor=%g: %w", samplingFactor, ErrSamplingFactor))
	}
	if logger == nil {
		logger = slog.Default()
	}

	// compare in float64: f·n may not fit in an int
	fn := samplingFactor * float64(n)
	d := m
	if fn > float64(m) {
		logger.Warn("embedding dimension exceeds the number of rows; clamping, the sketch will not save work",
			"d", fn, "m", m, "n", n)
	} else {
		d = int(fn)
	}
	if d < n {
		return 0, lstsqErrorf(opEmbeddingDim, fmt.Errorf("d=%d, n=%d: %w", d, n, ErrSamplingFactor))
	}

	return d, nil
}

// validateProblem checks the inputs shared by every driver and returns A's
// shape. vlen is the required length of the vector operand (b or c).
func validateProblem(a mat.Matrix, v []float64, vlen func(m, n int) int, delta float64, iterLim int) (int, int, error) {
	if a == nil {
		return 0, 0, ErrNilMatrix
	}
	m, n := a.Dims()
	if m < n {
		return 0, 0, fmt.Errorf("%d×%d: %w", m, n, ErrNotTall)
	}
	if want := vlen(m, n); len(v) != want {
		return 0, 0, fmt.Errorf("vector length %d, want %d: %w", len(v), want, ErrDimensionMismatch)
	}
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta < 0 {
		return 0, 0, fmt.Errorf("delta=%g: %w", delta, ErrNegativeDelta)
	}
	if iterLim <= 0 {
		return 0, 0, fmt.Errorf("iterLim=%d: %w", iterLim, ErrIterLimit)
	}

	return m, n, nil
}

func rowsLen(m, _ int) int { return m }
func colsLen(_, n int) int { return n }

func validateTol(tol float64) error {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		return fmt.Errorf("tol=%g: %w", tol, ErrTolerance)
	}

	return nil
}

// sketchMatrix draws S (d×m) and returns S with S·A.
func sketchMatrix(gen sketch.Generator, d int, a mat.Matrix, rng *rand.Rand) (sketch.Operator, *mat.Dense, error) {
	m, _ := a.Dims()
	s, err := gen(d, m, rng)
	if err != nil {
		return nil, nil, err
	}
	sa, err := s.Apply(a)
	if err != nil {
		return nil, nil, err
	}

	return s, sa, nil
}

// liftedResidualNorm returns ‖[b − A·x; √δ·x]‖.
func liftedResidualNorm(a mat.Matrix, b, x []float64, delta float64) float64 {
	m, n := a.Dims()
	var ax mat.VecDense
	ax.MulVec(a, mat.NewVecDense(n, x))
	r := make([]float64, m)
	floats.SubTo(r, b, ax.RawVector().Data)
	rn := floats.Norm(r, 2)
	if delta == 0 {
		return rn
	}

	return math.Hypot(rn, math.Sqrt(delta)*floats.Norm(x, 2))
}
