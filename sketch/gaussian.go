// SPDX-License-Identifier: MIT

package sketch

import (
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/rla/backend"
)

// Gaussian is a dense d×m operator with i.i.d. N(0, 1/d) entries, so that
// E[SᵀS] = I.
type Gaussian struct {
	d, m int
	s    *mat.Dense
}

var _ Operator = (*Gaussian)(nil)

// NewGaussian draws a d×m Gaussian operator from rng.
//
// Errors:
//   - ErrBadShape (d<=0 or m<=0), ErrNilRand.
//
// Complexity:
//   - Time O(d·m), Space O(d·m).
func NewGaussian(d, m int, rng *rand.Rand) (*Gaussian, error) {
	if err := validateShape(d, m, rng); err != nil {
		return nil, sketchErrorf(opGaussian, err)
	}

	scale := 1 / math.Sqrt(float64(d))
	data := make([]float64, d*m)
	for i := range data {
		data[i] = rng.NormFloat64() * scale
	}

	return &Gaussian{d: d, m: m, s: mat.NewDense(d, m, data)}, nil
}

// Dims returns (d, m).
func (g *Gaussian) Dims() (int, int) { return g.d, g.m }

// Apply returns S·A through BLAS gemm.
func (g *Gaussian) Apply(a mat.Matrix) (*mat.Dense, error) {
	if a == nil {
		return nil, sketchErrorf(opGaussian, ErrNilMatrix)
	}
	r, n := a.Dims()
	if r != g.m {
		return nil, sketchErrorf(opGaussian, ErrDimensionMismatch)
	}

	out := mat.NewDense(g.d, n, nil)
	out.Mul(g.s, a)

	return out, nil
}

// ApplyVec returns S·b through BLAS gemv.
func (g *Gaussian) ApplyVec(b []float64) ([]float64, error) {
	if err := validateVec(b, g.m); err != nil {
		return nil, sketchErrorf(opGaussian, err)
	}
	y, err := backend.MulVec(g.s, b, false)
	if err != nil {
		return nil, sketchErrorf(opGaussian, err)
	}

	return y, nil
}
