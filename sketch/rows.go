// SPDX-License-Identifier: MIT

package sketch

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// UniformRowsOp keeps d distinct rows of the input chosen uniformly at
// random and scales them by √(m/d).
type UniformRowsOp struct {
	d, m  int
	keep  []int
	scale float64
}

var _ Operator = (*UniformRowsOp)(nil)

// NewUniformRows draws a d×m row-sampling operator.
//
// Errors:
//   - ErrBadShape (non-positive dims or d > m), ErrNilRand.
func NewUniformRows(d, m int, rng *rand.Rand) (*UniformRowsOp, error) {
	if err := validateShape(d, m, rng); err != nil {
		return nil, sketchErrorf(opRows, err)
	}
	if d > m {
		return nil, sketchErrorf(opRows, fmt.Errorf("d=%d > m=%d: %w", d, m, ErrBadShape))
	}
	keep := make([]int, d)
	floydSample(rng, m, keep)

	return &UniformRowsOp{
		d:     d,
		m:     m,
		keep:  keep,
		scale: math.Sqrt(float64(m) / float64(d)),
	}, nil
}

// Dims returns (d, m).
func (s *UniformRowsOp) Dims() (int, int) { return s.d, s.m }

// Apply gathers the sampled rows of A.
func (s *UniformRowsOp) Apply(a mat.Matrix) (*mat.Dense, error) {
	raw, err := rawOperand(a, s.m)
	if err != nil {
		return nil, sketchErrorf(opRows, err)
	}
	n := raw.Cols
	out := mat.NewDense(s.d, n, nil)
	dst := out.RawMatrix()
	var j, src, base int
	for k, row := range s.keep {
		src = row * raw.Stride
		base = k * dst.Stride
		for j = 0; j < n; j++ {
			dst.Data[base+j] = s.scale * raw.Data[src+j]
		}
	}

	return out, nil
}

// ApplyVec gathers the sampled entries of b.
func (s *UniformRowsOp) ApplyVec(b []float64) ([]float64, error) {
	if err := validateVec(b, s.m); err != nil {
		return nil, sketchErrorf(opRows, err)
	}
	y := make([]float64, s.d)
	for k, row := range s.keep {
		y[k] = s.scale * b[row]
	}

	return y, nil
}
