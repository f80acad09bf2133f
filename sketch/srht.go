// SPDX-License-Identifier: MIT

package sketch

import (
	"fmt"
	"math"
	"math/bits"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"
)

// SRHTOp is the subsampled randomized Hadamard transform
//
//	S = √(p/d) · P · H · D
//
// where D is an m×m random sign diagonal, the input is zero padded to
// p = 2^⌈log₂ m⌉ rows, H is the orthonormal p×p Walsh–Hadamard matrix and P
// keeps d distinct rows of the p available. Since H has entries ±1/√p the
// combined scale is 1/√d on the unnormalized transform.
type SRHTOp struct {
	d, m, p int
	signs   []float64 // len m, ±1
	keep    []int     // len d, distinct indices in [0, p)
	scale   float64   // 1/√d
}

var _ Operator = (*SRHTOp)(nil)

// NewSRHT draws a d×m SRHT from rng.
//
// Errors:
//   - ErrBadShape (non-positive dims or d > p), ErrNilRand.
//
// Complexity:
//   - Time O(m + p), Space O(m + d).
func NewSRHT(d, m int, rng *rand.Rand) (*SRHTOp, error) {
	if err := validateShape(d, m, rng); err != nil {
		return nil, sketchErrorf(opSRHT, err)
	}
	p := nextPow2(m)
	if d > p {
		return nil, sketchErrorf(opSRHT, fmt.Errorf("d=%d > padded rows %d: %w", d, p, ErrBadShape))
	}

	s := &SRHTOp{
		d:     d,
		m:     m,
		p:     p,
		signs: make([]float64, m),
		keep:  make([]int, d),
		scale: 1 / math.Sqrt(float64(d)),
	}
	for i := range s.signs {
		if rng.IntN(2) == 0 {
			s.signs[i] = 1
		} else {
			s.signs[i] = -1
		}
	}
	floydSample(rng, p, s.keep)

	return s, nil
}

// nextPow2 returns the smallest power of two >= n (n > 0).
func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}

	return 1 << bits.Len(uint(n-1))
}

// fwht applies the unnormalized Walsh–Hadamard transform in place.
// len(x) must be a power of two.
func fwht(x []float64) {
	n := len(x)
	var h, i, j int
	var u, v float64
	for h = 1; h < n; h <<= 1 {
		for i = 0; i < n; i += h << 1 {
			for j = i; j < i+h; j++ {
				u, v = x[j], x[j+h]
				x[j], x[j+h] = u+v, u-v
			}
		}
	}
}

// Dims returns (d, m).
func (s *SRHTOp) Dims() (int, int) { return s.d, s.m }

// Padded returns the padded transform length p.
func (s *SRHTOp) Padded() int { return s.p }

// transformInto computes S·x for one column given through get(i) and
// writes result k to put(k, v). buf must have length p.
func (s *SRHTOp) transformInto(buf []float64, get func(i int) float64, put func(k int, v float64)) {
	var i int
	for i = 0; i < s.m; i++ {
		buf[i] = s.signs[i] * get(i)
	}
	for i = s.m; i < s.p; i++ {
		buf[i] = 0
	}
	fwht(buf)
	for k, row := range s.keep {
		put(k, s.scale*buf[row])
	}
}

// Apply returns S·A, one fast transform per column of A; column blocks run
// in parallel with one scratch buffer per block.
//
// Complexity:
//   - Time O(n·p·log p), Space O(d·n + p) per worker.
func (s *SRHTOp) Apply(a mat.Matrix) (*mat.Dense, error) {
	raw, err := rawOperand(a, s.m)
	if err != nil {
		return nil, sketchErrorf(opSRHT, err)
	}
	n := raw.Cols
	out := mat.NewDense(s.d, n, nil)
	dst := out.RawMatrix()
	logp := bits.Len(uint(s.p))

	forColumnBlocks(n, n*s.p*logp, func(j0, j1 int) {
		buf := make([]float64, s.p)
		for j := j0; j < j1; j++ {
			s.transformInto(buf,
				func(i int) float64 { return raw.Data[i*raw.Stride+j] },
				func(k int, v float64) { dst.Data[k*dst.Stride+j] = v })
		}
	})

	return out, nil
}

// ApplyVec returns S·b.
func (s *SRHTOp) ApplyVec(b []float64) ([]float64, error) {
	if err := validateVec(b, s.m); err != nil {
		return nil, sketchErrorf(opSRHT, err)
	}
	y := make([]float64, s.d)
	s.transformInto(make([]float64, s.p),
		func(i int) float64 { return b[i] },
		func(k int, v float64) { y[k] = v })

	return y, nil
}
