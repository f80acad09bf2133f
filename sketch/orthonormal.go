// SPDX-License-Identifier: MIT

package sketch

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/rla/backend"
)

// Orthonormal returns an m×n matrix drawn from the Haar distribution on
// matrices with orthonormal columns (m >= n) or orthonormal rows (m < n).
//
// Implementation:
//   - Stage 1: draw a Gaussian max(m,n)×min(m,n) matrix G.
//   - Stage 2: G = Q·R; flip column signs of Q so that diag(R) > 0.
//   - Stage 3: return Q, or Qᵀ for the wide case.
//
// Errors:
//   - ErrBadShape, ErrNilRand.
//
// Complexity:
//   - Time O(max(m,n)·min(m,n)²).
func Orthonormal(m, n int, rng *rand.Rand) (*mat.Dense, error) {
	if err := validateShape(m, n, rng); err != nil {
		return nil, sketchErrorf(opOrthonormal, err)
	}
	tall, short := m, n
	if m < n {
		tall, short = n, m
	}

	data := make([]float64, tall*short)
	for i := range data {
		data[i] = rng.NormFloat64()
	}
	q, r, err := backend.ThinQR(mat.NewDense(tall, short, data))
	if err != nil {
		return nil, sketchErrorf(opOrthonormal, err)
	}
	var i, j int
	for j = 0; j < short; j++ {
		if r.At(j, j) >= 0 {
			continue
		}
		for i = 0; i < tall; i++ {
			q.Set(i, j, -q.At(i, j))
		}
	}
	if m >= n {
		return q, nil
	}

	return mat.DenseCopyOf(q.T()), nil
}
