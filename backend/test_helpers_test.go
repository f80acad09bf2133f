// SPDX-License-Identifier: MIT
// Package backend_test contains test helpers
//
// Purpose:
//   • Small deterministic fixtures for the adapter kernels.
//   • hide{} masks *mat.Dense so kernels take their generic fallback path.

package backend_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// tol is the comparison tolerance for well-conditioned fixtures.
const tol = 1e-10

// hide wraps any mat.Matrix to hide its concrete type from type assertions.
// Transposes of a hidden matrix stay hidden.
type hide struct{ mat.Matrix }

func (h hide) T() mat.Matrix { return hide{h.Matrix.T()} }

// randDense fills an r×c matrix with U(-1,1) entries from a fixed seed.
func randDense(t *testing.T, r, c int, seed uint64) *mat.Dense {
	t.Helper()
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	data := make([]float64, r*c)
	for i := range data {
		data[i] = 2*rng.Float64() - 1
	}

	return mat.NewDense(r, c, data)
}

// requireMatClose fails unless a and b agree elementwise within eps.
func requireMatClose(t *testing.T, want, got mat.Matrix, eps float64) {
	t.Helper()
	wr, wc := want.Dims()
	gr, gc := got.Dims()
	require.Equal(t, wr, gr, "rows")
	require.Equal(t, wc, gc, "cols")
	require.True(t, mat.EqualApprox(want, got, eps), "want\n%v\ngot\n%v",
		mat.Formatted(want), mat.Formatted(got))
}
