// SPDX-License-Identifier: MIT

package linop_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/rla/linop"
)

type hide struct{ mat.Matrix }

func TestDense_ApplyAndAdjoint(t *testing.T) {
	t.Parallel()

	a := mat.NewDense(3, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
	})
	for name, in := range map[string]mat.Matrix{"dense": a, "hidden": hide{a}} {
		op := linop.NewDense(in)
		r, c := op.Dims()
		require.Equal(t, 3, r, name)
		require.Equal(t, 2, c, name)

		y := make([]float64, 3)
		op.Apply(y, []float64{1, -1})
		require.Equal(t, []float64{-1, -1, -1}, y, name)

		x := make([]float64, 2)
		op.ApplyT(x, []float64{1, 0, 1})
		require.Equal(t, []float64{6, 8}, x, name)
	}
}

func TestTranspose_SwapsAndRoundTrips(t *testing.T) {
	t.Parallel()

	a := mat.NewDense(2, 3, []float64{
		1, 0, 2,
		0, 1, 3,
	})
	op := linop.NewDense(a)
	tr := linop.Transpose(op)
	r, c := tr.Dims()
	require.Equal(t, 3, r)
	require.Equal(t, 2, c)

	y := make([]float64, 3)
	tr.Apply(y, []float64{1, 1})
	require.Equal(t, []float64{1, 1, 5}, y)

	x := make([]float64, 2)
	tr.ApplyT(x, []float64{1, 1, 1})
	require.Equal(t, []float64{3, 4}, x)

	require.Same(t, op, linop.Transpose(tr))
}
