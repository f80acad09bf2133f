// SPDX-License-Identifier: MIT

package iterative_test

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

func randDense(r, c int, seed uint64) *mat.Dense {
	rng := rand.New(rand.NewPCG(seed, seed+17))
	data := make([]float64, r*c)
	for i := range data {
		data[i] = rng.NormFloat64()
	}

	return mat.NewDense(r, c, data)
}

func randVec(n int, seed uint64) []float64 {
	rng := rand.New(rand.NewPCG(seed, seed+29))
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.NormFloat64()
	}

	return v
}

// normalResidual returns ‖Aᵀ(b − A·x)‖.
func normalResidual(a mat.Matrix, b, x []float64) float64 {
	m, n := a.Dims()
	var r, g mat.VecDense
	r.MulVec(a, mat.NewVecDense(n, x))
	r.SubVec(mat.NewVecDense(m, b), &r)
	g.MulVec(a.T(), &r)

	return mat.Norm(&g, 2)
}

// saddleReference solves (AᵀA + δI)·x = Aᵀb − c directly and returns x and
// y = b − A·x.
func saddleReference(a *mat.Dense, b, c []float64, delta float64) ([]float64, []float64) {
	m, n := a.Dims()
	var g mat.Dense
	g.Mul(a.T(), a)
	for i := 0; i < n; i++ {
		g.Set(i, i, g.At(i, i)+delta)
	}
	var rhs mat.VecDense
	rhs.MulVec(a.T(), mat.NewVecDense(m, b))
	rhs.SubVec(&rhs, mat.NewVecDense(n, c))

	var x mat.VecDense
	if err := x.SolveVec(&g, &rhs); err != nil {
		panic(err)
	}
	var ax mat.VecDense
	ax.MulVec(a, &x)
	y := make([]float64, m)
	floats.SubTo(y, b, ax.RawVector().Data)

	return append([]float64(nil), x.RawVector().Data...), y
}

// eyeTri returns the n×n identity as an upper triangular matrix.
func eyeTri(n int) *mat.TriDense {
	r := mat.NewTriDense(n, mat.Upper, nil)
	for i := 0; i < n; i++ {
		r.SetTri(i, i, 1)
	}

	return r
}
