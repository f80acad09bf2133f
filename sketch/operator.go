// SPDX-License-Identifier: MIT

package sketch

import (
	"fmt"
	"math/rand/v2"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// DefaultSJLTNonzeros is the number of nonzeros per column used by the "sjlt"
// registry entry.
const DefaultSJLTNonzeros = 8

// parallelMinWork is the estimated flop count below which Apply stays on the
// calling goroutine.
const parallelMinWork = 1 << 16

// panicSJLTNonzeros is raised by SJLT for a non-positive nonzero count.
const panicSJLTNonzeros = "sketch: SJLT: nnz must be > 0"

// Operator is a d×m random linear map.
type Operator interface {
	// Dims returns (d, m): the embedding dimension and the input dimension.
	Dims() (d, m int)

	// Apply returns S·A for an m×n matrix A as a new d×n matrix.
	Apply(a mat.Matrix) (*mat.Dense, error)

	// ApplyVec returns S·b for a length-m vector b.
	ApplyVec(b []float64) ([]float64, error)
}

// Generator draws a d×m Operator from rng.
type Generator func(d, m int, rng *rand.Rand) (Operator, error)

// GaussianGenerator draws Gaussian operators.
func GaussianGenerator(d, m int, rng *rand.Rand) (Operator, error) {
	s, err := NewGaussian(d, m, rng)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// SRHTGenerator draws subsampled randomized Hadamard operators.
func SRHTGenerator(d, m int, rng *rand.Rand) (Operator, error) {
	s, err := NewSRHT(d, m, rng)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// UniformRowsGenerator draws uniform row-sampling operators.
func UniformRowsGenerator(d, m int, rng *rand.Rand) (Operator, error) {
	s, err := NewUniformRows(d, m, rng)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// SJLT returns a Generator of sparse JL transforms with nnz nonzeros per
// column. Panics if nnz <= 0 (programmer error).
func SJLT(nnz int) Generator {
	if nnz <= 0 {
		panic(panicSJLTNonzeros)
	}

	return func(d, m int, rng *rand.Rand) (Operator, error) {
		s, err := NewSJLT(d, m, rng, nnz)
		if err != nil {
			return nil, err
		}

		return s, nil
	}
}

// registry maps CLI/config names to generators.
var registry = map[string]Generator{
	"gaussian": GaussianGenerator,
	"sjlt":     SJLT(DefaultSJLTNonzeros),
	"srht":     SRHTGenerator,
	"rows":     UniformRowsGenerator,
}

// ByName returns the registered Generator for name.
func ByName(name string) (Generator, error) {
	g, ok := registry[name]
	if !ok {
		return nil, sketchErrorf(opByName, fmt.Errorf("%q: %w", name, ErrUnknownSketch))
	}

	return g, nil
}

// Names returns the registered operator names in lexical order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)

	return out
}

// validateShape checks d, m > 0 and a non-nil rng.
func validateShape(d, m int, rng *rand.Rand) error {
	if d <= 0 || m <= 0 {
		return fmt.Errorf("d=%d m=%d: %w", d, m, ErrBadShape)
	}
	if rng == nil {
		return ErrNilRand
	}

	return nil
}

// rawOperand validates a against the operator width m and returns a
// row-major view. *mat.Dense shares storage; other matrices are copied once.
func rawOperand(a mat.Matrix, m int) (blas64.General, error) {
	if a == nil {
		return blas64.General{}, ErrNilMatrix
	}
	if r, _ := a.Dims(); r != m {
		return blas64.General{}, fmt.Errorf("rows=%d, want %d: %w", r, m, ErrDimensionMismatch)
	}
	if d, ok := a.(*mat.Dense); ok {
		return d.RawMatrix(), nil
	}

	return mat.DenseCopyOf(a).RawMatrix(), nil
}

// validateVec checks len(b) == m.
func validateVec(b []float64, m int) error {
	if b == nil || len(b) != m {
		return fmt.Errorf("len(b)=%d, want %d: %w", len(b), m, ErrDimensionMismatch)
	}

	return nil
}

// forColumnBlocks calls fn over disjoint column ranges [j0, j1) covering
// [0, n). Work is split across GOMAXPROCS goroutines when work (an estimate
// of total flops) is large enough; fn must only write its own columns.
func forColumnBlocks(n, work int, fn func(j0, j1 int)) {
	workers := runtime.GOMAXPROCS(0)
	if workers > n {
		workers = n
	}
	if workers <= 1 || work < parallelMinWork {
		fn(0, n)
		return
	}

	var g errgroup.Group
	g.SetLimit(workers)
	step := (n + workers - 1) / workers
	for j0 := 0; j0 < n; j0 += step {
		j1 := min(j0+step, n)
		g.Go(func() error {
			fn(j0, j1)
			return nil
		})
	}
	_ = g.Wait() // fn never fails
}
