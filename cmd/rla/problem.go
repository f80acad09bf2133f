// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/rla/lstsq"
	"github.com/katalvlaran/rla/sketch"
	"github.com/katalvlaran/rla/testprob"
)

// seedMix decorrelates the two PCG words derived from one --seed.
const seedMix = 0x9e3779b97f4a7c15

var errBadFlag = errors.New("rla: invalid flag value")

// problemFlags describes a testprob.Simple problem and the sketching setup
// shared by every solving subcommand.
type problemFlags struct {
	m, n, rank int
	kappa      float64
	delta      float64
	tol        float64
	iters      int
	factor     float64
	sketch     string
	seed       uint64
}

func (f *problemFlags) register(cmd *cobra.Command, m, n int) {
	fs := cmd.Flags()
	fs.IntVar(&f.m, "m", m, "number of rows")
	fs.IntVar(&f.n, "n", n, "number of columns")
	fs.IntVar(&f.rank, "rank", 0, "rank of A (0 means n)")
	fs.Float64Var(&f.kappa, "kappa", 1e6, "condition number of A")
	fs.Float64Var(&f.delta, "delta", 0, "regularization δ ≥ 0")
	fs.Float64Var(&f.tol, "tol", 1e-10, "iterative solver tolerance")
	fs.IntVar(&f.iters, "iters", 100, "iteration limit")
	fs.Float64Var(&f.factor, "factor", lstsq.DefaultSamplingFactor, "sampling factor d/n")
	fs.StringVar(&f.sketch, "sketch", "sjlt", fmt.Sprintf("sketch family %v", sketch.Names()))
	fs.Uint64Var(&f.seed, "seed", 0, "random seed")
}

// build draws the problem and returns it with the generator named by
// --sketch and the rng the driver continues from.
func (f *problemFlags) build() (*testprob.Problem, sketch.Generator, *rand.Rand, error) {
	if f.factor <= 0 || math.IsNaN(f.factor) || math.IsInf(f.factor, 0) {
		return nil, nil, nil, fmt.Errorf("--factor=%g: %w", f.factor, errBadFlag)
	}
	if f.kappa < 1 {
		return nil, nil, nil, fmt.Errorf("--kappa=%g: %w", f.kappa, errBadFlag)
	}
	rank := f.rank
	if rank == 0 {
		rank = f.n
	}
	if rank < 0 || rank > f.n {
		return nil, nil, nil, fmt.Errorf("--rank=%d: %w", f.rank, errBadFlag)
	}
	gen, err := sketch.ByName(f.sketch)
	if err != nil {
		return nil, nil, nil, err
	}
	rng := rand.New(rand.NewPCG(f.seed, f.seed^seedMix))
	p, err := testprob.Simple(f.m, f.n, testprob.LinSpectrum(f.kappa, rank), f.delta, rng)
	if err != nil {
		return nil, nil, nil, err
	}

	return p, gen, rng, nil
}

func (f *problemFlags) driverOptions(gen sketch.Generator, extra ...lstsq.Option) []lstsq.Option {
	opts := []lstsq.Option{
		lstsq.WithSketch(gen),
		lstsq.WithSamplingFactor(f.factor),
		lstsq.WithLogging(true),
	}

	return append(opts, extra...)
}
