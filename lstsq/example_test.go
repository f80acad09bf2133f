// SPDX-License-Identifier: MIT

package lstsq_test

import (
	"context"
	"fmt"
	"math/rand/v2"

	"github.com/katalvlaran/rla/lstsq"
	"github.com/katalvlaran/rla/sketch"
	"github.com/katalvlaran/rla/testprob"
)

// ExampleSPO1 solves an ill-conditioned 1000×50 problem with an SVD
// preconditioner from a Gaussian sketch.
func ExampleSPO1() {
	rng := rand.New(rand.NewPCG(1, 2))
	base, err := testprob.Simple(1000, 50, testprob.LinSpectrum(1e6, 50), 0, rng)
	if err != nil {
		panic(err)
	}
	p := base.WithoutLinearTerm()

	drv := lstsq.NewSPO1(
		lstsq.WithSketch(sketch.GaussianGenerator),
		lstsq.WithSamplingFactor(4),
		lstsq.WithLogging(true),
	)
	x, log, err := drv.Solve(context.Background(), p.A, p.B, 0, 1e-12, 100, rng)
	if err != nil {
		panic(err)
	}

	fmt.Println("embedding dim:", log.EmbeddingDim)
	fmt.Println("rank:", log.Rank)
	fmt.Println("accurate:", p.RelErrX(x) < 1e-6)
	// Output:
	// embedding dim: 200
	// rank: 50
	// accurate: true
}

// ExampleEmbeddingDim shows the sampling-factor rule d = ⌊f·n⌋.
func ExampleEmbeddingDim() {
	d, _ := lstsq.EmbeddingDim(3.5, 1000, 20, nil)
	fmt.Println(d)
	// Output: 70
}
