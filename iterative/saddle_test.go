// SPDX-License-Identifier: MIT

package iterative_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/rla/backend"
	"github.com/katalvlaran/rla/iterative"
	"github.com/katalvlaran/rla/precond"
)

// SaddleSuite checks both saddle-point solvers against a direct solve of the
// regularized normal equations.
type SaddleSuite struct {
	suite.Suite
	a    *mat.Dense
	b, c []float64
}

func (s *SaddleSuite) SetupTest() {
	s.a = randDense(40, 6, 21)
	s.b = randVec(40, 22)
	s.c = randVec(6, 23)
}

func (s *SaddleSuite) solvers() map[string]iterative.SaddleSolver {
	return map[string]iterative.SaddleSolver{
		"PcSS2": iterative.PcSS2{},
		"PcSS1": iterative.PcSS1{},
	}
}

// preconditioners builds an exact QR preconditioner, an SVD preconditioner
// and the identity for the lifted A.
func (s *SaddleSuite) preconditioners(delta float64) map[string]iterative.Preconditioner {
	lift, err := backend.Lift(s.a, math.Sqrt(delta))
	s.Require().NoError(err)
	_, r, err := backend.ThinQR(lift)
	s.Require().NoError(err)
	f, err := precond.SVDRight(lift)
	s.Require().NoError(err)

	return map[string]iterative.Preconditioner{
		"qr":       {R: r},
		"svd":      {M: f.M},
		"identity": {R: eyeTri(6)},
	}
}

func (s *SaddleSuite) TestMatchesDirectSolve() {
	for _, delta := range []float64{0, 1} {
		wantX, wantY := saddleReference(s.a, s.b, s.c, delta)
		for pname, pc := range s.preconditioners(delta) {
			for sname, solver := range s.solvers() {
				res, err := solver.Solve(context.Background(), s.a, s.b, s.c, delta, pc, nil,
					iterative.WithTol(1e-13), iterative.WithIterLim(300))
				s.Require().NoError(err, "%s/%s δ=%g", sname, pname, delta)
				s.Require().InDeltaSlice(wantX, res.X, 1e-8, "%s/%s δ=%g x", sname, pname, delta)
				s.Require().InDeltaSlice(wantY, res.Y, 1e-8, "%s/%s δ=%g y", sname, pname, delta)
				s.Require().Greater(res.ShiftIterations, 0)
			}
		}
	}
}

func (s *SaddleSuite) TestExactPreconditionerConvergesFast() {
	pc := s.preconditioners(0)["qr"]
	res, err := iterative.PcSS2{}.Solve(context.Background(), s.a, s.b, nil, 0, pc, nil,
		iterative.WithTol(1e-12))
	s.Require().NoError(err)
	s.Require().LessOrEqual(res.Iterations, 3)
	s.Require().Zero(res.ShiftIterations)
	s.Require().Greater(res.RHSNorm, 0.0)
	s.Require().InDelta(res.History[0], res.RHSNorm, 1e-10)
}

func (s *SaddleSuite) TestNilRHSIsZero() {
	// b = 0: y = −A·x with x = −(AᵀA)⁻¹c, i.e. y = pinv(Aᵀ)·c
	want, err := backend.Lstsq(s.a.T(), s.c)
	s.Require().NoError(err)
	pc := s.preconditioners(0)["svd"]
	res, err := iterative.PcSS2{}.Solve(context.Background(), s.a, nil, s.c, 0, pc, nil,
		iterative.WithTol(1e-13))
	s.Require().NoError(err)
	s.Require().InDeltaSlice(want, res.Y, 1e-8)
}

func (s *SaddleSuite) TestIterationBudgetIsShared() {
	for _, lim := range []int{3, 8, 300} {
		for _, delta := range []float64{0, 1} {
			pc := s.preconditioners(delta)["identity"]
			for sname, solver := range s.solvers() {
				res, err := solver.Solve(context.Background(), s.a, s.b, s.c, delta, pc, nil,
					iterative.WithTol(1e-13), iterative.WithIterLim(lim))
				s.Require().NoError(err, "%s lim=%d", sname, lim)
				s.Require().LessOrEqual(res.TotalIterations(), lim, "%s lim=%d", sname, lim)
				s.Require().Greater(res.ShiftIterations, 0)
				s.Require().NotEmpty(res.History)
				s.Require().Len(res.X, 6)
				s.Require().Len(res.Y, 40)
			}
		}
	}
}

func (s *SaddleSuite) TestDualOnlySkipsPrimalSolve() {
	want, err := backend.Lstsq(s.a.T(), s.c)
	s.Require().NoError(err)
	pc := s.preconditioners(0)["svd"]
	for sname, solver := range s.solvers() {
		res, err := solver.Solve(context.Background(), s.a, nil, s.c, 0, pc, nil,
			iterative.WithTol(1e-13), iterative.WithDualOnly(true))
		s.Require().NoError(err, sname)
		s.Require().Nil(res.X, sname)
		s.Require().Nil(res.Z, sname)
		s.Require().Zero(res.Iterations, sname)
		s.Require().Equal(res.ShiftIterations, res.TotalIterations(), sname)
		s.Require().Len(res.History, res.ShiftIterations+1, sname)
		s.Require().InDelta(res.History[0], res.RHSNorm, 1e-10*res.RHSNorm, sname)
		s.Require().InDeltaSlice(want, res.Y, 1e-8, sname)
	}
}

func (s *SaddleSuite) TestWarmStartInPreconditionedCoordinates() {
	pc := s.preconditioners(1)["identity"]
	first, err := iterative.PcSS2{}.Solve(context.Background(), s.a, s.b, s.c, 1, pc, nil,
		iterative.WithTol(1e-13), iterative.WithIterLim(300))
	s.Require().NoError(err)

	again, err := iterative.PcSS2{}.Solve(context.Background(), s.a, s.b, s.c, 1, pc, first.Z,
		iterative.WithTol(1e-10))
	s.Require().NoError(err)
	s.Require().LessOrEqual(again.Iterations, first.Iterations)
	s.Require().InDeltaSlice(first.X, again.X, 1e-8)
}

func (s *SaddleSuite) TestErrors() {
	ctx := context.Background()
	pc := s.preconditioners(0)["qr"]
	solver := iterative.PcSS2{}

	_, err := solver.Solve(ctx, nil, s.b, s.c, 0, pc, nil)
	s.Require().True(errors.Is(err, iterative.ErrNilOperator))

	_, err = solver.Solve(ctx, s.a, s.b[:5], s.c, 0, pc, nil)
	s.Require().True(errors.Is(err, iterative.ErrDimensionMismatch))

	_, err = solver.Solve(ctx, s.a, s.b, s.c[:2], 0, pc, nil)
	s.Require().True(errors.Is(err, iterative.ErrDimensionMismatch))

	_, err = solver.Solve(ctx, s.a, s.b, s.c, 0, iterative.Preconditioner{}, nil)
	s.Require().True(errors.Is(err, iterative.ErrPreconditioner))

	_, err = solver.Solve(ctx, s.a, s.b, s.c, -1, pc, nil)
	s.Require().True(errors.Is(err, precond.ErrNegativeDelta))
}

func (s *SaddleSuite) TestErrorMetricDescriptions() {
	s.Require().NotEqual(iterative.PcSS1{}.ErrorMetric(), iterative.PcSS2{}.ErrorMetric())
	s.Require().Contains(iterative.PcSS2{}.ErrorMetric(), "LSQR")
}

func TestSaddleSuite(t *testing.T) {
	suite.Run(t, new(SaddleSuite))
}

func TestPcSS2_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a := randDense(20, 3, 24)
	_, err := iterative.PcSS2{}.Solve(ctx, a, randVec(20, 25), nil, 0,
		iterative.Preconditioner{R: eyeTri(3)}, nil)
	require.True(t, errors.Is(err, context.Canceled))
}
