// SPDX-License-Identifier: MIT

package lstsq_test

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/rla/backend"
	"github.com/katalvlaran/rla/iterative"
	"github.com/katalvlaran/rla/lstsq"
	"github.com/katalvlaran/rla/sketch"
	"github.com/katalvlaran/rla/testprob"
)

func TestEmbeddingDim(t *testing.T) {
	t.Parallel()

	d, err := lstsq.EmbeddingDim(3, 100, 10, nil)
	require.NoError(t, err)
	require.Equal(t, 30, d)

	d, err = lstsq.EmbeddingDim(2.55, 100, 10, nil)
	require.NoError(t, err)
	require.Equal(t, 25, d)

	logger, buf := captureLogger()
	d, err = lstsq.EmbeddingDim(20, 100, 10, logger)
	require.NoError(t, err)
	require.Equal(t, 100, d)
	require.Contains(t, buf.String(), "clamping")

	for _, huge := range []float64{1e6, 1e17, 1e300, math.MaxFloat64} {
		logger, buf = captureLogger()
		d, err = lstsq.EmbeddingDim(huge, 500, 20, logger)
		require.NoError(t, err, huge)
		require.Equal(t, 500, d, huge)
		require.Contains(t, buf.String(), "clamping", huge)
	}

	_, err = lstsq.EmbeddingDim(0.5, 100, 10, nil)
	require.True(t, errors.Is(err, lstsq.ErrSamplingFactor))

	_, err = lstsq.EmbeddingDim(math.NaN(), 100, 10, nil)
	require.True(t, errors.Is(err, lstsq.ErrSamplingFactor))

	_, err = lstsq.EmbeddingDim(3, 5, 10, nil)
	require.True(t, errors.Is(err, lstsq.ErrNotTall))
}

func TestParseMode(t *testing.T) {
	t.Parallel()

	m, err := lstsq.ParseMode("qr")
	require.NoError(t, err)
	require.Equal(t, lstsq.ModeQR, m)

	m, err = lstsq.ParseMode("chol")
	require.NoError(t, err)
	require.Equal(t, lstsq.ModeCholesky, m)
	require.Equal(t, "chol", m.String())

	_, err = lstsq.ParseMode("lu")
	require.True(t, errors.Is(err, lstsq.ErrUnknownMode))
}

func TestOptions_PanicOnNonsense(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() { lstsq.WithSketch(nil) })
	require.Panics(t, func() { lstsq.WithSamplingFactor(0) })
	require.Panics(t, func() { lstsq.WithSamplingFactor(math.Inf(1)) })
	require.Panics(t, func() { lstsq.WithSaddleSolver(nil) })
}

// DriverSuite runs the overdetermined and underdetermined drivers against
// testprob problems with closed-form solutions.
type DriverSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *DriverSuite) SetupSuite() { s.ctx = context.Background() }

func (s *DriverSuite) TestSSO1_ResidualNearOptimal() {
	logger, buf := captureLogger()
	drv := lstsq.NewSSO1(
		lstsq.WithSketch(sketch.GaussianGenerator),
		lstsq.WithSamplingFactor(8),
		lstsq.WithLogger(logger),
		lstsq.WithLogging(true),
	)
	for _, delta := range []float64{0, 1} {
		p := lsProblem(s.T(), 500, 50, 1e4, delta, 1)
		x, log, err := drv.Solve(s.ctx, p.A, p.B, delta, math.NaN(), 1, seeded(2))
		s.Require().NoError(err)
		s.Require().Len(x, 50)
		s.Require().Equal(400, log.EmbeddingDim)
		s.Require().LessOrEqual(p.ResidualNorm(x), 3*p.ResidualNorm(p.XOpt), "δ=%g", delta)
		s.Require().Zero(log.Iterations)
	}
	s.Require().Empty(buf.String())
}

func (s *DriverSuite) TestSSO1_WarnsOnIgnoredParameters() {
	logger, buf := captureLogger()
	drv := lstsq.NewSSO1(lstsq.WithLogger(logger))
	p := lsProblem(s.T(), 200, 10, 10, 0, 3)
	_, log, err := drv.Solve(s.ctx, p.A, p.B, 0, 1e-8, 50, seeded(4))
	s.Require().NoError(err)
	s.Require().Contains(buf.String(), "tol is ignored")
	s.Require().Contains(buf.String(), "iterLim is ignored")
	s.Require().Zero(log.Total())
}

func (s *DriverSuite) TestSPO1_Accurate() {
	drv := lstsq.NewSPO1(
		lstsq.WithSketch(sketch.GaussianGenerator),
		lstsq.WithSamplingFactor(4),
	)
	for _, delta := range []float64{0, 1} {
		p := lsProblem(s.T(), 500, 50, 1e4, delta, 5)
		x, log, err := drv.Solve(s.ctx, p.A, p.B, delta, 1e-12, 200, seeded(6))
		s.Require().NoError(err)
		s.Require().Less(p.RelErrX(x), 1e-6, "δ=%g", delta)
		s.Require().Equal(50, log.Rank)
		s.Require().Greater(log.Iterations, 0)
		s.Require().Nil(log.Errors)
	}
}

func (s *DriverSuite) TestSPO1_AllSketches() {
	p := lsProblem(s.T(), 400, 40, 1e3, 0, 7)
	for _, name := range []string{"gaussian", "sjlt", "srht"} {
		gen, err := sketch.ByName(name)
		s.Require().NoError(err)
		drv := lstsq.NewSPO1(lstsq.WithSketch(gen), lstsq.WithSamplingFactor(4))
		x, _, err := drv.Solve(s.ctx, p.A, p.B, 0, 1e-12, 300, seeded(8))
		s.Require().NoError(err, name)
		s.Require().Less(p.RelErrX(x), 1e-6, name)
	}
}

func (s *DriverSuite) TestSPO1_RankDeficient() {
	base, err := testprob.Simple(300, 30, testprob.LinSpectrum(100, 20), 0, seeded(9))
	s.Require().NoError(err)
	p := base.WithoutLinearTerm()

	drv := lstsq.NewSPO1(lstsq.WithSketch(sketch.GaussianGenerator), lstsq.WithSamplingFactor(4))
	x, log, err := drv.Solve(s.ctx, p.A, p.B, 0, 1e-12, 200, seeded(10))
	s.Require().NoError(err)
	s.Require().Equal(20, log.Rank)
	s.Require().Less(p.NormalEqResidual(x), 1e-8)
	s.Require().Less(p.RelErrX(x), 1e-6)
}

func (s *DriverSuite) TestSPO1_Logging() {
	drv := lstsq.NewSPO1(
		lstsq.WithSketch(sketch.GaussianGenerator),
		lstsq.WithSamplingFactor(4),
		lstsq.WithSmartInit(false),
		lstsq.WithLogging(true),
	)
	p := lsProblem(s.T(), 300, 20, 100, 0, 11)
	_, log, err := drv.Solve(s.ctx, p.A, p.B, 0, 1e-12, 100, seeded(12))
	s.Require().NoError(err)
	s.Require().False(log.WarmStart)
	s.Require().Len(log.Errors, log.Iterations+1)
	s.Require().InDelta(1, log.Errors[0], 1e-10)
	s.Require().Less(log.FinalError(), 1e-6)
	s.Require().Equal(iterative.ErrorMetricLSQR, log.ErrorDesc)
	s.Require().GreaterOrEqual(log.Total(), log.TimeIterate)
	s.Require().Equal(slog.KindGroup, log.LogValue().Kind())
}

func (s *DriverSuite) TestSPO1_SmartInitWarmStarts() {
	drv := lstsq.NewSPO1(lstsq.WithSketch(sketch.GaussianGenerator), lstsq.WithSamplingFactor(6))
	p := lsProblem(s.T(), 300, 20, 100, 0, 13)
	x, log, err := drv.Solve(s.ctx, p.A, p.B, 0, 1e-12, 100, seeded(14))
	s.Require().NoError(err)
	// b is mostly in range(A), so sketch-and-solve beats x = 0
	s.Require().True(log.WarmStart)
	s.Require().Less(p.RelErrX(x), 1e-6)
}

func (s *DriverSuite) TestSPO1_CGLSSolver() {
	drv := lstsq.NewSPO1(
		lstsq.WithSketch(sketch.GaussianGenerator),
		lstsq.WithSamplingFactor(4),
		lstsq.WithSaddleSolver(iterative.PcSS1{}),
		lstsq.WithLogging(true),
	)
	p := lsProblem(s.T(), 300, 20, 100, 0.5, 15)
	x, log, err := drv.Solve(s.ctx, p.A, p.B, 0.5, 1e-12, 200, seeded(16))
	s.Require().NoError(err)
	s.Require().Less(p.RelErrX(x), 1e-6)
	s.Require().Equal(iterative.ErrorMetricCGLS, log.ErrorDesc)
}

func (s *DriverSuite) TestSPO1_Deterministic() {
	drv := lstsq.NewSPO1()
	p := lsProblem(s.T(), 300, 20, 100, 0, 17)
	x1, _, err := drv.Solve(s.ctx, p.A, p.B, 0, 1e-10, 50, seeded(18))
	s.Require().NoError(err)
	x2, _, err := drv.Solve(s.ctx, p.A, p.B, 0, 1e-10, 50, seeded(18))
	s.Require().NoError(err)
	s.Require().Equal(x1, x2)
}

func (s *DriverSuite) TestSPO3_Modes() {
	cases := []struct {
		mode  lstsq.Mode
		kappa float64
	}{
		{lstsq.ModeQR, 1e4},
		{lstsq.ModeCholesky, 1e3},
	}
	for _, tc := range cases {
		drv := lstsq.NewSPO3(tc.mode,
			lstsq.WithSketch(sketch.GaussianGenerator),
			lstsq.WithSamplingFactor(4),
			lstsq.WithLogging(true),
		)
		for _, delta := range []float64{0, 1} {
			p := lsProblem(s.T(), 500, 50, tc.kappa, delta, 19)
			x, log, err := drv.Solve(s.ctx, p.A, p.B, delta, 1e-12, 200, seeded(20))
			s.Require().NoError(err, "%v δ=%g", tc.mode, delta)
			s.Require().Less(p.RelErrX(x), 1e-6, "%v δ=%g", tc.mode, delta)
			s.Require().Len(log.Errors, log.Iterations+1)
		}
	}
}

func (s *DriverSuite) TestSPO3_RankDeficientQR() {
	base, err := testprob.Simple(400, 20, testprob.LinSpectrum(10, 15), 0, seeded(28))
	s.Require().NoError(err)
	p := base.WithoutLinearTerm()

	for _, gen := range []sketch.Generator{sketch.GaussianGenerator, sketch.SJLT(sketch.DefaultSJLTNonzeros)} {
		_, _, err = lstsq.NewSPO3(lstsq.ModeQR, lstsq.WithSketch(gen)).
			Solve(s.ctx, p.A, p.B, 0, 1e-10, 50, seeded(29))
		s.Require().True(errors.Is(err, backend.ErrSingular), err)
	}

	// the lifted sketch [S·A; √δ·I] has full rank
	x, _, err := lstsq.NewSPO3(lstsq.ModeQR, lstsq.WithSketch(sketch.GaussianGenerator)).
		Solve(s.ctx, p.A, p.B, 1, 1e-12, 200, seeded(30))
	s.Require().NoError(err)
	s.Require().Len(x, 20)
}

func (s *DriverSuite) TestSPO3_UnknownMode() {
	p := lsProblem(s.T(), 100, 5, 10, 0, 21)
	_, _, err := lstsq.NewSPO3(lstsq.Mode(7)).Solve(s.ctx, p.A, p.B, 0, 1e-8, 10, seeded(22))
	s.Require().True(errors.Is(err, lstsq.ErrUnknownMode))
}

func (s *DriverSuite) TestSPU1_MinNormSolution() {
	p, err := testprob.Simple(300, 20, testprob.LinSpectrum(100, 20), 0, seeded(23))
	s.Require().NoError(err)
	want, err := backend.Lstsq(p.A.T(), p.C)
	s.Require().NoError(err)

	drv := lstsq.NewSPU1(lstsq.WithSketch(sketch.GaussianGenerator), lstsq.WithSamplingFactor(4),
		lstsq.WithLogging(true))
	y, log, err := drv.Solve(s.ctx, p.A, p.C, 1e-12, 200, seeded(24))
	s.Require().NoError(err)
	s.Require().InDeltaSlice(want, y, 1e-6)
	s.Require().Equal(lstsq.ErrorMetricUnder, log.ErrorDesc)
	s.Require().Len(log.Errors, log.Iterations+1)
	s.Require().InDelta(1, log.Errors[0], 1e-10)

	var aty mat.VecDense
	aty.MulVec(p.A.T(), mat.NewVecDense(300, y))
	s.Require().InDeltaSlice(p.C, aty.RawVector().Data, 1e-6)
}

func (s *DriverSuite) TestSPU1_RespectsIterationLimit() {
	p, err := testprob.Simple(300, 20, testprob.LinSpectrum(100, 20), 0, seeded(26))
	s.Require().NoError(err)
	drv := lstsq.NewSPU1(lstsq.WithSketch(sketch.GaussianGenerator), lstsq.WithSamplingFactor(4),
		lstsq.WithLogging(true))
	for _, lim := range []int{1, 5} {
		y, log, err := drv.Solve(s.ctx, p.A, p.C, 1e-12, lim, seeded(27))
		s.Require().NoError(err)
		s.Require().Len(y, 300)
		s.Require().LessOrEqual(log.Iterations, lim)
		s.Require().Len(log.Errors, log.Iterations+1)
	}
}

func (s *DriverSuite) TestErrors() {
	p := lsProblem(s.T(), 60, 5, 10, 0, 25)
	wide := mat.NewDense(3, 5, nil)
	over := []lstsq.OverSolver{lstsq.NewSSO1(), lstsq.NewSPO1(), lstsq.NewSPO3(lstsq.ModeQR)}
	for _, drv := range over {
		_, _, err := drv.Solve(s.ctx, nil, p.B, 0, 1e-8, 10, nil)
		s.Require().True(errors.Is(err, lstsq.ErrNilMatrix))

		_, _, err = drv.Solve(s.ctx, wide, make([]float64, 3), 0, 1e-8, 10, nil)
		s.Require().True(errors.Is(err, lstsq.ErrNotTall))

		_, _, err = drv.Solve(s.ctx, p.A, p.B[:10], 0, 1e-8, 10, nil)
		s.Require().True(errors.Is(err, lstsq.ErrDimensionMismatch))

		_, _, err = drv.Solve(s.ctx, p.A, p.B, -1, 1e-8, 10, nil)
		s.Require().True(errors.Is(err, lstsq.ErrNegativeDelta))

		_, _, err = drv.Solve(s.ctx, p.A, p.B, 0, 1e-8, 0, nil)
		s.Require().True(errors.Is(err, lstsq.ErrIterLimit))
	}

	_, _, err := lstsq.NewSPO1().Solve(s.ctx, p.A, p.B, 0, -1, 10, nil)
	s.Require().True(errors.Is(err, lstsq.ErrTolerance))

	_, _, err = lstsq.NewSPO1(lstsq.WithSamplingFactor(0.5)).Solve(s.ctx, p.A, p.B, 0, 1e-8, 10, nil)
	s.Require().True(errors.Is(err, lstsq.ErrSamplingFactor))

	_, _, err = lstsq.NewSPU1().Solve(s.ctx, p.A, p.B, 1e-8, 10, nil)
	s.Require().True(errors.Is(err, lstsq.ErrDimensionMismatch))

	_, _, err = lstsq.NewSPO1().Solve(s.ctx, mat.NewDense(20, 3, nil), make([]float64, 20), 0, 1e-8, 10, nil)
	s.Require().Error(err)
}

func (s *DriverSuite) TestCanceled() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	p := lsProblem(s.T(), 100, 5, 10, 0, 26)

	_, _, err := lstsq.NewSPO1().Solve(ctx, p.A, p.B, 0, 1e-8, 10, seeded(27))
	s.Require().True(errors.Is(err, context.Canceled))

	_, _, err = lstsq.NewSSO1().Solve(ctx, p.A, p.B, 0, math.NaN(), 1, seeded(28))
	s.Require().True(errors.Is(err, context.Canceled))
}

func TestDriverSuite(t *testing.T) {
	suite.Run(t, new(DriverSuite))
}
