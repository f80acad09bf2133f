// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/rla/iterative"
	"github.com/katalvlaran/rla/lstsq"
	"github.com/katalvlaran/rla/saddle"
)

// Driver names accepted by --driver.
const (
	driverSSO1     = "sso1"
	driverSPO1     = "spo1"
	driverSPO3     = "spo3"
	driverSPO3Chol = "spo3-chol"
)

func overSolver(name string, opts ...lstsq.Option) (lstsq.OverSolver, error) {
	switch name {
	case driverSSO1:
		return lstsq.NewSSO1(opts...), nil
	case driverSPO1:
		return lstsq.NewSPO1(opts...), nil
	case driverSPO3:
		return lstsq.NewSPO3(lstsq.ModeQR, opts...), nil
	case driverSPO3Chol:
		return lstsq.NewSPO3(lstsq.ModeCholesky, opts...), nil
	}

	return nil, fmt.Errorf("--driver=%q: %w", name, errBadFlag)
}

func saddleSolver(name string) (iterative.SaddleSolver, error) {
	switch name {
	case "pcss2":
		return iterative.PcSS2{}, nil
	case "pcss1":
		return iterative.PcSS1{}, nil
	}

	return nil, fmt.Errorf("--solver=%q: %w", name, errBadFlag)
}

func newSolveCmd() *cobra.Command {
	var (
		pf     problemFlags
		driver string
		solver string
	)
	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Solve min ‖Ax − b‖² + δ‖x‖² with a sketching driver",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			base, gen, rng, err := pf.build()
			if err != nil {
				return err
			}
			p := base.WithoutLinearTerm()
			ss, err := saddleSolver(solver)
			if err != nil {
				return err
			}
			drv, err := overSolver(driver, pf.driverOptions(gen,
				lstsq.WithLogger(slog.Default()), lstsq.WithSaddleSolver(ss))...)
			if err != nil {
				return err
			}
			tol, iters := pf.tol, pf.iters
			if driver == driverSSO1 {
				tol, iters = math.NaN(), 1
			}

			x, log, err := drv.Solve(cmd.Context(), p.A, p.B, pf.delta, tol, iters, rng)
			if err != nil {
				return err
			}
			relX := p.RelErrX(x)
			res, opt := p.ResidualNorm(x), p.ResidualNorm(p.XOpt)
			slog.Info("solved", "driver", driver, "m", pf.m, "n", pf.n, "kappa", pf.kappa,
				"rel_err_x", relX, "residual", res, "optimal_residual", opt, "log", log)

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "driver=%s iterations=%d rel_err_x=%.3e residual=%.6e optimal=%.6e\n",
				driver, log.Iterations, relX, res, opt)

			return err
		},
	}
	pf.register(cmd, 2000, 50)
	cmd.Flags().StringVar(&driver, "driver", driverSPO3, "sso1, spo1, spo3 or spo3-chol")
	cmd.Flags().StringVar(&solver, "solver", "pcss2", "saddle solver for spo1/spo3: pcss2 (LSQR) or pcss1 (CGLS)")

	return cmd
}

func newSaddleCmd() *cobra.Command {
	var (
		pf     problemFlags
		solver string
	)
	cmd := &cobra.Command{
		Use:   "saddle",
		Short: "Solve a regularized saddle-point system with SPS2",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, gen, rng, err := pf.build()
			if err != nil {
				return err
			}
			ss, err := saddleSolver(solver)
			if err != nil {
				return err
			}
			alg := &saddle.SPS2{
				Sketch:         gen,
				SamplingFactor: pf.factor,
				Solver:         ss,
				Logging:        true,
				Logger:         slog.Default(),
			}

			x, y, log, err := alg.Solve(cmd.Context(), p.A, p.B, p.C, pf.delta, pf.tol, pf.iters, rng)
			if err != nil {
				return err
			}
			relX, relY := p.RelErrX(x), p.RelErrY(y)
			normalEq, block := p.NormalEqResidual(x), p.BlockResidual(x, y)
			slog.Info("solved", "driver", "sps2", "solver", solver, "m", pf.m, "n", pf.n,
				"rel_err_x", relX, "rel_err_y", relY, "normal_eq", normalEq, "block", block, "log", log)

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "solver=%s iterations=%d rel_err_x=%.3e rel_err_y=%.3e normal_eq=%.3e block=%.3e\n",
				solver, log.Iterations, relX, relY, normalEq, block)

			return err
		},
	}
	pf.register(cmd, 2000, 50)
	cmd.Flags().StringVar(&solver, "solver", "pcss2", "pcss2 (LSQR) or pcss1 (CGLS)")

	return cmd
}

func newUnderCmd() *cobra.Command {
	var pf problemFlags
	cmd := &cobra.Command{
		Use:   "under",
		Short: "Find the minimum-norm y with Aᵀy = c using SPU1",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, gen, rng, err := pf.build()
			if err != nil {
				return err
			}
			drv := lstsq.NewSPU1(pf.driverOptions(gen, lstsq.WithLogger(slog.Default()))...)

			y, log, err := drv.Solve(cmd.Context(), p.A, p.C, pf.tol, pf.iters, rng)
			if err != nil {
				return err
			}
			rel := constraintResidual(p.A, y, p.C)
			slog.Info("solved", "driver", "spu1", "m", pf.m, "n", pf.n,
				"constraint_residual", rel, "norm_y", floats.Norm(y, 2), "log", log)

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "iterations=%d constraint_residual=%.3e norm_y=%.6e\n",
				log.Iterations, rel, floats.Norm(y, 2))

			return err
		},
	}
	pf.register(cmd, 2000, 50)

	return cmd
}

// constraintResidual returns ‖Aᵀy − c‖ / ‖c‖.
func constraintResidual(a mat.Matrix, y, c []float64) float64 {
	_, n := a.Dims()
	aty := mat.NewVecDense(n, nil)
	aty.MulVec(a.T(), mat.NewVecDense(len(y), y))
	r := aty.RawVector().Data
	floats.Sub(r, c)
	if nc := floats.Norm(c, 2); nc > 0 {
		return floats.Norm(r, 2) / nc
	}

	return floats.Norm(r, 2)
}
