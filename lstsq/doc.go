// SPDX-License-Identifier: MIT

// Package lstsq provides randomized drivers for strongly overdetermined and
// strongly underdetermined least-squares problems.
//
// 🚀 Overdetermined drivers (OverSolver) approximately solve
//
//	min_x ‖A·x − b‖₂² + δ‖x‖₂²,   A is m×n with m ≫ n
//
//	SSO1  sketch-and-solve: x = argmin ‖S·A·x − S·b‖ (+ ridge rows), one
//	      dense least-squares solve on the d×n sketch. Not iterative.
//	SPO1  sketch-and-precondition with the SVD of the sketch (LSRN style).
//	      Rank-deficient A is fine. Optional smart initialization reuses the
//	      SVD for a sketch-and-solve warm start.
//	SPO3  sketch-and-precondition with R from QR of the sketch or from
//	      Cholesky of its Gram matrix (Blendenpik style). Assumes full rank.
//
// ✨ Underdetermined driver (UnderSolver):
//
//	SPU1  y ≈ argmin{‖y‖ : Aᵀy = c} for tall A, via the SVD preconditioner
//	      and a saddle-point solve with b = 0.
//
// Embedding dimension:
//
//	d = ⌊samplingFactor·n⌋, clamped to m with a logged warning. d < n is an
//	error (ErrSamplingFactor).
//
// ⚙️ Configuration:
//
//	drv := lstsq.NewSPO1(
//	    lstsq.WithSketch(sketch.GaussianGenerator),
//	    lstsq.WithSamplingFactor(4),
//	    lstsq.WithSmartInit(true),
//	    lstsq.WithLogging(true),
//	)
//	x, log, err := drv.Solve(ctx, a, b, 0, 1e-12, 100, rng)
//
// Every driver is immutable after construction and safe for concurrent use;
// all randomness comes from the *rand.Rand passed to Solve (nil draws a fresh
// clock-seeded source).
//
// Logging:
//
//	WithLogging(true) fills the phase timings and the normalized error
//	history of the returned *Log; otherwise those fields stay zero. Warnings
//	(ignored parameters, clamped embedding dimension) go to the *slog.Logger
//	set by WithLogger, slog.Default() otherwise.
package lstsq
