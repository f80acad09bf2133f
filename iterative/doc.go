// SPDX-License-Identifier: MIT

// Package iterative implements the deterministic Krylov solvers that finish
// every sketch-and-precondition driver.
//
// 🚀 Solvers:
//
//	LSQR: Paige & Saunders' bidiagonalization method for min ‖A·x − b‖.
//	        Stopping rules follow Paige & Saunders (and SciPy):
//	          test1  ‖r‖ ≤ btol·‖b‖ + atol·‖A‖·‖x‖       (compatible systems)
//	          test2  ‖Aᵀr‖ ≤ atol·‖A‖·‖r‖               (least squares)
//	          test3  cond(A) ≥ conlim
//	        with atol = btol = tol.
//	CGLS: conjugate gradients on AᵀA·x = Aᵀb, stopping when ‖Aᵀr‖ or ‖r‖
//	        drops below tol relative to its starting value.
//
// Both accept a warm start x0 and return a Result with the per-iteration
// history of ‖Aᵀr_k‖ (estimated by LSQR, exact for CGLS).
//
// ✨ Saddle-point solvers:
//
//	PcSS2 (LSQR) and PcSS1 (CGLS) solve
//
//	  min_x ‖A·x − b‖² + δ‖x‖² + 2cᵀx,   y = b − A·x
//
//	given a right preconditioner from package precond, i.e. they iterate on
//	A_pc = [A; √δ·I]·M in preconditioned coordinates z (x = M·z). A nonzero
//	c is absorbed by shifting the right-hand side with the minimum-norm
//	solution of A_pcᵀ·u = Mᵀ·c.
//
// ⚙️ Usage:
//
//	res, err := iterative.LSQR(ctx, linop.NewDense(a), b, nil,
//	    iterative.WithTol(1e-10), iterative.WithIterLim(200))
//
// Cancellation:
//
//	ctx is checked before every iteration; on cancellation the solvers return
//	ctx.Err().
package iterative
