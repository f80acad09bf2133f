// SPDX-License-Identifier: MIT

// Package rla is a small toolkit of randomized linear algebra for
// overdetermined least squares and related saddle-point systems.
//
// What is in it?
//
//	A sketch compresses a tall m×n matrix A into d×n rows (n ≤ d ≪ m); the
//	small sketch is factored densely and the factor either answers the
//	problem outright or preconditions an iterative solver on A itself:
//		• Sketches: Gaussian, SJLT, SRHT, uniform row sampling
//		• Preconditioners: QR, Cholesky, truncated SVD of [S·A; √δ·I]
//		• Krylov solvers: LSQR and CGLS on preconditioned operators
//		• Drivers: SSO1, SPO1, SPO3, SPU1 and the saddle-point SPS2
//
// Layout:
//
//	backend/   gonum adapter: lifted matrices, thin QR/SVD, Cholesky, triangular solves
//	sketch/    random sketching operators and the name registry
//	linop/     matrix-free operator contract (A·x, Aᵀ·y) and the dense adapter
//	precond/   preconditioned operators [A; √δ·I]·M and [A; √δ·I]·R⁻¹, SVD preconditioner
//	iterative/ LSQR, CGLS and the PcSS1/PcSS2 saddle-point solvers
//	lstsq/     the least-squares drivers, functional options and solve logs
//	saddle/    SPS2
//	testprob/  synthetic problems with a prescribed spectrum and closed-form solutions
//	cmd/rla/   command line front end
//
// Dense kernels come from gonum.org/v1/gonum; randomness is always an
// explicit *rand.Rand from math/rand/v2, so runs are reproducible.
//
//	go get github.com/katalvlaran/rla
package rla
