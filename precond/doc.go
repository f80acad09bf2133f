// SPDX-License-Identifier: MIT

// Package precond builds right-preconditioned operators for ridge-regularized
// least squares. Given a tall m×n matrix A, δ ≥ 0 and a preconditioner M
// (either a general n×k matrix or the inverse of an upper triangular R), the
// operator
//
//	A_pc = [A; √δ·I] · M
//
// is applied matrix-free: the lifted block is never materialized and R⁻¹ is
// applied through triangular solves. When M comes from a factorization of a
// good sketch of [A; √δ·I], A_pc has a condition number close to 1 and LSQR
// converges in a few dozen iterations regardless of the conditioning of A.
//
// SVDRight derives M = V_r·Σ_r⁻¹ from the thin SVD of a sketch, dropping
// numerically zero singular values, which also handles rank-deficient A.
//
// Preconditioned values keep one scratch vector and are not safe for
// concurrent use.
package precond
