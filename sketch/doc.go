// SPDX-License-Identifier: MIT

// Package sketch generates random linear maps S (d×m, d ≪ m) that embed the
// column space of a tall matrix into far fewer rows while roughly preserving
// norms. The least-squares drivers sketch A once, factor the small S·A with
// the dense backend and use the factor as a preconditioner or solve the
// sketched problem directly.
//
// ✨ Operators:
//   - Gaussian     dense, i.i.d. N(0, 1/d) entries. Best embedding quality,
//     O(d·m·n) to apply.
//   - SJLT         sparse Johnson–Lindenstrauss transform, a fixed number of
//     ±1/√k nonzeros per column. O(k·m·n) to apply.
//   - SRHT         subsampled randomized Hadamard transform with internal
//     zero padding to a power of two. O(p·log p·n) to apply.
//   - UniformRows  plain row sampling scaled by √(m/d). Cheapest, only safe
//     for matrices with flat leverage scores.
//
// ⚙️ Usage:
//
//	rng := rand.New(rand.NewPCG(1, 2))
//	gen, _ := sketch.ByName("sjlt")
//	s, err := gen(3*n, m, rng) // d = 3n rows
//	if err != nil { ... }
//	sa, err := s.Apply(a)      // (3n)×n
//
// Determinism:
//
//	An operator is fully determined by the rng state at construction time.
//	Application is column-parallel (errgroup, GOMAXPROCS workers) and every
//	output column is computed by the same sequence of floating-point
//	operations regardless of the worker count.
package sketch
