// SPDX-License-Identifier: MIT

// Package iterative: functional configuration of the Krylov solvers.
// Option constructors panic on nonsensical values (programmer error);
// public entry points resolve ...Option through gatherOptions.
package iterative

import "math"

// Defaults (single source of truth).
const (
	// DefaultTol is used for both atol and btol.
	DefaultTol = 1e-8

	// DefaultIterLim bounds the number of iterations.
	DefaultIterLim = 100

	// DefaultConLim stops LSQR once the condition estimate reaches it.
	DefaultConLim = 1e8
)

const (
	panicTolInvalid     = "iterative: WithTol: tol must be finite and non-negative"
	panicIterLimInvalid = "iterative: WithIterLim: limit must be > 0"
	panicConLimInvalid  = "iterative: WithConLim: limit must be > 0 (+Inf disables)"
)

// Option mutates Options.
type Option func(*Options)

// Options is the resolved solver configuration.
type Options struct {
	tol      float64 // >= 0
	iterLim  int     // > 0
	conLim   float64 // > 0, +Inf disables test3
	dualOnly bool    // saddle solvers: skip x when b = 0
}

// WithTol sets atol = btol = tol. Panics if tol is negative or not finite.
func WithTol(tol float64) Option {
	if math.IsNaN(tol) || math.IsInf(tol, 0) || tol < 0 {
		panic(panicTolInvalid)
	}

	return func(o *Options) { o.tol = tol }
}

// WithIterLim sets the iteration limit. Panics if n <= 0.
func WithIterLim(n int) Option {
	if n <= 0 {
		panic(panicIterLimInvalid)
	}

	return func(o *Options) { o.iterLim = n }
}

// WithConLim sets LSQR's condition-number limit. Panics unless c > 0;
// math.Inf(1) disables the test.
func WithConLim(c float64) Option {
	if math.IsNaN(c) || c <= 0 {
		panic(panicConLimInvalid)
	}

	return func(o *Options) { o.conLim = c }
}

// WithDualOnly lets a SaddleSolver with b = 0 return y from the solve that
// absorbs c and skip the solve for x; SaddleResult.X and Z stay nil.
// Ignored when b ≠ 0.
func WithDualOnly(on bool) Option {
	return func(o *Options) { o.dualOnly = on }
}

// gatherOptions applies opts over the defaults.
func gatherOptions(opts ...Option) Options {
	o := Options{
		tol:     DefaultTol,
		iterLim: DefaultIterLim,
		conLim:  DefaultConLim,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}
