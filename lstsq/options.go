// SPDX-License-Identifier: MIT

// Package lstsq: functional configuration shared by all drivers.
// Option constructors panic on nonsensical values (programmer error);
// everything that depends on the problem (d vs n, δ, tol) is checked in
// Solve and reported as an error.
package lstsq

import (
	"log/slog"
	"math"

	"github.com/katalvlaran/rla/iterative"
	"github.com/katalvlaran/rla/sketch"
)

// DefaultSamplingFactor is the embedding dimension multiplier d/n.
const DefaultSamplingFactor = 3.0

const (
	panicNilSketch      = "lstsq: WithSketch: generator must be non-nil"
	panicSamplingFactor = "lstsq: WithSamplingFactor: factor must be finite and > 0"
	panicNilSolver      = "lstsq: WithSaddleSolver: solver must be non-nil"
)

// Option mutates Options.
type Option func(*Options)

// Options is the resolved driver configuration.
type Options struct {
	logging        bool
	logger         *slog.Logger
	sketch         sketch.Generator
	samplingFactor float64
	smartInit      bool
	solver         iterative.SaddleSolver
}

// WithLogging enables phase timings and error histories in the returned Log.
func WithLogging(on bool) Option {
	return func(o *Options) { o.logging = on }
}

// WithLogger routes warnings to l. A nil l restores slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) { o.logger = l }
}

// WithSketch selects the sketching distribution. Panics on nil.
func WithSketch(gen sketch.Generator) Option {
	if gen == nil {
		panic(panicNilSketch)
	}

	return func(o *Options) { o.sketch = gen }
}

// WithSamplingFactor sets d = ⌊f·n⌋. Panics unless f is finite and > 0.
func WithSamplingFactor(f float64) Option {
	if math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		panic(panicSamplingFactor)
	}

	return func(o *Options) { o.samplingFactor = f }
}

// WithSmartInit makes SPO1 try the sketch-and-solve warm start. Other
// drivers ignore it (SPO3 always presolves).
func WithSmartInit(on bool) Option {
	return func(o *Options) { o.smartInit = on }
}

// WithSaddleSolver replaces the iterative phase (default iterative.PcSS2).
// Panics on nil.
func WithSaddleSolver(s iterative.SaddleSolver) Option {
	if s == nil {
		panic(panicNilSolver)
	}

	return func(o *Options) { o.solver = s }
}

// gatherOptions applies opts over the defaults: SJLT sketch, sampling
// factor 3, PcSS2, no logging, smart init on.
func gatherOptions(opts ...Option) Options {
	o := Options{
		sketch:         sketch.SJLT(sketch.DefaultSJLTNonzeros),
		samplingFactor: DefaultSamplingFactor,
		smartInit:      true,
		solver:         iterative.PcSS2{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}

	return o
}
