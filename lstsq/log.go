// SPDX-License-Identifier: MIT

package lstsq

import (
	"log/slog"
	"time"
)

// Log records what a driver did. Timings and Errors are populated only when
// the driver was built WithLogging(true).
type Log struct {
	TimeSketch   time.Duration
	TimeFactor   time.Duration
	TimePresolve time.Duration
	TimeIterate  time.Duration
	TimeSolve    time.Duration // SSO1 only

	EmbeddingDim int
	Rank         int  // numerical rank of the preconditioner (SVD drivers)
	WarmStart    bool // the iterative phase started from the presolve
	Iterations   int

	// Errors is the iterative solver's error history divided by ‖(A·M)ᵀb‖.
	Errors    []float64
	ErrorDesc string
}

// Total sums the phase timings.
func (l *Log) Total() time.Duration {
	return l.TimeSketch + l.TimeFactor + l.TimePresolve + l.TimeIterate + l.TimeSolve
}

// FinalError returns the last entry of Errors, or 0 when empty.
func (l *Log) FinalError() float64 {
	if len(l.Errors) == 0 {
		return 0
	}

	return l.Errors[len(l.Errors)-1]
}

// LogValue implements slog.LogValuer.
func (l *Log) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int("d", l.EmbeddingDim),
		slog.Int("iterations", l.Iterations),
		slog.Bool("warm_start", l.WarmStart),
		slog.Duration("total", l.Total()),
	}
	if l.Rank > 0 {
		attrs = append(attrs, slog.Int("rank", l.Rank))
	}
	if len(l.Errors) > 0 {
		attrs = append(attrs, slog.Float64("final_error", l.FinalError()))
	}

	return slog.GroupValue(attrs...)
}

// WrapUp stores history/norm0 in Errors, leaving Errors unnormalized when
// norm0 is 0.
func (l *Log) WrapUp(history []float64, norm0 float64) {
	l.Errors = make([]float64, len(history))
	copy(l.Errors, history)
	if norm0 > 0 {
		for i := range l.Errors {
			l.Errors[i] /= norm0
		}
	}
}

// Stopwatch times driver phases; a false Stopwatch yields zero durations.
type Stopwatch bool

// Start returns the current time, or the zero time when disabled.
func (s Stopwatch) Start() time.Time {
	if !s {
		return time.Time{}
	}

	return time.Now()
}

// Lap returns the time elapsed since t0, or 0 when disabled.
func (s Stopwatch) Lap(t0 time.Time) time.Duration {
	if !s {
		return 0
	}

	return time.Since(t0)
}
