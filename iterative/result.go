// SPDX-License-Identifier: MIT

package iterative

// Stop records why a solver returned.
type Stop int

const (
	// StopIterLimit means the iteration limit was reached.
	StopIterLimit Stop = iota
	// StopZeroRHS means the starting point already solves the problem
	// (b − A·x0 = 0 or Aᵀ(b − A·x0) = 0).
	StopZeroRHS
	// StopResidual means ‖r‖ met the compatible-system test.
	StopResidual
	// StopNormalEq means ‖Aᵀr‖ met the least-squares test.
	StopNormalEq
	// StopConditionLimit means the condition estimate exceeded conlim.
	StopConditionLimit
)

// String returns a short human-readable reason.
func (s Stop) String() string {
	switch s {
	case StopIterLimit:
		return "iteration limit"
	case StopZeroRHS:
		return "zero residual at start"
	case StopResidual:
		return "residual tolerance"
	case StopNormalEq:
		return "normal-equation tolerance"
	case StopConditionLimit:
		return "condition limit"
	default:
		return "unknown"
	}
}

// Converged reports whether the stop reason is a tolerance being met.
func (s Stop) Converged() bool {
	return s == StopZeroRHS || s == StopResidual || s == StopNormalEq
}

// Result is the outcome of LSQR or CGLS.
type Result struct {
	// X is the computed solution (including the warm start).
	X []float64
	// Iterations is the number of iterations performed.
	Iterations int
	// Stop is the termination reason.
	Stop Stop
	// History holds ‖Aᵀr_k‖ for k = 0..Iterations (LSQR: running estimate).
	History []float64
	// ResidualNorm is the final ‖b − A·x‖ estimate.
	ResidualNorm float64
	// NormEstimate is LSQR's Frobenius-norm estimate of A (0 for CGLS).
	NormEstimate float64
	// CondEstimate is LSQR's condition-number estimate of A (0 for CGLS).
	CondEstimate float64
}
