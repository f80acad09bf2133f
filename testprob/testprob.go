// SPDX-License-Identifier: MIT

// Package testprob builds reproducible least-squares and saddle-point
// problems with a prescribed spectrum and known solution.
//
// A Problem pairs A = U·diag(σ)·Vᵀ with b, c, δ and the exact solution of
//
//	[ I   A   ] [y]   [b]
//	[ Aᵀ  −δI ] [x] = [c]
//
// computed in closed form from the factors, so the reference stays accurate
// even when cond(A) is large.
package testprob

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/rla/sketch"
)

var (
	// ErrBadShape indicates m, n or the spectrum length out of range.
	ErrBadShape = errors.New("testprob: bad problem shape")
	// ErrBadSpectrum indicates a non-positive or non-finite singular value.
	ErrBadSpectrum = errors.New("testprob: spectrum must be positive and finite")
	// ErrNegativeDelta indicates δ < 0 or not finite.
	ErrNegativeDelta = errors.New("testprob: delta must be finite and non-negative")
)

// RangeShare is the weight of b's component in range(A); the remainder lies
// in the orthogonal complement.
const RangeShare = 0.7

// Problem is a generated instance with its exact solution.
type Problem struct {
	A     *mat.Dense
	B     []float64
	C     []float64
	Delta float64

	// XOpt solves (AᵀA + δI)·x = Aᵀb − c; YOpt = b − A·XOpt.
	XOpt []float64
	YOpt []float64

	u     *mat.Dense // m×r
	sigma []float64  // r
	vt    *mat.Dense // r×n
}

// LinSpectrum returns n values evenly spaced from √κ down to 1/√κ, so the
// ratio of the extremes is κ.
func LinSpectrum(kappa float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	hi := math.Sqrt(kappa)
	if n == 1 {
		return []float64{hi}
	}

	return floats.Span(make([]float64, n), hi, 1/hi)
}

// Simple builds A = U·diag(spectrum)·Vᵀ with random orthonormal U (m×r) and
// Vᵀ (r×n), r = len(spectrum) ≤ min(m, n).
//
// b = RangeShare·b_range + (1−RangeShare)·b_orth, where both parts of a
// Gaussian vector are rescaled to norm mean(spectrum); c ~ N(0, I).
// A nil rng is replaced by one seeded from the clock.
//
// Errors:
//   - ErrBadShape, ErrBadSpectrum, ErrNegativeDelta.
func Simple(m, n int, spectrum []float64, delta float64, rng *rand.Rand) (*Problem, error) {
	r := len(spectrum)
	if m <= 0 || n <= 0 || r == 0 || r > min(m, n) {
		return nil, fmt.Errorf("m=%d n=%d rank=%d: %w", m, n, r, ErrBadShape)
	}
	for _, s := range spectrum {
		if !(s > 0) || math.IsInf(s, 0) {
			return nil, fmt.Errorf("σ=%g: %w", s, ErrBadSpectrum)
		}
	}
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta < 0 {
		return nil, fmt.Errorf("delta=%g: %w", delta, ErrNegativeDelta)
	}
	rng = sketch.EnsureRand(rng)

	u, err := sketch.Orthonormal(m, r, rng)
	if err != nil {
		return nil, err
	}
	vt, err := sketch.Orthonormal(r, n, rng)
	if err != nil {
		return nil, err
	}

	us := mat.DenseCopyOf(u)
	var i, j int
	for j = 0; j < r; j++ {
		for i = 0; i < m; i++ {
			us.Set(i, j, us.At(i, j)*spectrum[j])
		}
	}
	a := mat.NewDense(m, n, nil)
	a.Mul(us, vt)

	b0 := normal(m, rng)
	bRange := projectRange(u, b0)
	bOrth := make([]float64, m)
	floats.SubTo(bOrth, b0, bRange)
	scale := floats.Sum(spectrum) / float64(r)
	rescale(bRange, scale)
	rescale(bOrth, scale)
	b := make([]float64, m)
	floats.ScaleTo(b, RangeShare, bRange)
	floats.AddScaled(b, 1-RangeShare, bOrth)

	p := &Problem{
		A:     a,
		B:     b,
		C:     normal(n, rng),
		Delta: delta,
		u:     u,
		sigma: append([]float64(nil), spectrum...),
		vt:    vt,
	}
	p.solve()

	return p, nil
}

// WithoutLinearTerm returns a copy of p with c = 0 and the solution of the
// plain (ridge) least-squares problem. A is shared with p.
func (p *Problem) WithoutLinearTerm() *Problem {
	q := *p
	q.C = make([]float64, len(p.C))
	q.B = append([]float64(nil), p.B...)
	q.solve()

	return &q
}

// Rank returns the number of nonzero singular values of A.
func (p *Problem) Rank() int { return len(p.sigma) }

// Cond returns σ_max/σ_min over the nonzero spectrum.
func (p *Problem) Cond() float64 {
	return floats.Max(p.sigma) / floats.Min(p.sigma)
}

// solve fills XOpt and YOpt:
//
//	x = V·(Σ² + δI)⁻¹·(Σ·Uᵀb − Vᵀc) − (I − VVᵀ)·c/δ
//
// When δ = 0 and A is rank deficient the second term is dropped, giving the
// solution of minimum norm within range(Aᵀ).
func (p *Problem) solve() {
	m, n := p.A.Dims()
	r := len(p.sigma)
	var utb, vtc mat.VecDense
	utb.MulVec(p.u.T(), mat.NewVecDense(m, p.B))
	vtc.MulVec(p.vt, mat.NewVecDense(n, p.C))

	coef := mat.NewVecDense(r, nil)
	for i, s := range p.sigma {
		coef.SetVec(i, (s*utb.AtVec(i)-vtc.AtVec(i))/(s*s+p.Delta))
	}
	var x mat.VecDense
	x.MulVec(p.vt.T(), coef)

	if p.Delta > 0 && r < n {
		var proj mat.VecDense
		proj.MulVec(p.vt.T(), &vtc)
		for i := 0; i < n; i++ {
			x.SetVec(i, x.AtVec(i)-(p.C[i]-proj.AtVec(i))/p.Delta)
		}
	}

	p.XOpt = append([]float64(nil), x.RawVector().Data...)
	p.YOpt = p.residual(p.XOpt)
}

// residual returns b − A·x.
func (p *Problem) residual(x []float64) []float64 {
	m, n := p.A.Dims()
	var ax mat.VecDense
	ax.MulVec(p.A, mat.NewVecDense(n, x))
	out := make([]float64, m)
	floats.SubTo(out, p.B, ax.RawVector().Data)

	return out
}

// NormalEqResidual returns ‖(AᵀA + δI)·x − (Aᵀb − c)‖₂.
func (p *Problem) NormalEqResidual(x []float64) float64 {
	_, n := p.A.Dims()
	r := mat.NewVecDense(len(p.B), p.residual(x))
	var g mat.VecDense
	g.MulVec(p.A.T(), r) // Aᵀ(b − Ax)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = g.AtVec(i) - p.Delta*x[i] - p.C[i]
	}

	return floats.Norm(out, 2)
}

// BlockResidual returns the norm of the saddle-point system residual
// [y + A·x − b; Aᵀy − δx − c].
func (p *Problem) BlockResidual(x, y []float64) float64 {
	m, n := p.A.Dims()
	top := p.residual(x)
	floats.SubTo(top, y, top) // y − (b − Ax)

	var aty mat.VecDense
	aty.MulVec(p.A.T(), mat.NewVecDense(m, y))
	bottom := make([]float64, n)
	for i := 0; i < n; i++ {
		bottom[i] = aty.AtVec(i) - p.Delta*x[i] - p.C[i]
	}

	return math.Hypot(floats.Norm(top, 2), floats.Norm(bottom, 2))
}

// RelErrX returns ‖x − XOpt‖ / (1 + min(‖XOpt‖, ‖x‖)).
func (p *Problem) RelErrX(x []float64) float64 { return relErr(p.XOpt, x) }

// RelErrY returns ‖y − YOpt‖ / (1 + min(‖YOpt‖, ‖y‖)).
func (p *Problem) RelErrY(y []float64) float64 { return relErr(p.YOpt, y) }

// ResidualNorm returns ‖[b − A·x; √δ·x]‖₂, the objective's residual for
// the ridge problem.
func (p *Problem) ResidualNorm(x []float64) float64 {
	rn := floats.Norm(p.residual(x), 2)
	if p.Delta == 0 {
		return rn
	}

	return math.Hypot(rn, math.Sqrt(p.Delta)*floats.Norm(x, 2))
}

func relErr(want, got []float64) float64 {
	d := floats.Distance(want, got, 2)
	return d / (1 + math.Min(floats.Norm(want, 2), floats.Norm(got, 2)))
}

func normal(n int, rng *rand.Rand) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = rng.NormFloat64()
	}

	return v
}

// projectRange returns U·Uᵀ·v.
func projectRange(u *mat.Dense, v []float64) []float64 {
	m, _ := u.Dims()
	var utv, out mat.VecDense
	utv.MulVec(u.T(), mat.NewVecDense(m, v))
	out.MulVec(u, &utv)

	return out.RawVector().Data
}

// rescale sets ‖v‖ = target unless v = 0.
func rescale(v []float64, target float64) {
	if nrm := floats.Norm(v, 2); nrm > 0 {
		floats.Scale(target/nrm, v)
	}
}
