// SPDX-License-Identifier: MIT

package precond

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/rla/backend"
	"github.com/katalvlaran/rla/linop"
)

// eps is float64 machine epsilon.
const eps = 0x1p-52

// Preconditioned is the operator [A; √δ·I]·M, with M either a dense n×k
// matrix or R⁻¹ for an upper triangular n×n R.
type Preconditioned struct {
	a         *linop.Dense
	m, n, k   int // A is m×n, M is n×k
	sqrtDelta float64

	upper bool              // M = R⁻¹
	r     blas64.Triangular // valid when upper
	mm    blas64.General    // valid when !upper

	work []float64 // len n
}

var _ linop.Operator = (*Preconditioned)(nil)

func validateDelta(delta float64) error {
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta < 0 {
		return fmt.Errorf("delta=%g: %w", delta, ErrNegativeDelta)
	}

	return nil
}

// TimesInvR returns the operator [A; √δ·I]·R⁻¹ for an upper triangular n×n R.
//
// Errors:
//   - ErrNilMatrix, ErrNegativeDelta, ErrDimensionMismatch (R not n×n or not
//     upper), backend.ErrSingular (zero on the diagonal of R).
//
// Complexity:
//   - Construction O(n); Apply/ApplyT O(m·n + n²).
func TimesInvR(a mat.Matrix, delta float64, r *mat.TriDense) (*Preconditioned, error) {
	if a == nil || r == nil {
		return nil, precondErrorf(opTimesInvR, ErrNilMatrix)
	}
	if err := validateDelta(delta); err != nil {
		return nil, precondErrorf(opTimesInvR, err)
	}
	m, n := a.Dims()
	rn, kind := r.Triangle()
	if rn != n || kind != mat.Upper {
		return nil, precondErrorf(opTimesInvR, fmt.Errorf("R is %d×%d, A has %d columns: %w", rn, rn, n, ErrDimensionMismatch))
	}
	for i := 0; i < n; i++ {
		if r.At(i, i) == 0 {
			return nil, precondErrorf(opTimesInvR, fmt.Errorf("R[%d,%d]=0: %w", i, i, backend.ErrSingular))
		}
	}

	return &Preconditioned{
		a:         linop.NewDense(a),
		m:         m,
		n:         n,
		k:         n,
		sqrtDelta: math.Sqrt(delta),
		r:         r.RawTriangular(),
		upper:     true,
		work:      make([]float64, n),
	}, nil
}

// TimesM returns the operator [A; √δ·I]·M for a general n×k M.
//
// Errors:
//   - ErrNilMatrix, ErrNegativeDelta, ErrDimensionMismatch (M.Rows != n).
//
// Complexity:
//   - Apply/ApplyT O(m·n + n·k).
func TimesM(a mat.Matrix, delta float64, m *mat.Dense) (*Preconditioned, error) {
	if a == nil || m == nil {
		return nil, precondErrorf(opTimesM, ErrNilMatrix)
	}
	if err := validateDelta(delta); err != nil {
		return nil, precondErrorf(opTimesM, err)
	}
	rows, n := a.Dims()
	mr, k := m.Dims()
	if mr != n {
		return nil, precondErrorf(opTimesM, fmt.Errorf("M has %d rows, A has %d columns: %w", mr, n, ErrDimensionMismatch))
	}

	return &Preconditioned{
		a:         linop.NewDense(a),
		m:         rows,
		n:         n,
		k:         k,
		sqrtDelta: math.Sqrt(delta),
		mm:        m.RawMatrix(),
		work:      make([]float64, n),
	}, nil
}

// Dims returns (m+n, k) when δ > 0 and (m, k) otherwise.
func (p *Preconditioned) Dims() (int, int) {
	if p.sqrtDelta > 0 {
		return p.m + p.n, p.k
	}

	return p.m, p.k
}

// Lifted reports whether the operator carries the √δ·I block.
func (p *Preconditioned) Lifted() bool { return p.sqrtDelta > 0 }

// forwardInto writes M·z into w (len n).
func (p *Preconditioned) forwardInto(w, z []float64) {
	if p.upper {
		copy(w, z)
		blas64.Trsv(blas.NoTrans, p.r, blas64.Vector{N: p.n, Inc: 1, Data: w})
		return
	}
	blas64.Gemv(blas.NoTrans, 1, p.mm,
		blas64.Vector{N: p.k, Inc: 1, Data: z},
		0, blas64.Vector{N: p.n, Inc: 1, Data: w})
}

// adjointInto writes Mᵀ·w into dst (len k). w may be overwritten.
func (p *Preconditioned) adjointInto(dst, w []float64) {
	if p.upper {
		blas64.Trsv(blas.Trans, p.r, blas64.Vector{N: p.n, Inc: 1, Data: w})
		copy(dst, w)
		return
	}
	blas64.Gemv(blas.Trans, 1, p.mm,
		blas64.Vector{N: p.n, Inc: 1, Data: w},
		0, blas64.Vector{N: p.k, Inc: 1, Data: dst})
}

// Apply writes [A; √δ·I]·M·z into dst.
func (p *Preconditioned) Apply(dst, z []float64) {
	p.forwardInto(p.work, z)
	p.a.Apply(dst[:p.m], p.work)
	if p.sqrtDelta > 0 {
		for i, v := range p.work {
			dst[p.m+i] = p.sqrtDelta * v
		}
	}
}

// ApplyT writes Mᵀ·(Aᵀ·y[:m] + √δ·y[m:]) into dst.
func (p *Preconditioned) ApplyT(dst, y []float64) {
	p.a.ApplyT(p.work, y[:p.m])
	if p.sqrtDelta > 0 {
		for i := range p.work {
			p.work[i] += p.sqrtDelta * y[p.m+i]
		}
	}
	p.adjointInto(dst, p.work)
}

// Forward returns x = M·z, mapping preconditioned coordinates back to the
// unknowns of A.
func (p *Preconditioned) Forward(z []float64) []float64 {
	x := make([]float64, p.n)
	p.forwardInto(x, z)

	return x
}

// Adjoint returns Mᵀ·w for a length-n w. w is not modified.
func (p *Preconditioned) Adjoint(w []float64) []float64 {
	buf := make([]float64, p.n)
	copy(buf, w)
	out := make([]float64, p.k)
	p.adjointInto(out, buf)

	return out
}

// SVDFactors is the right preconditioner derived from a sketch S·A = U·Σ·Vᵀ.
type SVDFactors struct {
	// M = V_r·Σ_r⁻¹, n×r.
	M *mat.Dense
	// U holds the leading r left singular vectors, d×r.
	U *mat.Dense
	// Sigma holds the r retained singular values, descending.
	Sigma []float64
	// V holds the leading r right singular vectors, n×r.
	V *mat.Dense
	// Rank is r, the count of σ_i > σ_0·n·eps.
	Rank int
}

// SVDRight computes the thin SVD of a d×n sketch and returns
// M = V_r·Σ_r⁻¹ for the numerical rank r.
//
// Errors:
//   - ErrNilMatrix, ErrZeroRank, wrapped backend factorization errors.
//
// Complexity:
//   - Time O(d·n²), Space O(d·n).
func SVDRight(aSketch mat.Matrix) (*SVDFactors, error) {
	if aSketch == nil {
		return nil, precondErrorf(opSVDRight, ErrNilMatrix)
	}
	_, n := aSketch.Dims()
	u, sigma, v, err := backend.ThinSVD(aSketch)
	if err != nil {
		return nil, precondErrorf(opSVDRight, err)
	}
	if len(sigma) == 0 || sigma[0] == 0 {
		return nil, precondErrorf(opSVDRight, ErrZeroRank)
	}

	cutoff := sigma[0] * float64(n) * eps
	rank := 0
	for rank < len(sigma) && sigma[rank] > cutoff {
		rank++
	}

	ur, _ := u.Dims()
	vr, _ := v.Dims()
	uK := mat.DenseCopyOf(u.Slice(0, ur, 0, rank))
	vK := mat.DenseCopyOf(v.Slice(0, vr, 0, rank))
	m := mat.NewDense(vr, rank, nil)
	var i, j int
	for i = 0; i < vr; i++ {
		for j = 0; j < rank; j++ {
			m.Set(i, j, vK.At(i, j)/sigma[j])
		}
	}

	return &SVDFactors{
		M:     m,
		U:     uK,
		Sigma: append([]float64(nil), sigma[:rank]...),
		V:     vK,
		Rank:  rank,
	}, nil
}
