// SPDX-License-Identifier: MIT

package backend

import (
	"fmt"
	"runtime/debug"
	"strings"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

// gonumModule is the module path reported by Info.
const gonumModule = "gonum.org/v1/gonum"

// unknownVersion is reported when build info carries no module version
// (e.g. under `go test` of this very module).
const unknownVersion = "(unknown)"

// Info describes the active dense linear-algebra provider.
type Info struct {
	// BLAS is the concrete type of the blas64 implementation in use.
	BLAS string
	// Module is the provider module path.
	Module string
	// Version is the provider module version from build info.
	Version string
	// GoVersion is the toolchain the binary was built with.
	GoVersion string
}

// String renders Info as a single diagnostic line.
func (i Info) String() string {
	return fmt.Sprintf("blas=%s module=%s@%s go=%s", i.BLAS, i.Module, i.Version, i.GoVersion)
}

// CurrentInfo reports the BLAS implementation currently registered with blas64 and
// the gonum version compiled into the binary.
func CurrentInfo() Info {
	info := Info{
		BLAS:      fmt.Sprintf("%T", blas64.Implementation()),
		Module:    gonumModule,
		Version:   unknownVersion,
		GoVersion: unknownVersion,
	}
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	info.GoVersion = bi.GoVersion
	for _, dep := range bi.Deps {
		if dep.Path == gonumModule || strings.HasPrefix(dep.Path, gonumModule+"/") {
			info.Version = dep.Version
			break
		}
	}

	return info
}

// general returns a blas64.General view of a. *mat.Dense shares storage;
// any other Matrix is copied once.
func general(a mat.Matrix) blas64.General {
	if d, ok := a.(*mat.Dense); ok {
		return d.RawMatrix()
	}

	return mat.DenseCopyOf(a).RawMatrix()
}

// Lift returns the (m+n)×n stacked matrix [A; scale·I].
// When scale == 0 the result is a dense copy of A (no extra rows).
//
// Inputs:
//   - a: m×n matrix.
//   - scale: multiplier of the appended identity (typically √δ).
//
// Errors:
//   - ErrNilMatrix, ErrNaNInf (scale not finite).
//
// Complexity:
//   - Time O((m+n)·n), Space O((m+n)·n).
func Lift(a mat.Matrix, scale float64) (*mat.Dense, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, backendErrorf(opLift, err)
	}
	if err := ValidateFinite([]float64{scale}); err != nil {
		return nil, backendErrorf(opLift, err)
	}
	if scale == 0 {
		return mat.DenseCopyOf(a), nil
	}

	m, n := a.Dims()
	out := mat.NewDense(m+n, n, nil)
	out.Slice(0, m, 0, n).(*mat.Dense).Copy(a)
	for i := 0; i < n; i++ {
		out.Set(m+i, i, scale)
	}

	return out, nil
}

// MulVec computes y = A·x (trans=false) or y = Aᵀ·x (trans=true) into a
// freshly allocated slice.
//
// Implementation:
//   - Stage 1: validate a non-nil and len(x) matches the contracted dimension.
//   - Stage 2: *mat.Dense goes straight to blas64.Gemv on the raw storage;
//     any other Matrix falls back to mat.VecDense.MulVec.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Determinism:
//   - Both paths perform the same sums in BLAS order for *mat.Dense copies.
//
// Complexity:
//   - Time O(m·n), Space O(m) or O(n) for y.
func MulVec(a mat.Matrix, x []float64, trans bool) ([]float64, error) {
	if err := ValidateNotNil(a); err != nil {
		return nil, backendErrorf(opMulVec, err)
	}
	r, c := a.Dims()
	in, out := c, r
	if trans {
		in, out = r, c
	}
	if err := ValidateVecLen(x, in); err != nil {
		return nil, backendErrorf(opMulVec, fmt.Errorf("len(x)=%d, want %d: %w", len(x), in, err))
	}
	y := make([]float64, out)

	// Fast path: raw BLAS on contiguous storage.
	if d, ok := a.(*mat.Dense); ok {
		tA := blas.NoTrans
		if trans {
			tA = blas.Trans
		}
		blas64.Gemv(tA, 1, d.RawMatrix(),
			blas64.Vector{N: in, Inc: 1, Data: x},
			0, blas64.Vector{N: out, Inc: 1, Data: y})

		return y, nil
	}

	// Fallback: generic Matrix through VecDense.
	var op mat.Matrix = a
	if trans {
		op = a.T()
	}
	yv := mat.NewVecDense(out, y)
	yv.MulVec(op, mat.NewVecDense(in, x))

	return y, nil
}
