// SPDX-License-Identifier: MIT
// Package lstsq_test contains test helpers
//
// Purpose:
//   • Reproducible problems with known solutions (package testprob).
//   • A logger that captures warnings for assertions.

package lstsq_test

import (
	"bytes"
	"log/slog"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/rla/testprob"
)

func seeded(seed uint64) *rand.Rand { return rand.New(rand.NewPCG(seed, seed^0xda3e39cb94b95bdb)) }

// lsProblem returns a least-squares problem (c = 0) with cond(A) = kappa.
func lsProblem(t *testing.T, m, n int, kappa, delta float64, seed uint64) *testprob.Problem {
	t.Helper()
	p, err := testprob.Simple(m, n, testprob.LinSpectrum(kappa, n), delta, seeded(seed))
	require.NoError(t, err)

	return p.WithoutLinearTerm()
}

// captureLogger returns a logger writing warnings and above into buf.
func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	h := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelWarn})

	return slog.New(h), &buf
}
