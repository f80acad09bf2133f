// SPDX-License-Identifier: MIT

package sketch

import (
	"math/rand/v2"
	"time"
)

// pcgStream is the second PCG word paired with a clock seed.
const pcgStream = 0x5851f42d4c957f2d

// EnsureRand returns rng, or a clock-seeded PCG source when rng is nil.
// Callers wanting reproducible sketches pass their own seeded rng.
func EnsureRand(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	seed := uint64(time.Now().UnixNano())

	return rand.New(rand.NewPCG(seed, seed^pcgStream))
}
