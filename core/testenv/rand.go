package testenv

import (
	"math/rand/v2"
)

// Rand creates a deterministic random number generator for a test.
func Rand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9E3779B97F4A7C15))
}
