package core

import "math/rand/v2"

// MaterialID identifies a material in a registry. Zero is reserved for "no material".
type MaterialID uint16

// NoMaterial is never assigned to a real material.
const NoMaterial MaterialID = 0

// NewRand returns a PCG-backed generator with deterministic seeding.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), 0))
}

// Derive returns an independent generator seeded from two draws of r.
// Callers that fan out work derive one child per job, in a fixed order, so the
// parent's seed reproduces every child's stream.
func Derive(r *rand.Rand) *rand.Rand {
	return rand.New(rand.NewPCG(r.Uint64(), r.Uint64()))
}

// Coin returns true or false with equal probability.
func Coin(r *rand.Rand) bool {
	return r.IntN(2) == 1
}
