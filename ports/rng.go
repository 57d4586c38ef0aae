package ports

import (
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic
// resampling loops (bootstrap, permutation).
type RNGPort interface {
	// Stream returns a fresh generator derived from the base seed and the
	// stream name. The same (seed, name) always yields the same sequence, and
	// every call returns an independent *rand.Rand so concurrent analyses
	// never share generator state.
	Stream(name string) *rand.Rand

	// Seed exposes the base seed for batch manifests.
	Seed() int64
}
