// Package randutil derives reproducible random sources from int64 seeds so
// that shuffles and bot tie-breaks can be replayed in tests.
package randutil

import rand "math/rand/v2"

const goldenRatio64 = 0x9e3779b97f4a7c15

// New returns a *rand.Rand seeded deterministically from seed.
func New(seed int64) *rand.Rand {
	u := uint64(seed)
	return rand.New(rand.NewPCG(mix(u), mix(u+goldenRatio64)))
}

// Derive returns a child seed for an independent stream, such as the deck of
// one round or one game of a simulation batch.
func Derive(seed int64, stream int64) int64 {
	return int64(mix(uint64(seed) ^ mix(uint64(stream)+goldenRatio64)))
}

// Stream is shorthand for New(Derive(seed, stream)).
func Stream(seed int64, stream int64) *rand.Rand {
	return New(Derive(seed, stream))
}

func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}
