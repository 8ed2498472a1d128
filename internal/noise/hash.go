// Package noise implements deterministic coherent noise: a seeded
// lattice coordinate hash, gradient (Perlin) sampling, and fractal
// octave compositing. Every function in this package is pure; the same
// seed and coordinates produce bit-identical output across calls and
// across processes, which makes all types safe to share between
// goroutines without synchronization.
package noise

import "math"

// Prime multipliers spread seed and lattice coordinates across the
// uint64 space before mixing. The arithmetic wraps mod 2^64; the
// wraparound is deterministic and part of the contract, so ports to
// other fixed-width languages reproduce output bit-for-bit.
const (
	hashSeedPrime = 0x9e3779b97f4a7c15
	hashXPrime    = 0xc2b2ae3d27d4eb4f
	hashYPrime    = 0x165667b19e3779f9
)

// Hash maps (seed, x, y) to a uniformly distributed value in [0, 1].
// It is a total function over all int64 inputs; negative lattice
// coordinates are handled the same as positive ones. Adjacent
// coordinates are decorrelated by two xorshift-multiply rounds, so
// stepping x or y by one flips roughly half the output bits.
func Hash(seed, x, y int64) float64 {
	h := uint64(seed)*hashSeedPrime ^ uint64(x)*hashXPrime ^ uint64(y)*hashYPrime
	h ^= h >> 30
	h *= 0xbf58476d1ce4e5b9
	h ^= h >> 27
	h *= 0x94d049bb133111eb
	h ^= h >> 31
	return float64(h) / float64(math.MaxUint64)
}
