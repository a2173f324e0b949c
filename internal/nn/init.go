package nn

import (
	"math"
	"math/rand"
)

// DefaultSeed replaces a zero seed so "unset" still means reproducible.
const DefaultSeed int64 = 1

// NewRand returns a deterministic random source for weight initialization.
//
// A seed of 0 is treated as DefaultSeed.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = DefaultSeed
	}
	//nolint:gosec // G404: weight initialization is not security-critical
	return rand.New(rand.NewSource(seed))
}

// XavierUniform draws a fanOut×fanIn weight matrix in row-major order.
//
// Values come from a uniform distribution:
// U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out)))
//
// Row i holds the incoming weights of node i. A nil rng uses NewRand(0).
func XavierUniform(fanIn, fanOut int, rng *rand.Rand) []float64 {
	if fanIn <= 0 || fanOut <= 0 {
		return nil
	}
	bound := math.Sqrt(6.0 / float64(fanIn+fanOut))
	return Uniform(fanIn*fanOut, -bound, bound, rng)
}

// Uniform returns n values drawn uniformly from [lo, hi).
func Uniform(n int, lo, hi float64, rng *rand.Rand) []float64 {
	if n <= 0 {
		return nil
	}
	if rng == nil {
		rng = NewRand(0)
	}
	values := make([]float64, n)
	for i := range values {
		values[i] = lo + rng.Float64()*(hi-lo)
	}
	return values
}
