// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package approx contains classic numerical approximations: π by Monte
// Carlo sampling, e by its factorial series, and the fast inverse square
// root bit trick.
package approx

import (
	"errors"
	"math"
	"math/rand"
)

// Common errors.
var (
	ErrInvalidIterations = errors.New("approx: iterations must be positive")
	ErrOverflow          = errors.New("approx: factorial overflows uint64")
	ErrNegative          = errors.New("approx: factorial of a negative number")
)

// MaxFactorial is the largest n whose factorial fits in a uint64.
const MaxFactorial = 20

// Pi estimates π by sampling iters points uniformly in [-1, 1)² and counting
// those inside the unit circle. A nil rng uses seed 1.
func Pi(iters int, rng *rand.Rand) (float64, error) {
	if iters < 1 {
		return 0, ErrInvalidIterations
	}
	if rng == nil {
		//nolint:gosec // G404: Monte Carlo sampling is not security-critical
		rng = rand.New(rand.NewSource(1))
	}

	var inside int
	for i := 0; i < iters; i++ {
		x := 2*rng.Float64() - 1
		y := 2*rng.Float64() - 1
		if math.Hypot(x, y) <= 1 {
			inside++
		}
	}
	return 4 * float64(inside) / float64(iters), nil
}

// E sums the first n terms of Σ 1/k!. E(0) is 0; the series reaches
// float64 precision around n = 18.
func E(n int) float64 {
	var sum float64
	term := 1.0
	for k := 0; k < n; k++ {
		if k > 0 {
			term /= float64(k)
		}
		sum += term
	}
	return sum
}

// Factorial returns n! for 0 <= n <= MaxFactorial.
func Factorial(n int) (uint64, error) {
	if n < 0 {
		return 0, ErrNegative
	}
	if n > MaxFactorial {
		return 0, ErrOverflow
	}
	f := uint64(1)
	for k := 2; k <= n; k++ {
		f *= uint64(k)
	}
	return f, nil
}

// FastInvSqrt approximates 1/√x with the 0x5f3759df bit trick followed by
// one Newton-Raphson step. Relative error stays below 0.2% for positive
// normal inputs.
func FastInvSqrt(x float32) float32 {
	const threeHalfs = 1.5

	x2 := x * 0.5
	i := math.Float32bits(x)
	i = 0x5f3759df - i>>1
	y := math.Float32frombits(i)
	return y * (threeHalfs - x2*y*y)
}
