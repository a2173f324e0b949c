// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package prime counts primes with the sieve of Eratosthenes.
package prime

// Sieve returns a slice of length n+1 where s[i] reports whether i is
// prime. It returns nil for negative n.
func Sieve(n int) []bool {
	if n < 0 {
		return nil
	}
	sieve := make([]bool, n+1)
	for i := 2; i <= n; i++ {
		sieve[i] = true
	}
	for p := 2; p*p <= n; p++ {
		if !sieve[p] {
			continue
		}
		for i := p * p; i <= n; i += p {
			sieve[i] = false
		}
	}
	return sieve
}

// Count returns the number of primes in [0, n].
func Count(n int) int {
	var count int
	for _, isPrime := range Sieve(n) {
		if isPrime {
			count++
		}
	}
	return count
}
