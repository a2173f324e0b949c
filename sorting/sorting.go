// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package sorting implements selection sort.
package sorting

import "cmp"

// Selection sorts s in place in ascending order and returns it.
//
// Each pass swaps the smallest remaining element into place; equal
// elements keep the first occurrence, but the swaps make the sort unstable.
func Selection[S ~[]E, E cmp.Ordered](s S) S {
	for i := range s {
		smallest := i
		for j := i + 1; j < len(s); j++ {
			if cmp.Less(s[j], s[smallest]) {
				smallest = j
			}
		}
		s[i], s[smallest] = s[smallest], s[i]
	}
	return s
}
