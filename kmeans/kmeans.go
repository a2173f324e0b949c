// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package kmeans implements k-means clustering with Lloyd's algorithm.
//
// Centroids are seeded with k-means++ from an explicit random source, so a
// fixed seed gives a fixed clustering.
//
// Example:
//
//	model := kmeans.New(3, rand.New(rand.NewSource(1)))
//	if err := model.Fit(points, 100); err != nil {
//	    log.Fatal(err)
//	}
//	labels, err := model.Predict(points)
package kmeans

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/born-ml/classic/internal/parallel"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Common errors.
var (
	ErrInvalidK          = errors.New("kmeans: k must be between 1 and the number of points")
	ErrNotFitted         = errors.New("kmeans: model is not fitted")
	ErrDimensionMismatch = errors.New("kmeans: dimension mismatch")
	ErrEmptyInput        = errors.New("kmeans: no data")
)

// KMeans is a k-means model. The zero value is not usable; call New.
type KMeans struct {
	k          int
	rng        *rand.Rand
	centroids  *mat.Dense // k×features, nil until Fit
	iterations int
	parallel   parallel.Config
}

// New creates a model with k clusters. A nil rng uses seed 1.
func New(k int, rng *rand.Rand) *KMeans {
	if rng == nil {
		//nolint:gosec // G404: centroid seeding is not security-critical
		rng = rand.New(rand.NewSource(1))
	}
	return &KMeans{k: k, rng: rng, parallel: parallel.DefaultConfig()}
}

// Fit clusters x, running at most maxIter assignment/update rounds.
//
// Fitting stops early once no point changes cluster. A cluster that loses
// all its points keeps its previous centroid. A maxIter below 1 runs a
// single round.
func (m *KMeans) Fit(x [][]float64, maxIter int) error {
	dims, err := m.checkData(x)
	if err != nil {
		return err
	}
	if m.k < 1 || m.k > len(x) {
		return fmt.Errorf("%w: k=%d with %d points", ErrInvalidK, m.k, len(x))
	}
	maxIter = max(maxIter, 1)

	centroids := mat.NewDense(m.k, dims, nil)
	m.seed(x, centroids)

	assign := make([]int, len(x))
	for i := range assign {
		assign[i] = -1
	}
	next := make([]int, len(x))
	sums := mat.NewDense(m.k, dims, nil)
	counts := make([]int, m.k)

	m.iterations = 0
	for it := 0; it < maxIter; it++ {
		parallel.For(len(x), func(i int) {
			next[i] = nearest(centroids, x[i])
		}, m.parallel)
		m.iterations++

		changed := false
		for i := range assign {
			if assign[i] != next[i] {
				changed = true
				assign[i] = next[i]
			}
		}
		if !changed {
			break
		}

		sums.Zero()
		clear(counts)
		for i, c := range assign {
			floats.Add(sums.RawRowView(c), x[i])
			counts[c]++
		}
		for c, n := range counts {
			if n == 0 {
				continue
			}
			row := sums.RawRowView(c)
			floats.Scale(1/float64(n), row)
			centroids.SetRow(c, row)
		}
	}

	m.centroids = centroids
	return nil
}

// Predict returns the index of the nearest centroid for each point.
func (m *KMeans) Predict(x [][]float64) ([]int, error) {
	if err := m.checkFitted(x); err != nil {
		return nil, err
	}
	labels := make([]int, len(x))
	parallel.For(len(x), func(i int) {
		labels[i] = nearest(m.centroids, x[i])
	}, m.parallel)
	return labels, nil
}

// Inertia returns the sum of squared distances from each point to its
// nearest centroid.
func (m *KMeans) Inertia(x [][]float64) (float64, error) {
	if err := m.checkFitted(x); err != nil {
		return 0, err
	}
	var sum float64
	for _, p := range x {
		sum += squaredDistance(p, m.centroids.RawRowView(nearest(m.centroids, p)))
	}
	return sum, nil
}

// Centroids returns a copy of the fitted centroids, one per cluster.
func (m *KMeans) Centroids() [][]float64 {
	if m.centroids == nil {
		return nil
	}
	out := make([][]float64, m.k)
	for c := range out {
		out[c] = mat.Row(nil, c, m.centroids)
	}
	return out
}

// Iterations returns the number of rounds the last Fit ran.
func (m *KMeans) Iterations() int { return m.iterations }

// K returns the number of clusters.
func (m *KMeans) K() int { return m.k }

func (m *KMeans) checkData(x [][]float64) (int, error) {
	if len(x) == 0 || len(x[0]) == 0 {
		return 0, ErrEmptyInput
	}
	dims := len(x[0])
	for i, p := range x {
		if len(p) != dims {
			return 0, fmt.Errorf("%w: point %d has %d features, want %d", ErrDimensionMismatch, i, len(p), dims)
		}
	}
	return dims, nil
}

func (m *KMeans) checkFitted(x [][]float64) error {
	if m.centroids == nil {
		return ErrNotFitted
	}
	_, dims := m.centroids.Dims()
	for i, p := range x {
		if len(p) != dims {
			return fmt.Errorf("%w: point %d has %d features, want %d", ErrDimensionMismatch, i, len(p), dims)
		}
	}
	return nil
}

// seed picks initial centroids with k-means++: the first uniformly, each
// next one with probability proportional to its squared distance from the
// closest centroid chosen so far.
func (m *KMeans) seed(x [][]float64, centroids *mat.Dense) {
	n := len(x)
	first := m.rng.Intn(n)
	centroids.SetRow(0, x[first])

	dist := make([]float64, n)
	for i, p := range x {
		dist[i] = squaredDistance(p, x[first])
	}

	for c := 1; c < m.k; c++ {
		pick := n - 1
		if total := floats.Sum(dist); total > 0 {
			r := m.rng.Float64() * total
			for i, d := range dist {
				if r -= d; r < 0 {
					pick = i
					break
				}
			}
		} else {
			// Every point sits on a centroid already.
			pick = m.rng.Intn(n)
		}

		centroids.SetRow(c, x[pick])
		for i, p := range x {
			dist[i] = min(dist[i], squaredDistance(p, x[pick]))
		}
	}
}

func squaredDistance(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

// nearest returns the closest centroid; ties go to the lower index.
func nearest(centroids *mat.Dense, p []float64) int {
	k, _ := centroids.Dims()
	best, bestDist := 0, math.Inf(1)
	for c := 0; c < k; c++ {
		if d := floats.Distance(p, centroids.RawRowView(c), 2); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}
