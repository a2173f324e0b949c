// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package kmeans_test

import (
	"math"
	"math/rand"
	"testing"

	"github.com/born-ml/classic/kmeans"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"
)

// blobs returns n points around each center, in center order.
func blobs(rng *rand.Rand, n int, centers ...[2]float64) [][]float64 {
	var points [][]float64
	for _, c := range centers {
		for i := 0; i < n; i++ {
			points = append(points, []float64{c[0] + rng.NormFloat64()*0.3, c[1] + rng.NormFloat64()*0.3})
		}
	}
	return points
}

func column(points [][]float64, j int) []float64 {
	col := make([]float64, len(points))
	for i, p := range points {
		col[i] = p[j]
	}
	return col
}

func TestFit_SeparatedBlobs(t *testing.T) {
	const n = 50
	points := blobs(rand.New(rand.NewSource(7)), n, [2]float64{0, 0}, [2]float64{10, 0}, [2]float64{5, 9})

	model := kmeans.New(3, rand.New(rand.NewSource(1)))
	require.NoError(t, model.Fit(points, 100))
	assert.Less(t, model.Iterations(), 100)

	labels, err := model.Predict(points)
	require.NoError(t, err)

	centroids := model.Centroids()
	require.Len(t, centroids, 3)

	seen := make(map[int]bool)
	for b := 0; b < 3; b++ {
		blob := points[b*n : (b+1)*n]
		label := labels[b*n]
		for i := range blob {
			assert.Equal(t, label, labels[b*n+i], "blob %d point %d", b, i)
		}
		assert.False(t, seen[label], "two blobs share cluster %d", label)
		seen[label] = true

		assert.InDelta(t, stat.Mean(column(blob, 0), nil), centroids[label][0], 1e-9)
		assert.InDelta(t, stat.Mean(column(blob, 1), nil), centroids[label][1], 1e-9)
	}

	inertia, err := model.Inertia(points)
	require.NoError(t, err)
	assert.Less(t, inertia, 3*n*0.3*0.3*2*2.0)
}

func TestFit_Deterministic(t *testing.T) {
	points := blobs(rand.New(rand.NewSource(3)), 20, [2]float64{0, 0}, [2]float64{4, 4})

	a := kmeans.New(2, rand.New(rand.NewSource(11)))
	b := kmeans.New(2, rand.New(rand.NewSource(11)))
	require.NoError(t, a.Fit(points, 50))
	require.NoError(t, b.Fit(points, 50))

	assert.Equal(t, a.Centroids(), b.Centroids())
	assert.Equal(t, a.Iterations(), b.Iterations())
}

func TestFit_EmptyClusterKeepsCentroid(t *testing.T) {
	points := [][]float64{{1, 2}, {1, 2}, {1, 2}}

	model := kmeans.New(2, nil)
	require.NoError(t, model.Fit(points, 10))

	for _, c := range model.Centroids() {
		assert.Equal(t, []float64{1, 2}, c)
		assert.False(t, math.IsNaN(c[0]))
	}
	labels, err := model.Predict(points)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0}, labels)
}

func TestFit_SingleCluster(t *testing.T) {
	points := [][]float64{{0, 0}, {2, 0}, {0, 2}, {2, 2}}

	model := kmeans.New(1, nil)
	require.NoError(t, model.Fit(points, 0))
	assert.Equal(t, [][]float64{{1, 1}}, model.Centroids())

	inertia, err := model.Inertia(points)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, inertia, 1e-12)
}

func TestErrors(t *testing.T) {
	model := kmeans.New(2, nil)

	_, err := model.Predict([][]float64{{0, 0}})
	assert.ErrorIs(t, err, kmeans.ErrNotFitted)
	assert.Nil(t, model.Centroids())

	assert.ErrorIs(t, model.Fit(nil, 10), kmeans.ErrEmptyInput)
	assert.ErrorIs(t, model.Fit([][]float64{{1, 2}, {3}}, 10), kmeans.ErrDimensionMismatch)
	assert.ErrorIs(t, model.Fit([][]float64{{1, 2}}, 10), kmeans.ErrInvalidK)
	assert.ErrorIs(t, kmeans.New(0, nil).Fit([][]float64{{1}}, 10), kmeans.ErrInvalidK)

	require.NoError(t, model.Fit([][]float64{{0, 0}, {5, 5}}, 10))
	_, err = model.Predict([][]float64{{0, 0, 0}})
	assert.ErrorIs(t, err, kmeans.ErrDimensionMismatch)
	_, err = model.Inertia([][]float64{{0}})
	assert.ErrorIs(t, err, kmeans.ErrDimensionMismatch)
}
