// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package knn implements a k-nearest-neighbours classifier with Euclidean
// distance and majority voting.
package knn

import (
	"errors"
	"fmt"
	"sort"

	"github.com/born-ml/classic/internal/parallel"
	"gonum.org/v1/gonum/floats"
)

// Common errors.
var (
	ErrInvalidK          = errors.New("knn: k must be between 1 and the number of training points")
	ErrEmptyTrainingSet  = errors.New("knn: empty training set")
	ErrDimensionMismatch = errors.New("knn: dimension mismatch")
)

// Point is a labelled training example.
type Point struct {
	Features []float64
	Label    int
}

type neighbour struct {
	label    int
	distance float64
}

// Classify returns the majority label among the k training points closest
// to query.
//
// When several labels share the top vote count, the label whose nearest
// member is closest to query wins.
func Classify(k int, query []float64, train []Point) (int, error) {
	if err := validate(k, train); err != nil {
		return 0, err
	}
	if err := checkQuery(query, train); err != nil {
		return 0, err
	}
	return classify(k, query, train), nil
}

// ClassifyAll classifies every query. Queries are processed in parallel;
// results are in query order.
func ClassifyAll(k int, queries [][]float64, train []Point) ([]int, error) {
	if err := validate(k, train); err != nil {
		return nil, err
	}
	for i, q := range queries {
		if err := checkQuery(q, train); err != nil {
			return nil, fmt.Errorf("query %d: %w", i, err)
		}
	}

	labels := make([]int, len(queries))
	cfg := parallel.DefaultConfig()
	cfg.MinChunkSize = 16
	parallel.For(len(queries), func(i int) {
		labels[i] = classify(k, queries[i], train)
	}, cfg)
	return labels, nil
}

func validate(k int, train []Point) error {
	if len(train) == 0 {
		return ErrEmptyTrainingSet
	}
	if k < 1 || k > len(train) {
		return fmt.Errorf("%w: k=%d with %d points", ErrInvalidK, k, len(train))
	}
	return nil
}

func checkQuery(query []float64, train []Point) error {
	for i, p := range train {
		if len(p.Features) != len(query) {
			return fmt.Errorf("%w: training point %d has %d features, query has %d",
				ErrDimensionMismatch, i, len(p.Features), len(query))
		}
	}
	return nil
}

func classify(k int, query []float64, train []Point) int {
	neighbours := make([]neighbour, len(train))
	for i, p := range train {
		neighbours[i] = neighbour{label: p.Label, distance: floats.Distance(query, p.Features, 2)}
	}
	// Stable so equal distances keep training order.
	sort.SliceStable(neighbours, func(i, j int) bool {
		return neighbours[i].distance < neighbours[j].distance
	})

	votes := make(map[int]int, k)
	rank := make(map[int]int, k) // position of each label's nearest member
	for i, n := range neighbours[:k] {
		if _, seen := rank[n.label]; !seen {
			rank[n.label] = i
		}
		votes[n.label]++
	}

	best := neighbours[0].label
	for label, count := range votes {
		if count > votes[best] || (count == votes[best] && rank[label] < rank[best]) {
			best = label
		}
	}
	return best
}
