// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package regression fits simple (one variable) linear regression by
// ordinary least squares.
package regression

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Common errors.
var (
	ErrDimensionMismatch = errors.New("regression: x and y have different lengths")
	ErrTooFewPoints      = errors.New("regression: need at least two points")
	ErrDegenerate        = errors.New("regression: all x values are equal")
)

// Model is the fitted line y = Intercept + Slope·x.
type Model struct {
	Intercept float64
	Slope     float64
}

// Fit computes the least-squares line through (x[i], y[i]) in closed form:
//
//	a = (Σy·Σx² - Σx·Σxy) / (n·Σx² - (Σx)²)
//	b = (n·Σxy - Σx·Σy)   / (n·Σx² - (Σx)²)
func Fit(x, y []float64) (Model, error) {
	if len(x) != len(y) {
		return Model{}, fmt.Errorf("%w: %d vs %d", ErrDimensionMismatch, len(x), len(y))
	}
	if len(x) < 2 {
		return Model{}, ErrTooFewPoints
	}

	n := float64(len(x))
	sumX := floats.Sum(x)
	sumY := floats.Sum(y)
	sumXY := floats.Dot(x, y)
	sumXX := floats.Dot(x, x)

	den := n*sumXX - sumX*sumX
	if den == 0 {
		return Model{}, ErrDegenerate
	}

	return Model{
		Intercept: (sumY*sumXX - sumX*sumXY) / den,
		Slope:     (n*sumXY - sumX*sumY) / den,
	}, nil
}

// Predict returns Intercept + Slope·x.
func (m Model) Predict(x float64) float64 {
	return m.Intercept + m.Slope*x
}

// Func returns Predict as a plain function.
func (m Model) Func() func(float64) float64 {
	return m.Predict
}

// String formats the model as "y = a + b·x".
func (m Model) String() string {
	return fmt.Sprintf("y = %g + %g·x", m.Intercept, m.Slope)
}
