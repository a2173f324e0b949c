// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides a small feedforward neural network trained with
// online backpropagation, plus hand-wired perceptron gates.
//
// # Overview
//
// This package contains:
//   - Node: weights, bias, learning rate and an Activation
//   - Layer: nodes that read the same input vector
//   - Network: layers chained in order with Activate, Backprop and Train
//   - Activations: Sigmoid, Step, Tanh, ReLU
//   - Initialization: NewRand, XavierUniform, Uniform
//   - Checkpoints: SaveCheckpoint, LoadCheckpoint, SaveFile, Load
//
// # Basic Usage
//
//	import "github.com/born-ml/classic/nn"
//
//	func main() {
//	    net, err := nn.NewRandomNetwork([]int{2, 2, 1}, 0.5, nn.Sigmoid{}, nn.NewRand(42))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    inputs := [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
//	    targets := [][]float64{{0}, {1}, {1}, {0}}
//	    if err := net.Train(inputs, targets, 5000); err != nil {
//	        log.Fatal(err)
//	    }
//
//	    out, err := net.Activate([]float64{1, 0})
//	}
//
// # Perceptrons
//
// NewPerceptron builds a Step node with learning rate 0. Perceptrons are
// composed into layers by hand to build logic circuits:
//
//	hidden, _ := nn.NewLayer(
//	    nn.NewPerceptron([]float64{1, -1}, -1),
//	    nn.NewPerceptron([]float64{-1, 1}, -1),
//	    nn.NewPerceptron([]float64{1, 1}, -2),
//	)
//	output, _ := nn.NewLayer(
//	    nn.NewPerceptron([]float64{0, 0, 1}, -1), // carry
//	    nn.NewPerceptron([]float64{1, 1, 0}, -1), // sum
//	)
//	adder, _ := nn.NewNetwork(hidden, output)
//
// # Errors
//
// Length mismatches are returned as *DimensionError values that wrap
// ErrDimensionMismatch:
//
//	if _, err := net.Activate(x); errors.Is(err, nn.ErrDimensionMismatch) {
//	    ...
//	}
//
// An operation that fails validation does not modify the network.
package nn
