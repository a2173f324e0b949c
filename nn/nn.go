// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"io"
	"math/rand"

	"github.com/born-ml/classic/internal/nn"
	"github.com/born-ml/classic/internal/serialization"
)

// Module maps an input vector to an output vector. Layer and Network
// implement it.
type Module = nn.Module

// Tensor is a named parameter array in a state dictionary.
type Tensor = serialization.Tensor

// Core types

// Node is a single neuron.
type Node = nn.Node

// NewNode creates a node. A nil activation means Sigmoid.
//
// Example:
//
//	node := nn.NewNode([]float64{0.5, -0.4}, 0.1, 0.5, nn.Sigmoid{})
func NewNode(weights []float64, bias, learningRate float64, act Activation) *Node {
	return nn.NewNode(weights, bias, learningRate, act)
}

// NewPerceptron creates a Step node with learning rate 0.
//
// Example:
//
//	and := nn.NewPerceptron([]float64{1, 1}, -2)
func NewPerceptron(weights []float64, bias float64) *Node {
	return nn.NewPerceptron(weights, bias)
}

// Layer is an ordered group of nodes that read the same input.
type Layer = nn.Layer

// NewLayer creates a layer from nodes that share the same input width.
func NewLayer(nodes ...*Node) (*Layer, error) {
	return nn.NewLayer(nodes...)
}

// NewDenseLayer creates a fully connected layer with Xavier-initialized
// weights and zero biases.
//
// Example:
//
//	layer, err := nn.NewDenseLayer(784, 128, 0.1, nn.Sigmoid{}, nn.NewRand(1))
func NewDenseLayer(inputs, outputs int, learningRate float64, act Activation, rng *rand.Rand) (*Layer, error) {
	return nn.NewDenseLayer(inputs, outputs, learningRate, act, rng)
}

// Network is a feedforward stack of layers.
type Network = nn.Network

// NewNetwork chains layers, checking that adjacent widths agree.
func NewNetwork(layers ...*Layer) (*Network, error) {
	return nn.NewNetwork(layers...)
}

// NewRandomNetwork builds dense layers for sizes = [inputs, hidden..., outputs].
//
// Example:
//
//	net, err := nn.NewRandomNetwork([]int{2, 4, 1}, 0.5, nn.Sigmoid{}, nn.NewRand(42))
func NewRandomNetwork(sizes []int, learningRate float64, act Activation, rng *rand.Rand) (*Network, error) {
	return nn.NewRandomNetwork(sizes, learningRate, act, rng)
}

// Activations

// Activation maps a weighted sum to a node output and provides its derivative.
type Activation = nn.Activation

// Sigmoid is the logistic activation 1 / (1 + exp(-z)).
type Sigmoid = nn.Sigmoid

// Step is the perceptron threshold activation.
type Step = nn.Step

// Tanh is the hyperbolic tangent activation.
type Tanh = nn.Tanh

// ReLU is the rectified linear activation.
type ReLU = nn.ReLU

// ActivationByName resolves "sigmoid", "step", "tanh" or "relu".
func ActivationByName(name string) (Activation, error) {
	return nn.ActivationByName(name)
}

// Loss and initialization

// MSE computes the mean squared error of m over a dataset.
func MSE(m Module, inputs, targets [][]float64) (float64, error) {
	return nn.MSE(m, inputs, targets)
}

// NewRand returns a deterministic random source; seed 0 means DefaultSeed.
func NewRand(seed int64) *rand.Rand {
	return nn.NewRand(seed)
}

// DefaultSeed replaces a zero seed.
const DefaultSeed = nn.DefaultSeed

// XavierUniform draws a fanOut×fanIn weight matrix in row-major order.
func XavierUniform(fanIn, fanOut int, rng *rand.Rand) []float64 {
	return nn.XavierUniform(fanIn, fanOut, rng)
}

// Uniform returns n values drawn uniformly from [lo, hi).
func Uniform(n int, lo, hi float64, rng *rand.Rand) []float64 {
	return nn.Uniform(n, lo, hi, rng)
}

// Configuration

// TrainConfig holds the hyperparameters of a randomly initialized network.
type TrainConfig = nn.TrainConfig

// DefaultConfig returns settings that learn XOR with a 2-2-1 network.
func DefaultConfig() TrainConfig {
	return nn.DefaultConfig()
}

// Checkpoints

// Checkpoint is the training state stored alongside the parameters.
type Checkpoint = nn.Checkpoint

// SaveCheckpoint writes net and its training state to w.
func SaveCheckpoint(w io.Writer, net *Network, ckpt Checkpoint) error {
	return nn.SaveCheckpoint(w, net, ckpt)
}

// LoadCheckpoint reads a network saved by SaveCheckpoint.
func LoadCheckpoint(r io.Reader) (*Network, Checkpoint, error) {
	return nn.LoadCheckpoint(r)
}

// SaveFile writes a checkpoint to path.
func SaveFile(path string, net *Network, ckpt Checkpoint) error {
	return nn.SaveFile(path, net, ckpt)
}

// Load reads a network checkpoint from path.
//
// Example:
//
//	net, ckpt, err := nn.Load("xor.clnn")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("resuming after epoch %d (loss %.4f)\n", ckpt.Epoch, ckpt.Loss)
func Load(path string) (*Network, Checkpoint, error) {
	return nn.Load(path)
}

// Errors

// DimensionError reports a vector of the wrong length.
type DimensionError = nn.DimensionError

// Sentinel errors.
var (
	ErrDimensionMismatch = nn.ErrDimensionMismatch
	ErrEmptyNetwork      = nn.ErrEmptyNetwork
	ErrEmptyLayer        = nn.ErrEmptyLayer
	ErrInvalidSize       = nn.ErrInvalidSize
	ErrNoForwardPass     = nn.ErrNoForwardPass
	ErrUnknownActivation = nn.ErrUnknownActivation
	ErrNotCheckpoint     = nn.ErrNotCheckpoint
)
