package nn

import (
	"fmt"
	"math/rand"
	"slices"

	"github.com/born-ml/classic/internal/serialization"
)

// Network is a feedforward stack of layers trained with online
// backpropagation.
//
// Layer i's node count must equal layer i+1's input width. The network keeps
// the input of the last forward pass; every layer keeps its own activations.
//
// Example:
//
//	net, err := nn.NewRandomNetwork([]int{2, 2, 1}, 0.5, nn.Sigmoid{}, nn.NewRand(42))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = net.Train(inputs, targets, 5000)
//	out, err := net.Activate([]float64{1, 0})
type Network struct {
	layers []*Layer
	input  []float64 // input of the last forward pass, nil before the first
}

// NewNetwork chains layers in order, checking that adjacent widths agree.
func NewNetwork(layers ...*Layer) (*Network, error) {
	if len(layers) == 0 {
		return nil, ErrEmptyNetwork
	}
	for i := 1; i < len(layers); i++ {
		if err := checkLen(
			"NewNetwork", fmt.Sprintf("layer %d input width", i),
			layers[i].InputWidth(), layers[i-1].Len(),
		); err != nil {
			return nil, err
		}
	}
	return &Network{layers: slices.Clone(layers)}, nil
}

// NewRandomNetwork builds dense layers for sizes = [inputs, hidden..., outputs]
// with weights drawn from rng.
func NewRandomNetwork(sizes []int, learningRate float64, act Activation, rng *rand.Rand) (*Network, error) {
	if len(sizes) < 2 {
		return nil, ErrEmptyNetwork
	}
	if rng == nil {
		rng = NewRand(0)
	}
	layers := make([]*Layer, 0, len(sizes)-1)
	for i := 1; i < len(sizes); i++ {
		layer, err := NewDenseLayer(sizes[i-1], sizes[i], learningRate, act, rng)
		if err != nil {
			return nil, fmt.Errorf("layer %d: %w", i-1, err)
		}
		layers = append(layers, layer)
	}
	return NewNetwork(layers...)
}

// Activate runs a forward pass and returns the final layer's output.
func (n *Network) Activate(input []float64) ([]float64, error) {
	if err := checkLen("Network.Activate", "input", len(input), n.InputWidth()); err != nil {
		return nil, err
	}
	n.input = slices.Clone(input)

	out := input
	for _, layer := range n.layers {
		var err error
		if out, err = layer.Activate(out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Predict is Activate; it reads better at call sites that only do inference.
func (n *Network) Predict(input []float64) ([]float64, error) {
	return n.Activate(input)
}

// Backprop performs one gradient descent step for a single example.
//
// The caller must have run Activate on input first: the cached activations
// belong to that pass, so an input that differs from the last forward pass is
// rejected with ErrNoForwardPass. Error terms are computed
// from the output layer down, each hidden layer using the next layer's
// weights before any of them change; only then is every node updated.
func (n *Network) Backprop(input, target []float64) error {
	if err := checkLen("Network.Backprop", "input", len(input), n.InputWidth()); err != nil {
		return err
	}
	if err := checkLen("Network.Backprop", "target", len(target), n.OutputWidth()); err != nil {
		return err
	}
	if n.input == nil {
		return ErrNoForwardPass
	}
	if !slices.Equal(input, n.input) {
		return fmt.Errorf("%w: input differs from the last Activate call", ErrNoForwardPass)
	}

	last := len(n.layers) - 1
	if err := n.layers[last].ErrorsOutput(target); err != nil {
		return err
	}
	for i := last - 1; i >= 0; i-- {
		next := n.layers[i+1]
		if err := n.layers[i].ErrorsHidden(next.Weights(), next.errors); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}

	for i := last; i >= 0; i-- {
		prev := input
		if i > 0 {
			prev = n.layers[i-1].activations
		}
		if err := n.layers[i].CalculateGradients(prev); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}

	for i, layer := range n.layers {
		if err := layer.Update(); err != nil {
			return fmt.Errorf("layer %d: %w", i, err)
		}
	}
	return nil
}

// Epoch runs Activate and Backprop once per example, in order.
//
// All examples are validated before the first update.
func (n *Network) Epoch(inputs, targets [][]float64) error {
	if err := n.checkDataset("Network.Epoch", inputs, targets); err != nil {
		return err
	}
	for i := range inputs {
		if _, err := n.Activate(inputs[i]); err != nil {
			return err
		}
		if err := n.Backprop(inputs[i], targets[i]); err != nil {
			return err
		}
	}
	return nil
}

// Train runs epochs epochs over the dataset.
func (n *Network) Train(inputs, targets [][]float64, epochs int) error {
	if err := n.checkDataset("Network.Train", inputs, targets); err != nil {
		return err
	}
	for e := 0; e < epochs; e++ {
		if err := n.Epoch(inputs, targets); err != nil {
			return fmt.Errorf("epoch %d: %w", e, err)
		}
	}
	return nil
}

// Loss returns the mean squared error of the network over the dataset.
func (n *Network) Loss(inputs, targets [][]float64) (float64, error) {
	if err := n.checkDataset("Network.Loss", inputs, targets); err != nil {
		return 0, err
	}
	return MSE(n, inputs, targets)
}

func (n *Network) checkDataset(op string, inputs, targets [][]float64) error {
	if err := checkLen(op, "targets", len(targets), len(inputs)); err != nil {
		return err
	}
	for i := range inputs {
		if err := checkLen(op, fmt.Sprintf("input %d", i), len(inputs[i]), n.InputWidth()); err != nil {
			return err
		}
		if err := checkLen(op, fmt.Sprintf("target %d", i), len(targets[i]), n.OutputWidth()); err != nil {
			return err
		}
	}
	return nil
}

// Layers returns the network's layers in order.
func (n *Network) Layers() []*Layer { return slices.Clone(n.layers) }

// Layer returns layer i.
func (n *Network) Layer(i int) *Layer { return n.layers[i] }

// Len returns the number of layers.
func (n *Network) Len() int { return len(n.layers) }

// InputWidth returns the width of the first layer's input.
func (n *Network) InputWidth() int { return n.layers[0].InputWidth() }

// OutputWidth returns the number of nodes in the last layer.
func (n *Network) OutputWidth() int { return n.layers[len(n.layers)-1].Len() }

// StateDict returns the network parameters as named tensors.
//
// Layer i contributes "<i>.weight" with shape [nodes, inputs] and "<i>.bias"
// with shape [nodes].
func (n *Network) StateDict() map[string]serialization.Tensor {
	state := make(map[string]serialization.Tensor, 2*len(n.layers))
	for i, layer := range n.layers {
		w := layer.Weights()
		rows, cols := w.Dims()
		state[weightKey(i)] = serialization.Tensor{Shape: []int{rows, cols}, Data: w.RawMatrix().Data}
		state[biasKey(i)] = serialization.Tensor{Shape: []int{rows}, Data: layer.Biases()}
	}
	return state
}

// LoadStateDict replaces the network parameters.
//
// Every tensor is checked before any parameter is written, so a failed load
// leaves the network unchanged.
func (n *Network) LoadStateDict(state map[string]serialization.Tensor) error {
	for i, layer := range n.layers {
		w, ok := state[weightKey(i)]
		if !ok {
			return fmt.Errorf("%w: %s", serialization.ErrTensorNotFound, weightKey(i))
		}
		if !slices.Equal(w.Shape, []int{layer.Len(), layer.InputWidth()}) || len(w.Data) != layer.Len()*layer.InputWidth() {
			return fmt.Errorf("%w: %s has shape %v, want [%d %d]",
				ErrDimensionMismatch, weightKey(i), w.Shape, layer.Len(), layer.InputWidth())
		}

		b, ok := state[biasKey(i)]
		if !ok {
			return fmt.Errorf("%w: %s", serialization.ErrTensorNotFound, biasKey(i))
		}
		if !slices.Equal(b.Shape, []int{layer.Len()}) || len(b.Data) != layer.Len() {
			return fmt.Errorf("%w: %s has shape %v, want [%d]", ErrDimensionMismatch, biasKey(i), b.Shape, layer.Len())
		}
	}

	for i, layer := range n.layers {
		w := state[weightKey(i)].Data
		b := state[biasKey(i)].Data
		width := layer.InputWidth()
		for j, node := range layer.nodes {
			copy(node.weights, w[j*width:(j+1)*width])
			node.bias = b[j]
		}
	}
	return nil
}

func weightKey(layer int) string { return fmt.Sprintf("%d.weight", layer) }

func biasKey(layer int) string { return fmt.Sprintf("%d.bias", layer) }
