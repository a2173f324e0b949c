// Package nn implements a small feedforward neural network trained with
// online backpropagation.
//
// The package is built from three layers of abstraction:
//   - Node: weights, bias, learning rate and an Activation
//   - Layer: nodes that read the same input vector
//   - Network: layers chained in order, with Activate / Backprop / Train
//
// Activations are a single polymorphic abstraction: Sigmoid for trainable
// nodes, Step for hand-wired perceptron gates, plus Tanh and ReLU.
//
// All length mismatches are returned as errors wrapping ErrDimensionMismatch;
// nothing is mutated when an operation rejects its input.
package nn

// Module is anything that maps an input vector to an output vector.
//
// Layer and Network both implement it; MSE works on any Module.
type Module interface {
	Activate(input []float64) ([]float64, error)
}

var (
	_ Module = (*Layer)(nil)
	_ Module = (*Network)(nil)
)
