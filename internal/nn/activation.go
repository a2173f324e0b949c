package nn

import (
	"fmt"
	"math"
)

// Activation maps a node's weighted sum to its output.
//
// Derivative is expressed in terms of the already activated output, which
// is what backpropagation has at hand: for the sigmoid σ'(z) = o·(1-o).
//
// Implementations must be stateless; one value is shared by every node that
// uses it.
type Activation interface {
	// Activate applies the nonlinearity to the weighted sum z.
	Activate(z float64) float64

	// Derivative returns dσ/dz given the output o = Activate(z).
	Derivative(output float64) float64

	// Name identifies the activation in checkpoints.
	Name() string
}

// Sigmoid is the logistic activation.
//
// Applies the function: σ(z) = 1 / (1 + exp(-z))
//
// Sigmoid squashes values to the range (0, 1). It is the default activation
// of trainable nodes.
type Sigmoid struct{}

// Activate returns 1 / (1 + exp(-z)).
func (Sigmoid) Activate(z float64) float64 {
	return 1.0 / (1.0 + math.Exp(-z))
}

// Derivative returns o·(1-o).
func (Sigmoid) Derivative(output float64) float64 {
	return output * (1.0 - output)
}

// Name returns "sigmoid".
func (Sigmoid) Name() string { return "sigmoid" }

// Step is the perceptron threshold: 1 when z >= 0, else 0.
//
// Its derivative is zero everywhere it is defined, so step nodes do not
// learn through backpropagation. They are used for hand-wired logic gates.
type Step struct{}

// Activate returns 1 for z >= 0 and 0 otherwise.
func (Step) Activate(z float64) float64 {
	if z >= 0 {
		return 1
	}
	return 0
}

// Derivative always returns 0.
func (Step) Derivative(float64) float64 { return 0 }

// Name returns "step".
func (Step) Name() string { return "step" }

// Tanh is the hyperbolic tangent activation, with outputs in (-1, 1).
type Tanh struct{}

// Activate returns tanh(z).
func (Tanh) Activate(z float64) float64 {
	return math.Tanh(z)
}

// Derivative returns 1 - o².
func (Tanh) Derivative(output float64) float64 {
	return 1.0 - output*output
}

// Name returns "tanh".
func (Tanh) Name() string { return "tanh" }

// ReLU is a Rectified Linear Unit: f(z) = max(0, z).
type ReLU struct{}

// Activate returns max(0, z).
func (ReLU) Activate(z float64) float64 {
	return math.Max(0, z)
}

// Derivative returns 1 for positive outputs and 0 otherwise.
func (ReLU) Derivative(output float64) float64 {
	if output > 0 {
		return 1
	}
	return 0
}

// Name returns "relu".
func (ReLU) Name() string { return "relu" }

// ActivationByName resolves a name written by Activation.Name.
func ActivationByName(name string) (Activation, error) {
	switch name {
	case Sigmoid{}.Name():
		return Sigmoid{}, nil
	case Step{}.Name():
		return Step{}, nil
	case Tanh{}.Name():
		return Tanh{}, nil
	case ReLU{}.Name():
		return ReLU{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownActivation, name)
	}
}
