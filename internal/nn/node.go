package nn

import (
	"slices"

	"gonum.org/v1/gonum/floats"
)

// Node is a single neuron: a weight per input, a bias, a learning rate and an
// activation.
//
// Besides its parameters a node keeps the transient state of the most recent
// forward and backward pass (output, error term, gradients and deltas) so
// a Layer can drive backpropagation one step at a time.
type Node struct {
	weights      []float64
	bias         float64
	learningRate float64
	act          Activation

	output       float64
	err          float64
	gradients    []float64
	deltaWeights []float64
	deltaBias    float64
}

// NewNode creates a node. The weight slice is copied; a nil activation means
// Sigmoid.
func NewNode(weights []float64, bias, learningRate float64, act Activation) *Node {
	if act == nil {
		act = Sigmoid{}
	}
	return &Node{
		weights:      slices.Clone(weights),
		bias:         bias,
		learningRate: learningRate,
		act:          act,
		gradients:    make([]float64, len(weights)),
		deltaWeights: make([]float64, len(weights)),
	}
}

// NewPerceptron creates a fixed threshold node (Step activation, learning
// rate 0).
//
// Example (AND gate):
//
//	and := nn.NewPerceptron([]float64{1, 1}, -2)
//	out, _ := and.Activate([]float64{1, 1}) // 1
func NewPerceptron(weights []float64, bias float64) *Node {
	return NewNode(weights, bias, 0, Step{})
}

// Activate computes act(Σ w·x + b) and caches it as the node output.
func (n *Node) Activate(input []float64) (float64, error) {
	if err := checkLen("Node.Activate", "input", len(input), len(n.weights)); err != nil {
		return 0, err
	}
	n.output = n.act.Activate(floats.Dot(n.weights, input) + n.bias)
	return n.output, nil
}

// ErrorOutput sets the error term of an output node: act'(o) · -(target - o).
func (n *Node) ErrorOutput(target float64) float64 {
	n.err = n.act.Derivative(n.output) * -(target - n.output)
	return n.err
}

// ErrorHidden sets the error term of a hidden node from the weights that
// connect it to each node of the next layer and those nodes' errors:
// act'(o) · Σ w_j·e_j.
func (n *Node) ErrorHidden(nextWeights, nextErrors []float64) error {
	if err := checkLen("Node.ErrorHidden", "next layer errors", len(nextErrors), len(nextWeights)); err != nil {
		return err
	}
	n.err = n.act.Derivative(n.output) * floats.Dot(nextWeights, nextErrors)
	return nil
}

// CalculateGradients sets gradient[i] = error · prev[i].
func (n *Node) CalculateGradients(prev []float64) error {
	if err := checkLen("Node.CalculateGradients", "previous outputs", len(prev), len(n.weights)); err != nil {
		return err
	}
	floats.ScaleTo(n.gradients, n.err, prev)
	return nil
}

// CalculateDeltaWeights scales the gradients by the learning rate.
func (n *Node) CalculateDeltaWeights() error {
	if err := checkLen("Node.CalculateDeltaWeights", "gradients", len(n.gradients), len(n.weights)); err != nil {
		return err
	}
	floats.ScaleTo(n.deltaWeights, n.learningRate, n.gradients)
	return nil
}

// CalculateDeltaBias scales the error term by the learning rate.
func (n *Node) CalculateDeltaBias() {
	n.deltaBias = n.learningRate * n.err
}

// UpdateWeights subtracts the weight deltas (one gradient descent step).
func (n *Node) UpdateWeights() error {
	if err := checkLen("Node.UpdateWeights", "delta weights", len(n.deltaWeights), len(n.weights)); err != nil {
		return err
	}
	floats.Sub(n.weights, n.deltaWeights)
	return nil
}

// UpdateBias subtracts the bias delta.
func (n *Node) UpdateBias() {
	n.bias -= n.deltaBias
}

// update runs the delta and update steps for weights and bias.
func (n *Node) update() error {
	if err := n.CalculateDeltaWeights(); err != nil {
		return err
	}
	n.CalculateDeltaBias()
	if err := n.UpdateWeights(); err != nil {
		return err
	}
	n.UpdateBias()
	return nil
}

// Weights returns a copy of the weights.
func (n *Node) Weights() []float64 { return slices.Clone(n.weights) }

// Bias returns the bias.
func (n *Node) Bias() float64 { return n.bias }

// LearningRate returns the learning rate.
func (n *Node) LearningRate() float64 { return n.learningRate }

// Activation returns the node's activation.
func (n *Node) Activation() Activation { return n.act }

// NumInputs returns the number of weights.
func (n *Node) NumInputs() int { return len(n.weights) }

// Output returns the output of the last Activate call.
func (n *Node) Output() float64 { return n.output }

// Error returns the error term of the last backward pass.
func (n *Node) Error() float64 { return n.err }

// Gradients returns a copy of the last gradients.
func (n *Node) Gradients() []float64 { return slices.Clone(n.gradients) }

// DeltaWeights returns a copy of the last weight deltas.
func (n *Node) DeltaWeights() []float64 { return slices.Clone(n.deltaWeights) }

// DeltaBias returns the last bias delta.
func (n *Node) DeltaBias() float64 { return n.deltaBias }
