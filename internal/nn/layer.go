package nn

import (
	"math/rand"
	"slices"

	"github.com/born-ml/classic/internal/parallel"
	"gonum.org/v1/gonum/mat"
)

// Layer is an ordered group of nodes that all read the same input vector.
//
// Layer caches the activations and error terms of its most recent pass.
// Nodes are evaluated data-parallel for wide layers; each node only writes
// its own slot so results do not depend on scheduling.
type Layer struct {
	nodes       []*Node
	activations []float64
	errors      []float64
	parallel    parallel.Config
}

// NewLayer creates a layer from nodes that share the same input width.
func NewLayer(nodes ...*Node) (*Layer, error) {
	if len(nodes) == 0 {
		return nil, ErrEmptyLayer
	}
	width := nodes[0].NumInputs()
	if width == 0 {
		return nil, ErrInvalidSize
	}
	for _, node := range nodes[1:] {
		if err := checkLen("NewLayer", "node weights", node.NumInputs(), width); err != nil {
			return nil, err
		}
	}

	return &Layer{
		nodes:       slices.Clone(nodes),
		activations: make([]float64, len(nodes)),
		errors:      make([]float64, len(nodes)),
		parallel:    parallel.DefaultConfig(),
	}, nil
}

// NewDenseLayer creates a fully connected layer of outputs nodes with
// Xavier-initialized weights and zero biases.
//
// Example:
//
//	rng := nn.NewRand(42)
//	hidden, err := nn.NewDenseLayer(2, 4, 0.5, nn.Sigmoid{}, rng)
func NewDenseLayer(inputs, outputs int, learningRate float64, act Activation, rng *rand.Rand) (*Layer, error) {
	if inputs <= 0 || outputs <= 0 {
		return nil, ErrInvalidSize
	}
	weights := XavierUniform(inputs, outputs, rng)
	nodes := make([]*Node, outputs)
	for i := range nodes {
		nodes[i] = NewNode(weights[i*inputs:(i+1)*inputs], 0, learningRate, act)
	}
	return NewLayer(nodes...)
}

// Activate feeds input to every node and returns their outputs in node order.
//
// Every node's width is checked before any node runs, so a mismatch leaves
// the cached state untouched.
func (l *Layer) Activate(input []float64) ([]float64, error) {
	if err := checkLen("Layer.Activate", "input", len(input), l.InputWidth()); err != nil {
		return nil, err
	}

	err := parallel.ForErr(len(l.nodes), func(i int) error {
		out, err := l.nodes[i].Activate(input)
		l.activations[i] = out
		return err
	}, l.parallel)
	if err != nil {
		return nil, err
	}
	return slices.Clone(l.activations), nil
}

// ErrorsOutput assigns one target per node and computes output error terms.
func (l *Layer) ErrorsOutput(targets []float64) error {
	if err := checkLen("Layer.ErrorsOutput", "targets", len(targets), len(l.nodes)); err != nil {
		return err
	}
	for i, node := range l.nodes {
		l.errors[i] = node.ErrorOutput(targets[i])
	}
	return nil
}

// ErrorsHidden computes hidden error terms from the next layer.
//
// nextWeights has one row per node of the next layer and one column per node
// of this layer; column i holds the weights leaving node i.
func (l *Layer) ErrorsHidden(nextWeights *mat.Dense, nextErrors []float64) error {
	rows, cols := nextWeights.Dims()
	if err := checkLen("Layer.ErrorsHidden", "next layer weight columns", cols, len(l.nodes)); err != nil {
		return err
	}
	if err := checkLen("Layer.ErrorsHidden", "next layer errors", len(nextErrors), rows); err != nil {
		return err
	}

	column := make([]float64, rows)
	for i, node := range l.nodes {
		mat.Col(column, i, nextWeights)
		if err := node.ErrorHidden(column, nextErrors); err != nil {
			return err
		}
		l.errors[i] = node.Error()
	}
	return nil
}

// CalculateGradients computes every node's gradients from the same previous
// layer outputs.
func (l *Layer) CalculateGradients(prev []float64) error {
	if err := checkLen("Layer.CalculateGradients", "previous outputs", len(prev), l.InputWidth()); err != nil {
		return err
	}
	for _, node := range l.nodes {
		if err := node.CalculateGradients(prev); err != nil {
			return err
		}
	}
	return nil
}

// Update applies the gradient descent step to every node.
func (l *Layer) Update() error {
	for _, node := range l.nodes {
		if err := node.update(); err != nil {
			return err
		}
	}
	return nil
}

// Weights returns a copy of the weight matrix: one row per node.
func (l *Layer) Weights() *mat.Dense {
	w := mat.NewDense(len(l.nodes), l.InputWidth(), nil)
	for i, node := range l.nodes {
		w.SetRow(i, node.weights)
	}
	return w
}

// Biases returns a copy of the node biases.
func (l *Layer) Biases() []float64 {
	b := make([]float64, len(l.nodes))
	for i, node := range l.nodes {
		b[i] = node.bias
	}
	return b
}

// Activations returns the outputs of the last Activate call.
func (l *Layer) Activations() []float64 { return slices.Clone(l.activations) }

// Errors returns the error terms of the last backward pass.
func (l *Layer) Errors() []float64 { return slices.Clone(l.errors) }

// Nodes returns the layer's nodes. The nodes themselves are shared.
func (l *Layer) Nodes() []*Node { return slices.Clone(l.nodes) }

// Node returns the node at index i.
func (l *Layer) Node(i int) *Node { return l.nodes[i] }

// Len returns the number of nodes, which is also the output width.
func (l *Layer) Len() int { return len(l.nodes) }

// InputWidth returns the number of inputs every node expects.
func (l *Layer) InputWidth() int { return l.nodes[0].NumInputs() }
