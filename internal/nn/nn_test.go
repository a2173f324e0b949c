package nn_test

import (
	"errors"
	"math"
	"testing"

	"github.com/born-ml/classic/internal/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"
)

var (
	gateInputs = [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	andTargets = [][]float64{{0}, {0}, {0}, {1}}
	xorTargets = [][]float64{{0}, {1}, {1}, {0}}
)

func mustLayer(t *testing.T, nodes ...*nn.Node) *nn.Layer {
	t.Helper()
	layer, err := nn.NewLayer(nodes...)
	require.NoError(t, err)
	return layer
}

func mustNetwork(t *testing.T, layers ...*nn.Layer) *nn.Network {
	t.Helper()
	net, err := nn.NewNetwork(layers...)
	require.NoError(t, err)
	return net
}

// TestNodeActivate checks the sigmoid of the weighted sum.
func TestNodeActivate(t *testing.T) {
	tests := []struct {
		w, b, x float64
	}{
		{0.5, 0.1, 2},
		{-1.3, 0.7, 0.25},
		{3, -2, -1},
		{0, 0, 100},
	}

	for _, tt := range tests {
		node := nn.NewNode([]float64{tt.w}, tt.b, 0.1, nn.Sigmoid{})
		got, err := node.Activate([]float64{tt.x})
		require.NoError(t, err)

		want := 1 / (1 + math.Exp(-(tt.w*tt.x + tt.b)))
		assert.InDelta(t, want, got, 1e-6)
		assert.Equal(t, got, node.Output())
	}
}

func TestNodeActivate_Idempotent(t *testing.T) {
	node := nn.NewNode([]float64{0.4, -0.9, 1.1}, 0.2, 0.1, nn.Sigmoid{})
	input := []float64{1, 0.5, -2}

	first, err := node.Activate(input)
	require.NoError(t, err)
	second, err := node.Activate(input)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	net := mustNetwork(t,
		mustLayer(t, nn.NewNode([]float64{0.5, -0.4}, 0.1, 0.5, nil), nn.NewNode([]float64{-0.3, 0.6}, -0.2, 0.5, nil)),
		mustLayer(t, nn.NewNode([]float64{0.7, 0.8}, -0.1, 0.5, nil)),
	)
	a, err := net.Activate([]float64{1, 0})
	require.NoError(t, err)
	b, err := net.Activate([]float64{1, 0})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNodeDimensionMismatch(t *testing.T) {
	node := nn.NewNode([]float64{1, 2}, 0, 0.1, nn.Sigmoid{})

	_, err := node.Activate([]float64{1})
	require.ErrorIs(t, err, nn.ErrDimensionMismatch)

	var dimErr *nn.DimensionError
	require.True(t, errors.As(err, &dimErr))
	assert.Equal(t, "Node.Activate", dimErr.Op)
	assert.Equal(t, 1, dimErr.Got)
	assert.Equal(t, 2, dimErr.Want)

	assert.ErrorIs(t, node.ErrorHidden([]float64{1, 2}, []float64{1}), nn.ErrDimensionMismatch)
	assert.ErrorIs(t, node.CalculateGradients([]float64{1, 2, 3}), nn.ErrDimensionMismatch)
}

func TestNodeTrainingStep(t *testing.T) {
	node := nn.NewNode([]float64{0.2, -0.1}, 0.05, 0.5, nn.Sigmoid{})
	input := []float64{1, 0.5}

	o, err := node.Activate(input)
	require.NoError(t, err)

	e := node.ErrorOutput(1)
	assert.InDelta(t, o*(1-o)*-(1-o), e, 1e-15)

	require.NoError(t, node.CalculateGradients(input))
	assert.InDeltaSlice(t, []float64{e, e * 0.5}, node.Gradients(), 1e-15)

	require.NoError(t, node.CalculateDeltaWeights())
	node.CalculateDeltaBias()
	assert.InDeltaSlice(t, []float64{0.5 * e, 0.25 * e}, node.DeltaWeights(), 1e-15)
	assert.InDelta(t, 0.5*e, node.DeltaBias(), 1e-15)

	require.NoError(t, node.UpdateWeights())
	node.UpdateBias()
	assert.InDeltaSlice(t, []float64{0.2 - 0.5*e, -0.1 - 0.25*e}, node.Weights(), 1e-15)
	assert.InDelta(t, 0.05-0.5*e, node.Bias(), 1e-15)
}

func TestNodeCopiesWeights(t *testing.T) {
	w := []float64{1, 2}
	node := nn.NewNode(w, 0, 0.1, nil)
	w[0] = 99

	assert.Equal(t, []float64{1, 2}, node.Weights())
	assert.Equal(t, nn.Sigmoid{}, node.Activation())

	got := node.Weights()
	got[1] = 99
	assert.Equal(t, []float64{1, 2}, node.Weights())
}

func gate(t *testing.T, node *nn.Node) []float64 {
	t.Helper()
	out := make([]float64, len(gateInputs))
	for i, in := range gateInputs {
		var err error
		out[i], err = node.Activate(in)
		require.NoError(t, err)
	}
	return out
}

func TestPerceptronGates(t *testing.T) {
	assert.Equal(t, []float64{0, 0, 0, 1}, gate(t, nn.NewPerceptron([]float64{1, 1}, -2)), "AND")
	assert.Equal(t, []float64{0, 0, 0, 1}, gate(t, nn.NewPerceptron([]float64{0.5, 0.5}, -1)), "AND (half weights)")
	assert.Equal(t, []float64{0, 1, 1, 1}, gate(t, nn.NewPerceptron([]float64{1, 1}, -1)), "OR")

	p := nn.NewPerceptron([]float64{1, 1}, -1)
	assert.Zero(t, p.LearningRate())
	assert.Equal(t, nn.Step{}, p.Activation())
}

// TestHalfAdder wires XOR-decomposing perceptrons into [carry, sum].
func TestHalfAdder(t *testing.T) {
	hidden := mustLayer(t,
		nn.NewPerceptron([]float64{1, -1}, -1),
		nn.NewPerceptron([]float64{-1, 1}, -1),
		nn.NewPerceptron([]float64{1, 1}, -2),
	)
	output := mustLayer(t,
		nn.NewPerceptron([]float64{0, 0, 1}, -1),
		nn.NewPerceptron([]float64{1, 1, 0}, -1),
	)
	net := mustNetwork(t, hidden, output)

	want := [][]float64{{0, 0}, {0, 1}, {0, 1}, {1, 0}}
	for i, in := range gateInputs {
		got, err := net.Activate(in)
		require.NoError(t, err)
		assert.Equal(t, want[i], got, "input %v", in)
	}
}

func TestTrainAND(t *testing.T) {
	layer, err := nn.NewDenseLayer(2, 1, 0.5, nn.Sigmoid{}, nn.NewRand(7))
	require.NoError(t, err)
	net := mustNetwork(t, layer)

	before, err := net.Loss(gateInputs, andTargets)
	require.NoError(t, err)

	require.NoError(t, net.Train(gateInputs, andTargets, 1000))

	loss, err := net.Loss(gateInputs, andTargets)
	require.NoError(t, err)
	assert.Less(t, loss, 0.01)
	assert.Less(t, loss, before)

	for i, in := range gateInputs {
		out, err := net.Predict(in)
		require.NoError(t, err)
		assert.Equal(t, andTargets[i][0], math.Round(out[0]), "input %v", in)
	}
}

func xorNetwork(t *testing.T) *nn.Network {
	t.Helper()
	return mustNetwork(t,
		mustLayer(t,
			nn.NewNode([]float64{0.5, -0.4}, 0.1, 0.5, nn.Sigmoid{}),
			nn.NewNode([]float64{-0.3, 0.6}, -0.2, 0.5, nn.Sigmoid{}),
		),
		mustLayer(t, nn.NewNode([]float64{0.7, 0.8}, -0.1, 0.5, nn.Sigmoid{})),
	)
}

func TestTrainXOR(t *testing.T) {
	net := xorNetwork(t)
	require.NoError(t, net.Train(gateInputs, xorTargets, 5000))

	for i, in := range gateInputs {
		out, err := net.Activate(in)
		require.NoError(t, err)
		assert.InDelta(t, xorTargets[i][0], out[0], 0.1, "input %v", in)
	}
}

// TestBackpropGradient checks backprop against central finite differences
// of ½·Σ(t-o)² for a 2-3-2 network. With learning rate 1 the parameter
// change of one step equals the gradient.
func TestBackpropGradient(t *testing.T) {
	params := []float64{
		0.15, -0.2, 0.4, 0.35, -0.5, 0.1, // 0.weight [3x2]
		0.05, -0.1, 0.2, // 0.bias
		0.3, -0.6, 0.25, 0.45, 0.1, -0.35, // 1.weight [2x3]
		-0.05, 0.15, // 1.bias
	}
	input := []float64{0.3, -0.7}
	target := []float64{0.9, 0.1}

	build := func(p []float64) *nn.Network {
		hidden := mustLayer(t,
			nn.NewNode(p[0:2], p[6], 1, nn.Sigmoid{}),
			nn.NewNode(p[2:4], p[7], 1, nn.Sigmoid{}),
			nn.NewNode(p[4:6], p[8], 1, nn.Sigmoid{}),
		)
		output := mustLayer(t,
			nn.NewNode(p[9:12], p[15], 1, nn.Sigmoid{}),
			nn.NewNode(p[12:15], p[16], 1, nn.Sigmoid{}),
		)
		return mustNetwork(t, hidden, output)
	}
	loss := func(p []float64) float64 {
		out, err := build(p).Activate(input)
		require.NoError(t, err)
		var sum float64
		for i := range out {
			d := target[i] - out[i]
			sum += 0.5 * d * d
		}
		return sum
	}

	want := fd.Gradient(nil, loss, params, &fd.Settings{Formula: fd.Central})

	net := build(params)
	_, err := net.Activate(input)
	require.NoError(t, err)
	require.NoError(t, net.Backprop(input, target))

	state := net.StateDict()
	var updated []float64
	for _, name := range []string{"0.weight", "0.bias", "1.weight", "1.bias"} {
		updated = append(updated, state[name].Data...)
	}
	require.Len(t, updated, len(params))

	for i := range params {
		assert.InDelta(t, want[i], params[i]-updated[i], 1e-6, "parameter %d", i)
	}
}

// TestBackpropUsesPreUpdateWeights checks that hidden errors are computed
// from the output layer's weights as they were before the step.
func TestBackpropUsesPreUpdateWeights(t *testing.T) {
	net := xorNetwork(t)
	input := []float64{1, 1}
	outWeights := net.Layer(1).Weights()

	_, err := net.Activate(input)
	require.NoError(t, err)
	require.NoError(t, net.Backprop(input, []float64{0}))

	outErr := net.Layer(1).Errors()[0]
	for i, node := range net.Layer(0).Nodes() {
		o := node.Output()
		want := o * (1 - o) * outWeights.At(0, i) * outErr
		assert.InDelta(t, want, node.Error(), 1e-15)
	}
	assert.False(t, mat.Equal(outWeights, net.Layer(1).Weights()), "output weights should have moved")
}

func TestBackpropKeepsLayerOrder(t *testing.T) {
	net := xorNetwork(t)
	first, last := net.Layer(0), net.Layer(1)

	require.NoError(t, net.Epoch(gateInputs, xorTargets))

	assert.Same(t, first, net.Layer(0))
	assert.Same(t, last, net.Layer(1))
	assert.Equal(t, 2, net.Layer(0).Len())
}

func TestBackpropWithoutForwardPass(t *testing.T) {
	net := xorNetwork(t)
	assert.ErrorIs(t, net.Backprop([]float64{0, 1}, []float64{1}), nn.ErrNoForwardPass)
}

func TestBackpropRejectsStaleForwardPass(t *testing.T) {
	net := xorNetwork(t)
	state := net.StateDict()

	_, err := net.Activate([]float64{1, 0})
	require.NoError(t, err)

	err = net.Backprop([]float64{0, 1}, []float64{1})
	assert.ErrorIs(t, err, nn.ErrNoForwardPass)
	assert.Equal(t, state, net.StateDict(), "rejected step must not touch parameters")

	assert.NoError(t, net.Backprop([]float64{1, 0}, []float64{1}))
}

func TestNetworkDimensionMismatch(t *testing.T) {
	net := xorNetwork(t)
	state := net.StateDict()

	_, err := net.Activate([]float64{1})
	assert.ErrorIs(t, err, nn.ErrDimensionMismatch)

	_, err = net.Activate([]float64{1, 0})
	require.NoError(t, err)
	assert.ErrorIs(t, net.Backprop([]float64{1, 0}, []float64{1, 0}), nn.ErrDimensionMismatch)

	// One bad example rejects the whole epoch before any update.
	inputs := [][]float64{{0, 0}, {0, 1}, {1}}
	targets := [][]float64{{0}, {1}, {1}}
	assert.ErrorIs(t, net.Epoch(inputs, targets), nn.ErrDimensionMismatch)
	assert.ErrorIs(t, net.Train(gateInputs, xorTargets[:3], 10), nn.ErrDimensionMismatch)
	assert.Equal(t, state, net.StateDict())

	_, err = net.Loss(gateInputs, [][]float64{{0}, {1}, {1}, {0, 1}})
	assert.ErrorIs(t, err, nn.ErrDimensionMismatch)
}

func TestLayerDimensionMismatch(t *testing.T) {
	_, err := nn.NewLayer(nn.NewNode([]float64{1, 2}, 0, 0.1, nil), nn.NewNode([]float64{1}, 0, 0.1, nil))
	assert.ErrorIs(t, err, nn.ErrDimensionMismatch)

	_, err = nn.NewLayer()
	assert.ErrorIs(t, err, nn.ErrEmptyLayer)

	_, err = nn.NewDenseLayer(0, 3, 0.1, nil, nil)
	assert.ErrorIs(t, err, nn.ErrInvalidSize)

	layer := mustLayer(t, nn.NewNode([]float64{1, 2}, 0, 0.1, nil), nn.NewNode([]float64{3, 4}, 0, 0.1, nil))
	assert.ErrorIs(t, layer.ErrorsOutput([]float64{1}), nn.ErrDimensionMismatch)
	assert.ErrorIs(t, layer.ErrorsHidden(mat.NewDense(1, 3, nil), []float64{1}), nn.ErrDimensionMismatch)
	assert.ErrorIs(t, layer.ErrorsHidden(mat.NewDense(2, 2, nil), []float64{1}), nn.ErrDimensionMismatch)
	assert.ErrorIs(t, layer.CalculateGradients([]float64{1}), nn.ErrDimensionMismatch)
}

// TestLayerErrorsHidden checks that node i receives column i of the next
// layer's weights.
func TestLayerErrorsHidden(t *testing.T) {
	layer := mustLayer(t,
		nn.NewNode([]float64{1}, 0, 0.1, nn.Sigmoid{}),
		nn.NewNode([]float64{-1}, 0, 0.1, nn.Sigmoid{}),
	)
	outs, err := layer.Activate([]float64{0.5})
	require.NoError(t, err)

	next := mat.NewDense(3, 2, []float64{
		1, 2,
		3, 4,
		5, 6,
	})
	nextErrors := []float64{0.1, -0.2, 0.3}
	require.NoError(t, layer.ErrorsHidden(next, nextErrors))

	sums := []float64{1*0.1 + 3*-0.2 + 5*0.3, 2*0.1 + 4*-0.2 + 6*0.3}
	for i, o := range outs {
		assert.InDelta(t, o*(1-o)*sums[i], layer.Errors()[i], 1e-15)
	}
}

func TestLayerWeights(t *testing.T) {
	layer := mustLayer(t,
		nn.NewNode([]float64{1, 2, 3}, 0.5, 0.1, nil),
		nn.NewNode([]float64{4, 5, 6}, -0.5, 0.1, nil),
	)

	w := layer.Weights()
	assert.True(t, mat.Equal(mat.NewDense(2, 3, []float64{1, 2, 3, 4, 5, 6}), w))
	assert.Equal(t, []float64{0.5, -0.5}, layer.Biases())
	assert.Equal(t, 3, layer.InputWidth())

	w.Set(0, 0, 100)
	assert.Equal(t, []float64{1, 2, 3}, layer.Node(0).Weights())
}

func TestNewNetwork(t *testing.T) {
	_, err := nn.NewNetwork()
	assert.ErrorIs(t, err, nn.ErrEmptyNetwork)

	a := mustLayer(t, nn.NewNode([]float64{1, 2}, 0, 0.1, nil))
	b := mustLayer(t, nn.NewNode([]float64{1, 2}, 0, 0.1, nil))
	_, err = nn.NewNetwork(a, b)
	assert.ErrorIs(t, err, nn.ErrDimensionMismatch)

	_, err = nn.NewRandomNetwork([]int{2}, 0.1, nil, nil)
	assert.ErrorIs(t, err, nn.ErrEmptyNetwork)

	net, err := nn.NewRandomNetwork([]int{2, 4, 3, 1}, 0.1, nn.Tanh{}, nn.NewRand(5))
	require.NoError(t, err)
	assert.Equal(t, 3, net.Len())
	assert.Equal(t, 2, net.InputWidth())
	assert.Equal(t, 1, net.OutputWidth())
	assert.Equal(t, nn.Tanh{}, net.Layer(1).Node(2).Activation())
}

func TestStateDict(t *testing.T) {
	net := xorNetwork(t)
	state := net.StateDict()

	assert.Equal(t, []int{2, 2}, state["0.weight"].Shape)
	assert.Equal(t, []float64{0.5, -0.4, -0.3, 0.6}, state["0.weight"].Data)
	assert.Equal(t, []float64{0.1, -0.2}, state["0.bias"].Data)
	assert.Equal(t, []int{1, 2}, state["1.weight"].Shape)

	other, err := nn.NewRandomNetwork([]int{2, 2, 1}, 0.5, nn.Sigmoid{}, nn.NewRand(9))
	require.NoError(t, err)
	require.NoError(t, other.LoadStateDict(state))
	assert.Equal(t, state, other.StateDict())

	delete(state, "1.bias")
	assert.Error(t, other.LoadStateDict(state))

	small, err := nn.NewRandomNetwork([]int{2, 3, 1}, 0.5, nn.Sigmoid{}, nil)
	require.NoError(t, err)
	before := small.StateDict()
	assert.ErrorIs(t, small.LoadStateDict(net.StateDict()), nn.ErrDimensionMismatch)
	assert.Equal(t, before, small.StateDict())
}

func TestTrainConfig(t *testing.T) {
	cfg := nn.DefaultConfig()
	net, err := cfg.Build(2, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, net.Len())
	assert.Equal(t, cfg.LearningRate, net.Layer(0).Node(0).LearningRate())

	again, err := cfg.Build(2, 1)
	require.NoError(t, err)
	assert.Equal(t, net.StateDict(), again.StateDict())

	cfg.Activation = "gelu"
	_, err = cfg.Build(2, 1)
	assert.ErrorIs(t, err, nn.ErrUnknownActivation)
}
