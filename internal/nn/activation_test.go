package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
)

// TestActivationValues checks each activation at a few points.
func TestActivationValues(t *testing.T) {
	tests := []struct {
		act  Activation
		z    float64
		want float64
	}{
		{Sigmoid{}, 0, 0.5},
		{Sigmoid{}, 2, 0.8807970779778823},
		{Sigmoid{}, -2, 0.11920292202211755},
		{Step{}, 0, 1},
		{Step{}, -1e-12, 0},
		{Step{}, 3, 1},
		{Tanh{}, 0, 0},
		{Tanh{}, 1, math.Tanh(1)},
		{ReLU{}, -3, 0},
		{ReLU{}, 2.5, 2.5},
	}

	for _, tt := range tests {
		got := tt.act.Activate(tt.z)
		if math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("%s(%v) = %v, want %v", tt.act.Name(), tt.z, got, tt.want)
		}
	}
}

// TestActivationDerivative compares Derivative(Activate(z)) with a central
// finite difference of Activate.
func TestActivationDerivative(t *testing.T) {
	for _, act := range []Activation{Sigmoid{}, Tanh{}, ReLU{}} {
		for _, z := range []float64{-2, -0.5, 0.3, 1.7} {
			want := fd.Derivative(act.Activate, z, &fd.Settings{Formula: fd.Central})
			got := act.Derivative(act.Activate(z))
			assert.InDelta(t, want, got, 1e-6, "%s'(%v)", act.Name(), z)
		}
	}

	assert.Zero(t, Step{}.Derivative(1))
	assert.Zero(t, Step{}.Derivative(0))
}

func TestActivationByName(t *testing.T) {
	for _, act := range []Activation{Sigmoid{}, Step{}, Tanh{}, ReLU{}} {
		got, err := ActivationByName(act.Name())
		require.NoError(t, err)
		assert.Equal(t, act, got)
	}

	_, err := ActivationByName("softmax")
	assert.ErrorIs(t, err, ErrUnknownActivation)
}

func TestXavierUniform(t *testing.T) {
	w := XavierUniform(3, 5, NewRand(42))
	require.Len(t, w, 15)

	bound := math.Sqrt(6.0 / 8.0)
	for _, v := range w {
		assert.LessOrEqual(t, math.Abs(v), bound)
	}

	// Same seed, same weights.
	assert.Equal(t, w, XavierUniform(3, 5, NewRand(42)))
	// Zero seed is the default seed.
	assert.Equal(t, XavierUniform(3, 5, NewRand(DefaultSeed)), XavierUniform(3, 5, NewRand(0)))
	// A nil source is deterministic as well.
	assert.Equal(t, XavierUniform(3, 5, NewRand(0)), XavierUniform(3, 5, nil))

	assert.Nil(t, XavierUniform(0, 5, nil))
}

func TestUniform(t *testing.T) {
	values := Uniform(1000, -0.25, 0.75, NewRand(3))
	require.Len(t, values, 1000)
	for _, v := range values {
		assert.GreaterOrEqual(t, v, -0.25)
		assert.Less(t, v, 0.75)
	}
	assert.Nil(t, Uniform(0, 0, 1, nil))
}
