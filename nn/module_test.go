// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"bytes"
	"testing"

	"github.com/born-ml/classic/nn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestModuleInterface verifies that concrete types implement Module interface.
func TestModuleInterface(t *testing.T) {
	layer, err := nn.NewDenseLayer(3, 2, 0.1, nn.Sigmoid{}, nn.NewRand(1))
	require.NoError(t, err)
	net, err := nn.NewRandomNetwork([]int{3, 4, 2}, 0.1, nn.Tanh{}, nn.NewRand(1))
	require.NoError(t, err)

	tests := []struct {
		name   string
		module nn.Module
	}{
		{name: "Layer", module: layer},
		{name: "Network", module: net},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tt.module.Activate([]float64{0.1, 0.2, 0.3})
			require.NoError(t, err)
			assert.Len(t, out, 2)

			_, err = tt.module.Activate([]float64{0.1})
			assert.ErrorIs(t, err, nn.ErrDimensionMismatch)
		})
	}
}

func TestFacadeTrainAndCheckpoint(t *testing.T) {
	cfg := nn.DefaultConfig()
	cfg.Seed = 3
	net, err := nn.NewRandomNetwork([]int{2, 1}, 0.5, nn.Sigmoid{}, nn.NewRand(cfg.Seed))
	require.NoError(t, err)

	inputs := [][]float64{{0, 0}, {0, 1}, {1, 0}, {1, 1}}
	targets := [][]float64{{0}, {1}, {1}, {1}}
	require.NoError(t, net.Train(inputs, targets, 1000))

	loss, err := nn.MSE(net, inputs, targets)
	require.NoError(t, err)
	assert.Less(t, loss, 0.05)

	var buf bytes.Buffer
	require.NoError(t, nn.SaveCheckpoint(&buf, net, nn.Checkpoint{Epoch: 1000, Loss: loss}))
	loaded, ckpt, err := nn.LoadCheckpoint(&buf)
	require.NoError(t, err)
	assert.Equal(t, 1000, ckpt.Epoch)
	assert.Equal(t, net.StateDict(), loaded.StateDict())
}
