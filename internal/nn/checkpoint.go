package nn

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/born-ml/classic/internal/serialization"
)

// ModelType is written to the header of every network checkpoint.
const ModelType = "Network"

// Metadata keys reserved by checkpoints. Per-node keys are
// "nn.<layer>.<node>.activation" and "nn.<layer>.<node>.learning_rate".
const (
	metaPrefix = "nn."
	metaLayers = metaPrefix + "layers"
)

// Checkpoint is the training state stored alongside the parameters.
//
// Example:
//
//	err := nn.SaveFile("xor.clnn", net, nn.Checkpoint{Epoch: 5000, Loss: loss})
//	...
//	net, ckpt, err := nn.Load("xor.clnn")
//	startEpoch := ckpt.Epoch + 1
type Checkpoint struct {
	Epoch    int               // Completed epochs
	Loss     float64           // Loss value at this checkpoint
	Metadata map[string]string // Caller metadata; keys starting with "nn." are reserved
}

// SaveCheckpoint writes net and its training state to w.
//
// Weights, biases, and each node's activation and learning rate are
// recorded, so LoadCheckpoint rebuilds an equivalent network on its own.
func SaveCheckpoint(w io.Writer, net *Network, ckpt Checkpoint) error {
	header, err := checkpointHeader(net, ckpt)
	if err != nil {
		return err
	}
	if err := serialization.NewWriter(w).WriteStateDict(net.StateDict(), header); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

// SaveFile writes a checkpoint to path, replacing any existing file.
func SaveFile(path string, net *Network, ckpt Checkpoint) error {
	header, err := checkpointHeader(net, ckpt)
	if err != nil {
		return err
	}
	if err := serialization.WriteFile(path, net.StateDict(), header); err != nil {
		return fmt.Errorf("failed to write checkpoint: %w", err)
	}
	return nil
}

// Save writes the network to path without training state.
func (n *Network) Save(path string) error {
	return SaveFile(path, n, Checkpoint{})
}

// LoadCheckpoint reads a network saved by SaveCheckpoint.
func LoadCheckpoint(r io.Reader) (*Network, Checkpoint, error) {
	state, header, err := serialization.ReadFrom(r, serialization.ReaderOptions{})
	if err != nil {
		return nil, Checkpoint{}, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	return fromState(state, header)
}

// Load reads a network checkpoint from path.
func Load(path string) (*Network, Checkpoint, error) {
	state, header, err := serialization.ReadFile(path, serialization.ReaderOptions{})
	if err != nil {
		return nil, Checkpoint{}, fmt.Errorf("failed to read checkpoint: %w", err)
	}
	return fromState(state, header)
}

func checkpointHeader(net *Network, ckpt Checkpoint) (serialization.Header, error) {
	header := serialization.Header{
		ModelType:  ModelType,
		Metadata:   make(map[string]string, len(ckpt.Metadata)+1),
		Checkpoint: &serialization.CheckpointMeta{Epoch: ckpt.Epoch, Loss: ckpt.Loss},
	}
	for k, v := range ckpt.Metadata {
		if strings.HasPrefix(k, metaPrefix) {
			return serialization.Header{}, fmt.Errorf("checkpoint metadata key %q uses reserved prefix %q", k, metaPrefix)
		}
		header.Metadata[k] = v
	}

	header.Metadata[metaLayers] = strconv.Itoa(net.Len())
	for i, layer := range net.layers {
		for j, node := range layer.nodes {
			header.Metadata[activationKey(i, j)] = node.act.Name()
			header.Metadata[learningRateKey(i, j)] = strconv.FormatFloat(node.learningRate, 'g', -1, 64)
		}
	}
	return header, nil
}

// fromState rebuilds a network from checkpoint tensors and metadata.
func fromState(state map[string]serialization.Tensor, header serialization.Header) (*Network, Checkpoint, error) {
	if header.ModelType != ModelType {
		return nil, Checkpoint{}, fmt.Errorf("%w: model type %q", ErrNotCheckpoint, header.ModelType)
	}
	numLayers, err := strconv.Atoi(header.Metadata[metaLayers])
	if err != nil || numLayers < 1 {
		return nil, Checkpoint{}, fmt.Errorf("%w: bad layer count %q", ErrNotCheckpoint, header.Metadata[metaLayers])
	}
	// Bounded by the tensors actually stored; a layer that is only partly
	// present is reported below by tensor name.
	if numLayers > len(state) {
		return nil, Checkpoint{}, fmt.Errorf("%w: layer count %d but only %d tensors",
			ErrNotCheckpoint, numLayers, len(state))
	}

	layers := make([]*Layer, numLayers)
	for i := range layers {
		w, ok := state[weightKey(i)]
		if !ok {
			return nil, Checkpoint{}, fmt.Errorf("%w: %s", serialization.ErrTensorNotFound, weightKey(i))
		}
		b, ok := state[biasKey(i)]
		if !ok {
			return nil, Checkpoint{}, fmt.Errorf("%w: %s", serialization.ErrTensorNotFound, biasKey(i))
		}
		if len(w.Shape) != 2 || len(b.Shape) != 1 || b.Shape[0] != w.Shape[0] {
			return nil, Checkpoint{}, fmt.Errorf("%w: layer %d has weight shape %v and bias shape %v",
				ErrDimensionMismatch, i, w.Shape, b.Shape)
		}

		rows, cols := w.Shape[0], w.Shape[1]
		nodes := make([]*Node, rows)
		for j := range nodes {
			act, err := ActivationByName(header.Metadata[activationKey(i, j)])
			if err != nil {
				return nil, Checkpoint{}, fmt.Errorf("layer %d node %d: %w", i, j, err)
			}
			lr, err := strconv.ParseFloat(header.Metadata[learningRateKey(i, j)], 64)
			if err != nil {
				return nil, Checkpoint{}, fmt.Errorf("layer %d node %d: bad learning rate: %w", i, j, err)
			}
			nodes[j] = NewNode(w.Data[j*cols:(j+1)*cols], b.Data[j], lr, act)
		}

		layer, err := NewLayer(nodes...)
		if err != nil {
			return nil, Checkpoint{}, fmt.Errorf("layer %d: %w", i, err)
		}
		layers[i] = layer
	}

	net, err := NewNetwork(layers...)
	if err != nil {
		return nil, Checkpoint{}, err
	}

	ckpt := Checkpoint{Metadata: make(map[string]string)}
	if header.Checkpoint != nil {
		ckpt.Epoch = header.Checkpoint.Epoch
		ckpt.Loss = header.Checkpoint.Loss
	}
	for k, v := range header.Metadata {
		if !strings.HasPrefix(k, metaPrefix) {
			ckpt.Metadata[k] = v
		}
	}
	return net, ckpt, nil
}

func activationKey(layer, node int) string {
	return fmt.Sprintf("%s%d.%d.activation", metaPrefix, layer, node)
}

func learningRateKey(layer, node int) string {
	return fmt.Sprintf("%s%d.%d.learning_rate", metaPrefix, layer, node)
}
