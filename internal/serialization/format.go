package serialization

import (
	"fmt"
	"time"
)

// Format constants.
const (
	MagicBytes      = "CLNN"
	FormatVersion   = 2    // Fixed 64-byte header with SHA-256 checksum
	HeaderAlignment = 64   // Tensor data starts on a 64-byte boundary
	FixedHeaderSize = 64   // Fixed header size (0x40 bytes)
	ChecksumSize    = 32   // SHA-256 checksum size (32 bytes)
	ChecksumOffset  = 0x20 // Checksum offset in the fixed header
	DTypeFloat64    = "float64"
	bytesPerFloat64 = 8
)

// Flags stored in the fixed header.
const (
	FlagHasMetadata   uint32 = 1 << 0 // bit 0: custom metadata included
	FlagHasCheckpoint uint32 = 1 << 1 // bit 1: training state included
)

// Header represents the JSON header of a checkpoint file.
type Header struct {
	FormatVersion int               `json:"format_version"`       // Version of the format
	ModelType     string            `json:"model_type"`           // Type of model (e.g., "Network")
	CreatedAt     time.Time         `json:"created_at"`           // When the file was created
	Tensors       []TensorMeta      `json:"tensors"`              // Tensor metadata
	Metadata      map[string]string `json:"metadata"`             // Custom metadata
	Checkpoint    *CheckpointMeta   `json:"checkpoint,omitempty"` // Training state (optional)
}

// CheckpointMeta contains training state information.
type CheckpointMeta struct {
	Epoch int     `json:"epoch"` // Number of completed epochs
	Loss  float64 `json:"loss"`  // Loss value at checkpoint
}

// TensorMeta describes a tensor in the file.
type TensorMeta struct {
	Name   string `json:"name"`   // Tensor name (e.g., "0.weight")
	DType  string `json:"dtype"`  // Always "float64"
	Shape  []int  `json:"shape"`  // Tensor shape
	Offset int64  `json:"offset"` // Offset in the data section
	Size   int64  `json:"size"`   // Size in bytes
}

// Tensor is a dense row-major float64 array.
type Tensor struct {
	Shape []int
	Data  []float64
}

// NewTensor creates a tensor and checks that data fills the shape exactly.
// Shapes larger than MaxDataSize bytes are rejected.
func NewTensor(shape []int, data []float64) (Tensor, error) {
	n, err := numElements(shape)
	if err != nil {
		return Tensor{}, err
	}
	if n != len(data) {
		return Tensor{}, fmt.Errorf("tensor shape %v holds %d values, got %d", shape, n, len(data))
	}
	return Tensor{Shape: append([]int(nil), shape...), Data: append([]float64(nil), data...)}, nil
}

// NumElements returns the number of values described by the shape.
func (t Tensor) NumElements() int {
	n, _ := numElements(t.Shape)
	return n
}
