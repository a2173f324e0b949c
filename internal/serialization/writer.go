package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"time"
)

// Writer writes state dictionaries in checkpoint format.
type Writer struct {
	w io.Writer
}

// NewWriter creates a writer that encodes into w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// WriteStateDict writes a state dictionary with the given header.
//
// Tensor metadata, the format version and (if zero) the creation time are
// filled in by the writer; the remaining header fields are written as given.
func (w *Writer) WriteStateDict(stateDict map[string]Tensor, header Header) error {
	names := make([]string, 0, len(stateDict))
	for name := range stateDict {
		if err := ValidateTensorName(name); err != nil {
			return err
		}
		names = append(names, name)
	}
	sort.Strings(names)

	// Calculate tensor offsets and encode tensor data
	var currentOffset int64
	header.FormatVersion = FormatVersion
	header.Tensors = make([]TensorMeta, 0, len(names))
	if header.CreatedAt.IsZero() {
		header.CreatedAt = time.Now().UTC()
	}
	if header.Metadata == nil {
		header.Metadata = make(map[string]string)
	}

	var data []byte
	for _, name := range names {
		t := stateDict[name]
		n, err := numElements(t.Shape)
		if err != nil {
			return fmt.Errorf("tensor %s: %w", name, err)
		}
		if n != len(t.Data) {
			return &ValidationError{
				Type:    "shape_mismatch",
				Tensor:  name,
				Details: fmt.Sprintf("shape %v holds %d values, got %d", t.Shape, n, len(t.Data)),
			}
		}

		size := int64(n * bytesPerFloat64)
		header.Tensors = append(header.Tensors, TensorMeta{
			Name:   name,
			DType:  DTypeFloat64,
			Shape:  append([]int(nil), t.Shape...),
			Offset: currentOffset,
			Size:   size,
		})
		currentOffset += size

		for _, v := range t.Data {
			data = binary.LittleEndian.AppendUint64(data, math.Float64bits(v))
		}
	}

	headerJSON, err := json.Marshal(header)
	if err != nil {
		return fmt.Errorf("failed to marshal header: %w", err)
	}
	if len(headerJSON) > MaxHeaderSize {
		return ErrHeaderTooLarge
	}

	checksum := ComputeChecksum(data)

	// Write fixed header (64 bytes)
	fixedHeader := make([]byte, FixedHeaderSize)

	// 0x00-0x03: Magic bytes
	copy(fixedHeader[0:4], MagicBytes)

	// 0x04-0x07: Version
	binary.LittleEndian.PutUint32(fixedHeader[4:8], uint32(FormatVersion))

	// 0x08-0x0B: Flags
	flags := uint32(0)
	if len(header.Metadata) > 0 {
		flags |= FlagHasMetadata
	}
	if header.Checkpoint != nil {
		flags |= FlagHasCheckpoint
	}
	binary.LittleEndian.PutUint32(fixedHeader[8:12], flags)

	// 0x10-0x17: Header size, 0x18-0x1F: Data size
	binary.LittleEndian.PutUint64(fixedHeader[16:24], uint64(len(headerJSON)))
	binary.LittleEndian.PutUint64(fixedHeader[24:32], uint64(len(data)))

	// 0x20-0x3F: SHA-256 checksum
	copy(fixedHeader[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := w.w.Write(fixedHeader); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := w.w.Write(headerJSON); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	padding := dataPadding(len(headerJSON))
	if padding > 0 {
		if _, err := w.w.Write(make([]byte, padding)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := w.w.Write(data); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}

	return nil
}

// WriteFile writes a state dictionary to path, replacing any existing file.
func WriteFile(path string, stateDict map[string]Tensor, header Header) (err error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model saving
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	return NewWriter(file).WriteStateDict(stateDict, header)
}

// dataPadding returns the zero bytes needed after a header of headerSize
// bytes so tensor data starts on a HeaderAlignment boundary.
func dataPadding(headerSize int) int64 {
	currentPos := int64(FixedHeaderSize) + int64(headerSize)
	return (HeaderAlignment - (currentPos % HeaderAlignment)) % HeaderAlignment
}
