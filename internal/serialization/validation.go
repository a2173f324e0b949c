package serialization

import (
	"fmt"
	"strings"
)

// Limits applied to every checkpoint that is read.
const (
	MaxHeaderSize    = 16 << 20  // JSON header bytes
	MaxDataSize      = 512 << 20 // data section bytes
	MaxTensorCount   = 100_000
	MaxTensorNameLen = 4096

	// maxElements is the largest tensor the data section can hold.
	maxElements = MaxDataSize / bytesPerFloat64
)

// ValidationLevel selects the header checks ReadFrom runs before decoding.
//
// Whatever the level, every tensor's shape and byte range are checked again
// as it is decoded, so a hostile header yields an error, never a panic or an
// oversized allocation.
type ValidationLevel int

const (
	// ValidationStrict also requires the tensors to tile the data section
	// back to back in header order, the way Writer lays them out.
	ValidationStrict ValidationLevel = iota
	// ValidationLenient checks each entry and rejects duplicates but
	// accepts any layout.
	ValidationLenient
	// ValidationNone skips the header pass.
	ValidationNone
)

// numElements returns the number of values in shape. Negative dimensions and
// shapes larger than a data section can hold are rejected, which also keeps
// n*bytesPerFloat64 from overflowing.
func numElements(shape []int) (int, error) {
	n := 1
	for _, d := range shape {
		if d < 0 {
			return 0, fmt.Errorf("negative dimension in shape %v", shape)
		}
		if d > 0 && n > maxElements/d {
			return 0, fmt.Errorf("shape %v holds more than %d values", shape, maxElements)
		}
		n *= d
	}
	return n, nil
}

// ValidateTensorName rejects empty, oversized and path-like names.
func ValidateTensorName(name string) error {
	if name == "" {
		return &ValidationError{Type: "invalid_name", Details: "empty tensor name"}
	}
	if len(name) > MaxTensorNameLen {
		return &ValidationError{
			Type:    "name_too_long",
			Tensor:  name,
			Details: fmt.Sprintf("length %d > max %d", len(name), MaxTensorNameLen),
		}
	}
	if strings.ContainsAny(name, "/\\\x00") {
		return &ValidationError{Type: "invalid_name", Tensor: name, Details: "contains a path separator or null byte"}
	}
	return nil
}

// ValidateTensorMeta checks one header entry on its own: its name, its dtype,
// and that Size is exactly the byte count its shape needs.
func ValidateTensorMeta(meta TensorMeta) error {
	if err := ValidateTensorName(meta.Name); err != nil {
		return err
	}
	if meta.DType != DTypeFloat64 {
		return fmt.Errorf("%w: tensor %s has dtype %q", ErrUnsupportedDType, meta.Name, meta.DType)
	}

	n, err := numElements(meta.Shape)
	if err != nil {
		return &ValidationError{Type: "invalid_shape", Tensor: meta.Name, Details: err.Error()}
	}
	if meta.Size%bytesPerFloat64 != 0 || meta.Size/bytesPerFloat64 != int64(n) {
		return &ValidationError{
			Type:    "shape_mismatch",
			Tensor:  meta.Name,
			Details: fmt.Sprintf("shape %v needs %d bytes, header says %d", meta.Shape, n*bytesPerFloat64, meta.Size),
		}
	}
	return nil
}

// ValidateLayout checks that tensors occupy the data section back to back in
// header order: the first at offset 0, each next one where the previous ends,
// and the last ending exactly at dataSize.
func ValidateLayout(tensors []TensorMeta, dataSize int64) error {
	var cursor int64
	prev := ""
	for _, t := range tensors {
		switch {
		case t.Offset < 0 || t.Size < 0:
			return &ValidationError{
				Type:    "negative_offset",
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset=%d, size=%d", t.Offset, t.Size),
			}
		case t.Offset < cursor:
			return &ValidationError{
				Type:    "offset_overlap",
				Tensor:  prev,
				Tensor2: t.Name,
				Details: fmt.Sprintf("%s starts at %d, before %s ends at %d", t.Name, t.Offset, prev, cursor),
			}
		case t.Offset > cursor:
			return &ValidationError{
				Type:    "offset_gap",
				Tensor:  t.Name,
				Details: fmt.Sprintf("starts at %d, expected %d", t.Offset, cursor),
			}
		case t.Size > dataSize-cursor:
			return &ValidationError{
				Type:    "out_of_bounds",
				Tensor:  t.Name,
				Details: fmt.Sprintf("offset %d + size %d > data_size %d", t.Offset, t.Size, dataSize),
			}
		}
		cursor += t.Size
		prev = t.Name
	}

	if cursor != dataSize {
		return &ValidationError{
			Type:    "trailing_data",
			Details: fmt.Sprintf("tensors end at %d, data section is %d bytes", cursor, dataSize),
		}
	}
	return nil
}

// ValidateHeader runs the header checks selected by level.
func ValidateHeader(h *Header, dataSize int64, level ValidationLevel) error {
	if level == ValidationNone {
		return nil
	}
	if len(h.Tensors) > MaxTensorCount {
		return &ValidationError{
			Type:    "too_many_tensors",
			Details: fmt.Sprintf("got %d, max %d", len(h.Tensors), MaxTensorCount),
		}
	}

	seen := make(map[string]struct{}, len(h.Tensors))
	for _, t := range h.Tensors {
		if err := ValidateTensorMeta(t); err != nil {
			return err
		}
		if _, dup := seen[t.Name]; dup {
			return &ValidationError{Type: "duplicate_name", Tensor: t.Name, Details: "tensor listed twice"}
		}
		seen[t.Name] = struct{}{}
	}

	if level == ValidationStrict {
		return ValidateLayout(h.Tensors, dataSize)
	}
	return nil
}
