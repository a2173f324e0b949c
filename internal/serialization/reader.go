package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
)

// ReaderOptions configures how checkpoints are decoded.
type ReaderOptions struct {
	SkipChecksumValidation bool            // Skip checksum validation (faster but less safe)
	ValidationLevel        ValidationLevel // Validation strictness level
}

// ReadFrom decodes a state dictionary and its header from r.
//
// The whole data section is read before any tensor is decoded so the checksum
// and offsets are validated against the exact bytes that were stored.
func ReadFrom(r io.Reader, opts ReaderOptions) (map[string]Tensor, Header, error) {
	fixedHeader := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r, fixedHeader); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read fixed header: %w", err)
	}

	if string(fixedHeader[0:4]) != MagicBytes {
		return nil, Header{}, fmt.Errorf("%w: got %q, expected %q", ErrInvalidMagic, string(fixedHeader[0:4]), MagicBytes)
	}

	version := binary.LittleEndian.Uint32(fixedHeader[4:8])
	if version != FormatVersion {
		return nil, Header{}, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	headerSize := binary.LittleEndian.Uint64(fixedHeader[16:24])
	dataSize := binary.LittleEndian.Uint64(fixedHeader[24:32])
	var checksum [ChecksumSize]byte
	copy(checksum[:], fixedHeader[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if headerSize > MaxHeaderSize {
		return nil, Header{}, ErrHeaderTooLarge
	}
	if dataSize > MaxDataSize {
		return nil, Header{}, &ValidationError{
			Type:    "data_too_large",
			Details: fmt.Sprintf("data section of %d bytes exceeds max %d", dataSize, int64(MaxDataSize)),
		}
	}

	headerBytes := make([]byte, headerSize)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read header: %w", err)
	}

	var header Header
	if err := json.Unmarshal(headerBytes, &header); err != nil {
		return nil, Header{}, fmt.Errorf("failed to parse header JSON: %w", err)
	}

	//nolint:gosec // G115: headerSize is bounded by MaxHeaderSize above
	if padding := dataPadding(int(headerSize)); padding > 0 {
		if _, err := io.CopyN(io.Discard, r, padding); err != nil {
			return nil, Header{}, fmt.Errorf("failed to read padding: %w", err)
		}
	}

	data := make([]byte, dataSize)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, Header{}, fmt.Errorf("failed to read tensor data: %w", err)
	}

	if !opts.SkipChecksumValidation {
		if err := ValidateChecksum(data, checksum); err != nil {
			return nil, Header{}, err
		}
	}

	//nolint:gosec // G115: dataSize is bounded by MaxDataSize above
	if err := ValidateHeader(&header, int64(dataSize), opts.ValidationLevel); err != nil {
		return nil, Header{}, fmt.Errorf("validation failed: %w", err)
	}

	stateDict := make(map[string]Tensor, len(header.Tensors))
	for _, meta := range header.Tensors {
		t, err := decodeTensor(meta, data)
		if err != nil {
			return nil, Header{}, err
		}
		stateDict[meta.Name] = t
	}

	return stateDict, header, nil
}

// ReadFile decodes the checkpoint stored at path.
func ReadFile(path string, opts ReaderOptions) (map[string]Tensor, Header, error) {
	//nolint:gosec // G304: File path comes from user input, which is expected for model loading
	file, err := os.Open(path)
	if err != nil {
		return nil, Header{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	return ReadFrom(file, opts)
}

// decodeTensor copies one tensor out of the data section. The entry is
// rechecked here so ValidationNone cannot reach an unchecked allocation.
func decodeTensor(meta TensorMeta, data []byte) (Tensor, error) {
	if err := ValidateTensorMeta(meta); err != nil {
		return Tensor{}, err
	}
	if meta.Offset < 0 || meta.Size > int64(len(data))-meta.Offset {
		return Tensor{}, &ValidationError{
			Type:    "out_of_bounds",
			Tensor:  meta.Name,
			Details: fmt.Sprintf("offset %d + size %d > data_size %d", meta.Offset, meta.Size, len(data)),
		}
	}

	values := make([]float64, meta.Size/bytesPerFloat64)
	raw := data[meta.Offset : meta.Offset+meta.Size]
	for i := range values {
		values[i] = math.Float64frombits(binary.LittleEndian.Uint64(raw[i*bytesPerFloat64:]))
	}

	return Tensor{Shape: append([]int(nil), meta.Shape...), Data: values}, nil
}
