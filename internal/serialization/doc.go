// Package serialization implements the checkpoint file format used to save and
// restore trained networks.
//
//	Format Structure:
//	  0x00 [4 bytes: Magic "CLNN"]
//	  0x04 [4 bytes: Version (uint32 LE)]
//	  0x08 [4 bytes: Flags (uint32 LE)]
//	  0x0C [4 bytes: Reserved]
//	  0x10 [8 bytes: Header Size (uint64 LE)]
//	  0x18 [8 bytes: Data Size (uint64 LE)]
//	  0x20 [32 bytes: SHA-256 of the data section]
//	  0x40 [Header: JSON metadata]
//	       [padding to a 64-byte boundary]
//	       [Tensor data: float64 LE, tensors in header order]
//
// Tensors are plain float64 arrays with a shape. Tensor names are written in
// sorted order so the same state always produces the same bytes apart from
// the creation timestamp.
//
// Example usage:
//
//	var buf bytes.Buffer
//	err := serialization.NewWriter(&buf).WriteStateDict(state, serialization.Header{
//	    ModelType: "Network",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	state, header, err := serialization.ReadFrom(&buf, serialization.ReaderOptions{})
package serialization
