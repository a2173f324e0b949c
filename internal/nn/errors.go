package nn

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrDimensionMismatch = errors.New("nn: dimension mismatch")
	ErrEmptyNetwork      = errors.New("nn: network needs at least one layer")
	ErrEmptyLayer        = errors.New("nn: layer needs at least one node")
	ErrInvalidSize       = errors.New("nn: layer sizes must be positive")
	ErrNoForwardPass     = errors.New("nn: backprop called before activate")
	ErrUnknownActivation = errors.New("nn: unknown activation")
	ErrNotCheckpoint     = errors.New("nn: not a network checkpoint")
)

// DimensionError reports a vector whose length does not match what an
// operation requires. It unwraps to ErrDimensionMismatch.
type DimensionError struct {
	Op   string // Operation that rejected the input (e.g. "Node.Activate")
	What string // Which argument was wrong
	Got  int
	Want int
}

// Error implements the error interface.
func (e *DimensionError) Error() string {
	return fmt.Sprintf("nn: %s: %s has length %d, want %d", e.Op, e.What, e.Got, e.Want)
}

// Unwrap makes errors.Is(err, ErrDimensionMismatch) work.
func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}

func checkLen(op, what string, got, want int) error {
	if got != want {
		return &DimensionError{Op: op, What: what, Got: got, Want: want}
	}
	return nil
}
