package ops

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrShapeMismatch      = errors.New("shape mismatch")
	ErrUnsupportedVariant = errors.New("unsupported fully-connected variant")
	ErrUnknownOp          = errors.New("unknown operator")
)

// ShapeError describes which tensor failed a shape check.
type ShapeError struct {
	Tensor  string // Role of the tensor (e.g., "weights", "scratch")
	Name    string // Tensor name
	Details string
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s %q: %s", e.Tensor, e.Name, e.Details)
}

// Unwrap lets errors.Is match ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}
