package tensor

import "errors"

// Common errors.
var (
	ErrNotAllocated  = errors.New("tensor storage not allocated")
	ErrDTypeMismatch = errors.New("tensor element type mismatch")
	ErrBorrowed      = errors.New("tensor has outstanding views")
	ErrOutOfRange    = errors.New("view exceeds tensor storage")
	ErrOutOfMemory   = errors.New("allocator out of memory")
	ErrInvalidShape  = errors.New("invalid shape")
)
