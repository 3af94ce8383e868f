// Copyright 2025 uTensor Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"github.com/hunglethanh9/uTensor/internal/tensor"
)

// Q7 is a signed 8-bit fixed-point value.
type Q7 = tensor.Q7

// Q15 is a signed 16-bit fixed-point value.
type Q15 = tensor.Q15

// Quantized is a constraint for the fixed-point element types.
type Quantized = tensor.Quantized

// DType is a constraint for tensor element types.
// Supported types: Q7, Q15, uint16, int32.
type DType = tensor.DType

// DataType is the runtime tag of a tensor's element type.
type DataType = tensor.DataType

// Data type constants.
const (
	Invalid DataType = tensor.Invalid
	Q7Type  DataType = tensor.Q7Type
	Q15Type DataType = tensor.Q15Type
	Uint16  DataType = tensor.Uint16
	Int32   DataType = tensor.Int32
)

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// Tensor is the shared tensor handle.
type Tensor = tensor.Tensor

// View is a borrowed typed window into a tensor's storage.
type View[T DType] = tensor.View[T]

// Option configures a Tensor.
type Option = tensor.Option

// Allocator provides tensor storage.
type Allocator = tensor.Allocator

// HeapAllocator allocates from the Go heap.
type HeapAllocator = tensor.HeapAllocator

// Arena is a fixed-capacity bump allocator.
type Arena = tensor.Arena

// Errors returned by tensor operations.
var (
	ErrNotAllocated  = tensor.ErrNotAllocated
	ErrDTypeMismatch = tensor.ErrDTypeMismatch
	ErrBorrowed      = tensor.ErrBorrowed
	ErrOutOfRange    = tensor.ErrOutOfRange
	ErrOutOfMemory   = tensor.ErrOutOfMemory
	ErrInvalidShape  = tensor.ErrInvalidShape
)

// New creates a tensor with the given shape and no storage.
func New(name string, shape Shape, opts ...Option) (*Tensor, error) {
	return tensor.New(name, shape, opts...)
}

// FromSlice creates a tensor holding a copy of data.
func FromSlice[T DType](name string, data []T, shape Shape, opts ...Option) (*Tensor, error) {
	return tensor.FromSlice(name, data, shape, opts...)
}

// Scalar creates a single-element tensor.
func Scalar[T DType](name string, value T, opts ...Option) (*Tensor, error) {
	return tensor.Scalar(name, value, opts...)
}

// Read borrows a read-only view of t starting at element offset.
func Read[T DType](t *Tensor, offset, size int) (*View[T], error) {
	return tensor.Read[T](t, offset, size)
}

// Write borrows a mutable view of t, allocating storage on first use.
func Write[T DType](t *Tensor, offset, size int) (*View[T], error) {
	return tensor.Write[T](t, offset, size)
}

// WithAllocator sets the allocator backing a tensor's storage.
func WithAllocator(a Allocator) Option {
	return tensor.WithAllocator(a)
}

// NewArena creates an arena holding capacity bytes.
func NewArena(capacity int) *Arena {
	return tensor.NewArena(capacity)
}
