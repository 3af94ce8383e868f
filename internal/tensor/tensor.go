package tensor

import (
	"fmt"
	"sync/atomic"
	"unsafe"
)

// tensorBuffer is a reference-counted buffer shared between tensor clones.
type tensorBuffer struct {
	data     []byte
	refCount atomic.Int32
	alloc    Allocator
}

// newTensorBuffer obtains size bytes from alloc with refCount = 1.
func newTensorBuffer(alloc Allocator, size int) (*tensorBuffer, error) {
	data, err := alloc.Alloc(size)
	if err != nil {
		return nil, err
	}
	buf := &tensorBuffer{data: data, alloc: alloc}
	buf.refCount.Store(1)
	return buf, nil
}

// addRef increments the reference count (for Clone operations).
func (tb *tensorBuffer) addRef() {
	tb.refCount.Add(1)
}

// release decrements the reference count and hands the storage back to the
// allocator when it reaches 0.
func (tb *tensorBuffer) release() {
	if tb.refCount.Add(-1) == 0 {
		tb.alloc.Free(tb.data)
		tb.data = nil
	}
}

// Option configures a Tensor.
type Option func(*Tensor)

// WithAllocator sets the allocator backing the tensor's storage.
func WithAllocator(a Allocator) Option {
	return func(t *Tensor) {
		t.alloc = a
	}
}

// Tensor is an opaque, shape-carrying buffer shared across a graph.
//
// Storage is allocated lazily on the first Write and its element type is
// fixed from then on. Typed access goes through borrowed views (Read, Write);
// Resize is refused while any view is outstanding, so a slice handed to a
// kernel can never point into a reallocated buffer.
//
// Tensor is not safe for concurrent mutation.
type Tensor struct {
	name    string
	buffer  *tensorBuffer
	shape   Shape
	dtype   DataType
	alloc   Allocator
	borrows atomic.Int32
}

// New creates a tensor with the given shape and no storage.
func New(name string, shape Shape, opts ...Option) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("tensor %q: %w", name, err)
	}
	t := &Tensor{
		name:  name,
		shape: shape.Clone(),
		alloc: DefaultAllocator,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// FromSlice creates a tensor holding a copy of data.
// len(data) must equal shape.NumElements().
func FromSlice[T DType](name string, data []T, shape Shape, opts ...Option) (*Tensor, error) {
	if shape.NumElements() != len(data) {
		return nil, fmt.Errorf("tensor %q: %w: %d elements for shape %v",
			name, ErrInvalidShape, len(data), shape)
	}
	t, err := New(name, shape, opts...)
	if err != nil {
		return nil, err
	}
	v, err := Write[T](t, 0, len(data))
	if err != nil {
		return nil, err
	}
	copy(v.Data(), data)
	v.Release()
	return t, nil
}

// Scalar creates a single-element tensor of shape [1].
func Scalar[T DType](name string, value T, opts ...Option) (*Tensor, error) {
	return FromSlice(name, []T{value}, Shape{1}, opts...)
}

// Name returns the tensor's name.
func (t *Tensor) Name() string {
	return t.name
}

// Shape returns the tensor's shape. The returned slice must not be modified.
func (t *Tensor) Shape() Shape {
	return t.shape
}

// DType returns the element type, or Invalid before the first write.
func (t *Tensor) DType() DataType {
	return t.dtype
}

// NumElements returns the total number of elements.
func (t *Tensor) NumElements() int {
	return t.shape.NumElements()
}

// Allocated reports whether the tensor has storage.
func (t *Tensor) Allocated() bool {
	return t.buffer != nil
}

// Borrows returns the number of outstanding views.
func (t *Tensor) Borrows() int {
	return int(t.borrows.Load())
}

// Bytes returns a copy of the raw storage, or nil when unallocated.
func (t *Tensor) Bytes() []byte {
	if t.buffer == nil {
		return nil
	}
	return append([]byte(nil), t.buffer.data...)
}

// Resize changes the tensor's shape, reallocating storage to
// product(shape) * elementSize. The buffer is kept when the element count
// does not change. Resize fails with ErrBorrowed while any view is
// outstanding; allocation failures are returned unchanged.
func (t *Tensor) Resize(shape Shape) error {
	if err := shape.Validate(); err != nil {
		return fmt.Errorf("tensor %q: %w", t.name, err)
	}
	if n := t.borrows.Load(); n > 0 {
		return fmt.Errorf("tensor %q: resize to %v: %w (%d)", t.name, shape, ErrBorrowed, n)
	}

	if shape.Equal(t.shape) {
		return nil
	}
	if t.buffer == nil || shape.NumElements() == t.shape.NumElements() {
		t.shape = shape.Clone()
		return nil
	}

	buf, err := newTensorBuffer(t.alloc, shape.NumElements()*t.dtype.Size())
	if err != nil {
		return fmt.Errorf("tensor %q: resize to %v: %w", t.name, shape, err)
	}
	t.buffer.release()
	t.buffer = buf
	t.shape = shape.Clone()
	return nil
}

// Clone returns a new handle sharing this tensor's buffer.
func (t *Tensor) Clone() *Tensor {
	c := &Tensor{
		name:   t.name,
		buffer: t.buffer,
		shape:  t.shape.Clone(),
		dtype:  t.dtype,
		alloc:  t.alloc,
	}
	if c.buffer != nil {
		c.buffer.addRef()
	}
	return c
}

// Release drops this handle's reference to the storage. It fails with
// ErrBorrowed while any view of this handle is outstanding.
func (t *Tensor) Release() error {
	if n := t.borrows.Load(); n > 0 {
		return fmt.Errorf("tensor %q: release: %w (%d)", t.name, ErrBorrowed, n)
	}
	if t.buffer == nil {
		return nil
	}
	t.buffer.release()
	t.buffer = nil
	return nil
}

// String implements fmt.Stringer.
func (t *Tensor) String() string {
	return fmt.Sprintf("%s%v:%s", t.name, t.shape, t.dtype)
}

// View is a borrowed, typed window into a tensor's storage. It stays valid
// until Release; the owning tensor cannot be resized in the meantime.
type View[T DType] struct {
	data     []T
	owner    *Tensor
	released bool
}

// Data returns the viewed elements. Views obtained through Read must be
// treated as read-only.
func (v *View[T]) Data() []T {
	return v.data
}

// Len returns the number of viewed elements.
func (v *View[T]) Len() int {
	return len(v.data)
}

// At returns element i of the view.
func (v *View[T]) At(i int) T {
	return v.data[i]
}

// Release ends the borrow. It is safe to call more than once.
func (v *View[T]) Release() {
	if v.released {
		return
	}
	v.released = true
	v.data = nil
	v.owner.borrows.Add(-1)
}

// Read returns a read-only view starting at element offset. The view extends
// to the end of the storage; size is the minimum number of elements the
// caller needs.
func Read[T DType](t *Tensor, offset, size int) (*View[T], error) {
	if t.buffer == nil {
		return nil, fmt.Errorf("tensor %q: %w", t.name, ErrNotAllocated)
	}
	if dt := DataTypeOf[T](); dt != t.dtype {
		return nil, fmt.Errorf("tensor %q: read %s from %s storage: %w", t.name, dt, t.dtype, ErrDTypeMismatch)
	}
	return borrow[T](t, offset, size)
}

// Write returns a mutable view starting at element offset, allocating storage
// for the current shape on first use. The first Write fixes the tensor's
// element type.
func Write[T DType](t *Tensor, offset, size int) (*View[T], error) {
	dt := DataTypeOf[T]()
	if t.dtype != Invalid && t.dtype != dt {
		return nil, fmt.Errorf("tensor %q: write %s to %s storage: %w", t.name, dt, t.dtype, ErrDTypeMismatch)
	}

	if t.buffer == nil {
		buf, err := newTensorBuffer(t.alloc, t.shape.NumElements()*dt.Size())
		if err != nil {
			return nil, fmt.Errorf("tensor %q: allocate %v: %w", t.name, t.shape, err)
		}
		t.buffer = buf
	}
	t.dtype = dt
	return borrow[T](t, offset, size)
}

func borrow[T DType](t *Tensor, offset, size int) (*View[T], error) {
	n := t.shape.NumElements()
	if offset < 0 || size < 0 || offset+size > n {
		return nil, fmt.Errorf("tensor %q: view [%d:+%d] of %d elements: %w", t.name, offset, size, n, ErrOutOfRange)
	}
	t.borrows.Add(1)
	return &View[T]{data: asSlice[T](t.buffer.data, n)[offset:], owner: t}, nil
}

// asSlice reinterprets b as n elements of T.
func asSlice[T DType](b []byte, n int) []T {
	if n == 0 {
		return nil
	}
	//nolint:gosec // unsafe.Slice for zero-copy views, bounds checked by NumElements()
	return unsafe.Slice((*T)(unsafe.Pointer(&b[0])), n)
}
