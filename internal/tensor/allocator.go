package tensor

import (
	"fmt"
	"unsafe"
)

// Allocator provides tensor storage.
type Allocator interface {
	// Alloc returns a zeroed buffer of exactly size bytes.
	Alloc(size int) ([]byte, error)
	// Free returns a buffer obtained from Alloc.
	Free(b []byte)
}

// HeapAllocator allocates from the Go heap and never fails.
type HeapAllocator struct{}

// Alloc implements Allocator.
func (HeapAllocator) Alloc(size int) ([]byte, error) {
	return make([]byte, size), nil
}

// Free implements Allocator. The garbage collector reclaims the buffer.
func (HeapAllocator) Free([]byte) {}

// DefaultAllocator is used by tensors created without WithAllocator.
var DefaultAllocator Allocator = HeapAllocator{}

// ArenaAlignment is the alignment of every arena allocation.
const ArenaAlignment = 8

type arenaBlock struct {
	ptr   *byte
	start int
	freed bool
}

// Arena is a fixed-capacity bump allocator modelling a microcontroller's
// tensor memory pool. Frees are reclaimed in LIFO order: a block freed below
// the top is reclaimed once every block above it has been freed too.
//
// Arena is not safe for concurrent use.
type Arena struct {
	buf    []byte
	offset int
	blocks []arenaBlock
}

// NewArena creates an arena holding capacity bytes.
func NewArena(capacity int) *Arena {
	return &Arena{buf: make([]byte, capacity)}
}

// Alloc implements Allocator.
func (a *Arena) Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("arena: negative size %d", size)
	}
	if size == 0 {
		return []byte{}, nil
	}

	start := alignUp(a.offset, ArenaAlignment)
	if start+size > len(a.buf) {
		return nil, fmt.Errorf("%w: requested %d bytes, %d of %d in use",
			ErrOutOfMemory, size, a.offset, len(a.buf))
	}

	b := a.buf[start : start+size : start+size]
	clear(b)
	a.blocks = append(a.blocks, arenaBlock{ptr: &b[0], start: a.offset})
	a.offset = start + size
	return b, nil
}

// Free implements Allocator.
func (a *Arena) Free(b []byte) {
	if len(b) == 0 {
		return
	}
	ptr := unsafe.SliceData(b)
	for i := len(a.blocks) - 1; i >= 0; i-- {
		if a.blocks[i].ptr == ptr {
			a.blocks[i].freed = true
			break
		}
	}
	for n := len(a.blocks); n > 0 && a.blocks[n-1].freed; n-- {
		a.offset = a.blocks[n-1].start
		a.blocks = a.blocks[:n-1]
	}
}

// Used returns the number of bytes in use, including alignment padding.
func (a *Arena) Used() int {
	return a.offset
}

// Cap returns the arena capacity in bytes.
func (a *Arena) Cap() int {
	return len(a.buf)
}

// Reset drops every allocation. Tensors still holding arena storage must not
// be used afterwards.
func (a *Arena) Reset() {
	a.offset = 0
	a.blocks = a.blocks[:0]
}

func alignUp(n, align int) int {
	return (n + align - 1) &^ (align - 1)
}
