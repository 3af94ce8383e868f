// Copyright 2025 uTensor Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the public tensor handle used by uTensor graphs.
//
// # Overview
//
// A Tensor is an opaque, shape-carrying buffer:
//   - Storage is allocated lazily on first Write, from a pluggable Allocator
//   - The element type (Q7, Q15, uint16, int32) is fixed by the first Write
//   - Typed access goes through borrowed views that must be released
//   - Resize is refused while a view is outstanding
//
// # Basic Usage
//
//	arena := tensor.NewArena(4096)
//	in, _ := tensor.FromSlice("input", []tensor.Q7{1, 2, 3, 4}, tensor.Shape{4},
//	    tensor.WithAllocator(arena))
//
//	v, _ := tensor.Read[tensor.Q7](in, 0, 4)
//	defer v.Release()
//	fmt.Println(v.Data())
//
// # Fixed-Point Types
//
// Q7 and Q15 are signed fixed-point values with 7 and 15 fractional bits.
// Their binary point is implied; the integer value is what kernels operate on.
package tensor
