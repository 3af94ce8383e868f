// Copyright 2025 uTensor Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package ops provides the quantized fully-connected graph node.
//
// A node is parameterized by its (input, weight, bias) element types. Only
// three combinations exist, each named by a selector:
//   - Q7Q7Q7: Q7 activations, weights and bias
//   - Q15Q15Q15: Q15 activations, weights and bias
//   - Q15Q7Q7: Q15 activations with Q7 weights and bias
//
// Any other combination fails to compile, as does a nil selector. The kernel
// is chosen when the node is built; Compute never inspects element types at
// runtime.
//
// Example:
//
//	op := ops.NewFullyConnected(ops.Q7Q7Q7{})
//	_ = g.Push(op, []string{"in", "w", "b", "bshift", "oshift", "scratch"}, []string{"out"})
//
// Nodes whose variant is only known at runtime (for example, read from a model
// file) are built with NewOperator or a Registry.
package ops

import (
	"github.com/hunglethanh9/uTensor/graph"
	"github.com/hunglethanh9/uTensor/internal/kernels"
	"github.com/hunglethanh9/uTensor/internal/ops"
	"github.com/hunglethanh9/uTensor/tensor"
)

// Layout selects the weight storage a kernel expects.
type Layout = ops.Layout

// Weight layouts.
const (
	Standard  Layout = ops.Standard
	Optimized Layout = ops.Optimized
)

// Variant is the runtime tag of a supported element-type combination.
type Variant = ops.Variant

// Supported combinations.
const (
	VariantQ7    Variant = ops.VariantQ7
	VariantQ15   Variant = ops.VariantQ15
	VariantQ15Q7 Variant = ops.VariantQ15Q7
)

// Input slots of a fully-connected node.
const (
	InputVector      = ops.InputVector
	InputWeights     = ops.InputWeights
	InputBias        = ops.InputBias
	InputBiasShift   = ops.InputBiasShift
	InputOutputShift = ops.InputOutputShift
	InputScratch     = ops.InputScratch
)

// Selector is the constraint satisfied only by Q7Q7Q7, Q15Q15Q15 and Q15Q7Q7.
type Selector[In, W, B tensor.Quantized] = ops.Selector[In, W, B]

// Selectors for the supported combinations.
type (
	Q7Q7Q7    = ops.Q7Q7Q7
	Q15Q15Q15 = ops.Q15Q15Q15
	Q15Q7Q7   = ops.Q15Q7Q7
)

// FullyConnectedOp is a quantized fully-connected graph node.
type FullyConnectedOp[In, W, B tensor.Quantized] = ops.FullyConnectedOp[In, W, B]

// Operator is the interface every graph node implements.
type Operator = graph.Operator

// Option configures a fully-connected node.
type Option = ops.Option

// Registry maps operator names to constructors.
type Registry = ops.Registry

// Constructor builds an unbound operator.
type Constructor = ops.Constructor

// ShapeError describes a tensor whose shape does not fit a node.
type ShapeError = ops.ShapeError

// Errors returned by fully-connected nodes.
var (
	ErrShapeMismatch      = ops.ErrShapeMismatch
	ErrUnsupportedVariant = ops.ErrUnsupportedVariant
	ErrUnknownOp          = ops.ErrUnknownOp
)

// NewFullyConnected creates a node for row-major weights.
func NewFullyConnected[S Selector[In, W, B], In, W, B tensor.Quantized](sel S, opts ...Option) *FullyConnectedOp[In, W, B] {
	return ops.NewFullyConnected[S, In, W, B](sel, opts...)
}

// NewFullyConnectedOpt creates a node for interleaved weights.
func NewFullyConnectedOpt[S Selector[In, W, B], In, W, B tensor.Quantized](sel S, opts ...Option) *FullyConnectedOp[In, W, B] {
	return ops.NewFullyConnectedOpt[S, In, W, B](sel, opts...)
}

// NewOperator builds the node for a runtime variant and layout.
func NewOperator(v Variant, l Layout, opts ...Option) (Operator, error) {
	return ops.NewOperator(v, l, opts...)
}

// NewRegistry creates a registry holding every fully-connected variant.
func NewRegistry() *Registry {
	return ops.NewRegistry()
}

// OpName returns the registry name of a fully-connected node.
func OpName(v Variant, l Layout) string {
	return ops.OpName(v, l)
}

// Variants lists every supported combination.
func Variants() []Variant {
	return ops.Variants()
}

// ParseVariant parses a combination name such as "q7" or "q15q7".
func ParseVariant(s string) (Variant, error) {
	return ops.ParseVariant(s)
}

// ParseLayout parses "standard" or "optimized".
func ParseLayout(s string) (Layout, error) {
	return ops.ParseLayout(s)
}

// WithShapeChecks validates tensor shapes before every Compute.
func WithShapeChecks(enabled bool) Option {
	return ops.WithShapeChecks(enabled)
}

// InterleaveQ7Weights rearranges row-major Q7 weights for the optimized kernels.
func InterleaveQ7Weights(w []tensor.Q7, numRows, dimVec int) []tensor.Q7 {
	return kernels.InterleaveQ7Weights(w, numRows, dimVec)
}

// InterleaveQ15Weights rearranges row-major Q15 weights for the optimized kernel.
func InterleaveQ15Weights(w []tensor.Q15, numRows, dimVec int) []tensor.Q15 {
	return kernels.InterleaveQ15Weights(w, numRows, dimVec)
}
