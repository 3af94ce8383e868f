package ops

import (
	"fmt"

	"github.com/hunglethanh9/uTensor/internal/graph"
	"github.com/hunglethanh9/uTensor/internal/kernels"
	"github.com/hunglethanh9/uTensor/internal/tensor"
)

// Input slots of a fully-connected node.
const (
	InputVector = iota
	InputWeights
	InputBias
	InputBiasShift
	InputOutputShift
	InputScratch

	numInputs  = 6
	numOutputs = 1
)

// Option configures a fully-connected node.
type Option func(*options)

type options struct {
	checkShapes bool
}

// WithShapeChecks runs CheckFullyConnected before every Compute.
func WithShapeChecks(enabled bool) Option {
	return func(o *options) {
		o.checkShapes = enabled
	}
}

// FullyConnectedOp is a graph node computing one quantized fully-connected
// layer. Inputs are [input, weights, bias, biasShift, outputShift, scratch];
// the single output is resized to the bias shape on every Compute.
type FullyConnectedOp[In, W, B tensor.Quantized] struct {
	graph.Base
	variant     Variant
	layout      Layout
	kernel      kernels.FullyConnected[In, W, B]
	checkShapes bool
}

var _ graph.Operator = (*FullyConnectedOp[tensor.Q7, tensor.Q7, tensor.Q7])(nil)

// NewFullyConnected creates a node using sel's kernel for row-major weights.
// The element types follow from sel:
//
//	op := NewFullyConnected(Q15Q7Q7{}) // *FullyConnectedOp[tensor.Q15, tensor.Q7, tensor.Q7]
func NewFullyConnected[S Selector[In, W, B], In, W, B tensor.Quantized](sel S, opts ...Option) *FullyConnectedOp[In, W, B] {
	return newFullyConnected[S, In, W, B](sel, Standard, opts)
}

// NewFullyConnectedOpt creates a node using sel's kernel for interleaved
// weights.
func NewFullyConnectedOpt[S Selector[In, W, B], In, W, B tensor.Quantized](sel S, opts ...Option) *FullyConnectedOp[In, W, B] {
	return newFullyConnected[S, In, W, B](sel, Optimized, opts)
}

func newFullyConnected[S Selector[In, W, B], In, W, B tensor.Quantized](sel S, layout Layout, opts []Option) *FullyConnectedOp[In, W, B] {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return &FullyConnectedOp[In, W, B]{
		Base:        graph.NewBase(numInputs, numOutputs),
		variant:     sel.Variant(),
		layout:      layout,
		kernel:      sel.Kernel(layout),
		checkShapes: o.checkShapes,
	}
}

// Name implements graph.Operator.
func (op *FullyConnectedOp[In, W, B]) Name() string {
	if op.layout == Optimized {
		return "FullyConnectedOpt"
	}
	return "FullyConnected"
}

// Layout returns the weight layout the node's kernel expects.
func (op *FullyConnectedOp[In, W, B]) Layout() Layout {
	return op.layout
}

// Variant returns the node's element-type combination.
func (op *FullyConnectedOp[In, W, B]) Variant() Variant {
	return op.variant
}

// KernelName returns the name of the kernel the node dispatches to.
func (op *FullyConnectedOp[In, W, B]) KernelName() string {
	return op.variant.KernelName(op.layout)
}

// Compute implements graph.Operator.
func (op *FullyConnectedOp[In, W, B]) Compute() error {
	if !op.Bound() {
		return fmt.Errorf("%s: %w", op.Name(), graph.ErrUnbound)
	}
	in := op.Inputs()
	if op.checkShapes {
		if err := CheckFullyConnected(op.variant, op.layout, in[InputVector], in[InputWeights], in[InputBias],
			in[InputBiasShift], in[InputOutputShift], in[InputScratch]); err != nil {
			return err
		}
	}
	return FullyConnected(op.kernel, in[InputVector], in[InputWeights], in[InputBias],
		in[InputBiasShift], in[InputOutputShift], in[InputScratch], op.Outputs()[0])
}
