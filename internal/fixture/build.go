package fixture

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/go-cmp/cmp"

	"github.com/hunglethanh9/uTensor/internal/graph"
	"github.com/hunglethanh9/uTensor/internal/kernels"
	"github.com/hunglethanh9/uTensor/internal/ops"
	"github.com/hunglethanh9/uTensor/internal/tensor"
)

// Tensor names used by Build.
const (
	TensorInput     = "input"
	TensorWeights   = "weights"
	TensorBias      = "bias"
	TensorBiasShift = "bias_shift"
	TensorOutShift  = "out_shift"
	TensorScratch   = "scratch"
	TensorOutput    = "output"
)

// ErrMismatch is returned by Check when the output differs from the expected values.
var ErrMismatch = errors.New("output mismatch")

// Build creates a graph context holding the case's tensors and a single
// fully-connected node. Tensor storage comes from alloc.
func (c *Case) Build(alloc tensor.Allocator, opts ...ops.Option) (*graph.Context, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}
	op, err := ops.NewRegistry().Build(c.OpName(), opts...)
	if err != nil {
		return nil, err
	}

	g := graph.NewContext()
	switch c.variant {
	case ops.VariantQ7:
		err = addTensors[tensor.Q7, tensor.Q7, tensor.Q7](g, c, alloc, kernels.InterleaveQ7Weights)
	case ops.VariantQ15:
		err = addTensors[tensor.Q15, tensor.Q15, tensor.Q15](g, c, alloc, kernels.InterleaveQ15Weights)
	case ops.VariantQ15Q7:
		err = addTensors[tensor.Q15, tensor.Q7, tensor.Q7](g, c, alloc, kernels.InterleaveQ7Weights)
	default:
		err = fmt.Errorf("%w: %v", ops.ErrUnsupportedVariant, c.variant)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}

	inputs := []string{TensorInput, TensorWeights, TensorBias, TensorBiasShift, TensorOutShift, TensorScratch}
	if err := g.Push(op, inputs, []string{TensorOutput}); err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}
	return g, nil
}

// Run builds the case, evaluates it once and returns the output values.
func (c *Case) Run(ctx context.Context, alloc tensor.Allocator, opts ...ops.Option) ([]int32, error) {
	g, err := c.Build(alloc, opts...)
	if err != nil {
		return nil, err
	}
	if err := g.Eval(ctx); err != nil {
		return nil, fmt.Errorf("%s: %w", c.Name, err)
	}
	return c.Output(g)
}

// Output reads the output tensor of a graph built by Build.
func (c *Case) Output(g *graph.Context) ([]int32, error) {
	out, ok := g.Tensor(TensorOutput)
	if !ok {
		return nil, fmt.Errorf("%w: %s", graph.ErrUnknownTensor, TensorOutput)
	}
	if c.variant == ops.VariantQ7 {
		return readInt32[tensor.Q7](out)
	}
	return readInt32[tensor.Q15](out)
}

// Check compares got with the case's expected output. Cases without an
// expectation always pass.
func (c *Case) Check(got []int32) error {
	if c.Expect == nil {
		return nil
	}
	if diff := cmp.Diff(c.Expect, got); diff != "" {
		return fmt.Errorf("%s: %w (-want +got):\n%s", c.Name, ErrMismatch, diff)
	}
	return nil
}

func addTensors[In, W, B tensor.Quantized](g *graph.Context, c *Case, alloc tensor.Allocator,
	interleave func([]W, int, int) []W) error {
	dimVec, numRows := c.DimVec(), c.NumRows()

	in, err := narrow[In](TensorInput, c.Input)
	if err != nil {
		return err
	}
	w, err := narrow[W](TensorWeights, slices.Concat(c.Weights...))
	if err != nil {
		return err
	}
	if c.layout == ops.Optimized {
		w = interleave(w, numRows, dimVec)
	}
	bias, err := narrow[B](TensorBias, c.Bias)
	if err != nil {
		return err
	}

	withAlloc := tensor.WithAllocator(alloc)
	add := func(t *tensor.Tensor, err error) error {
		if err != nil {
			return err
		}
		return g.AddTensor(t)
	}
	if err := add(tensor.FromSlice(TensorInput, in, tensor.Shape{dimVec}, withAlloc)); err != nil {
		return err
	}
	if err := add(tensor.FromSlice(TensorWeights, w, tensor.Shape{numRows, dimVec}, withAlloc)); err != nil {
		return err
	}
	if err := add(tensor.FromSlice(TensorBias, bias, tensor.Shape{numRows}, withAlloc)); err != nil {
		return err
	}
	if err := add(tensor.Scalar(TensorBiasShift, c.BiasShift, withAlloc)); err != nil {
		return err
	}
	if err := add(tensor.Scalar(TensorOutShift, c.OutShift, withAlloc)); err != nil {
		return err
	}
	if err := add(tensor.New(TensorScratch, tensor.Shape{c.variant.Scratch(dimVec)}, withAlloc)); err != nil {
		return err
	}
	return add(tensor.New(TensorOutput, tensor.Shape{numRows}, withAlloc))
}

// narrow converts fixture values to T, rejecting values T cannot hold.
func narrow[T tensor.Quantized](role string, vals []int32) ([]T, error) {
	out := make([]T, len(vals))
	for i, v := range vals {
		out[i] = T(v)
		if int32(out[i]) != v {
			return nil, fmt.Errorf("%w: %s[%d] = %d overflows %s",
				ErrInvalidCase, role, i, v, tensor.DataTypeOf[T]())
		}
	}
	return out, nil
}

func readInt32[T tensor.Quantized](t *tensor.Tensor) ([]int32, error) {
	v, err := tensor.Read[T](t, 0, 0)
	if err != nil {
		return nil, err
	}
	defer v.Release()

	out := make([]int32, v.Len())
	for i, x := range v.Data() {
		out[i] = int32(x)
	}
	return out, nil
}
