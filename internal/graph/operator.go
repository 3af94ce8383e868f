// Package graph defines the operator contract and a sequential scheduler for
// uTensor dataflow graphs.
package graph

import (
	"errors"
	"fmt"

	"github.com/hunglethanh9/uTensor/internal/tensor"
)

// Common errors.
var (
	ErrArity           = errors.New("wrong number of tensors")
	ErrUnbound         = errors.New("operator tensors not bound")
	ErrDuplicateTensor = errors.New("tensor already registered")
	ErrUnknownTensor   = errors.New("unknown tensor")
)

// Operator is a graph-schedulable unit with a fixed arity.
//
// The graph builder binds tensors once; Compute is then invoked once per
// scheduling pass and reports results only by mutating the bound outputs.
// Operators are not safe for concurrent Compute calls.
type Operator interface {
	// Name returns the operator type name.
	Name() string
	// NumInputs returns the declared number of inputs.
	NumInputs() int
	// NumOutputs returns the declared number of outputs.
	NumOutputs() int
	// Bind assigns input and output tensors. Inputs are held as non-owning
	// references; outputs are mutated by Compute.
	Bind(inputs, outputs []*tensor.Tensor) error
	// Compute runs the operator to completion.
	Compute() error
}

// Base carries the arity and tensor bindings shared by all operators.
type Base struct {
	nInputs  int
	nOutputs int
	inputs   []*tensor.Tensor
	outputs  []*tensor.Tensor
}

// NewBase creates a Base declaring nInputs inputs and nOutputs outputs.
func NewBase(nInputs, nOutputs int) Base {
	return Base{nInputs: nInputs, nOutputs: nOutputs}
}

// NumInputs implements Operator.
func (b *Base) NumInputs() int {
	return b.nInputs
}

// NumOutputs implements Operator.
func (b *Base) NumOutputs() int {
	return b.nOutputs
}

// Bind implements Operator.
func (b *Base) Bind(inputs, outputs []*tensor.Tensor) error {
	if len(inputs) != b.nInputs {
		return fmt.Errorf("%w: got %d inputs, want %d", ErrArity, len(inputs), b.nInputs)
	}
	if len(outputs) != b.nOutputs {
		return fmt.Errorf("%w: got %d outputs, want %d", ErrArity, len(outputs), b.nOutputs)
	}
	for i, t := range inputs {
		if t == nil {
			return fmt.Errorf("%w: input %d is nil", ErrUnbound, i)
		}
	}
	for i, t := range outputs {
		if t == nil {
			return fmt.Errorf("%w: output %d is nil", ErrUnbound, i)
		}
	}

	b.inputs = append([]*tensor.Tensor(nil), inputs...)
	b.outputs = append([]*tensor.Tensor(nil), outputs...)
	return nil
}

// Bound reports whether Bind has succeeded.
func (b *Base) Bound() bool {
	return b.inputs != nil || b.outputs != nil || (b.nInputs == 0 && b.nOutputs == 0)
}

// Inputs returns the bound inputs.
func (b *Base) Inputs() []*tensor.Tensor {
	return b.inputs
}

// Outputs returns the bound outputs.
func (b *Base) Outputs() []*tensor.Tensor {
	return b.outputs
}
