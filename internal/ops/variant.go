package ops

import (
	"fmt"
	"strings"

	"github.com/hunglethanh9/uTensor/internal/graph"
	"github.com/hunglethanh9/uTensor/internal/tensor"
)

// Variant is the runtime tag of a supported (input, weight, bias) element-type
// combination. It exists for loaders that read the combination from a model
// description; nodes themselves carry their element types statically.
type Variant int

// Supported combinations.
const (
	VariantQ7    Variant = iota // Q7 input, Q7 weights, Q7 bias
	VariantQ15                  // Q15 input, Q15 weights, Q15 bias
	VariantQ15Q7                // Q15 input, Q7 weights, Q7 bias
)

// Variants lists every supported combination.
func Variants() []Variant {
	return []Variant{VariantQ7, VariantQ15, VariantQ15Q7}
}

// String returns the short name used in op names and fixtures.
func (v Variant) String() string {
	switch v {
	case VariantQ7:
		return "q7"
	case VariantQ15:
		return "q15"
	case VariantQ15Q7:
		return "q15q7"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Types returns the input, weight and bias element types.
func (v Variant) Types() (in, weights, bias tensor.DataType) {
	switch v {
	case VariantQ7:
		return tensor.Q7Type, tensor.Q7Type, tensor.Q7Type
	case VariantQ15:
		return tensor.Q15Type, tensor.Q15Type, tensor.Q15Type
	case VariantQ15Q7:
		return tensor.Q15Type, tensor.Q7Type, tensor.Q7Type
	default:
		return tensor.Invalid, tensor.Invalid, tensor.Invalid
	}
}

// KernelName returns the kernel used for v and layout l.
func (v Variant) KernelName(l Layout) string {
	switch v {
	case VariantQ7:
		return Q7Q7Q7{}.KernelName(l)
	case VariantQ15:
		return Q15Q15Q15{}.KernelName(l)
	case VariantQ15Q7:
		return Q15Q7Q7{}.KernelName(l)
	default:
		return ""
	}
}

// Scratch returns the Q15 scratch elements v's kernels need for dimVec inputs.
func (v Variant) Scratch(dimVec int) int {
	switch v {
	case VariantQ7:
		return Q7Q7Q7{}.Scratch(dimVec)
	case VariantQ15:
		return Q15Q15Q15{}.Scratch(dimVec)
	case VariantQ15Q7:
		return Q15Q7Q7{}.Scratch(dimVec)
	default:
		return 0
	}
}

// ParseVariant parses a combination name: "q7" (or "q7q7q7"), "q15" (or
// "q15q15q15") and "q15q7" (or "q15q7q7").
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.NewReplacer("-", "", "_", "", "/", "").Replace(strings.TrimSpace(s))) {
	case "q7", "q7q7q7":
		return VariantQ7, nil
	case "q15", "q15q15q15":
		return VariantQ15, nil
	case "q15q7", "q15q7q7":
		return VariantQ15Q7, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnsupportedVariant, s)
}

// NewOperator builds the concrete node for v and l. The switch runs once, at
// graph-build time; the returned node dispatches statically.
func NewOperator(v Variant, l Layout, opts ...Option) (graph.Operator, error) {
	if l != Standard && l != Optimized {
		return nil, fmt.Errorf("fully-connected: unknown layout %v", l)
	}
	switch v {
	case VariantQ7:
		return newFullyConnected[Q7Q7Q7, tensor.Q7, tensor.Q7, tensor.Q7](Q7Q7Q7{}, l, opts), nil
	case VariantQ15:
		return newFullyConnected[Q15Q15Q15, tensor.Q15, tensor.Q15, tensor.Q15](Q15Q15Q15{}, l, opts), nil
	case VariantQ15Q7:
		return newFullyConnected[Q15Q7Q7, tensor.Q15, tensor.Q7, tensor.Q7](Q15Q7Q7{}, l, opts), nil
	}
	return nil, fmt.Errorf("%w: %v", ErrUnsupportedVariant, v)
}
