package ops

import (
	"fmt"
	"strings"

	"github.com/hunglethanh9/uTensor/internal/kernels"
	"github.com/hunglethanh9/uTensor/internal/tensor"
)

// Layout selects the weight storage a kernel expects.
type Layout int

// Supported weight layouts.
const (
	// Standard weights are a row-major [rows, dimVec] matrix.
	Standard Layout = iota
	// Optimized weights are pre-arranged with kernels.InterleaveQ7Weights or
	// kernels.InterleaveQ15Weights.
	Optimized
)

// String returns the layout name.
func (l Layout) String() string {
	switch l {
	case Standard:
		return "standard"
	case Optimized:
		return "optimized"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// ParseLayout parses "standard" or "optimized" ("opt" is accepted too).
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "std":
		return Standard, nil
	case "optimized", "opt":
		return Optimized, nil
	}
	return 0, fmt.Errorf("unknown layout %q", s)
}

// Kernel entry points. Tests replace them with recording stubs; the value
// current when a node is built is the one it keeps.
var (
	fcQ7Impl       kernels.FullyConnected[tensor.Q7, tensor.Q7, tensor.Q7]    = kernels.FullyConnectedQ7
	fcQ7OptImpl    kernels.FullyConnected[tensor.Q7, tensor.Q7, tensor.Q7]    = kernels.FullyConnectedQ7Opt
	fcQ15Impl      kernels.FullyConnected[tensor.Q15, tensor.Q15, tensor.Q15] = kernels.FullyConnectedQ15
	fcQ15OptImpl   kernels.FullyConnected[tensor.Q15, tensor.Q15, tensor.Q15] = kernels.FullyConnectedQ15Opt
	fcQ15Q7Impl    kernels.FullyConnected[tensor.Q15, tensor.Q7, tensor.Q7]   = kernels.FullyConnectedMatQ7VecQ15
	fcQ15Q7OptImpl kernels.FullyConnected[tensor.Q15, tensor.Q7, tensor.Q7]   = kernels.FullyConnectedMatQ7VecQ15Opt
)

// Selector is the constraint satisfied by exactly three types: Q7Q7Q7,
// Q15Q15Q15 and Q15Q7Q7. Each maps one (input, weight, bias) element-type
// combination to its kernels. Nodes for any other combination do not compile.
type Selector[In, W, B tensor.Quantized] interface {
	Q7Q7Q7 | Q15Q15Q15 | Q15Q7Q7

	// Kernel returns the kernel for the given layout.
	Kernel(l Layout) kernels.FullyConnected[In, W, B]
	// KernelName returns the name of the kernel for the given layout.
	KernelName(l Layout) string
	// Scratch returns the Q15 scratch elements needed for dimVec inputs.
	Scratch(dimVec int) int
	// Variant returns the runtime tag of this combination.
	Variant() Variant
}

// The selectors carry zero-length fields of their element types so that no
// two share an underlying type; NewFullyConnected infers In, W and B from the
// selector's methods.

// Q7Q7Q7 selects the fully 8-bit kernels.
type Q7Q7Q7 struct {
	_ [0]tensor.Q7
}

// Kernel returns the kernel for layout l.
func (Q7Q7Q7) Kernel(l Layout) kernels.FullyConnected[tensor.Q7, tensor.Q7, tensor.Q7] {
	if l == Optimized {
		return fcQ7OptImpl
	}
	return fcQ7Impl
}

// KernelName returns the kernel name for layout l.
func (Q7Q7Q7) KernelName(l Layout) string {
	if l == Optimized {
		return "arm_fully_connected_q7_opt"
	}
	return "arm_fully_connected_q7"
}

// Scratch returns the Q15 scratch elements for dimVec inputs.
func (Q7Q7Q7) Scratch(dimVec int) int { return kernels.ScratchQ7(dimVec) }

// Variant returns the runtime tag.
func (Q7Q7Q7) Variant() Variant { return VariantQ7 }

// Q15Q15Q15 selects the fully 16-bit kernels.
type Q15Q15Q15 struct {
	_ [0]tensor.Q15
}

// Kernel returns the kernel for layout l.
func (Q15Q15Q15) Kernel(l Layout) kernels.FullyConnected[tensor.Q15, tensor.Q15, tensor.Q15] {
	if l == Optimized {
		return fcQ15OptImpl
	}
	return fcQ15Impl
}

// KernelName returns the kernel name for layout l.
func (Q15Q15Q15) KernelName(l Layout) string {
	if l == Optimized {
		return "arm_fully_connected_q15_opt"
	}
	return "arm_fully_connected_q15"
}

// Scratch returns the Q15 scratch elements for dimVec inputs.
func (Q15Q15Q15) Scratch(dimVec int) int { return kernels.ScratchQ15(dimVec) }

// Variant returns the runtime tag.
func (Q15Q15Q15) Variant() Variant { return VariantQ15 }

// Q15Q7Q7 selects the mixed-precision kernels: 16-bit activations with 8-bit
// weights and bias.
type Q15Q7Q7 struct {
	_ [0]tensor.Q15
	_ [0]tensor.Q7
}

// Kernel returns the kernel for layout l.
func (Q15Q7Q7) Kernel(l Layout) kernels.FullyConnected[tensor.Q15, tensor.Q7, tensor.Q7] {
	if l == Optimized {
		return fcQ15Q7OptImpl
	}
	return fcQ15Q7Impl
}

// KernelName returns the kernel name for layout l.
func (Q15Q7Q7) KernelName(l Layout) string {
	if l == Optimized {
		return "arm_fully_connected_mat_q7_vec_q15_opt"
	}
	return "arm_fully_connected_mat_q7_vec_q15"
}

// Scratch returns the Q15 scratch elements for dimVec inputs.
func (Q15Q7Q7) Scratch(dimVec int) int { return kernels.ScratchMatQ7VecQ15(dimVec) }

// Variant returns the runtime tag.
func (Q15Q7Q7) Variant() Variant { return VariantQ15Q7 }
