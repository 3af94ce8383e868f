package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunglethanh9/uTensor/internal/graph"
	"github.com/hunglethanh9/uTensor/internal/kernels"
	"github.com/hunglethanh9/uTensor/internal/tensor"
)

func satisfies[S Selector[In, W, B], In, W, B tensor.Quantized]() {}

var (
	_ = satisfies[Q7Q7Q7, tensor.Q7, tensor.Q7, tensor.Q7]
	_ = satisfies[Q15Q15Q15, tensor.Q15, tensor.Q15, tensor.Q15]
	_ = satisfies[Q15Q7Q7, tensor.Q15, tensor.Q7, tensor.Q7]
)

func recordingKernel[In, W, B tensor.Quantized](name string, calls *[]string) kernels.FullyConnected[In, W, B] {
	return func(_ []In, _ []W, dimVec, numRows, _, _ uint16, _ []B, out []In, _ []tensor.Q15) {
		*calls = append(*calls, name)
		for i := range out[:numRows] {
			out[i] = In(dimVec)
		}
	}
}

// stubKernels swaps every kernel entry point for a recording stub.
func stubKernels(t *testing.T) *[]string {
	t.Helper()
	calls := new([]string)

	saved := []any{fcQ7Impl, fcQ7OptImpl, fcQ15Impl, fcQ15OptImpl, fcQ15Q7Impl, fcQ15Q7OptImpl}
	t.Cleanup(func() {
		fcQ7Impl = saved[0].(kernels.FullyConnected[tensor.Q7, tensor.Q7, tensor.Q7])
		fcQ7OptImpl = saved[1].(kernels.FullyConnected[tensor.Q7, tensor.Q7, tensor.Q7])
		fcQ15Impl = saved[2].(kernels.FullyConnected[tensor.Q15, tensor.Q15, tensor.Q15])
		fcQ15OptImpl = saved[3].(kernels.FullyConnected[tensor.Q15, tensor.Q15, tensor.Q15])
		fcQ15Q7Impl = saved[4].(kernels.FullyConnected[tensor.Q15, tensor.Q7, tensor.Q7])
		fcQ15Q7OptImpl = saved[5].(kernels.FullyConnected[tensor.Q15, tensor.Q7, tensor.Q7])
	})

	fcQ7Impl = recordingKernel[tensor.Q7, tensor.Q7, tensor.Q7]("q7", calls)
	fcQ7OptImpl = recordingKernel[tensor.Q7, tensor.Q7, tensor.Q7]("q7_opt", calls)
	fcQ15Impl = recordingKernel[tensor.Q15, tensor.Q15, tensor.Q15]("q15", calls)
	fcQ15OptImpl = recordingKernel[tensor.Q15, tensor.Q15, tensor.Q15]("q15_opt", calls)
	fcQ15Q7Impl = recordingKernel[tensor.Q15, tensor.Q7, tensor.Q7]("q15q7", calls)
	fcQ15Q7OptImpl = recordingKernel[tensor.Q15, tensor.Q7, tensor.Q7]("q15q7_opt", calls)
	return calls
}

func tensorsFor(t *testing.T, v Variant) *fcTensors {
	t.Helper()
	switch v {
	case VariantQ7:
		return newFCTensors(t, []tensor.Q7{1, 2}, []tensor.Q7{1, 2, 3, 4}, tensor.Shape{2, 2}, []tensor.Q7{0, 0}, 0, 0, 2)
	case VariantQ15:
		return newFCTensors(t, []tensor.Q15{1, 2}, []tensor.Q15{1, 2, 3, 4}, tensor.Shape{2, 2}, []tensor.Q15{0, 0}, 0, 0, 0)
	default:
		return newFCTensors(t, []tensor.Q15{1, 2}, []tensor.Q7{1, 2, 3, 4}, tensor.Shape{2, 2}, []tensor.Q7{0, 0}, 0, 0, 0)
	}
}

func TestEachVariantDispatchesToItsOwnKernel(t *testing.T) {
	want := map[string]string{
		OpName(VariantQ7, Standard):     "q7",
		OpName(VariantQ7, Optimized):    "q7_opt",
		OpName(VariantQ15, Standard):    "q15",
		OpName(VariantQ15, Optimized):   "q15_opt",
		OpName(VariantQ15Q7, Standard):  "q15q7",
		OpName(VariantQ15Q7, Optimized): "q15q7_opt",
	}

	seen := make(map[string]bool)
	for _, v := range Variants() {
		for _, l := range []Layout{Standard, Optimized} {
			t.Run(OpName(v, l), func(t *testing.T) {
				calls := stubKernels(t)

				op, err := NewOperator(v, l)
				require.NoError(t, err)
				f := tensorsFor(t, v)
				bind(t, op, f)

				require.NoError(t, op.Compute())
				require.Len(t, *calls, 1, "exactly one kernel per Compute")
				assert.Equal(t, want[OpName(v, l)], (*calls)[0])
				seen[(*calls)[0]] = true
			})
		}
	}
	assert.Len(t, seen, 6, "every combination reaches a distinct kernel")
}

func TestKernelResolvedAtBuildTime(t *testing.T) {
	op := NewFullyConnected(Q15Q15Q15{})
	calls := stubKernels(t)

	f := tensorsFor(t, VariantQ15)
	bind(t, op, f)
	require.NoError(t, op.Compute())

	assert.Empty(t, *calls, "node keeps the kernel current when it was built")
	assert.Equal(t, []tensor.Q15{5, 11}, readAll[tensor.Q15](t, f.out))
}

func TestStubReceivesShapeScalars(t *testing.T) {
	calls := stubKernels(t)

	f := newFCTensors(t, []tensor.Q7{1, 2, 3}, make([]tensor.Q7, 6), tensor.Shape{2, 3}, []tensor.Q7{0, 0}, 0, 0, 3)
	op := NewFullyConnected(Q7Q7Q7{})
	bind(t, op, f)
	require.NoError(t, op.Compute())

	require.Len(t, *calls, 1)
	assert.Equal(t, []tensor.Q7{3, 3}, readAll[tensor.Q7](t, f.out), "dimVec comes from the input shape")
}

func TestSelectorMetadata(t *testing.T) {
	assert.Equal(t, "arm_fully_connected_q7", Q7Q7Q7{}.KernelName(Standard))
	assert.Equal(t, "arm_fully_connected_q15_opt", Q15Q15Q15{}.KernelName(Optimized))
	assert.Equal(t, "arm_fully_connected_mat_q7_vec_q15", Q15Q7Q7{}.KernelName(Standard))

	assert.Equal(t, 9, Q7Q7Q7{}.Scratch(9))
	assert.Zero(t, Q15Q15Q15{}.Scratch(9))
	assert.Zero(t, Q15Q7Q7{}.Scratch(9))

	op := NewFullyConnectedOpt(Q15Q7Q7{})
	var _ *FullyConnectedOp[tensor.Q15, tensor.Q7, tensor.Q7] = op
	assert.Equal(t, "FullyConnectedOpt", op.Name())
	assert.Equal(t, Optimized, op.Layout())
	assert.Equal(t, VariantQ15Q7, op.Variant())
	assert.Equal(t, "arm_fully_connected_mat_q7_vec_q15_opt", op.KernelName())

	var _ graph.Operator = op
}
