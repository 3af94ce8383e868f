package ops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunglethanh9/uTensor/internal/graph"
	"github.com/hunglethanh9/uTensor/internal/tensor"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()

	want := []string{
		"FullyConnected.q15",
		"FullyConnected.q15q7",
		"FullyConnected.q7",
		"FullyConnectedOpt.q15",
		"FullyConnectedOpt.q15q7",
		"FullyConnectedOpt.q7",
	}
	assert.Equal(t, want, r.SupportedOps())
}

func TestRegistryBuild(t *testing.T) {
	r := NewRegistry()

	op, err := r.Build("FullyConnectedOpt.q7", WithShapeChecks(true))
	require.NoError(t, err)

	fc, ok := op.(*FullyConnectedOp[tensor.Q7, tensor.Q7, tensor.Q7])
	require.True(t, ok, "got %T", op)
	assert.Equal(t, Optimized, fc.Layout())
	assert.True(t, fc.checkShapes)
}

func TestRegistryGetUnknown(t *testing.T) {
	r := NewRegistry()

	_, ok := r.Get("Conv2D")
	assert.False(t, ok)

	_, err := r.Build("Conv2D")
	assert.ErrorIs(t, err, ErrUnknownOp)
}

func TestRegisterCustomOp(t *testing.T) {
	r := NewRegistry()

	r.Register("MyFullyConnected", func(opts ...Option) (graph.Operator, error) {
		return NewFullyConnected(Q15Q15Q15{}, opts...), nil
	})

	op, err := r.Build("MyFullyConnected")
	require.NoError(t, err)
	assert.Equal(t, "FullyConnected", op.Name())
}

func TestNewOperatorRejectsUnknownTags(t *testing.T) {
	_, err := NewOperator(Variant(42), Standard)
	assert.ErrorIs(t, err, ErrUnsupportedVariant)

	_, err = NewOperator(VariantQ7, Layout(9))
	assert.Error(t, err)
}

func TestParseVariant(t *testing.T) {
	tests := map[string]Variant{
		"q7":          VariantQ7,
		"Q7Q7Q7":      VariantQ7,
		"q15":         VariantQ15,
		"q15-q15-q15": VariantQ15,
		"q15q7":       VariantQ15Q7,
		"q15/q7/q7":   VariantQ15Q7,
	}
	for in, want := range tests {
		got, err := ParseVariant(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseVariant("q7q15")
	assert.ErrorIs(t, err, ErrUnsupportedVariant)
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout("opt")
	require.NoError(t, err)
	assert.Equal(t, Optimized, l)

	l, err = ParseLayout("")
	require.NoError(t, err)
	assert.Equal(t, Standard, l)

	_, err = ParseLayout("transposed")
	assert.Error(t, err)
}

func TestVariantTypes(t *testing.T) {
	in, w, b := VariantQ15Q7.Types()
	assert.Equal(t, tensor.Q15Type, in)
	assert.Equal(t, tensor.Q7Type, w)
	assert.Equal(t, tensor.Q7Type, b)

	assert.Equal(t, "arm_fully_connected_q15", VariantQ15.KernelName(Standard))
	assert.Equal(t, 5, VariantQ7.Scratch(5))
}
