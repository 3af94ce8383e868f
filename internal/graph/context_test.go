package graph

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hunglethanh9/uTensor/internal/tensor"
)

// addOneOp writes input+1 to its output and records the call order.
type addOneOp struct {
	Base
	calls *[]string
	err   error
}

func newAddOne(calls *[]string) *addOneOp {
	return &addOneOp{Base: NewBase(1, 1), calls: calls}
}

func (op *addOneOp) Name() string { return "AddOne" }

func (op *addOneOp) Compute() error {
	if op.err != nil {
		return op.err
	}
	in, err := tensor.Read[int32](op.Inputs()[0], 0, 1)
	if err != nil {
		return err
	}
	defer in.Release()

	out := op.Outputs()[0]
	if err := out.Resize(op.Inputs()[0].Shape()); err != nil {
		return err
	}
	w, err := tensor.Write[int32](out, 0, 1)
	if err != nil {
		return err
	}
	defer w.Release()

	for i, v := range in.Data() {
		w.Data()[i] = v + 1
	}
	*op.calls = append(*op.calls, out.Name())
	return nil
}

func newTensors(t *testing.T, c *Context) {
	t.Helper()
	x, err := tensor.FromSlice("x", []int32{1, 2}, tensor.Shape{2})
	require.NoError(t, err)
	require.NoError(t, c.AddTensor(x))
	for _, name := range []string{"y", "z"} {
		tt, err := tensor.New(name, tensor.Shape{1})
		require.NoError(t, err)
		require.NoError(t, c.AddTensor(tt))
	}
}

func TestContextEvalRunsInPushOrder(t *testing.T) {
	c := NewContext()
	newTensors(t, c)

	var calls []string
	require.NoError(t, c.Push(newAddOne(&calls), []string{"x"}, []string{"y"}))
	require.NoError(t, c.Push(newAddOne(&calls), []string{"y"}, []string{"z"}))
	assert.Equal(t, 2, c.Len())

	require.NoError(t, c.Eval(context.Background()))
	assert.Equal(t, []string{"y", "z"}, calls)

	z, _ := c.Tensor("z")
	v, err := tensor.Read[int32](z, 0, 2)
	require.NoError(t, err)
	defer v.Release()
	assert.Equal(t, []int32{3, 4}, v.Data())
}

func TestContextRejectsDuplicateTensor(t *testing.T) {
	c := NewContext()
	newTensors(t, c)

	dup, err := tensor.New("x", tensor.Shape{1})
	require.NoError(t, err)
	assert.ErrorIs(t, c.AddTensor(dup), ErrDuplicateTensor)
}

func TestContextPushErrors(t *testing.T) {
	c := NewContext()
	newTensors(t, c)
	var calls []string

	err := c.Push(newAddOne(&calls), []string{"missing"}, []string{"y"})
	assert.ErrorIs(t, err, ErrUnknownTensor)

	err = c.Push(newAddOne(&calls), []string{"x", "y"}, []string{"z"})
	assert.ErrorIs(t, err, ErrArity)

	assert.Zero(t, c.Len())
}

func TestContextEvalWrapsOperatorError(t *testing.T) {
	c := NewContext()
	newTensors(t, c)
	var calls []string

	boom := errors.New("boom")
	op := newAddOne(&calls)
	op.err = boom
	require.NoError(t, c.Push(op, []string{"x"}, []string{"y"}))

	err := c.Eval(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "op 0 (AddOne)")
}

func TestContextEvalStopsBetweenOpsOnCancel(t *testing.T) {
	c := NewContext()
	newTensors(t, c)
	var calls []string
	require.NoError(t, c.Push(newAddOne(&calls), []string{"x"}, []string{"y"}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Eval(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, calls)
}

func TestContextLogsEachOp(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	c := NewContext(WithLogger(logger))
	newTensors(t, c)
	var calls []string
	require.NoError(t, c.Push(newAddOne(&calls), []string{"x"}, []string{"y"}))
	require.NoError(t, c.Eval(context.Background()))

	assert.Contains(t, buf.String(), "op computed")
	assert.Contains(t, buf.String(), "op=AddOne")
}

func TestBaseBind(t *testing.T) {
	b := NewBase(2, 1)
	assert.False(t, b.Bound())

	x, err := tensor.New("x", tensor.Shape{1})
	require.NoError(t, err)

	assert.ErrorIs(t, b.Bind([]*tensor.Tensor{x, nil}, []*tensor.Tensor{x}), ErrUnbound)
	assert.ErrorIs(t, b.Bind([]*tensor.Tensor{x, x}, nil), ErrArity)

	require.NoError(t, b.Bind([]*tensor.Tensor{x, x}, []*tensor.Tensor{x}))
	assert.True(t, b.Bound())
	assert.Len(t, b.Inputs(), 2)
	assert.Len(t, b.Outputs(), 1)
}
