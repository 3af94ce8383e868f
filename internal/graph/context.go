package graph

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hunglethanh9/uTensor/internal/tensor"
)

type node struct {
	op      Operator
	inputs  []string
	outputs []string
}

// Context owns the tensor table of a graph and runs its operators in the
// order they were pushed. It does no dependency analysis: the builder is
// responsible for pushing producers before consumers.
type Context struct {
	tensors map[string]*tensor.Tensor
	nodes   []node
	logger  *slog.Logger
}

// ContextOption configures a Context.
type ContextOption func(*Context)

// WithLogger sets the logger used for per-operator debug records.
func WithLogger(l *slog.Logger) ContextOption {
	return func(c *Context) {
		c.logger = l
	}
}

// NewContext creates an empty graph context.
func NewContext(opts ...ContextOption) *Context {
	c := &Context{
		tensors: make(map[string]*tensor.Tensor),
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// AddTensor registers t under its name.
func (c *Context) AddTensor(t *tensor.Tensor) error {
	if _, ok := c.tensors[t.Name()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTensor, t.Name())
	}
	c.tensors[t.Name()] = t
	return nil
}

// Tensor returns the tensor registered under name.
func (c *Context) Tensor(name string) (*tensor.Tensor, bool) {
	t, ok := c.tensors[name]
	return t, ok
}

// Push binds op to the named tensors and appends it to the schedule.
func (c *Context) Push(op Operator, inputs, outputs []string) error {
	in, err := c.lookup(inputs)
	if err != nil {
		return fmt.Errorf("push %s: %w", op.Name(), err)
	}
	out, err := c.lookup(outputs)
	if err != nil {
		return fmt.Errorf("push %s: %w", op.Name(), err)
	}
	if err := op.Bind(in, out); err != nil {
		return fmt.Errorf("push %s: %w", op.Name(), err)
	}

	c.nodes = append(c.nodes, node{
		op:      op,
		inputs:  append([]string(nil), inputs...),
		outputs: append([]string(nil), outputs...),
	})
	return nil
}

// Len returns the number of scheduled operators.
func (c *Context) Len() int {
	return len(c.nodes)
}

// Eval runs every scheduled operator once, in push order. ctx is checked
// between operators only; a running Compute is never interrupted.
func (c *Context) Eval(ctx context.Context) error {
	for i := range c.nodes {
		n := &c.nodes[i]
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, n.op.Name(), err)
		}

		start := time.Now()
		if err := n.op.Compute(); err != nil {
			return fmt.Errorf("op %d (%s): %w", i, n.op.Name(), err)
		}
		c.logger.Debug("op computed",
			"op", n.op.Name(),
			"index", i,
			"inputs", n.inputs,
			"outputs", n.outputs,
			"duration", time.Since(start))
	}
	return nil
}

func (c *Context) lookup(names []string) ([]*tensor.Tensor, error) {
	ts := make([]*tensor.Tensor, len(names))
	for i, name := range names {
		t, ok := c.tensors[name]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownTensor, name)
		}
		ts[i] = t
	}
	return ts, nil
}
