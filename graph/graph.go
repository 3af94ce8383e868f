// Copyright 2025 uTensor Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package graph provides the operator interface and the context that runs a
// sequence of operators over named tensors.
//
// Example:
//
//	g := graph.NewContext()
//	_ = g.AddTensor(input)
//	_ = g.AddTensor(output)
//	_ = g.Push(op, []string{"input", ...}, []string{"output"})
//	err := g.Eval(ctx)
package graph

import (
	"log/slog"

	"github.com/hunglethanh9/uTensor/internal/graph"
)

// Operator is a graph node bound to input and output tensors.
type Operator = graph.Operator

// Base carries the bound tensors of an operator.
type Base = graph.Base

// Context owns a graph's tensors and schedule.
type Context = graph.Context

// ContextOption configures a Context.
type ContextOption = graph.ContextOption

// Errors returned while building or binding a graph.
var (
	ErrArity           = graph.ErrArity
	ErrUnbound         = graph.ErrUnbound
	ErrDuplicateTensor = graph.ErrDuplicateTensor
	ErrUnknownTensor   = graph.ErrUnknownTensor
)

// NewContext creates an empty graph context.
func NewContext(opts ...ContextOption) *Context {
	return graph.NewContext(opts...)
}

// NewBase creates an operator base with fixed arity.
func NewBase(nInputs, nOutputs int) Base {
	return graph.NewBase(nInputs, nOutputs)
}

// WithLogger sets the logger used for per-operator debug records.
func WithLogger(l *slog.Logger) ContextOption {
	return graph.WithLogger(l)
}
