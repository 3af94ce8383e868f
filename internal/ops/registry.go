package ops

import (
	"fmt"
	"slices"

	"github.com/hunglethanh9/uTensor/internal/graph"
)

// Constructor builds an unbound operator.
type Constructor func(opts ...Option) (graph.Operator, error)

// Registry maps operator names to constructors.
type Registry struct {
	ctors map[string]Constructor
}

// NewRegistry creates a registry holding every fully-connected variant under
// OpName(variant, layout).
func NewRegistry() *Registry {
	r := &Registry{
		ctors: make(map[string]Constructor),
	}
	r.registerFullyConnected()
	return r
}

// OpName returns the registry name of a fully-connected node, for example
// "FullyConnectedOpt.q15q7".
func OpName(v Variant, l Layout) string {
	if l == Optimized {
		return "FullyConnectedOpt." + v.String()
	}
	return "FullyConnected." + v.String()
}

func (r *Registry) registerFullyConnected() {
	for _, v := range Variants() {
		for _, l := range []Layout{Standard, Optimized} {
			r.Register(OpName(v, l), func(opts ...Option) (graph.Operator, error) {
				return NewOperator(v, l, opts...)
			})
		}
	}
}

// Register adds or replaces a constructor.
func (r *Registry) Register(name string, ctor Constructor) {
	r.ctors[name] = ctor
}

// Get returns the constructor registered under name.
func (r *Registry) Get(name string) (Constructor, bool) {
	c, ok := r.ctors[name]
	return c, ok
}

// Build constructs the operator registered under name.
func (r *Registry) Build(name string, opts ...Option) (graph.Operator, error) {
	ctor, ok := r.ctors[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOp, name)
	}
	return ctor(opts...)
}

// SupportedOps returns every registered name, sorted.
func (r *Registry) SupportedOps() []string {
	ops := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		ops = append(ops, name)
	}
	slices.Sort(ops)
	return ops
}
