// Package ops implements the quantized fully-connected operators.
//
// Element types are fixed when an operator is instantiated. A selector type
// names one of the supported (input, weight, bias) combinations:
//
//	Q7Q7Q7     8-bit activations, weights and bias
//	Q15Q15Q15  16-bit activations, weights and bias
//	Q15Q7Q7    16-bit activations, 8-bit weights and bias
//
// Selector is a type-set constraint holding only those three types, so asking
// for any other combination, for example
// NewFullyConnected[Q7Q7Q7, tensor.Q7, tensor.Q15, tensor.Q15], does not
// compile, and neither does passing nil or a type embedding a selector.
// The kernel for a node is resolved once, when the node is built; Compute
// calls it directly.
//
// Loaders that only know the combination at runtime use NewOperator or the
// Registry, which map a Variant and a Layout to a concrete node at graph-build
// time.
package ops
