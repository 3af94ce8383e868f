// Package kernels provides the fixed-point fully-connected kernels that the
// operator layer dispatches to.
//
// The kernels mirror the CMSIS-NN fully-connected family: one function per
// (input, weight, bias) format and weight layout. They are pure Go reference
// implementations; all of them share the calling convention described by
// FullyConnected and perform no validation of their arguments. Malformed
// sizes cause an index panic.
//
// Fixed-point rule, for every output row i:
//
//	acc    = bias[i] << biasShift + round(outShift)
//	acc   += sum_j w[i][j] * in[j]        (int32, wrapping)
//	out[i] = saturate(acc >> outShift)    (8 or 16 bits)
//
// where round(s) = (1 << s) >> 1.
//
// Optimized kernels expect weights pre-arranged with InterleaveQ7Weights or
// InterleaveQ15Weights.
package kernels
