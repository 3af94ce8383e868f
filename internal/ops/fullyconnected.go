package ops

import (
	"fmt"
	"math"

	"github.com/hunglethanh9/uTensor/internal/kernels"
	"github.com/hunglethanh9/uTensor/internal/tensor"
)

// FullyConnected marshals the bound tensors into kernel's calling convention
// and writes the result into out.
//
//   - dimVec is the first dimension of in, numRows the first dimension of
//     weights.
//   - out is resized to the shape of bias before the kernel runs.
//   - scratch is handed to the kernel as Q15 workspace; it is sized by the
//     graph builder.
//
// Only out and scratch are mutated. No shape consistency is checked here; the
// kernel trusts dimVec and numRows. Use CheckFullyConnected first when the
// graph is not known to be well-formed. Errors come from the tensor layer:
// missing storage, wrong element types, allocation failures, or out being
// borrowed (for example when it aliases an input).
func FullyConnected[In, W, B tensor.Quantized](kernel kernels.FullyConnected[In, W, B],
	in, weights, bias, biasShift, outShift, scratch, out *tensor.Tensor) error {
	iv, err := tensor.Read[In](in, 0, 1)
	if err != nil {
		return fmt.Errorf("input: %w", err)
	}
	defer iv.Release()

	wv, err := tensor.Read[W](weights, 0, 1)
	if err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	defer wv.Release()

	bv, err := tensor.Read[B](bias, 0, 1)
	if err != nil {
		return fmt.Errorf("bias: %w", err)
	}
	defer bv.Release()

	dimVec := uint16(in.Shape().Dim(0))
	numRows := uint16(weights.Shape().Dim(0))

	bShift, err := readShift(biasShift)
	if err != nil {
		return fmt.Errorf("bias shift: %w", err)
	}
	oShift, err := readShift(outShift)
	if err != nil {
		return fmt.Errorf("output shift: %w", err)
	}

	if err := out.Resize(bias.Shape()); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	ov, err := tensor.Write[In](out, 0, 1)
	if err != nil {
		return fmt.Errorf("output: %w", err)
	}
	defer ov.Release()

	sv, err := tensor.Write[tensor.Q15](scratch, 0, 0)
	if err != nil {
		return fmt.Errorf("scratch: %w", err)
	}
	defer sv.Release()

	kernel(iv.Data(), wv.Data(), dimVec, numRows, bShift, oShift, bv.Data(), ov.Data(), sv.Data())
	return nil
}

func readShift(t *tensor.Tensor) (uint16, error) {
	v, err := tensor.Read[uint16](t, 0, 1)
	if err != nil {
		return 0, err
	}
	defer v.Release()
	return v.At(0), nil
}

// CheckFullyConnected verifies that the tensors bound to a fully-connected
// node are mutually consistent for the kernel of variant v and layout l: in is
// a vector of dimVec elements, weights hold numRows*dimVec elements with
// numRows as the first dimension, bias holds numRows elements, both shifts are
// single values and scratch is large enough. Failures are *ShapeError values.
func CheckFullyConnected(v Variant, l Layout,
	in, weights, bias, biasShift, outShift, scratch *tensor.Tensor) error {
	dimVec := in.Shape().Dim(0)
	switch {
	case dimVec == 0 || in.NumElements() != dimVec:
		return shapeErr("input", in, "want a non-empty vector, got shape %v", in.Shape())
	case dimVec > math.MaxUint16:
		return shapeErr("input", in, "length %d exceeds %d", dimVec, math.MaxUint16)
	}

	numRows := weights.Shape().Dim(0)
	switch {
	case numRows == 0:
		return shapeErr("weights", weights, "no rows in shape %v", weights.Shape())
	case numRows > math.MaxUint16:
		return shapeErr("weights", weights, "%d rows exceed %d", numRows, math.MaxUint16)
	case weights.NumElements() != numRows*dimVec:
		return shapeErr("weights", weights, "shape %v does not match %d rows of %d columns",
			weights.Shape(), numRows, dimVec)
	}

	if bias.NumElements() != numRows {
		return shapeErr("bias", bias, "%d elements for %d rows", bias.NumElements(), numRows)
	}
	if n := biasShift.NumElements(); n != 1 {
		return shapeErr("bias shift", biasShift, "%d elements, want 1", n)
	}
	if n := outShift.NumElements(); n != 1 {
		return shapeErr("output shift", outShift, "%d elements, want 1", n)
	}
	if need := v.Scratch(dimVec); scratch.NumElements() < need {
		return shapeErr("scratch", scratch, "%d elements, %s needs %d",
			scratch.NumElements(), v.KernelName(l), need)
	}
	return nil
}

func shapeErr(role string, t *tensor.Tensor, format string, args ...any) error {
	return &ShapeError{Tensor: role, Name: t.Name(), Details: fmt.Sprintf(format, args...)}
}
