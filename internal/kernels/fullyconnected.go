package kernels

import (
	"math"

	"github.com/hunglethanh9/uTensor/internal/tensor"
)

// FullyConnected is the calling convention shared by every kernel:
// out = saturate((w · in + bias<<biasShift) >> outShift), row by row.
// scratch is workspace; its required length depends on the kernel.
type FullyConnected[In, W, B tensor.Quantized] func(
	in []In, w []W,
	dimVec, numRows uint16,
	biasShift, outShift uint16,
	bias []B,
	out []In,
	scratch []tensor.Q15,
)

// FullyConnectedQ7 computes a Q7 layer with a row-major Q7 weight matrix.
// scratch must hold dimVec elements.
func FullyConnectedQ7(in, w []tensor.Q7, dimVec, numRows, biasShift, outShift uint16,
	bias, out []tensor.Q7, scratch []tensor.Q15) {
	vec := widen(in, scratch, int(dimVec))
	rowMajor(vec, w, int(dimVec), int(numRows), biasShift, outShift, bias, out, saturateQ7)
}

// FullyConnectedQ7Opt computes a Q7 layer with weights in the 4-row
// interleaved layout. scratch must hold dimVec elements.
func FullyConnectedQ7Opt(in, w []tensor.Q7, dimVec, numRows, biasShift, outShift uint16,
	bias, out []tensor.Q7, scratch []tensor.Q15) {
	vec := widen(in, scratch, int(dimVec))
	rowBlocks4(vec, w, int(dimVec), int(numRows), biasShift, outShift, bias, out, saturateQ7)
}

// FullyConnectedQ15 computes a Q15 layer with a row-major Q15 weight matrix.
// scratch is unused.
func FullyConnectedQ15(in, w []tensor.Q15, dimVec, numRows, biasShift, outShift uint16,
	bias, out []tensor.Q15, _ []tensor.Q15) {
	rowMajor(in, w, int(dimVec), int(numRows), biasShift, outShift, bias, out, saturateQ15)
}

// FullyConnectedQ15Opt computes a Q15 layer with weights in the 2-row
// column-pair interleaved layout. scratch is unused.
func FullyConnectedQ15Opt(in, w []tensor.Q15, dimVec, numRows, biasShift, outShift uint16,
	bias, out []tensor.Q15, _ []tensor.Q15) {
	rowPairs2(in, w, int(dimVec), int(numRows), biasShift, outShift, bias, out, saturateQ15)
}

// FullyConnectedMatQ7VecQ15 computes a mixed-precision layer: Q15
// activations, row-major Q7 weights and Q7 bias, Q15 output. scratch is unused.
func FullyConnectedMatQ7VecQ15(in []tensor.Q15, w []tensor.Q7, dimVec, numRows, biasShift, outShift uint16,
	bias []tensor.Q7, out []tensor.Q15, _ []tensor.Q15) {
	rowMajor(in, w, int(dimVec), int(numRows), biasShift, outShift, bias, out, saturateQ15)
}

// FullyConnectedMatQ7VecQ15Opt is FullyConnectedMatQ7VecQ15 with weights in
// the 4-row interleaved layout.
func FullyConnectedMatQ7VecQ15Opt(in []tensor.Q15, w []tensor.Q7, dimVec, numRows, biasShift, outShift uint16,
	bias []tensor.Q7, out []tensor.Q15, _ []tensor.Q15) {
	rowBlocks4(in, w, int(dimVec), int(numRows), biasShift, outShift, bias, out, saturateQ15)
}

// ScratchQ7 returns the Q15 scratch elements the Q7 kernels need.
func ScratchQ7(dimVec int) int { return dimVec }

// ScratchQ15 returns the Q15 scratch elements the Q15 kernels need.
func ScratchQ15(int) int { return 0 }

// ScratchMatQ7VecQ15 returns the Q15 scratch elements the mixed kernels need.
func ScratchMatQ7VecQ15(int) int { return 0 }

// widen copies a Q7 vector into scratch as Q15.
func widen(in []tensor.Q7, scratch []tensor.Q15, n int) []tensor.Q15 {
	vec := scratch[:n]
	for j := range vec {
		vec[j] = tensor.Q15(in[j])
	}
	return vec
}

func initAcc[B tensor.Quantized](bias B, biasShift, outShift uint16) int32 {
	return int32(bias)<<biasShift + nnRound(outShift)
}

// nnRound is the rounding offset added before the output shift.
func nnRound(outShift uint16) int32 {
	return int32((uint32(1) << outShift) >> 1)
}

func saturateQ7(x int32) tensor.Q7 {
	switch {
	case x > math.MaxInt8:
		return math.MaxInt8
	case x < math.MinInt8:
		return math.MinInt8
	}
	return tensor.Q7(x)
}

func saturateQ15(x int32) tensor.Q15 {
	switch {
	case x > math.MaxInt16:
		return math.MaxInt16
	case x < math.MinInt16:
		return math.MinInt16
	}
	return tensor.Q15(x)
}

// rowMajor is the plain GEMV loop over a row-major weight matrix.
func rowMajor[V, W, B, O tensor.Quantized](vec []V, w []W, dimVec, numRows int,
	biasShift, outShift uint16, bias []B, out []O, sat func(int32) O) {
	for i := 0; i < numRows; i++ {
		sum := initAcc(bias[i], biasShift, outShift)
		row := w[i*dimVec : (i+1)*dimVec]
		for j, wv := range row {
			sum += int32(wv) * int32(vec[j])
		}
		out[i] = sat(sum >> outShift)
	}
}

// rowBlocks4 walks weights stored four rows at a time, column by column.
// Rows left over after the last full block follow in row-major order.
func rowBlocks4[V, W, B, O tensor.Quantized](vec []V, w []W, dimVec, numRows int,
	biasShift, outShift uint16, bias []B, out []O, sat func(int32) O) {
	p := 0
	i := 0
	for ; i+4 <= numRows; i += 4 {
		s0 := initAcc(bias[i], biasShift, outShift)
		s1 := initAcc(bias[i+1], biasShift, outShift)
		s2 := initAcc(bias[i+2], biasShift, outShift)
		s3 := initAcc(bias[i+3], biasShift, outShift)
		for j := 0; j < dimVec; j++ {
			x := int32(vec[j])
			s0 += int32(w[p]) * x
			s1 += int32(w[p+1]) * x
			s2 += int32(w[p+2]) * x
			s3 += int32(w[p+3]) * x
			p += 4
		}
		out[i] = sat(s0 >> outShift)
		out[i+1] = sat(s1 >> outShift)
		out[i+2] = sat(s2 >> outShift)
		out[i+3] = sat(s3 >> outShift)
	}
	rowMajor(vec, w[p:], dimVec, numRows-i, biasShift, outShift, bias[i:], out[i:], sat)
}

// rowPairs2 walks weights stored two rows at a time in column pairs
// (r0[j] r0[j+1] r1[j] r1[j+1]); an odd trailing column is stored as
// r0[n-1] r1[n-1]. A leftover row follows in row-major order.
func rowPairs2[V, W, B, O tensor.Quantized](vec []V, w []W, dimVec, numRows int,
	biasShift, outShift uint16, bias []B, out []O, sat func(int32) O) {
	p := 0
	i := 0
	for ; i+2 <= numRows; i += 2 {
		s0 := initAcc(bias[i], biasShift, outShift)
		s1 := initAcc(bias[i+1], biasShift, outShift)
		j := 0
		for ; j+2 <= dimVec; j += 2 {
			x0, x1 := int32(vec[j]), int32(vec[j+1])
			s0 += int32(w[p])*x0 + int32(w[p+1])*x1
			s1 += int32(w[p+2])*x0 + int32(w[p+3])*x1
			p += 4
		}
		if j < dimVec {
			x := int32(vec[j])
			s0 += int32(w[p]) * x
			s1 += int32(w[p+1]) * x
			p += 2
		}
		out[i] = sat(s0 >> outShift)
		out[i+1] = sat(s1 >> outShift)
	}
	rowMajor(vec, w[p:], dimVec, numRows-i, biasShift, outShift, bias[i:], out[i:], sat)
}
