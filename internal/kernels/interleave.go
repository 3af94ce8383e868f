package kernels

import "github.com/hunglethanh9/uTensor/internal/tensor"

// InterleaveQ7Weights rearranges a row-major [numRows, dimVec] Q7 matrix into
// the layout expected by FullyConnectedQ7Opt and FullyConnectedMatQ7VecQ15Opt:
// blocks of four rows stored column by column, leftover rows row-major.
func InterleaveQ7Weights(w []tensor.Q7, numRows, dimVec int) []tensor.Q7 {
	return interleaveRows4(w, numRows, dimVec)
}

// InterleaveQ15Weights rearranges a row-major [numRows, dimVec] Q15 matrix
// into the layout expected by FullyConnectedQ15Opt: pairs of rows stored in
// column pairs, leftover row row-major.
func InterleaveQ15Weights(w []tensor.Q15, numRows, dimVec int) []tensor.Q15 {
	return interleaveRowPairs(w, numRows, dimVec)
}

func interleaveRows4[T any](w []T, numRows, dimVec int) []T {
	dst := make([]T, 0, numRows*dimVec)
	i := 0
	for ; i+4 <= numRows; i += 4 {
		for j := 0; j < dimVec; j++ {
			for r := i; r < i+4; r++ {
				dst = append(dst, w[r*dimVec+j])
			}
		}
	}
	return append(dst, w[i*dimVec:numRows*dimVec]...)
}

func interleaveRowPairs[T any](w []T, numRows, dimVec int) []T {
	dst := make([]T, 0, numRows*dimVec)
	i := 0
	for ; i+2 <= numRows; i += 2 {
		r0 := w[i*dimVec : (i+1)*dimVec]
		r1 := w[(i+1)*dimVec : (i+2)*dimVec]
		j := 0
		for ; j+2 <= dimVec; j += 2 {
			dst = append(dst, r0[j], r0[j+1], r1[j], r1[j+1])
		}
		if j < dimVec {
			dst = append(dst, r0[j], r1[j])
		}
	}
	return append(dst, w[i*dimVec:numRows*dimVec]...)
}
