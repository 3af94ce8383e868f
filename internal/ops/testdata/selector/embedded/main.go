package main

import (
	"github.com/hunglethanh9/uTensor/internal/kernels"
	"github.com/hunglethanh9/uTensor/internal/ops"
	"github.com/hunglethanh9/uTensor/internal/tensor"
)

type q7q15 struct{ ops.Q7Q7Q7 }

func (q7q15) Kernel(ops.Layout) kernels.FullyConnected[tensor.Q7, tensor.Q15, tensor.Q7] {
	return nil
}

func main() {
	_ = ops.NewFullyConnected[q7q15, tensor.Q7, tensor.Q15, tensor.Q7](q7q15{})
}
