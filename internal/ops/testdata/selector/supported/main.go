package main

import (
	"github.com/hunglethanh9/uTensor/internal/ops"
	"github.com/hunglethanh9/uTensor/internal/tensor"
)

func main() {
	var _ *ops.FullyConnectedOp[tensor.Q7, tensor.Q7, tensor.Q7] = ops.NewFullyConnected(ops.Q7Q7Q7{})
	var _ *ops.FullyConnectedOp[tensor.Q15, tensor.Q15, tensor.Q15] = ops.NewFullyConnectedOpt(ops.Q15Q15Q15{})
	var _ *ops.FullyConnectedOp[tensor.Q15, tensor.Q7, tensor.Q7] = ops.NewFullyConnected(ops.Q15Q7Q7{})
}
