package main

import (
	"github.com/hunglethanh9/uTensor/internal/ops"
	"github.com/hunglethanh9/uTensor/internal/tensor"
)

func main() {
	_ = ops.NewFullyConnected[ops.Q7Q7Q7, tensor.Q7, tensor.Q15, tensor.Q7](ops.Q7Q7Q7{})
}
