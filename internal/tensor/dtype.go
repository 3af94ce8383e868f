// Package tensor provides the tensor handle shared across a uTensor graph.
package tensor

// Q7 is a signed 8-bit fixed-point value. The binary point is implicit and
// supplied to kernels through shift parameters.
type Q7 int8

// Q15 is a signed 16-bit fixed-point value.
type Q15 int16

// Quantized is a constraint for the fixed-point formats operators compute on.
type Quantized interface {
	Q7 | Q15
}

// DType is a constraint for every element type a tensor can store.
// It uses Go generics to ensure compile-time type safety.
type DType interface {
	Q7 | Q15 | uint16 | int32
}

// DataType represents runtime type information for tensor storage.
// It is bookkeeping only: operators fix their element types at compile time.
type DataType int

// Supported data types for tensors.
const (
	Invalid DataType = iota
	Q7Type
	Q15Type
	Uint16
	Int32
)

// Size returns the byte size of the data type.
func (dt DataType) Size() int {
	switch dt {
	case Q7Type:
		return 1
	case Q15Type, Uint16:
		return 2
	case Int32:
		return 4
	default:
		panic("unknown data type")
	}
}

// String returns a human-readable name for the data type.
func (dt DataType) String() string {
	switch dt {
	case Q7Type:
		return "q7"
	case Q15Type:
		return "q15"
	case Uint16:
		return "uint16"
	case Int32:
		return "int32"
	default:
		return "invalid"
	}
}

// DataTypeOf returns the DataType for the generic type T.
func DataTypeOf[T DType]() DataType {
	var zero T
	switch any(zero).(type) {
	case Q7:
		return Q7Type
	case Q15:
		return Q15Type
	case uint16:
		return Uint16
	case int32:
		return Int32
	default:
		panic("unsupported type")
	}
}
