package datasrc

import "fmt"

// Elem identifies the element domain of a Type: plain doubles, or the
// signed 32-bit Constant domain (widened to float64 when read).
type Elem uint8

const (
	// ElemFloat64 is the ordinary double-precision operand domain.
	ElemFloat64 Elem = iota
	// ElemConstant is the Constant (int32) operand domain.
	ElemConstant
)

// String implements fmt.Stringer for Elem.
func (e Elem) String() string {
	switch e {
	case ElemFloat64:
		return "float64"
	case ElemConstant:
		return "constant"
	default:
		return fmt.Sprintf("Elem(%d)", uint8(e))
	}
}

// Type is a closed description of an operand shape: a 1×1 scalar, or an
// Rows×Cols window. Two Types are equal iff all three fields match.
type Type struct {
	Elem Elem
	Rows int
	Cols int
}

// Scalar returns the 1×1 scalar Type over the float64 domain.
func Scalar() Type { return Type{Elem: ElemFloat64, Rows: 1, Cols: 1} }

// ScalarConstant returns the 1×1 scalar Type over the Constant domain.
func ScalarConstant() Type { return Type{Elem: ElemConstant, Rows: 1, Cols: 1} }

// Window returns the rows×cols windowed Type over the float64 domain.
// Window panics if rows or cols is not positive — this is a programming
// error at Environment-construction time, not a runtime condition.
func Window(rows, cols int) Type {
	if rows <= 0 || cols <= 0 {
		panic("datasrc: window dimensions must be positive")
	}

	return Type{Elem: ElemFloat64, Rows: rows, Cols: cols}
}

// IsScalar reports whether t is a 1×1 shape.
func (t Type) IsScalar() bool { return t.Rows == 1 && t.Cols == 1 }

// Size returns the number of scalar cells a Value of this Type carries.
func (t Type) Size() int { return t.Rows * t.Cols }

// String implements fmt.Stringer for Type.
func (t Type) String() string {
	if t.IsScalar() {
		return t.Elem.String()
	}

	return fmt.Sprintf("%s[%dx%d]", t.Elem, t.Rows, t.Cols)
}

// Value is the result of a Handler.Get call: a Type tag plus its backing
// cells in row-major order. Scalar returns Data[0] and is a convenience
// for the common 1×1 case.
type Value struct {
	Type Type
	Data []float64
}

// Scalar returns the single cell of a 1×1 Value. Callers must only use
// this when Type.IsScalar() is true.
func (v Value) Scalar() float64 { return v.Data[0] }
