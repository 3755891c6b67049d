// File: builtins.go
// Role: the built-in Instruction catalog: plain binary scalar arithmetic
//       plus a constant-operand multiply.

package instr

import "github.com/katalvlaran/tpglearn/datasrc"

func binaryScalar(name string, fn func(a, b float64) float64) Instruction {
	return Instruction{
		Name:         name,
		OperandTypes: []datasrc.Type{datasrc.Scalar(), datasrc.Scalar()},
		Fn:           func(args []float64) float64 { return fn(args[0], args[1]) },
	}
}

// Add computes a+b.
func Add() Instruction { return binaryScalar("add", func(a, b float64) float64 { return a + b }) }

// Sub computes a-b.
func Sub() Instruction { return binaryScalar("sub", func(a, b float64) float64 { return a - b }) }

// Mult computes a*b.
func Mult() Instruction { return binaryScalar("mult", func(a, b float64) float64 { return a * b }) }

// Div computes a/b, returning 0 for b==0 rather than ±Inf/NaN — the
// instruction contract never signals a runtime error on valid operand
// types, so division-by-zero degrades to a neutral, defined result
// instead of silently producing NaN/Inf that would later trip the
// edge-evaluation NaN→-Inf rewrite in an unintended place.
func Div() Instruction {
	return binaryScalar("div", func(a, b float64) float64 {
		if b == 0 {
			return 0
		}

		return a / b
	})
}

// Minimum computes min(a,b).
func Minimum() Instruction {
	return binaryScalar("minimum", func(a, b float64) float64 {
		if a < b {
			return a
		}

		return b
	})
}

// Maximum computes max(a,b).
func Maximum() Instruction {
	return binaryScalar("maximum", func(a, b float64) float64 {
		if a > b {
			return a
		}

		return b
	})
}

// Modulo computes a mod b (truncated, like math.Mod), returning 0 for
// b==0 by the same defined-degradation rationale as Div.
func Modulo() Instruction {
	return binaryScalar("modulo", func(a, b float64) float64 {
		if b == 0 {
			return 0
		}
		q := float64(int64(a / b))

		return a - q*b
	})
}

// MultByConstant computes a*c, where the second operand is drawn from
// the Constant domain (source index 1 — a Program's own constants),
// exercising the constant-parameter operand path distinct from ordinary
// register/data operands.
func MultByConstant() Instruction {
	return Instruction{
		Name:         "mult_by_constant",
		OperandTypes: []datasrc.Type{datasrc.Scalar(), datasrc.ScalarConstant()},
		Fn:           func(args []float64) float64 { return args[0] * args[1] },
	}
}

// DefaultSet returns the built-in instruction catalog in a fixed,
// documented order (line-encoding instruction indices depend on this
// order being stable across a training run).
func DefaultSet() Set {
	return NewSet(Add(), Sub(), Mult(), Div(), Minimum(), Maximum(), Modulo(), MultByConstant())
}
