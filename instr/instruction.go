// File: instruction.go
// Role: Instruction — a pure function of typed operands producing a
//       double, plus Set — the ordered, append-only instruction catalog.

package instr

import "github.com/katalvlaran/tpglearn/datasrc"

// Instruction is a pure function of len(OperandTypes) operands of the
// declared types, producing a double.
//
// Printable/Template let an instruction be tagged with a code-gen
// template, not required for the core execution engine: Template is
// simply carried as opaque metadata for an eventual code-gen consumer
// and is never interpreted by this package.
type Instruction struct {
	// Name identifies the instruction for diagnostics and serialization.
	Name string

	// OperandTypes declares the exact Type each operand slot must carry.
	OperandTypes []datasrc.Type

	// Fn computes the result from the flattened operand cells, in
	// declaration order (a window operand contributes Rows*Cols cells).
	Fn func(args []float64) float64

	// Printable marks this instruction as having a code-gen Template.
	Printable bool

	// Template is an opaque code-gen template string; unused by the
	// core engine.
	Template string
}

// Arity returns the number of operand slots this instruction declares.
func (ins Instruction) Arity() int { return len(ins.OperandTypes) }

// matches reports whether operands satisfy ins's declared OperandTypes,
// both in count and per-slot Type.
func (ins Instruction) matches(operands []datasrc.Value) bool {
	if len(operands) != len(ins.OperandTypes) {
		return false
	}
	for i, op := range operands {
		if op.Type != ins.OperandTypes[i] {
			return false
		}
	}

	return true
}

// Execute invokes the instruction. It returns 0.0 if the operand count
// or any operand's dynamic Type disagrees with OperandTypes — never
// panics, never errors.
func (ins Instruction) Execute(operands []datasrc.Value) float64 {
	if !ins.matches(operands) {
		return 0.0
	}

	return ins.Fn(flatten(operands))
}

// ExecuteDebug is the debug-mode counterpart to Execute: it signals
// ErrArgumentMismatch instead of silently returning 0.0.
func (ins Instruction) ExecuteDebug(operands []datasrc.Value) (float64, error) {
	if !ins.matches(operands) {
		return 0, ErrArgumentMismatch
	}

	return ins.Fn(flatten(operands)), nil
}

func flatten(operands []datasrc.Value) []float64 {
	n := 0
	for _, op := range operands {
		n += len(op.Data)
	}
	out := make([]float64, 0, n)
	for _, op := range operands {
		out = append(out, op.Data...)
	}

	return out
}

// Set is an ordered, append-only instruction catalog. Duplicates (two
// entries with identical Name/OperandTypes/Fn) are legitimate — Set never
// deduplicates.
type Set []Instruction

// NewSet returns a Set containing ins in the given order.
func NewSet(ins ...Instruction) Set {
	s := make(Set, len(ins))
	copy(s, ins)

	return s
}

// Append returns a new Set with ins appended after s's existing entries,
// per the append-only catalog discipline; s itself is left unmodified.
func (s Set) Append(ins ...Instruction) Set {
	out := make(Set, len(s), len(s)+len(ins))
	copy(out, s)

	return append(out, ins...)
}
