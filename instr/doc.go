// Package instr defines the catalog of pure numeric Instructions a
// Program's lines may invoke, plus a small built-in arithmetic set
// (Add, Sub, Mult, Div, Minimum, Maximum, Modulo, MultByConstant).
//
// A Set is an ordered, append-only []Instruction: adding an instruction
// never removes or reorders an earlier one (stable line encodings rely
// on instruction index), and duplicate instructions are legitimate (two
// entries with the same operand types and function are not merged).
//
// Errors: none of its own — Execute returns 0.0 on an operand-count or
// operand-type mismatch; there is no sentinel to check because the zero
// value IS the documented contract. ExecuteDebug signals
// ErrArgumentMismatch for callers that want to fail loudly instead.
package instr
