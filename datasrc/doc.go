// Package datasrc provides the typed memory views ("data sources") that
// Program operands are read from: a flat array, a windowed dense matrix,
// an immutable array of Constant, and the per-execution register bank.
//
// All four implement the Handler capability:
//
//   - TypeSet() []Type        — operand types this handler can serve
//   - AddressSpace(Type) int  — size of the addressable range for a type
//   - Get(Type, addr) (Value, error)
//   - Hash() uint64           — deterministic content hash (Archive key)
//   - ID() string             — stable identity, checked on data-source swap
//   - Clone() Handler         — independent deep copy
//   - Reset()                 — clear to the zero value
//
// A Type is either a 1×1 scalar or an R×C window; there is no reflection
// or runtime type-info dispatch — Type is a small closed struct and every
// Handler declares the exact set it serves up front.
//
// Errors:
//
//	ErrOutOfRange   - Get called with addr outside [0, AddressSpace(t)).
//	ErrTypeMismatch - Get called with a Type the handler does not serve.
package datasrc
