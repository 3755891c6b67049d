// File: errors.go
// Role: sentinel error for the optional debug-mode Instruction dispatch.

package instr

import "errors"

// ErrArgumentMismatch is returned by ExecuteDebug (never by Execute) when
// the operand count or a dynamic operand Type disagrees with the
// instruction's declared OperandTypes.
var ErrArgumentMismatch = errors.New("instr: argument count or type mismatch")
