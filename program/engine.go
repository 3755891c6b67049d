// File: engine.go
// Role: ProgramExecutionEngine — runs a Program's non-intron lines
//       against a Registers bank and the Environment's (possibly
//       substituted) external data sources.

package program

import (
	"github.com/katalvlaran/tpglearn/datasrc"
	"github.com/katalvlaran/tpglearn/instr"
)

// ExecutionEngine holds one Program, its external data sources
// (possibly substituted via SetDataSources), and a private register
// bank. Programs are re-executed many times per engine; Registers are
// zeroed at the start of every ExecuteProgram call rather than
// reallocated.
type ExecutionEngine struct {
	program   *Program
	sources   []datasrc.Handler // same length/order/IDs as program.Env().Sources()
	registers *datasrc.Registers
}

// NewExecutionEngine returns an engine over p, using p.Env().Sources()
// as the initial external data sources.
func NewExecutionEngine(p *Program) *ExecutionEngine {
	return &ExecutionEngine{
		program:   p,
		sources:   append([]datasrc.Handler(nil), p.Env().Sources()...),
		registers: datasrc.NewRegisters("registers", p.Env().R()),
	}
}

// SetDataSources swaps the engine's external data sources. Each
// substitute must share the ID of the source it replaces (position for
// position), or this fails ErrIncompatibleDataSources — this is how
// mutation tests a candidate Program's behavior against historical
// Archive snapshots without touching the live environment sources.
func (e *ExecutionEngine) SetDataSources(sources []datasrc.Handler) error {
	want := e.program.Env().Sources()
	if len(sources) != len(want) {
		return ErrIncompatibleDataSources
	}
	for i, s := range sources {
		if s.ID() != want[i].ID() {
			return ErrIncompatibleDataSources
		}
	}
	e.sources = sources

	return nil
}

// SetProgram rebinds the engine to a different Program sharing the same
// Environment (and therefore the same register count and compatible
// sources) — used by mutation to re-run many candidate programs through
// one engine instance without reallocating registers each time.
func (e *ExecutionEngine) SetProgram(p *Program) {
	e.program = p
	if e.registers.Len() != p.Env().R() {
		e.registers = datasrc.NewRegisters("registers", p.Env().R())
	}
}

// Program returns the engine's current Program.
func (e *ExecutionEngine) Program() *Program { return e.program }

// resolvedHandlers returns the ordered [registers, constants?, sources...]
// list operand sourceIndex is resolved against.
func (e *ExecutionEngine) resolvedHandlers() []datasrc.Handler {
	out := make([]datasrc.Handler, 0, 2+len(e.sources))
	out = append(out, e.registers)
	if e.program.Env().K() > 0 {
		out = append(out, e.program.Constants())
	}
	out = append(out, e.sources...)

	return out
}

// ExecuteProgram resets the register bank to zero, then executes every
// non-intron line in order, returning the value of register 0.
//
// When ignoreExceptions is true, a datasrc.ErrOutOfRange or
// datasrc.ErrTypeMismatch raised while resolving an operand or
// dispatching the instruction causes that single line to be skipped
// (its destination register is left untouched) and execution continues;
// otherwise the error is returned immediately and the partial register
// state is abandoned by the caller.
func (e *ExecutionEngine) ExecuteProgram(ignoreExceptions bool) (float64, error) {
	e.registers.Reset()
	handlers := e.resolvedHandlers()
	instructions := e.program.Env().Instructions()

	for _, line := range e.program.Lines() {
		if line.intron {
			continue
		}
		result, err := e.executeLine(line, handlers, instructions)
		if err != nil {
			if ignoreExceptions {
				continue
			}

			return 0, err
		}
		e.registers.Set(line.dest, result)
	}

	return e.registers.At(0), nil
}

// executeLine resolves line's operands against handlers and dispatches
// the instruction at line.Instr(). Each operand's address is taken
// modulo the resolved handler's own address space for that operand's
// declared Type, so a Line encoded against the Environment's largest
// address space always lands on a valid cell of whichever (possibly
// smaller) handler the operand's sourceIndex selects.
func (e *ExecutionEngine) executeLine(line Line, handlers []datasrc.Handler, instructions instr.Set) (float64, error) {
	if line.instr < 0 || line.instr >= len(instructions) {
		return 0, ErrInvalidEncoding
	}
	in := instructions[line.instr]
	operands := make([]datasrc.Value, in.Arity())
	for i := 0; i < in.Arity(); i++ {
		op := line.operands[i]
		if op.Source < 0 || op.Source >= len(handlers) {
			return 0, datasrc.ErrOutOfRange
		}
		handler := handlers[op.Source]
		want := in.OperandTypes[i]
		space := handler.AddressSpace(want)
		if space == 0 {
			return 0, datasrc.ErrTypeMismatch
		}
		value, err := handler.Get(want, op.Addr%space)
		if err != nil {
			return 0, err
		}
		operands[i] = value
	}

	return in.Execute(operands), nil
}
