// Package program implements Program — an Environment reference plus an
// ordered sequence of Lines and a ConstantHandler of K cells — and
// ProgramExecutionEngine, which runs a Program's non-intron lines
// against a Registers bank and a (possibly substituted) set of external
// data sources.
//
// Programs are mutated through typed accessors (SetInstr, SetDest,
// SetOperand) that validate every write against the owning Environment's
// bounds, returning ErrInvalidEncoding for an out-of-range write unless
// the caller passes bypass=true, which skips the check and stores the
// value as given.
//
// Two Programs have identical behavior (HasIdenticalBehavior) iff their
// non-intron Line sequences match field-for-field and the constant
// values any non-intron line reads are equal.
//
// Errors:
//
//	ErrInvalidEncoding        - a line write is out of range (no bypass).
//	ErrIncompatibleDataSources - SetDataSources given a mismatched source ID.
package program

import (
	"github.com/katalvlaran/tpglearn/datasrc"
	"github.com/katalvlaran/tpglearn/tpgenv"
)

// Program is an Environment reference, an ordered Line sequence, and a
// ConstantHandler of K cells written by mutation and read at execution.
type Program struct {
	env       *tpgenv.Environment
	lines     []Line
	constants *datasrc.ConstantHandler
}

// New returns an empty Program (no lines) over env, with K constants all
// zero.
func New(env *tpgenv.Environment) *Program {
	k := env.K()
	zeros := make([]datasrc.Constant, k)

	return &Program{env: env, constants: datasrc.NewConstantHandler("program-constants", zeros)}
}

// NewWithConstants returns an empty Program over env using the given
// ConstantHandler directly (not copied) — used by the mutator when
// constructing a program whose constants are already generated.
func NewWithConstants(env *tpgenv.Environment, constants *datasrc.ConstantHandler) *Program {
	return &Program{env: env, constants: constants}
}

// Env returns the owning Environment.
func (p *Program) Env() *tpgenv.Environment { return p.env }

// Constants returns the Program's own K-cell ConstantHandler.
func (p *Program) Constants() *datasrc.ConstantHandler { return p.constants }

// NbLines returns the number of lines.
func (p *Program) NbLines() int { return len(p.lines) }

// Line returns a copy of the line at idx.
func (p *Program) Line(idx int) Line { return p.lines[idx] }

// Lines returns a copy of the full line sequence.
func (p *Program) Lines() []Line {
	out := make([]Line, len(p.lines))
	copy(out, p.lines)

	return out
}

// AddLine appends a new zero-valued line (instr=0, dest=0, every operand
// {source:0,addr:0}) and returns its index.
func (p *Program) AddLine() int {
	ops := make([]Operand, p.env.MaxNbOperands())
	p.lines = append(p.lines, Line{operands: ops})

	return len(p.lines) - 1
}

// InsertLine inserts a new zero-valued line at idx (0<=idx<=NbLines) and
// returns idx.
func (p *Program) InsertLine(idx int) int {
	ops := make([]Operand, p.env.MaxNbOperands())
	line := Line{operands: ops}
	p.lines = append(p.lines, Line{})
	copy(p.lines[idx+1:], p.lines[idx:])
	p.lines[idx] = line

	return idx
}

// RemoveLine deletes the line at idx.
func (p *Program) RemoveLine(idx int) {
	p.lines = append(p.lines[:idx], p.lines[idx+1:]...)
}

// SwapLines exchanges the lines at i and j.
func (p *Program) SwapLines(i, j int) {
	p.lines[i], p.lines[j] = p.lines[j], p.lines[i]
}

// SetInstr sets line idx's instruction index to val. Fails
// ErrInvalidEncoding unless 0<=val<len(Instructions()) or bypass is set.
func (p *Program) SetInstr(idx, val int, bypass bool) error {
	if !bypass && (val < 0 || val >= len(p.env.Instructions())) {
		return ErrInvalidEncoding
	}
	p.lines[idx].instr = val

	return nil
}

// SetDest sets line idx's destination register to val. Fails
// ErrInvalidEncoding unless 0<=val<R or bypass is set.
func (p *Program) SetDest(idx, val int, bypass bool) error {
	if !bypass && (val < 0 || val >= p.env.R()) {
		return ErrInvalidEncoding
	}
	p.lines[idx].dest = val

	return nil
}

// SetOperand sets line idx's operand slot opIdx to (source, addr). Fails
// ErrInvalidEncoding unless source is a valid sourceIndex (0<=source<
// 2+len(Sources()), or < 1+len(Sources()) when K==0) and addr is within
// [0, A*) for this Environment, unless bypass is set.
func (p *Program) SetOperand(idx, opIdx, source, addr int, bypass bool) error {
	if !bypass {
		maxSource := len(p.env.Sources()) + 1 // registers(0) + constants(1) + sources
		if p.env.K() == 0 {
			maxSource--
		}
		if source < 0 || source > maxSource {
			return ErrInvalidEncoding
		}
		if addr < 0 || addr >= p.env.LargestAddressSpace() {
			return ErrInvalidEncoding
		}
	}
	p.lines[idx].operands[opIdx] = Operand{Source: source, Addr: addr}

	return nil
}

// MutateConstant overwrites constant cell addr with val. Mutation is
// expected to Clone the Program first (copy-on-write), so this writes
// in place on the caller's exclusively-owned copy.
func (p *Program) MutateConstant(addr int, val datasrc.Constant) {
	p.constants.Raw()[addr] = val
}

// Clone returns a deep copy: an independent Line slice and an
// independent ConstantHandler, sharing the same (immutable) Environment.
// Mutation always clones before writing, never mutating a Program another
// goroutine or team edge might still reference.
func (p *Program) Clone() *Program {
	lines := make([]Line, len(p.lines))
	for i, l := range p.lines {
		lines[i] = cloneLine(l)
	}
	constClone, _ := p.constants.Clone().(*datasrc.ConstantHandler)

	return &Program{env: p.env, lines: lines, constants: constClone}
}

// nonIntronLines returns the subsequence of lines not marked intron, in
// order.
func (p *Program) nonIntronLines() []Line {
	out := make([]Line, 0, len(p.lines))
	for _, l := range p.lines {
		if !l.intron {
			out = append(out, l)
		}
	}

	return out
}

// constIndex is the sourceIndex that refers to the Program's own
// constants, or -1 if this Environment has no constants (K==0).
func (p *Program) constIndex() int {
	if p.env.K() == 0 {
		return -1
	}

	return 1
}

// HasIdenticalBehavior reports whether p and other have the same
// non-intron Line sequence and, for every constant operand a non-intron
// line reads, the same constant value. p and other must share the same
// Environment.
func (p *Program) HasIdenticalBehavior(other *Program) bool {
	a, b := p.nonIntronLines(), other.nonIntronLines()
	if len(a) != len(b) {
		return false
	}
	ci := p.constIndex()
	aConsts, bConsts := p.constants.Raw(), other.constants.Raw()
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
		if ci < 0 {
			continue
		}
		for _, op := range a[i].operands {
			if op.Source != ci {
				continue
			}
			addr := op.Addr % len(aConsts)
			if aConsts[addr] != bConsts[addr] {
				return false
			}
		}
	}

	return true
}
