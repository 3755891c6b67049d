// Package tpgenv defines Environment: the immutable fusion of an
// instruction set, an ordered list of external data sources, and the
// register/constant counts (R, K) that together fix a Program's line
// encoding.
//
// Construction validates the shape with
// github.com/go-playground/validator/v10 for the simple numeric bound
// (R>0) and hand-written checks for the structural conditions a single
// struct tag cannot express (non-empty filtered instruction set,
// non-empty source list, no zero-size address space), following a
// validate-then-build constructor shape.
//
// Once constructed, an Environment never changes: Instructions(),
// Sources(), R(), K(), LargestAddressSpace(), MaxNbOperands() and
// LineSize() are read-only accessors used to fix every Program's bit
// width for its lifetime.
//
// Errors:
//
//	ErrInvalidConfiguration - R==0, empty filtered instruction set, empty
//	                          source list, or a zero address space.
package tpgenv

import (
	"fmt"
	"math/bits"

	"github.com/go-playground/validator/v10"

	"github.com/katalvlaran/tpglearn/datasrc"
	"github.com/katalvlaran/tpglearn/instr"
)

var validate = validator.New()

type envParams struct {
	R int `validate:"gt=0"`
}

// Environment is the immutable fusion described in the package doc.
type Environment struct {
	instructions instr.Set
	sources      []datasrc.Handler
	r            int
	k            int

	largestAddressSpace int
	maxNbOperands        int
	lineSize              int
}

// New constructs an Environment. instructions is filtered to the subset
// whose operand types are providable by registers (always, as Scalar),
// constants (as ScalarConstant, iff k>0), and sources (in their declared
// TypeSet); sources is the ordered external data-source list.
func New(instructions instr.Set, sources []datasrc.Handler, r, k int) (*Environment, error) {
	if err := validate.Struct(envParams{R: r}); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no external data sources declared", ErrInvalidConfiguration)
	}

	available := availableTypes(sources, k)
	filtered := filterInstructions(instructions, available)
	if len(filtered) == 0 {
		return nil, fmt.Errorf("%w: no instruction is providable by the declared sources", ErrInvalidConfiguration)
	}

	largest := r
	if k > 0 && k > largest {
		largest = k
	}
	for _, src := range sources {
		for _, t := range src.TypeSet() {
			n := src.AddressSpace(t)
			if n == 0 {
				return nil, fmt.Errorf("%w: data source %q reports a zero address space for %s", ErrInvalidConfiguration, src.ID(), t)
			}
			if n > largest {
				largest = n
			}
		}
	}

	maxOperands := 0
	for _, in := range filtered {
		if in.Arity() > maxOperands {
			maxOperands = in.Arity()
		}
	}

	srcCount := len(sources)
	lineSize := ceilLog2(len(filtered)) + ceilLog2(r) +
		maxOperands*(ceilLog2(srcCount+2)+ceilLog2(largest))

	return &Environment{
		instructions:         filtered,
		sources:              sources,
		r:                    r,
		k:                    k,
		largestAddressSpace: largest,
		maxNbOperands:        maxOperands,
		lineSize:             lineSize,
	}, nil
}

// availableTypes returns the set of operand Types some data source in
// this Environment can serve: Scalar always (registers), ScalarConstant
// iff k>0, plus every Type declared by an external source.
func availableTypes(sources []datasrc.Handler, k int) map[datasrc.Type]bool {
	avail := map[datasrc.Type]bool{datasrc.Scalar(): true}
	if k > 0 {
		avail[datasrc.ScalarConstant()] = true
	}
	for _, src := range sources {
		for _, t := range src.TypeSet() {
			avail[t] = true
		}
	}

	return avail
}

// filterInstructions keeps only instructions whose every OperandType is
// in available, preserving relative order (append-only catalog).
func filterInstructions(instructions instr.Set, available map[datasrc.Type]bool) instr.Set {
	out := make(instr.Set, 0, len(instructions))
	for _, in := range instructions {
		ok := true
		for _, t := range in.OperandTypes {
			if !available[t] {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, in)
		}
	}

	return out
}

// ceilLog2 returns the smallest b such that 2^b >= n (n>=1); ceilLog2(0)
// returns 0 since no program ever encodes zero possibilities.
func ceilLog2(n int) int {
	if n <= 1 {
		return 0
	}

	return bits.Len(uint(n - 1))
}

// Instructions returns the filtered instruction set.
func (e *Environment) Instructions() instr.Set { return e.instructions }

// Sources returns the ordered external data sources.
func (e *Environment) Sources() []datasrc.Handler { return e.sources }

// R returns the register count.
func (e *Environment) R() int { return e.r }

// K returns the program-constant count.
func (e *Environment) K() int { return e.k }

// LargestAddressSpace returns A*, the largest address space across
// registers, constants, and every declared source Type.
func (e *Environment) LargestAddressSpace() int { return e.largestAddressSpace }

// MaxNbOperands returns m, the maximum operand arity among the filtered
// instruction set.
func (e *Environment) MaxNbOperands() int { return e.maxNbOperands }

// LineSize returns the fixed bit width of one Program line under this
// Environment.
func (e *Environment) LineSize() int { return e.lineSize }

// FakeSources returns a shape-only mirror of Sources(): independent
// clones reset to their zero contents, for code that needs address
// spaces and type sets but must not observe or mutate live data.
func (e *Environment) FakeSources() []datasrc.Handler {
	out := make([]datasrc.Handler, len(e.sources))
	for i, src := range e.sources {
		clone := src.Clone()
		clone.Reset()
		out[i] = clone
	}

	return out
}
