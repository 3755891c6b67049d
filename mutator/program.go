// File: program.go
// Role: program-level mutation operators (§4.H): fresh random program
//       construction and the five line/constant mutation operators.

package mutator

import (
	"math/rand"

	"github.com/katalvlaran/tpglearn/datasrc"
	"github.com/katalvlaran/tpglearn/program"
	"github.com/katalvlaran/tpglearn/tpgenv"
)

// maxMutationAttempts bounds the retry loop in MutateProgram: each
// attempt draws fresh coin flips for all five operators, so a handful
// of attempts is enough unless every probability is pinned to zero.
const maxMutationAttempts = 64

// NewRandomProgram returns a freshly initialized Program over env: a
// uniform random number of lines in [1, MaxProgramSize], each with
// random fields, and K constants drawn uniformly in
// [MinConstValue, MaxConstValue].
func (m *Mutator) NewRandomProgram() *program.Program {
	return newRandomProgram(m.env, m.rng, m.params)
}

func newRandomProgram(env *tpgenv.Environment, rng *rand.Rand, params Params) *program.Program {
	k := env.K()
	consts := make([]datasrc.Constant, k)
	for i := range consts {
		consts[i] = params.randomConstant(rng)
	}
	p := program.NewWithConstants(env, datasrc.NewConstantHandler("program-constants", consts))

	n := 1 + rng.Intn(params.MaxProgramSize)
	for i := 0; i < n; i++ {
		idx := p.AddLine()
		randomizeLine(p, idx, env, rng)
	}

	return p
}

// randomOperand draws a uniformly random (source, addr) pair valid for
// env, following Program.SetOperand's own boundary formula.
func randomOperand(env *tpgenv.Environment, rng *rand.Rand) (source, addr int) {
	maxSource := len(env.Sources()) + 1
	if env.K() == 0 {
		maxSource--
	}
	source = rng.Intn(maxSource + 1)
	addr = rng.Intn(env.LargestAddressSpace())

	return source, addr
}

// randomizeLine overwrites every field of the line at idx with fresh
// random values.
func randomizeLine(p *program.Program, idx int, env *tpgenv.Environment, rng *rand.Rand) {
	_ = p.SetInstr(idx, rng.Intn(len(env.Instructions())), false)
	_ = p.SetDest(idx, rng.Intn(env.R()), false)
	for op := 0; op < env.MaxNbOperands(); op++ {
		src, addr := randomOperand(env, rng)
		_ = p.SetOperand(idx, op, src, addr, false)
	}
}

// addRandomLine inserts one freshly randomized line at a random
// position, refusing to grow past MaxProgramSize.
func addRandomLine(p *program.Program, env *tpgenv.Environment, rng *rand.Rand, params Params) bool {
	if p.NbLines() >= params.MaxProgramSize {
		return false
	}
	pos := rng.Intn(p.NbLines() + 1)
	idx := p.InsertLine(pos)
	randomizeLine(p, idx, env, rng)

	return true
}

// deleteRandomLine removes one random line, refusing to empty the
// program entirely (an empty program has nothing to execute and no
// register-0 write to define behavior against).
func deleteRandomLine(p *program.Program, rng *rand.Rand) bool {
	if p.NbLines() <= 1 {
		return false
	}
	p.RemoveLine(rng.Intn(p.NbLines()))

	return true
}

// mutateRandomLine rewrites one field (instruction, destination, or a
// random operand) of one random line.
func mutateRandomLine(p *program.Program, env *tpgenv.Environment, rng *rand.Rand) bool {
	if p.NbLines() == 0 {
		return false
	}
	idx := rng.Intn(p.NbLines())
	switch rng.Intn(3) {
	case 0:
		_ = p.SetInstr(idx, rng.Intn(len(env.Instructions())), false)
	case 1:
		_ = p.SetDest(idx, rng.Intn(env.R()), false)
	default:
		op := rng.Intn(env.MaxNbOperands())
		src, addr := randomOperand(env, rng)
		_ = p.SetOperand(idx, op, src, addr, false)
	}

	return true
}

// swapRandomLines exchanges two distinct random lines.
func swapRandomLines(p *program.Program, rng *rand.Rand) bool {
	if p.NbLines() < 2 {
		return false
	}
	i := rng.Intn(p.NbLines())
	j := rng.Intn(p.NbLines())
	for j == i {
		j = rng.Intn(p.NbLines())
	}
	p.SwapLines(i, j)

	return true
}

// mutateRandomConstant replaces one constant cell with a fresh uniform
// draw in [MinConstValue, MaxConstValue].
func mutateRandomConstant(p *program.Program, rng *rand.Rand, params Params) bool {
	if p.Constants().Len() == 0 {
		return false
	}
	addr := rng.Intn(p.Constants().Len())
	p.MutateConstant(addr, params.randomConstant(rng))

	return true
}

// MutateProgram applies the five line/constant operators in place,
// each firing independently with its own probability, retrying the
// whole draw until at least one operator actually changed p. If every
// probability happens to be zero (a degenerate configuration), the
// final attempt forces an add-or-mutate so the call still guarantees
// forward progress.
func (m *Mutator) MutateProgram(p *program.Program) bool {
	return mutateProgram(p, m.env, m.rng, m.params)
}

func mutateProgram(p *program.Program, env *tpgenv.Environment, rng *rand.Rand, params Params) bool {
	before := p.Clone()
	for attempt := 0; attempt < maxMutationAttempts; attempt++ {
		changed := false
		if rng.Float64() < params.PAdd {
			changed = addRandomLine(p, env, rng, params) || changed
		}
		if rng.Float64() < params.PDelete {
			changed = deleteRandomLine(p, rng) || changed
		}
		if rng.Float64() < params.PMutate {
			changed = mutateRandomLine(p, env, rng) || changed
		}
		if rng.Float64() < params.PSwap {
			changed = swapRandomLines(p, rng) || changed
		}
		if rng.Float64() < params.PConstantMutation {
			changed = mutateRandomConstant(p, rng, params) || changed
		}
		if !changed {
			continue
		}
		// An operator may redraw a field's current value or swap two
		// equal lines; only a structural difference from before counts.
		differs := p.NbLines() != before.NbLines()
		for i := 0; !differs && i < p.NbLines(); i++ {
			differs = !p.Line(i).Equal(before.Line(i))
		}
		pc, bc := p.Constants().Raw(), before.Constants().Raw()
		for i := 0; !differs && i < len(pc); i++ {
			differs = pc[i] != bc[i]
		}
		if differs {
			return true
		}
	}

	// Degenerate configuration (every probability effectively zero):
	// force one operator so the "every call changes p" contract holds.
	if addRandomLine(p, env, rng, params) {
		return true
	}

	return mutateRandomLine(p, env, rng)
}
