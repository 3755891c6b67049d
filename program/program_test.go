package program_test

import (
	"testing"

	"github.com/katalvlaran/tpglearn/datasrc"
	"github.com/katalvlaran/tpglearn/instr"
	"github.com/katalvlaran/tpglearn/program"
	"github.com/katalvlaran/tpglearn/tpgenv"
	"github.com/stretchr/testify/require"
)

func testEnv(t *testing.T, k int) *tpgenv.Environment {
	t.Helper()
	src := datasrc.NewArray("s1", []float64{1, 2, 3, 4})
	set := instr.NewSet(instr.Add(), instr.MultByConstant())
	env, err := tpgenv.New(set, []datasrc.Handler{src}, 3, k)
	require.NoError(t, err)

	return env
}

func TestProgram_AddLineDefaultsToZeroValued(t *testing.T) {
	env := testEnv(t, 0)
	p := program.New(env)
	idx := p.AddLine()
	require.Equal(t, 0, idx)
	require.Equal(t, 1, p.NbLines())
	line := p.Line(0)
	require.Equal(t, 0, line.Instr())
	require.Equal(t, 0, line.Dest())
	require.Len(t, line.Operands(), env.MaxNbOperands())
}

func TestProgram_InsertAndRemoveLine(t *testing.T) {
	env := testEnv(t, 0)
	p := program.New(env)
	p.AddLine()
	p.AddLine()
	p.InsertLine(1)
	require.Equal(t, 3, p.NbLines())

	p.RemoveLine(1)
	require.Equal(t, 2, p.NbLines())
}

func TestProgram_SwapLines(t *testing.T) {
	env := testEnv(t, 0)
	p := program.New(env)
	a := p.AddLine()
	b := p.AddLine()
	require.NoError(t, p.SetDest(a, 1, false))
	require.NoError(t, p.SetDest(b, 2, false))

	p.SwapLines(a, b)
	require.Equal(t, 2, p.Line(a).Dest())
	require.Equal(t, 1, p.Line(b).Dest())
}

func TestProgram_SetInstrRejectsOutOfRange(t *testing.T) {
	env := testEnv(t, 0)
	p := program.New(env)
	idx := p.AddLine()
	err := p.SetInstr(idx, len(env.Instructions()), false)
	require.ErrorIs(t, err, program.ErrInvalidEncoding)
}

func TestProgram_SetInstrBypassAllowsOutOfRange(t *testing.T) {
	env := testEnv(t, 0)
	p := program.New(env)
	idx := p.AddLine()
	require.NoError(t, p.SetInstr(idx, 99, true))
	require.Equal(t, 99, p.Line(idx).Instr())
}

func TestProgram_SetDestRejectsOutOfRange(t *testing.T) {
	env := testEnv(t, 0)
	p := program.New(env)
	idx := p.AddLine()
	err := p.SetDest(idx, env.R(), false)
	require.ErrorIs(t, err, program.ErrInvalidEncoding)
}

func TestProgram_SetOperandRejectsOutOfRangeSource(t *testing.T) {
	env := testEnv(t, 0) // K==0: valid sources are {0 (registers), 1 (external)}
	p := program.New(env)
	idx := p.AddLine()
	err := p.SetOperand(idx, 0, 2, 0, false)
	require.ErrorIs(t, err, program.ErrInvalidEncoding)
}

func TestProgram_SetOperandAllowsConstantSourceWhenKPositive(t *testing.T) {
	env := testEnv(t, 2)
	p := program.New(env)
	idx := p.AddLine()
	require.NoError(t, p.SetOperand(idx, 0, 1, 0, false)) // source 1 == constants
}

func TestProgram_SetOperandRejectsOutOfRangeAddr(t *testing.T) {
	env := testEnv(t, 0)
	p := program.New(env)
	idx := p.AddLine()
	err := p.SetOperand(idx, 0, 0, env.LargestAddressSpace(), false)
	require.ErrorIs(t, err, program.ErrInvalidEncoding)
}

func TestProgram_MutateConstant(t *testing.T) {
	env := testEnv(t, 2)
	p := program.New(env)
	p.MutateConstant(1, datasrc.Constant(7))
	require.Equal(t, datasrc.Constant(7), p.Constants().Raw()[1])
}

func TestProgram_CloneIsIndependent(t *testing.T) {
	env := testEnv(t, 2)
	p := program.New(env)
	idx := p.AddLine()
	require.NoError(t, p.SetDest(idx, 1, false))
	p.MutateConstant(0, datasrc.Constant(5))

	clone := p.Clone()
	require.NoError(t, clone.SetDest(idx, 2, false))
	clone.MutateConstant(0, datasrc.Constant(9))

	require.Equal(t, 1, p.Line(idx).Dest())
	require.Equal(t, datasrc.Constant(5), p.Constants().Raw()[0])
	require.Equal(t, 2, clone.Line(idx).Dest())
	require.Equal(t, datasrc.Constant(9), clone.Constants().Raw()[0])
}

func TestProgram_HasIdenticalBehavior(t *testing.T) {
	env := testEnv(t, 2)
	a := program.New(env)
	idx := a.AddLine()
	require.NoError(t, a.SetDest(idx, 1, false))
	require.NoError(t, a.SetOperand(idx, 0, 1, 0, false)) // constants[0]
	a.MutateConstant(0, datasrc.Constant(4))

	b := a.Clone()
	require.True(t, a.HasIdenticalBehavior(b))

	b.MutateConstant(0, datasrc.Constant(9))
	require.False(t, a.HasIdenticalBehavior(b))
}

func TestProgram_HasIdenticalBehaviorIgnoresIntrons(t *testing.T) {
	env := testEnv(t, 0)
	a := program.New(env)
	dead := a.AddLine()
	require.NoError(t, a.SetDest(dead, 2, false))
	live := a.AddLine()
	require.NoError(t, a.SetDest(live, 0, false))
	a.IdentifyIntrons()
	require.True(t, a.Line(dead).Intron())

	b := program.New(env)
	onlyLive := b.AddLine()
	require.NoError(t, b.SetDest(onlyLive, 0, false))
	b.IdentifyIntrons()

	require.True(t, a.HasIdenticalBehavior(b))
}
