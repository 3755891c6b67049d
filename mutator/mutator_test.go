package mutator_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tpglearn/archive"
	"github.com/katalvlaran/tpglearn/datasrc"
	"github.com/katalvlaran/tpglearn/instr"
	"github.com/katalvlaran/tpglearn/mutator"
	"github.com/katalvlaran/tpglearn/program"
	"github.com/katalvlaran/tpglearn/tpg"
	"github.com/katalvlaran/tpglearn/tpgenv"
)

func testEnv(t *testing.T) *tpgenv.Environment {
	t.Helper()
	src := datasrc.NewArray("s1", []float64{1, 2, 3, 4, 5, 6, 7, 8})
	set := instr.NewSet(instr.Add(), instr.Sub(), instr.Mult(), instr.MultByConstant())
	env, err := tpgenv.New(set, []datasrc.Handler{src}, 4, 2)
	require.NoError(t, err)

	return env
}

func testParams() mutator.Params {
	return mutator.Params{
		NbRoots:                               6,
		InitNbRoots:                            4,
		MaxInitOutgoingEdges:                   3,
		MaxOutgoingEdges:                       6,
		PEdgeDeletion:                          0.5,
		PEdgeAddition:                          0.5,
		PProgramMutation:                       0.8,
		PEdgeDestinationChange:                 0.3,
		PEdgeDestinationIsAction:               0.5,
		ForceProgramBehaviorChangeOnMutation:   true,
		PNewProgram:                            0.1,
		MaxProgramSize:                         8,
		PAdd:                                   0.3,
		PDelete:                                0.2,
		PMutate:                                0.3,
		PSwap:                                  0.2,
		PConstantMutation:                      0.2,
		MinConstValue:                          -10,
		MaxConstValue:                          10,
	}
}

func TestParams_ValidateRejectsOutOfRange(t *testing.T) {
	p := testParams()
	p.PEdgeDeletion = 1.5
	require.ErrorIs(t, p.Validate(), mutator.ErrInvalidConfiguration)
}

func TestNew_RejectsInvalidParams(t *testing.T) {
	env := testEnv(t)
	p := testParams()
	p.MaxOutgoingEdges = 1
	_, err := mutator.New(env, p, 1)
	require.ErrorIs(t, err, mutator.ErrInvalidConfiguration)
}

func TestInitRandomTPG_RejectsTooFewActions(t *testing.T) {
	env := testEnv(t)
	m, err := mutator.New(env, testParams(), 1)
	require.NoError(t, err)
	g := tpg.NewGraph(env)
	err = m.InitRandomTPG(g, []int{1})
	require.ErrorIs(t, err, mutator.ErrInvalidConfiguration)
}

func TestInitRandomTPG_RejectsInitNbRootsBelowActionCount(t *testing.T) {
	env := testEnv(t)
	params := testParams()
	params.InitNbRoots = 1
	m, err := mutator.New(env, params, 1)
	require.NoError(t, err)
	g := tpg.NewGraph(env)
	err = m.InitRandomTPG(g, []int{2, 2})
	require.ErrorIs(t, err, mutator.ErrInvalidConfiguration)
}

func TestInitRandomTPG_BuildsValidGraph(t *testing.T) {
	env := testEnv(t)
	m, err := mutator.New(env, testParams(), 42)
	require.NoError(t, err)
	g := tpg.NewGraph(env)

	require.NoError(t, m.InitRandomTPG(g, []int{2, 2}))

	require.Equal(t, 4, len(g.VerticesOfKind(tpg.KindAction)))
	teams := g.VerticesOfKind(tpg.KindTeam)
	require.Equal(t, 4, len(teams))

	for _, team := range teams {
		out, ok := g.OutgoingEdges(team)
		require.True(t, ok)
		require.GreaterOrEqual(t, len(out), 2)
		require.LessOrEqual(t, len(out), 3)
	}

	roots := g.GetRootVertices()
	require.Equal(t, 4, len(roots))
}

func TestMutateTPGTeam_AlwaysChangesStructureOrProgram(t *testing.T) {
	env := testEnv(t)
	m, err := mutator.New(env, testParams(), 7)
	require.NoError(t, err)
	g := tpg.NewGraph(env)
	require.NoError(t, m.InitRandomTPG(g, []int{2, 2}))

	teams := g.VerticesOfKind(tpg.KindTeam)
	team := teams[0]

	before, ok := g.OutgoingEdges(team)
	require.True(t, ok)

	bindings, err := m.MutateTPGTeam(g, team)
	require.NoError(t, err)

	after, ok := g.OutgoingEdges(team)
	require.True(t, ok)

	structureChanged := len(after) != len(before)
	if !structureChanged {
		for i := range after {
			if after[i] != before[i] {
				structureChanged = true
				break
			}
		}
	}

	require.True(t, structureChanged || len(bindings) > 0,
		"mutateTPGTeam must change the edge set or rebind a program")
}

func TestPopulateTPG_RefillsUpToNbRoots(t *testing.T) {
	env := testEnv(t)
	params := testParams()
	params.NbRoots = 7
	m, err := mutator.New(env, params, 99)
	require.NoError(t, err)
	g := tpg.NewGraph(env)
	require.NoError(t, m.InitRandomTPG(g, []int{2, 2}))

	arch := archive.New(100, 1.0, 5)
	_, err = m.PopulateTPG(g, arch)
	require.NoError(t, err)

	require.Equal(t, params.NbRoots, len(g.GetRootVertices()))

	for _, team := range g.VerticesOfKind(tpg.KindTeam) {
		out, ok := g.OutgoingEdges(team)
		require.True(t, ok)
		require.GreaterOrEqual(t, len(out), 2)
	}
}

func TestMutateProgram_AlwaysChangesTheProgram(t *testing.T) {
	env := testEnv(t)
	m, err := mutator.New(env, testParams(), 3)
	require.NoError(t, err)

	p := m.NewRandomProgram()
	before := p.Clone()

	require.True(t, m.MutateProgram(p))
	require.True(t, structurallyDiffers(p, before), "MutateProgram must leave the program structurally different")
}

// structurallyDiffers reports whether a and b differ in line count, any
// line's fields, or any constant cell — the structural notion MutateProgram
// promises to change, as opposed to HasIdenticalBehavior's weaker
// non-intron-subset notion.
func structurallyDiffers(a, b *program.Program) bool {
	if a.NbLines() != b.NbLines() {
		return true
	}
	for i := 0; i < a.NbLines(); i++ {
		if !a.Line(i).Equal(b.Line(i)) {
			return true
		}
	}
	aConsts, bConsts := a.Constants().Raw(), b.Constants().Raw()
	for i := range aConsts {
		if aConsts[i] != bConsts[i] {
			return true
		}
	}

	return false
}

func TestMutateProgramBehaviorAgainstArchive_RejectsDuplicates(t *testing.T) {
	env := testEnv(t)
	m, err := mutator.New(env, testParams(), 11)
	require.NoError(t, err)

	arch := archive.New(10, 1.0, 1)
	p := m.NewRandomProgram()

	final, results, err := m.MutateProgramBehaviorAgainstArchive(p, arch)
	require.NoError(t, err)
	require.NotNil(t, final)
	require.True(t, arch.AreProgramResultsUnique(results, 1e-4))
}
