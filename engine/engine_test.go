package engine_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/tpglearn/datasrc"
	"github.com/katalvlaran/tpglearn/engine"
	"github.com/katalvlaran/tpglearn/instr"
	"github.com/katalvlaran/tpglearn/program"
	"github.com/katalvlaran/tpglearn/tpg"
	"github.com/katalvlaran/tpglearn/tpgenv"
	"github.com/stretchr/testify/require"
)

// constBidEnv returns an Environment whose sole instruction multiplies
// an array cell by a program-owned constant, letting each test build a
// program whose bid is exactly the constant it sets.
func constBidEnv(t *testing.T) *tpgenv.Environment {
	t.Helper()
	src := datasrc.NewArray("s1", []float64{1})
	set := instr.NewSet(instr.MultByConstant())
	env, err := tpgenv.New(set, []datasrc.Handler{src}, 1, 1)
	require.NoError(t, err)

	return env
}

// bidProgram returns a program whose single non-intron line computes
// bid (array cell 0, which is always 1, times a constant set to bid).
func bidProgram(t *testing.T, env *tpgenv.Environment, bid int32) *program.Program {
	t.Helper()
	p := program.New(env)
	idx := p.AddLine()
	require.NoError(t, p.SetDest(idx, 0, false))
	require.NoError(t, p.SetInstr(idx, 0, false))
	require.NoError(t, p.SetOperand(idx, 0, 2, 0, false)) // source 2 = sources[0]
	require.NoError(t, p.SetOperand(idx, 1, 1, 0, false))  // source 1 = constants
	p.MutateConstant(0, datasrc.Constant(bid))

	return p
}

func TestEngine_ExecuteFromRootActionRoot(t *testing.T) {
	env := constBidEnv(t)
	g := tpg.NewGraph(env)
	action := g.AddNewAction(0, 5)

	eng := engine.New(g)
	trace, actions, err := eng.ExecuteFromRoot(action, []int{99}, 1)
	require.NoError(t, err)
	require.Equal(t, []tpg.VertexID{action}, trace)
	require.Equal(t, []int{5}, actions)
}

func TestEngine_ExecuteFromRootUnknownRoot(t *testing.T) {
	env := constBidEnv(t)
	g := tpg.NewGraph(env)

	eng := engine.New(g)
	_, _, err := eng.ExecuteFromRoot(999, []int{0}, 1)
	require.ErrorIs(t, err, engine.ErrVertexNotFound)
}

func TestEngine_TieBreakPrefersLaterInsertedEdge(t *testing.T) {
	env := constBidEnv(t)
	g := tpg.NewGraph(env)

	team1 := g.AddNewTeam()
	team2 := g.AddNewTeam()
	action0 := g.AddNewAction(0, 7)

	_, err := g.AddNewEdge(team1, team2, bidProgram(t, env, 9))
	require.NoError(t, err)
	_, err = g.AddNewEdge(team1, action0, bidProgram(t, env, 9))
	require.NoError(t, err)

	eng := engine.New(g)
	trace, actions, err := eng.ExecuteFromRoot(team1, []int{99}, 1)
	require.NoError(t, err)
	require.Equal(t, []tpg.VertexID{team1, action0}, trace) // never recursed into team2
	require.Equal(t, []int{7}, actions)
}

func TestEngine_MultiClassEarlyExit(t *testing.T) {
	env := constBidEnv(t)
	g := tpg.NewGraph(env)

	root := g.AddNewTeam()
	actionA := g.AddNewAction(0, 1)
	actionB := g.AddNewAction(1, 0)
	other := g.AddNewTeam()

	_, err := g.AddNewEdge(root, actionA, bidProgram(t, env, 10))
	require.NoError(t, err)
	_, err = g.AddNewEdge(root, actionB, bidProgram(t, env, 9))
	require.NoError(t, err)
	_, err = g.AddNewEdge(root, other, bidProgram(t, env, 1))
	require.NoError(t, err)

	eng := engine.New(g)
	trace, actions, err := eng.ExecuteFromRoot(root, []int{2, 2}, 2)
	require.NoError(t, err)
	require.Equal(t, []int{1, 0}, actions)
	require.Equal(t, []tpg.VertexID{root, actionA, actionB}, trace) // budget exhausted, "other" never visited
}

func TestEngine_OnlyOneTeamEdgeFollowedPerTeam(t *testing.T) {
	env := constBidEnv(t)
	g := tpg.NewGraph(env)

	root := g.AddNewTeam()
	teamX := g.AddNewTeam()
	teamY := g.AddNewTeam()
	action := g.AddNewAction(0, 3)
	g.AddNewAction(0, 0) // unused filler to exercise multi-vertex graph

	_, err := g.AddNewEdge(root, teamX, bidProgram(t, env, 10))
	require.NoError(t, err)
	_, err = g.AddNewEdge(root, teamY, bidProgram(t, env, 9))
	require.NoError(t, err)
	_, err = g.AddNewEdge(root, action, bidProgram(t, env, 1))
	require.NoError(t, err)

	eng := engine.New(g)
	// nbEdgesActivable high enough to walk every edge if the team cap
	// didn't apply; only teamX may be recursed into.
	trace, actions, err := eng.ExecuteFromRoot(root, []int{2}, 3)
	require.NoError(t, err)
	require.Equal(t, []tpg.VertexID{root, teamX, action}, trace)
	require.Equal(t, []int{3}, actions) // filled from the action edge, teamY skipped entirely
}

func TestEngine_EvaluateEdgeRewritesNaNToNegativeInfinity(t *testing.T) {
	src := datasrc.NewArray("s1", []float64{math.Inf(1), 0})
	set := instr.NewSet(instr.Mult())
	env, err := tpgenv.New(set, []datasrc.Handler{src}, 1, 0)
	require.NoError(t, err)

	p := program.New(env)
	idx := p.AddLine()
	require.NoError(t, p.SetDest(idx, 0, false))
	require.NoError(t, p.SetInstr(idx, 0, false))
	require.NoError(t, p.SetOperand(idx, 0, 1, 0, false))
	require.NoError(t, p.SetOperand(idx, 1, 1, 1, false))

	g := tpg.NewGraph(env)
	team := g.AddNewTeam()
	action := g.AddNewAction(0, 0)
	eid, err := g.AddNewEdge(team, action, p)
	require.NoError(t, err)

	eng := engine.New(g)
	result, err := eng.EvaluateEdge(eid)
	require.NoError(t, err)
	require.True(t, math.IsInf(result, -1))
}
