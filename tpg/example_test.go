package tpg_test

import (
	"fmt"

	"github.com/katalvlaran/tpglearn/datasrc"
	"github.com/katalvlaran/tpglearn/instr"
	"github.com/katalvlaran/tpglearn/program"
	"github.com/katalvlaran/tpglearn/tpg"
	"github.com/katalvlaran/tpglearn/tpgenv"
)

// Example builds a two-action team and reports the graph's shape.
func Example() {
	src := datasrc.NewArray("s1", []float64{1, 2, 3, 4})
	set := instr.NewSet(instr.Add())
	env, _ := tpgenv.New(set, []datasrc.Handler{src}, 2, 0)

	g := tpg.NewGraph(env)
	team := g.AddNewTeam()
	left := g.AddNewAction(0, 0)
	right := g.AddNewAction(0, 1)
	g.AddNewEdge(team, left, program.New(env))
	g.AddNewEdge(team, right, program.New(env))

	roots := g.GetRootVertices()
	fmt.Println(len(roots), g.NbVertices(), g.NbEdges())
	// Output: 1 3 2
}
