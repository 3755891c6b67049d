package engine_test

import (
	"fmt"

	"github.com/katalvlaran/tpglearn/datasrc"
	"github.com/katalvlaran/tpglearn/engine"
	"github.com/katalvlaran/tpglearn/instr"
	"github.com/katalvlaran/tpglearn/program"
	"github.com/katalvlaran/tpglearn/tpg"
	"github.com/katalvlaran/tpglearn/tpgenv"
)

// Example routes from a team root with a single action edge.
func Example() {
	src := datasrc.NewArray("s1", []float64{1})
	env, _ := tpgenv.New(instr.NewSet(instr.MultByConstant()), []datasrc.Handler{src}, 1, 1)

	g := tpg.NewGraph(env)
	team := g.AddNewTeam()
	action := g.AddNewAction(0, 4)

	p := program.New(env)
	idx := p.AddLine()
	p.SetDest(idx, 0, false)
	p.SetInstr(idx, 0, false)
	p.SetOperand(idx, 0, 2, 0, false)
	p.SetOperand(idx, 1, 1, 0, false)
	p.MutateConstant(0, 5)
	g.AddNewEdge(team, action, p)

	eng := engine.New(g)
	_, actions, _ := eng.ExecuteFromRoot(team, []int{99}, 1)
	fmt.Println(actions)
	// Output: [4]
}
