package learn_test

import (
	"fmt"

	"github.com/katalvlaran/tpglearn/datasrc"
	"github.com/katalvlaran/tpglearn/instr"
	"github.com/katalvlaran/tpglearn/learn"
	"github.com/katalvlaran/tpglearn/mutator"
	"github.com/katalvlaran/tpglearn/tpgenv"
)

// Example_trainOneGeneration builds a minimal Agent over a deterministic
// environment and runs a single generation.
func Example_trainOneGeneration() {
	src := datasrc.NewArray("s1", []float64{1, 2, 3, 4})
	set := instr.NewSet(instr.Add(), instr.Sub())
	tpgEnv, err := tpgenv.New(set, []datasrc.Handler{src}, 4, 2)
	if err != nil {
		fmt.Println(err)

		return
	}

	cfg := learn.Config{
		ArchiveSize:                     20,
		ArchivingProbability:            1.0,
		NbThreads:                       1,
		NbGenerations:                   1,
		MaxNbActionsPerEval:             3,
		NbIterationsPerPolicyEvaluation: 2,
		NbIterationsPerJob:              1,
		MaxNbEvaluationPerPolicy:        100,
		RatioDeletedRoots:               0.5,
		NbEdgesActivable:                1,
		Seed:                            42,
		Mutator: mutator.Params{
			NbRoots:                3,
			InitNbRoots:             4,
			MaxInitOutgoingEdges:    2,
			MaxOutgoingEdges:        3,
			PEdgeDeletion:           0.3,
			PEdgeAddition:           0.3,
			PProgramMutation:        0.8,
			PEdgeDestinationChange:  0.2,
			PEdgeDestinationIsAction: 0.5,
			PNewProgram:             0.1,
			MaxProgramSize:          5,
			PAdd:                    0.3,
			PDelete:                 0.2,
			PMutate:                 0.3,
			PSwap:                   0.2,
			PConstantMutation:       0.2,
			MinConstValue:           -5,
			MaxConstValue:           5,
		},
	}

	env := &exampleEnv{src: src}
	agent, err := learn.New(tpgEnv, env, cfg, nil)
	if err != nil {
		fmt.Println(err)

		return
	}
	if err := agent.Init(42); err != nil {
		fmt.Println(err)

		return
	}
	if err := agent.TrainOneGeneration(0); err != nil {
		fmt.Println(err)

		return
	}

	fmt.Println(len(agent.Graph().GetRootVertices()) == cfg.Mutator.NbRoots)
	// Output: true
}

type exampleEnv struct {
	src   *datasrc.Array
	steps int
}

func (e *exampleEnv) Reset(_ uint64, _ learn.Mode, _, _ int) error {
	e.steps = 0

	return nil
}

func (e *exampleEnv) IsCopyable() bool { return true }
func (e *exampleEnv) Clone() learn.LearningEnvironment {
	return &exampleEnv{src: datasrc.NewArray("s1", []float64{1, 2, 3, 4})}
}
func (e *exampleEnv) DataSources() []datasrc.Handler { return []datasrc.Handler{e.src} }
func (e *exampleEnv) DoAction(_ []int) error {
	e.steps++

	return nil
}
func (e *exampleEnv) IsTerminal() bool    { return e.steps >= 2 }
func (e *exampleEnv) Score() float64      { return float64(e.steps) }
func (e *exampleEnv) NbActions() []int    { return []int{2, 2} }
func (e *exampleEnv) InitActions() []int  { return make([]int, 2) }
