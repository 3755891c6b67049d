package learn_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tpglearn/datasrc"
	"github.com/katalvlaran/tpglearn/learn"
)

// fakeAdvEnv is a deterministic, copyable AdversarialLearningEnvironment:
// each DoActions call credits its seat's running score with the sum of
// the action IDs it was handed, and the match ends after a fixed number
// of seat turns.
type fakeAdvEnv struct {
	src      *datasrc.Array
	maxSteps int
	steps    int
	scores   []float64
}

func newFakeAdvEnv(nbSeats, maxSteps int) *fakeAdvEnv {
	return &fakeAdvEnv{
		src:      datasrc.NewArray("s1", []float64{1, 2, 3, 4}),
		maxSteps: maxSteps,
		scores:   make([]float64, nbSeats),
	}
}

func (e *fakeAdvEnv) Reset(_ uint64, _ learn.Mode, _, _ int) error {
	e.steps = 0
	for i := range e.scores {
		e.scores[i] = 0
	}

	return nil
}

func (e *fakeAdvEnv) IsCopyable() bool { return true }

func (e *fakeAdvEnv) Clone() learn.LearningEnvironment {
	return &fakeAdvEnv{
		src:      datasrc.NewArray("s1", []float64{1, 2, 3, 4}),
		maxSteps: e.maxSteps,
		scores:   make([]float64, len(e.scores)),
	}
}

func (e *fakeAdvEnv) DataSources() []datasrc.Handler { return []datasrc.Handler{e.src} }

func (e *fakeAdvEnv) DoAction(actionIDs []int) error { return e.DoActions(0, actionIDs) }

func (e *fakeAdvEnv) DoActions(seat int, actionIDs []int) error {
	if seat < len(e.scores) {
		for _, id := range actionIDs {
			e.scores[seat] += float64(id)
		}
	}
	e.steps++

	return nil
}

func (e *fakeAdvEnv) IsTerminal() bool   { return e.steps >= e.maxSteps }
func (e *fakeAdvEnv) Score() float64     { return e.scores[0] }
func (e *fakeAdvEnv) Scores() []float64  { return e.scores }

func (e *fakeAdvEnv) NbActions() []int {
	return []int{2, 2}
}

func (e *fakeAdvEnv) InitActions() []int { return make([]int, 2) }

func testAdversarialConfig() learn.Config {
	cfg := testConfig()
	cfg.AgentsPerEval = 2
	cfg.NbIterationsPerPolicyEvaluation = 2
	cfg.NbIterationsPerJob = 1
	cfg.MaxNbActionsPerEval = 2

	return cfg
}

func TestAdversarialAgent_InitBuildsTrainableGraph(t *testing.T) {
	env := newFakeAdvEnv(2, 2)
	a, err := learn.NewAdversarialAgent(testTPGEnv(t), env, testAdversarialConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, a.Init(21))

	require.NotEmpty(t, a.Graph().GetRootVertices())
}

func TestAdversarialAgent_EvaluateAllRootsScoresEveryRoot(t *testing.T) {
	env := newFakeAdvEnv(2, 2)
	a, err := learn.NewAdversarialAgent(testTPGEnv(t), env, testAdversarialConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, a.Init(22))

	scored, err := a.EvaluateAllRoots(0, learn.ModeTraining)
	require.NoError(t, err)
	require.Len(t, scored, len(a.Graph().GetRootVertices()))

	for i := 1; i < len(scored); i++ {
		require.GreaterOrEqual(t, scored[i-1].Result.Result, scored[i].Result.Result)
	}
}

func TestAdversarialAgent_TrainOneGenerationRefillsChampionsAndKeepsRootCount(t *testing.T) {
	env := newFakeAdvEnv(2, 2)
	cfg := testAdversarialConfig()
	a, err := learn.NewAdversarialAgent(testTPGEnv(t), env, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, a.Init(23))

	require.NoError(t, a.TrainOneGeneration(0))
	require.Equal(t, cfg.Mutator.NbRoots, len(a.Graph().GetRootVertices()))
	require.Equal(t, 1, a.Generation())

	root, ok := a.GetBestRoot()
	require.True(t, ok)
	a.KeepBestPolicy()
	_ = root

	require.NoError(t, a.TrainOneGeneration(1))
	require.Equal(t, 2, a.Generation())
}
