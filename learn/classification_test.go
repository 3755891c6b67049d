package learn_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tpglearn/datasrc"
	"github.com/katalvlaran/tpglearn/learn"
)

// fakeClassEnv is a deterministic, copyable ClassificationLearningEnvironment:
// Reset picks a label from the seed, DoAction records one prediction, and
// the episode ends after that single action.
type fakeClassEnv struct {
	src       *datasrc.Array
	nbClasses int
	label     int
	done      bool
	table     [][]int
}

func newFakeClassEnv(nbClasses int) *fakeClassEnv {
	return &fakeClassEnv{
		src:       datasrc.NewArray("s1", []float64{1, 2, 3, 4}),
		nbClasses: nbClasses,
		table:     zeroTable(nbClasses),
	}
}

func zeroTable(n int) [][]int {
	table := make([][]int, n)
	for i := range table {
		table[i] = make([]int, n)
	}

	return table
}

func (e *fakeClassEnv) Reset(seed uint64, _ learn.Mode, _, _ int) error {
	e.label = int(seed % uint64(e.nbClasses))
	e.done = false

	return nil
}

func (e *fakeClassEnv) IsCopyable() bool { return true }

func (e *fakeClassEnv) Clone() learn.LearningEnvironment {
	return &fakeClassEnv{
		src:       datasrc.NewArray("s1", []float64{1, 2, 3, 4}),
		nbClasses: e.nbClasses,
		table:     zeroTable(e.nbClasses),
	}
}

func (e *fakeClassEnv) DataSources() []datasrc.Handler { return []datasrc.Handler{e.src} }

func (e *fakeClassEnv) DoAction(actionIDs []int) error {
	predicted := 0
	if len(actionIDs) > 0 {
		predicted = ((actionIDs[0] % e.nbClasses) + e.nbClasses) % e.nbClasses
	}
	e.table[e.label][predicted]++
	e.done = true

	return nil
}

func (e *fakeClassEnv) IsTerminal() bool { return e.done }
func (e *fakeClassEnv) Score() float64   { return 0 }

func (e *fakeClassEnv) NbActions() []int {
	counts := make([]int, e.nbClasses)
	for i := range counts {
		counts[i] = e.nbClasses
	}

	return counts
}

func (e *fakeClassEnv) InitActions() []int       { return make([]int, e.nbClasses) }
func (e *fakeClassEnv) ClassificationTable() [][]int { return e.table }

func testClassificationConfig() learn.Config {
	cfg := testConfig()
	cfg.NbIterationsPerPolicyEvaluation = 8
	cfg.MaxNbActionsPerEval = 1

	return cfg
}

func TestClassificationAgent_InitBuildsTrainableGraph(t *testing.T) {
	env := newFakeClassEnv(2)
	a, err := learn.NewClassificationAgent(testTPGEnv(t), env, testClassificationConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, a.Init(11))

	require.NotEmpty(t, a.Graph().GetRootVertices())
}

func TestClassificationAgent_EvaluateAllRootsProducesPerClassF1(t *testing.T) {
	env := newFakeClassEnv(2)
	a, err := learn.NewClassificationAgent(testTPGEnv(t), env, testClassificationConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, a.Init(12))

	scored, err := a.EvaluateAllRoots(0, learn.ModeTraining)
	require.NoError(t, err)
	require.Len(t, scored, len(a.Graph().GetRootVertices()))

	for _, rs := range scored {
		require.Len(t, rs.Result.F1, 2)
		require.Len(t, rs.Result.NbEvaluation, 2)
	}
}

func TestClassificationAgent_TrainOneGenerationKeepsRootCountStable(t *testing.T) {
	env := newFakeClassEnv(2)
	cfg := testClassificationConfig()
	a, err := learn.NewClassificationAgent(testTPGEnv(t), env, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, a.Init(13))

	require.NoError(t, a.TrainOneGeneration(0))
	require.Equal(t, cfg.Mutator.NbRoots, len(a.Graph().GetRootVertices()))
}
