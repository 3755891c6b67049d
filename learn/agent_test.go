package learn_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/tpglearn/datasrc"
	"github.com/katalvlaran/tpglearn/instr"
	"github.com/katalvlaran/tpglearn/learn"
	"github.com/katalvlaran/tpglearn/mutator"
	"github.com/katalvlaran/tpglearn/tpgenv"
)

func testTPGEnv(t *testing.T) *tpgenv.Environment {
	t.Helper()
	src := datasrc.NewArray("s1", []float64{1, 2, 3, 4})
	set := instr.NewSet(instr.Add(), instr.Sub(), instr.Mult(), instr.MultByConstant())
	env, err := tpgenv.New(set, []datasrc.Handler{src}, 4, 2)
	require.NoError(t, err)

	return env
}

func testMutatorParams() mutator.Params {
	return mutator.Params{
		NbRoots:                               5,
		InitNbRoots:                            4,
		MaxInitOutgoingEdges:                   2,
		MaxOutgoingEdges:                       4,
		PEdgeDeletion:                          0.3,
		PEdgeAddition:                          0.3,
		PProgramMutation:                       0.8,
		PEdgeDestinationChange:                 0.2,
		PEdgeDestinationIsAction:               0.5,
		ForceProgramBehaviorChangeOnMutation:   false,
		PNewProgram:                            0.1,
		MaxProgramSize:                         6,
		PAdd:                                   0.3,
		PDelete:                                0.2,
		PMutate:                                0.3,
		PSwap:                                  0.2,
		PConstantMutation:                      0.2,
		MinConstValue:                          -5,
		MaxConstValue:                          5,
	}
}

func testConfig() learn.Config {
	return learn.Config{
		ArchiveSize:                     50,
		ArchivingProbability:            1.0,
		NbThreads:                       1,
		NbGenerations:                   2,
		MaxNbActionsPerEval:             4,
		NbIterationsPerPolicyEvaluation: 3,
		NbIterationsPerJob:              1,
		MaxNbEvaluationPerPolicy:        100,
		RatioDeletedRoots:               0.4,
		NbEdgesActivable:                1,
		Seed:                            7,
		Mutator:                         testMutatorParams(),
	}
}

// fakeEnv is a deterministic, copyable LearningEnvironment: Score starts
// at seed%7 on Reset and adds every action ID handed to it this
// episode, and an
// episode terminates after a fixed number of steps.
type fakeEnv struct {
	src        *datasrc.Array
	nbClasses  int
	maxSteps   int
	steps      int
	score      float64
}

func newFakeEnv(nbClasses, maxSteps int) *fakeEnv {
	return &fakeEnv{
		src:       datasrc.NewArray("s1", []float64{1, 2, 3, 4}),
		nbClasses: nbClasses,
		maxSteps:  maxSteps,
	}
}

func (e *fakeEnv) Reset(seed uint64, _ learn.Mode, _, _ int) error {
	e.steps = 0
	e.score = float64(seed % 7)

	return nil
}

func (e *fakeEnv) IsCopyable() bool        { return true }
func (e *fakeEnv) Clone() learn.LearningEnvironment {
	return &fakeEnv{src: datasrc.NewArray("s1", []float64{1, 2, 3, 4}), nbClasses: e.nbClasses, maxSteps: e.maxSteps}
}
func (e *fakeEnv) DataSources() []datasrc.Handler { return []datasrc.Handler{e.src} }
func (e *fakeEnv) DoAction(actionIDs []int) error {
	for _, id := range actionIDs {
		e.score += float64(id)
	}
	e.steps++

	return nil
}
func (e *fakeEnv) IsTerminal() bool    { return e.steps >= e.maxSteps }
func (e *fakeEnv) Score() float64      { return e.score }
func (e *fakeEnv) NbActions() []int {
	counts := make([]int, e.nbClasses)
	for i := range counts {
		counts[i] = 2
	}

	return counts
}
func (e *fakeEnv) InitActions() []int { return make([]int, e.nbClasses) }

func TestAgent_InitBuildsTrainableGraph(t *testing.T) {
	env := newFakeEnv(2, 3)
	a, err := learn.New(testTPGEnv(t), env, testConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, a.Init(1))

	require.NotEmpty(t, a.Graph().GetRootVertices())
}

func TestAgent_EvaluateAllRootsReturnsOneScorePerRoot(t *testing.T) {
	env := newFakeEnv(2, 3)
	a, err := learn.New(testTPGEnv(t), env, testConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, a.Init(2))

	scored, err := a.EvaluateAllRoots(0, learn.ModeTraining)
	require.NoError(t, err)
	require.Len(t, scored, len(a.Graph().GetRootVertices()))

	for i := 1; i < len(scored); i++ {
		require.GreaterOrEqual(t, scored[i-1].Result.Result, scored[i].Result.Result)
	}
}

func TestAgent_TrainOneGenerationKeepsRootCountStable(t *testing.T) {
	env := newFakeEnv(2, 3)
	cfg := testConfig()
	a, err := learn.New(testTPGEnv(t), env, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, a.Init(3))

	require.NoError(t, a.TrainOneGeneration(0))
	require.Equal(t, cfg.Mutator.NbRoots, len(a.Graph().GetRootVertices()))
	require.Equal(t, 1, a.Generation())
}

func TestAgent_TrainRunsConfiguredGenerations(t *testing.T) {
	env := newFakeEnv(2, 3)
	cfg := testConfig()
	a, err := learn.New(testTPGEnv(t), env, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, a.Init(4))

	require.NoError(t, a.Train(nil, nil))
	require.Equal(t, cfg.NbGenerations, a.Generation())

	root, ok := a.GetBestRoot()
	require.True(t, ok)

	a.KeepBestPolicy()
	_ = root
}

func TestAgent_RejectsConcurrentEvaluationOnNonCopyableEnv(t *testing.T) {
	env := &nonCopyableEnv{fakeEnv: newFakeEnv(2, 3)}
	cfg := testConfig()
	cfg.NbThreads = 4
	a, err := learn.New(testTPGEnv(t), env, cfg, nil)
	require.NoError(t, err)
	require.NoError(t, a.Init(5))

	_, err = a.EvaluateAllRoots(0, learn.ModeTraining)
	require.ErrorIs(t, err, learn.ErrConcurrencyViolation)
}

type nonCopyableEnv struct {
	*fakeEnv
}

func (e *nonCopyableEnv) IsCopyable() bool { return false }
