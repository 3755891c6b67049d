// File: classification.go
// Role: ClassificationAgent — the classification specialization of
//       §4.I: per-class F1 scoring and per-class-preserving decimation.

package learn

import (
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/katalvlaran/tpglearn/archive"
	"github.com/katalvlaran/tpglearn/engine"
	"github.com/katalvlaran/tpglearn/mutator"
	"github.com/katalvlaran/tpglearn/tpg"
	"github.com/katalvlaran/tpglearn/tpgenv"
)

// ClassificationAgent mirrors Agent but scores roots with per-class F1
// (confusionToF1, computed from ClassificationLearningEnvironment's
// confusion table) instead of a single scalar.
type ClassificationAgent struct {
	graph   *tpg.Graph
	env     ClassificationLearningEnvironment
	mutator *mutator.Mutator
	archive *archive.Archive
	cfg     Config
	metrics *Metrics
	rng     *rand.Rand

	generation int
	scoreCache map[tpg.VertexID]ClassificationEvaluationResult

	bestRoot   tpg.VertexID
	bestScore  float64
	hasBest    bool
	pinnedRoot tpg.VertexID
	hasPinned  bool
}

// NewClassificationAgent returns a ClassificationAgent over a fresh
// Graph built on tpgEnv. metrics may be nil.
func NewClassificationAgent(tpgEnv *tpgenv.Environment, env ClassificationLearningEnvironment, cfg Config, metrics *Metrics) (*ClassificationAgent, error) {
	g, arch, mut, rng, err := newCore(tpgEnv, cfg, metrics)
	if err != nil {
		return nil, err
	}

	return &ClassificationAgent{
		graph:      g,
		env:        env,
		mutator:    mut,
		archive:    arch,
		cfg:        cfg,
		metrics:    metrics,
		rng:        rng,
		scoreCache: make(map[tpg.VertexID]ClassificationEvaluationResult),
	}, nil
}

// Graph returns the agent's TPGGraph.
func (a *ClassificationAgent) Graph() *tpg.Graph { return a.graph }

// Archive returns the agent's Archive.
func (a *ClassificationAgent) Archive() *archive.Archive { return a.archive }

// Generation returns the next generation number train will run.
func (a *ClassificationAgent) Generation() int { return a.generation }

// Init seeds every RNG the agent owns from seed and builds the initial
// generation via mutator.InitRandomTPG.
func (a *ClassificationAgent) Init(seed uint64) error {
	a.rng = rand.New(rand.NewSource(int64(seed)))
	a.archive.SetRandomSeed(seed)
	a.mutator.SetRandomSeed(seed)

	return a.mutator.InitRandomTPG(a.graph, a.env.NbActions())
}

func (a *ClassificationAgent) makeJobs() []Job {
	roots := a.graph.GetRootVertices()
	jobs := make([]Job, len(roots))
	for i, r := range roots {
		jobs[i] = Job{Root: r, ArchiveSeed: a.rng.Uint64(), Idx: i}
	}

	return jobs
}

// confusionToF1 computes, per class, F1 = 2·P·R/(P+R) from confusion
// matrix counts table[actual][predicted], along with each class's
// sample count (the row sum). P and R are 0 (not NaN) when their
// denominator is 0; F1 is 0 when P+R is 0.
func confusionToF1(table [][]int) ([]float64, []int) {
	n := len(table)
	f1 := make([]float64, n)
	counts := make([]int, n)

	for c := 0; c < n; c++ {
		tp, fp, fn := 0, 0, 0
		for actual := 0; actual < n; actual++ {
			for predicted := 0; predicted < n; predicted++ {
				v := table[actual][predicted]
				switch {
				case actual == c && predicted == c:
					tp += v
				case actual != c && predicted == c:
					fp += v
				case actual == c && predicted != c:
					fn += v
				}
			}
		}
		for predicted := 0; predicted < n; predicted++ {
			counts[c] += table[c][predicted]
		}

		var p, r float64
		if tp+fp > 0 {
			p = float64(tp) / float64(tp+fp)
		}
		if tp+fn > 0 {
			r = float64(tp) / float64(tp+fn)
		}
		if p+r > 0 {
			f1[c] = 2 * p * r / (p + r)
		}
	}

	return f1, counts
}

// evaluateJob mirrors Agent.evaluateJob but reads env's accumulated
// confusion table once the iteration budget is spent and scores with
// per-class F1 instead of a scalar mean.
func (a *ClassificationAgent) evaluateJob(env ClassificationLearningEnvironment, job Job, gen int, mode Mode) (ClassificationEvaluationResult, *archive.Archive, error) {
	jobArchive := archive.New(a.cfg.ArchiveSize, a.cfg.ArchivingProbability, job.ArchiveSeed)

	prior, hasPrior := a.scoreCache[job.Root]
	if hasPrior && fullyEvaluated(prior.NbEvaluation, a.cfg.MaxNbEvaluationPerPolicy) {
		return prior, jobArchive, nil
	}

	eng := engine.New(a.graph)
	eng.SetArchive(jobArchive)

	for iter := 0; iter < a.cfg.NbIterationsPerPolicyEvaluation; iter++ {
		seed := hashCombine(gen, iter)
		if err := env.Reset(seed, mode, iter, gen); err != nil {
			return ClassificationEvaluationResult{}, nil, err
		}
		if err := eng.SetDataSources(env.DataSources()); err != nil {
			return ClassificationEvaluationResult{}, nil, err
		}

		steps := 0
		for !env.IsTerminal() && steps < a.cfg.MaxNbActionsPerEval {
			_, actions, err := eng.ExecuteFromRoot(job.Root, env.InitActions(), a.cfg.NbEdgesActivable)
			if err != nil {
				return ClassificationEvaluationResult{}, nil, err
			}
			if err := env.DoAction(actions); err != nil {
				return ClassificationEvaluationResult{}, nil, err
			}
			steps++
		}
	}

	f1, counts := confusionToF1(env.ClassificationTable())
	result := ClassificationEvaluationResult{F1: f1, NbEvaluation: counts}
	if hasPrior {
		if err := result.Add(prior); err != nil {
			return ClassificationEvaluationResult{}, nil, err
		}
	}

	return result, jobArchive, nil
}

// fullyEvaluated reports whether every per-class sample count already
// meets max.
func fullyEvaluated(nbEvaluation []int, max int) bool {
	if len(nbEvaluation) == 0 {
		return false
	}
	for _, n := range nbEvaluation {
		if n < max {
			return false
		}
	}

	return true
}

// EvaluateAllRoots mirrors Agent.EvaluateAllRoots, scoring and ordering
// by MeanF1.
func (a *ClassificationAgent) EvaluateAllRoots(gen int, mode Mode) ([]ClassRootScore, error) {
	jobs := a.makeJobs()

	var resMu, archMu sync.Mutex
	results := make(map[int]ClassificationEvaluationResult, len(jobs))
	jobArchives := make(map[int]*archive.Archive, len(jobs))

	err := runPool(len(jobs), a.cfg.NbThreads, a.env.IsCopyable(), func(idx int) error {
		job := jobs[idx]
		env := a.env
		if a.env.IsCopyable() {
			cloned := a.env.Clone()
			typed, ok := cloned.(ClassificationLearningEnvironment)
			if !ok {
				return ErrInvalidConfiguration
			}
			env = typed
		}

		result, jobArchive, err := a.evaluateJob(env, job, gen, mode)
		if err != nil {
			return err
		}

		resMu.Lock()
		results[job.Idx] = result
		resMu.Unlock()

		archMu.Lock()
		jobArchives[job.Idx] = jobArchive
		archMu.Unlock()

		return nil
	})
	if err != nil {
		return nil, err
	}

	mergeArchives(a.archive, jobArchives, len(jobs))

	scored := make([]ClassRootScore, len(jobs))
	for i, job := range jobs {
		scored[i] = ClassRootScore{Root: job.Root, Result: results[job.Idx]}
	}
	sort.Slice(scored, func(i, j int) bool {
		si, sj := scored[i].Result.MeanF1(), scored[j].Result.MeanF1()
		if si != sj {
			return si > sj
		}

		return scored[i].Root < scored[j].Root
	})

	return scored, nil
}

func (a *ClassificationAgent) updateEvaluationRecords(scored []ClassRootScore) {
	for _, rs := range scored {
		a.scoreCache[rs.Root] = rs.Result
	}
	if len(scored) == 0 {
		return
	}
	best := scored[0]
	bestScore := best.Result.MeanF1()
	if !a.hasBest || bestScore > a.bestScore {
		a.bestScore = bestScore
		a.bestRoot = best.Root
		a.hasBest = true
	}
}

func classScore(r ClassificationEvaluationResult, c int) float64 {
	if c >= len(r.F1) {
		return 0
	}

	return r.F1[c]
}

// decimateWorstRoots implements spec §4.I's classification decimation:
// reserve keepPerClass slots per class (top scorePerClass[c], no
// backfill of missed slots), then fill remaining keep slots with the
// best general-score (MeanF1) roots not yet marked, then remove every
// unmarked team root.
func (a *ClassificationAgent) decimateWorstRoots(scored []ClassRootScore) (int, error) {
	total := len(scored)
	keep := total - int(a.cfg.RatioDeletedRoots*float64(total))
	if keep >= total {
		return 0, nil
	}

	nbClasses := 0
	for _, s := range scored {
		if len(s.Result.F1) > nbClasses {
			nbClasses = len(s.Result.F1)
		}
	}

	marked := make(map[tpg.VertexID]bool, keep)
	if a.hasPinned {
		marked[a.pinnedRoot] = true
	}

	keepPerClass := 0
	if nbClasses > 0 {
		keepPerClass = (keep / nbClasses) / 2
	}
	if keepPerClass > 0 {
		byClass := make([]ClassRootScore, len(scored))
		copy(byClass, scored)
		for c := 0; c < nbClasses; c++ {
			sort.Slice(byClass, func(i, j int) bool {
				vi, vj := classScore(byClass[i].Result, c), classScore(byClass[j].Result, c)
				if vi != vj {
					return vi > vj
				}

				return byClass[i].Root < byClass[j].Root
			})
			taken := 0
			for _, s := range byClass {
				if taken >= keepPerClass {
					break
				}
				if marked[s.Root] {
					continue // advance regardless; no backfill of missed slots
				}
				marked[s.Root] = true
				taken++
			}
		}
	}

	for _, s := range scored {
		if len(marked) >= keep {
			break
		}
		if marked[s.Root] {
			continue
		}
		marked[s.Root] = true
	}

	removed := 0
	for _, s := range scored {
		if marked[s.Root] {
			continue
		}
		info, ok := a.graph.Vertex(s.Root)
		if !ok || info.Kind != tpg.KindTeam {
			continue
		}
		if err := a.graph.RemoveVertex(s.Root); err != nil {
			return removed, err
		}
		removed++
	}

	return removed, nil
}

// TrainOneGeneration runs one full generation step.
func (a *ClassificationAgent) TrainOneGeneration(gen int) error {
	start := time.Now()

	scored, err := a.EvaluateAllRoots(gen, ModeTraining)
	if err != nil {
		return err
	}
	a.updateEvaluationRecords(scored)

	removed, err := a.decimateWorstRoots(scored)
	if err != nil {
		return err
	}
	a.metrics.observeDecimated(removed)

	accepted, err := a.mutator.PopulateTPG(a.graph, a.archive)
	if err != nil {
		return err
	}
	a.metrics.observeMutations(len(accepted))

	a.generation++
	a.metrics.observeGeneration(time.Since(start))

	return nil
}

// Train runs generations until Config.NbGenerations is reached or
// *stopFlag becomes true between generations.
func (a *ClassificationAgent) Train(stopFlag *bool, printProgress func(gen int, bestMeanF1 float64)) error {
	for gen := a.generation; gen < a.cfg.NbGenerations; gen++ {
		if stopFlag != nil && *stopFlag {
			return nil
		}
		if err := a.TrainOneGeneration(gen); err != nil {
			return err
		}
		if printProgress != nil {
			printProgress(gen, a.bestScore)
		}
	}

	return nil
}

// KeepBestPolicy pins the current best root so future decimation passes
// never remove it.
func (a *ClassificationAgent) KeepBestPolicy() {
	a.pinnedRoot = a.bestRoot
	a.hasPinned = a.hasBest
}

// GetBestRoot returns the best root recorded so far, and whether one
// has been recorded yet.
func (a *ClassificationAgent) GetBestRoot() (tpg.VertexID, bool) {
	return a.bestRoot, a.hasBest
}
