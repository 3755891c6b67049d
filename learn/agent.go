// File: agent.go
// Role: Agent — the base Learning Agent of §4.I: a single scalar score
//       per root, one job per root.

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

// newCore builds the pieces every Agent variant shares: a validated
// Config, a fresh Graph over tpgEnv, a capacity-bounded Archive, a
// Mutator seeded from cfg, and the agent-wide RNG.
func newCore(tpgEnv *tpgenv.Environment, cfg Config, metrics *Metrics) (*tpg.Graph, *archive.Archive, *mutator.Mutator, *rand.Rand, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, nil, err
	}

	mut, err := mutator.New(tpgEnv, cfg.Mutator, cfg.Seed)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	g := tpg.NewGraph(tpgEnv)
	arch := archive.New(cfg.ArchiveSize, cfg.ArchivingProbability, cfg.Seed)
	rng := rand.New(rand.NewSource(int64(cfg.Seed)))

	return g, arch, mut, rng, nil
}

// Agent is the base Learning Agent: it owns the TPGGraph, the Archive,
// the RNG, and the Mutator, and drives generations of evaluate →
// decimate → repopulate against a LearningEnvironment.
type Agent struct {
	graph   *tpg.Graph
	env     LearningEnvironment
	mutator *mutator.Mutator
	archive *archive.Archive
	cfg     Config
	metrics *Metrics
	rng     *rand.Rand

	generation int
	scoreCache map[tpg.VertexID]EvaluationResult

	bestRoot    tpg.VertexID
	bestScore   float64
	hasBest     bool
	pinnedRoot  tpg.VertexID
	hasPinned   bool
}

// New returns an Agent over a fresh Graph built on tpgEnv. metrics may
// be nil.
func New(tpgEnv *tpgenv.Environment, env LearningEnvironment, cfg Config, metrics *Metrics) (*Agent, error) {
	g, arch, mut, rng, err := newCore(tpgEnv, cfg, metrics)
	if err != nil {
		return nil, err
	}

	return &Agent{
		graph:      g,
		env:        env,
		mutator:    mut,
		archive:    arch,
		cfg:        cfg,
		metrics:    metrics,
		rng:        rng,
		scoreCache: make(map[tpg.VertexID]EvaluationResult),
	}, nil
}

// Graph returns the agent's TPGGraph.
func (a *Agent) Graph() *tpg.Graph { return a.graph }

// Archive returns the agent's Archive.
func (a *Agent) Archive() *archive.Archive { return a.archive }

// Generation returns the next generation number train will run.
func (a *Agent) Generation() int { return a.generation }

// Init seeds every RNG the agent owns from seed and builds the initial
// generation via mutator.InitRandomTPG.
func (a *Agent) Init(seed uint64) error {
	a.rng = rand.New(rand.NewSource(int64(seed)))
	a.archive.SetRandomSeed(seed)
	a.mutator.SetRandomSeed(seed)

	return a.mutator.InitRandomTPG(a.graph, a.env.NbActions())
}

// makeJobs builds one Job per current root, in root insertion order,
// drawing each job's archive seed from the agent RNG before any worker
// starts (§5's RNG discipline).
func (a *Agent) makeJobs() []Job {
	roots := a.graph.GetRootVertices()
	jobs := make([]Job, len(roots))
	for i, r := range roots {
		jobs[i] = Job{Root: r, ArchiveSeed: a.rng.Uint64(), Idx: i}
	}

	return jobs
}

// evaluateJob runs job.Root for Config.NbIterationsPerPolicyEvaluation
// iterations against env, recording bid evaluations into a fresh
// per-job archive, then combines the fresh result with any cached prior
// result for job.Root, short-circuiting entirely if the prior already
// met Config.MaxNbEvaluationPerPolicy.
func (a *Agent) evaluateJob(env LearningEnvironment, job Job, gen int, mode Mode) (EvaluationResult, *archive.Archive, error) {
	jobArchive := archive.New(a.cfg.ArchiveSize, a.cfg.ArchivingProbability, job.ArchiveSeed)

	prior, hasPrior := a.scoreCache[job.Root]
	if hasPrior && prior.NbEvaluation >= a.cfg.MaxNbEvaluationPerPolicy {
		return prior, jobArchive, nil
	}

	eng := engine.New(a.graph)
	eng.SetArchive(jobArchive)

	var sum float64
	n := 0
	for iter := 0; iter < a.cfg.NbIterationsPerPolicyEvaluation; iter++ {
		seed := hashCombine(gen, iter)
		if err := env.Reset(seed, mode, iter, gen); err != nil {
			return EvaluationResult{}, nil, err
		}
		if err := eng.SetDataSources(env.DataSources()); err != nil {
			return EvaluationResult{}, nil, err
		}

		steps := 0
		for !env.IsTerminal() && steps < a.cfg.MaxNbActionsPerEval {
			_, actions, err := eng.ExecuteFromRoot(job.Root, env.InitActions(), a.cfg.NbEdgesActivable)
			if err != nil {
				return EvaluationResult{}, nil, err
			}
			if err := env.DoAction(actions); err != nil {
				return EvaluationResult{}, nil, err
			}
			steps++
		}

		sum += env.Score()
		n++
	}

	result := EvaluationResult{Result: sum / float64(n), NbEvaluation: n}
	if hasPrior {
		if err := result.Add(prior); err != nil {
			return EvaluationResult{}, nil, err
		}
	}

	return result, jobArchive, nil
}

// EvaluateAllRoots runs makeJobs, evaluates every job over runPool,
// merges every per-job archive into the agent archive, and returns the
// per-root results sorted descending by score (ties broken by root ID
// for full determinism) — the "ordered multimap keyed by evaluation
// score" of spec §4.I.
func (a *Agent) EvaluateAllRoots(gen int, mode Mode) ([]RootScore, error) {
	jobs := a.makeJobs()

	var resMu, archMu sync.Mutex
	results := make(map[int]EvaluationResult, len(jobs))
	jobArchives := make(map[int]*archive.Archive, len(jobs))

	err := runPool(len(jobs), a.cfg.NbThreads, a.env.IsCopyable(), func(idx int) error {
		job := jobs[idx]
		env := a.env
		if a.env.IsCopyable() {
			env = a.env.Clone()
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

	scored := make([]RootScore, len(jobs))
	for i, job := range jobs {
		scored[i] = RootScore{Root: job.Root, Result: results[job.Idx]}
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Result.Result != scored[j].Result.Result {
			return scored[i].Result.Result > scored[j].Result.Result
		}

		return scored[i].Root < scored[j].Root
	})

	return scored, nil
}

// updateEvaluationRecords stores every root's fresh result into the
// score cache (so a future evaluateJob call can combine with it) and
// advances the rolling best-root record.
func (a *Agent) updateEvaluationRecords(scored []RootScore) {
	for _, rs := range scored {
		a.scoreCache[rs.Root] = rs.Result
	}
	if len(scored) == 0 {
		return
	}
	best := scored[0]
	if !a.hasBest || best.Result.Result > a.bestScore {
		a.bestScore = best.Result.Result
		a.bestRoot = best.Root
		a.hasBest = true
	}
}

// decimateWorstRoots removes the worst ⌊ratioDeletedRoots × totalRoots⌋
// root teams from the graph, walking scored from its tail (its worst
// end, since scored is sorted descending). Action roots and the pinned
// best policy (see KeepBestPolicy) are never removed.
func (a *Agent) decimateWorstRoots(scored []RootScore) (int, error) {
	nbDelete := int(a.cfg.RatioDeletedRoots * float64(len(scored)))
	removed := 0
	for i := len(scored) - 1; i >= 0 && removed < nbDelete; i-- {
		root := scored[i].Root
		if a.hasPinned && root == a.pinnedRoot {
			continue
		}
		info, ok := a.graph.Vertex(root)
		if !ok || info.Kind != tpg.KindTeam {
			continue
		}
		if err := a.graph.RemoveVertex(root); err != nil {
			return removed, err
		}
		removed++
	}

	return removed, nil
}

// TrainOneGeneration runs one full generation step: evaluate, update
// records, decimate, repopulate, advance the generation counter.
func (a *Agent) TrainOneGeneration(gen int) error {
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
// *stopFlag becomes true; Train checks the flag before each generation.
// printProgress, if non-nil, is called after each completed generation
// with the generation index and the current best score.
func (a *Agent) Train(stopFlag *bool, printProgress func(gen int, bestScore float64)) error {
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
// never remove it, regardless of its relative score.
func (a *Agent) KeepBestPolicy() {
	a.pinnedRoot = a.bestRoot
	a.hasPinned = a.hasBest
}

// GetBestRoot returns the best root recorded so far, and whether one
// has been recorded yet.
func (a *Agent) GetBestRoot() (tpg.VertexID, bool) {
	return a.bestRoot, a.hasBest
}
