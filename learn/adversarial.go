// File: adversarial.go
// Role: AdversarialAgent — the adversarial specialization of §4.I:
//       seated multi-policy matches, a champions pool carried across
//       generations, and per-seat score compilation.

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

// AdversarialAgent mirrors Agent but evaluates roots in seated matches
// against a champions pool sampled from the previous generation's best
// roots, via an AdversarialLearningEnvironment.
type AdversarialAgent struct {
	graph   *tpg.Graph
	env     AdversarialLearningEnvironment
	mutator *mutator.Mutator
	archive *archive.Archive
	cfg     Config
	metrics *Metrics
	rng     *rand.Rand

	generation int
	champions  []tpg.VertexID

	bestRoot   tpg.VertexID
	bestScore  float64
	hasBest    bool
	pinnedRoot tpg.VertexID
	hasPinned  bool
}

// NewAdversarialAgent returns an AdversarialAgent over a fresh Graph
// built on tpgEnv. metrics may be nil.
func NewAdversarialAgent(tpgEnv *tpgenv.Environment, env AdversarialLearningEnvironment, cfg Config, metrics *Metrics) (*AdversarialAgent, error) {
	g, arch, mut, rng, err := newCore(tpgEnv, cfg, metrics)
	if err != nil {
		return nil, err
	}

	return &AdversarialAgent{
		graph:   g,
		env:     env,
		mutator: mut,
		archive: arch,
		cfg:     cfg,
		metrics: metrics,
		rng:     rng,
	}, nil
}

// Graph returns the agent's TPGGraph.
func (a *AdversarialAgent) Graph() *tpg.Graph { return a.graph }

// Archive returns the agent's Archive.
func (a *AdversarialAgent) Archive() *archive.Archive { return a.archive }

// Generation returns the next generation number train will run.
func (a *AdversarialAgent) Generation() int { return a.generation }

// Init seeds every RNG the agent owns from seed and builds the initial
// generation via mutator.InitRandomTPG.
func (a *AdversarialAgent) Init(seed uint64) error {
	a.rng = rand.New(rand.NewSource(int64(seed)))
	a.archive.SetRandomSeed(seed)
	a.mutator.SetRandomSeed(seed)

	return a.mutator.InitRandomTPG(a.graph, a.env.NbActions())
}

// agentsPerEval returns Config.AgentsPerEval, floored to the minimum
// meaningful seat count of 2 (the studied root plus one opponent).
func (a *AdversarialAgent) agentsPerEval() int {
	if a.cfg.AgentsPerEval < 2 {
		return 2
	}

	return a.cfg.AgentsPerEval
}

// sampleChampionsTeam draws size roots, with replacement, from pool.
func (a *AdversarialAgent) sampleChampionsTeam(pool []tpg.VertexID, size int) []tpg.VertexID {
	team := make([]tpg.VertexID, size)
	for i := range team {
		team[i] = pool[a.rng.Intn(len(pool))]
	}

	return team
}

// makeJobs implements spec §4.I's adversarial makeJobs: for each of
// ⌈nbIterationsPerPolicyEvaluation / (agentsPerEval × nbIterationsPerJob)⌉
// iteration-budget units, sample one champions team (of size
// agentsPerEval-1) from the champions pool — falling back to the
// current root population when no champions pool exists yet (first
// generation) — then, for every current root and every seat within that
// team, emit one job. Every archive seed is drawn from the agent RNG
// before any worker starts.
func (a *AdversarialAgent) makeJobs() []AdversarialJob {
	roots := a.graph.GetRootVertices()
	if len(roots) == 0 {
		return nil
	}

	agentsPerEval := a.agentsPerEval()
	denom := agentsPerEval * a.cfg.NbIterationsPerJob
	nbUnits := 1
	if denom > 0 {
		nbUnits = (a.cfg.NbIterationsPerPolicyEvaluation + denom - 1) / denom
	}

	pool := a.champions
	if len(pool) == 0 {
		pool = roots
	}

	jobs := make([]AdversarialJob, 0, nbUnits*len(roots)*agentsPerEval)
	idx := 0
	for u := 0; u < nbUnits; u++ {
		team := a.sampleChampionsTeam(pool, agentsPerEval-1)
		for _, r := range roots {
			for seat := 0; seat < agentsPerEval; seat++ {
				seated := make([]tpg.VertexID, agentsPerEval)
				copy(seated[:seat], team[:seat])
				seated[seat] = r
				copy(seated[seat+1:], team[seat:])

				jobs = append(jobs, AdversarialJob{
					Roots:       seated,
					ArchiveSeed: a.rng.Uint64(),
					Idx:         idx,
					StudiedPos:  seat,
				})
				idx++
			}
		}
	}

	return jobs
}

// evaluateJob runs job for Config.NbIterationsPerJob matches, cycling
// seats turn by turn, accumulating each seat's cumulative score from
// env.Scores() at the end of every match.
func (a *AdversarialAgent) evaluateJob(env AdversarialLearningEnvironment, job AdversarialJob, gen int, mode Mode) (AdversarialEvaluationResult, *archive.Archive, error) {
	jobArchive := archive.New(a.cfg.ArchiveSize, a.cfg.ArchivingProbability, job.ArchiveSeed)
	eng := engine.New(a.graph)
	eng.SetArchive(jobArchive)

	nbSeats := len(job.Roots)
	sumScores := make([]float64, nbSeats)

	for iter := 0; iter < a.cfg.NbIterationsPerJob; iter++ {
		seed := hashCombine(gen, iter) ^ hashInt64(int64(job.Idx))
		if err := env.Reset(seed, mode, iter, gen); err != nil {
			return AdversarialEvaluationResult{}, nil, err
		}
		if err := eng.SetDataSources(env.DataSources()); err != nil {
			return AdversarialEvaluationResult{}, nil, err
		}

		steps := 0
		for !env.IsTerminal() && steps < a.cfg.MaxNbActionsPerEval {
			seat := steps % nbSeats
			_, actions, err := eng.ExecuteFromRoot(job.Roots[seat], env.InitActions(), a.cfg.NbEdgesActivable)
			if err != nil {
				return AdversarialEvaluationResult{}, nil, err
			}
			if err := env.DoActions(seat, actions); err != nil {
				return AdversarialEvaluationResult{}, nil, err
			}
			steps++
		}

		scores := env.Scores()
		for s := 0; s < nbSeats && s < len(scores); s++ {
			sumScores[s] += scores[s]
		}
	}

	avg := make([]float64, nbSeats)
	counts := make([]int, nbSeats)
	for s := range avg {
		avg[s] = sumScores[s] / float64(a.cfg.NbIterationsPerJob)
		counts[s] = a.cfg.NbIterationsPerJob
	}

	return AdversarialEvaluationResult{Scores: avg, NbEvaluation: counts}, jobArchive, nil
}

// compileResults implements spec §4.I's adversarial result compilation:
// a root's score is the nbEvaluation-weighted mean, across every job it
// studied, of that job's StudiedPos seat score — every other seat in
// the match is ignored.
func compileResults(jobs []AdversarialJob, results map[int]AdversarialEvaluationResult) map[tpg.VertexID]EvaluationResult {
	byRoot := make(map[tpg.VertexID]EvaluationResult)
	for _, job := range jobs {
		res, ok := results[job.Idx]
		if !ok || job.StudiedPos >= len(res.Scores) {
			continue
		}

		root := job.Roots[job.StudiedPos]
		contribution := EvaluationResult{
			Result:       res.Scores[job.StudiedPos],
			NbEvaluation: res.NbEvaluation[job.StudiedPos],
		}

		existing := byRoot[root]
		existing.Add(contribution)
		byRoot[root] = existing
	}

	return byRoot
}

// EvaluateAllRoots runs makeJobs, evaluates every job over runPool,
// merges every per-job archive, compiles per-root results, and returns
// them sorted descending by score.
func (a *AdversarialAgent) EvaluateAllRoots(gen int, mode Mode) ([]RootScore, error) {
	jobs := a.makeJobs()
	if len(jobs) == 0 {
		return nil, nil
	}

	var resMu, archMu sync.Mutex
	results := make(map[int]AdversarialEvaluationResult, len(jobs))
	jobArchives := make(map[int]*archive.Archive, len(jobs))

	err := runPool(len(jobs), a.cfg.NbThreads, a.env.IsCopyable(), func(idx int) error {
		job := jobs[idx]
		env := a.env
		if a.env.IsCopyable() {
			cloned := a.env.Clone()
			typed, ok := cloned.(AdversarialLearningEnvironment)
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

	byRoot := compileResults(jobs, results)
	scored := make([]RootScore, 0, len(byRoot))
	for root, res := range byRoot {
		scored = append(scored, RootScore{Root: root, Result: res})
	}
	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Result.Result != scored[j].Result.Result {
			return scored[i].Result.Result > scored[j].Result.Result
		}

		return scored[i].Root < scored[j].Root
	})

	return scored, nil
}

func (a *AdversarialAgent) updateEvaluationRecords(scored []RootScore) {
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

// refillChampions implements "the champions list is refilled with the
// top (1 - ratioDeletedRoots) × totalRoots roots" once results are
// compiled; scored is already sorted descending.
func (a *AdversarialAgent) refillChampions(scored []RootScore) {
	total := len(scored)
	keep := total - int(a.cfg.RatioDeletedRoots*float64(total))
	if keep > total {
		keep = total
	}
	if keep < 0 {
		keep = 0
	}

	champs := make([]tpg.VertexID, 0, keep)
	for i := 0; i < keep && i < len(scored); i++ {
		champs = append(champs, scored[i].Root)
	}
	a.champions = champs
}

// decimateWorstRoots removes the worst ⌊ratioDeletedRoots × totalRoots⌋
// root teams present in the current graph (scored only covers roots a
// job actually studied this generation; any other current root team is
// left alone). Action roots and the pinned best policy are never
// removed.
func (a *AdversarialAgent) decimateWorstRoots(scored []RootScore) (int, error) {
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

// TrainOneGeneration runs one full generation step, additionally
// refilling the champions pool after compilation.
func (a *AdversarialAgent) TrainOneGeneration(gen int) error {
	start := time.Now()

	scored, err := a.EvaluateAllRoots(gen, ModeTraining)
	if err != nil {
		return err
	}
	a.updateEvaluationRecords(scored)
	a.refillChampions(scored)

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
func (a *AdversarialAgent) Train(stopFlag *bool, printProgress func(gen int, bestScore float64)) error {
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
func (a *AdversarialAgent) KeepBestPolicy() {
	a.pinnedRoot = a.bestRoot
	a.hasPinned = a.hasBest
}

// GetBestRoot returns the best root recorded so far, and whether one
// has been recorded yet.
func (a *AdversarialAgent) GetBestRoot() (tpg.VertexID, bool) {
	return a.bestRoot, a.hasBest
}
