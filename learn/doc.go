// Package learn implements the training loop described in spec §4.I: a
// Learning Agent owning a *tpg.Graph, an *archive.Archive, a
// *mutator.Mutator, and an RNG, driving generations of evaluate →
// decimate → repopulate against a caller-supplied LearningEnvironment.
//
// Agent is the base variant (a single scalar score per root).
// ClassificationAgent specializes scoring to per-class F1 against a
// ClassificationLearningEnvironment, with per-class-preserving
// decimation. AdversarialAgent specializes evaluation to multi-seat
// matches against an AdversarialLearningEnvironment, tracking a
// champions pool across generations.
//
// Concurrency follows §5: evaluateAllRoots carves work into per-root
// (or, for the adversarial variant, per-seating) jobs, built and seeded
// entirely on the calling goroutine before any worker starts, then runs
// them over a golang.org/x/sync/errgroup-supervised pool bounded by
// Config.NbThreads. Workers write into jobIdx-keyed, mutex-guarded
// result and archive maps; the graph, the agent RNG, and the agent
// archive are touched only by the calling goroutine, never by a worker.
// Archive merging at generation end walks per-job archives in ascending
// jobIdx and reinserts every recording forced; because the destination
// archive is itself FIFO-bounded at Config.ArchiveSize, later insertions
// naturally evict earlier ones, which is how the tail-most-recordings
// guarantee of §5 falls out without extra bookkeeping.
//
// Configuration is a single yaml- and validator-tagged Config struct
// (gopkg.in/yaml.v3, github.com/go-playground/validator/v10), embedding
// mutator.Params. Metrics are optional and nil-safe
// (github.com/prometheus/client_golang).
//
// Errors:
//
//	ErrInvalidConfiguration - Config or mutator.Params out of range.
//	ErrConcurrencyViolation - Config.NbThreads > 1 against a
//	                          non-copyable LearningEnvironment.
package learn
