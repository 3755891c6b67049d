// Package archive implements a bounded FIFO of (program, data-snapshot
// hash, result) recordings used to reject mutants whose behavior is
// indistinguishable from an already-archived program.
//
// During mutation, a candidate program is re-run against every
// historical data snapshot the Archive has seen; AreProgramResultsUnique
// reports whether the candidate's results collide with some archived
// program's results on every snapshot both were evaluated against. A
// collision means the mutation produced no observable behavioral change
// and should be retried.
//
// Archive owns three related indexes: the FIFO eviction order, the
// recordings themselves keyed by (program, dataHash), and a lazily
// populated map from dataHash to an owned clone of the data-handler
// snapshot that produced it (shared by every recording carrying that
// hash, reference-counted and dropped once the last referent is
// evicted).
//
// Archiving decisions are driven by a dedicated *rand.Rand so that, with
// SetRandomSeed called before each parallel evaluation round, which
// recordings get archived is reproducible independent of goroutine
// scheduling.
package archive
