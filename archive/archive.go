// File: archive.go
// Role: Archive — bounded FIFO uniqueness archive over (program,
//       dataHash, result) recordings.
// Concurrency: every exported method takes Archive's mutex; grounded on
//       core.Graph's mutex-guarded map-of-maps storage style.

package archive

import (
	"math"
	"math/rand"
	"sync"

	"github.com/katalvlaran/tpglearn/datasrc"
	"github.com/katalvlaran/tpglearn/program"
)

// DefaultTolerance is the default τ used by AreProgramResultsUnique.
const DefaultTolerance = 1e-4

// Recording is one archived (program, dataHash, result) tuple.
type Recording struct {
	Program  *program.Program
	DataHash uint64
	Result   float64
}

// key identifies one recording for the existence/dedup checks:
// addRecording is a no-op if this exact (program, dataHash) pair is
// already archived.
type key struct {
	p    *program.Program
	hash uint64
}

// Archive is a bounded FIFO of Recordings plus the dataHash -> owned
// snapshot side table described in the package doc.
type Archive struct {
	mu sync.Mutex

	capacity             int
	archivingProbability float64
	rng                  *rand.Rand

	order      []key
	recordings map[key]Recording
	byProgram  map[*program.Program][]key

	snapshots    map[uint64][]datasrc.Handler
	snapshotRefs map[uint64]int
	hashOrder    []uint64 // first-seen order of snapshots currently retained
}

// New returns an empty Archive with the given capacity (0 means
// unbounded), archivingProbability in [0,1], and RNG seed.
func New(capacity int, archivingProbability float64, seed uint64) *Archive {
	return &Archive{
		capacity:             capacity,
		archivingProbability: archivingProbability,
		rng:                  rand.New(rand.NewSource(int64(seed))),
		recordings:           make(map[key]Recording),
		byProgram:            make(map[*program.Program][]key),
		snapshots:            make(map[uint64][]datasrc.Handler),
		snapshotRefs:         make(map[uint64]int),
	}
}

// SetRandomSeed resets the archiving RNG. Callers MUST invoke this
// before entering each parallelizable evaluation block so that which
// recordings get archived is reproducible regardless of thread count.
func (a *Archive) SetRandomSeed(seed uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.rng = rand.New(rand.NewSource(int64(seed)))
}

// SnapshotHash combines the content hashes of handlers, in order, into a
// single data-snapshot hash — the same hash AddRecording computes for
// its dataHash, exposed so a caller holding the same handlers (e.g. a
// ProgramExecutionEngine's current sources) can query HasDataHandlers,
// IsRecordingExisting, or look up a recorded result without re-deriving
// the combining scheme itself.
func SnapshotHash(handlers []datasrc.Handler) uint64 {
	var h uint64 = 1469598103934665603 // FNV-1a 64-bit offset basis
	const prime = 1099511628211
	for _, hd := range handlers {
		v := hd.Hash()
		for i := 0; i < 8; i++ {
			h ^= (v >> (8 * uint(i))) & 0xff
			h *= prime
		}
	}

	return h
}

// AddRecording inserts (p, handlers, result) with probability
// archivingProbability (or always if forced). A duplicate (dataHash,
// program) pair is a no-op. At capacity, the oldest recording is evicted
// first; if it was the last referent of its dataHash, the owned
// snapshot is dropped. Returns whether a recording was added.
func (a *Archive) AddRecording(p *program.Program, handlers []datasrc.Handler, result float64, forced bool) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !forced && a.rng.Float64() >= a.archivingProbability {
		return false
	}

	hash := SnapshotHash(handlers)
	k := key{p: p, hash: hash}
	if _, exists := a.recordings[k]; exists {
		return false
	}

	if a.capacity > 0 && len(a.order) >= a.capacity {
		a.evictOldestLocked()
	}

	if _, ok := a.snapshots[hash]; !ok {
		clones := make([]datasrc.Handler, len(handlers))
		for i, hd := range handlers {
			clones[i] = hd.Clone()
		}
		a.snapshots[hash] = clones
		a.hashOrder = append(a.hashOrder, hash)
	}
	a.snapshotRefs[hash]++

	a.recordings[k] = Recording{Program: p, DataHash: hash, Result: result}
	a.order = append(a.order, k)
	a.byProgram[p] = append(a.byProgram[p], k)

	return true
}

// evictOldestLocked drops the oldest recording. Caller holds a.mu.
func (a *Archive) evictOldestLocked() {
	if len(a.order) == 0 {
		return
	}
	oldest := a.order[0]
	a.order = a.order[1:]
	delete(a.recordings, oldest)

	refs := a.byProgram[oldest.p]
	for i, k := range refs {
		if k == oldest {
			refs = append(refs[:i], refs[i+1:]...)
			break
		}
	}
	if len(refs) == 0 {
		delete(a.byProgram, oldest.p)
	} else {
		a.byProgram[oldest.p] = refs
	}

	a.snapshotRefs[oldest.hash]--
	if a.snapshotRefs[oldest.hash] <= 0 {
		delete(a.snapshotRefs, oldest.hash)
		delete(a.snapshots, oldest.hash)
		for i, h := range a.hashOrder {
			if h == oldest.hash {
				a.hashOrder = append(a.hashOrder[:i], a.hashOrder[i+1:]...)
				break
			}
		}
	}
}

// HasDataHandlers reports whether an owned snapshot is still retained
// for hash.
func (a *Archive) HasDataHandlers(hash uint64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.snapshots[hash]

	return ok
}

// DataHandlers returns the owned snapshot for hash, or nil if none is
// retained.
func (a *Archive) DataHandlers(hash uint64) []datasrc.Handler {
	a.mu.Lock()
	defer a.mu.Unlock()

	return a.snapshots[hash]
}

// IsRecordingExisting reports whether (hash, p) is already archived.
func (a *Archive) IsRecordingExisting(hash uint64, p *program.Program) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	_, ok := a.recordings[key{p: p, hash: hash}]

	return ok
}

// AreProgramResultsUnique reports whether results (a candidate's
// {dataHash -> result} map) is distinguishable from every archived
// program. For each archived program q, the hashes common to results
// and to q's own recordings are compared; if that common set is
// non-empty and every value agrees within tau, the candidate collides
// with q and this returns false. An archived program with no hash in
// common with results cannot prove or disprove uniqueness against it
// and is skipped.
func (a *Archive) AreProgramResultsUnique(results map[uint64]float64, tau float64) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, keys := range a.byProgram {
		qResults := make(map[uint64]float64, len(keys))
		for _, k := range keys {
			qResults[k.hash] = a.recordings[k].Result
		}

		common := 0
		allClose := true
		for h, rv := range results {
			qv, ok := qResults[h]
			if !ok {
				continue
			}
			common++
			if math.Abs(rv-qv) > tau {
				allClose = false
				break
			}
		}
		if common > 0 && allClose {
			return false
		}
	}

	return true
}

// Recordings returns every currently retained Recording, in insertion
// (FIFO) order — the enumeration surface the learning agent uses to
// merge per-worker archives into its own at end-of-generation (§5).
func (a *Archive) Recordings() []Recording {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]Recording, 0, len(a.order))
	for _, k := range a.order {
		out = append(out, a.recordings[k])
	}

	return out
}

// Hashes returns every data-snapshot hash for which an owned snapshot is
// currently retained, in first-seen order — the enumeration surface
// Mutator uses to re-run a mutated program against every historical
// snapshot during the uniqueness check.
func (a *Archive) Hashes() []uint64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]uint64, len(a.hashOrder))
	copy(out, a.hashOrder)

	return out
}

// Len returns the number of recordings currently archived.
func (a *Archive) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	return len(a.order)
}
