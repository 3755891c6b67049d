// File: archive_check.go
// Role: MutateProgramBehaviorAgainstArchive (§4.H) — mutate (or
//       reinitialize) a program until its behavior is distinguishable
//       from every program already archived.

package mutator

import (
	"math/rand"

	"github.com/katalvlaran/tpglearn/archive"
	"github.com/katalvlaran/tpglearn/program"
	"github.com/katalvlaran/tpglearn/tpgenv"
)

// maxBehaviorAttempts bounds the uniqueness retry loop. A real
// configuration converges in a handful of iterations; this is a
// backstop against a degenerate Params/Archive combination where no
// candidate could ever be unique (e.g. a single-instruction catalog
// over a one-cell constant source), so the call always terminates.
const maxBehaviorAttempts = 1000

// MutateProgramBehaviorAgainstArchive repeatedly mutates (or, with
// probability PNewProgram, reinitializes) p until its results against
// every snapshot recorded in arch are distinguishable from every
// archived program's own results on those snapshots
// (arch.AreProgramResultsUnique). It returns the accepted program (p
// itself, mutated in place, unless a reinitialization replaced it
// wholesale) and the {hash -> result} map that proved its uniqueness.
func (m *Mutator) MutateProgramBehaviorAgainstArchive(p *program.Program, arch *archive.Archive) (*program.Program, map[uint64]float64, error) {
	var snapshot *program.Program
	if m.params.ForceProgramBehaviorChangeOnMutation {
		snapshot = p.Clone()
	}

	candidate := p
	for attempt := 0; attempt < maxBehaviorAttempts; attempt++ {
		if m.rng.Float64() < m.params.PNewProgram {
			candidate = m.NewRandomProgram()
		} else {
			candidate = mutateUntilChanged(candidate, snapshot, m.env, m.rng, m.params)
		}

		results, err := evaluateAgainstArchive(candidate, arch)
		if err != nil {
			return nil, nil, err
		}
		if arch.AreProgramResultsUnique(results, m.params.tau()) {
			return candidate, results, nil
		}
	}

	// Exhausted the retry budget: accept the last candidate anyway
	// rather than loop forever against an Archive/Params combination
	// that admits no distinguishable program.
	results, err := evaluateAgainstArchive(candidate, arch)

	return candidate, results, err
}

// mutateUntilChanged applies mutateProgram to p until it has actually
// changed and, when snapshot is non-nil (ForceProgramBehaviorChangeOnMutation),
// until p's non-intron signature differs from snapshot's.
func mutateUntilChanged(p *program.Program, snapshot *program.Program, env *tpgenv.Environment, rng *rand.Rand, params Params) *program.Program {
	for attempt := 0; attempt < maxBehaviorAttempts; attempt++ {
		if !mutateProgram(p, env, rng, params) {
			continue
		}
		if snapshot == nil {
			return p
		}
		p.IdentifyIntrons()
		if !p.HasIdenticalBehavior(snapshot) {
			return p
		}
	}

	return p
}

// evaluateAgainstArchive re-runs candidate against every data-snapshot
// arch currently retains, collecting {hash -> result}.
func evaluateAgainstArchive(candidate *program.Program, arch *archive.Archive) (map[uint64]float64, error) {
	hashes := arch.Hashes()
	results := make(map[uint64]float64, len(hashes))
	for _, h := range hashes {
		handlers := arch.DataHandlers(h)
		if handlers == nil {
			continue
		}
		eng := program.NewExecutionEngine(candidate)
		if err := eng.SetDataSources(handlers); err != nil {
			return nil, err
		}
		result, err := eng.ExecuteProgram(true)
		if err != nil {
			return nil, err
		}
		results[h] = result
	}

	return results, nil
}
