// File: populate.go
// Role: PopulateTPG (§4.H) — refill the root population up to NbRoots by
//       cloning random existing root teams and mutating the clones, then
//       verifying every newly introduced program against the Archive.

package mutator

import (
	"fmt"

	"github.com/katalvlaran/tpglearn/archive"
	"github.com/katalvlaran/tpglearn/program"
	"github.com/katalvlaran/tpglearn/tpg"
)

// maxPopulateRounds bounds the refill loop. A rewire mutation can
// occasionally turn a just-created clone's sibling root back into a
// non-root (by giving it a fresh incoming edge), so the root count does
// not strictly increase every round; this is a backstop against that
// degenerate case rather than a real expected limit.
const maxPopulateRounds = 10000

// PopulateTPG clones random existing root teams (snapshotted once at
// entry, per §4.H step 1) until g has NbRoots roots, mutating each clone
// with MutateTPGTeam, then runs every newly introduced program through
// MutateProgramBehaviorAgainstArchive and rebinds its edge if the
// uniqueness check replaced the program wholesale (the PNewProgram
// path). It returns every program ultimately accepted this way.
//
// If g currently has no root team to clone from (every root is an
// action), PopulateTPG returns immediately without adding anything —
// there is nothing to seed a new root from.
func (m *Mutator) PopulateTPG(g *tpg.Graph, arch *archive.Archive) ([]*program.Program, error) {
	sourceRoots := rootTeams(g)
	if len(sourceRoots) == 0 {
		return nil, nil
	}

	var accepted []*program.Program
	for round := 0; len(g.GetRootVertices()) < m.params.NbRoots; round++ {
		if round >= maxPopulateRounds {
			return accepted, fmt.Errorf("%w: PopulateTPG did not reach NbRoots=%d within %d rounds", ErrInvalidConfiguration, m.params.NbRoots, maxPopulateRounds)
		}
		pick := sourceRoots[m.rng.Intn(len(sourceRoots))]
		clone, err := g.CloneVertex(pick)
		if err != nil {
			return accepted, err
		}

		bindings, err := m.MutateTPGTeam(g, clone)
		if err != nil {
			return accepted, err
		}

		for _, b := range bindings {
			final, _, err := m.MutateProgramBehaviorAgainstArchive(b.Program, arch)
			if err != nil {
				return accepted, err
			}
			if final != b.Program {
				g.SetEdgeProgram(b.Edge, final)
			}
			accepted = append(accepted, final)
		}
	}

	return accepted, nil
}

// rootTeams returns the subset of g's current root vertices that are
// Team-kind (action roots are valid roots but are never cloned — the
// mutator only ever clones a team, never an action).
func rootTeams(g *tpg.Graph) []tpg.VertexID {
	roots := g.GetRootVertices()
	out := make([]tpg.VertexID, 0, len(roots))
	for _, r := range roots {
		if info, ok := g.Vertex(r); ok && info.Kind == tpg.KindTeam {
			out = append(out, r)
		}
	}

	return out
}
