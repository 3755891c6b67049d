// File: team.go
// Role: MutateTPGTeam (§4.H) — per-team structural mutation: edge
//       removal, edge addition by duplication, and per-edge program
//       mutation with optional rewiring. Guarantees every call changes
//       the team's edge set or some edge's program pointer.

package mutator

import (
	"github.com/katalvlaran/tpglearn/program"
	"github.com/katalvlaran/tpglearn/tpg"
)

// ProgramBinding pairs an edge with the program clone newly bound to it.
// MutateTPGTeam returns these so the caller can run each program through
// MutateProgramBehaviorAgainstArchive and, if that call reinitializes
// the program from scratch (a distinct pointer), rebind Edge to the
// final program.
type ProgramBinding struct {
	Edge    tpg.EdgeID
	Program *program.Program
}

// MutateTPGTeam mutates team t in g: first a geometric remove loop,
// then a geometric add loop (each added edge duplicates a random
// pre-existing edge whose endpoints are both ≠ t), then a per-edge
// program-mutation pass with optional destination rewiring. The whole
// sequence repeats until at least one mutation actually fires, so every
// call is guaranteed to leave t structurally different. It returns the
// (edge, program clone) bindings newly introduced on t's edges, for the
// caller to run through MutateProgramBehaviorAgainstArchive.
func (m *Mutator) MutateTPGTeam(g *tpg.Graph, t tpg.VertexID) ([]ProgramBinding, error) {
	for {
		changed := false

		if c, err := m.removeEdges(g, t); err != nil {
			return nil, err
		} else if c {
			changed = true
		}

		if c, err := m.addEdges(g, t); err != nil {
			return nil, err
		} else if c {
			changed = true
		}

		bindings, c, err := m.mutateEdgePrograms(g, t)
		if err != nil {
			return nil, err
		}
		changed = changed || c

		if changed {
			return bindings, nil
		}
	}
}

// removeEdges runs the remove loop: while t has more than two outgoing
// edges and a Bernoulli(PEdgeDeletion) trial keeps firing, drop one
// random outgoing edge.
func (m *Mutator) removeEdges(g *tpg.Graph, t tpg.VertexID) (bool, error) {
	changed := false
	for {
		out, ok := g.OutgoingEdges(t)
		if !ok || len(out) <= 2 {
			return changed, nil
		}
		if m.rng.Float64() >= m.params.PEdgeDeletion {
			return changed, nil
		}
		victim := out[m.rng.Intn(len(out))]
		if err := g.RemoveEdge(victim); err != nil {
			return changed, err
		}
		changed = true
	}
}

// addEdges runs the add loop: while t has fewer than MaxOutgoingEdges
// outgoing edges and a Bernoulli(PEdgeAddition) trial keeps firing,
// duplicate a random pre-existing edge whose endpoints are both ≠ t and
// rebind the duplicate's source to t.
func (m *Mutator) addEdges(g *tpg.Graph, t tpg.VertexID) (bool, error) {
	changed := false
	for {
		out, ok := g.OutgoingEdges(t)
		if !ok || len(out) >= m.params.MaxOutgoingEdges {
			return changed, nil
		}
		if m.rng.Float64() >= m.params.PEdgeAddition {
			return changed, nil
		}

		template, ok := m.pickDuplicableEdge(g, t)
		if !ok {
			return changed, nil // no eligible edge to duplicate from yet
		}
		clone, err := g.CloneEdge(template)
		if err != nil {
			return changed, err
		}
		g.SetEdgeSource(clone, t)
		changed = true
	}
}

// pickDuplicableEdge returns a random edge whose source and destination
// are both != t.
func (m *Mutator) pickDuplicableEdge(g *tpg.Graph, t tpg.VertexID) (tpg.EdgeID, bool) {
	all := g.Edges()
	candidates := make([]tpg.EdgeID, 0, len(all))
	for _, e := range all {
		info, ok := g.Edge(e)
		if !ok || info.Src == t || info.Dst == t {
			continue
		}
		candidates = append(candidates, e)
	}
	if len(candidates) == 0 {
		return 0, false
	}

	return candidates[m.rng.Intn(len(candidates))], true
}

// mutateEdgePrograms iterates t's current outgoing edges; for each, with
// probability PProgramMutation, clones its program, rebinds the edge to
// the clone, and with probability PEdgeDestinationChange retargets the
// edge to a random pre-existing team or action (biased by
// PEdgeDestinationIsAction).
func (m *Mutator) mutateEdgePrograms(g *tpg.Graph, t tpg.VertexID) ([]ProgramBinding, bool, error) {
	out, ok := g.OutgoingEdges(t)
	if !ok {
		return nil, false, nil
	}

	var bindings []ProgramBinding
	changed := false
	for _, e := range out {
		if m.rng.Float64() >= m.params.PProgramMutation {
			continue
		}
		orig, ok := g.EdgeProgram(e)
		if !ok {
			continue
		}
		clone := orig.Clone()
		g.SetEdgeProgram(e, clone)
		bindings = append(bindings, ProgramBinding{Edge: e, Program: clone})
		changed = true

		if m.rng.Float64() < m.params.PEdgeDestinationChange {
			if dst, ok := m.pickRewireTarget(g); ok {
				g.SetEdgeDestination(e, dst)
			}
		}
	}

	return bindings, changed, nil
}

// pickRewireTarget picks a random action vertex with probability
// PEdgeDestinationIsAction, else a random team vertex; falls back to
// whichever kind is non-empty.
func (m *Mutator) pickRewireTarget(g *tpg.Graph) (tpg.VertexID, bool) {
	actions := g.VerticesOfKind(tpg.KindAction)
	teams := g.VerticesOfKind(tpg.KindTeam)

	wantAction := m.rng.Float64() < m.params.PEdgeDestinationIsAction
	if wantAction && len(actions) > 0 {
		return actions[m.rng.Intn(len(actions))], true
	}
	if !wantAction && len(teams) > 0 {
		return teams[m.rng.Intn(len(teams))], true
	}
	if len(actions) > 0 {
		return actions[m.rng.Intn(len(actions))], true
	}
	if len(teams) > 0 {
		return teams[m.rng.Intn(len(teams))], true
	}

	return 0, false
}
