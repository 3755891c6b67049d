// File: init.go
// Role: InitRandomTPG (§4.H) — build the initial generation: one action
//       per (class, id) pair, InitNbRoots teams, 2*InitNbRoots fresh
//       programs, deterministic base connectivity, then a few extra
//       program-sharing edges per team biased toward the least-used
//       program.

package mutator

import (
	"fmt"

	"github.com/katalvlaran/tpglearn/program"
	"github.com/katalvlaran/tpglearn/tpg"
)

// InitRandomTPG populates g from scratch given actionCounts, the number
// of distinct action IDs to create per class (actionCounts[c] == 0 means
// class c has no actions). Fails ErrInvalidConfiguration if fewer than
// two actions would be created in total, if InitNbRoots is smaller than
// the total action count, or if MaxInitOutgoingEdges exceeds it.
func (m *Mutator) InitRandomTPG(g *tpg.Graph, actionCounts []int) error {
	total := 0
	for _, c := range actionCounts {
		total += c
	}
	if total < 2 {
		return fmt.Errorf("%w: fewer than two actions requested (%d)", ErrInvalidConfiguration, total)
	}
	if m.params.InitNbRoots < total {
		return fmt.Errorf("%w: InitNbRoots (%d) is smaller than the total action count (%d)", ErrInvalidConfiguration, m.params.InitNbRoots, total)
	}
	if m.params.MaxInitOutgoingEdges > total {
		return fmt.Errorf("%w: MaxInitOutgoingEdges (%d) exceeds the total action count (%d)", ErrInvalidConfiguration, m.params.MaxInitOutgoingEdges, total)
	}

	actionVerts := make([]tpg.VertexID, 0, total)
	for class, count := range actionCounts {
		for id := 0; id < count; id++ {
			actionVerts = append(actionVerts, g.AddNewAction(class, id))
		}
	}
	n := len(actionVerts)

	initNbRoots := m.params.InitNbRoots
	teams := make([]tpg.VertexID, initNbRoots)
	for i := range teams {
		teams[i] = g.AddNewTeam()
	}

	progs := make([]*program.Program, 2*initNbRoots)
	for i := range progs {
		progs[i] = m.NewRandomProgram()
	}

	refCount := make(map[*program.Program]int, len(progs))
	progDst := make(map[*program.Program]tpg.VertexID, len(progs))

	for i := 0; i < initNbRoots; i++ {
		var a0, a1 tpg.VertexID
		if initNbRoots <= n {
			a0 = actionVerts[(2*i)%n]
			a1 = actionVerts[(2*i+1)%n]
		} else {
			// More teams than actions: the deterministic 2i/(2i+1)
			// mapping would no longer spread edges evenly across
			// actions, so fall back to a random action per spec's
			// "remaining program slots ... connected to randomly chosen
			// actions" clause.
			a0 = actionVerts[m.rng.Intn(n)]
			a1 = actionVerts[m.rng.Intn(n)]
		}

		p0, p1 := progs[2*i], progs[2*i+1]
		if _, err := g.AddNewEdge(teams[i], a0, p0); err != nil {
			return err
		}
		if _, err := g.AddNewEdge(teams[i], a1, p1); err != nil {
			return err
		}
		refCount[p0]++
		refCount[p1]++
		progDst[p0] = a0
		progDst[p1] = a1
	}

	for i, t := range teams {
		used := map[*program.Program]bool{progs[2*i]: true, progs[2*i+1]: true}
		extra := 0
		if m.params.MaxInitOutgoingEdges > 2 {
			extra = m.rng.Intn(m.params.MaxInitOutgoingEdges - 1) // [0, maxInitOutgoingEdges-2]
		}
		for k := 0; k < extra; k++ {
			cand := m.pickLeastReferencedProgram(progs, used, refCount)
			if cand == nil {
				break
			}
			if _, err := g.AddNewEdge(t, progDst[cand], cand); err != nil {
				return err
			}
			refCount[cand]++
			used[cand] = true
		}
	}

	return nil
}

// pickLeastReferencedProgram chooses a random program from candidates
// not already in used, weighting the choice toward programs with a
// smaller refCount (to avoid program monoculture) via roulette-wheel
// selection over weight = 1/(refCount+1). Returns nil if every candidate
// is already used.
func (m *Mutator) pickLeastReferencedProgram(candidates []*program.Program, used map[*program.Program]bool, refCount map[*program.Program]int) *program.Program {
	type weighted struct {
		p *program.Program
		w float64
	}
	pool := make([]weighted, 0, len(candidates))
	total := 0.0
	for _, p := range candidates {
		if used[p] {
			continue
		}
		w := 1.0 / float64(refCount[p]+1)
		pool = append(pool, weighted{p: p, w: w})
		total += w
	}
	if len(pool) == 0 {
		return nil
	}

	roll := m.rng.Float64() * total
	for _, wp := range pool {
		roll -= wp.w
		if roll <= 0 {
			return wp.p
		}
	}

	return pool[len(pool)-1].p
}
