// File: graph.go
// Role: Graph — the TPG data structure, grounded directly on
//       core.Graph/core/methods*.go: vertex/edge maps plus ordered
//       adjacency, one RWMutex, clone-before-mutate discipline.

package tpg

import (
	"sync"

	"github.com/katalvlaran/tpglearn/program"
	"github.com/katalvlaran/tpglearn/tpgenv"
)

// Graph owns its vertices and edges and holds a back-reference to the
// Environment every edge's Program is built against.
type Graph struct {
	mu sync.RWMutex

	env *tpgenv.Environment

	nextVertexID VertexID
	nextEdgeID   EdgeID

	vertices map[VertexID]*vertex
	edges    map[EdgeID]*edge

	// insertOrder records every vertex ever created, in creation order.
	// GetRootVertices filters this against the live vertices map rather
	// than tracking a separate ordered root list, so root status never
	// needs incremental bookkeeping on every edge mutation.
	insertOrder []VertexID

	// edgeOrder records every edge ever created, in creation order.
	// Edges() filters this against the live edges map for the same
	// reason insertOrder backs GetRootVertices: map iteration order is
	// randomized per process by the Go runtime, which would silently
	// break the reproducibility §5 requires from the Mutator's "pick a
	// random pre-existing edge" operations.
	edgeOrder []EdgeID
}

// NewGraph returns an empty Graph over env.
func NewGraph(env *tpgenv.Environment) *Graph {
	return &Graph{
		env:      env,
		vertices: make(map[VertexID]*vertex),
		edges:    make(map[EdgeID]*edge),
	}
}

// Env returns the owning Environment.
func (g *Graph) Env() *tpgenv.Environment { return g.env }

// AddNewTeam creates a new Team vertex and returns its ID.
func (g *Graph) AddNewTeam() VertexID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.addVertexLocked(vertex{kind: KindTeam})
}

// AddNewAction creates a new Action vertex carrying (class, actionID)
// and returns its ID.
func (g *Graph) AddNewAction(class, actionID int) VertexID {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.addVertexLocked(vertex{kind: KindAction, class: class, actionID: actionID})
}

func (g *Graph) addVertexLocked(v vertex) VertexID {
	id := g.nextVertexID
	g.nextVertexID++
	v.id = id
	g.vertices[id] = &v
	g.insertOrder = append(g.insertOrder, id)

	return id
}

// AddNewEdge creates an edge src -> dst carrying prog and returns its
// ID. Fails ErrGraphConstraint if either endpoint is missing or src is
// not a Team.
func (g *Graph) AddNewEdge(src, dst VertexID, prog *program.Program) (EdgeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.addEdgeLocked(src, dst, prog)
}

func (g *Graph) addEdgeLocked(src, dst VertexID, prog *program.Program) (EdgeID, error) {
	srcV, ok := g.vertices[src]
	if !ok || srcV.kind != KindTeam {
		return 0, ErrGraphConstraint
	}
	if _, ok := g.vertices[dst]; !ok {
		return 0, ErrGraphConstraint
	}

	id := g.nextEdgeID
	g.nextEdgeID++
	g.edges[id] = &edge{id: id, src: src, dst: dst, program: prog}
	g.edgeOrder = append(g.edgeOrder, id)
	srcV.out = append(srcV.out, id)
	g.vertices[dst].in = append(g.vertices[dst].in, id)

	return id, nil
}

// RemoveVertex deletes v and transitively removes every edge incident
// to it (incoming or outgoing), freeing each exactly once.
func (g *Graph) RemoveVertex(v VertexID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	vtx, ok := g.vertices[v]
	if !ok {
		return ErrVertexNotFound
	}

	incident := make([]EdgeID, 0, len(vtx.out)+len(vtx.in))
	incident = append(incident, vtx.out...)
	incident = append(incident, vtx.in...)
	for _, eid := range incident {
		g.removeEdgeLocked(eid)
	}
	delete(g.vertices, v)

	return nil
}

// RemoveEdge deletes e, updating both endpoints' adjacency.
func (g *Graph) RemoveEdge(e EdgeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.edges[e]; !ok {
		return ErrEdgeNotFound
	}
	g.removeEdgeLocked(e)

	return nil
}

func (g *Graph) removeEdgeLocked(e EdgeID) {
	ed, ok := g.edges[e]
	if !ok {
		return
	}
	delete(g.edges, e)
	if srcV, ok := g.vertices[ed.src]; ok {
		srcV.out = removeFromSlice(srcV.out, e)
	}
	if dstV, ok := g.vertices[ed.dst]; ok {
		dstV.in = removeFromSlice(dstV.in, e)
	}
}

// CloneVertex clones v and its outgoing edges, sharing their programs
// by reference, and returns the new vertex's ID.
func (g *Graph) CloneVertex(v VertexID) (VertexID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	orig, ok := g.vertices[v]
	if !ok {
		return 0, ErrVertexNotFound
	}

	newID := g.addVertexLocked(vertex{kind: orig.kind, class: orig.class, actionID: orig.actionID})
	for _, eid := range orig.out {
		ed := g.edges[eid]
		if _, err := g.addEdgeLocked(newID, ed.dst, ed.program); err != nil {
			// orig's own edges were valid when created; this can only
			// fail if ed.dst has since vanished, which RemoveVertex
			// would already have pruned from orig.out.
			return 0, err
		}
	}

	return newID, nil
}

// CloneEdge duplicates e (same source, destination, and Program
// reference) and returns the new edge's ID.
func (g *Graph) CloneEdge(e EdgeID) (EdgeID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ed, ok := g.edges[e]
	if !ok {
		return 0, ErrEdgeNotFound
	}

	return g.addEdgeLocked(ed.src, ed.dst, ed.program)
}

// SetEdgeDestination retargets e to dst. Returns false if e is not in
// the graph or dst is not in the graph, true otherwise.
func (g *Graph) SetEdgeDestination(e EdgeID, dst VertexID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	ed, ok := g.edges[e]
	if !ok {
		return false
	}
	dstV, ok := g.vertices[dst]
	if !ok {
		return false
	}

	if oldDst, ok := g.vertices[ed.dst]; ok {
		oldDst.in = removeFromSlice(oldDst.in, e)
	}
	dstV.in = append(dstV.in, e)
	ed.dst = dst

	return true
}

// SetEdgeSource retargets e's source to src. Returns false if e is not
// in the graph, src is not in the graph, or src is not a Team.
func (g *Graph) SetEdgeSource(e EdgeID, src VertexID) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	ed, ok := g.edges[e]
	if !ok {
		return false
	}
	srcV, ok := g.vertices[src]
	if !ok || srcV.kind != KindTeam {
		return false
	}

	if oldSrc, ok := g.vertices[ed.src]; ok {
		oldSrc.out = removeFromSlice(oldSrc.out, e)
	}
	srcV.out = append(srcV.out, e)
	ed.src = src

	return true
}

// ClearProgramIntrons runs IdentifyIntrons on every distinct Program
// owned by some edge. Programs shared by multiple edges are processed
// exactly once.
func (g *Graph) ClearProgramIntrons() {
	g.mu.Lock()
	defer g.mu.Unlock()

	seen := make(map[*program.Program]bool, len(g.edges))
	for _, ed := range g.edges {
		if ed.program == nil || seen[ed.program] {
			continue
		}
		seen[ed.program] = true
		ed.program.IdentifyIntrons()
	}
}

// Clear removes every vertex and edge and resets the ID counters.
func (g *Graph) Clear() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.vertices = make(map[VertexID]*vertex)
	g.edges = make(map[EdgeID]*edge)
	g.insertOrder = nil
	g.edgeOrder = nil
	g.nextVertexID = 0
	g.nextEdgeID = 0
}

// GetRootVertices returns every vertex with no incoming edge, in
// deterministic vertex-creation order.
func (g *Graph) GetRootVertices() []VertexID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]VertexID, 0, len(g.vertices))
	for _, id := range g.insertOrder {
		v, ok := g.vertices[id]
		if !ok {
			continue
		}
		if len(v.in) == 0 {
			out = append(out, id)
		}
	}

	return out
}

// Vertices returns every live vertex ID in creation order — the
// enumeration surface the Mutator uses to pick a random pre-existing
// team or action without tracking a second index of its own.
func (g *Graph) Vertices() []VertexID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]VertexID, 0, len(g.vertices))
	for _, id := range g.insertOrder {
		if _, ok := g.vertices[id]; ok {
			out = append(out, id)
		}
	}

	return out
}

// VerticesOfKind returns every live vertex ID of the given Kind, in
// creation order.
func (g *Graph) VerticesOfKind(kind VertexKind) []VertexID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]VertexID, 0, len(g.vertices))
	for _, id := range g.insertOrder {
		v, ok := g.vertices[id]
		if ok && v.kind == kind {
			out = append(out, id)
		}
	}

	return out
}

// Edges returns every live edge ID, in creation order.
func (g *Graph) Edges() []EdgeID {
	g.mu.RLock()
	defer g.mu.RUnlock()

	out := make([]EdgeID, 0, len(g.edges))
	for _, id := range g.edgeOrder {
		if _, ok := g.edges[id]; ok {
			out = append(out, id)
		}
	}

	return out
}

// Vertex returns a snapshot of v's public state.
func (g *Graph) Vertex(v VertexID) (VertexInfo, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	vtx, ok := g.vertices[v]
	if !ok {
		return VertexInfo{}, false
	}

	return VertexInfo{ID: vtx.id, Kind: vtx.kind, Class: vtx.class, ActionID: vtx.actionID}, true
}

// Edge returns a snapshot of e's endpoints.
func (g *Graph) Edge(e EdgeID) (EdgeInfo, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ed, ok := g.edges[e]
	if !ok {
		return EdgeInfo{}, false
	}

	return EdgeInfo{ID: ed.id, Src: ed.src, Dst: ed.dst}, true
}

// EdgeProgram returns the Program e's bid is computed from.
func (g *Graph) EdgeProgram(e EdgeID) (*program.Program, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	ed, ok := g.edges[e]
	if !ok {
		return nil, false
	}

	return ed.program, true
}

// SetEdgeProgram rebinds e to a different Program, as mutation does
// when it clones and mutates the program an edge points at.
func (g *Graph) SetEdgeProgram(e EdgeID, prog *program.Program) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	ed, ok := g.edges[e]
	if !ok {
		return false
	}
	ed.program = prog

	return true
}

// OutgoingEdges returns a copy of v's outgoing edges in insertion order.
func (g *Graph) OutgoingEdges(v VertexID) ([]EdgeID, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	vtx, ok := g.vertices[v]
	if !ok {
		return nil, false
	}
	out := make([]EdgeID, len(vtx.out))
	copy(out, vtx.out)

	return out, true
}

// NbVertices returns the current vertex count.
func (g *Graph) NbVertices() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.vertices)
}

// NbEdges returns the current edge count.
func (g *Graph) NbEdges() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.edges)
}
