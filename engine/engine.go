// File: engine.go
// Role: Engine — inference over a *tpg.Graph: bid evaluation, team
//       arbitration, and root-to-action routing.
// Determinism: bid ties break by reverse insertion order; the visited
//       set and nbEdgesActivable budget make one root walk deterministic
//       given fixed edge programs and data sources.

package engine

import (
	"math"
	"sort"

	"github.com/katalvlaran/tpglearn/archive"
	"github.com/katalvlaran/tpglearn/datasrc"
	"github.com/katalvlaran/tpglearn/program"
	"github.com/katalvlaran/tpglearn/tpg"
)

// Engine runs inference over one Graph. It owns one
// program.ExecutionEngine, reused across every edge evaluation so a
// root walk over a large team allocates no more than its Registers bank
// once.
type Engine struct {
	graph   *tpg.Graph
	sources []datasrc.Handler
	archive *archive.Archive
	exec    *program.ExecutionEngine
}

// New returns an Engine over g, using g.Env().Sources() as the initial
// data sources.
func New(g *tpg.Graph) *Engine {
	return &Engine{
		graph:   g,
		sources: append([]datasrc.Handler(nil), g.Env().Sources()...),
	}
}

// SetDataSources swaps the engine's external data sources, following
// program.ExecutionEngine.SetDataSources's id-for-id substitution
// contract.
func (e *Engine) SetDataSources(sources []datasrc.Handler) error {
	if e.exec != nil {
		if err := e.exec.SetDataSources(sources); err != nil {
			return err
		}
	}
	e.sources = sources

	return nil
}

// SetArchive attaches an Archive that every EvaluateEdge call may record
// into (subject to the Archive's own archiving probability). A nil
// archive disables recording.
func (e *Engine) SetArchive(a *archive.Archive) { e.archive = a }

// EvaluateEdge runs e's program against the engine's current data
// sources, rewrites a NaN result to negative infinity, optionally
// records (program, dataSources, result) into the attached Archive, and
// returns the result.
func (e *Engine) EvaluateEdge(eid tpg.EdgeID) (float64, error) {
	prog, ok := e.graph.EdgeProgram(eid)
	if !ok {
		return 0, tpg.ErrEdgeNotFound
	}

	if e.exec == nil {
		e.exec = program.NewExecutionEngine(prog)
	} else {
		e.exec.SetProgram(prog)
	}
	if err := e.exec.SetDataSources(e.sources); err != nil {
		return 0, err
	}

	result, err := e.exec.ExecuteProgram(true)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(result) {
		result = math.Inf(-1)
	}

	if e.archive != nil {
		e.archive.AddRecording(prog, e.sources, result, false)
	}

	return result, nil
}

// walker holds the mutable state of one ExecuteFromRoot call.
type walker struct {
	eng              *Engine
	actionsTaken     []int
	visited          map[tpg.VertexID]bool
	trace            []tpg.VertexID
	nbEdgesActivable int
	err              error
}

func (w *walker) allActionsTaken() bool {
	for _, a := range w.actionsTaken {
		if a == -1 {
			return false
		}
	}

	return true
}

// executeTeam evaluates t's outgoing edges, sorts them bid-descending
// with reverse-insertion tie-break, then walks the sorted list taking
// at most one team edge and up to nbEdgesActivable edges total. The
// "every class already decided" short-circuit is checked on entry (a
// team reached after every class is filled is never even marked
// visited) and before each edge of the loop, so the walk stops as soon
// as the last undecided class is filled.
func (w *walker) executeTeam(t tpg.VertexID) {
	if w.allActionsTaken() {
		return
	}

	w.visited[t] = true
	w.trace = append(w.trace, t)

	edges, ok := w.eng.graph.OutgoingEdges(t)
	if !ok || len(edges) == 0 {
		return
	}

	bids := make([]float64, len(edges))
	for i, eid := range edges {
		b, err := w.eng.EvaluateEdge(eid)
		if err != nil {
			w.err = err

			return
		}
		bids[i] = b
	}

	order := make([]int, len(edges))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		ia, ib := order[a], order[b]
		if bids[ia] != bids[ib] {
			return bids[ia] > bids[ib]
		}

		return ia > ib // later insertion wins ties
	})

	teamsActivated, edgesActivated := 0, 0
	for _, idx := range order {
		if edgesActivated == w.nbEdgesActivable || w.allActionsTaken() {
			break
		}

		eid := edges[idx]
		info, ok := w.eng.graph.Edge(eid)
		if !ok {
			continue
		}
		dst, ok := w.eng.graph.Vertex(info.Dst)
		if !ok {
			continue
		}

		edgesActivated++

		switch {
		case dst.Kind == tpg.KindAction:
			w.trace = append(w.trace, info.Dst)
			if dst.Class >= 0 && dst.Class < len(w.actionsTaken) && w.actionsTaken[dst.Class] == -1 {
				w.actionsTaken[dst.Class] = dst.ActionID
			}
		case teamsActivated < 1:
			if !w.visited[info.Dst] {
				w.executeTeam(info.Dst)
				if w.err != nil {
					return
				}
			}
			teamsActivated++
		default:
			// a second/third team-bound edge within this call's budget:
			// consumes edgesActivated but is never recursed into.
		}
	}
}

// ExecuteFromRoot seeds actionsTaken to -1 per class, walks the graph
// from root, and fills every class left at -1 with initActions' default.
// It returns the sequence of visited vertices (every team entered and
// every action reached, in visit order; for an action root, the root
// itself) and the chosen action IDs, one per class.
func (e *Engine) ExecuteFromRoot(root tpg.VertexID, initActions []int, nbEdgesActivable int) ([]tpg.VertexID, []int, error) {
	vi, ok := e.graph.Vertex(root)
	if !ok {
		return nil, nil, ErrVertexNotFound
	}

	actionsTaken := make([]int, len(initActions))
	for i := range actionsTaken {
		actionsTaken[i] = -1
	}

	w := &walker{
		eng:              e,
		actionsTaken:     actionsTaken,
		visited:          make(map[tpg.VertexID]bool),
		nbEdgesActivable: nbEdgesActivable,
	}

	if vi.Kind == tpg.KindAction {
		if vi.Class >= 0 && vi.Class < len(actionsTaken) {
			actionsTaken[vi.Class] = vi.ActionID
		}
		w.trace = append(w.trace, root)
	} else {
		w.executeTeam(root)
		if w.err != nil {
			return w.trace, nil, w.err
		}
	}

	for i, v := range actionsTaken {
		if v == -1 {
			actionsTaken[i] = initActions[i]
		}
	}

	return w.trace, actionsTaken, nil
}
