package tpg

import "github.com/katalvlaran/tpglearn/program"

// VertexID identifies a vertex within one Graph. IDs are never reused
// within a Graph's lifetime (until Clear resets the graph).
type VertexID uint64

// EdgeID identifies an edge within one Graph. IDs are never reused.
type EdgeID uint64

// VertexKind distinguishes the two TPG vertex variants.
type VertexKind int

const (
	// KindTeam vertices have outgoing edges and route bids.
	KindTeam VertexKind = iota
	// KindAction vertices are leaves emitting an (actionClass, actionID)
	// decision; they never have outgoing edges.
	KindAction
)

// String implements fmt.Stringer for diagnostics.
func (k VertexKind) String() string {
	if k == KindAction {
		return "action"
	}

	return "team"
}

// VertexInfo is a read-only snapshot of one vertex's public state.
type VertexInfo struct {
	ID       VertexID
	Kind     VertexKind
	Class    int // meaningful only when Kind == KindAction
	ActionID int // meaningful only when Kind == KindAction
}

// EdgeInfo is a read-only snapshot of one edge's endpoints.
type EdgeInfo struct {
	ID  EdgeID
	Src VertexID
	Dst VertexID
}

// vertex is the graph's private, mutable vertex record.
type vertex struct {
	id       VertexID
	kind     VertexKind
	class    int
	actionID int
	out      []EdgeID // outgoing edges, insertion order; always empty for actions
	in       []EdgeID // incoming edges, insertion order
}

// edge is the graph's private, mutable edge record.
type edge struct {
	id      EdgeID
	src     VertexID
	dst     VertexID
	program *program.Program
}

// removeFromSlice returns s with the first occurrence of id removed,
// preserving the order of the remaining elements.
func removeFromSlice(s []EdgeID, id EdgeID) []EdgeID {
	for i, e := range s {
		if e == id {
			return append(s[:i], s[i+1:]...)
		}
	}

	return s
}
