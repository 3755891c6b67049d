// Package engine implements TPG inference: routing from a root vertex
// down through bid-arbitrating teams to a set of chosen actions.
//
// Engine wraps a *tpg.Graph, the external data sources bids are computed
// against, and one program.ExecutionEngine reused across every edge
// evaluation in a root walk (mirroring program.ExecutionEngine's own
// reused-Registers discipline, so one root evaluation allocates no more
// than a handful of slices regardless of graph size).
//
// EvaluateEdge runs an edge's program with exceptions ignored (a line
// that hits a bad operand is skipped, leaving its destination register
// unchanged, rather than aborting the walk) and rewrites NaN to negative infinity so a
// NaN-producing program always loses arbitration instead of winning it
// by comparing unordered against every other bid.
//
// executeTeam sorts a team's outgoing edges by bid descending, breaking
// ties by reverse insertion order — the later-inserted edge wins — which
// the package grounds on core's deterministic-iteration discipline
// (core/methods_vertices.go's map-free, slice-backed adjacency) applied
// to a stable sort. A visited-team set passed down the recursion
// prevents revisiting a team within one root walk, the same guard
// algorithms/bfs.go's walker keeps for BFS; unlike BFS, only one team
// edge may be taken per team per call (nbEdgesActivable budgets the
// rest), so a team can never fan out into more than one further
// recursion.
//
// Errors:
//
//	ErrVertexNotFound - ExecuteFromRoot given a root not in the graph.
package engine
