// Package tpg implements the Tangled Program Graph data model: Team and
// Action vertices joined by Edges that carry a shared *program.Program,
// plus the structural mutation surface (addNewTeam, addNewAction,
// addNewEdge, removeVertex, removeEdge, cloneVertex, cloneEdge,
// setEdgeDestination, setEdgeSource, clearProgramIntrons, clear) that
// keeps the graph's invariants intact.
//
// Invariants:
//
//  1. An Action vertex has no outgoing edges.
//  2. An edge's source is always a Team.
//  3. An edge is registered in both endpoints' adjacency, or it does not
//     exist.
//  4. Programs are shared by reference: CloneVertex and CloneEdge copy
//     the edge, never the Program it points at. Mutation clones a
//     Program before changing it (copy-on-write), at the program
//     package level, not here.
//  5. Root vertices (GetRootVertices) are those with no incoming edge,
//     returned in deterministic vertex-creation order.
//
// Graph does not itself enforce "every team has >= 2 outgoing edges
// after any public mutation returns" — that invariant spans a whole
// mutation session (add some edges, remove others) and is the Mutator
// package's responsibility, the same way core.Graph leaves multi-step
// invariants to its callers.
//
// Concurrency: Graph guards its vertex/edge storage with a single
// sync.RWMutex, following core.Graph's lock-per-storage-concern style
// collapsed to one lock since vertices and edges are never independently
// useful without each other in a TPG (an edge always touches two
// vertices' adjacency in the same operation).
//
// Errors:
//
//	ErrVertexNotFound  - operation referenced a vertex not in the graph.
//	ErrEdgeNotFound    - operation referenced an edge not in the graph.
//	ErrGraphConstraint - addNewEdge given a missing endpoint or a
//	                     non-team source.
package tpg
