// File: errors.go
// Role: sentinel errors for the tpg package.

package tpg

import "errors"

// ErrVertexNotFound is returned when an operation references a vertex
// that is not in the graph.
var ErrVertexNotFound = errors.New("tpg: vertex not found")

// ErrEdgeNotFound is returned when an operation references an edge that
// is not in the graph.
var ErrEdgeNotFound = errors.New("tpg: edge not found")

// ErrGraphConstraint is returned by AddNewEdge when either endpoint is
// missing from the graph or src is not a Team.
var ErrGraphConstraint = errors.New("tpg: graph constraint violated")
