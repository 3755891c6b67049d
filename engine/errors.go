// File: errors.go
// Role: sentinel errors for the engine package.

package engine

import "errors"

// ErrVertexNotFound is returned when ExecuteFromRoot is given a root
// vertex that is not in the graph.
var ErrVertexNotFound = errors.New("engine: root vertex not found")
