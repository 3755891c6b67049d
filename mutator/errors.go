// File: errors.go
// Role: sentinel error for the mutator package.

package mutator

import "errors"

// ErrInvalidConfiguration is returned by New when Params fails
// validation, and by InitRandomTPG when the action vector holds fewer
// than two actions, InitNbRoots is below the total action count, or
// MaxInitOutgoingEdges exceeds it.
var ErrInvalidConfiguration = errors.New("mutator: invalid configuration")
