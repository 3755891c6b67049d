// File: errors.go
// Role: sentinel errors for the program package.

package program

import "errors"

// ErrInvalidEncoding is returned by a typed line accessor when the
// written value falls outside the field's valid range for the owning
// Environment, unless the accessor's bypass flag is set.
var ErrInvalidEncoding = errors.New("program: value violates line encoding")

// ErrIncompatibleDataSources is returned by SetDataSources when a
// substitute data source's ID does not match the Environment source it
// is replacing, at the same position.
var ErrIncompatibleDataSources = errors.New("program: incompatible data sources")
