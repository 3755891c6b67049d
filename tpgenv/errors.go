// File: errors.go
// Role: sentinel error for Environment construction.

package tpgenv

import "errors"

// ErrInvalidConfiguration is returned by New when R==0, the filtered
// instruction set is empty, the external data-source list is empty, or
// any declared data source reports a zero address space for one of its
// own declared types.
var ErrInvalidConfiguration = errors.New("tpgenv: invalid configuration")
