// File: errors.go
// Role: sentinel errors for the datasrc package.
// Policy: only package-level sentinels are exposed; callers use errors.Is.

package datasrc

import "errors"

// ErrOutOfRange indicates Get was called with an address outside the
// handler's address space for the requested Type.
var ErrOutOfRange = errors.New("datasrc: address out of range")

// ErrTypeMismatch indicates Get was called with a Type the handler does
// not declare in its TypeSet.
var ErrTypeMismatch = errors.New("datasrc: type mismatch")
