package tpgio

import "errors"

// ErrImport is returned for any malformed input: an unknown line shape,
// a line exceeding the 1024-character limit, an out-of-range field, or
// a reference to a node or program that was never declared.
var ErrImport = errors.New("tpgio: import failed")
