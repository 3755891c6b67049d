// File: errors.go
// Role: sentinel errors for the learn package.

package learn

import "errors"

// ErrInvalidConfiguration is returned when a Config or mutator.Params
// field is out of its documented range.
var ErrInvalidConfiguration = errors.New("learn: invalid configuration")

// ErrConcurrencyViolation is returned when Config.NbThreads > 1 is
// requested against a LearningEnvironment that reports IsCopyable()
// false.
var ErrConcurrencyViolation = errors.New("learn: concurrent evaluation requested on a non-copyable environment")

// ErrSizeMismatch is returned by an EvaluationResult variant's Add when
// the two operands' vector lengths disagree.
var ErrSizeMismatch = errors.New("learn: evaluation result size mismatch")
