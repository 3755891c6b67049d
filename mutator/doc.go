// Package mutator implements the TPG mutation operators: random TPG
// initialization (InitRandomTPG), per-generation population refill
// (PopulateTPG), team-level structural mutation (MutateTPGTeam), and
// program-level line mutation verified against an Archive
// (MutateProgramBehaviorAgainstArchive).
//
// All randomness flows through one *rand.Rand owned by the Mutator.
// Callers that parallelize the per-program uniqueness check (§5) call
// SetRandomSeed on a private Mutator clone per worker before entering
// the block, following archive.Archive's own reseed-per-block
// discipline, so parallel and sequential runs make identical decisions.
//
// Params mirrors the teacher's functional-options/validated-construction
// idiom with github.com/go-playground/validator/v10 struct tags instead
// of hand-written bound checks, and carries yaml tags so an external
// config loader (out of scope here) can unmarshal it directly.
//
// Errors:
//
//	ErrInvalidConfiguration - Params fails validation, or InitRandomTPG's
//	                          target action vector/root counts contradict
//	                          each other.
package mutator
