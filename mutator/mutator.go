// File: mutator.go
// Role: Mutator — owns one RNG stream and the Params driving every
//       structural and program mutation over a *tpg.Graph.

package mutator

import (
	"math/rand"

	"github.com/katalvlaran/tpglearn/tpgenv"
)

// Mutator evolves a TPG generation-to-generation. It holds no graph
// state of its own — every method takes the *tpg.Graph to mutate — so
// one Mutator (or one per-worker clone, via SetRandomSeed) can drive
// many graphs sharing the same Environment and Params.
type Mutator struct {
	env    *tpgenv.Environment
	rng    *rand.Rand
	params Params
}

// New returns a Mutator over env and params, seeded with seed. Fails
// ErrInvalidConfiguration if params does not validate.
func New(env *tpgenv.Environment, params Params, seed uint64) (*Mutator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	return &Mutator{env: env, rng: rand.New(rand.NewSource(int64(seed))), params: params}, nil
}

// SetRandomSeed resets the Mutator's RNG. Callers parallelizing the
// per-program uniqueness step (§5) give each worker its own Mutator
// (constructed by New sharing the same env/params) and reseed it here
// from a seed drawn by the agent's own RNG before the worker starts, so
// parallel and sequential runs make identical mutation decisions.
func (m *Mutator) SetRandomSeed(seed uint64) {
	m.rng = rand.New(rand.NewSource(int64(seed)))
}

// Params returns the Mutator's configuration.
func (m *Mutator) Params() Params { return m.params }
