// File: params.go
// Role: Params — the mutation-parameter enumeration from spec §4.H/§6,
//       validated with github.com/go-playground/validator/v10.

package mutator

import (
	"fmt"
	"math/rand"

	"github.com/go-playground/validator/v10"

	"github.com/katalvlaran/tpglearn/archive"
	"github.com/katalvlaran/tpglearn/datasrc"
)

var validate = validator.New()

// Params is the full set of Mutator configuration knobs: target root
// counts, per-team edge caps, the geometric continuation probabilities
// driving the remove/add loops, and the program-level operator
// probabilities and constant range.
type Params struct {
	NbRoots     int `yaml:"nb_roots" validate:"gt=0"`
	InitNbRoots int `yaml:"init_nb_roots" validate:"gt=0"`

	MaxInitOutgoingEdges int `yaml:"max_init_outgoing_edges" validate:"gte=2"`
	MaxOutgoingEdges     int `yaml:"max_outgoing_edges" validate:"gte=2"`

	PEdgeDeletion float64 `yaml:"p_edge_deletion" validate:"gte=0,lte=1"`
	PEdgeAddition float64 `yaml:"p_edge_addition" validate:"gte=0,lte=1"`

	PProgramMutation         float64 `yaml:"p_program_mutation" validate:"gte=0,lte=1"`
	PEdgeDestinationChange   float64 `yaml:"p_edge_destination_change" validate:"gte=0,lte=1"`
	PEdgeDestinationIsAction float64 `yaml:"p_edge_destination_is_action" validate:"gte=0,lte=1"`

	// ForceProgramBehaviorChangeOnMutation makes
	// MutateProgramBehaviorAgainstArchive keep mutating until the non-intron signature differs from the
	// pre-mutation snapshot, not merely until some line changed.
	ForceProgramBehaviorChangeOnMutation bool `yaml:"force_program_behavior_change_on_mutation"`

	// PNewProgram is the probability that an edge-program mutation
	// reinitializes from scratch instead of applying MutateProgram.
	PNewProgram float64 `yaml:"p_new_program" validate:"gte=0,lte=1"`

	MaxProgramSize int `yaml:"max_program_size" validate:"gt=0"`

	PAdd              float64 `yaml:"p_add" validate:"gte=0,lte=1"`
	PDelete           float64 `yaml:"p_delete" validate:"gte=0,lte=1"`
	PMutate           float64 `yaml:"p_mutate" validate:"gte=0,lte=1"`
	PSwap             float64 `yaml:"p_swap" validate:"gte=0,lte=1"`
	PConstantMutation float64 `yaml:"p_constant_mutation" validate:"gte=0,lte=1"`

	MinConstValue int32 `yaml:"min_const_value"`
	MaxConstValue int32 `yaml:"max_const_value" validate:"gtefield=MinConstValue"`

	// ArchiveTau is the uniqueness tolerance passed to
	// Archive.AreProgramResultsUnique. Zero means
	// archive.DefaultTolerance.
	ArchiveTau float64 `yaml:"archive_tau" validate:"gte=0"`
}

// tau returns p.ArchiveTau, or archive.DefaultTolerance if unset.
func (p Params) tau() float64 {
	if p.ArchiveTau > 0 {
		return p.ArchiveTau
	}

	return archive.DefaultTolerance
}

// Validate reports ErrInvalidConfiguration if any field is out of its
// documented range.
func (p Params) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	return nil
}

// randomConstant draws a uniform datasrc.Constant in [MinConstValue,
// MaxConstValue].
func (p Params) randomConstant(rng *rand.Rand) datasrc.Constant {
	span := int64(p.MaxConstValue) - int64(p.MinConstValue) + 1
	if span <= 0 {
		return datasrc.Constant(p.MinConstValue)
	}

	return datasrc.Constant(int64(p.MinConstValue) + rng.Int63n(span))
}
