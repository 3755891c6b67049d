// File: config.go
// Role: Config — the §6 external configuration object, validated with
//       github.com/go-playground/validator/v10 and loadable from YAML
//       via gopkg.in/yaml.v3.

package learn

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/tpglearn/mutator"
)

var validate = validator.New()

// Config enumerates every knob §6 names, plus the adversarial-variant
// extension (AgentsPerEval) and the RNG seed. Mutator is validated
// automatically as a nested struct by validator.Struct.
type Config struct {
	ArchiveSize           int     `yaml:"archive_size" validate:"gte=0"`
	ArchivingProbability  float64 `yaml:"archiving_probability" validate:"gte=0,lte=1"`
	NbThreads             int     `yaml:"nb_threads" validate:"gte=1"`
	NbGenerations         int     `yaml:"nb_generations" validate:"gte=0"`
	MaxNbActionsPerEval   int     `yaml:"max_nb_actions_per_eval" validate:"gt=0"`

	NbIterationsPerPolicyEvaluation int `yaml:"nb_iterations_per_policy_evaluation" validate:"gt=0"`
	NbIterationsPerJob              int `yaml:"nb_iterations_per_job" validate:"gt=0"`
	MaxNbEvaluationPerPolicy        int `yaml:"max_nb_evaluation_per_policy" validate:"gt=0"`

	RatioDeletedRoots float64 `yaml:"ratio_deleted_roots" validate:"gte=0,lte=1"`
	NbEdgesActivable  int     `yaml:"nb_edges_activable" validate:"gte=1"`

	// AgentsPerEval is the champions-team size (including the studied
	// root) used by AdversarialAgent.makeJobs. Unused by Agent and
	// ClassificationAgent.
	AgentsPerEval int `yaml:"agents_per_eval" validate:"gte=0"`

	Seed uint64 `yaml:"seed"`

	Mutator mutator.Params `yaml:"mutator"`
}

// Validate reports ErrInvalidConfiguration if any field (including
// Mutator's, validated as a nested struct) is out of its documented
// range.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}

	return nil
}

// LoadConfigYAML decodes and validates a Config from a YAML document.
// Loading from a file path or other external source is out of scope;
// callers own the io.
func LoadConfigYAML(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}
