package simulation

import (
	"github.com/dd0wney/cluso-sirs/pkg/community"
	"github.com/dd0wney/cluso-sirs/pkg/validation"
)

// MaxPopulation bounds the per-community population.
const MaxPopulation = 50

// Params are the scalar inputs of a run.
type Params struct {
	ContactProbability   float64 `yaml:"contact_probability" json:"contact_probability" validate:"min=0,max=1"`
	InfectionProbability float64 `yaml:"infection_probability" json:"infection_probability" validate:"min=0,max=1"`
	// RecoveryRate doubles as the Recovered→Susceptible relapse probability.
	RecoveryRate    float64 `yaml:"recovery_rate" json:"recovery_rate" validate:"min=0,max=1"`
	MoveProbability float64 `yaml:"move_probability" json:"move_probability" validate:"min=0,max=1"`
	// Population is the initial size of each community, seed infection included.
	Population int `yaml:"population" json:"population" validate:"min=0,max=50"`
	Iterations int `yaml:"iterations" json:"iterations" validate:"min=0"`
}

// Validate checks every parameter and reports all failures at once.
func (p Params) Validate() validation.Result {
	return validation.NewConfigValidator("Params").
		Struct(p).
		Probability("contact_probability", p.ContactProbability).
		Probability("infection_probability", p.InfectionProbability).
		Probability("recovery_rate", p.RecoveryRate).
		Probability("move_probability", p.MoveProbability).
		RangeInt("population", p.Population, 0, MaxPopulation).
		NonNegative("iterations", p.Iterations).
		Result()
}

func (p Params) rates() community.Rates {
	return community.Rates{
		InfectionProbability: p.InfectionProbability,
		RecoveryRate:         p.RecoveryRate,
		MoveProbability:      p.MoveProbability,
	}
}
