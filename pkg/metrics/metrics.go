package metrics

import (
	"strconv"
	"time"
)

// CommunityState is the per-community input to RecordCommunity.
type CommunityState struct {
	Number      int
	Susceptible int
	Infected    int
	Recovered   int
	Edges       int
}

// RecordCommunity sets the compartment, population and edge gauges for one community
func (r *Registry) RecordCommunity(s CommunityState) {
	community := strconv.Itoa(s.Number)
	r.CompartmentIndividuals.WithLabelValues(community, "susceptible").Set(float64(s.Susceptible))
	r.CompartmentIndividuals.WithLabelValues(community, "infected").Set(float64(s.Infected))
	r.CompartmentIndividuals.WithLabelValues(community, "recovered").Set(float64(s.Recovered))
	r.CommunityPopulation.WithLabelValues(community).Set(float64(s.Susceptible + s.Infected + s.Recovered))
	r.ContactEdges.WithLabelValues(community).Set(float64(s.Edges))
}

// RecordTransitions adds one timestep's transition tallies
func (r *Registry) RecordTransitions(infections, recoveries, relapses, migrations int) {
	r.TransitionsTotal.WithLabelValues(KindInfection).Add(float64(infections))
	r.TransitionsTotal.WithLabelValues(KindRecovery).Add(float64(recoveries))
	r.TransitionsTotal.WithLabelValues(KindRelapse).Add(float64(relapses))
	r.TransitionsTotal.WithLabelValues(KindMigration).Add(float64(migrations))
}

// RecordStep records a completed timestep
func (r *Registry) RecordStep(timestep int, duration time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.Timestep.Set(float64(timestep))
	r.StepsTotal.Inc()
	r.StepDuration.Observe(duration.Seconds())
}

// RecordInvariantViolation counts a detected bookkeeping mismatch
func (r *Registry) RecordInvariantViolation() {
	r.InvariantViolations.Inc()
}
