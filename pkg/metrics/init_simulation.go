package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initCompartmentMetrics() {
	r.CompartmentIndividuals = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sirs_compartment_individuals",
			Help: "Individuals per community and compartment after the latest timestep",
		},
		[]string{"community", "compartment"},
	)

	r.CommunityPopulation = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sirs_community_population",
			Help: "Total individuals per community after the latest timestep",
		},
		[]string{"community"},
	)

	r.ContactEdges = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "sirs_contact_edges",
			Help: "Edges in each community's current contact graph",
		},
		[]string{"community"},
	)

	r.TransitionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "sirs_transitions_total",
			Help: "Individual state transitions by kind",
		},
		[]string{"kind"},
	)
}

func (r *Registry) initEngineMetrics() {
	r.Timestep = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "sirs_timestep",
			Help: "Index of the latest completed timestep",
		},
	)

	r.StepsTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "sirs_steps_total",
			Help: "Total number of timesteps executed",
		},
	)

	r.StepDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "sirs_step_duration_seconds",
			Help:    "Wall time of one timestep including graph regeneration",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	r.InvariantViolations = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "sirs_invariant_violations_total",
			Help: "Compartment bookkeeping mismatches detected (each one halts the run)",
		},
	)
}
