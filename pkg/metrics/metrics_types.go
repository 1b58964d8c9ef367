package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds all metrics for a simulation process
type Registry struct {
	// Compartment Metrics
	CompartmentIndividuals *prometheus.GaugeVec
	CommunityPopulation    *prometheus.GaugeVec
	ContactEdges           *prometheus.GaugeVec

	// Transition Metrics
	TransitionsTotal *prometheus.CounterVec

	// Engine Metrics
	Timestep            prometheus.Gauge
	StepsTotal          prometheus.Counter
	StepDuration        prometheus.Histogram
	InvariantViolations prometheus.Counter

	registry *prometheus.Registry
	mu       sync.Mutex
}

// Transition kinds used as label values
const (
	KindInfection = "infection"
	KindRecovery  = "recovery"
	KindRelapse   = "relapse"
	KindMigration = "migration"
)

var (
	// Global registry instance
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initCompartmentMetrics()
	r.initEngineMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
