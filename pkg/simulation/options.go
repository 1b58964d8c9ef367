package simulation

import (
	"github.com/dd0wney/cluso-sirs/pkg/community"
	"github.com/dd0wney/cluso-sirs/pkg/logging"
	"github.com/dd0wney/cluso-sirs/pkg/metrics"
	"github.com/dd0wney/cluso-sirs/pkg/model"
)

// Option configures an Engine.
type Option func(*Engine)

// WithSeed seeds the engine's random source. Zero seeds from the clock.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
		e.rng = model.NewSource(seed)
	}
}

// WithSource injects a random source, e.g. a scripted one in tests.
func WithSource(rng model.Source) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(logger logging.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics records compartment, transition and step metrics into r.
func WithMetrics(r *metrics.Registry) Option {
	return func(e *Engine) {
		e.metrics = r
	}
}

// WithObserver registers an observer. May be given more than once.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observers = append(e.observers, o)
	}
}

// WithTopology replaces the migration router.
func WithTopology(r community.Router) Option {
	return func(e *Engine) {
		e.topology = r
	}
}
