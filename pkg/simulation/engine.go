package simulation

import (
	"errors"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-sirs/pkg/community"
	"github.com/dd0wney/cluso-sirs/pkg/logging"
	"github.com/dd0wney/cluso-sirs/pkg/metrics"
	"github.com/dd0wney/cluso-sirs/pkg/migration"
	"github.com/dd0wney/cluso-sirs/pkg/model"
)

// Communities is the fixed number of communities in a run.
const Communities = migration.Communities

// ErrEngineHalted is returned by Step once a previous step failed.
var ErrEngineHalted = errors.New("engine halted after a failed step")

// Engine owns the four communities of a run and advances them one timestep
// at a time. It is not safe for concurrent use.
type Engine struct {
	params      Params
	communities []*community.Community
	topology    community.Router
	rng         model.Source
	seed        int64

	logger    logging.Logger
	metrics   *metrics.Registry
	observers []Observer

	runID    string
	timestep int
	history  []GlobalSnapshot
	last     community.Transitions
	halted   error
}

// New validates params, builds the communities (each with one seed
// infection) and emits the timestep-0 frame.
func New(params Params, opts ...Option) (*Engine, error) {
	if err := params.Validate().Err("Params"); err != nil {
		return nil, model.NewError("New").Cause(err).Err()
	}

	e := &Engine{
		params:   params,
		topology: migration.NewTopology(),
		logger:   logging.NewNopLogger(),
		runID:    uuid.NewString(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = model.NewSource(e.seed)
	}
	e.logger = e.logger.With(logging.Component("engine"), logging.RunID(e.runID))

	e.communities = make([]*community.Community, 0, Communities)
	for n := 1; n <= Communities; n++ {
		c, err := community.New(e.rng, n, params.Population, params.ContactProbability)
		if err != nil {
			return nil, model.NewError("New").Community(n).Timestep(0).Cause(err).Err()
		}
		e.communities = append(e.communities, c)
	}

	initial := e.aggregate(0)
	e.history = append(e.history, initial)

	e.logger.Info("simulation initialized",
		logging.Int("population", params.Population),
		logging.Float64("contact_probability", params.ContactProbability),
		logging.Float64("infection_probability", params.InfectionProbability),
		logging.Float64("recovery_rate", params.RecoveryRate),
		logging.Float64("move_probability", params.MoveProbability),
		logging.Susceptible(initial.Susceptible),
		logging.Infected(initial.Infected),
	)
	e.record()
	e.notify()

	return e, nil
}

// Step runs one timestep: update every community in order 1..4, verify the
// bookkeeping, regenerate every contact graph from the new counts, and
// append the global totals to the history.
//
// Migrants are written into their destination while the pass is still
// running, so a community updated later in the pass processes arrivals from
// earlier ones in the same step. The result therefore depends on the fixed
// update order.
func (e *Engine) Step() (GlobalSnapshot, error) {
	if e.halted != nil {
		return GlobalSnapshot{}, model.NewError("Step").Timestep(e.timestep + 1).Cause(errors.Join(ErrEngineHalted, e.halted)).Err()
	}

	t := e.timestep + 1
	timer := logging.StartTimer(e.logger, "step complete", logging.Timestep(t))

	var total community.Transitions
	for i := range e.communities {
		tr, err := community.Update(e.communities, i, e.params.rates(), e.topology, e.rng)
		if err != nil {
			return GlobalSnapshot{}, e.halt(t, e.communities[i].Number, err)
		}
		total.Add(tr)
	}

	if err := e.checkInvariants(t); err != nil {
		return GlobalSnapshot{}, err
	}

	for _, c := range e.communities {
		if err := c.Regenerate(e.rng, e.params.ContactProbability); err != nil {
			return GlobalSnapshot{}, e.halt(t, c.Number, err)
		}
	}

	if err := e.checkInvariants(t); err != nil {
		return GlobalSnapshot{}, err
	}

	snap := e.aggregate(t)
	e.timestep = t
	e.last = total
	e.history = append(e.history, snap)

	if e.logger.Enabled(logging.DebugLevel) {
		for _, c := range e.communities {
			e.logger.Debug("community state",
				logging.Timestep(t),
				logging.Community(c.Number),
				logging.Susceptible(c.Susceptible),
				logging.Infected(c.Infected),
				logging.Recovered(c.Recovered),
				logging.Int("edges", c.Graph.EdgeCount()),
			)
		}
	}
	elapsed := timer.End(
		logging.Susceptible(snap.Susceptible),
		logging.Infected(snap.Infected),
		logging.Recovered(snap.Recovered),
		logging.Int("migrated", total.Migrated),
	)

	if e.metrics != nil {
		e.metrics.RecordTransitions(total.Infected, total.Recovered, total.Relapsed, total.Migrated)
		e.metrics.RecordStep(t, elapsed)
	}
	e.record()
	e.notify()

	return snap, nil
}

// Run executes iterations steps and returns the full history, whose first
// entry is the initial state. On error the history up to the failure is
// returned with it.
func (e *Engine) Run(iterations int) ([]GlobalSnapshot, error) {
	if iterations < 0 {
		return e.History(), model.InvalidParameterError("Run", "iterations", "%d is negative", iterations)
	}
	for i := 0; i < iterations; i++ {
		if _, err := e.Step(); err != nil {
			return e.History(), err
		}
	}
	e.logger.Info("simulation finished",
		logging.Timestep(e.timestep),
		logging.Count(iterations),
	)
	return e.History(), nil
}

// RunID identifies this run in logs and frames.
func (e *Engine) RunID() string {
	return e.runID
}

// Params returns the parameters the engine was built with.
func (e *Engine) Params() Params {
	return e.params
}

// Timestep returns the index of the latest completed timestep.
func (e *Engine) Timestep() int {
	return e.timestep
}

// History returns a copy of the global time series.
func (e *Engine) History() []GlobalSnapshot {
	out := make([]GlobalSnapshot, len(e.history))
	copy(out, e.history)
	return out
}

// Communities returns detached snapshots of every community, in order.
func (e *Engine) Communities() []community.Snapshot {
	out := make([]community.Snapshot, 0, len(e.communities))
	for _, c := range e.communities {
		out = append(out, c.Snapshot())
	}
	return out
}

// Frame returns the current frame.
func (e *Engine) Frame() Frame {
	return Frame{
		RunID:       e.runID,
		Global:      e.history[len(e.history)-1],
		Communities: e.Communities(),
		Transitions: e.last,
	}
}

func (e *Engine) aggregate(t int) GlobalSnapshot {
	snap := GlobalSnapshot{Timestep: t}
	for _, c := range e.communities {
		snap.Counts = snap.Counts.Plus(c.Counts)
	}
	return snap
}

func (e *Engine) checkInvariants(t int) error {
	for _, c := range e.communities {
		if err := c.CheckInvariant(); err != nil {
			if e.metrics != nil {
				e.metrics.RecordInvariantViolation()
			}
			return e.halt(t, c.Number, err)
		}
	}
	return nil
}

// halt stops the engine for good. Every failure inside a step leaves the
// communities half-updated, so nothing after it can be trusted.
func (e *Engine) halt(t, communityNumber int, cause error) error {
	err := model.NewError("Step").Timestep(t).Community(communityNumber).Cause(cause).Err()
	e.halted = err
	e.logger.Error("simulation halted", logging.Timestep(t), logging.Community(communityNumber), logging.Error(cause))
	return err
}

func (e *Engine) record() {
	if e.metrics == nil {
		return
	}
	for _, c := range e.communities {
		e.metrics.RecordCommunity(metrics.CommunityState{
			Number:      c.Number,
			Susceptible: c.Susceptible,
			Infected:    c.Infected,
			Recovered:   c.Recovered,
			Edges:       c.Graph.EdgeCount(),
		})
	}
}

func (e *Engine) notify() {
	if len(e.observers) == 0 {
		return
	}
	frame := e.Frame()
	for _, o := range e.observers {
		o.Observe(frame)
	}
}
