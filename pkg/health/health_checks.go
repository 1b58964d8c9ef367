package health

import (
	"sync"
)

// Progress tracks a run from the stepping goroutine so HTTP handlers can
// read it without touching the engine.
type Progress struct {
	mu         sync.RWMutex
	runID      string
	timestep   int
	iterations int
	started    bool
	err        error
}

// NewProgress tracks a run of the given length.
func NewProgress(iterations int) *Progress {
	return &Progress{iterations: iterations}
}

// Advance records the latest completed timestep of run runID.
func (p *Progress) Advance(runID string, timestep int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runID = runID
	p.timestep = timestep
	p.started = true
}

// Fail records the error that halted the run.
func (p *Progress) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

// Finished reports whether every timestep has completed.
func (p *Progress) Finished() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.started && p.timestep >= p.iterations
}

// EngineCheck is unhealthy once the engine has halted.
func (p *Progress) EngineCheck() CheckFunc {
	return func() Check {
		p.mu.RLock()
		defer p.mu.RUnlock()

		check := Check{
			Name: "engine",
			Details: map[string]any{
				"run_id":     p.runID,
				"timestep":   p.timestep,
				"iterations": p.iterations,
			},
		}
		if p.err != nil {
			check.Status = StatusUnhealthy
			check.Message = p.err.Error()
		} else {
			check.Status = StatusHealthy
			check.Message = "running"
		}
		return check
	}
}

// InitializedCheck is ready once the initial frame has been produced.
func (p *Progress) InitializedCheck() CheckFunc {
	return func() Check {
		p.mu.RLock()
		defer p.mu.RUnlock()

		if !p.started {
			return Check{Name: "initialized", Status: StatusUnhealthy, Message: "engine not initialized"}
		}
		if p.err != nil {
			return Check{Name: "initialized", Status: StatusDegraded, Message: "run halted"}
		}
		return Check{Name: "initialized", Status: StatusHealthy}
	}
}
