package simulation

import (
	"github.com/dd0wney/cluso-sirs/pkg/community"
	"github.com/dd0wney/cluso-sirs/pkg/model"
)

// GlobalSnapshot is the S/I/R total over all communities at one timestep.
type GlobalSnapshot struct {
	Timestep int `json:"timestep"`
	model.Counts
}

// Frame is everything a renderer needs for one timestep.
type Frame struct {
	RunID       string               `json:"run_id"`
	Global      GlobalSnapshot       `json:"global"`
	Communities []community.Snapshot `json:"communities"`
	// Transitions is zero for the initial frame.
	Transitions community.Transitions `json:"transitions"`
}

// Observer receives a frame after initialization and after every step.
// Observers run synchronously on the engine's goroutine.
type Observer interface {
	Observe(Frame)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Frame)

// Observe calls f(frame).
func (f ObserverFunc) Observe(frame Frame) {
	f(frame)
}
