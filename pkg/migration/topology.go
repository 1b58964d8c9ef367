// Package migration routes individuals between the four communities.
//
// The communities are the leaves of a depth-2 binary tree:
//
//	      /\
//	     /  \
//	    /\  /\
//	   1  2 3  4
//
// A community at tree distance d is chosen with probability 1/2^d: the
// sibling with 0.5, each of the two cousins with 0.25.
package migration

import (
	"github.com/dd0wney/cluso-sirs/pkg/model"
)

// Communities is the fixed number of communities the tree is defined for.
const Communities = 4

// Cumulative thresholds for the three partner slots
const (
	SiblingThreshold = 0.5
	CousinAThreshold = 0.75
)

// Partners is one row of the topology: the distance-1 sibling and the two
// distance-2 cousins.
type Partners struct {
	Sibling int
	CousinA int
	CousinB int
}

// Topology maps a 1-based community number to its partners. It is immutable.
type Topology struct {
	partners [Communities + 1]Partners
}

// NewTopology returns the standard four-community tree.
func NewTopology() *Topology {
	return &Topology{
		partners: [Communities + 1]Partners{
			1: {Sibling: 2, CousinA: 3, CousinB: 4},
			2: {Sibling: 1, CousinA: 3, CousinB: 4},
			3: {Sibling: 4, CousinA: 1, CousinB: 2},
			4: {Sibling: 3, CousinA: 1, CousinB: 2},
		},
	}
}

// Partners returns the table row for a community.
func (t *Topology) Partners(community int) (Partners, error) {
	if community < 1 || community > Communities {
		return Partners{}, model.NewError("Partners").
			Community(community).
			Cause(model.ErrUnknownCommunity).
			Err()
	}
	return t.partners[community], nil
}

// Destination draws one sample from rng and returns where an individual
// leaving source moves to. The result is never source itself.
func (t *Topology) Destination(rng model.Source, source int) (int, error) {
	p, err := t.Partners(source)
	if err != nil {
		return 0, err
	}
	return p.pick(rng.Float64()), nil
}

func (p Partners) pick(u float64) int {
	switch {
	case u <= SiblingThreshold:
		return p.Sibling
	case u <= CousinAThreshold:
		return p.CousinA
	default:
		return p.CousinB
	}
}
