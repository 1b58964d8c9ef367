package community

import (
	"github.com/dd0wney/cluso-sirs/pkg/contact"
	"github.com/dd0wney/cluso-sirs/pkg/model"
)

// Rates are the per-timestep transition probabilities.
type Rates struct {
	InfectionProbability float64
	// RecoveryRate is used for both Infected→Recovered and Recovered→Susceptible.
	RecoveryRate    float64
	MoveProbability float64
}

// Router picks where a migrating individual goes.
type Router interface {
	Destination(rng model.Source, source int) (int, error)
}

// Transitions tallies what happened to one community during Update.
type Transitions struct {
	Migrated  int `json:"migrated"`
	Recovered int `json:"recovered"`
	Relapsed  int `json:"relapsed"`
	Infected  int `json:"infected"`
}

// Add accumulates o into t.
func (t *Transitions) Add(o Transitions) {
	t.Migrated += o.Migrated
	t.Recovered += o.Recovered
	t.Relapsed += o.Relapsed
	t.Infected += o.Infected
}

// Update advances communities[index] by one timestep.
//
// Each individual gets exactly one of, in this order:
//
//  1. migration with MoveProbability: a copy with the same label is added to
//     the destination graph right away and the destination's counter bumped;
//     the source node is removed after the scan
//  2. recovery (infected only) with RecoveryRate, applied immediately
//  3. relapse (recovered only) with RecoveryRate, applied immediately
//  4. infection (susceptible only): each infected neighbour, in ascending id
//     order, gets one InfectionProbability draw; the first success stages
//     the infection and ends the scan
//
// Staged infections are applied after the scan, so no one infected this
// step can pass it on during the same step. Because migrants land in other
// communities immediately, communities updated later in a pass see their
// new arrivals during their own update.
//
// The graph is left stale; the caller regenerates it.
func Update(communities []*Community, index int, rates Rates, router Router, rng model.Source) (Transitions, error) {
	var tr Transitions
	if index < 0 || index >= len(communities) {
		return tr, model.NewError("Update").Context("index %d of %d", index, len(communities)).Cause(model.ErrUnknownCommunity).Err()
	}
	if err := rates.validate(); err != nil {
		return tr, err
	}

	c := communities[index]
	g := c.Graph

	var (
		leaving  []int
		infected []int
	)

	for _, id := range g.Nodes() {
		label, _ := g.Label(id)

		if rng.Float64() < rates.MoveProbability {
			dest, err := router.Destination(rng, c.Number)
			if err != nil {
				return tr, err
			}
			target := lookup(communities, dest)
			if target == nil {
				return tr, model.NewError("Update").Community(dest).Cause(model.ErrUnknownCommunity).Err()
			}
			target.Graph.AddNode(label)
			target.Counts.Add(label, 1)
			leaving = append(leaving, id)
			tr.Migrated++
			continue
		}

		switch label {
		case model.Infected:
			if rng.Float64() < rates.RecoveryRate {
				g.SetLabel(id, model.Recovered)
				c.Counts.Infected--
				c.Counts.Recovered++
				tr.Recovered++
			}
		case model.Recovered:
			if rng.Float64() < rates.RecoveryRate {
				g.SetLabel(id, model.Susceptible)
				c.Counts.Recovered--
				c.Counts.Susceptible++
				tr.Relapsed++
			}
		case model.Susceptible:
			if exposed(g, id, rates.InfectionProbability, rng) {
				infected = append(infected, id)
			}
		}
	}

	for _, id := range infected {
		g.SetLabel(id, model.Infected)
		c.Counts.Susceptible--
		c.Counts.Infected++
		tr.Infected++
	}

	for _, id := range leaving {
		label, _ := g.Label(id)
		c.Counts.Add(label, -1)
		g.RemoveNode(id)
	}

	return tr, nil
}

// exposed reports whether a susceptible node catches the infection from one
// of its infected neighbours. At most one success is drawn.
func exposed(g *contact.Graph, id int, p float64, rng model.Source) bool {
	for _, n := range g.Neighbors(id) {
		if label, _ := g.Label(n); label != model.Infected {
			continue
		}
		if rng.Float64() < p {
			return true
		}
	}
	return false
}

func lookup(communities []*Community, number int) *Community {
	for _, c := range communities {
		if c.Number == number {
			return c
		}
	}
	return nil
}

func (r Rates) validate() error {
	switch {
	case !model.ValidProbability(r.InfectionProbability):
		return model.InvalidParameterError("Update", "infectionProbability", "%v outside [0,1]", r.InfectionProbability)
	case !model.ValidProbability(r.RecoveryRate):
		return model.InvalidParameterError("Update", "recoveryRate", "%v outside [0,1]", r.RecoveryRate)
	case !model.ValidProbability(r.MoveProbability):
		return model.InvalidParameterError("Update", "moveProbability", "%v outside [0,1]", r.MoveProbability)
	}
	return nil
}
