package community

import (
	"github.com/dd0wney/cluso-sirs/pkg/contact"
	"github.com/dd0wney/cluso-sirs/pkg/model"
)

// Community is one local population: its compartment counts plus the
// contact graph for the current timestep.
//
// Counts and Graph must agree (per-label tally of the graph equals Counts)
// at the start and end of every timestep. They may diverge while Update is
// running.
type Community struct {
	Number int // 1-based position in the migration topology
	Graph  *contact.Graph
	model.Counts
}

// Node is one individual as seen by a renderer.
type Node struct {
	ID          int               `json:"id"`
	Compartment model.Compartment `json:"compartment"`
}

// Snapshot is a detached copy of a community's state.
type Snapshot struct {
	Number     int            `json:"community"`
	Counts     model.Counts   `json:"counts"`
	Population int            `json:"population"`
	Nodes      []Node         `json:"nodes"`
	Edges      []contact.Edge `json:"edges"`
}

// New creates a community seeded with one infected individual. population
// includes the seed, so the community starts with population-1 susceptible
// individuals; a population of 0 still gets its seed.
func New(rng model.Source, number, population int, contactProbability float64) (*Community, error) {
	if population < 0 {
		return nil, model.InvalidParameterError("NewCommunity", "population", "%d is negative", population)
	}
	counts := model.Counts{
		Susceptible: max(population-1, 0),
		Infected:    1,
	}
	g, err := contact.GenerateCounts(rng, counts, contactProbability)
	if err != nil {
		return nil, err
	}
	return &Community{Number: number, Graph: g, Counts: counts}, nil
}

// Population returns S+I+R.
func (c *Community) Population() int {
	return c.Counts.Total()
}

// Regenerate replaces the contact graph with a fresh random one built from
// the current counts.
func (c *Community) Regenerate(rng model.Source, contactProbability float64) error {
	g, err := contact.GenerateCounts(rng, c.Counts, contactProbability)
	if err != nil {
		return err
	}
	c.Graph = g
	return nil
}

// CheckInvariant verifies that counts are non-negative and match the graph
// label by label.
func (c *Community) CheckInvariant() error {
	if !c.Counts.NonNegative() {
		return model.InvariantError("CheckInvariant", c.Number, "negative count %s", c.Counts)
	}
	if tally := c.Graph.Tally(); tally != c.Counts {
		return model.InvariantError("CheckInvariant", c.Number, "counts %s but graph holds %s", c.Counts, tally)
	}
	return nil
}

// Snapshot copies the community's current state.
func (c *Community) Snapshot() Snapshot {
	ids := c.Graph.Nodes()
	nodes := make([]Node, 0, len(ids))
	for _, id := range ids {
		label, _ := c.Graph.Label(id)
		nodes = append(nodes, Node{ID: id, Compartment: label})
	}
	return Snapshot{
		Number:     c.Number,
		Counts:     c.Counts,
		Population: c.Population(),
		Nodes:      nodes,
		Edges:      c.Graph.Edges(),
	}
}
