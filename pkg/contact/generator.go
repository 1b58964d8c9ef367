package contact

import (
	"github.com/dd0wney/cluso-sirs/pkg/model"
)

// Generate builds an Erdős–Rényi G(N, p) contact graph for a community with
// the given compartment counts.
//
// Nodes 0..N-1 are labelled in three contiguous blocks: susceptible, then
// infected, then recovered. Every unordered pair (i, j), i < j, is visited in
// ascending order and connected when a fresh draw from rng is below p. The
// labelling order only matters at generation time; callers keep their own
// counts and never read them back from the topology.
func Generate(rng model.Source, susceptible, infected, recovered int, p float64) (*Graph, error) {
	if !model.ValidProbability(p) {
		return nil, model.InvalidParameterError("Generate", "contactProbability", "%v outside [0,1]", p)
	}
	counts := model.Counts{Susceptible: susceptible, Infected: infected, Recovered: recovered}
	if !counts.NonNegative() {
		return nil, model.InvalidParameterError("Generate", "counts", "negative count %s", counts)
	}

	n := counts.Total()
	g := NewGraph()
	for i := 0; i < n; i++ {
		switch {
		case i < susceptible:
			g.AddNode(model.Susceptible)
		case i < susceptible+infected:
			g.AddNode(model.Infected)
		default:
			g.AddNode(model.Recovered)
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if rng.Float64() < p {
				g.AddEdge(i, j)
			}
		}
	}

	return g, nil
}

// GenerateCounts is Generate taking a Counts value.
func GenerateCounts(rng model.Source, c model.Counts, p float64) (*Graph, error) {
	return Generate(rng, c.Susceptible, c.Infected, c.Recovered, p)
}
