package community

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dd0wney/cluso-sirs/pkg/contact"
	"github.com/dd0wney/cluso-sirs/pkg/migration"
	"github.com/dd0wney/cluso-sirs/pkg/model"
)

// sequenceSource replays fixed draws, then repeats the last one.
type sequenceSource struct {
	draws []float64
	pos   int
}

func (s *sequenceSource) Float64() float64 {
	if s.pos >= len(s.draws) {
		return s.draws[len(s.draws)-1]
	}
	v := s.draws[s.pos]
	s.pos++
	return v
}

// fixedRouter sends every migrant to the same community.
type fixedRouter int

func (f fixedRouter) Destination(model.Source, int) (int, error) { return int(f), nil }

// buildCommunity creates a community with explicit labels and edges.
func buildCommunity(t *testing.T, number int, labels []model.Compartment, edges [][2]int) *Community {
	t.Helper()

	g := contact.NewGraph()
	var counts model.Counts
	for _, l := range labels {
		g.AddNode(l)
		counts.Add(l, 1)
	}
	for _, e := range edges {
		require.True(t, g.AddEdge(e[0], e[1]), "edge %v", e)
	}
	return &Community{Number: number, Graph: g, Counts: counts}
}

func TestNew_SeedsOneInfection(t *testing.T) {
	tests := []struct {
		population int
		want       model.Counts
	}{
		{10, model.Counts{Susceptible: 9, Infected: 1}},
		{1, model.Counts{Susceptible: 0, Infected: 1}},
		{0, model.Counts{Susceptible: 0, Infected: 1}},
	}

	for _, tt := range tests {
		c, err := New(rand.New(rand.NewSource(1)), 2, tt.population, 0.3)
		require.NoError(t, err)
		assert.Equal(t, tt.want, c.Counts)
		assert.Equal(t, 2, c.Number)
		assert.NoError(t, c.CheckInvariant())
	}

	_, err := New(rand.New(rand.NewSource(1)), 1, -1, 0.3)
	assert.True(t, model.IsInvalidParameter(err))
}

func TestUpdate_CompleteGraphInfectsEveryone(t *testing.T) {
	labels := []model.Compartment{model.Infected}
	for i := 0; i < 9; i++ {
		labels = append(labels, model.Susceptible)
	}
	var edges [][2]int
	for i := 0; i < 10; i++ {
		for j := i + 1; j < 10; j++ {
			edges = append(edges, [2]int{i, j})
		}
	}
	c := buildCommunity(t, 1, labels, edges)

	tr, err := Update([]*Community{c}, 0, Rates{InfectionProbability: 1}, migration.NewTopology(), rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	assert.Equal(t, model.Counts{Infected: 10}, c.Counts)
	assert.Equal(t, 9, tr.Infected)
	assert.NoError(t, c.CheckInvariant())
}

func TestUpdate_InfectionIsStaged(t *testing.T) {
	// 0(I) - 1(S) - 2(S): node 2 must not catch it from node 1 in the same step
	c := buildCommunity(t, 1,
		[]model.Compartment{model.Infected, model.Susceptible, model.Susceptible},
		[][2]int{{0, 1}, {1, 2}},
	)

	_, err := Update([]*Community{c}, 0, Rates{InfectionProbability: 1}, migration.NewTopology(), rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	assert.Equal(t, model.Counts{Susceptible: 1, Infected: 2}, c.Counts)
	label, _ := c.Graph.Label(2)
	assert.Equal(t, model.Susceptible, label)
}

func TestUpdate_OneInfectionDrawAtMost(t *testing.T) {
	labels := []model.Compartment{model.Infected, model.Infected, model.Susceptible}
	edges := [][2]int{{0, 2}, {1, 2}}
	rates := Rates{InfectionProbability: 0.5}

	t.Run("first neighbour succeeds", func(t *testing.T) {
		c := buildCommunity(t, 1, labels, edges)
		// node0: move, recover; node1: move, recover; node2: move, neighbour 0
		src := &sequenceSource{draws: []float64{0.9, 0.9, 0.9, 0.9, 0.9, 0.1, 0.1}}

		tr, err := Update([]*Community{c}, 0, rates, migration.NewTopology(), src)
		require.NoError(t, err)
		assert.Equal(t, 1, tr.Infected)
		assert.Equal(t, 6, src.pos, "scan must stop after the first success")
	})

	t.Run("second neighbour succeeds", func(t *testing.T) {
		c := buildCommunity(t, 1, labels, edges)
		src := &sequenceSource{draws: []float64{0.9, 0.9, 0.9, 0.9, 0.9, 0.9, 0.1, 0.9}}

		tr, err := Update([]*Community{c}, 0, rates, migration.NewTopology(), src)
		require.NoError(t, err)
		assert.Equal(t, 1, tr.Infected)
		assert.Equal(t, 7, src.pos)
	})

	t.Run("both fail", func(t *testing.T) {
		c := buildCommunity(t, 1, labels, edges)
		src := &sequenceSource{draws: []float64{0.9}}

		tr, err := Update([]*Community{c}, 0, rates, migration.NewTopology(), src)
		require.NoError(t, err)
		assert.Zero(t, tr.Infected)
		assert.Equal(t, model.Counts{Susceptible: 1, Infected: 2}, c.Counts)
	})
}

func TestUpdate_RecoveryAndRelapse(t *testing.T) {
	c := buildCommunity(t, 1,
		[]model.Compartment{model.Infected, model.Recovered, model.Recovered, model.Susceptible},
		nil,
	)

	tr, err := Update([]*Community{c}, 0, Rates{RecoveryRate: 1}, migration.NewTopology(), rand.New(rand.NewSource(9)))
	require.NoError(t, err)

	assert.Equal(t, 1, tr.Recovered)
	assert.Equal(t, 2, tr.Relapsed)
	assert.Equal(t, model.Counts{Susceptible: 3, Infected: 0, Recovered: 1}, c.Counts)
	assert.NoError(t, c.CheckInvariant())
}

func TestUpdate_MigrationMovesLabels(t *testing.T) {
	src := buildCommunity(t, 1,
		[]model.Compartment{model.Susceptible, model.Infected, model.Recovered},
		[][2]int{{0, 1}},
	)
	dst := buildCommunity(t, 2, []model.Compartment{model.Susceptible}, nil)
	communities := []*Community{src, dst}

	tr, err := Update(communities, 0, Rates{MoveProbability: 1}, fixedRouter(2), rand.New(rand.NewSource(11)))
	require.NoError(t, err)

	assert.Equal(t, 3, tr.Migrated)
	assert.Equal(t, model.Counts{}, src.Counts)
	assert.Zero(t, src.Graph.NodeCount())
	assert.Equal(t, model.Counts{Susceptible: 2, Infected: 1, Recovered: 1}, dst.Counts)
	assert.NoError(t, src.CheckInvariant())
	assert.NoError(t, dst.CheckInvariant())

	// arrivals get fresh ids in the destination
	assert.Equal(t, []int{0, 1, 2, 3}, dst.Graph.Nodes())
}

func TestUpdate_ArrivalsProcessedByLaterCommunity(t *testing.T) {
	first := buildCommunity(t, 1, []model.Compartment{model.Infected}, nil)
	second := buildCommunity(t, 2, []model.Compartment{model.Recovered}, nil)
	communities := []*Community{first, second}

	// the infected individual moves into community 2
	_, err := Update(communities, 0, Rates{MoveProbability: 1}, fixedRouter(2), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	require.Equal(t, model.Counts{Infected: 1, Recovered: 1}, second.Counts)

	// community 2 now recovers the arrival during its own update
	tr, err := Update(communities, 1, Rates{RecoveryRate: 1}, fixedRouter(1), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 1, tr.Recovered)
	assert.Equal(t, 1, tr.Relapsed)
	assert.Equal(t, model.Counts{Susceptible: 1, Recovered: 1}, second.Counts)
}

func TestUpdate_RejectsBadInput(t *testing.T) {
	c := buildCommunity(t, 1, []model.Compartment{model.Susceptible}, nil)
	rng := rand.New(rand.NewSource(1))

	_, err := Update([]*Community{c}, 3, Rates{}, migration.NewTopology(), rng)
	assert.ErrorIs(t, err, model.ErrUnknownCommunity)

	_, err = Update([]*Community{c}, 0, Rates{MoveProbability: 1.2}, migration.NewTopology(), rng)
	assert.True(t, model.IsInvalidParameter(err))

	_, err = Update([]*Community{c}, 0, Rates{MoveProbability: 1}, fixedRouter(4), rng)
	assert.ErrorIs(t, err, model.ErrUnknownCommunity)
}

func TestCheckInvariant(t *testing.T) {
	c := buildCommunity(t, 3, []model.Compartment{model.Susceptible, model.Infected}, nil)
	require.NoError(t, c.CheckInvariant())

	c.Counts.Infected = 2
	err := c.CheckInvariant()
	assert.True(t, model.IsInvariantViolation(err))

	c.Counts = model.Counts{Susceptible: 2, Infected: -1}
	assert.True(t, model.IsInvariantViolation(c.CheckInvariant()))
}

func TestSnapshot_IsDetached(t *testing.T) {
	c := buildCommunity(t, 4,
		[]model.Compartment{model.Susceptible, model.Infected},
		[][2]int{{0, 1}},
	)
	snap := c.Snapshot()
	c.Graph.SetLabel(0, model.Recovered)

	assert.Equal(t, 4, snap.Number)
	assert.Equal(t, 2, snap.Population)
	assert.Equal(t, model.Susceptible, snap.Nodes[0].Compartment)
	assert.Equal(t, []contact.Edge{{From: 0, To: 1}}, snap.Edges)
}
