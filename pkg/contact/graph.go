package contact

import (
	"slices"

	"github.com/dd0wney/cluso-sirs/pkg/model"
)

// Graph is an undirected contact graph over one community's individuals.
// Each node carries a compartment label. Node ids are never reused within a
// graph: AddNode always hands out an id above every id seen so far.
//
// Graph is not safe for concurrent use.
type Graph struct {
	labels    map[int]model.Compartment
	adjacency map[int]map[int]struct{}
	edges     int
	nextID    int
}

// Edge is an undirected edge with From < To.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{
		labels:    make(map[int]model.Compartment),
		adjacency: make(map[int]map[int]struct{}),
	}
}

// AddNode inserts a node with the given label and returns its id.
func (g *Graph) AddNode(label model.Compartment) int {
	id := g.nextID
	g.nextID++
	g.labels[id] = label
	g.adjacency[id] = make(map[int]struct{})
	return id
}

// RemoveNode deletes a node and its incident edges. It reports whether the
// node existed.
func (g *Graph) RemoveNode(id int) bool {
	adj, ok := g.adjacency[id]
	if !ok {
		return false
	}
	for other := range adj {
		delete(g.adjacency[other], id)
		g.edges--
	}
	delete(g.adjacency, id)
	delete(g.labels, id)
	return true
}

// AddEdge connects a and b. Self-loops, duplicates and unknown endpoints are
// ignored; the return value reports whether an edge was added.
func (g *Graph) AddEdge(a, b int) bool {
	if a == b {
		return false
	}
	adjA, okA := g.adjacency[a]
	adjB, okB := g.adjacency[b]
	if !okA || !okB {
		return false
	}
	if _, dup := adjA[b]; dup {
		return false
	}
	adjA[b] = struct{}{}
	adjB[a] = struct{}{}
	g.edges++
	return true
}

// HasEdge reports whether a and b are in contact
func (g *Graph) HasEdge(a, b int) bool {
	_, ok := g.adjacency[a][b]
	return ok
}

// HasNode reports whether id is present
func (g *Graph) HasNode(id int) bool {
	_, ok := g.labels[id]
	return ok
}

// Label returns a node's compartment.
func (g *Graph) Label(id int) (model.Compartment, bool) {
	c, ok := g.labels[id]
	return c, ok
}

// SetLabel changes a node's compartment. It reports whether the node exists.
func (g *Graph) SetLabel(id int, label model.Compartment) bool {
	if _, ok := g.labels[id]; !ok {
		return false
	}
	g.labels[id] = label
	return true
}

// Nodes returns all node ids in ascending order.
func (g *Graph) Nodes() []int {
	ids := make([]int, 0, len(g.labels))
	for id := range g.labels {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Neighbors returns the neighbours of id in ascending order.
func (g *Graph) Neighbors(id int) []int {
	adj := g.adjacency[id]
	out := make([]int, 0, len(adj))
	for n := range adj {
		out = append(out, n)
	}
	slices.Sort(out)
	return out
}

// Degree returns the number of contacts of id.
func (g *Graph) Degree(id int) int {
	return len(g.adjacency[id])
}

// NodeCount returns the number of nodes
func (g *Graph) NodeCount() int {
	return len(g.labels)
}

// EdgeCount returns the number of undirected edges
func (g *Graph) EdgeCount() int {
	return g.edges
}

// Edges returns every edge once, sorted by (From, To).
func (g *Graph) Edges() []Edge {
	out := make([]Edge, 0, g.edges)
	for _, a := range g.Nodes() {
		for _, b := range g.Neighbors(a) {
			if a < b {
				out = append(out, Edge{From: a, To: b})
			}
		}
	}
	return out
}

// Tally counts nodes per compartment label.
func (g *Graph) Tally() model.Counts {
	var c model.Counts
	for _, label := range g.labels {
		c.Add(label, 1)
	}
	return c
}

// Clone returns a deep copy, including the id allocator state.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		labels:    make(map[int]model.Compartment, len(g.labels)),
		adjacency: make(map[int]map[int]struct{}, len(g.adjacency)),
		edges:     g.edges,
		nextID:    g.nextID,
	}
	for id, label := range g.labels {
		out.labels[id] = label
	}
	for id, adj := range g.adjacency {
		cp := make(map[int]struct{}, len(adj))
		for n := range adj {
			cp[n] = struct{}{}
		}
		out.adjacency[id] = cp
	}
	return out
}
