package graph

import (
	"slices"

	"github.com/matzehuels/zonelink/pkg/geom"
	"github.com/matzehuels/zonelink/pkg/layout"
	"github.com/matzehuels/zonelink/pkg/zones"
)

// Graph is the arena of nodes and edges. The zero value is not usable;
// call [New].
type Graph struct {
	nodes []*Node
	index map[string]*Node
	edges []Edge
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{index: make(map[string]*Node)}
}

// AddEdge stores e between start and end, creating missing nodes in that
// order. e.Start and e.End are overwritten with the zone keys. AddEdge does
// not check for an existing pair.
func (g *Graph) AddEdge(e Edge, start, end *zones.Zone) Edge {
	g.ensure(start)
	g.ensure(end)
	e.Start, e.End = start.Name, end.Name
	g.edges = append(g.edges, e)
	return e
}

func (g *Graph) ensure(z *zones.Zone) {
	if _, ok := g.index[z.Name]; ok {
		return
	}
	n := newNode(z)
	g.nodes = append(g.nodes, n)
	g.index[z.Name] = n
}

// RemoveEdge deletes the edge with the given ID, then removes each
// endpoint whose degree dropped to zero.
func (g *Graph) RemoveEdge(id string) (Edge, bool) {
	i := slices.IndexFunc(g.edges, func(e Edge) bool { return e.ID == id })
	if i < 0 {
		return Edge{}, false
	}
	e := g.edges[i]
	g.edges = slices.Delete(g.edges, i, i+1)

	for _, key := range []string{e.Start, e.End} {
		if g.Degree(key) == 0 {
			g.removeNode(key)
		}
	}
	return e, true
}

func (g *Graph) removeNode(key string) {
	if _, ok := g.index[key]; !ok {
		return
	}
	delete(g.index, key)
	g.nodes = slices.DeleteFunc(g.nodes, func(n *Node) bool { return n.Key() == key })
}

// Find returns the edge joining a and b in either direction.
func (g *Graph) Find(a, b string) (Edge, bool) {
	for _, e := range g.edges {
		if e.Connects(a, b) {
			return e, true
		}
	}
	return Edge{}, false
}

// Edge returns the edge with the given ID.
func (g *Graph) Edge(id string) (Edge, bool) {
	for _, e := range g.edges {
		if e.ID == id {
			return e, true
		}
	}
	return Edge{}, false
}

// EdgesOf returns the edges incident to key, in edge order.
func (g *Graph) EdgesOf(key string) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.Touches(key) {
			out = append(out, e)
		}
	}
	return out
}

// Degree returns the number of edges incident to key.
func (g *Graph) Degree(key string) int {
	d := 0
	for _, e := range g.edges {
		if e.Touches(key) {
			d++
		}
	}
	return d
}

// Neighbors returns the opposite endpoint of every edge incident to key,
// one entry per edge, in edge order.
func (g *Graph) Neighbors(key string) []string {
	var out []string
	for _, e := range g.edges {
		if e.Touches(key) {
			out = append(out, e.Other(key))
		}
	}
	return out
}

// NodeAt returns the first node, in node order, whose circle contains p.
func (g *Graph) NodeAt(p geom.Point) (*Node, bool) {
	for _, n := range g.nodes {
		if geom.Distance(n.Pos, p) <= n.Radius {
			return n, true
		}
	}
	return nil, false
}

// Node returns the node for key.
func (g *Graph) Node(key string) (*Node, bool) {
	n, ok := g.index[key]
	return n, ok
}

// Nodes returns the nodes in insertion order. The pointers refer to the
// arena; the slice itself is a copy.
func (g *Graph) Nodes() []*Node { return slices.Clone(g.nodes) }

// Edges returns a copy of the edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Clear removes every node and edge.
func (g *Graph) Clear() {
	g.nodes = nil
	g.edges = nil
	g.index = make(map[string]*Node)
}

// SetPosition moves the node for key. Unknown keys are ignored.
func (g *Graph) SetPosition(key string, p geom.Point) {
	if n, ok := g.index[key]; ok {
		n.Pos = p
	}
}

// Topology returns the index-based view consumed by the layout engine.
// Node i of the topology is g.Nodes()[i].
func (g *Graph) Topology() layout.Topology {
	pos := make(map[string]int, len(g.nodes))
	t := layout.Topology{
		Names:     make([]string, len(g.nodes)),
		Adjacency: make([][]int, len(g.nodes)),
		Edges:     make([][2]int, len(g.edges)),
	}
	for i, n := range g.nodes {
		t.Names[i] = n.Key()
		pos[n.Key()] = i
	}
	for i, e := range g.edges {
		s, d := pos[e.Start], pos[e.End]
		t.Edges[i] = [2]int{s, d}
		t.Adjacency[s] = append(t.Adjacency[s], d)
		t.Adjacency[d] = append(t.Adjacency[d], s)
	}
	return t
}

// ApplyPositions writes positions back in node order, as produced for
// [Graph.Topology]. Extra or missing entries are ignored.
func (g *Graph) ApplyPositions(positions []geom.Point) {
	for i, n := range g.nodes {
		if i < len(positions) {
			n.Pos = positions[i]
		}
	}
}

// Components returns the connected components as lists of node keys.
// Components appear in the order of their first node; keys within a
// component are in BFS order.
func (g *Graph) Components() [][]string {
	seen := make(map[string]bool, len(g.nodes))
	var out [][]string
	for _, n := range g.nodes {
		if seen[n.Key()] {
			continue
		}
		seen[n.Key()] = true
		comp := []string{n.Key()}
		for i := 0; i < len(comp); i++ {
			for _, nb := range g.Neighbors(comp[i]) {
				if !seen[nb] {
					seen[nb] = true
					comp = append(comp, nb)
				}
			}
		}
		out = append(out, comp)
	}
	return out
}
