package graph

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/zonelink/pkg/geom"
	"github.com/matzehuels/zonelink/pkg/layout"
	"github.com/matzehuels/zonelink/pkg/zones"
)

func zone(name string) *zones.Zone {
	return &zones.Zone{Name: name, Color: zones.ColorBlue, Tier: "T6"}
}

// build adds one edge per "a-b" pair, with IDs e0, e1, ...
func build(t *testing.T, pairs ...string) *Graph {
	t.Helper()
	g := New()
	known := map[string]*zones.Zone{}
	get := func(name string) *zones.Zone {
		if z, ok := known[name]; ok {
			return z
		}
		known[name] = zone(name)
		return known[name]
	}
	for i, p := range pairs {
		a, b, ok := strings.Cut(p, "-")
		if !ok {
			t.Fatalf("bad pair %q", p)
		}
		g.AddEdge(Edge{ID: "e" + string(rune('0'+i)), Category: Gold}, get(a), get(b))
	}
	return g
}

func keys(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Key()
	}
	return out
}

func TestAddEdgeCreatesNodesInOrder(t *testing.T) {
	g := build(t, "B-A", "A-C")

	if got, want := keys(g.Nodes()), []string{"B", "A", "C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("nodes = %v, want %v", got, want)
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", g.EdgeCount())
	}
	n, _ := g.Node("C")
	if n.Pos != layout.Unplaced {
		t.Errorf("new node at %v, want Unplaced", n.Pos)
	}
	if n.Radius != DefaultRadius {
		t.Errorf("Radius = %v, want %v", n.Radius, DefaultRadius)
	}
}

func TestRemoveEdgeCascade(t *testing.T) {
	tests := []struct {
		name      string
		pairs     []string
		remove    string
		wantNodes []string
	}{
		{"both endpoints orphaned", []string{"A-B"}, "e0", nil},
		{"start orphaned", []string{"A-B", "B-C"}, "e0", []string{"B", "C"}},
		{"end orphaned", []string{"A-B", "A-C"}, "e0", []string{"A", "C"}},
		{"nobody orphaned", []string{"A-B", "B-C", "C-A"}, "e0", []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := build(t, tt.pairs...)
			if _, ok := g.RemoveEdge(tt.remove); !ok {
				t.Fatalf("RemoveEdge(%q) = false", tt.remove)
			}
			got := keys(g.Nodes())
			if len(got) == 0 {
				got = nil
			}
			if !reflect.DeepEqual(got, tt.wantNodes) {
				t.Errorf("nodes = %v, want %v", got, tt.wantNodes)
			}
			for _, n := range g.Nodes() {
				if g.Degree(n.Key()) == 0 {
					t.Errorf("node %s left with degree 0", n.Key())
				}
			}
			if _, ok := g.Node("A"); ok != contains(tt.wantNodes, "A") {
				t.Errorf("index out of sync for A")
			}
		})
	}
}

func contains(s []string, v string) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}

func TestRemoveEdgeUnknown(t *testing.T) {
	g := build(t, "A-B")
	if _, ok := g.RemoveEdge("nope"); ok {
		t.Error("RemoveEdge of unknown ID should report false")
	}
	if g.NodeCount() != 2 {
		t.Errorf("NodeCount = %d, want 2", g.NodeCount())
	}
}

func TestFindUnordered(t *testing.T) {
	g := build(t, "A-B", "B-C")

	for _, pair := range [][2]string{{"A", "B"}, {"B", "A"}, {"C", "B"}} {
		if _, ok := g.Find(pair[0], pair[1]); !ok {
			t.Errorf("Find(%s, %s) = false", pair[0], pair[1])
		}
	}
	if _, ok := g.Find("A", "C"); ok {
		t.Error("Find(A, C) = true, want false")
	}
}

func TestNeighborsOnePerEdge(t *testing.T) {
	g := build(t, "A-B", "C-A", "A-D")

	if got, want := g.Neighbors("A"), []string{"B", "C", "D"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Neighbors(A) = %v, want %v", got, want)
	}
	if got := g.EdgesOf("A"); len(got) != 3 {
		t.Errorf("len(EdgesOf(A)) = %d, want 3", len(got))
	}
	if got := g.Neighbors("Z"); got != nil {
		t.Errorf("Neighbors(Z) = %v, want nil", got)
	}
}

func TestNodeAt(t *testing.T) {
	g := build(t, "A-B")
	g.SetPosition("A", geom.Pt(0, 0))
	g.SetPosition("B", geom.Pt(100, 0))

	tests := []struct {
		p    geom.Point
		want string
	}{
		{geom.Pt(0, 0), "A"},
		{geom.Pt(20, 0), "A"},
		{geom.Pt(95, 5), "B"},
		{geom.Pt(50, 0), ""},
		{geom.Pt(0, 20.5), ""},
	}

	for _, tt := range tests {
		n, ok := g.NodeAt(tt.p)
		switch {
		case tt.want == "" && ok:
			t.Errorf("NodeAt(%v) = %s, want none", tt.p, n.Key())
		case tt.want != "" && (!ok || n.Key() != tt.want):
			t.Errorf("NodeAt(%v) = %v, want %s", tt.p, n, tt.want)
		}
	}
}

func TestTopology(t *testing.T) {
	g := build(t, "A-B", "B-C", "D-E")
	topo := g.Topology()

	if !reflect.DeepEqual(topo.Names, []string{"A", "B", "C", "D", "E"}) {
		t.Errorf("Names = %v", topo.Names)
	}
	wantAdj := [][]int{{1}, {0, 2}, {1}, {4}, {3}}
	if !reflect.DeepEqual(topo.Adjacency, wantAdj) {
		t.Errorf("Adjacency = %v, want %v", topo.Adjacency, wantAdj)
	}
	wantEdges := [][2]int{{0, 1}, {1, 2}, {3, 4}}
	if !reflect.DeepEqual(topo.Edges, wantEdges) {
		t.Errorf("Edges = %v, want %v", topo.Edges, wantEdges)
	}

	g.ApplyPositions([]geom.Point{geom.Pt(1, 1), geom.Pt(2, 2)})
	if n, _ := g.Node("B"); n.Pos != geom.Pt(2, 2) {
		t.Errorf("B at %v, want (2,2)", n.Pos)
	}
	if n, _ := g.Node("C"); n.Pos != layout.Unplaced {
		t.Errorf("C should keep its position, got %v", n.Pos)
	}
}

func TestComponents(t *testing.T) {
	g := build(t, "A-B", "C-D", "B-E", "D-F")
	want := [][]string{{"A", "B", "E"}, {"C", "D", "F"}}
	if got := g.Components(); !reflect.DeepEqual(got, want) {
		t.Errorf("Components = %v, want %v", got, want)
	}
}

func TestClear(t *testing.T) {
	g := build(t, "A-B")
	g.Clear()
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("Clear left %d nodes, %d edges", g.NodeCount(), g.EdgeCount())
	}
	if _, ok := g.Node("A"); ok {
		t.Error("Clear left the index populated")
	}
}

func TestEdgeExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		category Category
		expiry   time.Time
		want     bool
	}{
		{"past", Gold, now.Add(-time.Minute), true},
		{"exactly now", Blue, now, true},
		{"future", Green, now.Add(time.Minute), false},
		{"royal past", Royal, now.Add(-time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Edge{Category: tt.category, Expiry: tt.expiry}
			if got := e.Expired(now); got != tt.want {
				t.Errorf("Expired = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCategory(t *testing.T) {
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("%s should be valid", c)
		}
	}
	if Category("purple").Valid() {
		t.Error("purple should be invalid")
	}
	if !Royal.Exempt() || Gold.Exempt() {
		t.Error("only royal is exempt")
	}
	if got := CategoryNames(); !reflect.DeepEqual(got, []string{"green", "blue", "gold", "royal"}) {
		t.Errorf("CategoryNames = %v", got)
	}
}

func TestNewID(t *testing.T) {
	seen := map[string]bool{}
	for range 100 {
		id := NewID()
		if len(id) != IDLength {
			t.Fatalf("len(%q) = %d, want %d", id, len(id), IDLength)
		}
		for _, r := range id {
			if !strings.ContainsRune(IDAlphabet, r) {
				t.Fatalf("id %q contains %q outside the alphabet", id, r)
			}
		}
		if seen[id] {
			t.Fatalf("duplicate id %q", id)
		}
		seen[id] = true
	}
}
