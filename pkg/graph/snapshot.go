package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/matzehuels/zonelink/pkg/layout"
)

// Snapshot is the serializable view of a graph plus the drawing context it
// was laid out for. The graph fills Nodes and Edges; pkg/world adds the
// rest.
type Snapshot struct {
	Viewport  layout.Viewport `json:"viewport"`
	Distance  float64         `json:"distance,omitempty"`
	Scale     float64         `json:"scale,omitempty"`
	Rating    float64         `json:"rating,omitempty"`
	Crossings int             `json:"crossings"`
	Nodes     []SnapshotNode  `json:"nodes"`
	Edges     []SnapshotEdge  `json:"edges"`
}

// SnapshotNode is a positioned zone.
type SnapshotNode struct {
	Name   string  `json:"name"`
	Tier   string  `json:"tier,omitempty"`
	Color  string  `json:"color,omitempty"`
	Type   string  `json:"type,omitempty"`
	IsDeep bool    `json:"isDeep,omitempty"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// SnapshotEdge is a connection between two snapshot nodes.
type SnapshotEdge struct {
	ID       string    `json:"id"`
	Start    string    `json:"start"`
	End      string    `json:"end"`
	Category Category  `json:"category"`
	Expiry   time.Time `json:"expiry"`
}

// Node returns the snapshot node named name.
func (s Snapshot) Node(name string) (SnapshotNode, bool) {
	for _, n := range s.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return SnapshotNode{}, false
}

// Snapshot captures the current nodes and edges.
func (g *Graph) Snapshot() Snapshot {
	s := Snapshot{
		Nodes: make([]SnapshotNode, len(g.nodes)),
		Edges: make([]SnapshotEdge, len(g.edges)),
	}
	for i, n := range g.nodes {
		s.Nodes[i] = SnapshotNode{
			Name:   n.Zone.Name,
			Tier:   n.Zone.Tier,
			Color:  n.Zone.Color,
			Type:   n.Zone.Type,
			IsDeep: n.Zone.IsDeep,
			X:      n.Pos.X,
			Y:      n.Pos.Y,
			Radius: n.Radius,
		}
	}
	for i, e := range g.edges {
		s.Edges[i] = SnapshotEdge{ID: e.ID, Start: e.Start, End: e.End, Category: e.Category, Expiry: e.Expiry}
	}
	return s
}

// =============================================================================
// Snapshot Serialization API
// =============================================================================

// MarshalSnapshot converts a snapshot to indented JSON bytes.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteSnapshot(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteSnapshot writes a snapshot as indented JSON to w.
func WriteSnapshot(s Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteSnapshotFile writes a snapshot to a JSON file.
func WriteSnapshotFile(s Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteSnapshot(s, f)
}

// ReadSnapshot decodes a JSON snapshot from r.
func ReadSnapshot(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decode: %w", err)
	}
	return s, nil
}

// ReadSnapshotFile reads a JSON snapshot from path.
func ReadSnapshotFile(path string) (Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSnapshot(f)
}
