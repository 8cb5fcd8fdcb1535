package graph

import (
	"math/rand/v2"
	"slices"
	"time"

	"github.com/matzehuels/zonelink/pkg/geom"
	"github.com/matzehuels/zonelink/pkg/layout"
	"github.com/matzehuels/zonelink/pkg/zones"
)

// =============================================================================
// Categories
// =============================================================================

// Category classifies a connection. It decides the line color and whether
// the connection expires.
type Category string

// Connection categories.
const (
	Green Category = "green"
	Blue  Category = "blue"
	Gold  Category = "gold"
	Royal Category = "royal"
)

// Categories lists every known category in display order.
var Categories = []Category{Green, Blue, Gold, Royal}

// CategoryNames returns [Categories] as strings.
func CategoryNames() []string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = string(c)
	}
	return names
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool { return slices.Contains(Categories, c) }

// Exempt reports whether connections of this category never expire.
func (c Category) Exempt() bool { return c == Royal }

// =============================================================================
// Node
// =============================================================================

// DefaultRadius is the hit-test and drawing radius of a node.
const DefaultRadius = 20

// Node is a zone present in the graph.
type Node struct {
	Pos    geom.Point
	Radius float64
	Zone   *zones.Zone
}

// Key returns the node's key, its zone name.
func (n *Node) Key() string { return n.Zone.Name }

func newNode(z *zones.Zone) *Node {
	return &Node{Pos: layout.Unplaced, Radius: DefaultRadius, Zone: z}
}

// =============================================================================
// Edge
// =============================================================================

// Edge is a timed connection between two zones.
type Edge struct {
	ID       string
	Start    string
	End      string
	Category Category
	Expiry   time.Time
}

// Touches reports whether key is one of the edge's endpoints.
func (e Edge) Touches(key string) bool { return e.Start == key || e.End == key }

// Connects reports whether the edge joins a and b, in either direction.
func (e Edge) Connects(a, b string) bool {
	return (e.Start == a && e.End == b) || (e.Start == b && e.End == a)
}

// Other returns the endpoint opposite to key.
func (e Edge) Other(key string) string {
	if e.Start == key {
		return e.End
	}
	return e.Start
}

// Expired reports whether the edge is due for removal at now.
// Exempt categories never expire.
func (e Edge) Expired(now time.Time) bool {
	return !e.Category.Exempt() && !e.Expiry.After(now)
}

// =============================================================================
// IDs
// =============================================================================

// Edge ID format.
const (
	IDAlphabet = "QWERTYUIOPASDFGHJKLZXCVBNMqwertyuiopasdfghjklzxcvbnm1234567890-_"
	IDLength   = 32
)

// NewID returns a random edge ID. Collisions are not checked.
func NewID() string {
	b := make([]byte, IDLength)
	for i := range b {
		b[i] = IDAlphabet[rand.IntN(len(IDAlphabet))]
	}
	return string(b)
}
