// Package zones provides the read-only zone catalog that connections refer to.
//
// The catalog is reference data: it is loaded once (from a JSON file or the
// public zone dump) and only answers lookups afterwards. Zone names are the
// lookup key and are matched case-insensitively.
package zones

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
)

// MaxSearchResults caps the number of names returned by [Catalog.Search].
const MaxSearchResults = 10

// ErrNotFound is returned when a zone name cannot be resolved.
var ErrNotFound = errors.New("zone not found")

// Color categories used by the zone dump.
const (
	ColorBlue   = "blue"
	ColorRed    = "red"
	ColorYellow = "yellow"
	ColorBlack  = "black"
	ColorCity   = "city"
	ColorRoad   = "road"
	ColorRoadHO = "road-ho"
)

// Zone is a named location of the world map.
type Zone struct {
	ID       int    `json:"id"`
	AlbionID string `json:"albionId"`
	Name     string `json:"name"`
	Tier     string `json:"tier"`
	Color    string `json:"color"`
	Type     string `json:"type"`
	IsDeep   bool   `json:"isDeep"`
}

// IsRoad reports whether the zone belongs to the roads network.
func (z *Zone) IsRoad() bool { return z.Color == ColorRoad || z.Color == ColorRoadHO }

// IsCity reports whether the zone is a city.
func (z *Zone) IsCity() bool { return z.Color == ColorCity }

// IsBlack reports whether the zone is a black zone.
func (z *Zone) IsBlack() bool { return z.Color == ColorBlack }

// Catalog is an immutable, ordered set of zones.
// It is safe for concurrent use.
type Catalog struct {
	zones  []*Zone
	byName map[string]*Zone
}

// New builds a catalog from zones, keeping their order.
// Entries whose color is a single blank are placeholders in the upstream
// dump and are dropped. When two zones share a name, the first one wins.
func New(zones []Zone) *Catalog {
	c := &Catalog{byName: make(map[string]*Zone, len(zones))}
	for i := range zones {
		if zones[i].Color == " " {
			continue
		}
		z := zones[i]
		c.zones = append(c.zones, &z)
		key := strings.ToLower(z.Name)
		if _, dup := c.byName[key]; !dup {
			c.byName[key] = &z
		}
	}
	return c
}

// Len returns the number of zones.
func (c *Catalog) Len() int { return len(c.zones) }

// Zones returns the zones in catalog order.
func (c *Catalog) Zones() []*Zone { return c.zones }

// Resolve looks a zone up by exact, case-insensitive name.
func (c *Catalog) Resolve(name string) (*Zone, bool) {
	z, ok := c.byName[strings.ToLower(name)]
	return z, ok
}

// MustResolve is like Resolve but returns ErrNotFound for unknown names.
func (c *Catalog) MustResolve(name string) (*Zone, error) {
	if z, ok := c.Resolve(name); ok {
		return z, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Search returns up to [MaxSearchResults] zone names containing sub
// (case-insensitive), ordered by the position of the first match.
// Ties keep catalog order.
func (c *Catalog) Search(sub string) []string {
	type hit struct {
		name  string
		index int
	}
	needle := strings.ToLower(sub)
	var hits []hit
	for _, z := range c.zones {
		if i := strings.Index(strings.ToLower(z.Name), needle); i != -1 {
			hits = append(hits, hit{z.Name, i})
		}
	}
	sort.SliceStable(hits, func(a, b int) bool { return hits[a].index < hits[b].index })

	n := min(len(hits), MaxSearchResults)
	names := make([]string, n)
	for i := range n {
		names[i] = hits[i].name
	}
	return names
}

// Load decodes a JSON array of zones.
func Load(r io.Reader) (*Catalog, error) {
	var zones []Zone
	if err := json.NewDecoder(r).Decode(&zones); err != nil {
		return nil, fmt.Errorf("decode zones: %w", err)
	}
	return New(zones), nil
}

// LoadFile reads a JSON zone dump from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Load(f)
}
