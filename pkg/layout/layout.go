package layout

import (
	"math"
	"math/rand/v2"
	"slices"

	"github.com/matzehuels/zonelink/pkg/geom"
)

// Search budgets.
const (
	Restarts        = 40
	Samples         = 1000
	Directions      = 360
	CrossingPenalty = 2000
)

// Defaults for [Config].
const (
	DefaultDistance = 200
	DefaultScale    = 1
)

// Viewport margins, in units of Config.Scale.
const (
	MarginX      = 55
	MarginTop    = 20
	MarginBottom = 50
)

// Invalid is the score of a point inside the margins.
const Invalid = math.SmallestNonzeroFloat64

const (
	maxSafeInteger = 1<<53 - 1
	minSafeInteger = -maxSafeInteger
)

// Unplaced is the position of a node that has not been placed yet.
var Unplaced = geom.Point{X: -10000, Y: -10000}

// DefaultHomeZones are tried, in order, as the root of every attempt.
var DefaultHomeZones = []string{"Setent-Qintis", "Everwinter Expanse"}

// Viewport is the size of the drawing area. Positions are relative to its
// center.
type Viewport struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Config holds the tunables of an [Engine].
type Config struct {
	Distance  float64  // preferred edge length
	Scale     float64  // multiplier for the viewport margins
	HomeZones []string // root candidates, by node name
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() Config {
	return Config{
		Distance:  DefaultDistance,
		Scale:     DefaultScale,
		HomeZones: slices.Clone(DefaultHomeZones),
	}
}

// Topology is the index-based view of a graph that the engine lays out.
// Adjacency[i] lists one neighbor per edge incident to node i, in edge
// order. Edges lists the endpoints of every edge.
type Topology struct {
	Names     []string
	Adjacency [][]int
	Edges     [][2]int
}

// Len returns the number of nodes.
func (t Topology) Len() int { return len(t.Names) }

// Result is the best attempt of a layout run.
type Result struct {
	Positions []geom.Point
	Rating    float64
	Crossings int
}

// Engine runs layouts. It is not safe for concurrent use.
type Engine struct {
	cfg    Config
	rng    *rand.Rand
	angles []int
}

// New creates an Engine. A nil rng is replaced by a randomly seeded one.
func New(cfg Config, rng *rand.Rand) *Engine {
	if rng == nil {
		rng = NewRand(0)
	}
	angles := make([]int, Directions)
	for i := range angles {
		angles[i] = i
	}
	return &Engine{cfg: cfg, rng: rng, angles: angles}
}

// NewRand returns a PCG-backed generator. Seed 0 picks a random seed.
func NewRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// SetConfig replaces the engine configuration.
func (e *Engine) SetConfig(cfg Config) { e.cfg = cfg }

// Layout computes positions for every node of t inside vp.
func (e *Engine) Layout(t Topology, vp Viewport) Result {
	n := t.Len()
	switch n {
	case 0:
		return Result{}
	case 1:
		pos := []geom.Point{{}}
		rating, crossings := RateOverall(pos, t.Edges, vp, e.cfg)
		return Result{Positions: pos, Rating: rating, Crossings: crossings}
	}

	pos := make([]geom.Point, n)
	placed := make([]bool, n)
	best := Result{Rating: minSafeInteger}

	for range Restarts {
		for i := range pos {
			pos[i] = Unplaced
			placed[i] = false
		}

		root := e.root(t.Names)
		pos[root] = geom.Point{}
		e.walk(root, t.Adjacency, pos, placed, vp)

		for next := slices.Index(placed, false); next >= 0; next = slices.Index(placed, false) {
			pos[next] = e.sample(pos, vp)
			e.walk(next, t.Adjacency, pos, placed, vp)
		}

		rating, crossings := RateOverall(pos, t.Edges, vp, e.cfg)
		if rating > best.Rating {
			best = Result{Positions: slices.Clone(pos), Rating: rating, Crossings: crossings}
		}
	}

	if best.Positions == nil {
		best.Positions = pos
		best.Rating, best.Crossings = RateOverall(pos, t.Edges, vp, e.cfg)
	}
	return best
}

func (e *Engine) root(names []string) int {
	for _, home := range e.cfg.HomeZones {
		if i := slices.Index(names, home); i >= 0 {
			return i
		}
	}
	return e.rng.IntN(len(names))
}

type frame struct {
	center    int
	neighbors []int
	next      int
}

// walk places the unplaced part of root's component depth-first.
func (e *Engine) walk(root int, adj [][]int, pos []geom.Point, placed []bool, vp Viewport) {
	placed[root] = true
	stack := []frame{{center: root, neighbors: adj[root]}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.neighbors) {
			stack = stack[:len(stack)-1]
			continue
		}
		nb := top.neighbors[top.next]
		top.next++
		if placed[nb] {
			continue
		}

		pos[nb] = e.around(pos[top.center], pos, vp)
		placed[nb] = true
		stack = append(stack, frame{center: nb, neighbors: adj[nb]})
	}
}

// around picks the best point on the circle of radius Distance around center.
func (e *Engine) around(center geom.Point, pos []geom.Point, vp Viewport) geom.Point {
	e.rng.Shuffle(len(e.angles), func(i, j int) {
		e.angles[i], e.angles[j] = e.angles[j], e.angles[i]
	})

	var best geom.Point
	bestScore := float64(minSafeInteger)
	for _, deg := range e.angles {
		p := geom.Polar(center, deg, e.cfg.Distance)
		score := RatePosition(p, pos, -1, vp, e.cfg)
		if score > bestScore {
			best, bestScore = p, score
		}
		if score >= e.cfg.Distance {
			break
		}
	}
	return best
}

// sample picks the best of Samples uniform points in the viewport.
func (e *Engine) sample(pos []geom.Point, vp Viewport) geom.Point {
	var best geom.Point
	bestScore := float64(minSafeInteger)
	for range Samples {
		x := (e.rng.Float64()*2 - 1) * (vp.Width / 2)
		y := (e.rng.Float64()*2 - 1) * (vp.Height / 2)
		p := geom.Pt(x, y)

		score := RatePosition(p, pos, -1, vp, e.cfg)
		if score > bestScore {
			best, bestScore = p, score
		}
		if score >= e.cfg.Distance {
			break
		}
	}
	return best
}
