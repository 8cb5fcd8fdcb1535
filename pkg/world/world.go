package world

import (
	"context"
	"errors"
	"io"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/zonelink/pkg/geom"
	"github.com/matzehuels/zonelink/pkg/graph"
	"github.com/matzehuels/zonelink/pkg/layout"
	"github.com/matzehuels/zonelink/pkg/observability"
	"github.com/matzehuels/zonelink/pkg/store"
	"github.com/matzehuels/zonelink/pkg/zones"
)

// DefaultViewport is used until the first [World.Resize].
var DefaultViewport = layout.Viewport{Width: 1280, Height: 720}

// RoyalDuration is the lifetime forced onto royal connections by
// [World.AddConnection].
const RoyalDuration = 24 * time.Hour

// World is the graph store, the layout engine and their collaborators.
// All methods are safe for concurrent use.
type World struct {
	mu sync.Mutex

	catalog  *zones.Catalog
	graph    *graph.Graph
	engine   *layout.Engine
	cfg      layout.Config
	viewport layout.Viewport
	last     layout.Result

	store  store.Store
	logger *log.Logger
	rng    *rand.Rand
	now    func() time.Time
	newID  func() string
}

// New creates an empty world resolving zone names through catalog.
func New(catalog *zones.Catalog, opts ...Option) *World {
	w := &World{
		catalog:  catalog,
		graph:    graph.New(),
		cfg:      layout.DefaultConfig(),
		viewport: DefaultViewport,
		now:      time.Now,
		newID:    graph.NewID,
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.store == nil {
		w.store = store.NewMemory()
	}
	if w.logger == nil {
		w.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	w.engine = layout.New(w.cfg, w.rng)
	return w
}

// Store returns the persistence backend.
func (w *World) Store() store.Store { return w.store }

// Catalog returns the zone catalog.
func (w *World) Catalog() *zones.Catalog { return w.catalog }

// =============================================================================
// Mutations
// =============================================================================

// Upsert connects two zones, replacing any connection between the same
// pair. It returns (nil, nil) when either name is empty or unknown, or when
// both name the same zone.
func (w *World) Upsert(ctx context.Context, start, end string, category graph.Category, expiry time.Time) (*graph.Edge, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.upsert(ctx, start, end, category, expiry)
}

func (w *World) upsert(ctx context.Context, start, end string, category graph.Category, expiry time.Time) (*graph.Edge, error) {
	a, b, ok := w.resolvePair(start, end)
	if !ok {
		return nil, nil
	}

	var errs []error
	if old, found := w.graph.Find(a.Name, b.Name); found {
		errs = append(errs, w.removeEdge(ctx, old))
	}
	e := w.graph.AddEdge(graph.Edge{ID: w.newID(), Category: category, Expiry: expiry}, a, b)
	errs = append(errs, w.store.Save(ctx, RecordOf(e)))
	w.layout(ctx)

	w.logger.Info("connection added", "start", e.Start, "end", e.End, "category", e.Category, "expiry", e.Expiry.Format(time.RFC3339))
	return &e, firstOrJoin(errs)
}

// AddConnection adds a connection that lasts hours and minutes from now.
// Royal connections always last [RoyalDuration]. Empty names are ignored.
func (w *World) AddConnection(ctx context.Context, from, to string, category graph.Category, hours, minutes int) (*graph.Edge, error) {
	if from == "" || to == "" {
		w.logger.Debug("ignoring connection with empty endpoint", "from", from, "to", to)
		return nil, nil
	}
	d := time.Duration(hours*60+minutes) * time.Minute
	if category == graph.Royal {
		d = RoyalDuration
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.upsert(ctx, from, to, category, w.now().Add(d))
}

// Load adds a persisted record without saving it or running a layout. A
// record for a pair that is already connected is skipped.
func (w *World) Load(rec store.Record) *graph.Edge {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.load(rec)
}

func (w *World) load(rec store.Record) *graph.Edge {
	a, b, ok := w.resolvePair(rec.Start, rec.End)
	if !ok {
		return nil
	}
	if old, found := w.graph.Find(a.Name, b.Name); found {
		w.logger.Debug("skipping duplicate record", "id", rec.ID, "kept", old.ID)
		return nil
	}
	e := w.graph.AddEdge(graph.Edge{
		ID:       rec.ID,
		Category: graph.Category(rec.Type),
		Expiry:   rec.Expiry(),
	}, a, b)
	return &e
}

// removeEdge drops e from the graph and the store. Endpoints left without
// connections are removed. It does not run a layout.
func (w *World) removeEdge(ctx context.Context, e graph.Edge) error {
	if _, ok := w.graph.RemoveEdge(e.ID); !ok {
		return nil
	}
	return w.store.Delete(ctx, e.ID)
}

// DeleteNode removes every connection of the named zone.
func (w *World) DeleteNode(ctx context.Context, name string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	key := w.key(name)
	edges := w.graph.EdgesOf(key)
	if len(edges) == 0 {
		return nil
	}
	var errs []error
	for _, e := range edges {
		errs = append(errs, w.removeEdge(ctx, e))
	}
	w.layout(ctx)

	w.logger.Info("zone deleted", "zone", key, "connections", len(edges))
	return firstOrJoin(errs)
}

// Sweep removes every non-royal connection whose expiry is not after now.
// It runs a layout only when something was removed.
func (w *World) Sweep(ctx context.Context, now time.Time) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	removed, errs := w.sweep(ctx, now)
	if removed > 0 {
		w.layout(ctx)
	}
	return removed, firstOrJoin(errs)
}

// Refresh sweeps against the world clock. Readers call it before taking a
// snapshot so that no expired connection is ever drawn.
func (w *World) Refresh(ctx context.Context) error {
	_, err := w.Sweep(ctx, w.now())
	return err
}

// sweep removes expired connections without laying out. Callers hold mu.
func (w *World) sweep(ctx context.Context, now time.Time) (int, []error) {
	var (
		removed int
		errs    []error
	)
	for _, e := range w.graph.Edges() {
		if !e.Expired(now) {
			continue
		}
		errs = append(errs, w.removeEdge(ctx, e))
		removed++
		w.logger.Info("connection expired", "start", e.Start, "end", e.End, "category", e.Category)
	}
	if removed > 0 {
		observability.Layout().OnExpired(ctx, removed)
	}
	return removed, errs
}

// ReplaceAll discards the graph and rebuilds it from recs.
func (w *World) ReplaceAll(ctx context.Context, recs []store.Record) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.graph.Clear()
	loaded := w.loadAll(recs)
	expired, errs := w.sweep(ctx, w.now())
	if err := firstOrJoin(errs); err != nil {
		w.logger.Warn("expired connections not deleted", "err", err)
	}
	w.layout(ctx)
	w.logger.Info("replaced connections", "records", len(recs), "loaded", loaded, "expired", expired)
}

// Init loads every stored record and lays the graph out once. Records that
// have already expired are dropped from the graph and the store.
func (w *World) Init(ctx context.Context) error {
	recs, err := w.store.LoadAll(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	loaded := w.loadAll(recs)
	expired, errs := w.sweep(ctx, w.now())
	if err := firstOrJoin(errs); err != nil {
		w.logger.Warn("expired connections not deleted", "err", err)
	}
	w.layout(ctx)
	w.logger.Debug("loaded connections", "records", len(recs), "loaded", loaded, "expired", expired)
	return nil
}

func (w *World) loadAll(recs []store.Record) int {
	n := 0
	for _, rec := range recs {
		if w.load(rec) != nil {
			n++
		}
	}
	return n
}

// =============================================================================
// Viewport and layout settings
// =============================================================================

// Resize sets the viewport and re-lays the graph out.
func (w *World) Resize(ctx context.Context, width, height float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.viewport = layout.Viewport{Width: width, Height: height}
	w.layout(ctx)
}

// SetDistance sets the preferred edge length and re-lays the graph out.
func (w *World) SetDistance(ctx context.Context, d float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cfg.Distance = d
	w.engine.SetConfig(w.cfg)
	w.layout(ctx)
}

// SetScale sets the margin scale. Positions are kept until the next layout.
func (w *World) SetScale(s float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cfg.Scale = s
	w.engine.SetConfig(w.cfg)
}

// SortAll forces a fresh layout.
func (w *World) SortAll(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.layout(ctx)
}

// Viewport returns the current viewport.
func (w *World) Viewport() layout.Viewport {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewport
}

// LayoutConfig returns the current layout configuration.
func (w *World) LayoutConfig() layout.Config {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg
}

// layout runs the engine over the whole graph. Callers hold w.mu.
func (w *World) layout(ctx context.Context) {
	start := time.Now()
	t := w.graph.Topology()
	hooks := observability.Layout()
	hooks.OnLayoutStart(ctx, t.Len(), len(t.Edges))

	res := w.engine.Layout(t, w.viewport)
	w.graph.ApplyPositions(res.Positions)
	w.last = res

	stats := observability.LayoutStats{
		Nodes:     t.Len(),
		Edges:     len(t.Edges),
		Crossings: res.Crossings,
		Rating:    res.Rating,
		Duration:  time.Since(start),
	}
	if t.Len() > 1 {
		stats.Restarts = layout.Restarts
	}
	hooks.OnLayoutComplete(ctx, stats)
	w.logger.Debug("layout",
		"nodes", stats.Nodes,
		"edges", stats.Edges,
		"rating", stats.Rating,
		"crossings", stats.Crossings,
		"duration", stats.Duration)
}

// =============================================================================
// Queries
// =============================================================================

// Neighbors returns the zones joined to name, one entry per connection.
func (w *World) Neighbors(name string) []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph.Neighbors(w.key(name))
}

// EdgesOf returns the connections of the named zone.
func (w *World) EdgesOf(name string) []graph.Edge {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph.EdgesOf(w.key(name))
}

// NodeAt returns a copy of the first node whose circle contains (x, y).
func (w *World) NodeAt(x, y float64) (graph.Node, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n, ok := w.graph.NodeAt(geom.Point{X: x, Y: y})
	if !ok {
		return graph.Node{}, false
	}
	return *n, true
}

// Nodes returns copies of the nodes in insertion order.
func (w *World) Nodes() []graph.Node {
	w.mu.Lock()
	defer w.mu.Unlock()
	nodes := w.graph.Nodes()
	out := make([]graph.Node, len(nodes))
	for i, n := range nodes {
		out[i] = *n
	}
	return out
}

// Edges returns the connections in insertion order.
func (w *World) Edges() []graph.Edge {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph.Edges()
}

// Components returns the connected components as zone names.
func (w *World) Components() [][]string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.graph.Components()
}

// Snapshot captures the graph together with the viewport, settings and
// score of the last layout.
func (w *World) Snapshot() graph.Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	s := w.graph.Snapshot()
	s.Viewport = w.viewport
	s.Distance = w.cfg.Distance
	s.Scale = w.cfg.Scale
	s.Rating = w.last.Rating
	s.Crossings = w.last.Crossings
	return s
}

// =============================================================================
// Helpers
// =============================================================================

// resolvePair resolves both names and rejects empty, unknown and identical
// zones.
func (w *World) resolvePair(start, end string) (*zones.Zone, *zones.Zone, bool) {
	if strings.TrimSpace(start) == "" || strings.TrimSpace(end) == "" {
		w.logger.Debug("ignoring connection with empty endpoint", "start", start, "end", end)
		return nil, nil, false
	}
	a, okA := w.catalog.Resolve(start)
	b, okB := w.catalog.Resolve(end)
	switch {
	case !okA || !okB:
		w.logger.Debug("ignoring connection to unknown zone", "start", start, "end", end)
		return nil, nil, false
	case a == b:
		w.logger.Debug("ignoring self-loop", "zone", a.Name)
		return nil, nil, false
	}
	return a, b, true
}

// key maps a user-supplied name to the node key, its canonical zone name.
func (w *World) key(name string) string {
	if z, ok := w.catalog.Resolve(name); ok {
		return z.Name
	}
	return name
}

// RecordOf converts a connection to its persisted form.
func RecordOf(e graph.Edge) store.Record {
	return store.Record{
		ID:      e.ID,
		Start:   e.Start,
		End:     e.End,
		Type:    string(e.Category),
		EndTime: e.Expiry.UnixMilli(),
	}
}

func firstOrJoin(errs []error) error {
	var nonNil []error
	for _, err := range errs {
		if err != nil {
			nonNil = append(nonNil, err)
		}
	}
	switch len(nonNil) {
	case 0:
		return nil
	case 1:
		return nonNil[0]
	}
	return errors.Join(nonNil...)
}
