package world

import (
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/zonelink/pkg/layout"
	"github.com/matzehuels/zonelink/pkg/store"
)

// Option configures a [World].
type Option func(*World)

// WithStore sets the persistence backend. The default is an empty
// in-memory store.
func WithStore(s store.Store) Option { return func(w *World) { w.store = s } }

// WithLogger sets the logger. The default discards output.
func WithLogger(l *log.Logger) Option { return func(w *World) { w.logger = l } }

// WithClock replaces time.Now, for expiry computations in tests.
func WithClock(now func() time.Time) Option { return func(w *World) { w.now = now } }

// WithRand injects the layout random source.
func WithRand(rng *rand.Rand) Option { return func(w *World) { w.rng = rng } }

// WithSeed seeds the layout random source. Seed 0 picks a random seed.
func WithSeed(seed uint64) Option { return func(w *World) { w.rng = layout.NewRand(seed) } }

// WithIDGenerator replaces [graph.NewID] for new connections.
func WithIDGenerator(fn func() string) Option { return func(w *World) { w.newID = fn } }

// WithLayout sets the layout configuration.
func WithLayout(cfg layout.Config) Option { return func(w *World) { w.cfg = cfg } }

// WithViewport sets the initial viewport.
func WithViewport(vp layout.Viewport) Option { return func(w *World) { w.viewport = vp } }
