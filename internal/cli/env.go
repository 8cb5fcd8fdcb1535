package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/matzehuels/zonelink/pkg/buildinfo"
	"github.com/matzehuels/zonelink/pkg/config"
	"github.com/matzehuels/zonelink/pkg/httputil"
	"github.com/matzehuels/zonelink/pkg/store"
	"github.com/matzehuels/zonelink/pkg/world"
	"github.com/matzehuels/zonelink/pkg/zones"
)

// env is what a command needs to work on the stored graph.
type env struct {
	cfg   *config.Config
	world *world.World
}

// Close releases the store.
func (e *env) Close() error {
	return e.world.Store().Close()
}

// loadConfig reads the config file and applies flag overrides on top.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.flags.config)
	if err != nil {
		return nil, err
	}
	if c.flags.backend != "" {
		cfg.Store.Backend = c.flags.backend
	}
	if c.flags.dataDir != "" {
		cfg.Store.Dir = c.flags.dataDir
	}
	if c.flags.zonesFile != "" {
		cfg.Zones.File = c.flags.zonesFile
	}
	if c.flags.seed != 0 {
		cfg.Layout.Seed = c.flags.seed
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadCatalog reads the zone catalog from the configured file, or fetches
// it through the on-disk cache.
func loadCatalog(ctx context.Context, cfg *config.Config) (*zones.Catalog, error) {
	logger := loggerFromContext(ctx)

	if cfg.Zones.File != "" {
		cat, err := zones.LoadFile(cfg.Zones.File)
		if err != nil {
			return nil, err
		}
		logger.Debug("zone catalog loaded", "file", cfg.Zones.File, "zones", cat.Len())
		return cat, nil
	}

	cache, err := httputil.NewCache("", cfg.Zones.CacheTTL)
	if err != nil {
		logger.Warn("zone cache disabled", "err", err)
		cache = nil
	}
	client := httputil.NewClient(cache, map[string]string{
		"User-Agent": buildinfo.UserAgent(appName),
	})

	prog := newProgress(logger)
	spin := newSpinner(ctx, os.Stderr, "Fetching zone catalog...")
	spin.Start()
	cat, err := zones.Fetch(ctx, client, cfg.Zones.URL)
	if err != nil {
		spin.StopWithError("Zone catalog unavailable")
		return nil, err
	}
	spin.Stop()
	prog.done(fmt.Sprintf("Loaded %d zones", cat.Len()))
	return cat, nil
}

// open builds the world from the config: catalog, store, layout settings,
// and the stored connections.
func (c *CLI) open(ctx context.Context) (*env, error) {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	cat, err := loadCatalog(ctx, cfg)
	if err != nil {
		return nil, err
	}

	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}

	w := world.New(cat,
		world.WithStore(st),
		world.WithLogger(logger),
		world.WithSeed(cfg.Layout.Seed),
		world.WithLayout(cfg.LayoutConfig()),
		world.WithViewport(cfg.ViewportSize()),
	)

	prog := newProgress(logger)
	if err := w.Init(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("load connections: %w", err)
	}
	prog.done(fmt.Sprintf("Loaded %d connections", len(w.Edges())))

	return &env{cfg: cfg, world: w}, nil
}
