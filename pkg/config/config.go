// Package config loads and saves the zonelink configuration file.
//
// The file is TOML and lives at $XDG_CONFIG_HOME/zonelink/config.toml by
// default. Missing keys keep their [Default] values, so a config file only
// needs the settings it changes:
//
//	[layout]
//	distance = 250.0
//
//	[store]
//	backend = "redis"
//	redis_addr = "localhost:6379"
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/BurntSushi/toml"

	zerrors "github.com/matzehuels/zonelink/pkg/errors"
	"github.com/matzehuels/zonelink/pkg/layout"
)

// Store backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
)

// Backends lists every supported store backend.
var Backends = []string{BackendMemory, BackendFile, BackendRedis, BackendMongo}

// Config is the complete zonelink configuration.
type Config struct {
	Layout   Layout   `toml:"layout"`
	Viewport Viewport `toml:"viewport"`
	Store    Store    `toml:"store"`
	Zones    Zones    `toml:"zones"`
	Server   Server   `toml:"server"`
}

// Layout configures the layout engine.
type Layout struct {
	Distance  float64  `toml:"distance"`
	Scale     float64  `toml:"scale"`
	Seed      uint64   `toml:"seed"` // 0 = random
	HomeZones []string `toml:"home_zones"`
}

// Viewport is the drawing area used by headless commands and the server.
type Viewport struct {
	Width  float64 `toml:"width"`
	Height float64 `toml:"height"`
}

// Store selects and configures the persistence backend.
type Store struct {
	Backend       string        `toml:"backend"` // memory, file, redis, mongo
	Dir           string        `toml:"dir"`
	Collection    string        `toml:"collection"`
	RedisAddr     string        `toml:"redis_addr"`
	RedisPassword string        `toml:"redis_password"`
	RedisDB       int           `toml:"redis_db"`
	MongoURI      string        `toml:"mongo_uri"`
	MongoDatabase string        `toml:"mongo_database"`
	PollInterval  time.Duration `toml:"poll_interval"`
}

// Zones configures where the zone catalog comes from. File wins over URL.
type Zones struct {
	URL      string        `toml:"url"`
	File     string        `toml:"file"`
	CacheTTL time.Duration `toml:"cache_ttl"`
}

// Server configures `zonelink serve`.
type Server struct {
	Addr string        `toml:"addr"`
	Tick time.Duration `toml:"tick"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Layout: Layout{
			Distance:  layout.DefaultDistance,
			Scale:     layout.DefaultScale,
			HomeZones: slices.Clone(layout.DefaultHomeZones),
		},
		Viewport: Viewport{Width: 1280, Height: 720},
		Store: Store{
			Backend:       BackendFile,
			Collection:    "connections",
			RedisAddr:     "localhost:6379",
			MongoURI:      "mongodb://localhost:27017",
			MongoDatabase: "zonelink",
			PollInterval:  2 * time.Second,
		},
		Zones: Zones{
			URL:      "https://raw.githubusercontent.com/HamzaNa1/data-dump/main/zones.json",
			CacheTTL: 24 * time.Hour,
		},
		Server: Server{Addr: ":8080", Tick: time.Second},
	}
}

// LayoutConfig converts the layout section for the engine.
func (c *Config) LayoutConfig() layout.Config {
	return layout.Config{
		Distance:  c.Layout.Distance,
		Scale:     c.Layout.Scale,
		HomeZones: slices.Clone(c.Layout.HomeZones),
	}
}

// ViewportSize converts the viewport section for the engine.
func (c *Config) ViewportSize() layout.Viewport {
	return layout.Viewport{Width: c.Viewport.Width, Height: c.Viewport.Height}
}

// Validate checks value ranges. Errors carry [zerrors.ErrCodeInvalidConfig].
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, zerrors.New(zerrors.ErrCodeInvalidConfig, format, args...))
	}

	if c.Layout.Distance <= 0 {
		bad("layout.distance must be positive, got %v", c.Layout.Distance)
	}
	if c.Layout.Scale <= 0 {
		bad("layout.scale must be positive, got %v", c.Layout.Scale)
	}
	if c.Viewport.Width <= 0 || c.Viewport.Height <= 0 {
		bad("viewport must be positive, got %vx%v", c.Viewport.Width, c.Viewport.Height)
	}
	if !slices.Contains(Backends, c.Store.Backend) {
		bad("store.backend %q unknown (want one of %v)", c.Store.Backend, Backends)
	}
	if c.Store.Collection == "" {
		bad("store.collection cannot be empty")
	}
	if c.Store.PollInterval <= 0 {
		bad("store.poll_interval must be positive")
	}
	if c.Zones.File == "" {
		if err := zerrors.ValidateURL(c.Zones.URL); err != nil {
			bad("zones.url: %s", zerrors.UserMessage(err))
		}
	}
	if c.Server.Tick <= 0 {
		bad("server.tick must be positive")
	}
	return errors.Join(errs...)
}

// Dir returns the zonelink config directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "zonelink")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// DataDir returns the default directory for the file store.
func DataDir() string {
	dir := os.Getenv("XDG_DATA_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dir, "zonelink")
}

// Load reads path on top of [Default]. A missing file is not an error.
// An empty path selects [DefaultPath].
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, zerrors.Wrap(zerrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
// An empty path selects [DefaultPath].
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}
