package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	zerrors "github.com/matzehuels/zonelink/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() = %v", err)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load of missing file = %+v, want defaults", cfg)
	}
}

func TestLoadOverridesOnlyGivenKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[layout]
distance = 250.0
seed = 42

[store]
backend = "redis"
poll_interval = "5s"

[server]
tick = "500ms"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Layout.Distance != 250 || cfg.Layout.Seed != 42 {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Layout.Scale != 1 {
		t.Errorf("layout.scale = %v, want default 1", cfg.Layout.Scale)
	}
	if cfg.Store.Backend != BackendRedis || cfg.Store.PollInterval != 5*time.Second {
		t.Errorf("store = %+v", cfg.Store)
	}
	if cfg.Store.RedisAddr != "localhost:6379" {
		t.Errorf("store.redis_addr = %q, want default", cfg.Store.RedisAddr)
	}
	if cfg.Server.Tick != 500*time.Millisecond {
		t.Errorf("server.tick = %v, want 500ms", cfg.Server.Tick)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[layout\ndistance ="), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	if !zerrors.Is(err, zerrors.ErrCodeInvalidConfig) {
		t.Errorf("Load error = %v, want INVALID_CONFIG", err)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")

	cfg := Default()
	cfg.Layout.Distance = 180
	cfg.Layout.HomeZones = []string{"Thetford"}
	cfg.Store.Backend = BackendMongo
	cfg.Zones.CacheTTL = time.Hour

	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, cfg) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero distance", func(c *Config) { c.Layout.Distance = 0 }},
		{"negative scale", func(c *Config) { c.Layout.Scale = -1 }},
		{"zero viewport", func(c *Config) { c.Viewport.Width = 0 }},
		{"unknown backend", func(c *Config) { c.Store.Backend = "firestore" }},
		{"empty collection", func(c *Config) { c.Store.Collection = "" }},
		{"bad zones url", func(c *Config) { c.Zones.URL = "ftp://example.com" }},
		{"zero tick", func(c *Config) { c.Server.Tick = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !zerrors.Is(err, zerrors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() error code = %v, want INVALID_CONFIG", zerrors.GetCode(err))
			}
		})
	}
}

func TestValidateZonesFileSkipsURL(t *testing.T) {
	cfg := Default()
	cfg.Zones.URL = ""
	cfg.Zones.File = "zones.json"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil when a zones file is set", err)
	}
}

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/cfg")
	t.Setenv("XDG_DATA_HOME", "/data")

	if got := DefaultPath(); got != filepath.Join("/cfg", "zonelink", "config.toml") {
		t.Errorf("DefaultPath() = %s", got)
	}
	if got := DataDir(); got != filepath.Join("/data", "zonelink") {
		t.Errorf("DataDir() = %s", got)
	}
}

func TestLayoutConfig(t *testing.T) {
	cfg := Default()
	lc := cfg.LayoutConfig()
	if lc.Distance != cfg.Layout.Distance || lc.Scale != cfg.Layout.Scale {
		t.Errorf("LayoutConfig() = %+v", lc)
	}
	lc.HomeZones[0] = "mutated"
	if cfg.Layout.HomeZones[0] == "mutated" {
		t.Error("LayoutConfig() should copy home zones")
	}
	if vp := cfg.ViewportSize(); vp.Width != 1280 || vp.Height != 720 {
		t.Errorf("ViewportSize() = %+v", vp)
	}
}
