package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/boardkit/boardkit/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "boardkit.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Listen != ":8080" {
		t.Errorf("Listen = %q, want :8080", cfg.Server.Listen)
	}
	if cfg.Cache.Backend != CacheBackendFile {
		t.Errorf("Cache.Backend = %q, want file", cfg.Cache.Backend)
	}
	if cfg.Store.Backend != StoreBackendMemory {
		t.Errorf("Store.Backend = %q, want memory", cfg.Store.Backend)
	}
	if cfg.Masonry.Columns != 3 {
		t.Errorf("Masonry.Columns = %d, want 3", cfg.Masonry.Columns)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
listen = ":9090"

[cache]
backend = "redis"
redis_addr = "localhost:6379"
ttl_hours = 2

[masonry]
columns = 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Listen != ":9090" {
		t.Errorf("Listen = %q, want :9090", cfg.Server.Listen)
	}
	if cfg.Cache.Backend != CacheBackendRedis || cfg.Cache.RedisAddr != "localhost:6379" {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Cache.TTL() != 2*time.Hour {
		t.Errorf("TTL = %v, want 2h", cfg.Cache.TTL())
	}
	if cfg.Masonry.Columns != 5 {
		t.Errorf("Masonry.Columns = %d, want 5", cfg.Masonry.Columns)
	}

	// Untouched sections keep defaults.
	if cfg.Store.Backend != StoreBackendMemory {
		t.Errorf("Store.Backend = %q, want memory", cfg.Store.Backend)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := writeConfig(t, "[server\nlisten=")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bogus cache backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without addr", func(c *Config) { c.Cache.Backend = CacheBackendRedis }},
		{"bogus store backend", func(c *Config) { c.Store.Backend = "sqlite" }},
		{"mongo without uri", func(c *Config) { c.Store.Backend = StoreBackendMongo }},
		{"empty listen", func(c *Config) { c.Server.Listen = "" }},
		{"zero columns", func(c *Config) { c.Masonry.Columns = 0 }},
		{"negative gap", func(c *Config) { c.Masonry.GapX = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, errors.ErrCodeInvalidSettings) {
				t.Errorf("wrong error code: %v", err)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestLoadRejectsBadAutoResize(t *testing.T) {
	for _, content := range []string{
		"[autoresize]\nfactor = 1.5\n",
		"[autoresize]\npadding = -4.0\n",
		"[autoresize]\nthreshold = -1.0\n",
	} {
		path := writeConfig(t, content)
		if _, err := Load(path); err == nil {
			t.Errorf("config %q should fail validation", content)
		}
	}
}
