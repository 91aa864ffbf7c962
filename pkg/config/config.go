// Package config loads Boardkit configuration from a TOML file.
//
// Configuration is optional: every field has a usable default, so both the
// CLI and the server run with no config file at all. A file only needs the
// sections it wants to override:
//
//	[server]
//	listen = ":9090"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//
//	[store]
//	backend = "mongo"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/boardkit/boardkit/pkg/errors"
)

// Cache backend names accepted in the [cache] section.
const (
	CacheBackendNone  = "none"
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
)

// Store backend names accepted in the [store] section.
const (
	StoreBackendMemory = "memory"
	StoreBackendMongo  = "mongo"
)

// Config is the full application configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Cache      CacheConfig      `toml:"cache"`
	Store      StoreConfig      `toml:"store"`
	Masonry    MasonryConfig    `toml:"masonry"`
	AutoResize AutoResizeConfig `toml:"autoresize"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	// Listen is the address the server binds to.
	Listen string `toml:"listen"`

	// ShutdownTimeout bounds graceful shutdown, in seconds.
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// CacheConfig configures the layout/artifact cache.
type CacheConfig struct {
	// Backend selects the cache implementation: none, file, or redis.
	Backend string `toml:"backend"`

	// Dir is the cache directory for the file backend. Empty means the
	// XDG cache directory.
	Dir string `toml:"dir"`

	// RedisAddr, RedisPassword, and RedisDB configure the redis backend.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// TTLHours is the lifetime of cached layout results in hours. Zero
	// means the built-in default.
	TTLHours int `toml:"ttl_hours"`
}

// TTL returns the configured entry lifetime as a duration.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLHours) * time.Hour
}

// StoreConfig configures board persistence.
type StoreConfig struct {
	// Backend selects the store implementation: memory or mongo.
	Backend string `toml:"backend"`

	// MongoURI and MongoDatabase configure the mongo backend.
	MongoURI      string `toml:"mongo_uri"`
	MongoDatabase string `toml:"mongo_database"`
}

// MasonryConfig sets the default masonry grid settings. Per-request
// settings always win over these.
type MasonryConfig struct {
	Columns int     `toml:"columns"`
	GapX    float64 `toml:"gap_x"`
	GapY    float64 `toml:"gap_y"`
}

// AutoResizeConfig sets default auto-resize tuning. Zero values fall
// through to the built-in frame defaults; per-request settings win.
type AutoResizeConfig struct {
	Padding   float64 `toml:"padding"`
	Threshold float64 `toml:"threshold"`
	Factor    float64 `toml:"factor"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Listen:          ":8080",
			ShutdownTimeout: 10,
		},
		Cache: CacheConfig{
			Backend:  CacheBackendFile,
			TTLHours: 24 * 7,
		},
		Store: StoreConfig{
			Backend:       StoreBackendMemory,
			MongoDatabase: "boardkit",
		},
		Masonry: MasonryConfig{
			Columns: 3,
			GapX:    16,
			GapY:    16,
		},
	}
}

// Load reads configuration from path, layered over Default. A missing file
// is not an error; an unreadable or invalid one is.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to parse config %s", path)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the configuration for values the application cannot use.
func (c Config) Validate() error {
	switch c.Cache.Backend {
	case CacheBackendNone, CacheBackendFile, CacheBackendRedis:
	default:
		return errors.New(errors.ErrCodeInvalidSettings, "invalid cache backend: %q", c.Cache.Backend)
	}

	if c.Cache.Backend == CacheBackendRedis && c.Cache.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidSettings, "cache backend redis requires redis_addr")
	}

	switch c.Store.Backend {
	case StoreBackendMemory, StoreBackendMongo:
	default:
		return errors.New(errors.ErrCodeInvalidSettings, "invalid store backend: %q", c.Store.Backend)
	}

	if c.Store.Backend == StoreBackendMongo && c.Store.MongoURI == "" {
		return errors.New(errors.ErrCodeInvalidSettings, "store backend mongo requires mongo_uri")
	}

	if c.Server.Listen == "" {
		return errors.New(errors.ErrCodeInvalidSettings, "server listen address cannot be empty")
	}

	if c.Masonry.Columns < 1 {
		return errors.New(errors.ErrCodeInvalidSettings, "masonry columns must be at least 1, got %d", c.Masonry.Columns)
	}
	if c.Masonry.GapX < 0 || c.Masonry.GapY < 0 {
		return errors.New(errors.ErrCodeInvalidSettings, "masonry gaps must be non-negative")
	}

	if c.AutoResize.Padding < 0 || c.AutoResize.Threshold < 0 {
		return errors.New(errors.ErrCodeInvalidSettings, "autoresize padding and threshold must be non-negative")
	}
	if c.AutoResize.Factor < 0 || c.AutoResize.Factor > 1 {
		return errors.New(errors.ErrCodeInvalidSettings, "autoresize factor must be in [0, 1], got %g", c.AutoResize.Factor)
	}

	return nil
}
