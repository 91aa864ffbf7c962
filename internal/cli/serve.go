package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/boardkit/boardkit/internal/server"
	"github.com/boardkit/boardkit/pkg/cache"
	"github.com/boardkit/boardkit/pkg/config"
	"github.com/boardkit/boardkit/pkg/engine"
	"github.com/boardkit/boardkit/pkg/store"
)

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var configPath, listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Boardkit HTTP API server",
		Long: `Run the Boardkit HTTP API server.

The server exposes stateless geometry endpoints under /v1/geometry and
stored-board endpoints under /v1/boards. Cache and store backends come
from the config file; --listen overrides the configured address.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.Listen = listen
			}
			return c.runServe(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "boardkit.toml", "path to the config file")
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides config)")

	return cmd
}

// runServe wires the configured backends and runs the server until the
// context is cancelled.
func (c *CLI) runServe(ctx context.Context, cfg config.Config) error {
	layoutCache, err := serveCache(ctx, cfg.Cache)
	if err != nil {
		return err
	}

	st, err := serveStore(ctx, cfg.Store)
	if err != nil {
		layoutCache.Close()
		return err
	}
	defer st.Close(context.Background())

	runner := engine.NewRunner(layoutCache, nil, c.Logger)
	runner.TTL = cfg.Cache.TTL()
	defer runner.Close()

	c.Logger.Info("starting server",
		"listen", cfg.Server.Listen,
		"cache", cfg.Cache.Backend,
		"store", cfg.Store.Backend)

	srv := server.New(runner, st, c.Logger)
	shutdown := time.Duration(cfg.Server.ShutdownTimeout) * time.Second
	return srv.ListenAndServe(ctx, cfg.Server.Listen, shutdown)
}

// serveCache builds the cache backend named in the config.
func serveCache(ctx context.Context, cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case config.CacheBackendRedis:
		return cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case config.CacheBackendFile:
		dir := cfg.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return cache.NewNullCache(), nil
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	default:
		return cache.NewNullCache(), nil
	}
}

// serveStore builds the store backend named in the config.
func serveStore(ctx context.Context, cfg config.StoreConfig) (store.Store, error) {
	if cfg.Backend == config.StoreBackendMongo {
		ms, err := store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return ms, nil
	}
	return store.NewMemoryStore(), nil
}
