package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/boardkit/boardkit/pkg/board"
	"github.com/boardkit/boardkit/pkg/cache"
	"github.com/boardkit/boardkit/pkg/observability"
)

// Runner encapsulates engine execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL overrides the lifetime of cached layout results. Zero means
	// cache.TTLLayout.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute validates the board, runs the requested operation with caching,
// and returns the result.
func (r *Runner) Execute(ctx context.Context, b board.Board, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	if err := b.Validate(); err != nil {
		return nil, fmt.Errorf("invalid board: %w", err)
	}

	snap := b.Snapshot()
	observability.Engine().OnOperationStart(ctx, opts.Op, snap.Len())

	start := time.Now()
	result, hit, err := r.executeWithCacheInfo(ctx, b, snap, opts)
	duration := time.Since(start)
	observability.Engine().OnOperationComplete(ctx, opts.Op, duration, err)
	if err != nil {
		return nil, err
	}

	result.Stats.LayerCount = snap.Len()
	result.Stats.ComputeTime = duration
	result.CacheInfo.LayoutHit = hit

	if opts.Op == OpAutoResize {
		for _, fr := range result.FrameResizes {
			observability.Engine().OnFrameResize(ctx, string(fr.ID), fr.Resize)
		}
	}

	r.Logger.Info("engine run complete",
		"op", opts.Op,
		"layers", snap.Len(),
		"cache_hit", hit,
		"duration", duration)

	return result, nil
}

// executeWithCacheInfo runs the operation, consulting the cache first.
// The cached payload is the Result body without stats; stats always reflect
// the current call.
func (r *Runner) executeWithCacheInfo(ctx context.Context, b board.Board, snap board.Snapshot, opts Options) (*Result, bool, error) {
	boardData, err := board.MarshalBoard(b)
	if err != nil {
		return nil, false, fmt.Errorf("hash board: %w", err)
	}
	boardHash := cache.Hash(boardData)
	cacheKey := r.Keyer.LayoutKey(boardHash, opts.LayoutKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached Result
			if json.Unmarshal(data, &cached) == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				cached.BoardHash = boardHash
				return &cached, true, nil
			}
			// Corrupt entry: fall through and recompute.
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	result, err := compute(snap, opts)
	if err != nil {
		return nil, false, err
	}
	result.BoardHash = boardHash

	if data, err := json.Marshal(result); err == nil {
		// Backend errors marked retryable (redis hiccups, mostly) get a
		// few attempts before the write is abandoned.
		setErr := cache.RetryWithBackoff(ctx, func() error {
			return r.Cache.Set(ctx, cacheKey, data, r.layoutTTL())
		})
		if setErr == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(data))
		}
	}

	return result, false, nil
}

// layoutTTL returns the lifetime for cached layout results.
func (r *Runner) layoutTTL() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return cache.TTLLayout
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
