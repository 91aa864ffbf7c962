// Package cache provides content-addressed caching for layout results and
// render artifacts.
//
// A board's layers hash to a stable content key, so identical inputs hit the
// cache no matter which client asked. Backends range from a no-op cache for
// tests through a file cache for CLI usage to Redis for the API server.
//
// # Key Types
//
// Three key families exist, one per expensive stage:
//   - Board keys: a stored board document, keyed by its id
//   - Layout keys: a board content hash plus the layout operation and its settings
//   - Artifact keys: a board content hash plus the render format
package cache

import (
	"context"
	"time"
)

// Default TTLs per key family. Layout results are cheap to recompute, so
// they expire sooner than rendered artifacts.
const (
	TTLBoard    = 7 * 24 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage interface all backends implement.
type Cache interface {
	// Get retrieves a value. The second return value reports whether the
	// key was present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with an optional TTL (0 means no expiration).
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the backend.
	Close() error
}

// LayoutKeyOpts are the settings that distinguish one layout computation
// from another over the same board content.
type LayoutKeyOpts struct {
	Operation string // masonry, sort, autoresize, selection
	Targets   string // encoded target layer ids, empty for the whole board
	Columns   int
	GapX      float64
	GapY      float64
	Normalize bool
	Alignment string
	Selection string // encoded marquee corners for selection queries
	Padding   float64
	Smart     bool
	Aspect    bool
	Clip      bool
	Threshold float64
	Factor    float64
}

// ArtifactKeyOpts distinguish rendered outputs of the same layout.
type ArtifactKeyOpts struct {
	Format string // svg, png, dot
	Width  int
	Height int
}

// Keyer generates cache keys for the three key families.
type Keyer interface {
	// BoardKey generates a key for a stored board document.
	BoardKey(id string) string

	// LayoutKey generates a key for a layout computation.
	LayoutKey(boardHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(boardHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard key generator.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// BoardKey generates a key for a stored board document.
func (k *DefaultKeyer) BoardKey(id string) string {
	return "board:" + id
}

// LayoutKey generates a key for layout caching. The options participate in
// the hash so different settings never collide.
func (k *DefaultKeyer) LayoutKey(boardHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", boardHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(boardHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", boardHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
