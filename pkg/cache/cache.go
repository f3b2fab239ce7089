// Package cache provides pluggable byte caching for the layout pipeline.
//
// The pipeline caches three artifact classes: resolved boards, computed
// layout snapshots, and rendered outputs. Each class gets its own keyspace
// through the [Keyer] interface and its own TTL. Backends range from a
// local file cache for CLI use to Redis for the server.
//
// Cache values are opaque byte slices; serialization is the caller's
// concern. A miss is never an error: Get returns (nil, false, nil) so
// callers fall through to recomputation.
package cache

import (
	"context"
	"time"
)

// TTLs per artifact class. Boards expire fastest since the upstream feed
// may grow; layouts and rendered artifacts are pure functions of their
// inputs and keep longer.
const (
	TTLBoard    = 1 * time.Hour
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
	TTLHTTP     = 1 * time.Hour
)

// Cache is the storage interface shared by all backends.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss.
// Errors are reserved for backend failures (I/O, network), not for absent
// keys. A ttl of 0 on Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// =============================================================================
// Keyer - Cache Key Construction
// =============================================================================

// BoardKeyOpts are the feed parameters that determine a resolved board.
type BoardKeyOpts struct {
	URL     string
	Pages   int
	PerPage int
	Seed    int64
	Count   int
}

// LayoutKeyOpts are the layout parameters that determine a snapshot.
// Two layout runs with equal board hashes and equal opts are identical,
// which is what makes the layout stage cacheable at all.
type LayoutKeyOpts struct {
	Width        float64
	Padding      float64
	Gap          float64
	ItemMinWidth float64
	MinColumns   int
	MaxColumns   int
}

// ArtifactKeyOpts are the render parameters that determine an artifact.
type ArtifactKeyOpts struct {
	Format        string
	Style         string
	Labels        bool
	Windowed      bool
	Scroll        float64
	Viewport      float64
	PreloadTop    float64
	PreloadBottom float64
}

// Keyer builds cache keys for each artifact class. Implementations must be
// deterministic: equal inputs always produce equal keys.
type Keyer interface {
	HTTPKey(namespace, key string) string
	BoardKey(source string, opts BoardKeyOpts) string
	LayoutKey(boardHash string, opts LayoutKeyOpts) string
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components with SHA-256 over their JSON encoding.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// HTTPKey generates a key for HTTP response caching.
func (k *DefaultKeyer) HTTPKey(namespace, key string) string {
	return "http:" + namespace + ":" + key
}

// BoardKey generates a key for resolved-board caching.
func (k *DefaultKeyer) BoardKey(source string, opts BoardKeyOpts) string {
	return hashKey("board", source, opts)
}

// LayoutKey generates a key for layout-snapshot caching.
func (k *DefaultKeyer) LayoutKey(boardHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", boardHash, opts)
}

// ArtifactKey generates a key for rendered-artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
