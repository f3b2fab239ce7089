package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cascadelayout/cascade/pkg/board"
	"github.com/cascadelayout/cascade/pkg/cache"
	"github.com/cascadelayout/cascade/pkg/feed"
	"github.com/cascadelayout/cascade/pkg/masonry"
	"github.com/cascadelayout/cascade/pkg/observability"
	"github.com/cascadelayout/cascade/pkg/render"
	"github.com/cascadelayout/cascade/pkg/window"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
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

// Result contains the outputs of a pipeline run.
type Result struct {
	// Board is the resolved item list.
	Board *board.Board

	// BoardHash is the content hash of the board.
	BoardHash string

	// Snapshot is the computed placement set.
	Snapshot board.Snapshot

	// Visible is the windowed subset of the snapshot's spaces. Populated
	// only when the options carry a windowed render or a window query was
	// requested; otherwise it equals the full space list.
	Visible []masonry.Space

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ItemCount    int
	Columns      int
	VisibleCount int
	ResolveTime  time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ResolveHit bool // Whether the resolved board came from cache
	LayoutHit  bool // Whether the layout snapshot came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// Execute runs the complete resolve → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Resolve
	resolveStart := time.Now()
	b, resolveHit, err := r.ResolveWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("resolve: %w", err)
	}
	result.Board = b
	result.Stats.ResolveTime = time.Since(resolveStart)
	result.Stats.ItemCount = b.Len()
	result.CacheInfo.ResolveHit = resolveHit

	// Compute board hash for cache keys and API responses
	if boardData, err := board.MarshalBoard(b); err == nil {
		result.BoardHash = cache.Hash(boardData)
	}

	r.Logger.Info("resolved feed",
		"source", opts.Source,
		"items", b.Len(),
		"duration", result.Stats.ResolveTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	snapshot, layoutHit, err := r.LayoutWithCacheInfo(ctx, b, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Snapshot = snapshot
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.Columns = snapshot.Columns
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"items", snapshot.Count,
		"columns", snapshot.Columns,
		"height", snapshot.Height,
		"duration", result.Stats.LayoutTime)

	// Window query (uncached, pure)
	result.Visible = r.Window(ctx, snapshot, opts)
	result.Stats.VisibleCount = len(result.Visible)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, snapshot, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// ResolveWithCacheInfo collects items from the feed source with caching and
// returns cache hit info.
func (r *Runner) ResolveWithCacheInfo(ctx context.Context, opts Options) (*board.Board, bool, error) {
	if err := opts.ValidateForResolve(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey := r.Keyer.BoardKey(opts.Source, opts.BoardKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if b, err := board.UnmarshalBoard(data); err == nil {
				return b, true, nil // Cache hit
			}
		}
	}

	start := time.Now()
	observability.Pipeline().OnResolveStart(ctx, opts.Source)

	b, err := r.resolve(ctx, opts)
	observability.Pipeline().OnResolveComplete(ctx, opts.Source, boardLen(b), time.Since(start), err)
	if err != nil {
		return nil, false, err
	}
	if err := b.Validate(); err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := board.MarshalBoard(b); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLBoard)
	}

	return b, false, nil // Cache miss
}

// Resolve is a convenience wrapper that calls ResolveWithCacheInfo and discards the cache hit info.
func (r *Runner) Resolve(ctx context.Context, opts Options) (*board.Board, error) {
	b, _, err := r.ResolveWithCacheInfo(ctx, opts)
	return b, err
}

// resolve builds the feed source for opts and drains it.
func (r *Runner) resolve(ctx context.Context, opts Options) (*board.Board, error) {
	src, err := r.openSource(ctx, opts)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	return feed.Collect(ctx, src, opts.PerPage, opts.MaxItems)
}

// openSource constructs the feed backend named by the options.
func (r *Runner) openSource(ctx context.Context, opts Options) (feed.Source, error) {
	switch opts.Source {
	case feed.SourceStatic:
		return feed.NewStatic(opts.Seed, opts.Count), nil
	case feed.SourceFile:
		return feed.NewFile(opts.Path)
	case feed.SourceHTTP:
		return feed.NewHTTP(opts.URL, r.Cache)
	case feed.SourceMongo:
		return feed.NewMongo(ctx, opts.MongoURI, opts.MongoDatabase, opts.MongoCollection)
	}
	return nil, fmt.Errorf("unreachable source %q", opts.Source)
}

// LayoutWithCacheInfo computes the placement snapshot with caching and
// returns cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, b *board.Board, opts Options) (board.Snapshot, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return board.Snapshot{}, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key
	boardData, err := board.MarshalBoard(b)
	if err != nil {
		return board.Snapshot{}, false, fmt.Errorf("serialize board for cache key: %w", err)
	}
	boardHash := cache.Hash(boardData)
	cacheKey := r.Keyer.LayoutKey(boardHash, opts.LayoutKeyOpts())

	// Try cache first
	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		cached, err := board.UnmarshalSnapshot(data)
		if err == nil {
			return cached, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
	}

	start := time.Now()
	observability.Pipeline().OnLayoutStart(ctx, b.Len())

	layout := masonry.Recompute(nil, b.Len(), opts.MasonryParams(), b.Measure())
	snapshot := board.NewSnapshot(layout, b, opts.Width, opts.Padding)

	observability.Pipeline().OnLayoutComplete(ctx, snapshot.Count, snapshot.Columns, time.Since(start), nil)

	// Cache the result
	if data, err := board.MarshalSnapshot(snapshot); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	}

	return snapshot, false, nil // Cache miss
}

// Layout is a convenience wrapper that calls LayoutWithCacheInfo and discards the cache hit info.
func (r *Runner) Layout(ctx context.Context, b *board.Board, opts Options) (board.Snapshot, error) {
	snapshot, _, err := r.LayoutWithCacheInfo(ctx, b, opts)
	return snapshot, err
}

// Window returns the visible subset of the snapshot's spaces for the
// options' scroll query. Window queries are never cached: they fire per
// scroll signal and cost a single linear scan.
func (r *Runner) Window(ctx context.Context, s board.Snapshot, opts Options) []masonry.Space {
	opts.SetWindowDefaults()
	visible := window.Visible(s.Spaces, opts.WindowQuery())
	observability.Window().OnWindowQuery(ctx, len(s.Spaces), len(visible))
	return visible
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, s board.Snapshot, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	if err := opts.ValidateForWindow(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from snapshot data
	snapshotData, err := board.MarshalSnapshot(s)
	if err != nil {
		return nil, false, fmt.Errorf("serialize snapshot for cache key: %w", err)
	}
	layoutHash := cache.Hash(snapshotData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil // All artifacts from cache
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)

	rendered := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, err := render.Render(s, format, opts.RenderOptions()...)
		if err != nil {
			observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
			return nil, false, fmt.Errorf("render %s: %w", format, err)
		}
		rendered[format] = data
	}
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), nil)

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, s board.Snapshot, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, s, opts)
	return artifacts, err
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

func boardLen(b *board.Board) int {
	if b == nil {
		return 0
	}
	return b.Len()
}
