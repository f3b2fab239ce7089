// Package pipeline provides the core layout pipeline for Cascade.
//
// This package implements the complete resolve → layout → render pipeline
// that can be used by CLI, API, and TUI components. By centralizing this
// logic, we ensure consistent behavior across all entry points and avoid
// code duplication.
//
// # Architecture
//
// The pipeline consists of three cached stages plus one uncached query:
//
//  1. Resolve: Collect items from a feed source into a board
//  2. Layout: Place the board's items into a masonry snapshot
//  3. Render: Generate output in various formats (SVG, HTML, PNG, JSON)
//
// Window queries sit outside the cached stages: they fire per scroll signal
// and are cheap pure functions of the snapshot, so caching them would cost
// more than recomputing.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  "static",
//	    Count:   60,
//	    Width:   1200,
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Resolve only
//	b, err := runner.Resolve(ctx, opts)
//
//	// Layout with an existing board
//	snapshot, err := runner.Layout(ctx, b, opts)
//
//	// Window an existing snapshot
//	visible := runner.Window(ctx, snapshot, opts)
package pipeline

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/cascadelayout/cascade/pkg/cache"
	"github.com/cascadelayout/cascade/pkg/errors"
	"github.com/cascadelayout/cascade/pkg/feed"
	"github.com/cascadelayout/cascade/pkg/masonry"
	"github.com/cascadelayout/cascade/pkg/render"
	"github.com/cascadelayout/cascade/pkg/window"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and TUI
// =============================================================================

const (
	// DefaultWidth is the default container width in pixels.
	DefaultWidth = 1200.0

	// DefaultPadding is the default host-side container inset in pixels.
	DefaultPadding = 15.0

	// DefaultViewport is the default viewport extent for window queries.
	DefaultViewport = 900.0

	// DefaultSeed is the default seed for the static feed source.
	DefaultSeed = int64(42)

	// DefaultCount is the default item count for the static feed source.
	DefaultCount = 60
)

// DefaultSource is the default feed source.
const DefaultSource = feed.SourceStatic

// DefaultStyle is the default visual style.
const DefaultStyle = render.StyleLight

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Resolve options
	Source          string `json:"source"`
	Path            string `json:"path,omitempty"`             // Board file path (file source)
	URL             string `json:"url,omitempty"`              // Endpoint URL (http source)
	MongoURI        string `json:"mongo_uri,omitempty"`        // Connection string (mongo source)
	MongoDatabase   string `json:"mongo_database,omitempty"`   // Database name (mongo source)
	MongoCollection string `json:"mongo_collection,omitempty"` // Collection name (mongo source)
	Seed            int64  `json:"seed,omitempty"`             // Generator seed (static source)
	Count           int    `json:"count,omitempty"`            // Item count (static source)
	PerPage         int    `json:"per_page,omitempty"`
	MaxItems        int    `json:"max_items,omitempty"`
	Refresh         bool   `json:"refresh,omitempty"`

	// Layout options
	Width           float64 `json:"width,omitempty"`
	Padding         float64 `json:"padding,omitempty"`
	Gap             float64 `json:"gap,omitempty"`
	ItemMinWidth    float64 `json:"item_min_width,omitempty"`
	MinColumns      int     `json:"min_columns,omitempty"`
	MaxColumns      int     `json:"max_columns,omitempty"`
	SkipIncremental bool    `json:"skip_incremental,omitempty"` // Disable incremental recomputation (default: false = incremental on)

	// Window options
	Scroll          float64 `json:"scroll,omitempty"`
	Viewport        float64 `json:"viewport,omitempty"`
	ContainerOffset float64 `json:"container_offset,omitempty"`
	TopPreload      float64 `json:"top_preload,omitempty"`
	BottomPreload   float64 `json:"bottom_preload,omitempty"`
	NoVirtualize    bool    `json:"no_virtualize,omitempty"` // Disable windowing (default: false = virtualize)

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Style    string   `json:"style,omitempty"`
	Labels   bool     `json:"labels,omitempty"`
	Windowed bool     `json:"windowed,omitempty"` // Restrict rendered output to the window

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForResolve(); err != nil {
		return err
	}
	if err := o.ValidateForLayout(); err != nil {
		return err
	}
	if err := o.ValidateForWindow(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForResolve checks required fields for feed resolution.
func (o *Options) ValidateForResolve() error {
	if o.Source == "" {
		o.Source = DefaultSource
	}
	if !feed.ValidSources[o.Source] {
		return errors.New(errors.ErrCodeInvalidOptions,
			"invalid source: %q (must be one of: static, file, http, mongo)", o.Source)
	}

	switch o.Source {
	case feed.SourceFile:
		if o.Path == "" {
			return errors.New(errors.ErrCodeInvalidOptions, "path is required for the file source")
		}
	case feed.SourceHTTP:
		if o.URL == "" {
			return errors.New(errors.ErrCodeInvalidOptions, "url is required for the http source")
		}
		if err := errors.ValidateURL(o.URL); err != nil {
			return err
		}
	case feed.SourceMongo:
		if o.MongoURI == "" || o.MongoDatabase == "" || o.MongoCollection == "" {
			return errors.New(errors.ErrCodeInvalidOptions,
				"mongo_uri, mongo_database, and mongo_collection are required for the mongo source")
		}
	}

	// Resolve defaults
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Count == 0 {
		o.Count = DefaultCount
	}
	if o.PerPage == 0 {
		o.PerPage = feed.DefaultPerPage
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Padding == 0 {
		o.Padding = DefaultPadding
	}
	if o.Gap == 0 {
		o.Gap = masonry.DefaultGap
	}
	if o.ItemMinWidth == 0 {
		o.ItemMinWidth = masonry.DefaultItemMinWidth
	}
	if o.MinColumns == 0 {
		o.MinColumns = masonry.DefaultMinColumns
	}
	if o.MaxColumns == 0 {
		o.MaxColumns = masonry.DefaultMaxColumns
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForLayout validates and sets defaults for layout computation.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Width <= 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "width must be positive, got %v", o.Width)
	}
	if o.Padding < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "padding must not be negative, got %v", o.Padding)
	}
	if o.Gap < 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "gap must not be negative, got %v", o.Gap)
	}
	if o.ItemMinWidth <= 0 {
		return errors.New(errors.ErrCodeInvalidOptions, "item_min_width must be positive, got %v", o.ItemMinWidth)
	}
	return errors.ValidateColumnBounds(o.MinColumns, o.MaxColumns)
}

// SetWindowDefaults sets default values for window queries.
func (o *Options) SetWindowDefaults() {
	if o.Viewport == 0 {
		o.Viewport = DefaultViewport
	}
}

// ValidateForWindow validates and sets defaults for window queries.
func (o *Options) ValidateForWindow() error {
	o.SetWindowDefaults()
	if err := errors.ValidateScrollQuery(o.Scroll, o.Viewport); err != nil {
		return err
	}
	return errors.ValidatePreload(o.TopPreload, o.BottomPreload)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	for _, f := range o.Formats {
		if err := render.ValidateFormat(f); err != nil {
			return err
		}
	}
	return render.ValidateStyle(o.Style)
}

// UseIncremental returns whether the layout stage keeps the incremental
// recomputation path enabled.
func (o *Options) UseIncremental() bool {
	return !o.SkipIncremental
}

// Virtualize returns whether window queries filter at all.
func (o *Options) Virtualize() bool {
	return !o.NoVirtualize
}

// MasonryParams returns the layout engine parameters. The engine works over
// the usable width: the container width minus the horizontal padding.
func (o *Options) MasonryParams() masonry.Params {
	return masonry.Params{
		ContainerWidth: o.Width - 2*o.Padding,
		ItemMinWidth:   o.ItemMinWidth,
		Gap:            o.Gap,
		MinColumns:     o.MinColumns,
		MaxColumns:     o.MaxColumns,
		Cache:          o.UseIncremental(),
	}
}

// WindowQuery returns the viewport query for these options.
func (o *Options) WindowQuery() window.Query {
	return window.Query{
		ScrollOffset:    o.Scroll,
		ViewportExtent:  o.Viewport,
		ContainerOffset: o.ContainerOffset,
		TopPreload:      o.TopPreload,
		BottomPreload:   o.BottomPreload,
		Virtualize:      o.Virtualize(),
	}
}

// RenderOptions returns the functional options for the render package.
func (o *Options) RenderOptions() []render.Option {
	opts := []render.Option{render.WithStyle(o.Style)}
	if o.Labels {
		opts = append(opts, render.WithLabels())
	}
	if o.Windowed {
		opts = append(opts, render.WithWindow(o.WindowQuery()))
	}
	return opts
}

// BoardKeyOpts returns cache key options for feed resolution.
func (o *Options) BoardKeyOpts() cache.BoardKeyOpts {
	return cache.BoardKeyOpts{
		URL:     o.resolveLocator(),
		PerPage: o.PerPage,
		Pages:   o.MaxItems,
		Seed:    o.Seed,
		Count:   o.Count,
	}
}

// resolveLocator returns the source-specific locator that scopes a board key.
func (o *Options) resolveLocator() string {
	switch o.Source {
	case feed.SourceFile:
		return o.Path
	case feed.SourceHTTP:
		return o.URL
	case feed.SourceMongo:
		return o.MongoURI + "/" + o.MongoDatabase + "/" + o.MongoCollection
	}
	return ""
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Width:        o.Width,
		Padding:      o.Padding,
		Gap:          o.Gap,
		ItemMinWidth: o.ItemMinWidth,
		MinColumns:   o.MinColumns,
		MaxColumns:   o.MaxColumns,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	opts := cache.ArtifactKeyOpts{
		Format:   format,
		Style:    o.Style,
		Labels:   o.Labels,
		Windowed: o.Windowed,
	}
	if o.Windowed {
		opts.Scroll = o.Scroll
		opts.Viewport = o.Viewport
		opts.PreloadTop = o.TopPreload
		opts.PreloadBottom = o.BottomPreload
	}
	return opts
}
