package pipeline

import (
	"context"
	"testing"

	"github.com/cascadelayout/cascade/pkg/board"
	"github.com/cascadelayout/cascade/pkg/cache"
	"github.com/cascadelayout/cascade/pkg/render"
)

func staticOptions() Options {
	return Options{
		Source:  "static",
		Seed:    7,
		Count:   30,
		Width:   750,
		Formats: []string{render.FormatJSON},
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}

	if opts.Source != DefaultSource {
		t.Errorf("Source = %q, want %q", opts.Source, DefaultSource)
	}
	if opts.Width != DefaultWidth {
		t.Errorf("Width = %v, want %v", opts.Width, DefaultWidth)
	}
	if opts.Padding != DefaultPadding {
		t.Errorf("Padding = %v, want %v", opts.Padding, DefaultPadding)
	}
	if opts.Gap != 15 || opts.ItemMinWidth != 220 {
		t.Errorf("Gap = %v, ItemMinWidth = %v, want 15, 220", opts.Gap, opts.ItemMinWidth)
	}
	if opts.MinColumns != 2 || opts.MaxColumns != 10 {
		t.Errorf("columns = [%d, %d], want [2, 10]", opts.MinColumns, opts.MaxColumns)
	}
	if !opts.Virtualize() {
		t.Error("Virtualize() = false, want true by default")
	}
	if !opts.UseIncremental() {
		t.Error("UseIncremental() = false, want true by default")
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != render.FormatSVG {
		t.Errorf("Formats = %v, want [svg]", opts.Formats)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style = %q, want %q", opts.Style, DefaultStyle)
	}

	// Idempotent: a second call must not change anything.
	before := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("second ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Width != before.Width || opts.Source != before.Source {
		t.Error("second ValidateAndSetDefaults() changed options")
	}
}

func TestValidateOptionsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"unknown source", Options{Source: "carrier-pigeon"}},
		{"file source without path", Options{Source: "file"}},
		{"http source without url", Options{Source: "http"}},
		{"mongo source without uri", Options{Source: "mongo"}},
		{"negative width", Options{Width: -100}},
		{"negative gap", Options{Gap: -1}},
		{"min above max columns", Options{MinColumns: 8, MaxColumns: 3}},
		{"negative top preload", Options{TopPreload: -0.5}},
		{"negative bottom preload", Options{BottomPreload: -0.5}},
		{"unknown format", Options{Formats: []string{"pdf"}}},
		{"unknown style", Options{Style: "neon"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err == nil {
				t.Error("ValidateAndSetDefaults() error = nil, want error")
			}
		})
	}
}

func TestExecute(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(cache.NewMemoryCache(), nil, nil)
	defer runner.Close()

	result, err := runner.Execute(ctx, staticOptions())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if result.Stats.ItemCount != 30 {
		t.Errorf("ItemCount = %d, want 30", result.Stats.ItemCount)
	}
	if result.Snapshot.Count != 30 {
		t.Errorf("Snapshot.Count = %d, want 30", result.Snapshot.Count)
	}
	if result.Stats.Columns < 2 {
		t.Errorf("Columns = %d, want at least 2", result.Stats.Columns)
	}
	if result.BoardHash == "" {
		t.Error("BoardHash is empty")
	}
	if len(result.Artifacts[render.FormatJSON]) == 0 {
		t.Error("missing json artifact")
	}
	if result.CacheInfo.ResolveHit || result.CacheInfo.LayoutHit || result.CacheInfo.RenderHit {
		t.Errorf("first run hit the cache: %+v", result.CacheInfo)
	}

	// Snapshot artifact must round-trip through the board package.
	if _, err := board.UnmarshalSnapshot(result.Artifacts[render.FormatJSON]); err != nil {
		t.Errorf("json artifact is not a valid snapshot: %v", err)
	}
}

func TestExecuteCachesAllStages(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(cache.NewMemoryCache(), nil, nil)
	defer runner.Close()

	if _, err := runner.Execute(ctx, staticOptions()); err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}

	result, err := runner.Execute(ctx, staticOptions())
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !result.CacheInfo.ResolveHit {
		t.Error("second run missed the board cache")
	}
	if !result.CacheInfo.LayoutHit {
		t.Error("second run missed the layout cache")
	}
	if !result.CacheInfo.RenderHit {
		t.Error("second run missed the artifact cache")
	}
}

func TestExecuteRefreshSkipsBoardCache(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(cache.NewMemoryCache(), nil, nil)
	defer runner.Close()

	if _, err := runner.Execute(ctx, staticOptions()); err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}

	opts := staticOptions()
	opts.Refresh = true
	result, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("refresh Execute() error = %v", err)
	}
	if result.CacheInfo.ResolveHit {
		t.Error("refresh run hit the board cache")
	}
}

func TestLayoutCacheKeyedByParams(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(cache.NewMemoryCache(), nil, nil)
	defer runner.Close()

	b, err := runner.Resolve(ctx, staticOptions())
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}

	opts := staticOptions()
	if _, err := runner.Layout(ctx, b, opts); err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	// Same board, same params: hit.
	_, hit, err := runner.LayoutWithCacheInfo(ctx, b, opts)
	if err != nil {
		t.Fatalf("LayoutWithCacheInfo() error = %v", err)
	}
	if !hit {
		t.Error("same params missed the layout cache")
	}

	// Same board, different width: miss.
	wider := staticOptions()
	wider.Width = 1400
	_, hit, err = runner.LayoutWithCacheInfo(ctx, b, wider)
	if err != nil {
		t.Fatalf("LayoutWithCacheInfo() error = %v", err)
	}
	if hit {
		t.Error("different width hit the layout cache")
	}
}

func TestWindowStage(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	opts := staticOptions()
	b, err := runner.Resolve(ctx, opts)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	snapshot, err := runner.Layout(ctx, b, opts)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	opts.Scroll = 0
	opts.Viewport = 600
	visible := runner.Window(ctx, snapshot, opts)
	if len(visible) == 0 {
		t.Fatal("window returned no spaces")
	}
	if len(visible) >= snapshot.Count {
		t.Errorf("window kept %d of %d spaces, want a strict subset", len(visible), snapshot.Count)
	}

	// Virtualization off: full sequence.
	opts.NoVirtualize = true
	all := runner.Window(ctx, snapshot, opts)
	if len(all) != snapshot.Count {
		t.Errorf("bypass returned %d spaces, want %d", len(all), snapshot.Count)
	}
}

func TestRenderWindowedArtifactsKeyedByQuery(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(cache.NewMemoryCache(), nil, nil)
	defer runner.Close()

	opts := staticOptions()
	opts.Formats = []string{render.FormatSVG}
	opts.Windowed = true
	opts.Viewport = 600

	b, err := runner.Resolve(ctx, opts)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	snapshot, err := runner.Layout(ctx, b, opts)
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}

	if _, err := runner.Render(ctx, snapshot, opts); err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	// Same query: hit.
	_, hit, err := runner.RenderWithCacheInfo(ctx, snapshot, opts)
	if err != nil {
		t.Fatalf("RenderWithCacheInfo() error = %v", err)
	}
	if !hit {
		t.Error("same query missed the artifact cache")
	}

	// Different scroll position: miss.
	scrolled := opts
	scrolled.Scroll = 800
	_, hit, err = runner.RenderWithCacheInfo(ctx, snapshot, scrolled)
	if err != nil {
		t.Fatalf("RenderWithCacheInfo() error = %v", err)
	}
	if hit {
		t.Error("different scroll hit the artifact cache")
	}
}

func TestExecuteWithoutCache(t *testing.T) {
	ctx := context.Background()
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(ctx, staticOptions())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if result.Snapshot.Count != 30 {
		t.Errorf("Snapshot.Count = %d, want 30", result.Snapshot.Count)
	}
}
