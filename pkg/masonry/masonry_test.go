package masonry

import (
	"math"
	"testing"
)

// fixedHeight returns a MeasureFunc that ignores its inputs.
func fixedHeight(h float64) MeasureFunc {
	return func(int, float64) float64 { return h }
}

// variedHeight cycles through the given heights by index.
func variedHeight(heights ...float64) MeasureFunc {
	return func(i int, _ float64) float64 { return heights[i%len(heights)] }
}

func TestGridFor(t *testing.T) {
	tests := []struct {
		name      string
		params    Params
		columns   int
		itemWidth float64
	}{
		{
			name:      "wide container derives columns from width",
			params:    Params{ContainerWidth: 720, ItemMinWidth: 220, Gap: 15, MinColumns: 2, MaxColumns: 10},
			columns:   3,
			itemWidth: 230, // ceil((720 - 2*15) / 3)
		},
		{
			name:      "narrow container falls back to min columns",
			params:    Params{ContainerWidth: 300, ItemMinWidth: 220, Gap: 15, MinColumns: 2, MaxColumns: 10},
			columns:   2,
			itemWidth: 143, // ceil((300 - 15) / 2)
		},
		{
			name:      "max columns caps wide containers",
			params:    Params{ContainerWidth: 5000, ItemMinWidth: 220, Gap: 15, MinColumns: 2, MaxColumns: 10},
			columns:   10,
			itemWidth: 487, // ceil((5000 - 9*15) / 10)
		},
		{
			name:      "exactly two items wide subdivides",
			params:    Params{ContainerWidth: 440, ItemMinWidth: 220, Gap: 15, MinColumns: 2, MaxColumns: 10},
			columns:   2,
			itemWidth: 213, // ceil((440 - 15) / 2)
		},
		{
			name:      "item width rounds up",
			params:    Params{ContainerWidth: 700, ItemMinWidth: 220, Gap: 10, MinColumns: 2, MaxColumns: 10},
			columns:   3,
			itemWidth: 227, // (700 - 20) / 3 = 226.66...
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := GridFor(tt.params)
			if g.Columns != tt.columns {
				t.Errorf("Columns = %d, want %d", g.Columns, tt.columns)
			}
			if g.ItemWidth != tt.itemWidth {
				t.Errorf("ItemWidth = %g, want %g", g.ItemWidth, tt.itemWidth)
			}
		})
	}
}

func TestWithDefaults(t *testing.T) {
	p := Params{ContainerWidth: 720}.WithDefaults()
	if p.ItemMinWidth != DefaultItemMinWidth {
		t.Errorf("ItemMinWidth = %g, want %g", p.ItemMinWidth, DefaultItemMinWidth)
	}
	if p.Gap != DefaultGap {
		t.Errorf("Gap = %g, want %g", p.Gap, DefaultGap)
	}
	if p.MinColumns != DefaultMinColumns || p.MaxColumns != DefaultMaxColumns {
		t.Errorf("columns bounds = [%d, %d], want [%d, %d]",
			p.MinColumns, p.MaxColumns, DefaultMinColumns, DefaultMaxColumns)
	}
	if p.ContainerWidth != 720 {
		t.Errorf("ContainerWidth changed: %g", p.ContainerWidth)
	}

	// Explicit values survive.
	p2 := Params{ContainerWidth: 720, Gap: 8, MaxColumns: 4}.WithDefaults()
	if p2.Gap != 8 || p2.MaxColumns != 4 {
		t.Errorf("explicit values overwritten: gap=%g max=%d", p2.Gap, p2.MaxColumns)
	}
}

func TestRecomputeUniformScenario(t *testing.T) {
	// 30 items at height 200 across 3 columns with gap 15: each column holds
	// exactly 10 items, the i-th item in a column starting at i*215.
	params := Params{ContainerWidth: 720, ItemMinWidth: 220, Gap: 15, MinColumns: 2, MaxColumns: 10}
	l := Recompute(nil, 30, params, fixedHeight(200))

	if l.Grid().Columns != 3 {
		t.Fatalf("Columns = %d, want 3", l.Grid().Columns)
	}
	if l.Len() != 30 {
		t.Fatalf("Len = %d, want 30", l.Len())
	}

	perColumn := make(map[int]int)
	for _, s := range l.Spaces() {
		wantTop := float64(perColumn[s.Column]) * 215
		if s.Top != wantTop {
			t.Errorf("item %d: Top = %g, want %g", s.Index, s.Top, wantTop)
		}
		if s.Bottom != s.Top+200 {
			t.Errorf("item %d: Bottom = %g, want %g", s.Index, s.Bottom, s.Top+200)
		}
		perColumn[s.Column]++
	}
	for col, n := range perColumn {
		if n != 10 {
			t.Errorf("column %d holds %d items, want 10", col, n)
		}
	}

	for _, acc := range l.Columns() {
		if acc != 10*215 {
			t.Errorf("accumulator = %g, want %g", acc, 10*215.0)
		}
	}
	if l.Height() != 10*215 {
		t.Errorf("Height = %g, want %g", l.Height(), 10*215.0)
	}
}

func TestRecomputeLeftPositions(t *testing.T) {
	params := Params{ContainerWidth: 720, ItemMinWidth: 220, Gap: 15, MinColumns: 2, MaxColumns: 10}
	l := Recompute(nil, 3, params, fixedHeight(100))

	w := l.Grid().ItemWidth
	for _, s := range l.Spaces() {
		want := float64(s.Column) * (w + 15)
		if s.Left != want {
			t.Errorf("item %d: Left = %g, want %g", s.Index, s.Left, want)
		}
	}
}

func TestRecomputeBalancingInvariant(t *testing.T) {
	// Greedy shortest-column assignment bounds the spread between the
	// tallest and shortest column by the largest single item plus gap.
	heights := []float64{180, 320, 95, 240, 410, 150, 60, 275, 330, 120, 505, 90}
	params := Params{ContainerWidth: 960, ItemMinWidth: 220, Gap: 15, MinColumns: 2, MaxColumns: 10}
	l := Recompute(nil, 60, params, variedHeight(heights...))

	maxItem := 0.0
	for _, h := range heights {
		maxItem = math.Max(maxItem, h)
	}

	cols := l.Columns()
	minAcc, maxAcc := cols[0], cols[0]
	for _, c := range cols {
		minAcc = math.Min(minAcc, c)
		maxAcc = math.Max(maxAcc, c)
	}
	if maxAcc-minAcc > maxItem+params.Gap {
		t.Errorf("imbalance %g exceeds max item height %g + gap", maxAcc-minAcc, maxItem)
	}
}

func TestRecomputeNoOverlap(t *testing.T) {
	heights := []float64{75, 210, 340, 130, 55, 290}
	params := Params{ContainerWidth: 720, ItemMinWidth: 220, Gap: 15, MinColumns: 2, MaxColumns: 10}
	l := Recompute(nil, 40, params, variedHeight(heights...))

	// Bottoms must be non-decreasing per column and consecutive items in a
	// column must not overlap.
	lastBottom := make(map[int]float64)
	for _, s := range l.Spaces() {
		if prev, ok := lastBottom[s.Column]; ok && s.Top < prev {
			t.Errorf("item %d overlaps previous content in column %d: top %g < bottom %g",
				s.Index, s.Column, s.Top, prev)
		}
		lastBottom[s.Column] = s.Bottom
	}
}

func TestRecomputeDeterministicTieBreak(t *testing.T) {
	// Equal accumulators must resolve to the lowest column index so repeated
	// runs are reproducible.
	params := Params{ContainerWidth: 720, ItemMinWidth: 220, Gap: 15, MinColumns: 2, MaxColumns: 10}
	l := Recompute(nil, 3, params, fixedHeight(100))

	for i, s := range l.Spaces() {
		if s.Column != i {
			t.Errorf("item %d placed in column %d, want %d", i, s.Column, i)
		}
	}
}

func TestRecomputeIncrementalAppend(t *testing.T) {
	heights := []float64{120, 340, 90, 260, 180, 410, 75, 300}
	measure := variedHeight(heights...)
	params := Params{ContainerWidth: 720, ItemMinWidth: 220, Gap: 15, MinColumns: 2, MaxColumns: 10, Cache: true}

	first := Recompute(nil, 20, params, measure)
	appended := Recompute(first, 35, params, measure)
	fresh := Recompute(nil, 35, params, measure)

	if appended.Len() != 35 || fresh.Len() != 35 {
		t.Fatalf("lengths = %d, %d, want 35", appended.Len(), fresh.Len())
	}

	// Previously computed placements survive the append untouched.
	for i, s := range first.Spaces() {
		if appended.Spaces()[i] != s {
			t.Errorf("item %d changed under append: %+v != %+v", i, appended.Spaces()[i], s)
		}
	}

	// The appended tail matches a fresh full run.
	for i := range fresh.Spaces() {
		if appended.Spaces()[i] != fresh.Spaces()[i] {
			t.Errorf("item %d differs from fresh run: %+v != %+v", i, appended.Spaces()[i], fresh.Spaces()[i])
		}
	}

	ac, fc := appended.Columns(), fresh.Columns()
	for i := range fc {
		if ac[i] != fc[i] {
			t.Errorf("accumulator %d differs: %g != %g", i, ac[i], fc[i])
		}
	}
}

func TestRecomputeFullOnParamChange(t *testing.T) {
	measure := variedHeight(120, 340, 90, 260)
	params := Params{ContainerWidth: 720, ItemMinWidth: 220, Gap: 15, MinColumns: 2, MaxColumns: 10, Cache: true}
	prev := Recompute(nil, 10, params, measure)

	t.Run("width change", func(t *testing.T) {
		wider := params
		wider.ContainerWidth = 1200
		next := Recompute(prev, 15, wider, measure)
		if next.Grid() == prev.Grid() {
			t.Fatal("grid should differ after width change")
		}
		if next.Len() != 15 {
			t.Errorf("Len = %d, want 15", next.Len())
		}
	})

	t.Run("shrink forces full pass", func(t *testing.T) {
		next := Recompute(prev, 5, params, measure)
		want := Recompute(nil, 5, params, measure)
		for i := range want.Spaces() {
			if next.Spaces()[i] != want.Spaces()[i] {
				t.Errorf("item %d: %+v, want %+v", i, next.Spaces()[i], want.Spaces()[i])
			}
		}
	})

	t.Run("cache disabled ignores prev", func(t *testing.T) {
		noCache := params
		noCache.Cache = false
		next := Recompute(prev, 15, noCache, measure)
		want := Recompute(nil, 15, noCache, measure)
		for i := range want.Spaces() {
			if next.Spaces()[i] != want.Spaces()[i] {
				t.Errorf("item %d: %+v, want %+v", i, next.Spaces()[i], want.Spaces()[i])
			}
		}
	})
}

func TestRecomputeEmptyStates(t *testing.T) {
	measure := fixedHeight(100)
	params := Params{ContainerWidth: 720, ItemMinWidth: 220, Gap: 15, MinColumns: 2, MaxColumns: 10}

	t.Run("zero items", func(t *testing.T) {
		l := Recompute(nil, 0, params, measure)
		if l.Len() != 0 {
			t.Errorf("Len = %d, want 0", l.Len())
		}
		for _, c := range l.Columns() {
			if c != 0 {
				t.Errorf("accumulator = %g, want 0", c)
			}
		}
	})

	t.Run("zero width", func(t *testing.T) {
		p := params
		p.ContainerWidth = 0
		l := Recompute(nil, 10, p, measure)
		if l.Len() != 0 {
			t.Errorf("Len = %d, want 0", l.Len())
		}
		if l.Height() != 0 {
			t.Errorf("Height = %g, want 0", l.Height())
		}
	})

	t.Run("zero columns", func(t *testing.T) {
		p := Params{ContainerWidth: 100, ItemMinWidth: 220}
		l := Recompute(nil, 10, p, measure)
		if l.Len() != 0 {
			t.Errorf("Len = %d, want 0", l.Len())
		}
	})
}

func TestLayoutHeightEmpty(t *testing.T) {
	var l Layout
	if l.Height() != 0 {
		t.Errorf("empty layout Height = %g, want 0", l.Height())
	}
}
