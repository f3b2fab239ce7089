// Package masonry computes multi-column "waterfall" layout placements for
// ordered lists of variable-height items.
//
// The engine is purely computational: it owns no rendering surface, performs
// no I/O, and never blocks. Given a container width, column bounds, and a
// per-item height function, it assigns each item to the currently shortest
// column and produces a rectangle for it. Results are deterministic for
// identical inputs.
//
// # Incremental recomputation
//
// Layouts are recomputed through an explicit state transition:
//
//	next := masonry.Recompute(prev, count, params, measure)
//
// When caching is enabled and the update is a pure append (same resolved
// grid, strictly more items), Recompute reuses every previously computed
// placement and runs the loop only over the new indexes. Any other change
// forces a full pass from an all-zero accumulator. This is valid only
// because placements are immutable under append: earlier rectangles never
// move when items are added at the end.
//
// # Preconditions
//
// The height function must be a deterministic, side-effect-free function of
// (index, column width). Negative or NaN heights are a caller contract
// violation; the engine propagates whatever arithmetic results rather than
// validating, so host bugs surface immediately instead of producing silently
// clamped layouts.
package masonry

import "math"

// Default layout parameters shared by all hosts (CLI, server, TUI).
const (
	// DefaultItemMinWidth is the minimum column width in layout units.
	DefaultItemMinWidth = 220.0

	// DefaultGap is the spacing between columns and stacked items.
	DefaultGap = 15.0

	// DefaultMinColumns is the column count used for narrow containers.
	DefaultMinColumns = 2

	// DefaultMaxColumns caps the derived column count for wide containers.
	DefaultMaxColumns = 10
)

// MeasureFunc resolves the height of the item at index once its column width
// is known. It must be deterministic and side-effect-free: the incremental
// cache assumes a re-measured item always yields the same height for the
// same column width, regardless of call order or scroll position.
type MeasureFunc func(index int, columnWidth float64) float64

// Params are the inputs that determine the resolved grid.
type Params struct {
	// ContainerWidth is the usable width of the container in layout units.
	ContainerWidth float64

	// ItemMinWidth is the minimum width a column may occupy.
	ItemMinWidth float64

	// Gap is the spacing between columns and between stacked items.
	Gap float64

	// MinColumns is the column count for containers narrower than two items.
	MinColumns int

	// MaxColumns caps the derived column count.
	MaxColumns int

	// Cache enables the incremental append path. When false every call to
	// Recompute performs a full pass.
	Cache bool
}

// WithDefaults returns a copy of p with zero-valued fields replaced by the
// package defaults. ContainerWidth is left untouched: a zero width is a
// meaningful transient state (no container yet), not a missing parameter.
func (p Params) WithDefaults() Params {
	if p.ItemMinWidth == 0 {
		p.ItemMinWidth = DefaultItemMinWidth
	}
	if p.Gap == 0 {
		p.Gap = DefaultGap
	}
	if p.MinColumns == 0 {
		p.MinColumns = DefaultMinColumns
	}
	if p.MaxColumns == 0 {
		p.MaxColumns = DefaultMaxColumns
	}
	return p
}

// Grid is the resolved column geometry for a set of Params. Two layouts are
// append-compatible exactly when their grids are equal, so Grid equality
// drives the incremental-vs-full decision in Recompute.
type Grid struct {
	Columns   int     `json:"columns"`
	ItemWidth float64 `json:"item_width"`
	Gap       float64 `json:"gap"`
}

// GridFor derives the column count and item width from params.
//
// The container subdivides only when at least two minimum-width items fit
// side by side; narrower containers fall back to MinColumns rather than
// degenerating to a single oversized column. Item width rounds up so that
// sub-pixel remainders never accumulate into visible seams between columns.
func GridFor(p Params) Grid {
	cols := p.MinColumns
	if p.ItemMinWidth > 0 && p.ContainerWidth >= 2*p.ItemMinWidth {
		cols = int(math.Floor(p.ContainerWidth / p.ItemMinWidth))
		if p.MaxColumns > 0 && cols > p.MaxColumns {
			cols = p.MaxColumns
		}
	}
	g := Grid{Columns: cols, Gap: p.Gap}
	if cols > 0 {
		g.ItemWidth = math.Ceil((p.ContainerWidth - float64(cols-1)*p.Gap) / float64(cols))
	}
	return g
}

// Space is the computed placement for one item. Spaces are immutable once
// produced: under a pure append the engine only ever appends new ones.
type Space struct {
	Index  int     `json:"index"`  // position in the source list
	Column int     `json:"column"` // 0-based column assignment
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Height float64 `json:"height"`
	Bottom float64 `json:"bottom"` // Top + Height
}

// Layout is the engine state: the resolved grid, the per-column bottom
// accumulators, and the ordered placement for every item. A Layout is owned
// by exactly one engine sequence; consumers receive read-only views.
type Layout struct {
	grid    Grid
	columns []float64
	spaces  []Space
}

// Grid returns the resolved grid this layout was computed for.
func (l *Layout) Grid() Grid { return l.grid }

// Len returns the number of placed items.
func (l *Layout) Len() int { return len(l.spaces) }

// Spaces returns the ordered placements, index-aligned with the source list.
// The returned slice is a shared read-only view; callers must not modify it.
func (l *Layout) Spaces() []Space { return l.spaces }

// Columns returns a copy of the per-column accumulators. Each value is the
// bottom offset of the tallest-so-far content in that column, including the
// trailing gap.
func (l *Layout) Columns() []float64 {
	out := make([]float64, len(l.columns))
	copy(out, l.columns)
	return out
}

// Height returns the maximum accumulator value. Hosts use it to size the
// scroll spacer that stands in for unrendered content.
func (l *Layout) Height() float64 {
	var h float64
	for _, c := range l.columns {
		if c > h {
			h = c
		}
	}
	return h
}

// Recompute produces the layout for count items under params.
//
// If params.Cache is true, prev resolves to the same grid, and prev holds
// strictly fewer items than count, the update is treated as a pure append:
// prev's placements and accumulators carry over unchanged and only the new
// indexes are placed. Every other combination (grid changed, list shrank,
// caching disabled, no previous state) recomputes from scratch.
//
// Zero items, a non-positive container width, or a zero column count yield
// an empty layout with all-zero accumulators. These are expected transient
// states during mount, not errors.
func Recompute(prev *Layout, count int, params Params, measure MeasureFunc) *Layout {
	grid := GridFor(params)

	next := &Layout{grid: grid}
	if grid.Columns > 0 {
		next.columns = make([]float64, grid.Columns)
	}
	if count <= 0 || params.ContainerWidth <= 0 || grid.Columns <= 0 {
		return next
	}

	start := 0
	if params.Cache && prev != nil && prev.grid == grid && prev.Len() < count {
		start = prev.Len()
		copy(next.columns, prev.columns)
		next.spaces = append(next.spaces, prev.spaces...)
	}

	for i := start; i < count; i++ {
		col := shortestColumn(next.columns)
		top := next.columns[col]
		h := measure(i, grid.ItemWidth)
		next.spaces = append(next.spaces, Space{
			Index:  i,
			Column: col,
			Top:    top,
			Left:   float64(col) * (grid.ItemWidth + grid.Gap),
			Height: h,
			Bottom: top + h,
		})
		next.columns[col] = top + h + grid.Gap
	}

	return next
}

// shortestColumn returns the index of the minimum accumulator, ties broken
// by lowest column index. A linear scan is deliberate: column counts are
// small (at most DefaultMaxColumns), so a priority queue would buy nothing.
func shortestColumn(columns []float64) int {
	best := 0
	for i := 1; i < len(columns); i++ {
		if columns[i] < columns[best] {
			best = i
		}
	}
	return best
}
