// Package window filters masonry placements down to the subset worth
// rendering for a given scroll position.
//
// The window is stateless: Visible is a pure function of the placement
// sequence and the query, so repeated queries over the same inputs always
// produce the same ordered subset. Hosts are expected to coalesce
// high-frequency scroll and resize signals before querying; the window
// itself tolerates being invoked arbitrarily often.
package window

import "github.com/cascadelayout/cascade/pkg/masonry"

// Default preload margins, expressed as screens-worth of extra content kept
// mounted beyond the strictly visible region.
const (
	DefaultTopPreload    = 0.0
	DefaultBottomPreload = 0.0
)

// Query describes one viewport observation. Queries are ephemeral: build a
// fresh one per scroll or resize signal.
type Query struct {
	// ScrollOffset is the document-relative position of the viewport's
	// leading edge along the layout axis.
	ScrollOffset float64 `json:"scroll_offset"`

	// ViewportExtent is the visible length along the layout axis.
	ViewportExtent float64 `json:"viewport_extent"`

	// ContainerOffset is the container's offset from the document origin,
	// in the same unit as the placement coordinates.
	ContainerOffset float64 `json:"container_offset"`

	// TopPreload and BottomPreload widen the window by that many
	// viewport-extents above and below the visible region.
	TopPreload    float64 `json:"top_preload"`
	BottomPreload float64 `json:"bottom_preload"`

	// Virtualize disables windowing entirely when false: Visible returns
	// the full placement sequence. This is the escape hatch for small
	// lists and for correctness comparison.
	Virtualize bool `json:"virtualize"`
}

// Bounds returns the extended visible range in the container's own
// coordinate space.
func (q Query) Bounds() (lower, upper float64) {
	start := q.ScrollOffset - q.ContainerOffset
	end := start + q.ViewportExtent
	return start - q.TopPreload*q.ViewportExtent, end + q.BottomPreload*q.ViewportExtent
}

// Overlaps reports whether the interval [top, bottom] intersects
// [lower, upper].
//
// The test is deliberately three-way: the item's top edge inside the bound,
// its bottom edge inside the bound, or the item spanning the whole bound.
// Heights vary, so a pure "top inside" check would drop tall items that
// straddle a boundary. The inclusive comparisons are permissive and may keep
// one extra item at each edge; that over-inclusion is the intended contract.
func Overlaps(top, bottom, lower, upper float64) bool {
	if top >= lower && top <= upper {
		return true
	}
	if bottom >= lower && bottom <= upper {
		return true
	}
	return top <= lower && bottom >= upper
}

// Visible returns the ordered subset of spaces intersecting the query's
// extended visible range. Ascending index order is preserved. An empty
// placement set yields an empty window, and a zero viewport extent collapses
// the window to items straddling a single point; neither is an error.
func Visible(spaces []masonry.Space, q Query) []masonry.Space {
	if !q.Virtualize {
		return spaces
	}
	lower, upper := q.Bounds()
	out := make([]masonry.Space, 0, len(spaces))
	for _, s := range spaces {
		if Overlaps(s.Top, s.Bottom, lower, upper) {
			out = append(out, s)
		}
	}
	return out
}
