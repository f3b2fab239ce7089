// Package board defines the serialization formats around the layout core:
// the item documents hosts feed in, and the placement snapshots they get
// back out.
//
// The core (pkg/masonry, pkg/window) works over opaque indexes and a height
// function; it never sees these types. A Board is the canonical input
// document for the reference hosts (CLI, server, TUI), and a Snapshot is
// the exported placement set they exchange and cache.
package board

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cascadelayout/cascade/pkg/errors"
	"github.com/cascadelayout/cascade/pkg/masonry"
)

// =============================================================================
// Item - Host-Owned Content
// =============================================================================

// Item is one entry in the source list. The layout core never reads an Item;
// only the host glue does, to derive heights and draw content.
//
// Width and Height are the item's natural dimensions (e.g. the pixel size of
// a photo). They exist to derive the aspect ratio; the laid-out height at a
// given column width comes from ScaledHeight.
//
// BSON tags exist for the Mongo feed backend, which stores boards as item
// collections ordered by Seq.
type Item struct {
	ID     string         `json:"id" bson:"id"`
	Label  string         `json:"label,omitempty" bson:"label,omitempty"`
	Width  float64        `json:"width" bson:"width"`
	Height float64        `json:"height" bson:"height"`
	Color  string         `json:"color,omitempty" bson:"color,omitempty"`
	URL    string         `json:"url,omitempty" bson:"url,omitempty"`
	Seq    int64          `json:"seq,omitempty" bson:"seq"`
	Meta   map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// ScaledHeight returns the item's height when rendered at columnWidth,
// preserving its natural aspect ratio. Items without a natural width keep
// their natural height unscaled.
func (it *Item) ScaledHeight(columnWidth float64) float64 {
	if it.Width <= 0 {
		return it.Height
	}
	return it.Height * columnWidth / it.Width
}

// =============================================================================
// Board - Canonical Input Document
// =============================================================================

// Board is an ordered list of items plus free-form metadata. Order is
// significant: placement scans items in list order, and the incremental
// layout path requires appends to preserve it.
type Board struct {
	Items []Item         `json:"items" bson:"items"`
	Meta  map[string]any `json:"meta,omitempty" bson:"meta,omitempty"`
}

// Len returns the number of items.
func (b *Board) Len() int { return len(b.Items) }

// Measure returns the aspect-scaling height resolver for this board. This is
// the standard resolver hosts hand to the layout engine; the engine itself
// stays resolver-agnostic.
//
// The returned function is only valid while the board's item list is not
// reordered or shrunk.
func (b *Board) Measure() masonry.MeasureFunc {
	return func(i int, columnWidth float64) float64 {
		return b.Items[i].ScaledHeight(columnWidth)
	}
}

// Validate checks structural invariants: every item needs a safe, unique ID
// and a well-formed color. Dimension values are not validated here; a
// negative height is a height-resolver contract violation surfaced by the
// host, not a decode error.
func (b *Board) Validate() error {
	seen := make(map[string]bool, len(b.Items))
	for i, it := range b.Items {
		if err := errors.ValidateItemID(it.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidBoard, err, "item %d", i)
		}
		if seen[it.ID] {
			return errors.New(errors.ErrCodeInvalidBoard, "duplicate item id %q", it.ID)
		}
		seen[it.ID] = true
		if err := errors.ValidateHexColor(it.Color); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidBoard, err, "item %q", it.ID)
		}
	}
	return nil
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalBoard serializes a board to pretty-printed JSON.
func MarshalBoard(b *Board) ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// UnmarshalBoard deserializes and validates a board.
func UnmarshalBoard(data []byte) (*Board, error) {
	var b Board
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidBoard, err, "unmarshal board")
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// WriteBoardFile writes a board to a JSON file.
func WriteBoardFile(b *Board, path string) error {
	data, err := MarshalBoard(b)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadBoardFile reads and validates a board from a JSON file.
func ReadBoardFile(path string) (*Board, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalBoard(data)
}
