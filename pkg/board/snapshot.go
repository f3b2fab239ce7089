package board

import (
	"encoding/json"
	"os"

	"github.com/cascadelayout/cascade/pkg/errors"
	"github.com/cascadelayout/cascade/pkg/masonry"
)

// =============================================================================
// Snapshot - Exported Placement Set
// =============================================================================

// Snapshot is the canonical layout-output document: the resolved grid, one
// placement per item, and the items themselves for downstream rendering.
//
// A Snapshot is an explicit export artifact produced on demand; the engine's
// live state is never persisted automatically. The window and render
// commands, the HTTP API, and the artifact cache all consume this format.
type Snapshot struct {
	// Resolved grid echo.
	Columns   int     `json:"columns"`
	ItemWidth float64 `json:"item_width"`
	Gap       float64 `json:"gap"`

	// Host geometry. Width is the full container width; Padding is the
	// host-side inset applied outside the core's coordinate space.
	Width   float64 `json:"width"`
	Padding float64 `json:"padding,omitempty"`

	// Height is the total layout extent (the scroll-spacer height).
	Height float64 `json:"height"`

	Count  int             `json:"count"`
	Spaces []masonry.Space `json:"spaces"`

	// Items carries the source items for renderers that draw labels or
	// colors. Optional: geometry-only consumers may strip it.
	Items []Item `json:"items,omitempty"`
}

// NewSnapshot assembles a snapshot from a computed layout and the board it
// was computed for. width and padding are the host geometry the layout's
// usable width was derived from.
func NewSnapshot(l *masonry.Layout, b *Board, width, padding float64) Snapshot {
	g := l.Grid()
	return Snapshot{
		Columns:   g.Columns,
		ItemWidth: g.ItemWidth,
		Gap:       g.Gap,
		Width:     width,
		Padding:   padding,
		Height:    l.Height(),
		Count:     l.Len(),
		Spaces:    l.Spaces(),
		Items:     b.Items,
	}
}

// Validate checks that the snapshot is internally consistent.
func (s *Snapshot) Validate() error {
	if s.Count != len(s.Spaces) {
		return errors.New(errors.ErrCodeInvalidLayout,
			"count %d does not match %d spaces", s.Count, len(s.Spaces))
	}
	if len(s.Items) > 0 && len(s.Items) != s.Count {
		return errors.New(errors.ErrCodeInvalidLayout,
			"%d items do not match %d spaces", len(s.Items), s.Count)
	}
	for i, sp := range s.Spaces {
		if sp.Index != i {
			return errors.New(errors.ErrCodeInvalidLayout,
				"space %d has index %d; spaces must be index-aligned", i, sp.Index)
		}
		if s.Columns > 0 && (sp.Column < 0 || sp.Column >= s.Columns) {
			return errors.New(errors.ErrCodeInvalidLayout,
				"space %d assigned to column %d of %d", i, sp.Column, s.Columns)
		}
	}
	return nil
}

// =============================================================================
// Serialization API
// =============================================================================

// MarshalSnapshot serializes a snapshot to pretty-printed JSON.
func MarshalSnapshot(s Snapshot) ([]byte, error) {
	return json.MarshalIndent(s, "", "  ")
}

// UnmarshalSnapshot deserializes and validates a snapshot.
func UnmarshalSnapshot(data []byte) (Snapshot, error) {
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeInvalidLayout, err, "unmarshal snapshot")
	}
	if err := s.Validate(); err != nil {
		return Snapshot{}, err
	}
	return s, nil
}

// WriteSnapshotFile writes a snapshot to a JSON file.
func WriteSnapshotFile(s Snapshot, path string) error {
	data, err := MarshalSnapshot(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadSnapshotFile reads and validates a snapshot from a JSON file.
func ReadSnapshotFile(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", path)
	}
	return UnmarshalSnapshot(data)
}
