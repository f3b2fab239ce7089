package board

import (
	"path/filepath"
	"testing"

	"github.com/cascadelayout/cascade/pkg/errors"
	"github.com/cascadelayout/cascade/pkg/masonry"
)

func TestScaledHeight(t *testing.T) {
	tests := []struct {
		name        string
		item        Item
		columnWidth float64
		want        float64
	}{
		{"downscale", Item{Width: 800, Height: 600}, 400, 300},
		{"upscale", Item{Width: 200, Height: 100}, 400, 200},
		{"same width", Item{Width: 400, Height: 250}, 400, 250},
		{"no natural width", Item{Width: 0, Height: 180}, 400, 180},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.item.ScaledHeight(tt.columnWidth); got != tt.want {
				t.Errorf("ScaledHeight(%v) = %v, want %v", tt.columnWidth, got, tt.want)
			}
		})
	}
}

func TestBoardValidate(t *testing.T) {
	tests := []struct {
		name    string
		board   Board
		wantErr bool
	}{
		{"empty board", Board{}, false},
		{"valid items", Board{Items: []Item{{ID: "a"}, {ID: "b"}}}, false},
		{"missing id", Board{Items: []Item{{ID: "a"}, {}}}, true},
		{"duplicate id", Board{Items: []Item{{ID: "a"}, {ID: "a"}}}, true},
		{"traversal id", Board{Items: []Item{{ID: "../escape"}}}, true},
		{"hex color", Board{Items: []Item{{ID: "a", Color: "#4e79a7"}}}, false},
		{"bad color", Board{Items: []Item{{ID: "a", Color: "blue"}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.board.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && errors.GetCode(err) != errors.ErrCodeInvalidBoard {
				t.Errorf("GetCode() = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidBoard)
			}
		})
	}
}

func TestBoardMeasure(t *testing.T) {
	b := &Board{Items: []Item{
		{ID: "a", Width: 800, Height: 600},
		{ID: "b", Width: 400, Height: 400},
	}}
	measure := b.Measure()

	if got := measure(0, 400); got != 300 {
		t.Errorf("measure(0, 400) = %v, want 300", got)
	}
	if got := measure(1, 200); got != 200 {
		t.Errorf("measure(1, 200) = %v, want 200", got)
	}
}

func TestBoardRoundTrip(t *testing.T) {
	b := &Board{
		Items: []Item{
			{ID: "a", Label: "first", Width: 640, Height: 480, Color: "#ff0000", Seq: 0},
			{ID: "b", Width: 400, Height: 300, Seq: 1, Meta: map[string]any{"tag": "x"}},
		},
		Meta: map[string]any{"source": "test"},
	}

	path := filepath.Join(t.TempDir(), "board.json")
	if err := WriteBoardFile(b, path); err != nil {
		t.Fatalf("WriteBoardFile() error = %v", err)
	}

	got, err := ReadBoardFile(path)
	if err != nil {
		t.Fatalf("ReadBoardFile() error = %v", err)
	}
	if got.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", got.Len())
	}
	if got.Items[0].ID != "a" || got.Items[0].Label != "first" {
		t.Errorf("item 0 = %+v", got.Items[0])
	}
	if got.Items[1].Meta["tag"] != "x" {
		t.Errorf("item 1 meta = %v, want tag x", got.Items[1].Meta)
	}
}

func TestUnmarshalBoardRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed json", `{"items": [`},
		{"duplicate ids", `{"items": [{"id": "a"}, {"id": "a"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UnmarshalBoard([]byte(tt.data)); err == nil {
				t.Error("UnmarshalBoard() error = nil, want error")
			}
		})
	}
}

func TestSnapshotFromLayout(t *testing.T) {
	b := &Board{Items: []Item{
		{ID: "a", Width: 400, Height: 400},
		{ID: "b", Width: 400, Height: 400},
		{ID: "c", Width: 400, Height: 400},
	}}
	params := masonry.Params{ContainerWidth: 720}.WithDefaults()
	l := masonry.Recompute(nil, b.Len(), params, b.Measure())

	s := NewSnapshot(l, b, 750, 15)
	if err := s.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if s.Columns != 3 {
		t.Errorf("Columns = %d, want 3", s.Columns)
	}
	if s.Count != 3 || len(s.Spaces) != 3 || len(s.Items) != 3 {
		t.Errorf("Count = %d, spaces = %d, items = %d, want 3 each",
			s.Count, len(s.Spaces), len(s.Items))
	}
	if s.Width != 750 || s.Padding != 15 {
		t.Errorf("Width = %v, Padding = %v, want 750, 15", s.Width, s.Padding)
	}
	if s.Height != l.Height() {
		t.Errorf("Height = %v, want %v", s.Height, l.Height())
	}
}

func TestSnapshotValidate(t *testing.T) {
	valid := Snapshot{
		Columns: 2,
		Count:   2,
		Spaces: []masonry.Space{
			{Index: 0, Column: 0},
			{Index: 1, Column: 1},
		},
	}

	t.Run("valid", func(t *testing.T) {
		if err := valid.Validate(); err != nil {
			t.Errorf("Validate() error = %v", err)
		}
	})

	t.Run("count mismatch", func(t *testing.T) {
		s := valid
		s.Count = 3
		if err := s.Validate(); err == nil {
			t.Error("Validate() error = nil, want error")
		}
	})

	t.Run("misaligned index", func(t *testing.T) {
		s := valid
		s.Spaces = []masonry.Space{{Index: 1, Column: 0}, {Index: 0, Column: 1}}
		if err := s.Validate(); err == nil {
			t.Error("Validate() error = nil, want error")
		}
	})

	t.Run("column out of range", func(t *testing.T) {
		s := valid
		s.Spaces = []masonry.Space{{Index: 0, Column: 0}, {Index: 1, Column: 2}}
		if err := s.Validate(); err == nil {
			t.Error("Validate() error = nil, want error")
		}
	})

	t.Run("item count mismatch", func(t *testing.T) {
		s := valid
		s.Items = []Item{{ID: "a"}}
		if err := s.Validate(); err == nil {
			t.Error("Validate() error = nil, want error")
		}
	})
}

func TestSnapshotRoundTrip(t *testing.T) {
	s := Snapshot{
		Columns:   3,
		ItemWidth: 230,
		Gap:       15,
		Width:     750,
		Padding:   15,
		Height:    430,
		Count:     1,
		Spaces:    []masonry.Space{{Index: 0, Column: 0, Top: 0, Left: 0, Height: 200, Bottom: 200}},
		Items:     []Item{{ID: "a", Width: 460, Height: 400}},
	}

	path := filepath.Join(t.TempDir(), "snapshot.json")
	if err := WriteSnapshotFile(s, path); err != nil {
		t.Fatalf("WriteSnapshotFile() error = %v", err)
	}

	got, err := ReadSnapshotFile(path)
	if err != nil {
		t.Fatalf("ReadSnapshotFile() error = %v", err)
	}
	if got.Columns != 3 || got.Count != 1 || got.Spaces[0].Height != 200 {
		t.Errorf("round trip = %+v", got)
	}
}

func TestReadSnapshotFileMissing(t *testing.T) {
	_, err := ReadSnapshotFile(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("ReadSnapshotFile() error = nil, want error")
	}
	if errors.GetCode(err) != errors.ErrCodeFileNotFound {
		t.Errorf("GetCode() = %v, want %v", errors.GetCode(err), errors.ErrCodeFileNotFound)
	}
}
