package feed

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"strconv"
	"testing"

	"github.com/cascadelayout/cascade/pkg/board"
)

func TestStaticDeterministic(t *testing.T) {
	ctx := context.Background()

	a := NewStatic(42, 20)
	b := NewStatic(42, 20)

	itemsA, err := a.Fetch(ctx, 1, 20)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	itemsB, err := b.Fetch(ctx, 1, 20)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	if len(itemsA) != 20 {
		t.Fatalf("len(items) = %d, want 20", len(itemsA))
	}
	for i := range itemsA {
		if !reflect.DeepEqual(itemsA[i], itemsB[i]) {
			t.Errorf("item %d differs between runs: %+v vs %+v", i, itemsA[i], itemsB[i])
		}
	}
}

func TestStaticPagesAgreeWithSequentialScan(t *testing.T) {
	ctx := context.Background()
	src := NewStatic(7, 25)

	full, err := src.Fetch(ctx, 1, 25)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	// Fetch pages out of order and check each slice against the full scan.
	for _, page := range []int{3, 1, 2} {
		items, err := src.Fetch(ctx, page, 10)
		if err != nil {
			t.Fatalf("Fetch(page=%d) error = %v", page, err)
		}
		start := (page - 1) * 10
		for i, it := range items {
			if !reflect.DeepEqual(it, full[start+i]) {
				t.Errorf("page %d item %d = %+v, want %+v", page, i, it, full[start+i])
			}
		}
	}
}

func TestStaticItemShape(t *testing.T) {
	ctx := context.Background()
	items, err := NewStatic(1, 5).Fetch(ctx, 1, 5)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}

	seen := make(map[string]bool)
	for i, it := range items {
		if it.ID == "" {
			t.Errorf("item %d has empty ID", i)
		}
		if seen[it.ID] {
			t.Errorf("duplicate ID %s", it.ID)
		}
		seen[it.ID] = true
		if it.Width < 400 || it.Width > 800 {
			t.Errorf("item %d width = %v, want 400-800", i, it.Width)
		}
		if it.Height <= 0 {
			t.Errorf("item %d height = %v, want > 0", i, it.Height)
		}
		if it.Seq != int64(i) {
			t.Errorf("item %d seq = %d, want %d", i, it.Seq, i)
		}
	}
}

func TestStaticExhaustion(t *testing.T) {
	ctx := context.Background()
	src := NewStatic(1, 12)

	tests := []struct {
		name    string
		page    int
		perPage int
		want    int
	}{
		{"full page", 1, 10, 10},
		{"short last page", 2, 10, 2},
		{"past the end", 3, 10, 0},
		{"invalid page", 0, 10, 0},
		{"invalid per page", 1, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := src.Fetch(ctx, tt.page, tt.perPage)
			if err != nil {
				t.Fatalf("Fetch() error = %v", err)
			}
			if len(items) != tt.want {
				t.Errorf("len(items) = %d, want %d", len(items), tt.want)
			}
		})
	}
}

func TestFileSourcePagination(t *testing.T) {
	ctx := context.Background()

	b := &board.Board{Items: []board.Item{
		{ID: "a", Width: 400, Height: 300},
		{ID: "b", Width: 400, Height: 500},
		{ID: "c", Width: 400, Height: 200},
	}}
	path := filepath.Join(t.TempDir(), "board.json")
	if err := board.WriteBoardFile(b, path); err != nil {
		t.Fatalf("WriteBoardFile() error = %v", err)
	}

	src, err := NewFile(path)
	if err != nil {
		t.Fatalf("NewFile() error = %v", err)
	}
	defer src.Close()

	page1, err := src.Fetch(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(page1) != 2 || page1[0].ID != "a" || page1[1].ID != "b" {
		t.Errorf("page 1 = %+v, want items a, b", page1)
	}

	page2, err := src.Fetch(ctx, 2, 2)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(page2) != 1 || page2[0].ID != "c" {
		t.Errorf("page 2 = %+v, want item c", page2)
	}

	page3, err := src.Fetch(ctx, 3, 2)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(page3) != 0 {
		t.Errorf("page 3 = %+v, want empty", page3)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	if _, err := NewFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("NewFile() error = nil, want error for missing file")
	}
}

func TestHTTPSource(t *testing.T) {
	ctx := context.Background()

	all := []board.Item{
		{ID: "a", Width: 400, Height: 300},
		{ID: "b", Width: 400, Height: 500},
		{ID: "c", Width: 400, Height: 200},
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, _ := strconv.Atoi(r.URL.Query().Get("page"))
		perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))
		start := (page - 1) * perPage
		if start > len(all) {
			start = len(all)
		}
		end := min(start+perPage, len(all))
		_ = json.NewEncoder(w).Encode(all[start:end])
	}))
	defer srv.Close()

	src, err := NewHTTP(srv.URL, nil)
	if err != nil {
		t.Fatalf("NewHTTP() error = %v", err)
	}
	defer src.Close()

	items, err := src.Fetch(ctx, 1, 2)
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if len(items) != 2 || items[0].ID != "a" {
		t.Errorf("page 1 = %+v, want items a, b", items)
	}
}

func TestHTTPSourceRejectsBadURL(t *testing.T) {
	if _, err := NewHTTP("not a url", nil); err == nil {
		t.Error("NewHTTP() error = nil, want error for invalid URL")
	}
}

func TestCollect(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		count    int
		perPage  int
		maxItems int
		want     int
	}{
		{"drains all pages", 25, 10, 0, 25},
		{"honors max items", 25, 10, 12, 12},
		{"max beyond source", 5, 10, 100, 5},
		{"default per page", 30, 0, 0, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Collect(ctx, NewStatic(3, tt.count), tt.perPage, tt.maxItems)
			if err != nil {
				t.Fatalf("Collect() error = %v", err)
			}
			if len(b.Items) != tt.want {
				t.Errorf("len(items) = %d, want %d", len(b.Items), tt.want)
			}
		})
	}
}

func TestCollectValidatesAsBoard(t *testing.T) {
	ctx := context.Background()
	b, err := Collect(ctx, NewStatic(9, 15), 5, 0)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}
	if err := b.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}
