package feed

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/cascadelayout/cascade/pkg/board"
)

// staticNamespace scopes the deterministic item IDs generated by Static.
var staticNamespace = uuid.MustParse("9f2c1e6a-4b3d-4f7e-8a1c-2d5e9b0c7f34")

// palette cycles through item colors for generated boards.
var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f",
	"#edc948", "#b07aa1", "#ff9da7", "#9c755f", "#bab0ac",
}

// Static generates a reproducible demo board. The same seed and count
// always produce the same items, including their IDs (derived with
// uuid.NewSHA1 from the seed and index), so cached boards and layouts stay
// valid across runs.
type Static struct {
	Seed  int64
	Count int
}

// NewStatic creates a generator of count items from seed.
func NewStatic(seed int64, count int) *Static {
	return &Static{Seed: seed, Count: count}
}

// Fetch returns the items of one page. Item dimensions are drawn from a
// seeded generator re-derived per page, so pages can be fetched in any
// order and still agree with a sequential scan.
func (s *Static) Fetch(ctx context.Context, page, perPage int) ([]board.Item, error) {
	if page < 1 || perPage < 1 {
		return nil, nil
	}
	start := (page - 1) * perPage
	if start >= s.Count {
		return nil, nil
	}
	end := min(start+perPage, s.Count)

	items := make([]board.Item, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, s.item(i))
	}
	return items, nil
}

// item generates the i-th item deterministically.
func (s *Static) item(i int) board.Item {
	rng := rand.New(rand.NewSource(s.Seed + int64(i)))

	// Natural dimensions in a photo-like range: widths 400-800, aspect
	// ratios 0.5-2.0.
	width := 400 + rng.Float64()*400
	height := width * (0.5 + rng.Float64()*1.5)

	id := uuid.NewSHA1(staticNamespace, fmt.Appendf(nil, "%d:%d", s.Seed, i))
	return board.Item{
		ID:     id.String(),
		Label:  fmt.Sprintf("item %d", i),
		Width:  float64(int(width)),
		Height: float64(int(height)),
		Color:  palette[i%len(palette)],
		Seq:    int64(i),
	}
}

// Close does nothing for the static source.
func (s *Static) Close() error { return nil }

// Ensure Static implements Source.
var _ Source = (*Static)(nil)
