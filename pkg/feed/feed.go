// Package feed supplies the item lists the layout pipeline consumes.
//
// A Source pages through an ordered item list: the network-pagination
// collaborator from the layout core's point of view. Backends cover
// deterministic generated data (Static), local board files (File), remote
// JSON endpoints (HTTP), and MongoDB collections (Mongo).
//
// Pagination contract: pages are 1-based, the final page may be short, and
// an empty page means the source is exhausted. Sources must return items in
// a stable order across calls; the incremental layout path depends on
// appends never reordering earlier items.
package feed

import (
	"context"

	"github.com/cascadelayout/cascade/pkg/board"
)

// Source names recognized by the pipeline and CLI.
const (
	SourceStatic = "static"
	SourceFile   = "file"
	SourceHTTP   = "http"
	SourceMongo  = "mongo"
)

// ValidSources is the set of supported feed sources.
var ValidSources = map[string]bool{
	SourceStatic: true,
	SourceFile:   true,
	SourceHTTP:   true,
	SourceMongo:  true,
}

// Source pages through an ordered item list.
type Source interface {
	// Fetch returns the items of the given 1-based page. An empty slice
	// (and nil error) signals exhaustion.
	Fetch(ctx context.Context, page, perPage int) ([]board.Item, error)

	// Close releases backend resources.
	Close() error
}

// DefaultPerPage is the page size used when the caller does not specify one.
const DefaultPerPage = 50

// Collect drains src into a board, stopping after maxItems when positive.
func Collect(ctx context.Context, src Source, perPage, maxItems int) (*board.Board, error) {
	if perPage <= 0 {
		perPage = DefaultPerPage
	}

	b := &board.Board{}
	for page := 1; ; page++ {
		items, err := src.Fetch(ctx, page, perPage)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			break
		}
		b.Items = append(b.Items, items...)
		if maxItems > 0 && len(b.Items) >= maxItems {
			b.Items = b.Items[:maxItems]
			break
		}
		if len(items) < perPage {
			break
		}
	}
	return b, nil
}
