package feed

import (
	"context"

	"github.com/cascadelayout/cascade/pkg/board"
)

// File serves pages out of a board file on disk. The board is read and
// validated once at construction; Fetch slices the in-memory item list.
type File struct {
	board *board.Board
}

// NewFile loads the board at path.
func NewFile(path string) (*File, error) {
	b, err := board.ReadBoardFile(path)
	if err != nil {
		return nil, err
	}
	return &File{board: b}, nil
}

// NewFileFromBoard wraps an already-loaded board. The server uses this for
// boards posted over the API.
func NewFileFromBoard(b *board.Board) *File {
	return &File{board: b}
}

// Fetch returns one page of the underlying board.
func (f *File) Fetch(ctx context.Context, page, perPage int) ([]board.Item, error) {
	if page < 1 || perPage < 1 {
		return nil, nil
	}
	start := (page - 1) * perPage
	if start >= len(f.board.Items) {
		return nil, nil
	}
	end := min(start+perPage, len(f.board.Items))
	return f.board.Items[start:end], nil
}

// Close does nothing for the file source.
func (f *File) Close() error { return nil }

// Ensure File implements Source.
var _ Source = (*File)(nil)
