package render

import "github.com/cascadelayout/cascade/pkg/board"

// RenderJSON emits the snapshot itself as pretty-printed JSON. The JSON
// format always carries the full placement set; consumers that want a
// windowed view apply their own query against it.
func RenderJSON(s board.Snapshot) ([]byte, error) {
	return board.MarshalSnapshot(s)
}
