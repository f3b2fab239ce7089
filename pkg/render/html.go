package render

import (
	"bytes"
	"fmt"
	"html"

	"github.com/cascadelayout/cascade/pkg/board"
)

// RenderHTML draws the snapshot as a standalone HTML page of absolutely
// positioned divs, the structure a browser host would produce from the same
// placement set.
func RenderHTML(s board.Snapshot, opts ...Option) []byte {
	r := newRenderer(opts...)
	th := themes[r.style]

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	buf.WriteString("<style>\n")
	fmt.Fprintf(&buf, "body { margin: 0; background: %s; font-family: sans-serif; }\n", th.Background)
	fmt.Fprintf(&buf, ".container { position: relative; width: %.0fpx; height: %.0fpx; }\n",
		s.Width, s.Height+2*s.Padding)
	fmt.Fprintf(&buf, ".item { position: absolute; width: %.0fpx; border-radius: 4px; border: 1px solid %s; box-sizing: border-box; display: flex; align-items: center; justify-content: center; color: %s; font-size: 12px; overflow: hidden; }\n",
		s.ItemWidth, th.Stroke, th.Text)
	buf.WriteString("</style>\n</head>\n<body>\n<div class=\"container\">\n")

	for _, sp := range r.spaces(s) {
		label := ""
		if r.labels {
			label = html.EscapeString(itemLabel(s, sp.Index))
		}
		fmt.Fprintf(&buf,
			"  <div class=\"item\" id=\"item-%d\" style=\"left: %.2fpx; top: %.2fpx; height: %.2fpx; background: %s;\">%s</div>\n",
			sp.Index, s.Padding+sp.Left, s.Padding+sp.Top, sp.Height, itemFill(s, sp.Index, th), label)
	}

	buf.WriteString("</div>\n</body>\n</html>\n")
	return buf.Bytes()
}
