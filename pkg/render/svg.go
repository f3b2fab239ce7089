package render

import (
	"bytes"
	"fmt"

	"github.com/cascadelayout/cascade/pkg/board"
)

// RenderSVG draws the snapshot as a standalone SVG document. When windowed,
// only visible spaces are drawn and the window bounds are outlined.
func RenderSVG(s board.Snapshot, opts ...Option) []byte {
	r := newRenderer(opts...)
	th := themes[r.style]

	canvasW := s.Width
	canvasH := s.Height + 2*s.Padding

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		canvasW, canvasH, canvasW, canvasH)
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", th.Background)

	for _, sp := range r.spaces(s) {
		x := s.Padding + sp.Left
		y := s.Padding + sp.Top
		fmt.Fprintf(&buf,
			`  <rect id="item-%d" x="%.2f" y="%.2f" width="%.2f" height="%.2f" rx="4" fill="%s" stroke="%s"/>`+"\n",
			sp.Index, x, y, s.ItemWidth, sp.Height, itemFill(s, sp.Index, th), th.Stroke)

		if r.labels {
			if label := itemLabel(s, sp.Index); label != "" {
				fmt.Fprintf(&buf,
					`  <text x="%.2f" y="%.2f" text-anchor="middle" dominant-baseline="central" font-family="sans-serif" font-size="12" fill="%s">%s</text>`+"\n",
					x+s.ItemWidth/2, y+sp.Height/2, th.Text, escapeXML(label))
			}
		}
	}

	if r.query != nil {
		lower, upper := r.query.Bounds()
		fmt.Fprintf(&buf,
			`  <rect x="0" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="2" stroke-dasharray="6 4"/>`+"\n",
			s.Padding+lower, canvasW, upper-lower, th.Window)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// escapeXML escapes the characters that would break SVG text content.
func escapeXML(s string) string {
	var buf bytes.Buffer
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			buf.WriteString("&quot;")
		default:
			buf.WriteRune(r)
		}
	}
	return buf.String()
}
