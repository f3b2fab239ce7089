package render

import (
	"bytes"
	"math"

	"github.com/flopp/go-findfont"
	"github.com/fogleman/gg"

	"github.com/cascadelayout/cascade/pkg/board"
	"github.com/cascadelayout/cascade/pkg/errors"
)

// labelFontCandidates are tried in order when loading a font for PNG labels.
// Rendering degrades to label-free output when none resolves.
var labelFontCandidates = []string{
	"DejaVuSans.ttf",
	"Arial.ttf",
	"Helvetica.ttf",
}

// RenderPNG rasterizes the snapshot. Labels need a system font; when none of
// the candidate fonts resolves, items are drawn without text.
func RenderPNG(s board.Snapshot, opts ...Option) ([]byte, error) {
	r := newRenderer(opts...)
	th := themes[r.style]

	w := int(math.Ceil(s.Width))
	h := int(math.Ceil(s.Height + 2*s.Padding))
	if w <= 0 || h <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidLayout,
			"cannot rasterize empty canvas %dx%d", w, h)
	}

	dc := gg.NewContext(w, h)
	dc.SetHexColor(th.Background)
	dc.Clear()

	drawLabels := r.labels && loadLabelFont(dc)

	for _, sp := range r.spaces(s) {
		x := s.Padding + sp.Left
		y := s.Padding + sp.Top

		dc.DrawRoundedRectangle(x, y, s.ItemWidth, sp.Height, 4)
		dc.SetHexColor(itemFill(s, sp.Index, th))
		dc.FillPreserve()
		dc.SetHexColor(th.Stroke)
		dc.SetLineWidth(1)
		dc.Stroke()

		if drawLabels {
			if label := itemLabel(s, sp.Index); label != "" {
				dc.SetHexColor(th.Text)
				dc.DrawStringAnchored(label, x+s.ItemWidth/2, y+sp.Height/2, 0.5, 0.5)
			}
		}
	}

	var buf bytes.Buffer
	if err := dc.EncodePNG(&buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// loadLabelFont installs the first resolvable candidate font on the context.
func loadLabelFont(dc *gg.Context) bool {
	for _, name := range labelFontCandidates {
		path, err := findfont.Find(name)
		if err != nil {
			continue
		}
		if err := dc.LoadFontFace(path, 12); err == nil {
			return true
		}
	}
	return false
}
