// Package render turns layout snapshots into viewable artifacts.
//
// Renderers consume a board.Snapshot, never the live layout state: rendering
// is a pure function of the exported placement set plus the render options.
// Four formats are supported: SVG and HTML for direct viewing, PNG for
// raster export, and JSON for downstream tooling.
//
// A renderer can be windowed with WithWindow: only the spaces visible for
// the given scroll query are drawn, and the SVG format additionally outlines
// the query bounds. This is the debugging view for virtualization behavior.
package render

import (
	"fmt"

	"github.com/cascadelayout/cascade/pkg/board"
	"github.com/cascadelayout/cascade/pkg/errors"
	"github.com/cascadelayout/cascade/pkg/masonry"
	"github.com/cascadelayout/cascade/pkg/window"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatHTML: true,
	FormatPNG:  true,
	FormatJSON: true,
}

// Style constants for visual styles.
const (
	StyleLight = "light"
	StyleDark  = "dark"
)

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	StyleLight: true,
	StyleDark:  true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, html, png, json)", format)
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid style: %q (must be one of: light, dark)", style)
	}
	return nil
}

// Option configures a renderer.
type Option func(*renderer)

type renderer struct {
	style  string
	labels bool
	query  *window.Query
}

// WithLabels draws item labels on formats that support them.
func WithLabels() Option { return func(r *renderer) { r.labels = true } }

// WithStyle selects the visual style.
func WithStyle(s string) Option { return func(r *renderer) { r.style = s } }

// WithWindow restricts output to the spaces visible for q and, where the
// format supports it, draws the window bounds.
func WithWindow(q window.Query) Option { return func(r *renderer) { r.query = &q } }

func newRenderer(opts ...Option) renderer {
	r := renderer{style: StyleLight}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// spaces returns the placement set to draw: the full snapshot, or the
// windowed subset when a query is set.
func (r *renderer) spaces(s board.Snapshot) []masonry.Space {
	if r.query == nil {
		return s.Spaces
	}
	return window.Visible(s.Spaces, *r.query)
}

// theme holds the per-style drawing colors.
type theme struct {
	Background string
	Fill       string
	Stroke     string
	Text       string
	Window     string
}

var themes = map[string]theme{
	StyleLight: {
		Background: "#ffffff",
		Fill:       "#e8e8ef",
		Stroke:     "#b0b0c0",
		Text:       "#24243a",
		Window:     "#e15759",
	},
	StyleDark: {
		Background: "#1e1e2e",
		Fill:       "#313244",
		Stroke:     "#585b70",
		Text:       "#cdd6f4",
		Window:     "#f38ba8",
	},
}

// itemFill returns the fill color for one item, falling back to the theme
// fill when the item carries no color of its own.
func itemFill(s board.Snapshot, index int, th theme) string {
	if index < len(s.Items) && s.Items[index].Color != "" {
		return s.Items[index].Color
	}
	return th.Fill
}

// itemLabel returns the label for one item, or its ID when no label is set.
func itemLabel(s board.Snapshot, index int) string {
	if index >= len(s.Items) {
		return ""
	}
	if s.Items[index].Label != "" {
		return s.Items[index].Label
	}
	return s.Items[index].ID
}

// Render produces the artifact for one format.
func Render(s board.Snapshot, format string, opts ...Option) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	switch format {
	case FormatSVG:
		return RenderSVG(s, opts...), nil
	case FormatHTML:
		return RenderHTML(s, opts...), nil
	case FormatPNG:
		return RenderPNG(s, opts...)
	case FormatJSON:
		return RenderJSON(s)
	}
	return nil, fmt.Errorf("unreachable format %q", format)
}
