package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/cascadelayout/cascade/pkg/board"
	"github.com/cascadelayout/cascade/pkg/feed"
	"github.com/cascadelayout/cascade/pkg/masonry"
	"github.com/cascadelayout/cascade/pkg/pipeline"
	"github.com/cascadelayout/cascade/pkg/window"
)

// Terminal cells are roughly twice as tall as wide, so item heights are
// halved when mapping the generated aspect ratios onto the cell grid.
const (
	demoItemMinWidth = 18.0
	demoGap          = 1.0
	demoAppendBatch  = 5
)

// demoCommand creates the demo command: an interactive terminal scroller
// over a generated masonry layout.
func (c *CLI) demoCommand() *cobra.Command {
	var (
		seed  int64
		count int
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Scroll a live masonry layout in the terminal",
		Long: `Scroll a live masonry layout in the terminal.

The demo lays a generated board out in terminal cells and only draws the
placements the viewport window keeps visible. Scrolling re-evaluates the
window per keypress; appending items takes the incremental layout path, and
resizing the terminal forces a full relayout.

Keys:
  up/down, j/k    scroll by one row
  pgup/pgdn       scroll by one screen
  g/G             jump to top/bottom
  a               append items (incremental relayout)
  v               toggle virtualization
  q               quit`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := newDemoModel(seed, count)
			_, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run()
			return err
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", pipeline.DefaultSeed, "generator seed")
	cmd.Flags().IntVar(&count, "count", pipeline.DefaultCount, "initial item count")

	return cmd
}

// =============================================================================
// demoModel - Interactive masonry scroller
// =============================================================================

type demoModel struct {
	seed  int64
	count int
	items []board.Item

	width  int
	height int

	params masonry.Params
	layout *masonry.Layout

	scroll     float64
	virtualize bool
}

func newDemoModel(seed int64, count int) demoModel {
	m := demoModel{
		seed:       seed,
		count:      count,
		virtualize: true,
	}
	m.items = m.generate(count)
	return m
}

// generate returns the first n deterministic items for the model's seed.
// Item identity is stable across calls, which is what makes appends pure
// extensions of the earlier list.
func (m demoModel) generate(n int) []board.Item {
	b, err := feed.Collect(context.Background(), feed.NewStatic(m.seed, n), 0, 0)
	if err != nil || b == nil {
		return nil
	}
	return b.Items
}

// measure maps an item's aspect ratio onto cell units.
func (m demoModel) measure(i int, columnWidth float64) float64 {
	it := m.items[i]
	if it.Width <= 0 {
		return it.Height
	}
	h := it.Height * columnWidth / it.Width / 2
	if h < 3 {
		h = 3
	}
	return float64(int(h))
}

// relayout recomputes placements for the current items and terminal size.
// The previous layout is passed through so pure appends reuse it.
func (m *demoModel) relayout() {
	m.params = masonry.Params{
		ContainerWidth: float64(m.width),
		ItemMinWidth:   demoItemMinWidth,
		Gap:            demoGap,
		MinColumns:     1,
		MaxColumns:     masonry.DefaultMaxColumns,
		Cache:          true,
	}
	m.layout = masonry.Recompute(m.layout, len(m.items), m.params, m.measure)
	m.clampScroll()
}

// maxScroll returns the largest useful scroll offset.
func (m demoModel) maxScroll() float64 {
	if m.layout == nil {
		return 0
	}
	max := m.layout.Height() - float64(m.viewRows())
	if max < 0 {
		return 0
	}
	return max
}

func (m *demoModel) clampScroll() {
	if m.scroll < 0 {
		m.scroll = 0
	}
	if max := m.maxScroll(); m.scroll > max {
		m.scroll = max
	}
}

// viewRows is the drawable height: the terminal minus the status bar.
func (m demoModel) viewRows() int {
	if m.height <= 1 {
		return 0
	}
	return m.height - 1
}

func (m demoModel) Init() tea.Cmd {
	return nil
}

func (m demoModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		// Resize changes the grid: drop the old layout to force a full run.
		m.layout = nil
		m.relayout()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.scroll--
			m.clampScroll()
		case "down", "j":
			m.scroll++
			m.clampScroll()
		case "pgup":
			m.scroll -= float64(m.viewRows())
			m.clampScroll()
		case "pgdown":
			m.scroll += float64(m.viewRows())
			m.clampScroll()
		case "g":
			m.scroll = 0
		case "G":
			m.scroll = m.maxScroll()
		case "a":
			m.count += demoAppendBatch
			m.items = m.generate(m.count)
			m.relayout()
		case "v":
			m.virtualize = !m.virtualize
		}
	}
	return m, nil
}

func (m demoModel) View() string {
	rows := m.viewRows()
	if m.layout == nil || rows <= 0 || m.width <= 0 {
		return ""
	}

	visible := window.Visible(m.layout.Spaces(), window.Query{
		ScrollOffset:   m.scroll,
		ViewportExtent: float64(rows),
		Virtualize:     m.virtualize,
	})

	canvas := make([][]string, rows)
	for y := range canvas {
		canvas[y] = make([]string, m.width)
		for x := range canvas[y] {
			canvas[y][x] = " "
		}
	}

	itemWidth := int(m.layout.Grid().ItemWidth)
	for _, sp := range visible {
		m.paint(canvas, sp, itemWidth)
	}

	var b strings.Builder
	for y := range canvas {
		b.WriteString(strings.Join(canvas[y], ""))
		b.WriteString("\n")
	}
	b.WriteString(m.statusBar(len(visible)))
	return b.String()
}

// paint draws one placement onto the canvas, clipped to the viewport.
func (m demoModel) paint(canvas [][]string, sp masonry.Space, itemWidth int) {
	style := lipgloss.NewStyle().Background(lipgloss.Color(m.items[sp.Index].Color)).Foreground(colorWhite)
	label := fmt.Sprintf(" %d", sp.Index)

	top := int(sp.Top - m.scroll)
	for dy := 0; dy < int(sp.Height); dy++ {
		y := top + dy
		if y < 0 || y >= len(canvas) {
			continue
		}
		for dx := 0; dx < itemWidth; dx++ {
			x := int(sp.Left) + dx
			if x < 0 || x >= len(canvas[y]) {
				continue
			}
			cell := " "
			if dy == 0 && dx < len(label) {
				cell = string(label[dx])
			}
			canvas[y][x] = style.Render(cell)
		}
	}
}

// statusBar renders the bottom line: window stats and key hints.
func (m demoModel) statusBar(visible int) string {
	virt := "on"
	if !m.virtualize {
		virt = "off"
	}
	left := fmt.Sprintf(" rendered %d/%d · scroll %.0f/%.0f · virtualize %s",
		visible, m.layout.Len(), m.scroll, m.layout.Height(), virt)
	right := "j/k scroll · a append · v virtualize · q quit "

	pad := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if pad < 1 {
		pad = 1
	}
	bar := left + strings.Repeat(" ", pad) + right
	return lipgloss.NewStyle().Foreground(colorGray).Render(bar)
}
