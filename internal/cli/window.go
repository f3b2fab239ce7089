package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/cascadelayout/cascade/pkg/board"
	"github.com/cascadelayout/cascade/pkg/errors"
	"github.com/cascadelayout/cascade/pkg/masonry"
	"github.com/cascadelayout/cascade/pkg/window"
)

// windowCommand creates the window command for querying visible placements.
func (c *CLI) windowCommand() *cobra.Command {
	var (
		query   window.Query
		asJSON  bool
		noVirt  bool
		preTop  float64
		preBot  float64
	)

	cmd := &cobra.Command{
		Use:   "window [snapshot.json]",
		Short: "Query the visible placements of a snapshot",
		Long: `Query the visible placements of a snapshot.

The window command evaluates one viewport observation against a snapshot
(produced by 'layout') and reports which placements intersect the extended
visible range. Preload margins widen the range by screens-worth of content
above and below the viewport.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query.TopPreload = preTop
			query.BottomPreload = preBot
			query.Virtualize = !noVirt
			return c.runWindow(args[0], query, asJSON)
		},
	}

	cmd.Flags().Float64Var(&query.ScrollOffset, "scroll", 0, "scroll offset of the viewport's leading edge")
	cmd.Flags().Float64Var(&query.ViewportExtent, "viewport", 900, "viewport extent along the layout axis")
	cmd.Flags().Float64Var(&query.ContainerOffset, "container-offset", 0, "container offset from the document origin")
	cmd.Flags().Float64Var(&preTop, "preload-top", window.DefaultTopPreload, "extra screens kept above the viewport")
	cmd.Flags().Float64Var(&preBot, "preload-bottom", window.DefaultBottomPreload, "extra screens kept below the viewport")
	cmd.Flags().BoolVar(&noVirt, "no-virtualize", false, "return every placement regardless of visibility")
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit the visible placements as JSON")

	return cmd
}

// runWindow loads the snapshot, evaluates the query, and prints the result.
func (c *CLI) runWindow(input string, query window.Query, asJSON bool) error {
	snapshot, err := board.ReadSnapshotFile(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	if err := errors.ValidateScrollQuery(query.ScrollOffset, query.ViewportExtent); err != nil {
		return err
	}
	if err := errors.ValidatePreload(query.TopPreload, query.BottomPreload); err != nil {
		return err
	}

	visible := window.Visible(snapshot.Spaces, query)

	if asJSON {
		return json.NewEncoder(os.Stdout).Encode(visible)
	}

	lower, upper := query.Bounds()
	printSuccess("Window evaluated")
	printDetail("bounds: [%.0f, %.0f]", lower, upper)
	printDetail("visible: %d of %d placements", len(visible), len(snapshot.Spaces))
	printNewline()

	if len(visible) > 0 {
		fmt.Println(windowTable(visible))
	}
	return nil
}

// windowTable renders the visible placements as a bordered table.
func windowTable(visible []masonry.Space) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(visible))
	for _, sp := range visible {
		rows = append(rows, []string{
			fmt.Sprintf("%d", sp.Index),
			fmt.Sprintf("%d", sp.Column),
			fmt.Sprintf("%.1f", sp.Top),
			fmt.Sprintf("%.1f", sp.Left),
			fmt.Sprintf("%.1f", sp.Height),
			fmt.Sprintf("%.1f", sp.Bottom),
		})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Index", "Col", "Top", "Left", "Height", "Bottom").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}
