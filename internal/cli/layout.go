package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cascadelayout/cascade/pkg/board"
	"github.com/cascadelayout/cascade/pkg/feed"
	"github.com/cascadelayout/cascade/pkg/pipeline"
)

// layoutCommand creates the layout command for computing masonry snapshots.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := c.newOptions()

	cmd := &cobra.Command{
		Use:   "layout [board.json]",
		Short: "Compute a masonry layout snapshot from a board",
		Long: `Compute a masonry layout snapshot from a board.

The layout command resolves a board (from a board.json argument or from the
configured feed source) and places every item into the shortest column of a
responsive grid. The output is a snapshot.json holding the resolved grid and
one placement per item, ready for the 'window' and 'render' commands.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				opts.Source = feed.SourceFile
				opts.Path = args[0]
			}
			return c.runLayout(cmd.Context(), opts, output, noCache)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.snapshot.json or board.snapshot.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", opts.Refresh, "re-resolve the feed even when cached")

	// Feed flags
	cmd.Flags().StringVarP(&opts.Source, "source", "s", opts.Source, "feed source: static (default), file, http, mongo")
	cmd.Flags().StringVar(&opts.URL, "url", opts.URL, "feed endpoint URL (http source)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", opts.Seed, "generator seed (static source)")
	cmd.Flags().IntVar(&opts.Count, "count", opts.Count, "item count (static source)")
	cmd.Flags().IntVar(&opts.MaxItems, "max-items", opts.MaxItems, "stop resolving after this many items (0 = all)")

	// Layout flags
	cmd.Flags().Float64VarP(&opts.Width, "width", "w", opts.Width, "container width")
	cmd.Flags().Float64Var(&opts.Padding, "padding", opts.Padding, "container inset applied outside the grid")
	cmd.Flags().Float64Var(&opts.Gap, "gap", opts.Gap, "gap between items, horizontal and vertical")
	cmd.Flags().Float64Var(&opts.ItemMinWidth, "item-min-width", opts.ItemMinWidth, "minimum item width driving the column count")
	cmd.Flags().IntVar(&opts.MinColumns, "min-columns", opts.MinColumns, "column count floor")
	cmd.Flags().IntVar(&opts.MaxColumns, "max-columns", opts.MaxColumns, "column count ceiling")

	return cmd
}

// runLayout resolves the board, computes the snapshot, and writes output.
func (c *CLI) runLayout(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Resolving %s feed...", opts.Source))
	spinner.Start()

	b, err := runner.Resolve(ctx, opts)
	if err != nil {
		spinner.StopWithError("Resolve failed")
		return fmt.Errorf("resolve feed: %w", err)
	}

	spinner.SetMessage("Computing masonry layout...")
	snapshot, cacheHit, err := runner.LayoutWithCacheInfo(ctx, b, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		if opts.Source == feed.SourceFile {
			base := strings.TrimSuffix(opts.Path, filepath.Ext(opts.Path))
			outputPath = base + ".snapshot.json"
		} else {
			outputPath = "board.snapshot.json"
		}
	}

	if err := board.WriteSnapshotFile(snapshot, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(snapshot.Count, snapshot.Columns, cacheHit)
	printDetail("height: %.0f", snapshot.Height)
	printNewline()
	printNextStep("Render", "cascade render "+outputPath)

	return nil
}
