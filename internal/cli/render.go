package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cascadelayout/cascade/pkg/board"
	"github.com/cascadelayout/cascade/pkg/pipeline"
)

// renderCommand creates the render command for generating artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		noCache    bool
	)
	opts := c.newOptions()

	cmd := &cobra.Command{
		Use:   "render [snapshot.json]",
		Short: "Render a layout snapshot to SVG, HTML, PNG, or JSON",
		Long: `Render a layout snapshot to viewable artifacts.

The render command takes a snapshot.json (produced by 'layout') and draws it
in one or more formats. With --windowed, only the placements visible for the
given scroll query are drawn, and the SVG format outlines the window bounds;
this is the debugging view for virtualization behavior.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formatsStr)
			return c.runRender(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), html, png, json (comma-separated)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&opts.Style, "style", opts.Style, "visual style: light (default), dark")
	cmd.Flags().BoolVar(&opts.Labels, "labels", opts.Labels, "draw item labels")

	// Window flags
	cmd.Flags().BoolVar(&opts.Windowed, "windowed", opts.Windowed, "draw only the placements visible for the scroll query")
	cmd.Flags().Float64Var(&opts.Scroll, "scroll", opts.Scroll, "scroll offset (with --windowed)")
	cmd.Flags().Float64Var(&opts.Viewport, "viewport", opts.Viewport, "viewport extent (with --windowed)")
	cmd.Flags().Float64Var(&opts.TopPreload, "preload-top", opts.TopPreload, "extra screens kept above the viewport")
	cmd.Flags().Float64Var(&opts.BottomPreload, "preload-bottom", opts.BottomPreload, "extra screens kept below the viewport")

	return cmd
}

// runRender loads the snapshot, renders the requested formats, and writes
// one file per format.
func (c *CLI) runRender(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	snapshot, err := board.ReadSnapshotFile(input)
	if err != nil {
		return fmt.Errorf("load snapshot %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	prog := newProgress(c.Logger)
	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, snapshot, opts)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	prog.done(fmt.Sprintf("Rendered %d format(s)", len(artifacts)))

	base := renderBasePath(output, input)
	printSuccess("Render complete")
	for _, format := range opts.Formats {
		path := base + "." + format
		if output != "" && len(opts.Formats) == 1 {
			path = output
		}
		if err := os.WriteFile(path, artifacts[format], 0644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(snapshot.Count, snapshot.Columns, cacheHit)

	return nil
}

// renderBasePath derives the base output path from the output and input
// paths, stripping a known format extension when present.
func renderBasePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if len(ext) > 1 {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
