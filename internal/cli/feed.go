package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cascadelayout/cascade/pkg/board"
	"github.com/cascadelayout/cascade/pkg/feed"
	"github.com/cascadelayout/cascade/pkg/pipeline"
)

// feedCommand creates the feed command group.
func (c *CLI) feedCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Generate or fetch item boards",
	}

	cmd.AddCommand(c.feedGenerateCommand())
	cmd.AddCommand(c.feedFetchCommand())

	return cmd
}

// feedGenerateCommand creates the "feed generate" subcommand.
func (c *CLI) feedGenerateCommand() *cobra.Command {
	var (
		output string
		seed   int64
		count  int
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a reproducible demo board",
		Long: `Generate a reproducible demo board.

The same seed and count always produce the same items, including their IDs,
so generated boards are stable fixtures for layouts and caches.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := feed.Collect(cmd.Context(), feed.NewStatic(seed, count), 0, 0)
			if err != nil {
				return fmt.Errorf("generate board: %w", err)
			}
			if err := board.WriteBoardFile(b, output); err != nil {
				return fmt.Errorf("write board %s: %w", output, err)
			}
			printSuccess("Generated %d items", b.Len())
			printFile(output)
			printNewline()
			printNextStep("Layout", "cascade layout "+output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "board.json", "output file")
	cmd.Flags().Int64Var(&seed, "seed", pipeline.DefaultSeed, "generator seed")
	cmd.Flags().IntVar(&count, "count", pipeline.DefaultCount, "item count")

	return cmd
}

// feedFetchCommand creates the "feed fetch" subcommand.
func (c *CLI) feedFetchCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := c.newOptions()

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Fetch a board from a remote feed",
		Long: `Fetch a board from a remote feed.

Pages are pulled from the configured source (http or mongo) until the feed
is exhausted or --max-items is reached, then written as a board.json.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFeedFetch(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "board.json", "output file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVarP(&opts.Source, "source", "s", opts.Source, "feed source: http, mongo")
	cmd.Flags().StringVar(&opts.URL, "url", opts.URL, "feed endpoint URL (http source)")
	cmd.Flags().StringVar(&opts.MongoURI, "mongo-uri", opts.MongoURI, "connection string (mongo source; falls back to CASCADE_MONGO_URI)")
	cmd.Flags().StringVar(&opts.MongoDatabase, "mongo-database", opts.MongoDatabase, "database name (mongo source)")
	cmd.Flags().StringVar(&opts.MongoCollection, "mongo-collection", opts.MongoCollection, "collection name (mongo source)")
	cmd.Flags().IntVar(&opts.PerPage, "per-page", opts.PerPage, "page size")
	cmd.Flags().IntVar(&opts.MaxItems, "max-items", opts.MaxItems, "stop after this many items (0 = all)")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", opts.Refresh, "bypass the board cache")

	return cmd
}

// runFeedFetch drains the configured source and writes the board.
func (c *CLI) runFeedFetch(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger
	opts.MongoURI = envDefault(opts.MongoURI, EnvMongoURI)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Fetching %s feed...", opts.Source))
	spinner.Start()

	b, cacheHit, err := runner.ResolveWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Fetch failed")
		return fmt.Errorf("fetch feed: %w", err)
	}
	spinner.Stop()

	if err := board.WriteBoardFile(b, output); err != nil {
		return fmt.Errorf("write board %s: %w", output, err)
	}

	printSuccess("Fetched %d items", b.Len())
	printFile(output)
	printStats(b.Len(), 0, cacheHit)
	printNewline()
	printNextStep("Layout", "cascade layout "+output)
	return nil
}
