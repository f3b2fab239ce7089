package cli

import (
	"github.com/spf13/cobra"

	"github.com/cascadelayout/cascade/internal/server"
)

// serveCommand creates the serve command hosting the layout API.
func (c *CLI) serveCommand() *cobra.Command {
	var cfg server.Config

	if c.Config != nil {
		cfg.Addr = c.Config.Server.Addr
		cfg.RedisURL = c.Config.Server.RedisURL
	}
	if cfg.Addr == "" {
		cfg.Addr = server.DefaultAddr
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout pipeline over HTTP",
		Long: `Serve the layout pipeline over HTTP.

Endpoints:
  POST /v1/layout   compute a snapshot from pipeline options or an inline board
  POST /v1/window   evaluate a scroll query against a posted snapshot
  GET  /v1/feed     page through the generated demo feed
  GET  /healthz     health probe

The server caches boards, snapshots, and artifacts in memory, or in Redis
when --redis-url (or CASCADE_REDIS_URL) is set.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.Logger = c.Logger
			cfg.RedisURL = envDefault(cfg.RedisURL, EnvRedisURL)
			s, err := server.New(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			return s.Start(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	cmd.Flags().StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis cache URL (empty = memory cache)")

	return cmd
}
