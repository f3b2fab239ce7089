package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/cascadelayout/cascade/pkg/errors"
	"github.com/cascadelayout/cascade/pkg/pipeline"
)

// Config is the on-disk CLI configuration. All fields are optional: zero
// values defer to the pipeline defaults, and flags override everything.
//
// Example (~/.config/cascade/config.toml):
//
//	[layout]
//	width = 1400
//	gap = 12
//	max_columns = 6
//
//	[window]
//	viewport = 900
//	top_preload = 0.5
//	bottom_preload = 1.0
//
//	[feed]
//	source = "http"
//	url = "https://boards.example.com/items"
//
//	[server]
//	addr = ":9000"
//	redis_url = "redis://localhost:6379/0"
type Config struct {
	Layout struct {
		Width        float64 `toml:"width"`
		Padding      float64 `toml:"padding"`
		Gap          float64 `toml:"gap"`
		ItemMinWidth float64 `toml:"item_min_width"`
		MinColumns   int     `toml:"min_columns"`
		MaxColumns   int     `toml:"max_columns"`
	} `toml:"layout"`

	Window struct {
		Viewport      float64 `toml:"viewport"`
		TopPreload    float64 `toml:"top_preload"`
		BottomPreload float64 `toml:"bottom_preload"`
		NoVirtualize  bool    `toml:"no_virtualize"`
	} `toml:"window"`

	Feed struct {
		Source  string `toml:"source"`
		URL     string `toml:"url"`
		Path    string `toml:"path"`
		Seed    int64  `toml:"seed"`
		Count   int    `toml:"count"`
		PerPage int    `toml:"per_page"`

		MongoURI        string `toml:"mongo_uri"`
		MongoDatabase   string `toml:"mongo_database"`
		MongoCollection string `toml:"mongo_collection"`
	} `toml:"feed"`

	Server struct {
		Addr     string `toml:"addr"`
		RedisURL string `toml:"redis_url"`
	} `toml:"server"`
}

// Environment variables for connection secrets, so URLs with credentials
// stay out of shell history and config files. Flags and config file values
// take precedence when set.
const (
	EnvRedisURL = "CASCADE_REDIS_URL"
	EnvMongoURI = "CASCADE_MONGO_URI"
)

// envDefault returns value when non-empty, otherwise the environment
// variable named by key.
func envDefault(value, key string) string {
	if value != "" {
		return value
	}
	return os.Getenv(key)
}

// DefaultConfigPath returns the XDG-standard config file location
// (~/.config/cascade/config.toml).
func DefaultConfigPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}

// LoadConfig reads a TOML config file. A missing file is not an error: the
// returned config is empty and everything falls back to defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	return cfg, nil
}

// Apply copies the config's set fields onto opts. Zero values are skipped so
// pipeline defaults survive.
func (c *Config) Apply(opts *pipeline.Options) {
	if c.Layout.Width != 0 {
		opts.Width = c.Layout.Width
	}
	if c.Layout.Padding != 0 {
		opts.Padding = c.Layout.Padding
	}
	if c.Layout.Gap != 0 {
		opts.Gap = c.Layout.Gap
	}
	if c.Layout.ItemMinWidth != 0 {
		opts.ItemMinWidth = c.Layout.ItemMinWidth
	}
	if c.Layout.MinColumns != 0 {
		opts.MinColumns = c.Layout.MinColumns
	}
	if c.Layout.MaxColumns != 0 {
		opts.MaxColumns = c.Layout.MaxColumns
	}

	if c.Window.Viewport != 0 {
		opts.Viewport = c.Window.Viewport
	}
	if c.Window.TopPreload != 0 {
		opts.TopPreload = c.Window.TopPreload
	}
	if c.Window.BottomPreload != 0 {
		opts.BottomPreload = c.Window.BottomPreload
	}
	if c.Window.NoVirtualize {
		opts.NoVirtualize = true
	}

	if c.Feed.Source != "" {
		opts.Source = c.Feed.Source
	}
	if c.Feed.URL != "" {
		opts.URL = c.Feed.URL
	}
	if c.Feed.Path != "" {
		opts.Path = c.Feed.Path
	}
	if c.Feed.Seed != 0 {
		opts.Seed = c.Feed.Seed
	}
	if c.Feed.Count != 0 {
		opts.Count = c.Feed.Count
	}
	if c.Feed.PerPage != 0 {
		opts.PerPage = c.Feed.PerPage
	}
	if c.Feed.MongoURI != "" {
		opts.MongoURI = c.Feed.MongoURI
	}
	if c.Feed.MongoDatabase != "" {
		opts.MongoDatabase = c.Feed.MongoDatabase
	}
	if c.Feed.MongoCollection != "" {
		opts.MongoCollection = c.Feed.MongoCollection
	}
}
