// Package server exposes the layout pipeline over HTTP.
//
// The API is deliberately small: one endpoint per pipeline surface plus a
// health probe. Boards can be resolved server-side from a configured feed or
// posted inline; window queries are evaluated against posted snapshots, so
// scroll-driven clients never re-run the layout stage.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/cascadelayout/cascade/pkg/cache"
	"github.com/cascadelayout/cascade/pkg/pipeline"
)

// Default server timeouts.
const (
	DefaultAddr            = ":8080"
	DefaultNamespace       = "cascade"
	DefaultRequestTimeout  = 30 * time.Second
	DefaultShutdownTimeout = 10 * time.Second
)

// Config holds server configuration.
type Config struct {
	// Addr is the listen address.
	Addr string

	// RedisURL selects the Redis cache backend when set; otherwise the
	// server runs on an in-process memory cache.
	RedisURL string

	// Namespace prefixes every cache key, so deployments sharing one Redis
	// never collide. Defaults to DefaultNamespace.
	Namespace string

	// Logger receives request and lifecycle logs. Defaults to log.Default.
	Logger *log.Logger
}

// Server hosts the layout API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	http   *http.Server
}

// New creates a server with its cache backend connected.
func New(ctx context.Context, cfg Config) (*Server, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Namespace == "" {
		cfg.Namespace = DefaultNamespace
	}
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	var c cache.Cache
	if cfg.RedisURL != "" {
		// Connect failures from a starting Redis are retryable; back off
		// before giving up on the whole server.
		var rc *cache.RedisCache
		err := cache.RetryWithBackoff(ctx, func() error {
			var err error
			rc, err = cache.NewRedisCache(ctx, cfg.RedisURL)
			return err
		})
		if err != nil {
			return nil, err
		}
		c = rc
		cfg.Logger.Info("using redis cache", "namespace", cfg.Namespace)
	} else {
		c = cache.NewMemoryCache()
		cfg.Logger.Info("using memory cache", "namespace", cfg.Namespace)
	}

	keyer := cache.NewScopedKeyer(nil, cfg.Namespace+":")
	s := &Server{
		runner: pipeline.NewRunner(c, keyer, cfg.Logger),
		logger: cfg.Logger,
	}
	s.http = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s, nil
}

// Router builds the HTTP handler. Exposed separately so tests can drive the
// API through httptest without binding a port.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(DefaultRequestTimeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/window", s.handleWindow)
		r.Get("/feed", s.handleFeed)
	})
	return r
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return s.runner.Close()
}
