// Package server renders the document tree as a website.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/leapstack-labs/docsite/pkg/core"
	"golang.org/x/sync/errgroup"
)

// WatchFunc blocks until ctx is cancelled, calling onChange whenever the
// content behind the source changes.
type WatchFunc func(ctx context.Context, onChange func()) error

// Config holds configuration for the site server.
type Config struct {
	Source     core.Source
	Port       int
	LayoutsDir string
	// Dev enables the live reload endpoint and script.
	Dev bool
	// Watch is optional; when set, changes trigger a browser reload in dev mode.
	Watch  WatchFunc
	Logger *slog.Logger
}

// Server serves pages resolved from the document tree.
type Server struct {
	source  core.Source
	port    int
	dev     bool
	watch   WatchFunc
	layouts *Layouts
	reloads *reloadHub
	logger  *slog.Logger
	now     func() time.Time
}

// New creates a server and loads its layouts.
func New(cfg Config) (*Server, error) {
	if cfg.Source == nil {
		return nil, errors.New("server requires a source")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	layouts, err := LoadLayouts(cfg.LayoutsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load layouts: %w", err)
	}

	return &Server{
		source:  cfg.Source,
		port:    cfg.Port,
		dev:     cfg.Dev,
		watch:   cfg.Watch,
		layouts: layouts,
		reloads: newReloadHub(),
		logger:  logger,
		now:     time.Now,
	}, nil
}

// Handler returns the router with all routes and middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)
	s.setupRoutes(r)
	return r
}

func (s *Server) setupRoutes(r chi.Router) {
	r.Get("/healthcheck", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})

	if s.dev {
		s.setupReload(r)
	}

	r.Get("/*", s.handlePage)
}

// Serve starts the server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	s.logger.Info("starting site server", "addr", fmt.Sprintf("http://localhost:%d", s.port), "dev", s.dev)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.watch != nil {
		eg.Go(func() error {
			return s.watch(egctx, func() {
				s.logger.Debug("content changed, reloading clients")
				s.reloads.Broadcast()
			})
		})
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down site server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
