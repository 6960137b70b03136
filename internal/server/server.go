// Package server exposes the tokenizer and parser over HTTP.
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
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/fixpq/internal/state"
)

// Defaults.
const (
	DefaultAddr    = "127.0.0.1:8080"
	DefaultMaxBody = 8 << 20
)

// Config holds configuration for the API server.
type Config struct {
	Addr       string
	Logger     *slog.Logger
	MaxBody    int64
	MaxTextLen int
	Encoding   string
	// Store is optional; without it the run history routes answer 404.
	Store state.Store
}

// Server is the HTTP API server.
type Server struct {
	addr       string
	logger     *slog.Logger
	maxBody    int64
	maxTextLen int
	encoding   string
	store      state.Store
	router     chi.Router
}

// New creates a server and registers its routes.
func New(cfg Config) *Server {
	s := &Server{
		addr:       cfg.Addr,
		logger:     cfg.Logger,
		maxBody:    cfg.MaxBody,
		maxTextLen: cfg.MaxTextLen,
		encoding:   cfg.Encoding,
		store:      cfg.Store,
	}
	if s.addr == "" {
		s.addr = DefaultAddr
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBody
	}

	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.Recoverer,
	)
	s.setupRoutes(r)
	s.router = r
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Serve listens on the configured address and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting API server", slog.String("addr", ln.Addr().String()))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.router,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
