// Package server exposes the markdown pipeline over HTTP: a JSON API for
// rendering, toolbar formatting and posts, plus a websocket channel that
// streams live previews as the client types.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/yaklabco/mdpost/internal/logging"
	"github.com/yaklabco/mdpost/pkg/post"
	"github.com/yaklabco/mdpost/pkg/preview"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second

	// maxBodyBytes bounds JSON request bodies. Post content is capped at
	// 10000 characters, which is at most 40000 bytes of UTF-8.
	maxBodyBytes = 1 << 20
)

// Server serves the HTTP API.
type Server struct {
	engine *preview.Engine
	posts  *post.Service
	mux    *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithPosts enables the post and job endpoints.
func WithPosts(svc *post.Service) Option {
	return func(s *Server) {
		s.posts = svc
	}
}

// New creates a server rendering with engine. A nil engine uses the
// default configuration.
func New(engine *preview.Engine, opts ...Option) *Server {
	if engine == nil {
		engine = preview.NewEngine(nil)
	}
	s := &Server{
		engine: engine,
		mux:    http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.routes()
	return s
}

// Handler returns the root handler with request logging applied. Request
// contexts inherit the logger stored in base.
func (s *Server) Handler(base context.Context) http.Handler {
	return withLogging(base, s.mux)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully. ready, when non-nil, receives the bound address.
func (s *Server) ListenAndServe(ctx context.Context, addr string, ready func(net.Addr)) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	logger := logging.FromContext(ctx)
	logger.Info("server listening", logging.FieldAddr, ln.Addr().String())
	if ready != nil {
		ready(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	logger.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
