// Package server implements the development server: the built site with the
// live reload client injected into every page.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/thatguystone/siteflow"
	"github.com/thatguystone/siteflow/internal"
	"github.com/thatguystone/siteflow/internal/metrics"
	"github.com/thatguystone/siteflow/livereload"
)

// MetricsPath is where metrics are served
const MetricsPath = "/__siteflow/metrics"

// DefaultAddr is the address listened on when none is given
const DefaultAddr = "localhost:3000"

const shutdownTimeout = 5 * time.Second

// Server serves a site directory
type Server struct {
	dir     string
	addr    string
	hub     *livereload.Hub
	metrics *metrics.Recorder
	log     siteflow.Logger
}

// New creates a Server for the site in dir. Every page it serves connects to
// hub.
func New(dir string, hub *livereload.Hub, opts ...Option) *Server {
	s := &Server{
		dir:  dir,
		addr: DefaultAddr,
		hub:  hub,
	}

	for _, opt := range opts {
		opt.applyTo(s)
	}

	if s.log == nil {
		s.log = internal.NewLogger("serve", log.Printf)
	}

	return s
}

// Addr is the address the server listens on
func (s *Server) Addr() string {
	return s.addr
}

// Handler builds the server's request router
func (s *Server) Handler() http.Handler {
	site := livereload.InjectScript(http.FileServer(http.Dir(s.dir)))

	mux := chi.NewRouter()
	mux.Use(middleware.Recoverer)

	mux.Get(livereload.EventsPath, s.hub.ServeHTTP)
	mux.Get(livereload.ScriptPath, livereload.ServeScript)
	mux.Handle(MetricsPath, s.metrics.Handler())
	mux.Handle("/*", http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			internal.SetNoCache(w)

			_, err := os.Stat(s.dir)
			if err != nil {
				internal.HTTPError(w,
					fmt.Sprintf("site not built yet: %v", err),
					http.StatusServiceUnavailable)
				return
			}

			site.ServeHTTP(w, r)
		}))

	return mux
}

// ListenAndServe listens on the server's address and serves until ctx is
// done
func (s *Server) ListenAndServe(ctx context.Context) error {
	l, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}

	return s.Serve(ctx, l)
}

// Serve serves on l until ctx is done, then shuts down gracefully. l is
// closed when Serve returns.
func (s *Server) Serve(ctx context.Context, l net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Serve(l)
	}()

	s.log.Log(fmt.Sprintf("serving %s on http://%s", s.dir, l.Addr()))

	select {
	case err := <-errs:
		s.hub.Shutdown()
		return fmt.Errorf("server failed: %w", err)

	case <-ctx.Done():
	}

	// Event streams never end on their own
	s.hub.Shutdown()

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := srv.Shutdown(sctx)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to shut down server: %w", err)
	}

	return nil
}
