package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/listq/internal/metadata"
	"github.com/roach88/listq/internal/store"
)

const (
	defaultPerPage         = 15
	defaultMaxPerPage      = 100
	defaultShutdownTimeout = 30 * time.Second
)

// IDGenerator produces request ids.
type IDGenerator interface {
	Generate() string
}

// Option configures a Server.
type Option func(*options)

type options struct {
	perPage         int
	maxPerPage      int
	shutdownTimeout time.Duration
	ids             IDGenerator
}

// WithPerPage sets the page size used when a request gives none.
func WithPerPage(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.perPage = n
		}
	}
}

// WithMaxPerPage caps the perPage parameter.
func WithMaxPerPage(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxPerPage = n
		}
	}
}

// WithShutdownTimeout bounds how long Run waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.shutdownTimeout = d
		}
	}
}

// WithIDGenerator replaces the UUIDv7 request id generator.
func WithIDGenerator(g IDGenerator) Option {
	return func(o *options) {
		o.ids = g
	}
}

// Server serves the resources of one store over HTTP.
//
//	GET /:type                    list, with filter, sort, include, page, perPage
//	GET /:type/:id                one resource by route key, with include
//	GET /:type/:id/:relation      related resources; has-many lists accept
//	                              the list parameters
type Server struct {
	echo  *echo.Echo
	store *store.Store
	reg   *metadata.Registry
	opts  options
}

// NewServer creates a server over st.
func NewServer(st *store.Store, opts ...Option) *Server {
	o := options{
		perPage:         defaultPerPage,
		maxPerPage:      defaultMaxPerPage,
		shutdownTimeout: defaultShutdownTimeout,
		ids:             UUIDv7Generator{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxPerPage < o.perPage {
		o.maxPerPage = o.perPage
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: o.ids.Generate,
	}))
	e.Use(requestLogger())
	e.Use(recoverer())
	e.Use(acceptCheck())

	s := &Server{echo: e, store: st, reg: st.Registry(), opts: o}

	e.GET("/:type", s.list)
	e.GET("/:type/:id", s.show)
	e.GET("/:type/:id/:relation", s.related)

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Run serves on ln until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, ln net.Listener) error {
	slog.Info("server listening", "addr", ln.Addr().String())

	errGroup, ctx := errgroup.WithContext(ctx)
	errGroup.Go(func() error {
		<-ctx.Done()
		slog.Info("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.shutdownTimeout)
		defer cancel()

		if err := s.echo.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	if err := s.echo.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	defer slog.Info("server stopped")

	return errGroup.Wait()
}
