// Package httpserve exposes the MCP server over HTTP with echo.
package httpserve

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/bnema/mcp-docker/internal/mcp"
	"github.com/bnema/mcp-docker/pkg/logger"
)

const (
	defaultRate      = 10
	defaultBurst     = 30
	defaultExpiresIn = 3 * time.Minute
	shutdownTimeout  = 10 * time.Second
	defaultMaxBody   = 4 << 20
)

// Pinger reports engine reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) (string, error)
}

// Options configure the HTTP front.
type Options struct {
	Addr string
	// Token enables bearer authentication on /mcp when set.
	Token string
	// RateLimitDir persists rate limiter state when set.
	RateLimitDir string
	Rate         float64
	Burst        int
	ExpiresIn    time.Duration
	// MaxBody is the largest accepted request body in bytes.
	MaxBody int64
}

func (o *Options) applyDefaults() {
	if o.Rate <= 0 {
		o.Rate = defaultRate
	}
	if o.Burst <= 0 {
		o.Burst = defaultBurst
	}
	if o.ExpiresIn <= 0 {
		o.ExpiresIn = defaultExpiresIn
	}
	if o.MaxBody <= 0 {
		o.MaxBody = defaultMaxBody
	}
}

// Server serves POST /mcp and GET /healthz.
type Server struct {
	echo    *echo.Echo
	mcp     *mcp.Server
	pinger  Pinger
	opts    Options
	cleanup []func()
}

// New builds the echo instance and its routes.
func New(mcpServer *mcp.Server, pinger Pinger, opts Options) *Server {
	opts.applyDefaults()

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{echo: e, mcp: mcpServer, pinger: pinger, opts: opts}

	e.Use(middleware.Recover())
	e.Use(requestID())
	e.Use(requestLogger())

	e.GET("/healthz", s.handleHealth)

	api := e.Group("/mcp")
	api.Use(s.rateLimiter())
	if opts.Token != "" {
		api.Use(requireToken(opts.Token))
	} else {
		logger.Warn("HTTP endpoint has no token, anyone who can reach it controls the engine")
	}
	api.POST("", s.handleMCP)

	return s
}

// ServeHTTP lets the server be mounted or tested without a listener.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

// Start listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	defer s.Close()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP endpoint listening", "addr", s.opts.Addr)
		if err := s.echo.Start(s.opts.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP endpoint")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.echo.Shutdown(shutdownCtx)
}

// Close releases resources held by middlewares.
func (s *Server) Close() {
	for _, fn := range s.cleanup {
		fn()
	}
	s.cleanup = nil
}
