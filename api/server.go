package api

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/leojohnthomas/lef-parser/metrics"
)

// ServerConfig contains configuration for the HTTP server.
type ServerConfig struct {
	// Addr is the listen address. Default: ":8080".
	Addr string

	// BodyLimit caps request body size for library uploads.
	// Default: "32M".
	BodyLimit string

	// RequestTimeout bounds non-streaming request handling.
	// Default: 30 seconds.
	RequestTimeout time.Duration

	// EnableRequestLogging turns on per-request logging.
	EnableRequestLogging bool
}

// DefaultServerConfig returns the default server configuration.
func DefaultServerConfig() *ServerConfig {
	return &ServerConfig{
		Addr:                 ":8080",
		BodyLimit:            "32M",
		RequestTimeout:       30 * time.Second,
		EnableRequestLogging: true,
	}
}

// Server is the HTTP server exposing registered libraries.
type Server struct {
	echo   *echo.Echo
	config *ServerConfig
	logger *slog.Logger
}

// NewServer creates the server, wiring middleware and routes.
func NewServer(config *ServerConfig, deps *Dependencies) *Server {
	if config == nil {
		config = DefaultServerConfig()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "api.server")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			if !config.EnableRequestLogging {
				return true
			}
			path := c.Request().URL.Path
			return path == "/health" || path == "/metrics"
		},
	}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))

	e.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: config.RequestTimeout,
		Skipper: func(c echo.Context) bool {
			// Exports may stream large libraries.
			return strings.Contains(c.Request().URL.Path, "/export")
		},
	}))

	e.Use(middleware.BodyLimit(config.BodyLimit))

	if deps.Metrics != nil {
		e.Use(requestMetrics(deps.Metrics))
	}

	RegisterRoutes(e, NewHandler(deps))

	return &Server{
		echo:   e,
		config: config,
		logger: logger,
	}
}

// Start listens on the configured address and serves until Shutdown.
func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.config.Addr)
	return s.echo.Start(s.config.Addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")
	return s.echo.Shutdown(ctx)
}

// Echo returns the underlying Echo instance.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// requestMetrics records one API metric sample per request, labeled by
// route template and response status.
func requestMetrics(collector *metrics.Collector) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			if err != nil {
				c.Error(err)
			}

			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			collector.RecordRequest(route, strconv.Itoa(c.Response().Status))
			return err
		}
	}
}
