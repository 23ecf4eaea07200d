// Package server owns the HTTP listener lifecycle around the gin engine.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/securepent/securepent-go/internal/application/container"
	"github.com/securepent/securepent-go/internal/infrastructure/observability/logging"
	"github.com/securepent/securepent-go/internal/presentation/http/routes"
	"github.com/securepent/securepent-go/pkg/config"
)

// Server couples the configured net/http server with the channeled logger
// so start and drain events land in the right log channels.
type Server struct {
	httpServer *http.Server
	logger     *logging.ChanneledLogger
}

// New sets the gin mode, builds the route tree and wraps it in an
// http.Server with the configured timeouts. Release mode is the default
// unless GIN_MODE overrides it, so debug noise never reaches production
// by accident.
func New(port string, container *container.Container) *Server {
	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + port,
			Handler:      routes.SetupRoutes(container),
			ReadTimeout:  config.ServerReadTimeout,
			WriteTimeout: config.ServerWriteTimeout,
			IdleTimeout:  config.ServerIdleTimeout,
		},
		logger: container.Logger,
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start listens until Stop is called. A closed-server error is a normal
// shutdown, not a failure.
func (s *Server) Start() error {
	s.logger.System().Info("HTTP server listening", "address", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests until the context expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Shutdown().Info("Draining HTTP connections")
	return s.httpServer.Shutdown(ctx)
}
