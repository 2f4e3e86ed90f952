package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"user-record-service/cmd/api/di"
	"user-record-service/internal/config"

	"go.uber.org/zap"
)

// Server holds the HTTP server and its dependencies
type Server struct {
	Config *config.Config
	Logger *zap.Logger
	Gin    *http.Server
}

// New creates a new server instance
func New(c *di.Container) *Server {
	addr := ":" + c.Config.App.HTTPPort
	return &Server{
		Config: c.Config,
		Logger: c.Logger,
		Gin:    SetupGinServer(c, addr, c.Logger),
	}
}

// Start listens on the configured port and serves until Shutdown is called.
// It returns nil after a graceful shutdown.
func (s *Server) Start(ctx context.Context) error {
	lc := net.ListenConfig{}
	lis, err := lc.Listen(ctx, "tcp", s.Gin.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.Gin.Addr, err)
	}

	s.Logger.Info("HTTP server running", zap.String("address", lis.Addr().String()))

	if err := s.Gin.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to serve: %w", err)
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.Gin.Shutdown(ctx)
}
