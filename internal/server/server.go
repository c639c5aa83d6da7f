package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pablodealeht/windowdeck/internal/auth"
	"github.com/pablodealeht/windowdeck/internal/config"
	"github.com/pablodealeht/windowdeck/internal/control"
	"github.com/pablodealeht/windowdeck/internal/domain"
)

// HealthCheck is a named health check function.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

type Server struct {
	echo   *echo.Echo
	config *config.Config

	auth       *auth.Service
	users      domain.UserRepository
	dispatcher *control.Dispatcher

	limits       *ConnectionLimits
	healthChecks []HealthCheck
	startTime    time.Time
}

func NewServer(cfg *config.Config, authSvc *auth.Service, users domain.UserRepository, dispatcher *control.Dispatcher, healthChecks []HealthCheck) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	srv := &Server{
		echo:         e,
		config:       cfg,
		auth:         authSvc,
		users:        users,
		dispatcher:   dispatcher,
		limits:       NewConnectionLimits(cfg.WSMaxConnections, cfg.WSMaxPerIP, cfg.WSConnRate, cfg.WSConnBurst),
		healthChecks: healthChecks,
		startTime:    time.Now(),
	}

	srv.registerRoutes()

	return srv
}

func (s *Server) Start() error {
	slog.Info("Starting server", "port", s.config.Port)
	if err := s.echo.Start(":" + s.config.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	return nil
}
