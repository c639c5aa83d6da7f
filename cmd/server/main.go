package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/pablodealeht/windowdeck/internal/auth"
	"github.com/pablodealeht/windowdeck/internal/config"
	"github.com/pablodealeht/windowdeck/internal/control"
	"github.com/pablodealeht/windowdeck/internal/database"
	"github.com/pablodealeht/windowdeck/internal/domain"
	"github.com/pablodealeht/windowdeck/internal/logging"
	"github.com/pablodealeht/windowdeck/internal/server"
	"github.com/pablodealeht/windowdeck/internal/winsys"
)

func setupConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		// Use log before slog is initialized
		log.Fatalf("Failed to load config: %v", err)
	}
	return cfg
}

func setupDB(cfg *config.Config) *pgxpool.Pool {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.RunMigrations(ctx, pool); err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}

	return pool
}

func setupWindowSystem() domain.WindowSystem {
	windows, err := winsys.NewX11WindowSystem()
	if err != nil {
		slog.Error("Failed to connect to window system", "error", err)
		os.Exit(1)
	}
	return windows
}

func runGracefulShutdown(srv *server.Server) <-chan struct{} {
	done := make(chan struct{})
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received, cleaning up...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown error", "error", err)
		}

		close(done)
	}()

	return done
}

func main() {
	clock := clockwork.NewRealClock()

	cfg := setupConfig()

	logging.InitLogger(cfg.LogLevel, cfg.LogFormat)
	slog.Info("Application starting", "env", cfg.AppEnv, "port", cfg.Port)

	pool := setupDB(cfg)
	defer pool.Close()

	windows := setupWindowSystem()
	launcher := winsys.NewExecLauncher(cfg.LaunchCommand, cfg.LaunchArgs)

	layoutRepo := database.NewLayoutRepo(pool, clock)
	userRepo := database.NewUserRepo(pool)

	reconciler := control.NewReconciler(windows, layoutRepo, cfg.TargetTitles)
	dispatcher := control.NewDispatcher(windows, layoutRepo, launcher, reconciler, cfg.LaunchInstances)

	authSvc := auth.NewService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience, clock)

	healthChecks := []server.HealthCheck{
		{Name: "database", Check: func(ctx context.Context) error { return pool.Ping(ctx) }},
		{Name: "window_system", Check: func(ctx context.Context) error {
			_, err := windows.ScreenSize(ctx)
			return err
		}},
	}

	srv := server.NewServer(cfg, authSvc, userRepo, dispatcher, healthChecks)

	done := runGracefulShutdown(srv)

	if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server error", "error", err)
		os.Exit(1)
	}

	<-done
}
