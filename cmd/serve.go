package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/Shivanand-hulikatti/mergington-activities/internal/config"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/handler"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/repository"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/seed"
	"github.com/Shivanand-hulikatti/mergington-activities/internal/service"
)

// serverFlags are inherited by every subcommand.
func serverFlags(cfg *config.Config) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "port",
			Usage:       "HTTP listen port",
			Sources:     cli.EnvVars("PORT"),
			Value:       cfg.Server.Port,
			Destination: &cfg.Server.Port,
		},
		&cli.StringFlag{
			Name:        "admin-token",
			Usage:       "shared secret expected in the X-Admin-Token header",
			Sources:     cli.EnvVars("ADMIN_TOKEN"),
			Value:       cfg.Admin.Token,
			Destination: &cfg.Admin.Token,
		},
		&cli.StringFlag{
			Name:        "static-dir",
			Usage:       "directory served under /static (empty disables)",
			Sources:     cli.EnvVars("STATIC_DIR"),
			Value:       cfg.Server.StaticDir,
			Destination: &cfg.Server.StaticDir,
		},
		&cli.StringFlag{
			Name:        "seed-file",
			Usage:       "YAML seed dataset (empty uses the built-in one)",
			Sources:     cli.EnvVars("SEED_FILE"),
			Destination: &cfg.Registry.SeedFile,
		},
		&cli.BoolFlag{
			Name:        "enforce-capacity",
			Usage:       "reject signups once an activity reaches max_participants",
			Sources:     cli.EnvVars("ENFORCE_CAPACITY"),
			Value:       cfg.Registry.EnforceCapacity,
			Destination: &cfg.Registry.EnforceCapacity,
		},
		&cli.StringSliceFlag{
			Name:        "cors-origins",
			Usage:       "allowed CORS origins",
			Sources:     cli.EnvVars("CORS_ALLOWED_ORIGINS"),
			Value:       cfg.Server.AllowedOrigins,
			Destination: &cfg.Server.AllowedOrigins,
		},
		&cli.DurationFlag{
			Name:        "read-timeout",
			Sources:     cli.EnvVars("SERVER_READ_TIMEOUT"),
			Value:       cfg.Server.ReadTimeout,
			Destination: &cfg.Server.ReadTimeout,
		},
		&cli.DurationFlag{
			Name:        "write-timeout",
			Sources:     cli.EnvVars("SERVER_WRITE_TIMEOUT"),
			Value:       cfg.Server.WriteTimeout,
			Destination: &cfg.Server.WriteTimeout,
		},
		&cli.DurationFlag{
			Name:        "idle-timeout",
			Sources:     cli.EnvVars("SERVER_IDLE_TIMEOUT"),
			Value:       cfg.Server.IdleTimeout,
			Destination: &cfg.Server.IdleTimeout,
		},
		&cli.DurationFlag{
			Name:        "shutdown-timeout",
			Sources:     cli.EnvVars("SERVER_SHUTDOWN_TIMEOUT"),
			Value:       cfg.Server.ShutdownTimeout,
			Destination: &cfg.Server.ShutdownTimeout,
		},
	}
}

func serveCmd(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP server (default)",
		Action: func(ctx context.Context, _ *cli.Command) error {
			return serve(ctx, cfg)
		},
	}
}

// newRegistry builds the registry and loads the seed dataset into it.
func newRegistry(cfg *config.Config) (*repository.ActivityRegistry, error) {
	ds, err := seed.Load(cfg.Registry.SeedFile)
	if err != nil {
		return nil, err
	}
	reg := repository.NewActivityRegistry(
		repository.WithCapacityEnforcement(cfg.Registry.EnforceCapacity),
	)
	if _, err := ds.Apply(reg); err != nil {
		return nil, err
	}
	return reg, nil
}

func serve(ctx context.Context, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	// ── 1. Build the registry ────────────────────────────────────────────
	reg, err := newRegistry(cfg)
	if err != nil {
		return fmt.Errorf("registry: %w", err)
	}
	log.Info().
		Int("activities", reg.Len()).
		Bool("enforce_capacity", reg.EnforcesCapacity()).
		Str("seed", cfg.Registry.SeedFile).
		Msg("registry seeded")
	log.Debug().Strs("names", reg.Names()).Msg("seeded activities")
	if cfg.Admin.Token == config.DefaultAdminToken {
		log.Warn().Msg("admin token is the default value; set ADMIN_TOKEN")
	}

	// ── 2. Wire up layers ────────────────────────────────────────────────
	svc := service.NewActivityService(reg)
	metrics := handler.NewMetrics(reg.Len, reg.ParticipantCount)

	staticDir := cfg.Server.StaticDir
	if staticDir != "" {
		if _, err := os.Stat(staticDir); err != nil {
			log.Warn().Str("dir", staticDir).Msg("static directory not found; static files disabled")
			staticDir = ""
		}
	}

	router := handler.NewRouter(svc,
		handler.WithLogger(log.With().Str("component", "http").Logger()),
		handler.WithMetrics(metrics),
		handler.WithAdminToken(cfg.Admin.Token),
		handler.WithStaticDir(staticDir),
		handler.WithCORS(cfg.Server.AllowedOrigins...),
	)

	// ── 3. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
