// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LinguaViva Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/linguaviva/linguaviva/internal/access"
	"github.com/linguaviva/linguaviva/internal/auth"
	authmemory "github.com/linguaviva/linguaviva/internal/auth/memory"
	authpostgres "github.com/linguaviva/linguaviva/internal/auth/postgres"
	"github.com/linguaviva/linguaviva/internal/config"
	"github.com/linguaviva/linguaviva/internal/logging"
	"github.com/linguaviva/linguaviva/internal/observability"
	"github.com/linguaviva/linguaviva/internal/store"
	"github.com/linguaviva/linguaviva/internal/web"
	"github.com/linguaviva/linguaviva/internal/xdg"
)

const shutdownGrace = 5 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the web server",
		Long: `Start the HTTP server for registration, login and member pages.
Without a database URL the server keeps accounts and sessions in memory
and loses them on restart.`,
		RunE: runServe,
	}

	config.RegisterFlags(cmd.Flags())

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		configPath = ""
	}
	if configPath == "" {
		if candidate := xdg.DefaultConfigFile(); fileExists(candidate) {
			configPath = candidate
		}
	}

	cfg, err := config.Load(configPath, cmd.Flags())
	if err != nil {
		return err
	}

	logging.SetDefault("linguaviva", version, cfg.Log.Format, logging.ParseLevel(cfg.Log.Level))
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	accounts, sessions, cleanup, err := buildStores(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	svc, err := auth.NewServiceWithLogger(accounts, sessions, auth.NewArgon2idHasher(), logger)
	if err != nil {
		return err
	}

	gate, err := access.NewGate(cfg.Access.Protected)
	if err != nil {
		return err
	}

	var metrics *observability.Metrics
	var obsServer *observability.Server
	if cfg.Server.MetricsAddr != "" {
		obsServer = observability.NewServer(cfg.Server.MetricsAddr, func() bool { return true })
		obsErrCh, startErr := obsServer.Start()
		if startErr != nil {
			return startErr
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
		metrics = obsServer.Metrics()
	}

	srv, err := web.New(cfg, logger, svc, svc, gate, metrics)
	if err != nil {
		return err
	}

	logger.Info("http server listening",
		"addr", cfg.Server.HTTPAddr,
		"metrics_addr", cfg.Server.MetricsAddr,
	)
	cmd.Println("LinguaViva started on " + cfg.Server.HTTPAddr)

	serveErr := web.Serve(ctx, srv, cfg.Server.HTTPAddr)

	if obsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer shutdownCancel()
		if stopErr := obsServer.Stop(shutdownCtx); stopErr != nil {
			logger.Warn("error stopping observability server", "error", stopErr)
		}
	}

	logger.Info("shutdown complete")
	return serveErr
}

// buildStores selects the account and session stores based on the
// configured database URL. With a URL it connects, applies pending
// migrations and returns Postgres-backed repositories; without one it
// returns in-memory stores.
func buildStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (auth.AccountRepository, auth.SessionRepository, func(), error) {
	if cfg.Database.URL == "" {
		logger.Warn("no database configured, using in-memory stores; data is lost on restart")
		return authmemory.NewAccountRepository(), authmemory.NewSessionRepository(), func() {}, nil
	}

	pool, err := store.NewPool(ctx, cfg.Database.URL, logger)
	if err != nil {
		return nil, nil, nil, err
	}

	migrator, err := store.NewMigrator(cfg.Database.URL)
	if err != nil {
		pool.Close()
		return nil, nil, nil, err
	}
	if err := migrator.Up(); err != nil {
		_ = migrator.Close()
		pool.Close()
		return nil, nil, nil, err
	}
	if err := migrator.Close(); err != nil {
		logger.Warn("error closing migrator", "error", err)
	}

	logger.Info("database ready")
	return authpostgres.NewAccountRepository(pool), authpostgres.NewSessionRepository(pool), pool.Close, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// monitorServerErrors watches a server's error channel and cancels the
// context on error so a failed support server takes the process down
// gracefully.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown",
				"server", serverName,
				"error", err,
			)
			cancel()
		}
	case <-ctx.Done():
	}
}
