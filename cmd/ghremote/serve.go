package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	sqliteadapter "github.com/ericfisherdev/ghremote/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/ghremote/internal/adapter/driving/http"
	"github.com/ericfisherdev/ghremote/internal/application"
	"github.com/ericfisherdev/ghremote/internal/config"
)

func newServeCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.serve(cmd.Context())
		},
	}

	cmd.Flags().String("listen-addr", "", "address to listen on")
	cmd.Flags().String("secondary-rate-limit", "", "wait out GitHub secondary rate limits (true/false)")
	cmd.Flags().String("http-cache", "", "revalidate GitHub responses with ETags (true/false)")
	_ = c.v.BindPFlag(config.KeyListenAddr, cmd.Flags().Lookup("listen-addr"))
	_ = c.v.BindPFlag(config.KeySecondaryRateLimit, cmd.Flags().Lookup("secondary-rate-limit"))
	_ = c.v.BindPFlag(config.KeyHTTPCache, cmd.Flags().Lookup("http-cache"))

	return cmd
}

func (c *cli) serve(parent context.Context) error {
	// 1. Load configuration (fail fast on invalid env vars or flags).
	cfg, err := c.config()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"github_api_url", cfg.GitHubAPIURL,
		"http_timeout", cfg.HTTPTimeout,
		"http_cache", cfg.HTTPCache,
		"secondary_rate_limit", cfg.SecondaryRateLimit,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Open the keypair database and run migrations.
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	version, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		return err
	}
	slog.Info("database ready", "path", cfg.DBPath, "schema_version", version)

	if !cfg.HasSecretKey() {
		slog.Warn("GHREMOTE_SECRET_KEY not set, ssh key upload disabled")
	}

	// 4. Wire adapters and services.
	factory, err := newFactory(cfg)
	if err != nil {
		return err
	}
	keyStore := sqliteadapter.NewKeyPairRepo(db, cfg.SecretKey)
	remoteSvc := application.NewRemoteService(factory)
	keySvc := application.NewKeyProvisioner(keyStore, factory, slog.Default())

	handler := httphandler.NewServeMux(httphandler.NewHandler(remoteSvc, keySvc, slog.Default()), slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.HTTPTimeout + 10*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// 5. Wait for shutdown signal or a listener failure.
	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	// 6. Graceful shutdown with 10s timeout to drain in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
