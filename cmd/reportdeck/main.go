package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	demoadapter "github.com/byndhq/reportdeck/internal/adapter/driven/demo"
	"github.com/byndhq/reportdeck/internal/adapter/driven/secretsfile"
	supabaseadapter "github.com/byndhq/reportdeck/internal/adapter/driven/supabase"
	httphandler "github.com/byndhq/reportdeck/internal/adapter/driving/http"
	"github.com/byndhq/reportdeck/internal/application"
	"github.com/byndhq/reportdeck/internal/config"
	"github.com/byndhq/reportdeck/internal/domain/model"
	"github.com/byndhq/reportdeck/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (.env is folded into the environment here).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"secrets_path", cfg.SecretsPath,
		"fetch_timeout", cfg.FetchTimeout,
		"fetch_limit", cfg.FetchLimit,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Resolve credentials: secrets store > env pair > demo.
	secrets := secretsfile.NewStore(cfg.SecretsPath)
	resolver := application.NewResolver(secrets, slog.Default())
	descriptor := resolver.Resolve()
	slog.Info("credentials resolved", "mode", descriptor.Mode)

	// 4. Build the report source for the resolved descriptor.
	demoAnchor := time.Now().UTC()
	factory := func(desc model.ConnectionDescriptor) driven.ReportSource {
		if desc.IsLive() {
			return supabaseadapter.NewSource(desc.Endpoint, desc.Credential, desc.Mode, cfg.FetchTimeout, cfg.FetchLimit)
		}
		return demoadapter.NewSource(demoAnchor)
	}
	provider := application.NewSourceProvider(factory(descriptor), descriptor)

	// 5. Wire application services.
	reportSvc := application.NewReportService(provider, slog.Default())
	refreshSvc := application.NewRefreshService(resolver, provider, factory, slog.Default())

	// 6. Re-resolve when the secrets file changes so rotated credentials
	// take effect without a restart.
	if cfg.WatchSecrets {
		go func() {
			if err := secrets.Watch(ctx, func() {
				slog.Info("secrets file changed, re-resolving credentials")
				refreshSvc.Refresh()
			}); err != nil {
				slog.Warn("secrets watcher unavailable", "error", err)
			}
		}()
	}

	// 7. Create HTTP handler and server.
	apiHandler := httphandler.NewHandler(reportSvc, refreshSvc, provider, slog.Default())
	handler := httphandler.NewServeMux(apiHandler, slog.Default())

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
		}
	}()

	slog.Info("reportdeck started", "listen_addr", cfg.ListenAddr, "mode", descriptor.Mode)

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}
