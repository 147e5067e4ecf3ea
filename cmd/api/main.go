package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/promonitor/storefront/api/routes"
	"github.com/promonitor/storefront/internal/bootstrap"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logg, err := bootstrap.LoadConfig(ctx, "api")
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		return err
	}

	app, err := bootstrap.New(ctx, cfg, logg, bootstrap.Options{})
	if err != nil {
		logg.Error(ctx, "failed to bootstrap dependencies", err)
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logg.Error(context.Background(), "error closing connections", err)
		}
	}()

	if err := app.Startup(ctx); err != nil {
		logg.Error(ctx, "startup sequence failed", err)
		return err
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			app.Metrics,
			app.DB,
			app.Redis,
			app.Sessions,
			app.Auth,
			app.Content,
			app.Products,
			app.Catalog,
			app.Uploads,
			app.Carts,
			app.Orders,
		),
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting api server")
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logg.Info(ctx, "api server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logg.Error(ctx, "graceful shutdown failed", err)
		return err
	}
	logg.Info(ctx, "api server stopped")
	return nil
}
