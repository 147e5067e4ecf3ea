package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/promonitor/storefront/internal/bootstrap"
	"github.com/promonitor/storefront/internal/cron"
	"github.com/promonitor/storefront/pkg/metrics"
)

func main() {
	if err := run(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, logg, err := bootstrap.LoadConfig(ctx, "cron-worker")
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

	syncJob, err := cron.NewCatalogSyncJob(app.Catalog)
	if err != nil {
		logg.Error(ctx, "failed to create catalog sync job", err)
		return err
	}
	lock, err := cron.NewRedisLock(app.Redis, "", cfg.Cron.LockTTL)
	if err != nil {
		logg.Error(ctx, "failed to create cron lock", err)
		return err
	}

	service, err := cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: cron.NewRegistry(syncJob),
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(app.Metrics),
		Interval: cfg.Cron.SyncInterval,
	})
	if err != nil {
		logg.Error(ctx, "failed to create cron service", err)
		return err
	}

	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting cron worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "cron worker stopped unexpectedly", err)
		return err
	}

	logg.Info(ctx, "cron worker shutting down gracefully")
	return nil
}
