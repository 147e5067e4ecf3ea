package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/promonitor/storefront/internal/bootstrap"
	"github.com/promonitor/storefront/internal/cli"
	"github.com/promonitor/storefront/pkg/migrate"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := cli.NewRootCommand(open).ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}

// open builds the database-backed services. The CLI never needs Redis.
func open(ctx context.Context) (*cli.Services, error) {
	cfg, logg, err := bootstrap.LoadConfig(ctx, "storefrontctl")
	if err != nil {
		return nil, err
	}
	app, err := bootstrap.New(ctx, cfg, logg, bootstrap.Options{SkipRedis: true})
	if err != nil {
		return nil, err
	}
	if err := migrate.MaybeRun(ctx, cfg, logg, app.DB); err != nil {
		_ = app.Close()
		return nil, err
	}
	if err := app.Content.Ensure(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return &cli.Services{
		Catalog:  app.Catalog,
		Content:  app.Content,
		Products: app.Products,
		Close:    app.Close,
	}, nil
}
