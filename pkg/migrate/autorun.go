package migrate

import (
	"context"
	"fmt"

	"github.com/promonitor/storefront/pkg/config"
	"github.com/promonitor/storefront/pkg/db"
	"github.com/promonitor/storefront/pkg/logger"
)

// MaybeRun applies the embedded migrations when running in dev or when the
// auto-migrate flag is enabled.
func MaybeRun(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	if !cfg.App.IsDev() && !cfg.FeatureFlags.AutoMigrate {
		return nil
	}

	sqlDB, err := client.SQL()
	if err != nil {
		return fmt.Errorf("extracting sql.DB: %w", err)
	}

	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "running goose migrations (auto-run)")

	results, err := Up(ctx, sqlDB)
	if err != nil {
		return err
	}

	logg.Info(logg.WithField(ctx, "applied", len(results)), "goose migrations completed")
	return nil
}
