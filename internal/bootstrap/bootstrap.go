// Package bootstrap builds the shared dependency graph for the binaries and runs
// the startup sequence.
package bootstrap

import (
	"context"
	"fmt"
	"net/http"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/promonitor/storefront/internal/auth"
	"github.com/promonitor/storefront/internal/cart"
	"github.com/promonitor/storefront/internal/catalog"
	"github.com/promonitor/storefront/internal/content"
	"github.com/promonitor/storefront/internal/orders"
	product "github.com/promonitor/storefront/internal/products"
	"github.com/promonitor/storefront/internal/uploads"
	"github.com/promonitor/storefront/pkg/auth/session"
	"github.com/promonitor/storefront/pkg/config"
	"github.com/promonitor/storefront/pkg/db"
	"github.com/promonitor/storefront/pkg/logger"
	"github.com/promonitor/storefront/pkg/metrics"
	"github.com/promonitor/storefront/pkg/migrate"
	"github.com/promonitor/storefront/pkg/promonitor"
	"github.com/promonitor/storefront/pkg/redis"
)

// Options tune which parts of the graph get built.
type Options struct {
	// SkipRedis builds only the database-backed services. Carts, orders,
	// admin auth and sessions stay nil.
	SkipRedis bool
}

// App holds every long-lived dependency a binary may need.
type App struct {
	Config  *config.Config
	Logger  *logger.Logger
	Metrics *prometheus.Registry

	DB    *db.Client
	Redis *redis.Client

	Sessions *session.Manager
	Content  *content.Store
	Products product.Service
	Catalog  *catalog.Reconciler
	Uploads  *uploads.Storage
	Carts    cart.Service
	Orders   orders.Service
	Auth     auth.Service
}

// LoadConfig reads .env (when present) and the environment, and returns a
// logger configured for serviceName.
func LoadConfig(ctx context.Context, serviceName string) (*config.Config, *logger.Logger, error) {
	logg := logger.New(logger.Options{ServiceName: serviceName})
	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, logg, err
	}

	logg = logger.New(logger.Options{
		ServiceName: serviceName,
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})
	return cfg, logg, nil
}

// New opens the database (and Redis unless skipped) and wires the services.
// On error every connection opened so far is closed.
func New(ctx context.Context, cfg *config.Config, logg *logger.Logger, opts Options) (app *App, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}

	app = &App{Config: cfg, Logger: logg, Metrics: metrics.NewRegistry()}
	defer func() {
		if err != nil {
			err = multierr.Append(err, app.Close())
			app = nil
		}
	}()

	app.DB, err = db.New(ctx, cfg.DB, logg)
	if err != nil {
		return app, fmt.Errorf("bootstrap database: %w", err)
	}

	if err = app.buildCatalog(logg); err != nil {
		return app, err
	}
	if app.Uploads, err = uploads.NewStorage(cfg.Uploads); err != nil {
		return app, fmt.Errorf("create upload storage: %w", err)
	}

	if opts.SkipRedis {
		return app, nil
	}

	app.Redis, err = redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return app, fmt.Errorf("bootstrap redis: %w", err)
	}
	if err = app.buildSessionServices(logg); err != nil {
		return app, err
	}
	return app, nil
}

func (a *App) buildCatalog(logg *logger.Logger) error {
	cfg := a.Config
	store, err := content.NewStore(a.DB.DB(), logg)
	if err != nil {
		return fmt.Errorf("create content store: %w", err)
	}
	a.Content = store

	products, err := product.NewService(product.NewRepository(a.DB.DB()), a.DB, logg)
	if err != nil {
		return fmt.Errorf("create product service: %w", err)
	}
	a.Products = products

	feed, err := promonitor.NewClient(cfg.Catalog.BaseURL, promonitor.WithHTTPClient(&http.Client{Timeout: cfg.Catalog.FetchTimeout}))
	if err != nil {
		return fmt.Errorf("create catalog feed client: %w", err)
	}
	reconciler, err := catalog.NewReconciler(catalog.ReconcilerParams{
		Feed:               feed,
		Repo:               catalog.NewRepository(a.DB.DB()),
		Logger:             logg,
		Metrics:            metrics.NewCatalogSyncMetrics(a.Metrics),
		CollectionsEnabled: cfg.Catalog.CollectionsEnabled,
	})
	if err != nil {
		return fmt.Errorf("create catalog reconciler: %w", err)
	}
	a.Catalog = reconciler
	return nil
}

func (a *App) buildSessionServices(logg *logger.Logger) error {
	cfg := a.Config
	sessions, err := session.NewManager(a.Redis, cfg.JWT)
	if err != nil {
		return fmt.Errorf("create session manager: %w", err)
	}
	a.Sessions = sessions

	authService, err := auth.NewService(auth.ServiceParams{
		Admins:         auth.NewRepository(a.DB.DB()),
		SessionManager: sessions,
		JWTConfig:      cfg.JWT,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return fmt.Errorf("create auth service: %w", err)
	}
	a.Auth = authService

	cartStore, err := cart.NewStore(a.Redis, cfg.Cart)
	if err != nil {
		return fmt.Errorf("create cart store: %w", err)
	}
	carts, err := cart.NewService(cartStore, a.Products)
	if err != nil {
		return fmt.Errorf("create cart service: %w", err)
	}
	a.Carts = carts

	orderService, err := orders.NewService(orders.NewRepository(a.DB.DB()), a.DB, carts, a.Products, logg)
	if err != nil {
		return fmt.Errorf("create order service: %w", err)
	}
	a.Orders = orderService
	return nil
}

// Close releases Redis and the database, reporting every failure.
func (a *App) Close() error {
	if a == nil {
		return nil
	}
	var err error
	if a.Redis != nil {
		err = multierr.Append(err, a.Redis.Close())
	}
	if a.DB != nil {
		err = multierr.Append(err, a.DB.Close())
	}
	return err
}

// Startup brings the database to a servable state: migrations, admin seeding,
// content defaults and rewrites, sort-order backfill, seed marking, then the
// optional catalog sync and fallback seeding.
func (a *App) Startup(ctx context.Context) error {
	cfg := a.Config
	logg := a.Logger

	if err := migrate.MaybeRun(ctx, cfg, logg, a.DB); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if a.Auth != nil {
		if _, err := a.Auth.EnsureAdmin(ctx, cfg.Admin.Email, cfg.Admin.Password); err != nil {
			return fmt.Errorf("seed admin: %w", err)
		}
	}

	if err := a.Content.Ensure(ctx); err != nil {
		return fmt.Errorf("ensure content: %w", err)
	}
	if _, err := a.Content.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate content: %w", err)
	}

	backfilled, err := a.Products.BackfillSortOrder(ctx)
	if err != nil {
		return err
	}
	marked, err := a.Products.MarkSeedProducts(ctx)
	if err != nil {
		return err
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"sort_order_backfilled": backfilled,
		"seed_marked":           marked,
	}), "startup.products_prepared")

	existing, err := a.Products.Count(ctx)
	if err != nil {
		return err
	}

	synced := false
	if cfg.Catalog.SyncOnStartup {
		synced = a.Catalog.Sync(ctx).OK
	}

	if cfg.Catalog.SeedProducts && !synced && existing == 0 {
		inserted, err := a.Products.SeedDefaults(ctx)
		if err != nil {
			return err
		}
		logg.Info(logg.WithField(ctx, "inserted", inserted), "startup.products_seeded")
	}
	return nil
}
