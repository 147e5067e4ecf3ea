package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/promonitor/storefront/pkg/logger"
	"github.com/promonitor/storefront/pkg/metrics"
	"github.com/promonitor/storefront/pkg/promonitor"
	"golang.org/x/sync/errgroup"
)

// CollectionFallbackMessage is shown when a collection cannot be loaded from the feed.
const CollectionFallbackMessage = "Vi klarte ikke å hente denne kolleksjonen akkurat nå. Vi viser alle produkter."

// Feed is the remote listing source.
type Feed interface {
	Products(ctx context.Context) ([]promonitor.Product, error)
	Featured(ctx context.Context) ([]promonitor.Product, error)
	CollectionProducts(ctx context.Context, handle string) ([]promonitor.Product, error)
	BaseURL() string
}

// Result reports a sync run. Failures never surface as errors.
type Result struct {
	OK    bool `json:"ok"`
	Count int  `json:"count"`
}

// CollectionProduct is a feed item shown on a collection page.
type CollectionProduct struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	PriceCents int64  `json:"price_cents"`
	ImagePath  string `json:"image_path"`
}

// CollectionResult is the outcome of a collection lookup.
type CollectionResult struct {
	OK       bool                `json:"ok"`
	Disabled bool                `json:"disabled"`
	Products []CollectionProduct `json:"products"`
}

// ReconcilerParams wires a Reconciler.
type ReconcilerParams struct {
	Feed               Feed
	Repo               Repository
	Logger             *logger.Logger
	Metrics            *metrics.CatalogSyncMetrics
	CollectionsEnabled bool
}

// Reconciler mirrors the remote catalog into the products table.
type Reconciler struct {
	feed               Feed
	repo               Repository
	logg               *logger.Logger
	metrics            *metrics.CatalogSyncMetrics
	collectionsEnabled bool
	now                func() time.Time

	// runs are serialized; the admin endpoint and the cron worker may overlap.
	mu sync.Mutex
}

func NewReconciler(params ReconcilerParams) (*Reconciler, error) {
	if params.Feed == nil {
		return nil, fmt.Errorf("feed client required")
	}
	if params.Repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &Reconciler{
		feed:               params.Feed,
		repo:               params.Repo,
		logg:               params.Logger,
		metrics:            params.Metrics,
		collectionsEnabled: params.CollectionsEnabled,
		now:                time.Now,
	}, nil
}

// Sync pulls both listings and reconciles the mirrored rows one at a time.
// Rows written before a failure stay written; a later run converges.
func (r *Reconciler) Sync(ctx context.Context) (result Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	started := r.now()
	defer func() {
		if rec := recover(); rec != nil {
			r.logError(ctx, "catalog.sync_panic", fmt.Errorf("panic: %v", rec))
			result = Result{}
		}
		r.metrics.Observe(result.OK, result.Count, r.now().Sub(started), r.now())
	}()

	count, err := r.sync(ctx)
	if err != nil {
		r.logError(ctx, "catalog.sync_failed", err)
		return Result{}
	}
	if r.logg != nil {
		r.logg.Info(r.logg.WithField(ctx, "count", count), "catalog.sync_completed")
	}
	return Result{OK: true, Count: count}
}

func (r *Reconciler) sync(ctx context.Context) (int, error) {
	var (
		items       []promonitor.Product
		featured    []promonitor.Product
		featuredErr error
	)
	var g errgroup.Group
	g.Go(func() error {
		var err error
		items, err = r.feed.Products(ctx)
		return err
	})
	g.Go(func() error {
		featured, featuredErr = r.feed.Featured(ctx)
		return nil
	})
	if err := g.Wait(); err != nil {
		return 0, fmt.Errorf("fetch products: %w", err)
	}
	if featuredErr != nil {
		if r.logg != nil {
			r.logg.Warn(r.logg.WithField(ctx, "error", featuredErr.Error()), "catalog.featured_unavailable")
		}
		featured = nil
	}

	handles := featuredHandles(featured)
	baseURL := r.feed.BaseURL()

	nextSortOrder, err := r.repo.MaxSortOrder(ctx)
	if err != nil {
		return 0, fmt.Errorf("max sort order: %w", err)
	}

	seen := make([]int64, 0, len(items))
	for _, item := range items {
		listing := Project(item, handles, baseURL, r.now().UTC())
		existing, err := r.repo.FindFirst(ctx, ByExternalID(item.ID), BySlug(listing.Slug))
		if err != nil {
			return 0, fmt.Errorf("lookup %q: %w", listing.Slug, err)
		}
		seen = append(seen, item.ID)

		if existing != nil {
			if err := r.repo.UpdateMirrored(ctx, existing.ID, listing); err != nil {
				return 0, fmt.Errorf("update %q: %w", listing.Slug, err)
			}
			continue
		}
		nextSortOrder++
		if _, err := r.repo.InsertMirrored(ctx, listing, nextSortOrder); err != nil {
			return 0, fmt.Errorf("insert %q: %w", listing.Slug, err)
		}
	}

	// An empty listing is more likely an upstream hiccup than an empty shop.
	if len(seen) > 0 {
		if _, err := r.repo.DeleteMirroredExcept(ctx, seen); err != nil {
			return 0, fmt.Errorf("delete orphans: %w", err)
		}
	}
	if _, err := r.repo.DeleteSeed(ctx); err != nil {
		return 0, fmt.Errorf("delete seed rows: %w", err)
	}
	return len(items), nil
}

// CollectionProducts loads one collection straight from the feed.
func (r *Reconciler) CollectionProducts(ctx context.Context, handle string) CollectionResult {
	if !r.collectionsEnabled {
		return CollectionResult{Disabled: true, Products: []CollectionProduct{}}
	}
	items, err := r.feed.CollectionProducts(ctx, handle)
	if err != nil {
		r.logError(r.withHandle(ctx, handle), "catalog.collection_fetch_failed", err)
		return CollectionResult{Products: []CollectionProduct{}}
	}

	baseURL := r.feed.BaseURL()
	products := make([]CollectionProduct, 0, len(items))
	for _, item := range items {
		image := item.FirstImage()
		if image == "" {
			image = CollectionPlaceholderImage
		}
		products = append(products, CollectionProduct{
			ID:         item.ID,
			Name:       item.Title,
			Slug:       item.Handle,
			PriceCents: PriceCents(item.FirstPrice()),
			ImagePath:  ToAbsoluteURL(baseURL, image),
		})
	}
	return CollectionResult{OK: true, Products: products}
}

func (r *Reconciler) withHandle(ctx context.Context, handle string) context.Context {
	if r.logg == nil {
		return ctx
	}
	return r.logg.WithField(ctx, "handle", handle)
}

func (r *Reconciler) logError(ctx context.Context, msg string, err error) {
	if r.logg != nil {
		r.logg.Error(ctx, msg, err)
	}
}
