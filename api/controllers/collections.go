package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/promonitor/storefront/api/responses"
	"github.com/promonitor/storefront/internal/catalog"
	"github.com/promonitor/storefront/internal/content"
	product "github.com/promonitor/storefront/internal/products"
	pkgerrors "github.com/promonitor/storefront/pkg/errors"
	"github.com/promonitor/storefront/pkg/logger"
	"github.com/promonitor/storefront/pkg/money"
)

// Shown for handles that are not in the content document.
const (
	fallbackCollectionTitle    = "Kolleksjon"
	fallbackCollectionSubtitle = "Skjermutvidelse"
	fallbackCollectionLead     = "Utvalgte produkter fra ProMonitor."
)

type collectionFeed interface {
	CollectionProducts(ctx context.Context, handle string) catalog.CollectionResult
}

type catalogLister interface {
	ListPublic(ctx context.Context) ([]product.ProductDTO, error)
}

type collectionInfo struct {
	Handle   string `json:"handle"`
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
	Lead     string `json:"lead"`
}

type collectionItem struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Slug           string `json:"slug"`
	PriceCents     int64  `json:"price_cents"`
	PriceFormatted string `json:"price_formatted"`
	ImagePath      string `json:"image_path"`
}

type collectionResponse struct {
	Collection   collectionInfo   `json:"collection"`
	Products     []collectionItem `json:"products"`
	Source       string           `json:"source"`
	ErrorMessage string           `json:"error_message,omitempty"`
}

// ListCollections serves the collections configured in the content document.
func ListCollections(store contentReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := store.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load content"))
			return
		}
		responses.WriteSuccess(w, content.List(content.Collections(doc)...))
	}
}

// GetCollection serves one collection. Products come from the remote feed; when
// the feed is disabled or fails the whole public catalog is shown instead, and a
// failure (but not a disabled feed) adds a notice for the visitor.
func GetCollection(store contentReader, feed collectionFeed, products catalogLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		handle := strings.TrimSpace(chi.URLParam(r, "handle"))

		doc, err := store.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load content"))
			return
		}
		info := collectionInfo{
			Handle:   handle,
			Title:    fallbackCollectionTitle,
			Subtitle: fallbackCollectionSubtitle,
			Lead:     fallbackCollectionLead,
		}
		if entry, ok := content.CollectionByHandle(doc, handle); ok {
			info.Title = entry.Str("title")
			info.Subtitle = entry.Str("subtitle")
			info.Lead = entry.Str("lead")
		}

		resp := collectionResponse{Collection: info, Source: "feed"}
		result := feed.CollectionProducts(r.Context(), handle)
		if result.OK {
			resp.Products = make([]collectionItem, 0, len(result.Products))
			for _, p := range result.Products {
				resp.Products = append(resp.Products, collectionItem{
					ID:             p.ID,
					Name:           p.Name,
					Slug:           p.Slug,
					PriceCents:     p.PriceCents,
					PriceFormatted: money.Format(p.PriceCents),
					ImagePath:      p.ImagePath,
				})
			}
			responses.WriteSuccess(w, resp)
			return
		}

		if !result.Disabled {
			resp.ErrorMessage = catalog.CollectionFallbackMessage
		}
		items, err := products.ListPublic(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resp.Source = "catalog"
		resp.Products = make([]collectionItem, 0, len(items))
		for _, p := range items {
			resp.Products = append(resp.Products, collectionItem{
				ID:             int64(p.ID),
				Name:           p.Name,
				Slug:           p.Slug,
				PriceCents:     p.PriceCents,
				PriceFormatted: p.PriceFormatted,
				ImagePath:      p.ImagePath,
			})
		}
		responses.WriteSuccess(w, resp)
	}
}
