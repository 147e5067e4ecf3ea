package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/promonitor/storefront/api/responses"
	product "github.com/promonitor/storefront/internal/products"
	pkgerrors "github.com/promonitor/storefront/pkg/errors"
	"github.com/promonitor/storefront/pkg/logger"
)

type publicCatalog interface {
	ListPublic(ctx context.Context) ([]product.ProductDTO, error)
	ListOffers(ctx context.Context) ([]product.ProductDTO, error)
	GetBySlug(ctx context.Context, slug string) (*product.ProductDTO, error)
}

// ListProducts serves the public catalog in display order.
func ListProducts(svc publicCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListPublic(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// ListOffers serves the featured admin products.
func ListOffers(svc publicCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListOffers(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

// GetProduct serves one public product with its gallery.
func GetProduct(svc publicCatalog, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "Produktet finnes ikke."))
			return
		}
		item, err := svc.GetBySlug(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}
