package controllers

import (
	"context"
	"net/http"

	"github.com/promonitor/storefront/api/middleware"
	"github.com/promonitor/storefront/api/responses"
	"github.com/promonitor/storefront/api/validators"
	"github.com/promonitor/storefront/internal/cart"
	"github.com/promonitor/storefront/pkg/logger"
)

type cartService interface {
	Get(ctx context.Context, sessionID string) (*cart.View, error)
	Add(ctx context.Context, sessionID string, productID uint, qty int) (*cart.View, error)
	Update(ctx context.Context, sessionID string, quantities map[uint]int) (*cart.View, error)
	Remove(ctx context.Context, sessionID string, productID uint) (*cart.View, error)
}

type addCartItemRequest struct {
	ProductID uint `json:"product_id" validate:"required,gt=0"`
	Qty       int  `json:"qty" validate:"lte=999"`
}

type updateCartRequest struct {
	Quantities map[uint]int `json:"quantities"`
}

func GetCart(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := svc.Get(r.Context(), middleware.CartSessionFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func AddCartItem(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body addCartItemRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Add(r.Context(), middleware.CartSessionFromContext(r.Context()), body.ProductID, body.Qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// UpdateCart replaces the quantities; lines absent from the map are dropped.
func UpdateCart(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body updateCartRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Update(r.Context(), middleware.CartSessionFromContext(r.Context()), body.Quantities)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

func RemoveCartItem(svc cartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		view, err := svc.Remove(r.Context(), middleware.CartSessionFromContext(r.Context()), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}
