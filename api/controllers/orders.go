package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/promonitor/storefront/api/middleware"
	"github.com/promonitor/storefront/api/responses"
	"github.com/promonitor/storefront/api/validators"
	"github.com/promonitor/storefront/internal/orders"
	"github.com/promonitor/storefront/pkg/logger"
)

const checkoutFieldsMessage = "Fyll inn alle feltene i kassen."

type orderService interface {
	Checkout(ctx context.Context, sessionID string, input orders.CheckoutInput) (*orders.OrderDTO, error)
	Get(ctx context.Context, id uint) (*orders.OrderDTO, error)
	List(ctx context.Context) ([]orders.OrderDTO, error)
	Dashboard(ctx context.Context) (*orders.DashboardDTO, error)
}

type checkoutRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Address string `json:"address" validate:"required,max=500"`
}

// orderConfirmation is the public view of an order. Contact details stay in the admin.
type orderConfirmation struct {
	ID             uint                  `json:"id"`
	Name           string                `json:"name"`
	TotalCents     int64                 `json:"total_cents"`
	TotalFormatted string                `json:"total_formatted"`
	CreatedAt      time.Time             `json:"created_at"`
	Items          []orders.OrderItemDTO `json:"items"`
}

func newOrderConfirmation(order *orders.OrderDTO) orderConfirmation {
	return orderConfirmation{
		ID:             order.ID,
		Name:           order.Name,
		TotalCents:     order.TotalCents,
		TotalFormatted: order.TotalFormatted,
		CreatedAt:      order.CreatedAt,
		Items:          order.Items,
	}
}

// Checkout turns the session cart into an order.
func Checkout(svc orderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body checkoutRequest
		if err := validators.DecodeJSONBodyMessage(w, r, &body, checkoutFieldsMessage); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Checkout(r.Context(), middleware.CartSessionFromContext(r.Context()), orders.CheckoutInput{
			Name:    validators.SanitizeString(body.Name, 200),
			Email:   validators.SanitizeString(body.Email, 254),
			Address: validators.SanitizeString(body.Address, 500),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newOrderConfirmation(order))
	}
}

// GetOrderConfirmation serves the thank-you page payload.
func GetOrderConfirmation(svc orderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newOrderConfirmation(order))
	}
}

// AdminListOrders lists every order, newest first.
func AdminListOrders(svc orderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, list)
	}
}

func AdminGetOrder(svc orderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, order)
	}
}

// AdminDashboard reports product and order counts with total revenue.
func AdminDashboard(svc orderService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := svc.Dashboard(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, stats)
	}
}
