package orders

import (
	"time"

	"github.com/promonitor/storefront/pkg/db/models"
	"github.com/promonitor/storefront/pkg/money"
)

// OrderItemDTO is an immutable order line.
type OrderItemDTO struct {
	ID                 uint   `json:"id"`
	ProductID          uint   `json:"product_id"`
	Name               string `json:"name"`
	PriceCents         int64  `json:"price_cents"`
	Qty                int    `json:"qty"`
	LineTotalCents     int64  `json:"line_total_cents"`
	LineTotalFormatted string `json:"line_total_formatted"`
}

// OrderDTO is an order with its lines. Items is omitted in list responses.
type OrderDTO struct {
	ID             uint           `json:"id"`
	Name           string         `json:"name"`
	Email          string         `json:"email"`
	Address        string         `json:"address"`
	TotalCents     int64          `json:"total_cents"`
	TotalFormatted string         `json:"total_formatted"`
	CreatedAt      time.Time      `json:"created_at"`
	Items          []OrderItemDTO `json:"items,omitempty"`
}

// DashboardDTO summarizes the store for the admin landing page.
type DashboardDTO struct {
	ProductCount     int64  `json:"product_count"`
	OrderCount       int64  `json:"order_count"`
	RevenueCents     int64  `json:"revenue_cents"`
	RevenueFormatted string `json:"revenue_formatted"`
}

func newOrderDTO(order *models.Order) *OrderDTO {
	dto := &OrderDTO{
		ID:             order.ID,
		Name:           order.Name,
		Email:          order.Email,
		Address:        order.Address,
		TotalCents:     order.TotalCents,
		TotalFormatted: money.Format(order.TotalCents),
		CreatedAt:      order.CreatedAt,
	}
	for _, item := range order.Items {
		dto.Items = append(dto.Items, OrderItemDTO{
			ID:                 item.ID,
			ProductID:          item.ProductID,
			Name:               item.Name,
			PriceCents:         item.PriceCents,
			Qty:                item.Qty,
			LineTotalCents:     item.LineTotalCents,
			LineTotalFormatted: money.Format(item.LineTotalCents),
		})
	}
	return dto
}
