package orders

import (
	"context"

	"github.com/promonitor/storefront/pkg/db/models"
	"gorm.io/gorm"
)

// Repository defines the persistence surface for orders.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, order *models.Order) (*models.Order, error)
	FindByID(ctx context.Context, id uint) (*models.Order, error)
	List(ctx context.Context) ([]models.Order, error)
	Stats(ctx context.Context) (Stats, error)
}

// Stats are the aggregate figures shown on the admin dashboard.
type Stats struct {
	OrderCount   int64
	RevenueCents int64
}
