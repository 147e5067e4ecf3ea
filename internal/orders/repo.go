package orders

import (
	"context"

	"github.com/promonitor/storefront/pkg/db/models"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds an orders repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create inserts the order and its items.
func (r *repository) Create(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

func (r *repository) FindByID(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Where("id = ?", id).
		First(&order).Error
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// List returns orders newest first, without items.
func (r *repository) List(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *repository) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	row := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select("COUNT(*), COALESCE(SUM(total_cents), 0)").
		Row()
	if err := row.Scan(&stats.OrderCount, &stats.RevenueCents); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
