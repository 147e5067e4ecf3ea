package auth

import (
	"context"

	"github.com/promonitor/storefront/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads and writes admin accounts.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds an admin repository bound to the provided DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *Repository) Create(ctx context.Context, admin *models.AdminUser) (*models.AdminUser, error) {
	if err := r.db.WithContext(ctx).Create(admin).Error; err != nil {
		return nil, err
	}
	return admin, nil
}

// UpdatePasswordHash stores a re-hashed password after parameters change.
func (r *Repository) UpdatePasswordHash(ctx context.Context, id uint, hash string) error {
	return r.db.WithContext(ctx).
		Model(&models.AdminUser{}).
		Where("id = ?", id).
		Update("password_hash", hash).Error
}
