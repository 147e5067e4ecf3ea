package models

import (
	"time"

	"github.com/promonitor/storefront/pkg/enums"
)

// Product is a catalog row. Source is NULL for legacy admin-created rows.
type Product struct {
	ID          uint                 `gorm:"column:id;primaryKey;autoIncrement"`
	Name        string               `gorm:"column:name;not null"`
	Slug        string               `gorm:"column:slug;not null;uniqueIndex"`
	Description string               `gorm:"column:description;not null"`
	PriceCents  int64                `gorm:"column:price_cents;not null"`
	ImagePath   string               `gorm:"column:image_path;not null"`
	IsFeatured  bool                 `gorm:"column:is_featured;not null"`
	Source      *enums.ProductSource `gorm:"column:source"`
	ExternalID  *int64               `gorm:"column:external_id"`
	SortOrder   *int                 `gorm:"column:sort_order"`
	Images      []ProductImage       `gorm:"foreignKey:ProductID"`
	CreatedAt   time.Time            `gorm:"column:created_at;not null;autoCreateTime:false"`
	UpdatedAt   time.Time            `gorm:"column:updated_at;not null;autoUpdateTime:false"`
}

func (Product) TableName() string { return "products" }

// IsCustom reports whether the row is owned by the admin UI.
func (p Product) IsCustom() bool {
	return p.Source == nil || *p.Source == enums.ProductSourceCustom
}

// ProductImage is one gallery entry; SortOrder is scoped to the product.
type ProductImage struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement"`
	ProductID uint      `gorm:"column:product_id;not null"`
	ImagePath string    `gorm:"column:image_path;not null"`
	SortOrder int       `gorm:"column:sort_order;not null"`
	CreatedAt time.Time `gorm:"column:created_at;not null;autoCreateTime:false"`
}

func (ProductImage) TableName() string { return "product_images" }
