package catalog

import (
	"context"

	"github.com/promonitor/storefront/pkg/db/models"
	"github.com/promonitor/storefront/pkg/enums"
	"gorm.io/gorm"
)

// LookupKey is one candidate column match used to correlate a feed item with a row.
type LookupKey struct {
	column string
	value  any
}

// ByExternalID matches on the foreign system's product id.
func ByExternalID(id int64) LookupKey { return LookupKey{column: "external_id", value: id} }

// BySlug matches on the local slug.
func BySlug(slug string) LookupKey { return LookupKey{column: "slug", value: slug} }

// Repository is the slice of the products table the reconciler writes.
type Repository interface {
	FindFirst(ctx context.Context, keys ...LookupKey) (*models.Product, error)
	MaxSortOrder(ctx context.Context) (int, error)
	UpdateMirrored(ctx context.Context, id uint, listing Listing) error
	InsertMirrored(ctx context.Context, listing Listing, sortOrder int) (*models.Product, error)
	DeleteMirroredExcept(ctx context.Context, keep []int64) (int64, error)
	DeleteSeed(ctx context.Context) (int64, error)
}

type repositoryImpl struct {
	db *gorm.DB
}

// NewRepository binds the reconciler's persistence to db.
func NewRepository(db *gorm.DB) Repository {
	return &repositoryImpl{db: db}
}

// FindFirst tries each key in order and returns the first matching row, or nil.
func (r *repositoryImpl) FindFirst(ctx context.Context, keys ...LookupKey) (*models.Product, error) {
	for _, key := range keys {
		if key.column == "" {
			continue
		}
		var rows []models.Product
		err := r.db.WithContext(ctx).
			Where(key.column+" = ?", key.value).
			Order("id ASC").
			Limit(1).
			Find(&rows).Error
		if err != nil {
			return nil, err
		}
		if len(rows) > 0 {
			return &rows[0], nil
		}
	}
	return nil, nil
}

func (r *repositoryImpl) MaxSortOrder(ctx context.Context) (int, error) {
	var max int64
	row := r.db.WithContext(ctx).Model(&models.Product{}).Select("COALESCE(MAX(sort_order), 0)").Row()
	if err := row.Scan(&max); err != nil {
		return 0, err
	}
	return int(max), nil
}

func (r *repositoryImpl) UpdateMirrored(ctx context.Context, id uint, listing Listing) error {
	externalID := listing.ExternalID
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"name":        listing.Name,
			"slug":        listing.Slug,
			"description": listing.Description,
			"price_cents": listing.PriceCents,
			"image_path":  listing.ImagePath,
			"is_featured": listing.IsFeatured,
			"updated_at":  listing.UpdatedAt,
			"source":      enums.ProductSourcePromonitor,
			"external_id": &externalID,
		}).Error
}

func (r *repositoryImpl) InsertMirrored(ctx context.Context, listing Listing, sortOrder int) (*models.Product, error) {
	externalID := listing.ExternalID
	order := sortOrder
	product := &models.Product{
		Name:        listing.Name,
		Slug:        listing.Slug,
		Description: listing.Description,
		PriceCents:  listing.PriceCents,
		ImagePath:   listing.ImagePath,
		IsFeatured:  listing.IsFeatured,
		Source:      enums.ProductSourcePromonitor.Ptr(),
		ExternalID:  &externalID,
		SortOrder:   &order,
		CreatedAt:   listing.CreatedAt,
		UpdatedAt:   listing.UpdatedAt,
	}
	if err := r.db.WithContext(ctx).Omit("Images").Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

func (r *repositoryImpl) DeleteMirroredExcept(ctx context.Context, keep []int64) (int64, error) {
	query := r.db.WithContext(ctx).Where("source = ?", enums.ProductSourcePromonitor)
	if len(keep) > 0 {
		query = query.Where("external_id NOT IN ?", keep)
	}
	result := query.Delete(&models.Product{})
	return result.RowsAffected, result.Error
}

func (r *repositoryImpl) DeleteSeed(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).Where("source = ?", enums.ProductSourceSeed).Delete(&models.Product{})
	return result.RowsAffected, result.Error
}

