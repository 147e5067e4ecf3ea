package product

import (
	"context"
	"fmt"
	"time"

	"github.com/promonitor/storefront/pkg/db/models"
	"github.com/promonitor/storefront/pkg/enums"
	"gorm.io/gorm"
)

const (
	customFilter = "(source IS NULL OR source = 'custom')"
	publicFilter = "(source IS NULL OR source IN ('custom', 'seed', 'promonitor'))"
	displayOrder = "sort_order ASC, updated_at DESC"
	imageOrder   = "sort_order ASC, id ASC"
)

// Repository wraps product and gallery persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads a product of any source.
func (r *Repository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindPublicByID loads a product visible in the storefront.
func (r *Repository) FindPublicByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where(publicFilter).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindPublicBySlug loads a storefront product by slug.
func (r *Repository) FindPublicBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).Where(publicFilter).First(&product, "slug = ?", slug).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListPublic returns every storefront product in display order.
func (r *Repository) ListPublic(ctx context.Context) ([]models.Product, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where(publicFilter))
}

// ListOffers returns featured admin-created products.
func (r *Repository) ListOffers(ctx context.Context) ([]models.Product, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where(customFilter).Where("is_featured = ?", true))
}

// ListCustom returns admin-created products.
func (r *Repository) ListCustom(ctx context.Context) ([]models.Product, error) {
	return r.list(ctx, r.db.WithContext(ctx).Where(customFilter))
}

func (r *Repository) list(_ context.Context, query *gorm.DB) ([]models.Product, error) {
	var products []models.Product
	if err := query.Order(displayOrder).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListImages returns the product gallery in display order.
func (r *Repository) ListImages(ctx context.Context, productID uint) ([]models.ProductImage, error) {
	var images []models.ProductImage
	if err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order(imageOrder).
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// SlugTaken reports whether another product already uses slug.
func (r *Repository) SlugTaken(ctx context.Context, slug string, excludeID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("slug = ? AND id != ?", slug, excludeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// MaxSortOrder returns the highest product position, zero for an empty table.
func (r *Repository) MaxSortOrder(ctx context.Context) (int, error) {
	return r.maxOrder(ctx, r.db.WithContext(ctx).Model(&models.Product{}))
}

// MaxImageOrder returns the highest gallery position of a product.
func (r *Repository) MaxImageOrder(ctx context.Context, productID uint) (int, error) {
	return r.maxOrder(ctx, r.db.WithContext(ctx).Model(&models.ProductImage{}).Where("product_id = ?", productID))
}

func (r *Repository) maxOrder(_ context.Context, query *gorm.DB) (int, error) {
	var max int64
	if err := query.Select("COALESCE(MAX(sort_order), 0)").Row().Scan(&max); err != nil {
		return 0, err
	}
	return int(max), nil
}

// Create inserts the product row only; gallery rows go through AddImages.
func (r *Repository) Create(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Images").Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateFields applies an admin edit.
func (r *Repository) UpdateFields(ctx context.Context, id uint, fields map[string]any) error {
	return r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Updates(fields).Error
}

// Delete removes the product and its gallery.
func (r *Repository) Delete(ctx context.Context, id uint) (bool, error) {
	if err := r.db.WithContext(ctx).Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
		return false, err
	}
	result := r.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	return result.RowsAffected > 0, result.Error
}

// AddImages appends gallery entries after the current last position.
func (r *Repository) AddImages(ctx context.Context, productID uint, paths []string, now time.Time) error {
	if len(paths) == 0 {
		return nil
	}
	next, err := r.MaxImageOrder(ctx, productID)
	if err != nil {
		return err
	}
	images := make([]models.ProductImage, 0, len(paths))
	for _, path := range paths {
		next++
		images = append(images, models.ProductImage{
			ProductID: productID,
			ImagePath: path,
			SortOrder: next,
			CreatedAt: now,
		})
	}
	return r.db.WithContext(ctx).Create(&images).Error
}

// FindImage loads one gallery entry scoped to its product.
func (r *Repository) FindImage(ctx context.Context, productID, imageID uint) (*models.ProductImage, error) {
	var image models.ProductImage
	if err := r.db.WithContext(ctx).
		Where("id = ? AND product_id = ?", imageID, productID).
		First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *Repository) DeleteImage(ctx context.Context, imageID uint) error {
	return r.db.WithContext(ctx).Delete(&models.ProductImage{}, "id = ?", imageID).Error
}

// SetSortOrder moves one product. Zero affected rows is an error so batches roll back.
func (r *Repository) SetSortOrder(ctx context.Context, id uint, position int) error {
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("sort_order", position)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %d not found", id)
	}
	return nil
}

// ListUnordered returns ids of products without a position, oldest first.
func (r *Repository) ListUnordered(ctx context.Context) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("sort_order IS NULL").
		Order("created_at ASC, id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// MarkSeed tags untagged rows whose slug belongs to the fallback catalog.
func (r *Repository) MarkSeed(ctx context.Context, slugs []string) (int64, error) {
	if len(slugs) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("source IS NULL AND slug IN ?", slugs).
		Update("source", enums.ProductSourceSeed)
	return result.RowsAffected, result.Error
}

func (r *Repository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
