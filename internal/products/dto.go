package product

import (
	"time"

	"github.com/promonitor/storefront/pkg/db/models"
	"github.com/promonitor/storefront/pkg/enums"
	"github.com/promonitor/storefront/pkg/money"
)

// ProductDTO is the product payload returned to clients.
type ProductDTO struct {
	ID             uint              `json:"id"`
	Name           string            `json:"name"`
	Slug           string            `json:"slug"`
	Description    string            `json:"description"`
	PriceCents     int64             `json:"price_cents"`
	PriceFormatted string            `json:"price_formatted"`
	ImagePath      string            `json:"image_path"`
	IsFeatured     bool              `json:"is_featured"`
	Source         string            `json:"source"`
	ExternalID     *int64            `json:"external_id,omitempty"`
	SortOrder      *int              `json:"sort_order,omitempty"`
	Gallery        []string          `json:"gallery,omitempty"`
	Images         []ProductImageDTO `json:"images,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// ProductImageDTO is one gallery entry as seen by the admin.
type ProductImageDTO struct {
	ID        uint      `json:"id"`
	ImagePath string    `json:"image_path"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	source := enums.ProductSourceCustom
	if !product.IsCustom() {
		source = *product.Source
	}
	return &ProductDTO{
		ID:             product.ID,
		Name:           product.Name,
		Slug:           product.Slug,
		Description:    product.Description,
		PriceCents:     product.PriceCents,
		PriceFormatted: money.Format(product.PriceCents),
		ImagePath:      product.ImagePath,
		IsFeatured:     product.IsFeatured,
		Source:         source.String(),
		ExternalID:     product.ExternalID,
		SortOrder:      product.SortOrder,
		CreatedAt:      product.CreatedAt,
		UpdatedAt:      product.UpdatedAt,
	}
}

func newProductDTOs(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, *NewProductDTO(&products[i]))
	}
	return out
}

func newImageDTOs(images []models.ProductImage) []ProductImageDTO {
	out := make([]ProductImageDTO, 0, len(images))
	for _, image := range images {
		out = append(out, ProductImageDTO{
			ID:        image.ID,
			ImagePath: image.ImagePath,
			SortOrder: image.SortOrder,
			CreatedAt: image.CreatedAt,
		})
	}
	return out
}

// Gallery lists the primary image followed by the gallery, without blanks or repeats.
func Gallery(primary string, images []models.ProductImage) []string {
	out := make([]string, 0, len(images)+1)
	seen := make(map[string]struct{}, len(images)+1)
	add := func(path string) {
		if path == "" {
			return
		}
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		out = append(out, path)
	}
	add(primary)
	for _, image := range images {
		add(image.ImagePath)
	}
	return out
}
