package product

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/promonitor/storefront/internal/catalog"
	"github.com/promonitor/storefront/pkg/db"
	"github.com/promonitor/storefront/pkg/db/models"
	"github.com/promonitor/storefront/pkg/enums"
	pkgerrors "github.com/promonitor/storefront/pkg/errors"
	"github.com/promonitor/storefront/pkg/logger"
	"gorm.io/gorm"
)

// PlaceholderImage is used when a product has no image of its own.
const PlaceholderImage = "/images/monitor-placeholder.svg"

const missingFieldsMessage = "Fyll inn produktnavn, beskrivelse og pris."

// Service exposes storefront reads and admin product management.
type Service interface {
	ListPublic(ctx context.Context) ([]ProductDTO, error)
	ListOffers(ctx context.Context) ([]ProductDTO, error)
	GetBySlug(ctx context.Context, slug string) (*ProductDTO, error)
	GetPublic(ctx context.Context, id uint) (*models.Product, error)

	AdminList(ctx context.Context) ([]ProductDTO, error)
	AdminGet(ctx context.Context, id uint) (*ProductDTO, error)
	CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, id uint, input ProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, id uint) error
	DeleteImage(ctx context.Context, productID, imageID uint) (*ProductDTO, error)
	Reorder(ctx context.Context, ids []uint) (bool, error)

	BackfillSortOrder(ctx context.Context) (int, error)
	MarkSeedProducts(ctx context.Context) (int64, error)
	SeedDefaults(ctx context.Context) (int, error)
	Count(ctx context.Context) (int64, error)
}

// ProductInput is an admin create or edit. Image and Gallery hold stored upload paths.
type ProductInput struct {
	Name        string
	Description string
	Price       string
	IsFeatured  bool
	ImageURL    string
	Image       string
	Gallery     []string
}

type service struct {
	repo     *Repository
	dbClient *db.Client
	logg     *logger.Logger
	now      func() time.Time
}

// NewService constructs a product service instance.
func NewService(repo *Repository, dbClient *db.Client, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient, logg: logg, now: time.Now}, nil
}

func (s *service) ListPublic(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return newProductDTOs(products), nil
}

func (s *service) ListOffers(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.ListOffers(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list offers")
	}
	return newProductDTOs(products), nil
}

// GetBySlug returns a storefront product with its de-duplicated gallery.
func (s *service) GetBySlug(ctx context.Context, slug string) (*ProductDTO, error) {
	product, err := s.repo.FindPublicBySlug(ctx, slug)
	if err != nil {
		return nil, notFoundOr(err, "load product")
	}
	images, err := s.repo.ListImages(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product images")
	}
	dto := NewProductDTO(product)
	dto.Gallery = Gallery(product.ImagePath, images)
	return dto, nil
}

func (s *service) GetPublic(ctx context.Context, id uint) (*models.Product, error) {
	product, err := s.repo.FindPublicByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load product")
	}
	return product, nil
}

func (s *service) AdminList(ctx context.Context) ([]ProductDTO, error) {
	products, err := s.repo.ListCustom(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return newProductDTOs(products), nil
}

func (s *service) AdminGet(ctx context.Context, id uint) (*ProductDTO, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load product")
	}
	return s.withImages(ctx, product)
}

func (s *service) withImages(ctx context.Context, product *models.Product) (*ProductDTO, error) {
	images, err := s.repo.ListImages(ctx, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product images")
	}
	dto := NewProductDTO(product)
	dto.Images = newImageDTOs(images)
	dto.Gallery = Gallery(product.ImagePath, images)
	return dto, nil
}

type validatedInput struct {
	name        string
	description string
	priceCents  int64
}

func validateInput(input ProductInput) (validatedInput, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	cents, ok := catalog.ParsePriceToCents(input.Price)

	var missing []string
	if name == "" {
		missing = append(missing, "name")
	}
	if description == "" {
		missing = append(missing, "description")
	}
	if !ok {
		missing = append(missing, "price")
	}
	if len(missing) > 0 {
		return validatedInput{}, pkgerrors.New(pkgerrors.CodeValidation, missingFieldsMessage).
			WithDetails(map[string]any{"fields": missing})
	}
	return validatedInput{name: name, description: description, priceCents: cents}, nil
}

// CreateProduct inserts an admin product at the end of the display order.
func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*ProductDTO, error) {
	valid, err := validateInput(input)
	if err != nil {
		return nil, err
	}

	gallery := append([]string{}, input.Gallery...)
	image := strings.TrimSpace(input.Image)
	if image == "" {
		image = strings.TrimSpace(input.ImageURL)
	}
	if image == "" && len(gallery) > 0 {
		image, gallery = gallery[0], gallery[1:]
	}
	if image == "" {
		image = PlaceholderImage
	}

	var createdID uint
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		slug, err := GenerateUniqueSlug(ctx, txRepo, valid.name, 0)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: generate slug")
		}
		maxOrder, err := txRepo.MaxSortOrder(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: max sort order")
		}
		sortOrder := maxOrder + 1
		now := s.now().UTC()

		created, err := txRepo.Create(ctx, &models.Product{
			Name:        valid.name,
			Slug:        slug,
			Description: valid.description,
			PriceCents:  valid.priceCents,
			ImagePath:   image,
			IsFeatured:  input.IsFeatured,
			Source:      enums.ProductSourceCustom.Ptr(),
			SortOrder:   &sortOrder,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
		if err != nil {
			if db.IsUniqueViolation(err, "products.slug") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "slug already in use")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		createdID = created.ID

		if err := txRepo.AddImages(ctx, created.ID, gallery, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product images")
		}
		return nil
	}); err != nil {
		return nil, asTyped(err, "create product")
	}

	return s.AdminGet(ctx, createdID)
}

// UpdateProduct applies an admin edit; the slug follows the new name.
func (s *service) UpdateProduct(ctx context.Context, id uint, input ProductInput) (*ProductDTO, error) {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "load product")
	}
	valid, err := validateInput(input)
	if err != nil {
		return nil, err
	}

	image := strings.TrimSpace(input.Image)
	if image == "" {
		image = strings.TrimSpace(input.ImageURL)
	}
	if image == "" {
		image = existing.ImagePath
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		slug, err := GenerateUniqueSlug(ctx, txRepo, valid.name, existing.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: generate slug")
		}
		now := s.now().UTC()
		if err := txRepo.UpdateFields(ctx, existing.ID, map[string]any{
			"name":        valid.name,
			"slug":        slug,
			"description": valid.description,
			"price_cents": valid.priceCents,
			"image_path":  image,
			"is_featured": input.IsFeatured,
			"updated_at":  now,
		}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}
		if err := txRepo.AddImages(ctx, existing.ID, input.Gallery, now); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product images")
		}
		return nil
	}); err != nil {
		return nil, asTyped(err, "update product")
	}

	return s.AdminGet(ctx, existing.ID)
}

// DeleteProduct removes the product and its gallery in one transaction.
func (s *service) DeleteProduct(ctx context.Context, id uint) error {
	var found bool
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		found, err = s.repo.WithTx(tx).Delete(ctx, id)
		return err
	}); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	if !found {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Produktet finnes ikke.")
	}
	return nil
}

// DeleteImage removes a gallery entry. When it was the primary image, the next
// gallery image (or the placeholder) takes its place.
func (s *service) DeleteImage(ctx context.Context, productID, imageID uint) (*ProductDTO, error) {
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		image, err := txRepo.FindImage(ctx, productID, imageID)
		if err != nil {
			return notFoundOr(err, "load product image")
		}
		if err := txRepo.DeleteImage(ctx, image.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product image")
		}

		product, err := txRepo.FindByID(ctx, productID)
		if err != nil {
			return notFoundOr(err, "load product")
		}
		if product.ImagePath != image.ImagePath {
			return nil
		}
		next := PlaceholderImage
		remaining, err := txRepo.ListImages(ctx, productID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list product images")
		}
		if len(remaining) > 0 {
			next = remaining[0].ImagePath
		}
		if err := txRepo.UpdateFields(ctx, productID, map[string]any{"image_path": next}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update primary image")
		}
		return nil
	}); err != nil {
		return nil, asTyped(err, "delete product image")
	}
	return s.AdminGet(ctx, productID)
}

// Reorder assigns positions 1..N in the given order as one batch. A failed
// batch is rolled back, logged and reported as not applied.
func (s *service) Reorder(ctx context.Context, ids []uint) (bool, error) {
	if len(ids) == 0 {
		return false, nil
	}
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		for index, id := range ids {
			if err := txRepo.SetSortOrder(ctx, id, index+1); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if s.logg != nil {
			s.logg.Error(ctx, "products.reorder_failed", err)
		}
		return false, nil
	}
	return true, nil
}

// ParseOrder reads a comma separated id list, skipping entries that are not ids.
func ParseOrder(raw string) []uint {
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		ids = append(ids, uint(id))
	}
	return ids
}

// BackfillSortOrder gives unpositioned rows consecutive positions after the current max.
func (s *service) BackfillSortOrder(ctx context.Context) (int, error) {
	var updated int
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		ids, err := txRepo.ListUnordered(ctx)
		if err != nil || len(ids) == 0 {
			return err
		}
		next, err := txRepo.MaxSortOrder(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			next++
			if err := txRepo.SetSortOrder(ctx, id, next); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "backfill sort order")
	}
	return updated, nil
}

func (s *service) MarkSeedProducts(ctx context.Context) (int64, error) {
	marked, err := s.repo.MarkSeed(ctx, SeedSlugs)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark seed products")
	}
	return marked, nil
}

// SeedDefaults inserts the fallback catalog. Callers decide when it applies.
func (s *service) SeedDefaults(ctx context.Context) (int, error) {
	inserted := 0
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		next, err := txRepo.MaxSortOrder(ctx)
		if err != nil {
			return err
		}
		for _, seed := range seedProducts {
			slug, err := GenerateUniqueSlug(ctx, txRepo, seed.Name, 0)
			if err != nil {
				return err
			}
			next++
			order := next
			now := s.now().UTC()
			if _, err := txRepo.Create(ctx, &models.Product{
				Name:        seed.Name,
				Slug:        slug,
				Description: seed.Description,
				PriceCents:  seed.PriceCents,
				ImagePath:   PlaceholderImage,
				IsFeatured:  seed.IsFeatured,
				Source:      enums.ProductSourceSeed.Ptr(),
				SortOrder:   &order,
				CreatedAt:   now,
				UpdatedAt:   now,
			}); err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "seed products")
	}
	return inserted, nil
}

func (s *service) Count(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	return count, nil
}

func notFoundOr(err error, message string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Produktet finnes ikke.")
	}
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}

func asTyped(err error, message string) error {
	if typed := pkgerrors.As(err); typed != nil {
		return typed
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, message)
}
