package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/promonitor/storefront/api/responses"
	"github.com/promonitor/storefront/api/validators"
	product "github.com/promonitor/storefront/internal/products"
	"github.com/promonitor/storefront/pkg/config"
	pkgerrors "github.com/promonitor/storefront/pkg/errors"
	"github.com/promonitor/storefront/pkg/logger"
)

type productAdmin interface {
	AdminList(ctx context.Context) ([]product.ProductDTO, error)
	AdminGet(ctx context.Context, id uint) (*product.ProductDTO, error)
	CreateProduct(ctx context.Context, input product.ProductInput) (*product.ProductDTO, error)
	UpdateProduct(ctx context.Context, id uint, input product.ProductInput) (*product.ProductDTO, error)
	DeleteProduct(ctx context.Context, id uint) error
	DeleteImage(ctx context.Context, productID, imageID uint) (*product.ProductDTO, error)
	Reorder(ctx context.Context, ids []uint) (bool, error)
}

type reorderRequest struct {
	Order string `json:"order" validate:"required"`
}

type reorderResponse struct {
	Applied bool   `json:"applied"`
	IDs     []uint `json:"ids"`
}

// AdminListProducts lists the admin-owned products in display order.
func AdminListProducts(svc productAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.AdminList(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, items)
	}
}

func AdminGetProduct(svc productAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.AdminGet(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// AdminCreateProduct accepts a multipart form with an optional primary image
// and gallery images.
func AdminCreateProduct(svc productAdmin, images imageSaver, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		input, err := readProductForm(w, r, images, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			logg.Info(logg.WithField(r.Context(), "product_id", item.ID), "products.created")
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, item)
	}
}

// AdminUpdateProduct edits a product. New gallery images are appended; the
// primary image only changes when a new one is supplied.
func AdminUpdateProduct(svc productAdmin, images imageSaver, cfg config.UploadsConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input, err := readProductForm(w, r, images, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

func AdminDeleteProduct(svc productAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil {
			logg.Info(logg.WithField(r.Context(), "product_id", id), "products.deleted")
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// AdminDeleteProductImage removes one gallery image and returns the product.
func AdminDeleteProductImage(svc productAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, err := validators.ParseIDParam(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		imageID, err := validators.ParseIDParam(r, "imageId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		item, err := svc.DeleteImage(r.Context(), productID, imageID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, item)
	}
}

// AdminReorderProducts applies a comma separated id order. A batch that could
// not be applied is reported with applied=false rather than as an error.
func AdminReorderProducts(svc productAdmin, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body reorderRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		ids := product.ParseOrder(body.Order)
		if len(ids) == 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "order must list product ids").
				WithDetails(map[string]string{"order": "is invalid"}))
			return
		}
		applied, err := svc.Reorder(r.Context(), ids)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reorderResponse{Applied: applied, IDs: ids})
	}
}

// readProductForm parses the admin product form and stores any uploaded images.
// Files are validated (and written) before the text fields are checked by the
// service.
func readProductForm(w http.ResponseWriter, r *http.Request, images imageSaver, cfg config.UploadsConfig) (product.ProductInput, error) {
	maxGallery := cfg.MaxGallery
	if maxGallery <= 0 {
		maxGallery = 1
	}
	if err := parseMultipart(w, r, cfg.MaxBytes*int64(maxGallery+1)); err != nil {
		return product.ProductInput{}, err
	}

	input := product.ProductInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       r.FormValue("price"),
		ImageURL:    strings.TrimSpace(r.FormValue("image_url")),
		IsFeatured:  formBool(r.FormValue("is_featured")),
	}

	gallery := allFiles(r, "gallery")
	if len(gallery) > maxGallery {
		return product.ProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "For mange bilder.").
			WithDetails(map[string]any{"gallery": "too many files", "max": maxGallery})
	}

	if header := firstFile(r, "image"); header != nil {
		path, err := images.SaveFile(r.Context(), header)
		if err != nil {
			return product.ProductInput{}, err
		}
		input.Image = path
	}
	for _, header := range gallery {
		path, err := images.SaveFile(r.Context(), header)
		if err != nil {
			return product.ProductInput{}, err
		}
		input.Gallery = append(input.Gallery, path)
	}
	return input, nil
}

func formBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
