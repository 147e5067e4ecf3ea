package controllers

import (
	"context"
	"net/http"

	"github.com/promonitor/storefront/api/responses"
	"github.com/promonitor/storefront/api/validators"
	"github.com/promonitor/storefront/internal/content"
	pkgerrors "github.com/promonitor/storefront/pkg/errors"
	"github.com/promonitor/storefront/pkg/logger"
)

type contentReader interface {
	Get(ctx context.Context) (content.Value, error)
}

type contentEditor interface {
	contentReader
	Save(ctx context.Context, doc content.Value) (content.Value, error)
	Meta(ctx context.Context) (content.Meta, error)
}

type contentResponse struct {
	Content content.Value `json:"content"`
	Meta    content.Meta  `json:"meta"`
}

type saveContentRequest struct {
	Content content.Value `json:"content"`
}

// GetContent serves the normalized site content document.
func GetContent(store contentReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, err := store.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load content"))
			return
		}
		responses.WriteSuccess(w, doc)
	}
}

// AdminGetContent returns the document with its version for the editor.
func AdminGetContent(store contentEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp, err := loadContentResponse(r.Context(), store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AdminSaveContent replaces the stored document. Missing sections are filled
// from the defaults before saving.
func AdminSaveContent(store contentEditor, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body saveContentRequest
		if err := validators.DecodeJSON(w, r, &body, true); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !body.Content.IsMap() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Innholdet må være et JSON-objekt.").
				WithDetails(map[string]string{"content": "must be an object"}))
			return
		}

		if _, err := store.Save(r.Context(), body.Content); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save content"))
			return
		}
		if logg != nil {
			logg.Info(r.Context(), "content.saved")
		}

		resp, err := loadContentResponse(r.Context(), store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

// AdminUploadHeroImage stores the uploaded image and points hero.image at it.
func AdminUploadHeroImage(store contentEditor, images imageSaver, maxBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := parseMultipart(w, r, maxBytes); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		header := firstFile(r, "image")
		if header == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "Velg et bilde å laste opp.").
				WithDetails(map[string]string{"image": "is required"}))
			return
		}

		path, err := images.SaveFile(r.Context(), header)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		doc, err := store.Get(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load content"))
			return
		}
		doc = doc.With("hero", doc.Get("hero").With("image", content.String(path)))
		if _, err := store.Save(r.Context(), doc); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save content"))
			return
		}
		if logg != nil {
			logg.Info(logg.WithField(r.Context(), "image", path), "content.hero_image_uploaded")
		}

		resp, err := loadContentResponse(r.Context(), store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}

func loadContentResponse(ctx context.Context, store contentEditor) (*contentResponse, error) {
	doc, err := store.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load content")
	}
	meta, err := store.Meta(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load content meta")
	}
	return &contentResponse{Content: doc, Meta: meta}, nil
}
