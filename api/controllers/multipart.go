package controllers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"

	pkgerrors "github.com/promonitor/storefront/pkg/errors"
)

// multipartMemory is how much of a form is kept in memory before spilling to disk.
const multipartMemory = 8 << 20

// formOverhead leaves room for text fields and part headers next to the files.
const formOverhead = 1 << 20

type imageSaver interface {
	SaveFile(ctx context.Context, header *multipart.FileHeader) (string, error)
}

// parseMultipart caps the body at limit bytes of files plus overhead and parses it.
func parseMultipart(w http.ResponseWriter, r *http.Request, limit int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit+formOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pkgerrors.Wrap(pkgerrors.CodePayloadTooLarge, err, "Bildet er for stort.")
		}
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid multipart form")
	}
	return nil
}

func firstFile(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}

func allFiles(r *http.Request, field string) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	return r.MultipartForm.File[field]
}
