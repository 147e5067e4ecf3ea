package validators

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	pkgerrors "github.com/promonitor/storefront/pkg/errors"
)

// ParseIDParam reads a positive integer route parameter.
func ParseIDParam(r *http.Request, name string) (uint, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid id").WithDetails(map[string]any{"field": name})
	}
	return uint(id), nil
}
