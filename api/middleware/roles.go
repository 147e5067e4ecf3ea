package middleware

import (
	"net/http"

	"github.com/promonitor/storefront/api/responses"
	"github.com/promonitor/storefront/pkg/enums"
	pkgerrors "github.com/promonitor/storefront/pkg/errors"
	"github.com/promonitor/storefront/pkg/logger"
)

// RequireRole rejects requests whose admin token does not carry role.
func RequireRole(role enums.AdminRole, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got, err := enums.ParseAdminRole(RoleFromContext(r.Context()))
			if err != nil || got != role || AdminIDFromContext(r.Context()) == 0 {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeForbidden, "role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
