package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/promonitor/storefront/pkg/config"
	"github.com/promonitor/storefront/pkg/logger"
)

// CartSession makes sure every storefront request carries a visitor session id.
// The id lives in an HttpOnly cookie that is set on first use and refreshed
// with the cart TTL on every request.
func CartSession(cfg config.CartConfig, logg *logger.Logger) func(http.Handler) http.Handler {
	name := cfg.CookieName
	if name == "" {
		name = "sf_session"
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sessionID := ""
			if cookie, err := r.Cookie(name); err == nil {
				sessionID = strings.TrimSpace(cookie.Value)
			}
			if _, err := uuid.Parse(sessionID); err != nil {
				sessionID = uuid.NewString()
			}

			http.SetCookie(w, &http.Cookie{
				Name:     name,
				Value:    sessionID,
				Path:     "/",
				MaxAge:   int(cfg.TTL.Seconds()),
				HttpOnly: true,
				Secure:   cfg.CookieSecure,
				SameSite: http.SameSiteLaxMode,
			})

			ctx := WithCartSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithSessionID(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
