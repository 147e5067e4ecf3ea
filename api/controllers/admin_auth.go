package controllers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/promonitor/storefront/api/middleware"
	"github.com/promonitor/storefront/api/responses"
	"github.com/promonitor/storefront/api/validators"
	"github.com/promonitor/storefront/internal/auth"
	pkgAuth "github.com/promonitor/storefront/pkg/auth"
	"github.com/promonitor/storefront/pkg/auth/session"
	"github.com/promonitor/storefront/pkg/config"
	pkgerrors "github.com/promonitor/storefront/pkg/errors"
	"github.com/promonitor/storefront/pkg/logger"
)

const loginFieldsMessage = "Ugyldig innlogging. Sjekk e-post og passord."

type loginService interface {
	Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error)
}

type sessionTokenRotator interface {
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
	Revoke(ctx context.Context, accessID string) error
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type refreshResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AdminLogin exchanges admin credentials for an access and refresh token pair.
func AdminLogin(svc loginService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body auth.LoginRequest
		if err := validators.DecodeJSONBodyMessage(w, r, &body, loginFieldsMessage); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		resp, err := svc.Login(r.Context(), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if logg != nil && resp.Admin != nil {
			logg.Info(logg.WithAdminID(r.Context(), resp.Admin.ID), "auth.login")
		}
		responses.WriteSuccess(w, resp)
	}
}

// AdminLogout revokes the refresh session tied to the presented access token.
// Expired tokens are accepted so a stale client can still sign out.
func AdminLogout(manager sessionTokenRotator, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, err := presentedClaims(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := manager.Revoke(r.Context(), claims.ID); err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "revoke session"))
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "logged_out"})
	}
}

// AdminRefresh rotates the refresh token and issues a new access token.
func AdminRefresh(manager sessionTokenRotator, cfg config.JWTConfig, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body refreshRequest
		if err := validators.DecodeJSONBody(w, r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		claims, err := presentedClaims(r, cfg)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		newAccessID, newRefreshToken, err := manager.Rotate(r.Context(), claims.ID, body.RefreshToken)
		if err != nil {
			if errors.Is(err, session.ErrInvalidRefreshToken) {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token"))
				return
			}
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rotate session"))
			return
		}

		accessToken, err := pkgAuth.MintAccessToken(cfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
			AdminID: claims.AdminID,
			Email:   claims.Email,
			Role:    claims.Role,
			JTI:     newAccessID,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt"))
			return
		}

		responses.WriteSuccess(w, refreshResponse{
			AccessToken:  accessToken,
			RefreshToken: newRefreshToken,
		})
	}
}

func presentedClaims(r *http.Request, cfg config.JWTConfig) (*pkgAuth.AccessTokenClaims, error) {
	token := middleware.BearerToken(r)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	claims, err := pkgAuth.ParseAccessTokenAllowExpired(cfg, token)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid token")
	}
	if claims.ID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing session id")
	}
	return claims, nil
}
