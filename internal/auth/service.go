package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	pkgAuth "github.com/promonitor/storefront/pkg/auth"
	"github.com/promonitor/storefront/pkg/auth/session"
	"github.com/promonitor/storefront/pkg/config"
	"github.com/promonitor/storefront/pkg/db"
	"github.com/promonitor/storefront/pkg/db/models"
	"github.com/promonitor/storefront/pkg/enums"
	pkgerrors "github.com/promonitor/storefront/pkg/errors"
	"github.com/promonitor/storefront/pkg/logger"
	"github.com/promonitor/storefront/pkg/security"
	"gorm.io/gorm"
)

const invalidCredentialsMessage = "Ugyldig innlogging. Sjekk e-post og passord."

// Service authenticates back-office admins.
type Service interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	EnsureAdmin(ctx context.Context, email, password string) (bool, error)
}

type adminRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	Create(ctx context.Context, admin *models.AdminUser) (*models.AdminUser, error)
	UpdatePasswordHash(ctx context.Context, id uint, hash string) error
}

type sessionManager interface {
	Generate(ctx context.Context, accessID string) (string, error)
}

// ServiceParams bundles the dependencies required to build an auth service.
type ServiceParams struct {
	Admins         adminRepository
	SessionManager sessionManager
	JWTConfig      config.JWTConfig
	PasswordConfig config.PasswordConfig
	Logger         *logger.Logger
}

type service struct {
	admins      adminRepository
	session     sessionManager
	jwtCfg      config.JWTConfig
	passwordCfg config.PasswordConfig
	logg        *logger.Logger
	now         func() time.Time
}

// NewService constructs the admin login service.
func NewService(params ServiceParams) (Service, error) {
	if params.Admins == nil {
		return nil, fmt.Errorf("admin repository is required")
	}
	if params.SessionManager == nil {
		return nil, fmt.Errorf("session manager is required")
	}
	return &service{
		admins:      params.Admins,
		session:     params.SessionManager,
		jwtCfg:      params.JWTConfig,
		passwordCfg: params.PasswordConfig,
		logg:        params.Logger,
		now:         time.Now,
	}, nil
}

func (s *service) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	admin, err := s.authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}

	accessID := session.NewAccessID()
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, s.now().UTC(), pkgAuth.AccessTokenPayload{
		AdminID: admin.ID,
		Email:   admin.Email,
		Role:    enums.AdminRoleAdmin,
		JTI:     accessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	refreshToken, err := s.session.Generate(ctx, accessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "store refresh token")
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		Admin:        newAdminDTO(admin),
	}, nil
}

func (s *service) authenticate(ctx context.Context, email, password string) (*models.AdminUser, error) {
	input := normalizeEmail(email)
	if input == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}
	admin, err := s.admins.FindByEmail(ctx, input)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup admin")
	}

	valid, err := security.VerifyPassword(password, admin.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !valid {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, invalidCredentialsMessage)
	}

	if security.NeedsRehash(admin.PasswordHash, s.passwordCfg) {
		s.rehash(ctx, admin, password)
	}
	return admin, nil
}

// rehash upgrades the stored hash; failures only cost a later retry.
func (s *service) rehash(ctx context.Context, admin *models.AdminUser, password string) {
	hash, err := security.HashPassword(password, s.passwordCfg)
	if err == nil {
		err = s.admins.UpdatePasswordHash(ctx, admin.ID, hash)
	}
	if err != nil && s.logg != nil {
		ctx = s.logg.WithField(s.logg.WithAdminID(ctx, admin.ID), "error", err.Error())
		s.logg.Warn(ctx, "auth.rehash_failed")
	}
}

// EnsureAdmin creates the admin account when no account with that email exists.
// It never overwrites an existing password.
func (s *service) EnsureAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, nil
	}
	if _, err := s.admins.FindByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup admin")
	}

	hash, err := security.HashPassword(password, s.passwordCfg)
	if err != nil {
		return false, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}
	if _, err := s.admins.Create(ctx, &models.AdminUser{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}); err != nil {
		if db.IsUniqueViolation(err, "admin_users.email") {
			return false, nil
		}
		return false, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create admin")
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "email", email), "auth.admin_seeded")
	}
	return true, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
