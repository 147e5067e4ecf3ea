package auth

import (
	"time"

	"github.com/promonitor/storefront/pkg/db/models"
)

// LoginRequest captures the credentials sent to the admin login endpoint.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AdminDTO is the public view of an admin account.
type AdminDTO struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse carries the token pair issued on login.
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	Admin        *AdminDTO `json:"admin"`
}

func newAdminDTO(admin *models.AdminUser) *AdminDTO {
	return &AdminDTO{ID: admin.ID, Email: admin.Email, CreatedAt: admin.CreatedAt}
}
