package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/promonitor/storefront/pkg/enums"
)

// AccessTokenPayload captures the data available when minting a JWT.
type AccessTokenPayload struct {
	AdminID uint
	Email   string
	Role    enums.AdminRole
	JTI     string
}

// AccessTokenClaims represents the typed JWT issued to admin clients.
type AccessTokenClaims struct {
	AdminID uint            `json:"admin_id"`
	Email   string          `json:"email"`
	Role    enums.AdminRole `json:"role"`
	jwt.RegisteredClaims
}
