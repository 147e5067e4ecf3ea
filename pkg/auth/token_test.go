package auth

import (
	"testing"
	"time"

	"github.com/promonitor/storefront/pkg/config"
	"github.com/promonitor/storefront/pkg/enums"
	"github.com/stretchr/testify/require"
)

func testJWTConfig() config.JWTConfig {
	return config.JWTConfig{Secret: "secret", Issuer: "storefront", ExpirationMinutes: 30}
}

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := testJWTConfig()
	now := time.Now().UTC()

	token, err := MintAccessToken(cfg, now, AccessTokenPayload{
		AdminID: 3,
		Email:   "admin@example.com",
		Role:    enums.AdminRoleAdmin,
		JTI:     "jti-1",
	})
	require.NoError(t, err)

	claims, err := ParseAccessToken(cfg, token)
	require.NoError(t, err)
	require.EqualValues(t, 3, claims.AdminID)
	require.Equal(t, "admin@example.com", claims.Email)
	require.Equal(t, enums.AdminRoleAdmin, claims.Role)
	require.Equal(t, "jti-1", claims.ID)
	require.Equal(t, cfg.Issuer, claims.Issuer)
	require.WithinDuration(t, now.Add(30*time.Minute), claims.ExpiresAt.Time, time.Second)
}

func TestMintAccessTokenValidatesInput(t *testing.T) {
	cfg := testJWTConfig()
	_, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{Role: enums.AdminRoleAdmin})
	require.Error(t, err)

	_, err = MintAccessToken(cfg, time.Now(), AccessTokenPayload{AdminID: 1, Role: "owner"})
	require.Error(t, err)

	_, err = MintAccessToken(config.JWTConfig{Issuer: "x", ExpirationMinutes: 1}, time.Now(), AccessTokenPayload{AdminID: 1, Role: enums.AdminRoleAdmin})
	require.Error(t, err)
}

func TestParseAccessTokenRejectsWrongSecretAndIssuer(t *testing.T) {
	cfg := testJWTConfig()
	token, err := MintAccessToken(cfg, time.Now(), AccessTokenPayload{AdminID: 1, Role: enums.AdminRoleAdmin})
	require.NoError(t, err)

	other := cfg
	other.Secret = "other"
	_, err = ParseAccessToken(other, token)
	require.Error(t, err)

	other = cfg
	other.Issuer = "someone-else"
	_, err = ParseAccessToken(other, token)
	require.Error(t, err)
}

func TestParseAccessTokenAllowExpired(t *testing.T) {
	cfg := testJWTConfig()
	past := time.Now().Add(-2 * time.Hour)
	token, err := MintAccessToken(cfg, past, AccessTokenPayload{AdminID: 9, Role: enums.AdminRoleAdmin, JTI: "old"})
	require.NoError(t, err)

	_, err = ParseAccessToken(cfg, token)
	require.Error(t, err)

	claims, err := ParseAccessTokenAllowExpired(cfg, token)
	require.NoError(t, err)
	require.Equal(t, "old", claims.ID)
	require.EqualValues(t, 9, claims.AdminID)
}
