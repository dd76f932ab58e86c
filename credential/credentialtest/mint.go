package credentialtest

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/crm-portal/credential"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

// Mint signs claims with a throwaway HMAC key
func Mint(t *testing.T, claims credential.Claims) string {
	t.Helper()

	if claims.ExpiresAt == nil {
		claims.ExpiresAt = jwtlib.NewNumericDate(time.Now().Add(time.Hour))
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

// Admin returns a default credential carrying the admin role claim
func Admin(t *testing.T, userID, tenantID string) string {
	t.Helper()
	return Mint(t, credential.Claims{
		UserID:   credential.ClaimString(userID),
		TenantID: credential.ClaimString(tenantID),
		Role:     credential.ClaimString(credential.RoleAdmin),
	})
}

// Tenant returns a tenant_access credential
func Tenant(t *testing.T, tenantID string) string {
	t.Helper()
	return Mint(t, credential.Claims{
		Type:     credential.TypeTenantAccess,
		TenantID: credential.ClaimString(tenantID),
		Role:     credential.ClaimString(credential.RoleTenant),
	})
}
