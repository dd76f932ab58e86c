package credential

import (
	"fmt"
	"strings"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/crm-portal/internal/errors"
)

// TypeTenantAccess marks credentials issued by the tenant portal login
const TypeTenantAccess = "tenant_access"

// Claims is the wire shape of a CRM bearer token payload.
type Claims struct {
	Type     ClaimString `json:"type,omitempty"`
	UserID   ClaimString `json:"user_id,omitempty"`
	TenantID ClaimString `json:"tenant_id,omitempty"`
	Role     ClaimString `json:"role,omitempty"`
	Email    ClaimString `json:"email,omitempty"`
	jwtlib.RegisteredClaims
}

// Payload is the decoded, unverified content of a credential. It is either a
// TenantAccess or a Default payload.
type Payload interface {
	SubjectID() string
	TenantID() string
	Expired(now time.Time) bool
	isPayload()
}

// TenantAccess is a credential issued by the tenant portal login.
type TenantAccess struct {
	Tenant    string
	User      string
	Email     string
	ExpiresAt time.Time
}

// Default is an admin or default credential. Role is the unverified role claim,
// it is a routing hint only.
type Default struct {
	User      string
	Tenant    string
	Role      string
	ExpiresAt time.Time
}

func (TenantAccess) isPayload() {}
func (Default) isPayload() {}

func (t TenantAccess) SubjectID() string {
	if t.User != "" {
		return t.User
	}
	return t.Tenant
}

func (t TenantAccess) TenantID() string { return t.Tenant }

func (t TenantAccess) Expired(now time.Time) bool { return expired(t.ExpiresAt, now) }

func (d Default) SubjectID() string { return d.User }

func (d Default) TenantID() string { return d.Tenant }

func (d Default) Expired(now time.Time) bool { return expired(d.ExpiresAt, now) }

func expired(exp, now time.Time) bool {
	return !exp.IsZero() && now.After(exp)
}

// Decode reads the payload of a credential without verifying its signature.
// The result must only be used for routing, never for authorization.
func Decode(token string) (Payload, error) {
	if strings.TrimSpace(token) == "" {
		return nil, fmt.Errorf("%w: empty token", errors.ErrMalformedCredential)
	}

	claims := &Claims{}
	parser := jwtlib.NewParser(jwtlib.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrMalformedCredential, err)
	}

	var exp time.Time
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}

	if claims.Type == TypeTenantAccess {
		return TenantAccess{
			Tenant:    claims.TenantID.String(),
			User:      claims.UserID.String(),
			Email:     claims.Email.String(),
			ExpiresAt: exp,
		}, nil
	}

	user := claims.UserID.String()
	if user == "" {
		user = claims.Subject
	}
	return Default{
		User:      user,
		Tenant:    claims.TenantID.String(),
		Role:      claims.Role.String(),
		ExpiresAt: exp,
	}, nil
}
