package credential

import (
	"fmt"

	"github.com/jrsteele09/crm-portal/internal/errors"
)

// Role is the portal a credential belongs to
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleTenant Role = "tenant"
)

// ParseRole accepts only the closed set of portal roles
func ParseRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleAdmin, RoleTenant:
		return r, nil
	default:
		return "", fmt.Errorf("%w: %q", errors.ErrUnknownRole, s)
	}
}

func (r Role) String() string {
	return string(r)
}
