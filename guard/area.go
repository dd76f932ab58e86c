package guard

import "github.com/jrsteele09/crm-portal/credential"

// Area is a protected portal. Each area belongs to exactly one role.
type Area string

const (
	AreaAdmin  Area = "admin"
	AreaTenant Area = "tenant"
)

// Portal roots and login pages
const (
	AdminRoot        = "/dashboard"
	TenantRoot       = "/tenant-dashboard"
	AdminLoginPath   = "/login"
	TenantLoginPath  = "/tenants-login"
	DefaultLoginPath = AdminLoginPath
)

// AreaFor returns the area a role is sent to
func AreaFor(role credential.Role) Area {
	if role == credential.RoleTenant {
		return AreaTenant
	}
	return AreaAdmin
}

func (a Area) Role() credential.Role {
	if a == AreaTenant {
		return credential.RoleTenant
	}
	return credential.RoleAdmin
}

func (a Area) Root() string {
	if a == AreaTenant {
		return TenantRoot
	}
	return AdminRoot
}

func (a Area) LoginPath() string {
	if a == AreaTenant {
		return TenantLoginPath
	}
	return AdminLoginPath
}

func (a Area) String() string {
	return string(a)
}
