package server

import "github.com/jrsteele09/crm-portal/guard"

// Route path constants
// All portal routes are defined here to ensure consistency and prevent typos
const (
	// Auth Routes - Login & Logout
	RouteLogin       = guard.AdminLoginPath
	RouteTenantLogin = guard.TenantLoginPath
	RouteGoogleAuth  = "/auth/google"
	RouteLogout      = "/logout"

	// Auth Routes - Password Management
	RouteForgotPassword = "/forgot-password"
	RouteResetPassword  = "/reset-password"

	// Portal Routes
	RouteAdminDashboard  = guard.AdminRoot
	RouteTenantDashboard = guard.TenantRoot

	// API Routes
	RouteAPISession       = "/api/session"
	RouteAPIValidateToken = "/api/validate-token"

	RouteMetrics = "/metrics"
)
