package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/crm-portal/api"
	"github.com/jrsteele09/crm-portal/tokenstore"
	"github.com/rs/zerolog/log"
)

// TenantLoginPageHandler displays the tenant portal login page (GET /tenants-login)
func (s *Server) TenantLoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, "tenants_login.html", s.pageData(r))
	}
}

// TenantLoginSubmissionHandler processes the tenant login form (POST /tenants-login)
func (s *Server) TenantLoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		tenantID := strings.TrimSpace(r.FormValue("tenant_id"))
		password := r.FormValue("password")
		back := withQuery(RouteTenantLogin, "tenant_id", tenantID)
		if tenantID == "" || password == "" {
			redirectWithError(w, r, back, "Tenant ID and password are required")
			return
		}

		resp, err := s.api.TenantLogin(r.Context(), api.TenantLoginRequest{TenantID: tenantID, Password: password})
		if err != nil {
			log.Info().Err(err).Str("tenant_id", tenantID).Msg("Tenant login failed")
			redirectWithError(w, r, back, api.Message(err, invalidCredentialsMsg))
			return
		}
		if resp.Token == "" {
			log.Warn().Str("tenant_id", tenantID).Msg("Tenant login succeeded without a token")
			redirectWithError(w, r, back, missingTokenMsg)
			return
		}

		record := tokenstore.TenantRecord{
			TenantID: resp.Tenant.TenantID,
			Email:    resp.Tenant.Email,
			Info:     resp.Tenant,
		}
		if record.TenantID == "" {
			record.TenantID = resp.User.TenantID
		}
		if record.TenantID == "" {
			record.TenantID = tenantID
		}
		if record.Email == "" {
			record.Email = resp.User.Email
		}

		s.tokenStore(w, r).SetTenant(r.Context(), resp.Token, record)
		redirectWithNotice(w, r, RouteTenantDashboard, "Login successful! Redirecting...")
	}
}
