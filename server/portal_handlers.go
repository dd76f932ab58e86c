package server

import (
	"net/http"

	"github.com/jrsteele09/crm-portal/guard"
	"github.com/jrsteele09/crm-portal/session"
)

// IndexHandler sends the visitor to the root of their area, or to login
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.resolver.Resolve(r.Context(), s.tokenStore(w, r))
		if r.Context().Err() != nil {
			return
		}
		redirectSuccess(w, r, guard.Landing(sess, err))
	}
}

// AdminDashboardHandler renders the admin area root. Only reachable through RequireArea.
func (s *Server) AdminDashboardHandler() http.HandlerFunc {
	return s.areaPage("dashboard.html")
}

// TenantDashboardHandler renders the tenant area root. Only reachable through RequireArea.
func (s *Server) TenantDashboardHandler() http.HandlerFunc {
	return s.areaPage("tenant_dashboard.html")
}

func (s *Server) areaPage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := session.FromContext(r.Context())
		if !ok {
			redirectSuccess(w, r, guard.DefaultLoginPath)
			return
		}
		data := s.pageData(r)
		data.Session = sess
		s.render(w, name, data)
	}
}
