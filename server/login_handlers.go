package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/crm-portal/api"
	"github.com/rs/zerolog/log"
)

const (
	invalidCredentialsMsg = "Invalid credentials. Please try again."
	googleFailedMsg       = "Google sign-in failed. Please try again."
	googleCSRFCookie      = "g_csrf_token"
	missingTokenMsg       = "Login failed: no token was returned. Please try again."
)

// LoginPageHandler displays the admin login page (GET /login)
func (s *Server) LoginPageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, "login.html", s.pageData(r))
	}
}

// LoginSubmissionHandler processes the admin login form (POST /login)
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := strings.TrimSpace(r.FormValue("email"))
		password := r.FormValue("password")
		if email == "" || password == "" {
			redirectWithError(w, r, withQuery(RouteLogin, "email", email), "Email and password are required")
			return
		}

		resp, err := s.api.Login(r.Context(), api.LoginRequest{Email: email, Password: password})
		if err != nil {
			log.Info().Err(err).Str("email", email).Msg("Admin login failed")
			redirectWithError(w, r, withQuery(RouteLogin, "email", email), api.Message(err, invalidCredentialsMsg))
			return
		}
		if resp.Token == "" {
			log.Warn().Str("email", email).Msg("Admin login succeeded without a token")
			redirectWithError(w, r, withQuery(RouteLogin, "email", email), missingTokenMsg)
			return
		}

		s.tokenStore(w, r).Set(r.Context(), resp.Token)
		redirectSuccess(w, r, RouteAdminDashboard)
	}
}

// GoogleAuthHandler receives the Google Identity Services redirect-mode POST
func (s *Server) GoogleAuthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		// Double submit cookie issued by Google's library; both halves are required
		cookie, err := r.Cookie(googleCSRFCookie)
		if err != nil || cookie.Value == "" || cookie.Value != r.FormValue(googleCSRFCookie) {
			log.Warn().Msg("Google login rejected: CSRF token missing or mismatched")
			redirectWithError(w, r, RouteLogin, googleFailedMsg)
			return
		}

		credential := r.FormValue("credential")
		if credential == "" {
			redirectWithError(w, r, RouteLogin, googleFailedMsg)
			return
		}

		if s.google != nil {
			if err := s.google.Verify(r.Context(), credential); err != nil {
				log.Warn().Err(err).Msg("Rejected Google credential")
				redirectWithError(w, r, RouteLogin, googleFailedMsg)
				return
			}
		}

		resp, err := s.api.GoogleAuth(r.Context(), credential)
		if err != nil {
			log.Info().Err(err).Msg("Google login failed")
			redirectWithError(w, r, RouteLogin, api.Message(err, googleFailedMsg))
			return
		}
		if resp.Token == "" {
			log.Warn().Msg("Google login succeeded without a token")
			redirectWithError(w, r, RouteLogin, missingTokenMsg)
			return
		}

		s.tokenStore(w, r).Set(r.Context(), resp.Token)
		redirectSuccess(w, r, RouteAdminDashboard)
	}
}

// LogoutHandler forgets the credential in both locations
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.tokenStore(w, r).Clear(r.Context())
		redirectWithNotice(w, r, RouteLogin, "You have been signed out.")
	}
}
