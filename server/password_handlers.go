package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/crm-portal/api"
	"github.com/jrsteele09/crm-portal/internal/errors"
	"github.com/rs/zerolog/log"
)

const (
	minPasswordLength = 6

	forgotPasswordNotice = "If an account with that email exists, we've sent password reset instructions."
	invalidResetLinkMsg  = "This password reset link is invalid or expired."
	passwordMismatchMsg  = "Passwords do not match."
	passwordTooShortMsg  = "Password must be at least 6 characters long."
	passwordResetNotice  = "Your password has been reset successfully."
)

// ForgotPasswordGetHandler displays the forgot password page
func (s *Server) ForgotPasswordGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.render(w, "forgot_password.html", s.pageData(r))
	}
}

// ForgotPasswordPostHandler requests a reset email. The confirmation never
// reveals whether the address is registered.
func (s *Server) ForgotPasswordPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := strings.TrimSpace(r.FormValue("email"))
		if email == "" {
			redirectWithError(w, r, RouteForgotPassword, "Email is required")
			return
		}

		if _, err := s.api.ForgotPassword(r.Context(), email); err != nil {
			if errors.Is(err, errors.ErrTransport) {
				redirectWithError(w, r, withQuery(RouteForgotPassword, "email", email), api.Message(err, ""))
				return
			}
			log.Info().Err(err).Msg("Forgot password request rejected")
		}

		redirectWithNotice(w, r, RouteForgotPassword, forgotPasswordNotice)
	}
}

// ResetPasswordGetHandler displays the reset form for a reset link
func (s *Server) ResetPasswordGetHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			redirectWithError(w, r, RouteForgotPassword, invalidResetLinkMsg)
			return
		}
		data := s.pageData(r)
		data.Token = token
		s.render(w, "reset_password.html", data)
	}
}

// ResetPasswordPostHandler sets the new password
func (s *Server) ResetPasswordPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		token := r.FormValue("token")
		if token == "" {
			redirectWithError(w, r, RouteForgotPassword, invalidResetLinkMsg)
			return
		}
		back := withQuery(RouteResetPassword, "token", token)

		password := r.FormValue("password")
		if password != r.FormValue("confirm_password") {
			redirectWithError(w, r, back, passwordMismatchMsg)
			return
		}
		if len(password) < minPasswordLength {
			redirectWithError(w, r, back, passwordTooShortMsg)
			return
		}

		if _, err := s.api.ResetPassword(r.Context(), api.ResetPasswordRequest{Token: token, NewPassword: password}); err != nil {
			log.Info().Err(err).Msg("Password reset failed")
			redirectWithError(w, r, back, api.Message(err, "Failed to reset password. Please try again."))
			return
		}

		redirectWithNotice(w, r, RouteLogin, passwordResetNotice)
	}
}
