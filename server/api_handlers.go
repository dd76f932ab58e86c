package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/crm-portal/api"
	"github.com/jrsteele09/crm-portal/internal/errors"
	"github.com/rs/zerolog/log"
)

type errorBody struct {
	Error string `json:"error"`
}

// SessionHandler returns the resolved session as JSON (GET /api/session)
func (s *Server) SessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := s.resolver.Resolve(r.Context(), s.tokenStore(w, r))
		if err != nil {
			status := http.StatusUnauthorized
			if errors.Is(err, errors.ErrTransport) {
				status = http.StatusServiceUnavailable
			}
			writeJSON(w, status, errorBody{Error: api.Message(err, "Not authenticated")})
			return
		}
		writeJSON(w, http.StatusOK, sess)
	}
}

// ValidateTokenHandler asks the backend whether the stored credential is
// still valid (POST /api/validate-token)
func (s *Server) ValidateTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := s.tokenStore(w, r).Get(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "No token found"})
			return
		}

		resp, err := s.api.ValidateToken(r.Context(), token)
		if err != nil {
			status := http.StatusServiceUnavailable
			var apiErr *api.Error
			if errors.As(err, &apiErr) {
				status = apiErr.StatusCode
			}
			writeJSON(w, status, errorBody{Error: api.Message(err, "Token validation failed")})
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Err(err).Msg("Failed to encode JSON response")
	}
}
