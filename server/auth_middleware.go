package server

import (
	"net/http"

	"github.com/jrsteele09/crm-portal/guard"
	"github.com/jrsteele09/crm-portal/internal/metrics"
	"github.com/jrsteele09/crm-portal/session"
	"github.com/rs/zerolog/log"
)

// RequireArea resolves the visitor's session once and only renders the wrapped
// handler when the session's role owns the area. Everything else is redirected.
func (s *Server) RequireArea(area guard.Area) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			store := s.tokenStore(w, r)
			sess, err := s.resolver.Resolve(r.Context(), store)
			if r.Context().Err() != nil {
				// Client went away; nothing to render or redirect
				return
			}

			action := guard.Decide(sess, err, area)
			metrics.ObserveDecision(area.String(), action.String())

			if !action.Allowed() {
				if action.ClearStore {
					store.Clear(r.Context())
				}
				log.Debug().
					Err(err).
					Str("area", area.String()).
					Str("redirect", action.Path).
					Msg("Guard redirect")
				if action.Notice != "" {
					redirectWithError(w, r, action.Path, action.Notice)
					return
				}
				redirectSuccess(w, r, action.Path)
				return
			}

			next(w, r.WithContext(session.NewContext(r.Context(), sess)))
		}
	}
}
