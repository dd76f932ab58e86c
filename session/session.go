package session

import (
	"context"

	"github.com/jrsteele09/crm-portal/credential"
	"github.com/jrsteele09/crm-portal/internal/errors"
)

// ErrNoSession is returned whenever a request has no valid session. Decode and
// rejection failures wrap it together with their own cause.
var ErrNoSession = errors.ErrNoSession

// Session is the resolved, role-tagged identity behind a credential. It is
// never persisted and never outlives the credential it came from.
type Session struct {
	SubjectID string          `json:"subject_id"`
	TenantID  string          `json:"tenant_id"`
	Email     string          `json:"email,omitempty"`
	Role      credential.Role `json:"role"`
	Status    string          `json:"status,omitempty"`
	CreatedAt string          `json:"created_at,omitempty"`
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored by NewContext
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(contextKey{}).(Session)
	return s, ok
}
