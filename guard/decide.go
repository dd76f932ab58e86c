package guard

import (
	"github.com/jrsteele09/crm-portal/api"
	"github.com/jrsteele09/crm-portal/internal/errors"
	"github.com/jrsteele09/crm-portal/session"
)

// State is where a guarded page is in its lifecycle
type State int

const (
	Checking State = iota
	Authorized
	Redirecting
)

func (s State) String() string {
	switch s {
	case Checking:
		return "checking"
	case Authorized:
		return "authorized"
	case Redirecting:
		return "redirecting"
	default:
		return "unknown"
	}
}

// Action is the outcome of a guard decision: allow, or navigate away
type Action struct {
	Path       string // redirect target, empty when allowed
	ClearStore bool   // the credential must be erased before navigating
	Notice     string // message for the destination page, if any
}

// Allow lets the request through to the area's children
func Allow() Action {
	return Action{}
}

// RedirectTo sends the request to path
func RedirectTo(path string) Action {
	return Action{Path: path}
}

func (a Action) Allowed() bool {
	return a.Path == ""
}

// State is the terminal state reached from Checking by this action
func (a Action) State() State {
	if a.Allowed() {
		return Authorized
	}
	return Redirecting
}

func (a Action) String() string {
	if a.Allowed() {
		return "allow"
	}
	return "redirect"
}

const sessionExpiredNotice = "Your session has expired. Please sign in again."

// Decide maps the outcome of a session resolution onto an action for area.
// It has no side effects; callers apply the action.
func Decide(s session.Session, err error, area Area) Action {
	switch {
	case err == nil && s.Role == area.Role():
		return Allow()
	case err == nil:
		return RedirectTo(AreaFor(s.Role).Root())
	case errors.Is(err, errors.ErrNoCredential):
		return RedirectTo(area.LoginPath())
	default:
		return Action{
			Path:       area.LoginPath(),
			ClearStore: true,
			Notice:     api.Message(err, sessionExpiredNotice),
		}
	}
}

// Landing picks where the site root sends a visitor
func Landing(s session.Session, err error) string {
	if err != nil {
		return DefaultLoginPath
	}
	return AreaFor(s.Role).Root()
}
