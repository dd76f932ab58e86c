package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/jrsteele09/crm-portal/internal/errors"
)

const (
	fallbackMessage   = "Invalid credentials"
	networkMessage    = "Network error. Please check your connection and try again."
	unexpectedMessage = "An unexpected error occurred. Please try again."
)

// Error is a non-2xx response from the CRM backend
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// Unauthorized reports whether the backend rejected the credential itself
func (e *Error) Unauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// parseError picks the first string among error, message and detail, then the
// HTTP status text.
func parseError(statusCode int, body []byte) *Error {
	var errResp map[string]any
	if err := json.Unmarshal(body, &errResp); err == nil {
		for _, field := range []string{"error", "message", "detail"} {
			if msg, ok := errResp[field].(string); ok && msg != "" {
				return &Error{StatusCode: statusCode, Message: msg}
			}
		}
	}

	msg := http.StatusText(statusCode)
	if msg == "" {
		msg = fallbackMessage
	}
	return &Error{StatusCode: statusCode, Message: msg}
}

// Message turns err into the text shown to the user. API messages are surfaced
// verbatim, otherwise fallback is used.
func Message(err error, fallback string) string {
	var apiErr *Error
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, errors.ErrTransport):
		return networkMessage
	case fallback != "":
		return fallback
	default:
		return unexpectedMessage
	}
}
