package errors

import (
	"errors"
	"fmt"
)

// Common error types for the portal
var (
	// Credential errors
	ErrNoCredential        = errors.New("no credential")
	ErrMalformedCredential = errors.New("malformed credential")
	ErrUnknownRole         = errors.New("unknown role")

	// Session errors
	ErrNoSession       = errors.New("no session")
	ErrProfileRejected = errors.New("profile rejected")

	// Transport errors
	ErrTransport = errors.New("transport failure")

	// Storage errors
	ErrStorageUnavailable = errors.New("storage unavailable")
	ErrNotFound           = errors.New("not found")

	// Request errors
	ErrInvalidRequest = errors.New("invalid request")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
