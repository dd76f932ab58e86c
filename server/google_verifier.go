package server

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
)

const (
	googleIssuer  = "https://accounts.google.com"
	googleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"
)

// GoogleVerifier checks a Google Identity Services credential before it is
// forwarded to the backend
type GoogleVerifier interface {
	Verify(ctx context.Context, rawIDToken string) error
}

type idTokenVerifier struct {
	verifier *oidc.IDTokenVerifier
}

// NewGoogleVerifier verifies credentials against Google's published signing keys
func NewGoogleVerifier(ctx context.Context, clientID string) GoogleVerifier {
	keySet := oidc.NewRemoteKeySet(ctx, googleJWKSURL)
	return NewIDTokenVerifier(googleIssuer, keySet, clientID)
}

// NewIDTokenVerifier builds a verifier for an arbitrary issuer and key set
func NewIDTokenVerifier(issuer string, keySet oidc.KeySet, clientID string) GoogleVerifier {
	return &idTokenVerifier{
		verifier: oidc.NewVerifier(issuer, keySet, &oidc.Config{ClientID: clientID}),
	}
}

func (v *idTokenVerifier) Verify(ctx context.Context, rawIDToken string) error {
	if _, err := v.verifier.Verify(ctx, rawIDToken); err != nil {
		return fmt.Errorf("verify google credential: %w", err)
	}
	return nil
}
