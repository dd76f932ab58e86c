package server_test

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/crm-portal/api"
	"github.com/jrsteele09/crm-portal/credential/credentialtest"
	"github.com/jrsteele09/crm-portal/internal/config"
	"github.com/jrsteele09/crm-portal/server"
	"github.com/jrsteele09/crm-portal/tokenstore"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer   = "https://accounts.example.com"
	testClientID = "portal-client"
)

func newSigningKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func signIDToken(t *testing.T, key *rsa.PrivateKey, audience string) string {
	t.Helper()
	claims := jwtlib.RegisteredClaims{
		Issuer:    testIssuer,
		Subject:   "google-user-1",
		Audience:  jwtlib.ClaimStrings{audience},
		IssuedAt:  jwtlib.NewNumericDate(time.Now()),
		ExpiresAt: jwtlib.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwtlib.NewWithClaims(jwtlib.SigningMethodRS256, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func newTestVerifier(key *rsa.PrivateKey) server.GoogleVerifier {
	keySet := &oidc.StaticKeySet{PublicKeys: []crypto.PublicKey{&key.PublicKey}}
	return server.NewIDTokenVerifier(testIssuer, keySet, testClientID)
}

func TestIDTokenVerifier(t *testing.T) {
	key := newSigningKey(t)
	verifier := newTestVerifier(key)
	ctx := context.Background()

	require.NoError(t, verifier.Verify(ctx, signIDToken(t, key, testClientID)))
	require.Error(t, verifier.Verify(ctx, signIDToken(t, key, "someone-else")))
	require.Error(t, verifier.Verify(ctx, signIDToken(t, newSigningKey(t), testClientID)))
	require.Error(t, verifier.Verify(ctx, "garbage"))
}

func TestGoogleAuthHandler(t *testing.T) {
	key := newSigningKey(t)

	setup := func(t *testing.T) (*server.Server, *fakeBackend) {
		t.Helper()
		t.Setenv("ENV", "TEST")
		t.Setenv("LOGIN_RATE_LIMIT", "off")

		backend := &fakeBackend{responses: map[string]response{
			api.PathGoogleAuth: {status: http.StatusOK, body: map[string]any{
				"token": credentialtest.Admin(t, "u1", "t1"),
				"user":  map[string]any{"id": "u1"},
			}},
		}}
		httpServer := httptest.NewServer(backend)
		t.Cleanup(httpServer.Close)

		srv, err := server.New(config.New(), server.Deps{
			API:    api.NewClientWithHTTPClient(httpServer.URL, httpServer.Client()),
			Google: newTestVerifier(key),
		})
		require.NoError(t, err)
		return srv, backend
	}

	post := func(srv *server.Server, form url.Values, csrfCookie string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, server.RouteGoogleAuth, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if csrfCookie != "" {
			req.AddCookie(&http.Cookie{Name: "g_csrf_token", Value: csrfCookie})
		}
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)
		return rec
	}

	t.Run("verified credential logs in", func(t *testing.T) {
		srv, backend := setup(t)

		rec := post(srv, url.Values{"credential": {signIDToken(t, key, testClientID)}, "g_csrf_token": {"c1"}}, "c1")
		require.Equal(t, server.RouteAdminDashboard, redirectTarget(t, rec).Path)
		require.Equal(t, []string{api.PathGoogleAuth}, backend.Calls())
		require.NotNil(t, responseCookie(t, rec, tokenstore.CookieAuthToken))
	})

	t.Run("unverifiable credential never reaches the backend", func(t *testing.T) {
		srv, backend := setup(t)

		rec := post(srv, url.Values{"credential": {signIDToken(t, key, "other-client")}, "g_csrf_token": {"c1"}}, "c1")
		require.Equal(t, server.RouteLogin, redirectTarget(t, rec).Path)
		require.Empty(t, backend.Calls())
	})

	t.Run("missing csrf cookie", func(t *testing.T) {
		srv, backend := setup(t)

		rec := post(srv, url.Values{"credential": {signIDToken(t, key, testClientID)}}, "")
		require.Equal(t, server.RouteLogin, redirectTarget(t, rec).Path)
		require.Empty(t, backend.Calls())
		require.Nil(t, responseCookie(t, rec, tokenstore.CookieAuthToken))

		rec = post(srv, url.Values{"credential": {signIDToken(t, key, testClientID)}, "g_csrf_token": {"c1"}}, "")
		require.Equal(t, server.RouteLogin, redirectTarget(t, rec).Path)
		require.Empty(t, backend.Calls())
	})

	t.Run("missing csrf form field", func(t *testing.T) {
		srv, backend := setup(t)

		rec := post(srv, url.Values{"credential": {signIDToken(t, key, testClientID)}}, "c1")
		require.Equal(t, server.RouteLogin, redirectTarget(t, rec).Path)
		require.Empty(t, backend.Calls())
	})

	t.Run("csrf mismatch", func(t *testing.T) {
		srv, backend := setup(t)

		rec := post(srv, url.Values{"credential": {signIDToken(t, key, testClientID)}, "g_csrf_token": {"c1"}}, "c2")
		require.Equal(t, server.RouteLogin, redirectTarget(t, rec).Path)
		require.Empty(t, backend.Calls())
	})
}
