package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jrsteele09/crm-portal/api"
	"github.com/jrsteele09/crm-portal/internal/errors"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method string
	Path   string
	Auth   string
	Body   map[string]any
}

// newBackend starts a fake CRM backend answering every request with status and body
func newBackend(t *testing.T, status int, body any) (*api.Client, *[]recordedRequest) {
	t.Helper()

	var (
		mu       sync.Mutex
		requests []recordedRequest
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path, Auth: r.Header.Get("Authorization")}
		_ = json.NewDecoder(r.Body).Decode(&rec.Body)
		mu.Lock()
		requests = append(requests, rec)
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(server.Close)

	return api.NewClientWithHTTPClient(server.URL, server.Client()), &requests
}

func TestClient_Login(t *testing.T) {
	client, requests := newBackend(t, http.StatusOK, map[string]any{
		"token": "tok",
		"user":  map[string]any{"id": "u1", "email": "a@b.com", "tenant_id": "t1", "role": "admin"},
	})

	resp, err := client.Login(context.Background(), api.LoginRequest{Email: "a@b.com", Password: "pw"})
	require.NoError(t, err)
	require.Equal(t, "tok", resp.Token)
	require.Equal(t, "u1", resp.User.ID)

	require.Len(t, *requests, 1)
	got := (*requests)[0]
	require.Equal(t, http.MethodPost, got.Method)
	require.Equal(t, api.PathLogin, got.Path)
	require.Empty(t, got.Auth)
	require.Equal(t, "a@b.com", got.Body["email"])
	require.Equal(t, "pw", got.Body["password"])
}

func TestClient_GoogleAuth(t *testing.T) {
	client, requests := newBackend(t, http.StatusOK, map[string]any{"token": "tok", "user": map[string]any{"id": "u1"}})

	resp, err := client.GoogleAuth(context.Background(), "google-id-token")
	require.NoError(t, err)
	require.Equal(t, "tok", resp.Token)
	require.Equal(t, api.PathGoogleAuth, (*requests)[0].Path)
	require.Equal(t, "google-id-token", (*requests)[0].Body["credential"])
}

func TestClient_Me(t *testing.T) {
	t.Run("sends bearer token", func(t *testing.T) {
		client, requests := newBackend(t, http.StatusOK, map[string]any{
			"user": map[string]any{"id": "u1", "role": "admin"},
		})

		user, err := client.Me(context.Background(), "tok")
		require.NoError(t, err)
		require.Equal(t, "u1", user.ID)
		require.Equal(t, "admin", user.Role)
		require.Equal(t, http.MethodGet, (*requests)[0].Method)
		require.Equal(t, "Bearer tok", (*requests)[0].Auth)
	})

	t.Run("missing user", func(t *testing.T) {
		client, _ := newBackend(t, http.StatusOK, map[string]any{})
		_, err := client.Me(context.Background(), "tok")

		var apiErr *api.Error
		require.ErrorAs(t, err, &apiErr)
	})
}

func TestClient_TenantProfile(t *testing.T) {
	client, requests := newBackend(t, http.StatusOK, map[string]any{
		"tenant": map[string]any{"tenant_id": "t9", "email": "a@b.com", "status": "active", "created_at": "2024-01-01"},
	})

	profile, err := client.TenantProfile(context.Background(), "tok")
	require.NoError(t, err)
	require.Equal(t, "t9", profile.TenantID)
	require.Equal(t, "active", profile.Status)
	require.Nil(t, profile.LastLogin)
	require.Equal(t, api.PathTenantProfile, (*requests)[0].Path)
	require.Equal(t, "Bearer tok", (*requests)[0].Auth)
}

func TestClient_TenantLogin(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		client, requests := newBackend(t, http.StatusOK, map[string]any{
			"success": true,
			"token":   "tok",
			"tenant":  map[string]any{"tenant_id": "t9", "name": "Acme"},
			"user":    map[string]any{"tenant_id": "t9", "email": "a@b.com"},
		})

		resp, err := client.TenantLogin(context.Background(), api.TenantLoginRequest{TenantID: "t9", Password: "pw"})
		require.NoError(t, err)
		require.Equal(t, "tok", resp.Token)
		require.Equal(t, "Acme", resp.Tenant.Name)
		require.Equal(t, "t9", (*requests)[0].Body["tenant_id"])
	})

	t.Run("success false in a 2xx body", func(t *testing.T) {
		client, _ := newBackend(t, http.StatusOK, map[string]any{"success": false, "error": "Tenant suspended"})

		_, err := client.TenantLogin(context.Background(), api.TenantLoginRequest{TenantID: "t9", Password: "pw"})
		var apiErr *api.Error
		require.ErrorAs(t, err, &apiErr)
		require.Equal(t, "Tenant suspended", apiErr.Message)
	})
}

func TestClient_PasswordEndpoints(t *testing.T) {
	client, requests := newBackend(t, http.StatusOK, map[string]any{"message": "ok"})
	ctx := context.Background()

	_, err := client.ForgotPassword(ctx, "a@b.com")
	require.NoError(t, err)
	_, err = client.ResetPassword(ctx, api.ResetPasswordRequest{Token: "reset", NewPassword: "secret1"})
	require.NoError(t, err)
	_, err = client.Register(ctx, api.RegisterRequest{Email: "a@b.com", Password: "pw"})
	require.NoError(t, err)

	require.Len(t, *requests, 3)
	require.Equal(t, api.PathForgotPassword, (*requests)[0].Path)
	require.Equal(t, api.PathResetPassword, (*requests)[1].Path)
	require.Equal(t, "secret1", (*requests)[1].Body["new_password"])
	require.Equal(t, api.PathRegister, (*requests)[2].Path)
	_, hasTenantName := (*requests)[2].Body["tenant_name"]
	require.False(t, hasTenantName)
}

func TestClient_ValidateToken(t *testing.T) {
	client, requests := newBackend(t, http.StatusOK, map[string]any{"valid": true, "user_id": "u1"})

	resp, err := client.ValidateToken(context.Background(), "tok")
	require.NoError(t, err)
	require.True(t, resp.Valid)
	require.Equal(t, "u1", resp.UserID)
	require.Equal(t, "tok", (*requests)[0].Body["token"])
}

func TestClient_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    any
		message string
	}{
		{"error field", http.StatusBadRequest, map[string]any{"error": "Email taken", "message": "ignored"}, "Email taken"},
		{"message field", http.StatusBadRequest, map[string]any{"message": "Bad input"}, "Bad input"},
		{"detail field", http.StatusUnprocessableEntity, map[string]any{"detail": "Missing field"}, "Missing field"},
		{"non string detail", http.StatusUnprocessableEntity, map[string]any{"detail": []string{"x"}}, "Unprocessable Entity"},
		{"status text", http.StatusUnauthorized, map[string]any{}, "Unauthorized"},
		{"unknown status", 599, map[string]any{}, "Invalid credentials"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newBackend(t, tt.status, tt.body)

			_, err := client.Login(context.Background(), api.LoginRequest{})
			var apiErr *api.Error
			require.ErrorAs(t, err, &apiErr)
			require.Equal(t, tt.status, apiErr.StatusCode)
			require.Equal(t, tt.message, apiErr.Message)
			require.Equal(t, tt.message, api.Message(err, "fallback"))
		})
	}
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := api.NewClient(url, time.Second)
	_, err := client.Me(context.Background(), "tok")
	require.ErrorIs(t, err, errors.ErrTransport)
	require.Contains(t, api.Message(err, "fallback"), "Network error")
}

func TestMessage(t *testing.T) {
	require.Equal(t, "", api.Message(nil, "fallback"))
	require.Equal(t, "fallback", api.Message(errors.ErrInvalidRequest, "fallback"))
	require.Contains(t, api.Message(errors.ErrInvalidRequest, ""), "unexpected error")
}
