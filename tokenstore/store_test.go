package tokenstore_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jrsteele09/crm-portal/credential/credentialtest"
	"github.com/jrsteele09/crm-portal/tokenstore"
	"github.com/jrsteele09/crm-portal/tokenstore/localstorage"
	"github.com/stretchr/testify/require"
)

const device = "1b4e28ba-2fa1-11d2-883f-0016d3cca427"

func responseCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestMemory(t *testing.T) {
	ctx := context.Background()

	t.Run("get after set returns token unchanged", func(t *testing.T) {
		s := tokenstore.NewMemory()
		token := credentialtest.Admin(t, "u1", "t1")

		s.Set(ctx, token)

		got, ok := s.Get(ctx)
		require.True(t, ok)
		require.Equal(t, token, got)
		require.Equal(t, token, s.Cookie())

		uid, _ := s.Value(tokenstore.KeyUserID)
		require.Equal(t, "u1", uid)
		tid, _ := s.Value(tokenstore.KeyTenantID)
		require.Equal(t, "t1", tid)
	})

	t.Run("undecodable token still stored", func(t *testing.T) {
		s := tokenstore.NewMemory()
		s.Set(ctx, "not-a-jwt")

		got, ok := s.Get(ctx)
		require.True(t, ok)
		require.Equal(t, "not-a-jwt", got)
		_, ok = s.Value(tokenstore.KeyUserID)
		require.False(t, ok)
	})

	t.Run("cookie fallback", func(t *testing.T) {
		s := tokenstore.NewMemory()
		s.SetCookieOnly("cookie-token")

		got, ok := s.Get(ctx)
		require.True(t, ok)
		require.Equal(t, "cookie-token", got)
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		s := tokenstore.NewMemory()
		s.Clear(ctx)
		_, ok := s.Get(ctx)
		require.False(t, ok)

		s.SetTenant(ctx, credentialtest.Tenant(t, "t9"), tokenstore.TenantRecord{TenantID: "t9", Email: "a@b.com"})
		s.Clear(ctx)
		s.Clear(ctx)

		_, ok = s.Get(ctx)
		require.False(t, ok)
		_, ok = s.Value(tokenstore.KeyUserEmail)
		require.False(t, ok)
	})
}

func TestBrowser(t *testing.T) {
	ctx := context.Background()

	t.Run("set writes local storage and cookie", func(t *testing.T) {
		repo := localstorage.NewInMemoryRepo()
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		token := credentialtest.Admin(t, "u1", "t1")

		s := tokenstore.NewBrowser(rec, req, repo, device, tokenstore.WithMaxAge(24*time.Hour))
		s.Set(ctx, token)

		got, ok := s.Get(ctx)
		require.True(t, ok)
		require.Equal(t, token, got)

		stored, err := repo.Get(ctx, device, tokenstore.KeyAuthToken)
		require.NoError(t, err)
		require.Equal(t, token, stored)
		uid, err := repo.Get(ctx, device, tokenstore.KeyUserID)
		require.NoError(t, err)
		require.Equal(t, "u1", uid)

		c := responseCookie(t, rec, tokenstore.CookieAuthToken)
		require.Equal(t, token, c.Value)
		require.Equal(t, "/", c.Path)
		require.Equal(t, 86400, c.MaxAge)
		require.Equal(t, http.SameSiteStrictMode, c.SameSite)
	})

	t.Run("later request reads local storage first", func(t *testing.T) {
		repo := localstorage.NewInMemoryRepo()
		require.NoError(t, repo.Set(ctx, device, map[string]string{tokenstore.KeyAuthToken: "local"}))

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: tokenstore.CookieAuthToken, Value: "cookie"})

		got, ok := tokenstore.NewBrowser(httptest.NewRecorder(), req, repo, device).Get(ctx)
		require.True(t, ok)
		require.Equal(t, "local", got)
	})

	t.Run("falls back to cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: tokenstore.CookieAuthToken, Value: "cookie"})

		got, ok := tokenstore.NewBrowser(httptest.NewRecorder(), req, localstorage.NewInMemoryRepo(), device).Get(ctx)
		require.True(t, ok)
		require.Equal(t, "cookie", got)

		got, ok = tokenstore.NewBrowser(httptest.NewRecorder(), req, nil, "").Get(ctx)
		require.True(t, ok)
		require.Equal(t, "cookie", got)
	})

	t.Run("clear hides the request cookie and expires it", func(t *testing.T) {
		repo := localstorage.NewInMemoryRepo()
		require.NoError(t, repo.Set(ctx, device, map[string]string{
			tokenstore.KeyAuthToken: "local",
			tokenstore.KeyUserID:    "u1",
		}))
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/logout", nil)
		req.AddCookie(&http.Cookie{Name: tokenstore.CookieAuthToken, Value: "cookie"})

		s := tokenstore.NewBrowser(rec, req, repo, device)
		s.Clear(ctx)

		_, ok := s.Get(ctx)
		require.False(t, ok)
		_, err := repo.Get(ctx, device, tokenstore.KeyUserID)
		require.Error(t, err)

		c := responseCookie(t, rec, tokenstore.CookieAuthToken)
		require.Equal(t, "", c.Value)
		require.Less(t, c.MaxAge, 0)
	})

	t.Run("tenant login stores tenant info", func(t *testing.T) {
		repo := localstorage.NewInMemoryRepo()
		req := httptest.NewRequest(http.MethodPost, "/tenants-login", nil)
		token := credentialtest.Tenant(t, "t9")

		s := tokenstore.NewBrowser(httptest.NewRecorder(), req, repo, device)
		s.SetTenant(ctx, token, tokenstore.TenantRecord{
			TenantID: "t9",
			Email:    "a@b.com",
			Info:     map[string]string{"tenant_id": "t9", "name": "Acme"},
		})

		email, err := repo.Get(ctx, device, tokenstore.KeyUserEmail)
		require.NoError(t, err)
		require.Equal(t, "a@b.com", email)

		raw, err := repo.Get(ctx, device, tokenstore.KeyTenantInfo)
		require.NoError(t, err)
		var info map[string]string
		require.NoError(t, json.Unmarshal([]byte(raw), &info))
		require.Equal(t, "Acme", info["name"])
	})
}

func TestDeviceID(t *testing.T) {
	t.Run("issues a new device cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		id := tokenstore.DeviceID(rec, httptest.NewRequest(http.MethodGet, "/", nil), time.Hour, false)
		require.NotEmpty(t, id)
		require.Equal(t, id, responseCookie(t, rec, tokenstore.CookieDeviceID).Value)
	})

	t.Run("reuses a valid device cookie", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.AddCookie(&http.Cookie{Name: tokenstore.CookieDeviceID, Value: device})

		require.Equal(t, device, tokenstore.DeviceID(rec, req, time.Hour, false))
		require.Empty(t, rec.Result().Cookies())
	})
}
