package tokenstore

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/crm-portal/internal/errors"
	"github.com/jrsteele09/crm-portal/tokenstore/localstorage"
	"github.com/rs/zerolog/log"
)

var _ Store = (*Browser)(nil)

// Browser is the per-request Store. Local storage lives in a server-side repo
// namespaced by the device cookie and the auth_token cookie travels with every request.
type Browser struct {
	w         http.ResponseWriter
	r         *http.Request
	repo      localstorage.Repo
	namespace string
	maxAge    time.Duration
	secure    bool

	// written tracks mutations made during this request so reads do not fall
	// back to the stale request cookie.
	written bool
	current string
}

type BrowserOption func(*Browser)

// WithMaxAge sets the lifetime of the auth_token cookie
func WithMaxAge(d time.Duration) BrowserOption {
	return func(b *Browser) { b.maxAge = d }
}

// WithSecureCookies marks cookies Secure (https only)
func WithSecureCookies(secure bool) BrowserOption {
	return func(b *Browser) { b.secure = secure }
}

// NewBrowser binds a Store to one request. repo may be nil, in which case only the
// cookie is used.
func NewBrowser(w http.ResponseWriter, r *http.Request, repo localstorage.Repo, namespace string, opts ...BrowserOption) *Browser {
	b := &Browser{
		w:         w,
		r:         r,
		repo:      repo,
		namespace: namespace,
		maxAge:    24 * time.Hour,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Browser) hasLocal() bool {
	return b.repo != nil && b.namespace != ""
}

func (b *Browser) Get(ctx context.Context) (string, bool) {
	if b.written {
		return b.current, b.current != ""
	}

	if b.hasLocal() {
		token, err := b.repo.Get(ctx, b.namespace, KeyAuthToken)
		if err == nil && token != "" {
			return token, true
		}
		if err != nil && !errors.Is(err, errors.ErrNotFound) {
			log.Warn().Err(err).Msg("token store: local storage read failed, falling back to cookie")
		}
	}

	cookie, err := b.r.Cookie(CookieAuthToken)
	if err != nil || cookie.Value == "" {
		return "", false
	}
	return cookie.Value, true
}

func (b *Browser) Set(ctx context.Context, token string) {
	b.write(ctx, localValues(token), token)
}

func (b *Browser) SetTenant(ctx context.Context, token string, tenant TenantRecord) {
	b.write(ctx, tenantValues(token, tenant), token)
}

func (b *Browser) write(ctx context.Context, values map[string]string, token string) {
	if b.hasLocal() {
		// Drop stale keys from a previous login before writing the new set
		if err := b.repo.Delete(ctx, b.namespace, derivedKeys...); err != nil {
			log.Warn().Err(err).Msg("token store: local storage delete failed")
		}
		if err := b.repo.Set(ctx, b.namespace, values); err != nil {
			log.Warn().Err(err).Msg("token store: local storage write failed")
		}
	}

	http.SetCookie(b.w, &http.Cookie{
		Name:     CookieAuthToken,
		Value:    token,
		Path:     "/",
		MaxAge:   int(b.maxAge.Seconds()),
		HttpOnly: true,
		Secure:   b.secure,
		SameSite: http.SameSiteStrictMode,
	})
	b.written, b.current = true, token
}

func (b *Browser) Clear(ctx context.Context) {
	if b.written && b.current == "" {
		return // already cleared during this request
	}
	if b.hasLocal() {
		if err := b.repo.Delete(ctx, b.namespace, derivedKeys...); err != nil {
			log.Warn().Err(err).Msg("token store: local storage delete failed")
		}
	}

	http.SetCookie(b.w, &http.Cookie{
		Name:     CookieAuthToken,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   b.secure,
		SameSite: http.SameSiteStrictMode,
	})
	b.written, b.current = true, ""
}

// DeviceID returns the namespace for this browser, issuing a new device cookie
// when the request carries none.
func DeviceID(w http.ResponseWriter, r *http.Request, maxAge time.Duration, secure bool) string {
	if cookie, err := r.Cookie(CookieDeviceID); err == nil {
		if _, err := uuid.Parse(cookie.Value); err == nil {
			return cookie.Value
		}
	}

	id := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieDeviceID,
		Value:    id,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
