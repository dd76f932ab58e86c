package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jrsteele09/crm-portal/internal/errors"
	"golang.org/x/oauth2"
)

// API paths on the CRM backend
const (
	PathLogin          = "/auth/login"
	PathGoogleAuth     = "/auth/google-auth"
	PathRegister       = "/auth/register"
	PathMe             = "/auth/me"
	PathForgotPassword = "/auth/forgot-password"
	PathResetPassword  = "/auth/reset-password"
	PathValidateToken  = "/auth/validate-token"
	PathTenantLogin    = "/api/tenant-auth/login"
	PathTenantProfile  = "/api/tenant-auth/profile"
)

// Client talks JSON to the CRM REST backend
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client with a bounded request timeout
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return NewClientWithHTTPClient(baseURL, &http.Client{Timeout: timeout})
}

// NewClientWithHTTPClient creates a new client with a custom HTTP client
func NewClientWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Login authenticates an admin or default user
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var result LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, PathLogin, "", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GoogleAuth exchanges a Google ID token for a CRM credential
func (c *Client) GoogleAuth(ctx context.Context, credential string) (*LoginResponse, error) {
	var result LoginResponse
	if err := c.doJSON(ctx, http.MethodPost, PathGoogleAuth, "", GoogleAuthRequest{Credential: credential}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// TenantLogin authenticates against the tenant portal. A 2xx body carrying
// success=false is still a failed login.
func (c *Client) TenantLogin(ctx context.Context, req TenantLoginRequest) (*TenantLoginResponse, error) {
	var result TenantLoginResponse
	if err := c.doJSON(ctx, http.MethodPost, PathTenantLogin, "", req, &result); err != nil {
		return nil, err
	}
	if result.Success != nil && !*result.Success {
		msg := result.Error
		if msg == "" {
			msg = "Invalid credentials. Please check your Tenant ID and password."
		}
		return nil, &Error{StatusCode: http.StatusOK, Message: msg}
	}
	return &result, nil
}

// Register creates a new account
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*MessageResponse, error) {
	var result MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, PathRegister, "", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Me returns the user behind an admin/default credential
func (c *Client) Me(ctx context.Context, token string) (*User, error) {
	var result meResponse
	if err := c.doJSON(ctx, http.MethodGet, PathMe, token, nil, &result); err != nil {
		return nil, err
	}
	if result.User == nil {
		return nil, &Error{StatusCode: http.StatusOK, Message: "response missing user"}
	}
	return result.User, nil
}

// TenantProfile returns the tenant behind a tenant_access credential
func (c *Client) TenantProfile(ctx context.Context, token string) (*TenantProfile, error) {
	var result tenantProfileResponse
	if err := c.doJSON(ctx, http.MethodGet, PathTenantProfile, token, nil, &result); err != nil {
		return nil, err
	}
	if result.Tenant == nil {
		return nil, &Error{StatusCode: http.StatusOK, Message: "Failed to get tenant profile"}
	}
	return result.Tenant, nil
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (*MessageResponse, error) {
	var result MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, PathForgotPassword, "", ForgotPasswordRequest{Email: email}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) ResetPassword(ctx context.Context, req ResetPasswordRequest) (*MessageResponse, error) {
	var result MessageResponse
	if err := c.doJSON(ctx, http.MethodPost, PathResetPassword, "", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ValidateToken asks the backend to introspect token
func (c *Client) ValidateToken(ctx context.Context, token string) (*ValidateTokenResponse, error) {
	var result ValidateTokenResponse
	if err := c.doJSON(ctx, http.MethodPost, PathValidateToken, "", ValidateTokenRequest{Token: token}, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// clientFor returns an HTTP client that adds the bearer header when token is set
func (c *Client) clientFor(ctx context.Context, token string) *http.Client {
	if token == "" {
		return c.httpClient
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	client.Timeout = c.httpClient.Timeout
	return client
}

func (c *Client) doJSON(ctx context.Context, method, path, token string, payload, out any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.clientFor(ctx, token).Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", errors.ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading %s: %w", errors.ErrTransport, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return parseError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
