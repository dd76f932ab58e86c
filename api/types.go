package api

// User is the profile returned by the admin endpoints
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	TenantID  string `json:"tenant_id"`
	CreatedAt string `json:"created_at,omitempty"`
	Status    string `json:"status,omitempty"`
	Role      string `json:"role,omitempty"`
}

// TenantProfile is the profile returned by the tenant portal endpoints
type TenantProfile struct {
	TenantID  string  `json:"tenant_id"`
	Email     string  `json:"email"`
	Name      string  `json:"name,omitempty"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
	LastLogin *string `json:"last_login,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type GoogleAuthRequest struct {
	Credential string `json:"credential"`
}

type TenantLoginRequest struct {
	TenantID string `json:"tenant_id"`
	Password string `json:"password"`
}

type TenantLoginResponse struct {
	Success *bool         `json:"success,omitempty"`
	Token   string        `json:"token"`
	Tenant  TenantProfile `json:"tenant"`
	User    User          `json:"user"`
	Error   string        `json:"error,omitempty"`
}

type RegisterRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	TenantName string `json:"tenant_name,omitempty"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

type ValidateTokenRequest struct {
	Token string `json:"token"`
}

type ValidateTokenResponse struct {
	Valid    bool   `json:"valid"`
	UserID   string `json:"user_id,omitempty"`
	TenantID string `json:"tenant_id,omitempty"`
}

// MessageResponse is the generic success body of the password endpoints
type MessageResponse struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message,omitempty"`
}

type meResponse struct {
	User *User `json:"user"`
}

type tenantProfileResponse struct {
	Tenant *TenantProfile `json:"tenant"`
}
