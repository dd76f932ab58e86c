package tokenstore

import (
	"context"
	"encoding/json"

	"github.com/jrsteele09/crm-portal/credential"
	"github.com/rs/zerolog/log"
)

// Local storage keys and cookie names
const (
	KeyAuthToken  = "auth_token"
	KeyUserID     = "user_id"
	KeyTenantID   = "tenant_id"
	KeyTenantInfo = "tenant_info"
	KeyUserEmail  = "user_email"

	CookieAuthToken = "auth_token"
	CookieDeviceID  = "device_id"
)

var derivedKeys = []string{KeyAuthToken, KeyUserID, KeyTenantID, KeyTenantInfo, KeyUserEmail}

// Store is the single source of truth for the bearer credential.
// Set, SetTenant and Clear are the only mutators; callers must not keep a
// token value across a Clear.
type Store interface {
	Get(ctx context.Context) (string, bool)
	Set(ctx context.Context, token string)
	SetTenant(ctx context.Context, token string, tenant TenantRecord)
	Clear(ctx context.Context)
}

// TenantRecord is what the tenant portal login persists next to the token
type TenantRecord struct {
	TenantID string
	Email    string
	Info     any // serialised as JSON under tenant_info
}

// localValues derives the local storage entries for a token. Decoding is best
// effort: a token that cannot be decoded is still stored.
func localValues(token string) map[string]string {
	values := map[string]string{KeyAuthToken: token}

	payload, err := credential.Decode(token)
	if err != nil {
		log.Warn().Err(err).Msg("token store: failed to decode credential payload")
		return values
	}
	values[KeyUserID] = payload.SubjectID()
	values[KeyTenantID] = payload.TenantID()
	return values
}

func tenantValues(token string, tenant TenantRecord) map[string]string {
	values := map[string]string{
		KeyAuthToken: token,
		KeyUserID:    tenant.TenantID,
		KeyTenantID:  tenant.TenantID,
		KeyUserEmail: tenant.Email,
	}
	if tenant.Info != nil {
		info, err := json.Marshal(tenant.Info)
		if err != nil {
			log.Warn().Err(err).Msg("token store: failed to encode tenant info")
		} else {
			values[KeyTenantInfo] = string(info)
		}
	}
	return values
}
