package config

import "time"

type APIConfig interface {
	GetAPIBaseURL() string
	GetAPITimeout() time.Duration
	GetGoogleClientID() string
}

type API struct{}

var _ APIConfig = API{}

// GetAPIBaseURL is the root of the CRM REST backend
func (API) GetAPIBaseURL() string {
	return GetEnv("API_BASE_URL", "http://127.0.0.1:5000")
}

func (API) GetAPITimeout() time.Duration {
	return GetEnvDuration("API_TIMEOUT", 30*time.Second)
}

// GetGoogleClientID enables local verification of Google credentials when set
func (API) GetGoogleClientID() string {
	return GetEnv("GOOGLE_CLIENT_ID", "")
}
