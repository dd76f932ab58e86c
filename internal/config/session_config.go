package config

import "time"

type SessionConfig interface {
	GetCookieMaxAge() time.Duration
	GetDeviceCookieMaxAge() time.Duration
}

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetCookieMaxAge() time.Duration {
	return GetEnvDuration("COOKIE_MAX_AGE", 24*time.Hour)
}

func (Session) GetDeviceCookieMaxAge() time.Duration {
	return 365 * 24 * time.Hour
}
