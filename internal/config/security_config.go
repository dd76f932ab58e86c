package config

import (
	"net/netip"
	"strings"

	"github.com/rs/zerolog/log"
)

type SecurityConfig interface {
	GetEnableRateLimiting() bool
	GetLoginRateLimit() float64
	GetLoginBurst() int
	GetTrustedProxies() []netip.Prefix
}

type Security struct{}

var _ SecurityConfig = Security{}

func (Security) GetEnableRateLimiting() bool {
	return GetEnv("LOGIN_RATE_LIMIT", "") != "off"
}

// GetLoginRateLimit is the sustained number of login submissions per second per client
func (Security) GetLoginRateLimit() float64 {
	return float64(GetEnvInt("LOGIN_RATE_LIMIT", 1))
}

func (Security) GetLoginBurst() int {
	return GetEnvInt("LOGIN_BURST", 5)
}

// GetTrustedProxies reads TRUSTED_PROXIES, a comma separated list of IPs or
// CIDRs whose X-Forwarded-For header is believed. Empty means none.
func (Security) GetTrustedProxies() []netip.Prefix {
	var prefixes []netip.Prefix
	for _, entry := range strings.Split(GetEnv("TRUSTED_PROXIES", ""), ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				log.Warn().Str("entry", entry).Msg("Ignoring invalid TRUSTED_PROXIES entry")
				continue
			}
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			log.Warn().Str("entry", entry).Msg("Ignoring invalid TRUSTED_PROXIES entry")
			continue
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes
}
