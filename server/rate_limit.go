package server

import (
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 5 * time.Minute

// loginLimiter is a token bucket per client IP for credential submissions
type loginLimiter struct {
	mu        sync.Mutex
	perSecond rate.Limit
	burst     int
	buckets   map[string]*limiterBucket
	lastSweep time.Time
}

type limiterBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

func newLoginLimiter(perSecond float64, burst int) *loginLimiter {
	if burst < 1 {
		burst = 1
	}
	return &loginLimiter{
		perSecond: rate.Limit(perSecond),
		burst:     burst,
		buckets:   make(map[string]*limiterBucket),
		lastSweep: time.Now(),
	}
}

func (l *loginLimiter) allow(ip string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > time.Minute {
		for k, b := range l.buckets {
			if now.Sub(b.lastSeen) > limiterIdleTTL {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[ip]
	if !ok {
		b = &limiterBucket{lim: rate.NewLimiter(l.perSecond, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = now
	return b.lim.AllowN(now, 1)
}

// RateLimitMiddleware throttles form submissions per client IP and sends the
// visitor back to the form with a notification when exceeded
func (s *Server) RateLimitMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter == nil {
			next(w, r)
			return
		}
		ip := clientIP(r, s.trustedProxies)
		if !s.limiter.allow(ip, time.Now()) {
			log.Warn().Str("ip", ip).Str("path", r.URL.Path).Msg("Rate limit exceeded")
			redirectWithError(w, r, formPathFor(r.URL.Path), "Too many attempts. Please wait a moment and try again.")
			return
		}
		next(w, r)
	}
}

// formPathFor maps a submission endpoint to the page that renders its form
func formPathFor(path string) string {
	if path == RouteGoogleAuth {
		return RouteLogin
	}
	return path
}

// clientIP is the peer address, unless the peer is a trusted proxy. Then the
// right-most X-Forwarded-For hop that is not itself a trusted proxy is used;
// entries to its left are client supplied and never believed.
func clientIP(r *http.Request, trusted []netip.Prefix) string {
	remote := remoteIP(r)
	addr, err := netip.ParseAddr(remote)
	if err != nil || !isTrusted(addr, trusted) {
		return remote
	}

	hops := strings.Split(strings.Join(r.Header.Values("X-Forwarded-For"), ","), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		hop := strings.TrimSpace(hops[i])
		if hop == "" {
			continue
		}
		hopAddr, err := netip.ParseAddr(hop)
		if err != nil {
			return remote
		}
		if !isTrusted(hopAddr, trusted) {
			return hopAddr.Unmap().String()
		}
	}
	return remote
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if host == "" {
		return "unknown"
	}
	if addr, err := netip.ParseAddr(host); err == nil {
		return addr.Unmap().String()
	}
	return host
}

func isTrusted(addr netip.Addr, trusted []netip.Prefix) bool {
	addr = addr.Unmap()
	for _, p := range trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
