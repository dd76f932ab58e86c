package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resolution outcomes
const (
	OutcomeAdmin        = "admin"
	OutcomeTenant       = "tenant"
	OutcomeNoCredential = "no_credential"
	OutcomeMalformed    = "malformed"
	OutcomeRejected     = "rejected"
	OutcomeTransport    = "transport"
)

var (
	sessionResolutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_portal_session_resolutions_total",
			Help: "Session resolutions by outcome.",
		},
		[]string{"outcome"},
	)

	guardDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_portal_guard_decisions_total",
			Help: "Route guard decisions by area and action.",
		},
		[]string{"area", "action"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_portal_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_portal_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "status"},
	)

	registerOnce sync.Once
)

// Init registers the portal collectors with the default registry
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(sessionResolutions, guardDecisions, httpRequestsTotal, httpRequestDuration)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveResolution(outcome string) {
	sessionResolutions.WithLabelValues(outcome).Inc()
}

func ObserveDecision(area, action string) {
	guardDecisions.WithLabelValues(area, action).Inc()
}

// Instrument records request counts and latencies
func Instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(sw, r)

		status := strconv.Itoa(sw.code)
		httpRequestDuration.WithLabelValues(r.Method, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(r.Method, status).Inc()
	})
}

type statusWriter struct {
	http.ResponseWriter
	code int
}

func (w *statusWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
