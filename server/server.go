package server

import (
	"fmt"
	"html/template"
	"net/http"
	"net/netip"
	"strings"

	"github.com/jrsteele09/crm-portal/api"
	"github.com/jrsteele09/crm-portal/internal/config"
	"github.com/jrsteele09/crm-portal/internal/metrics"
	"github.com/jrsteele09/crm-portal/session"
	"github.com/jrsteele09/crm-portal/tokenstore"
	"github.com/jrsteele09/crm-portal/tokenstore/localstorage"
	"github.com/rs/zerolog/log"
)

// Deps are the collaborators the portal is wired with
type Deps struct {
	API          *api.Client
	LocalStorage localstorage.Repo // nil keeps the credential in the cookie only
	Google       GoogleVerifier    // nil skips local verification of Google credentials
}

type Server struct {
	env      string // Environment (e.g., "DEV", "PROD")
	mux      *http.ServeMux
	routes   []string
	handler  http.Handler
	config   config.Config
	api      *api.Client
	resolver *session.Resolver
	local    localstorage.Repo
	google   GoogleVerifier
	limiter  *loginLimiter
	pages    map[string]*template.Template

	// X-Forwarded-For is only read from these peers
	trustedProxies []netip.Prefix
}

func New(cfg config.Config, deps Deps) (*Server, error) {
	if deps.API == nil {
		return nil, fmt.Errorf("[Server New] api client is required")
	}

	pages, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to parse templates: %w", err)
	}

	s := &Server{
		env:      cfg.GetEnv(),
		mux:      http.NewServeMux(),
		config:   cfg,
		api:      deps.API,
		resolver: session.NewResolver(deps.API),
		local:    deps.LocalStorage,
		google:   deps.Google,
		pages:    pages,
	}
	if cfg.GetEnableRateLimiting() {
		s.limiter = newLoginLimiter(cfg.GetLoginRateLimit(), cfg.GetLoginBurst())
		s.trustedProxies = cfg.GetTrustedProxies()
	}

	metrics.Init()
	s.initRoutes()
	s.logRoutes()
	s.handler = metrics.Instrument(s.mux)

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// tokenStore binds the credential store to this request's device
func (s *Server) tokenStore(w http.ResponseWriter, r *http.Request) *tokenstore.Browser {
	secure := getScheme(r) == "https"
	device := tokenstore.DeviceID(w, r, s.config.GetDeviceCookieMaxAge(), secure)
	return tokenstore.NewBrowser(w, r, s.local, device,
		tokenstore.WithMaxAge(s.config.GetCookieMaxAge()),
		tokenstore.WithSecureCookies(secure),
	)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
