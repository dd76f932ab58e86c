package server

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/rs/zerolog/log"
)

const contentTypeHTML = "text/html; charset=utf-8"

//go:embed templates/*
var templateFiles embed.FS

var pageTemplates = []string{
	"login.html",
	"tenants_login.html",
	"forgot_password.html",
	"reset_password.html",
	"dashboard.html",
	"tenant_dashboard.html",
}

func TemplateFilesFS() fs.FS {
	// Create the sub filesystem once
	subFS, err := fs.Sub(templateFiles, "templates")
	if err != nil {
		panic("Failed to create templates sub filesystem: " + err.Error())
	}
	return subFS
}

// ParseTemplate parses a page together with the shared layout
func ParseTemplate(name string) (*template.Template, error) {
	return template.ParseFS(TemplateFilesFS(), "layout.html", name)
}

func parsePages() (map[string]*template.Template, error) {
	pages := make(map[string]*template.Template, len(pageTemplates))
	for _, name := range pageTemplates {
		tmpl, err := ParseTemplate(name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

// PageData is shared by every rendered page
type PageData struct {
	AppName        string
	Error          string
	Notice         string
	Email          string
	TenantID       string
	Token          string
	GoogleClientID string
	Session        any
}

func (s *Server) pageData(r *http.Request) PageData {
	q := r.URL.Query()
	return PageData{
		AppName:        s.config.GetAppName(),
		Error:          q.Get("error"),
		Notice:         q.Get("notice"),
		Email:          q.Get("email"),
		TenantID:       q.Get("tenant_id"),
		GoogleClientID: s.config.GetGoogleClientID(),
	}
}

func (s *Server) render(w http.ResponseWriter, name string, data PageData) {
	tmpl, ok := s.pages[name]
	if !ok {
		log.Error().Str("template", name).Msg("Unknown template")
		http.Error(w, "Page not found", http.StatusNotFound)
		return
	}

	// Render into a buffer so a template failure never leaves a half written page
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Err(err).Str("template", name).Msg("Failed to render template")
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentTypeHTML)
	_, _ = buf.WriteTo(w)
}
