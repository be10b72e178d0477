// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the inventory pages.
// Every page template is parsed together with the base layout and executed
// into a buffer, so a template error never leaves a half-written response.
package render

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"inventario/internal/markdown"
	"inventario/internal/middleware"
	"inventario/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

const baseTemplate = "base.html"

// PageData holds all data passed to page templates.
type PageData struct {
	Title     string          // Page title for <title> tag
	Section   string          // Active navigation section ("productos", "categorias", "etiquetas")
	Session   *session.Data   // Current user session (nil if unauthenticated)
	CSRFToken string          // CSRF token for forms
	Data      map[string]any  // Page-specific data
	Flashes   []session.Flash // One-time notification messages
}

// FlashSource supplies the pending flash messages of a request. It is
// satisfied by *session.Store.
type FlashSource interface {
	PopFlashes(ctx context.Context, r *http.Request) ([]session.Flash, error)
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	flashes   FlashSource
}

// New parses every page template from the embedded filesystem, each paired
// with the base layout. Timestamps are displayed in loc (UTC when nil).
// flashes may be nil, in which case no flash messages are shown.
func New(flashes FlashSource, loc *time.Location) (*Renderer, error) {
	if loc == nil {
		loc = time.UTC
	}
	r := &Renderer{
		templates: make(map[string]*template.Template),
		flashes:   flashes,
	}
	funcs := funcMap(loc)

	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("glob templates: %w", err)
	}

	for _, page := range pages {
		name := path.Base(page)
		if name == baseTemplate {
			continue
		}
		tmpl, err := template.New(baseTemplate).Funcs(funcs).ParseFS(
			templateFS, "templates/"+baseTemplate, page,
		)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.templates[strings.TrimSuffix(name, ".html")] = tmpl
	}

	return r, nil
}

// funcMap returns the helpers available to every template.
func funcMap(loc *time.Location) template.FuncMap {
	return template.FuncMap{
		// markdown renders a description as HTML. Raw HTML in the source
		// is escaped by the converter.
		"markdown": func(s string) template.HTML {
			out, err := markdown.ToHTML(s)
			if err != nil {
				return template.HTML(template.HTMLEscapeString(s))
			}
			return template.HTML(out)
		},
		"money": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
		"localtime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.In(loc).Format("02/01/2006 15:04")
		},
		"activeClass": func(current, target string) string {
			if current == target {
				return "active"
			}
			return ""
		},
	}
}

// Page renders a page with status 200.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	rn.Status(w, r, http.StatusOK, name, data)
}

// Status renders a page with the given HTTP status. The CSRF token,
// session and pending flash messages are injected from the request.
func (rn *Renderer) Status(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = &PageData{}
	}

	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}
	if rn.flashes != nil && data.Session != nil {
		flashes, err := rn.flashes.PopFlashes(r.Context(), r)
		if err != nil {
			slog.Warn("flash load failed", "error", err)
		}
		data.Flashes = append(data.Flashes, flashes...)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, baseTemplate, data); err != nil {
		slog.Error("template execute failed", "template", name, "error", err)
		http.Error(w, "template error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// NotFound renders the 404 page.
func (rn *Renderer) NotFound(w http.ResponseWriter, r *http.Request) {
	rn.Status(w, r, http.StatusNotFound, "404", &PageData{Title: "Página no encontrada"})
}
