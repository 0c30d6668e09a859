// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded page templates and writes HTML
// responses with the shared layout data.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/virtualspaces/boothadmin/internal/model"
)

// Flash kinds.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

const (
	flashKey     = "flash"
	flashTypeKey = "flash_type"
)

// blankLinesRegex collapses runs of blank lines left by template actions.
var blankLinesRegex = regexp.MustCompile(`(\r?\n[ \t]*)+\r?\n`)

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	isDev          bool
	mediaBase      string
	now            func() time.Time
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	IsDev          bool
	MediaBase      string // prefix for media file references
}

// New creates a Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		isDev:          cfg.IsDev,
		mediaBase:      cfg.MediaBase,
		now:            time.Now,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}
	return r, nil
}

// layoutSets maps a page directory to the layouts it is parsed with.
var layoutSets = map[string][]string{
	"auth":      {"layouts/base.html"},
	"pages":     {"layouts/base.html"},
	"dashboard": {"layouts/base.html", "layouts/dashboard.html"},
}

func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	for dir, layouts := range layoutSets {
		pages, err := templateFiles(templatesFS, dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", dir, err)
		}

		for _, page := range pages {
			name := dir + "/" + strings.TrimSuffix(path.Base(page), ".html")

			// Parse in order: layouts, partials, page template
			files := append([]string{}, layouts...)
			files = append(files, partials...)
			files = append(files, page)

			tmpl, err := template.New("").Funcs(r.TemplateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	if len(r.templates) == 0 {
		return fmt.Errorf("no page templates found")
	}
	return nil
}

// templateFiles returns all .html files in a directory. A missing directory
// yields no files.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return nil, nil
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	User        *model.User
	ActiveTab   string
	BoothName   string
	Data        any
	Flash       string
	FlashType   string
	ChartScript string
	// Refresh, when positive, makes the page reload itself after that many
	// seconds.
	Refresh     int
	CurrentYear int
}

// Render writes name with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus pops the session flash into data and writes name with status.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	if r.sessionManager != nil && data.Flash == "" {
		data.Flash, data.FlashType = r.PopFlash(req)
	}
	return r.RenderPage(w, status, name, data)
}

// RenderPage writes name without touching the session. It serves pages
// rendered before the session is available.
func (r *Renderer) RenderPage(w http.ResponseWriter, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	data.CurrentYear = r.now().Year()

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	out := blankLinesRegex.ReplaceAll(buf.Bytes(), []byte("\n"))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(out); err != nil {
		slog.Debug("writing response failed", "template", name, "error", err)
	}
	return nil
}

// SetFlash stores a one-shot message shown by the next rendered page.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager == nil {
		return
	}
	r.sessionManager.Put(req.Context(), flashKey, message)
	r.sessionManager.Put(req.Context(), flashTypeKey, flashType)
}

// PopFlash returns and clears the pending flash message.
func (r *Renderer) PopFlash(req *http.Request) (string, string) {
	if r.sessionManager == nil {
		return "", ""
	}
	msg := r.sessionManager.PopString(req.Context(), flashKey)
	kind := r.sessionManager.PopString(req.Context(), flashTypeKey)
	if msg != "" && kind == "" {
		kind = FlashInfo
	}
	return msg, kind
}
