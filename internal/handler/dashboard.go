// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/virtualspaces/boothadmin/internal/cache"
	"github.com/virtualspaces/boothadmin/internal/middleware"
	"github.com/virtualspaces/boothadmin/internal/render"
	"github.com/virtualspaces/boothadmin/internal/resource"
	"github.com/virtualspaces/boothadmin/internal/service"
)

// boothNameTTL bounds how long the header keeps a booth name from the API.
const boothNameTTL = 10 * time.Minute

// ShellConfig configures the dashboard shell.
type ShellConfig struct {
	Renderer  *render.Renderer
	Sessions  *scs.SessionManager
	Media     *service.MediaService
	Views     cache.Cacher
	ViewTTL   time.Duration
	BoothID   string
	BoothName string // shown when the API has no name for the booth
}

// Shell holds what every dashboard tab shares: the layout data, the
// per-session view-state cache and the booth being administered.
type Shell struct {
	renderer  *render.Renderer
	sm        *scs.SessionManager
	media     *service.MediaService
	views     cache.Cacher
	viewTTL   time.Duration
	boothID   string
	boothName string
	names     *cache.Typed[string]

	mu      sync.Mutex
	forgets []func(ctx context.Context, key string)
}

// NewShell creates a Shell.
func NewShell(cfg ShellConfig) *Shell {
	return &Shell{
		renderer:  cfg.Renderer,
		sm:        cfg.Sessions,
		media:     cfg.Media,
		views:     cfg.Views,
		viewTTL:   cfg.ViewTTL,
		boothID:   cfg.BoothID,
		boothName: cfg.BoothName,
		names:     cache.NewTyped[string](cfg.Views, "booth.name", boothNameTTL),
	}
}

// newLoader creates a tab loader whose state is dropped on sign-out.
func newLoader[T any](s *Shell, name, failMessage string, fetch resource.Fetcher[T]) *resource.Loader[T] {
	l := resource.NewLoader(resource.LoaderConfig[T]{
		Name:        name,
		FailMessage: failMessage,
		Fetch:       fetch,
		Cache:       s.views,
		TTL:         s.viewTTL,
	})
	s.onForget(l.Invalidate)
	return l
}

func (s *Shell) onForget(fn func(ctx context.Context, key string)) {
	s.mu.Lock()
	s.forgets = append(s.forgets, fn)
	s.mu.Unlock()
}

// Forget drops every piece of view state stored under key.
func (s *Shell) Forget(ctx context.Context, key string) {
	if key == "" {
		return
	}
	s.mu.Lock()
	fns := append([]func(context.Context, string){}, s.forgets...)
	s.mu.Unlock()
	for _, fn := range fns {
		fn(ctx, key)
	}
}

// viewKey identifies the browser session the view state belongs to.
func (s *Shell) viewKey(r *http.Request) string {
	return s.sm.Token(r.Context())
}

// page assembles the layout data of a dashboard tab.
func (s *Shell) page(r *http.Request, title, tab string, data any) render.TemplateData {
	return render.TemplateData{
		Title:     title,
		User:      middleware.GetUser(r),
		ActiveTab: tab,
		BoothName: s.boothLabel(r.Context()),
		Data:      data,
	}
}

// boothLabel returns the administered booth's name from the API, falling
// back to the configured name when the lookup fails.
func (s *Shell) boothLabel(ctx context.Context) string {
	if name, ok := s.names.Get(ctx, s.boothID); ok {
		return name
	}
	if s.media == nil {
		return s.boothName
	}

	booth, err := s.media.Booth(ctx, s.boothID)
	if err != nil || booth.Name == "" {
		if err != nil {
			slog.Debug("booth name lookup failed", "booth_id", s.boothID, "error", err)
		}
		return s.boothName
	}
	if err := s.names.Set(ctx, s.boothID, booth.Name); err != nil {
		slog.Warn("caching booth name failed", "error", err)
	}
	return booth.Name
}

// render writes a page, turning template failures into a 500.
func (s *Shell) render(w http.ResponseWriter, r *http.Request, status int, name string, data render.TemplateData) {
	if err := s.renderer.RenderStatus(w, r, status, name, data); err != nil {
		logAndInternalError(w, "failed to render page", "template", name, "error", err)
	}
}

// loadTab applies the mount rule: a plain navigation fetches afresh, a local
// transition (keep=1) reuses whatever the session already holds.
func loadTab[T any](r *http.Request, key string, l *resource.Loader[T]) resource.State[T] {
	if isKeep(r) {
		return l.Ensure(r.Context(), key)
	}
	return l.Load(r.Context(), key)
}

// spinnerRefresh is the reload delay of a page showing a load in progress.
const spinnerRefresh = 1
