// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"fmt"
	"io/fs"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/virtualspaces/boothadmin/internal/config"
	"github.com/virtualspaces/boothadmin/internal/handler"
	"github.com/virtualspaces/boothadmin/internal/middleware"
	"github.com/virtualspaces/boothadmin/internal/session"
	"github.com/virtualspaces/boothadmin/web"
)

// app bundles the wired dependencies the router needs.
type app struct {
	cfg             *config.Config
	sessions        *scs.SessionManager
	store           *session.Store
	readiness       *middleware.Readiness
	loginProtection *middleware.LoginProtection

	auth      *handler.AuthHandler
	analytics *handler.AnalyticsHandler
	customize *handler.CustomizeHandler
	users     *handler.UsersHandler
	health    *handler.HealthHandler
}

func (a *app) routes() (http.Handler, error) {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.StripTrailingSlash)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(
		a.cfg.IsDevelopment(), a.cfg.ChartAssetsHost, a.cfg.MediaBase())))

	// Health and static assets bypass the session and the guard.
	r.Get(handler.RouteHealth, a.health.Health)
	r.Get(handler.RouteHealthLive, a.health.Liveness)
	r.Get(handler.RouteHealthReady, a.health.Readiness)

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return nil, fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle(handler.RouteStaticPrefix+"*",
		http.StripPrefix(handler.RouteStaticPrefix, http.FileServer(http.FS(staticFS))))

	csrfConfig := middleware.DefaultCSRFConfig([]byte(a.cfg.SessionSecret), a.cfg.IsDevelopment(), a.cfg.ServerAddr())
	guarded := chi.Chain(
		a.readiness.Middleware,
		a.sessions.LoadAndSave,
		middleware.LoadIdentity(a.store),
		middleware.CSRF(csrfConfig),
		middleware.Guard(handler.GuardRoutes()),
	)

	handler.Pages{
		Auth:        a.auth,
		Analytics:   a.analytics,
		Customize:   a.customize,
		Users:       a.users,
		SignInLimit: a.loginProtection.Middleware(),
	}.Mount(r, guarded)

	return r, nil
}
