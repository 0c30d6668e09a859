// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/virtualspaces/boothadmin/internal/middleware"
)

// GuardRoutes is the guard table for the pages mounted by Pages.Mount.
// Protected lists every dashboard route exactly, so an unknown path under
// /dashboard redirects like any other unknown path.
func GuardRoutes() middleware.Routes {
	return middleware.Routes{
		Login:  RouteLogin,
		Home:   RouteAnalytics,
		Public: []string{RouteLogin, RouteRegister},
		Protected: []string{
			RouteAnalytics,
			RouteCustomize,
			RouteUpload,
			RouteMediaDelete,
			RouteUsers,
			RouteUsersSelect,
			RouteLogout,
		},
	}
}

// Pages groups the session-backed handlers.
type Pages struct {
	Auth      *AuthHandler
	Analytics *AnalyticsHandler
	Customize *CustomizeHandler
	Users     *UsersHandler

	// SignInLimit wraps the login and register submissions. Optional.
	SignInLimit func(http.Handler) http.Handler
}

// Mount registers the pages behind guarded, which must end with the guard
// built from GuardRoutes. Unknown paths go through the same chain so they
// redirect by auth state.
func (p Pages) Mount(r chi.Router, guarded chi.Middlewares) {
	r.Group(func(r chi.Router) {
		r.Use(guarded...)

		r.Get(RouteLogin, p.Auth.LoginForm)
		r.Get(RouteRegister, p.Auth.RegisterForm)
		r.Group(func(r chi.Router) {
			if p.SignInLimit != nil {
				r.Use(p.SignInLimit)
			}
			r.Post(RouteLogin, p.Auth.Login)
			r.Post(RouteRegister, p.Auth.Register)
		})

		r.Get(RouteAnalytics, p.Analytics.Show)
		r.Get(RouteCustomize, p.Customize.Show)
		r.Post(RouteUpload, p.Customize.Upload)
		r.Get(RouteMediaDelete, p.Customize.ConfirmDelete)
		r.Post(RouteMediaDelete, p.Customize.Delete)
		r.Get(RouteUsers, p.Users.Show)
		r.Post(RouteUsersSelect, p.Users.Select)
		r.Post(RouteLogout, p.Auth.Logout)
	})

	r.NotFound(guarded.HandlerFunc(http.NotFound).ServeHTTP)
}
