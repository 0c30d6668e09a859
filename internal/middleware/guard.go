// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package middleware provides HTTP middleware for session identity, route
// guarding, CSRF and login protection, and security headers.
package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/virtualspaces/boothadmin/internal/session"
)

// AuthState is the guard's view of the current request.
type AuthState int

// Guard states.
const (
	Restoring AuthState = iota
	Unauthenticated
	Authenticated
)

func (s AuthState) String() string {
	switch s {
	case Restoring:
		return "restoring"
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	}
	return "unknown"
}

// ViewKind is the family of views a request may reach.
type ViewKind int

// View families.
const (
	ViewLoading ViewKind = iota
	ViewAuth
	ViewDashboard
)

// Decision is the outcome of resolving a path. Redirect is empty when the
// view may be rendered at the requested path.
type Decision struct {
	View     ViewKind
	Redirect string
}

// Routes describes the paths reachable in each state. Patterns match whole
// paths; a "{name}" segment matches any single non-empty segment.
type Routes struct {
	Login     string   // canonical unauthenticated path
	Home      string   // canonical authenticated path
	Public    []string // reachable while unauthenticated
	Protected []string // reachable while authenticated
}

// Resolve maps a state and path to exactly one view family.
func (rt Routes) Resolve(state AuthState, path string) Decision {
	switch state {
	case Unauthenticated:
		if matchAny(rt.Public, path) {
			return Decision{View: ViewAuth}
		}
		return Decision{View: ViewAuth, Redirect: rt.Login}
	case Authenticated:
		if matchAny(rt.Protected, path) {
			return Decision{View: ViewDashboard}
		}
		return Decision{View: ViewDashboard, Redirect: rt.Home}
	}
	return Decision{View: ViewLoading}
}

func matchAny(patterns []string, path string) bool {
	for _, p := range patterns {
		if matchPattern(p, path) {
			return true
		}
	}
	return false
}

func matchPattern(pattern, path string) bool {
	if !strings.Contains(pattern, "{") {
		return path == pattern
	}
	want := strings.Split(pattern, "/")
	got := strings.Split(path, "/")
	if len(want) != len(got) {
		return false
	}
	for i, seg := range want {
		if strings.HasPrefix(seg, "{") && strings.HasSuffix(seg, "}") {
			if got[i] == "" {
				return false
			}
			continue
		}
		if seg != got[i] {
			return false
		}
	}
	return true
}

// Readiness holds requests in the Restoring state until startup work is
// done. While not ready it renders the loading page and never touches the
// session store.
type Readiness struct {
	ready   atomic.Bool
	loading http.Handler
}

// NewReadiness creates a gate that renders loading until MarkReady.
func NewReadiness(loading http.Handler) *Readiness {
	return &Readiness{loading: loading}
}

// MarkReady opens the gate.
func (g *Readiness) MarkReady() {
	g.ready.Store(true)
}

// Ready reports whether the gate is open.
func (g *Readiness) Ready() bool {
	return g.ready.Load()
}

// Middleware renders the loading page while restoring.
func (g *Readiness) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !g.ready.Load() {
			w.Header().Set("Retry-After", "1")
			g.loading.ServeHTTP(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Guard redirects requests to the canonical path of their state. It must run
// after LoadIdentity.
func Guard(rt Routes) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			state := Unauthenticated
			if _, ok := session.FromContext(r.Context()); ok {
				state = Authenticated
			}

			d := rt.Resolve(state, r.URL.Path)
			if d.Redirect == "" {
				next.ServeHTTP(w, r)
				return
			}

			slog.Debug("guard redirect", "state", state, "from", r.URL.Path, "to", d.Redirect)
			http.Redirect(w, r, d.Redirect, redirectStatus(r))
		})
	}
}

// redirectStatus replaces the current history entry: 302 for safe methods,
// 303 after a form submission.
func redirectStatus(r *http.Request) int {
	if r.Method == http.MethodGet || r.Method == http.MethodHead {
		return http.StatusFound
	}
	return http.StatusSeeOther
}
