// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/mileusna/useragent"

	"github.com/virtualspaces/boothadmin/internal/apiclient"
	"github.com/virtualspaces/boothadmin/internal/middleware"
	"github.com/virtualspaces/boothadmin/internal/model"
	"github.com/virtualspaces/boothadmin/internal/render"
	"github.com/virtualspaces/boothadmin/internal/session"
)

// AuthHandler handles sign-in, registration and sign-out.
type AuthHandler struct {
	renderer        *render.Renderer
	store           *session.Store
	shell           *Shell
	loginProtection *middleware.LoginProtection
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(renderer *render.Renderer, store *session.Store, shell *Shell, lp *middleware.LoginProtection) *AuthHandler {
	return &AuthHandler{
		renderer:        renderer,
		store:           store,
		shell:           shell,
		loginProtection: lp,
	}
}

// AuthView is the data of the sign-in and registration pages.
type AuthView struct {
	Email     string
	Username  string
	Errors    FieldErrors
	FormError string
	Busy      bool
}

func (h *AuthHandler) renderAuth(w http.ResponseWriter, r *http.Request, status int, name, title string, view AuthView) {
	if view.Errors == nil {
		view.Errors = FieldErrors{}
	}
	if !view.Busy {
		view.Busy = h.store.Busy(r.Context())
	}
	if err := h.renderer.RenderStatus(w, r, status, name, render.TemplateData{Title: title, Data: view}); err != nil {
		logAndInternalError(w, "failed to render page", "template", name, "error", err)
	}
}

// LoginForm handles GET /auth/login.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderAuth(w, r, http.StatusOK, "auth/login", "Admin Login", AuthView{})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderAuth(w, r, http.StatusBadRequest, "auth/login", "Admin Login", AuthView{FormError: msgInvalidForm})
		return
	}

	form := loginForm{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	view := AuthView{Email: form.Email}

	if errs := form.validate(); errs.Any() {
		view.Errors = errs
		h.renderAuth(w, r, http.StatusUnprocessableEntity, "auth/login", "Admin Login", view)
		return
	}

	if h.rejectLocked(w, r, form.Email, "auth/login", "Admin Login", view) {
		return
	}

	user, err := h.store.Login(r.Context(), model.LoginCredentials{Email: form.Email, Password: form.Password})
	if err != nil {
		status, msg := h.signInFailure(r, form.Email, err, msgLoginFailed)
		view.FormError = msg
		view.Busy = errors.Is(err, session.ErrInFlight)
		h.renderAuth(w, r, status, "auth/login", "Admin Login", view)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(form.Email)
	}
	slog.Info("admin signed in", append(clientAttrs(r), "email", user.Email, "user_id", user.ID)...)
	http.Redirect(w, r, RouteAnalytics, http.StatusSeeOther)
}

// RegisterForm handles GET /auth/register.
func (h *AuthHandler) RegisterForm(w http.ResponseWriter, r *http.Request) {
	h.renderAuth(w, r, http.StatusOK, "auth/register", "Admin Registration", AuthView{})
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderAuth(w, r, http.StatusBadRequest, "auth/register", "Admin Registration", AuthView{FormError: msgInvalidForm})
		return
	}

	form := registerForm{
		Username:        strings.TrimSpace(r.FormValue("username")),
		Email:           strings.TrimSpace(r.FormValue("email")),
		Password:        r.FormValue("password"),
		ConfirmPassword: r.FormValue("confirmPassword"),
		SecretCode:      strings.TrimSpace(r.FormValue("secretCode")),
	}
	view := AuthView{Email: form.Email, Username: form.Username}

	if errs := form.validate(); errs.Any() {
		view.Errors = errs
		h.renderAuth(w, r, http.StatusUnprocessableEntity, "auth/register", "Admin Registration", view)
		return
	}

	if h.rejectLocked(w, r, form.Email, "auth/register", "Admin Registration", view) {
		return
	}

	user, err := h.store.Register(r.Context(), model.RegisterCredentials{
		Username:   form.Username,
		Email:      form.Email,
		Password:   form.Password,
		SecretCode: form.SecretCode,
	})
	if err != nil {
		if errors.Is(err, session.ErrMissingSecret) {
			view.Errors = FieldErrors{"secretCode": "Secret code is required"}
			h.renderAuth(w, r, http.StatusUnprocessableEntity, "auth/register", "Admin Registration", view)
			return
		}
		status, msg := h.signInFailure(r, form.Email, err, msgRegisterFailed)
		view.FormError = msg
		view.Busy = errors.Is(err, session.ErrInFlight)
		h.renderAuth(w, r, status, "auth/register", "Admin Registration", view)
		return
	}

	if h.loginProtection != nil {
		h.loginProtection.RecordSuccessfulLogin(form.Email)
	}
	slog.Info("admin registered", append(clientAttrs(r), "email", user.Email, "user_id", user.ID)...)
	http.Redirect(w, r, RouteAnalytics, http.StatusSeeOther)
}

// rejectLocked renders the lockout banner when email is locked. Failed
// login and register attempts share one counter per email.
func (h *AuthHandler) rejectLocked(w http.ResponseWriter, r *http.Request, email, page, title string, view AuthView) bool {
	if h.loginProtection == nil {
		return false
	}
	locked, remaining := h.loginProtection.IsAccountLocked(email)
	if !locked {
		return false
	}
	slog.Warn("sign-in attempt on locked account", append(clientAttrs(r), "email", email, "page", page)...)
	view.FormError = fmt.Sprintf("Account temporarily locked. Please try again in %s.", formatDuration(remaining))
	h.renderAuth(w, r, http.StatusTooManyRequests, page, title, view)
	return true
}

// signInFailure maps a failed exchange to a status and the banner text. The
// server's own message wins over the fallback. Rejected credentials count
// towards the account lockout.
func (h *AuthHandler) signInFailure(r *http.Request, email string, err error, fallback string) (int, string) {
	if errors.Is(err, session.ErrInFlight) {
		return http.StatusConflict, msgSignInBusy
	}

	var apiErr *apiclient.Error
	if !errors.As(err, &apiErr) {
		slog.Error("sign-in request failed", append(clientAttrs(r), "email", email, "error", err)...)
		return http.StatusBadGateway, fallback
	}

	slog.Warn("sign-in rejected", append(clientAttrs(r), "email", email, "status", apiErr.Status)...)

	msg := fallback
	if apiErr.Message != "" {
		msg = apiErr.Message
	}
	if h.loginProtection != nil && apiErr.Status < http.StatusInternalServerError {
		if locked, d := h.loginProtection.RecordFailedAttempt(email); locked {
			return http.StatusTooManyRequests, fmt.Sprintf("Too many failed attempts. Account locked for %s.", formatDuration(d))
		}
	}

	status := apiErr.Status
	if status < http.StatusBadRequest || status >= http.StatusInternalServerError {
		status = http.StatusBadGateway
	}
	return status, msg
}

// Logout handles POST /dashboard/logout.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r)

	if h.shell != nil {
		h.shell.Forget(r.Context(), h.shell.viewKey(r))
	}
	if err := h.store.Logout(r.Context()); err != nil {
		logAndInternalError(w, "failed to destroy session", "error", err)
		return
	}

	if user != nil {
		slog.Info("admin signed out", append(clientAttrs(r), "email", user.Email)...)
	}
	flashAndRedirect(w, r, h.renderer, RouteLogin, msgSignedOut, render.FlashInfo)
}

// clientAttrs returns audit log attributes describing the caller.
func clientAttrs(r *http.Request) []any {
	ua := useragent.Parse(r.UserAgent())
	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	return []any{
		"ip", ip,
		"browser", strings.TrimSpace(ua.Name + " " + ua.Version),
		"os", ua.OS,
		"device", deviceKind(ua),
	}
}

func deviceKind(ua useragent.UserAgent) string {
	switch {
	case ua.Bot:
		return "bot"
	case ua.Tablet:
		return "tablet"
	case ua.Mobile:
		return "mobile"
	case ua.Desktop:
		return "desktop"
	}
	return "unknown"
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%d seconds", int(d.Seconds()))
	}
	if d < time.Hour {
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 minute"
		}
		return fmt.Sprintf("%d minutes", mins)
	}
	hours := int(d.Hours())
	if hours == 1 {
		return "1 hour"
	}
	return fmt.Sprintf("%d hours", hours)
}
