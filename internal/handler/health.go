// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"time"

	"github.com/virtualspaces/boothadmin/internal/middleware"
	"github.com/virtualspaces/boothadmin/internal/render"
	"github.com/virtualspaces/boothadmin/internal/scheduler"
	"github.com/virtualspaces/boothadmin/internal/version"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	probe     *scheduler.Probe
	readiness *middleware.Readiness
	startTime time.Time
}

// NewHealthHandler creates a new health handler. probe may be nil when the
// upstream check is not scheduled.
func NewHealthHandler(db *sql.DB, probe *scheduler.Probe, readiness *middleware.Readiness) *HealthHandler {
	return &HealthHandler{
		db:        db,
		probe:     probe,
		readiness: readiness,
		startTime: time.Now(),
	}
}

// HealthStatus represents the overall health status.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   version.Info     `json:"version"`
	Checks    map[string]Check `json:"checks"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Health handles GET /health. The session database and the upstream API
// must both be healthy; an API that has not been probed yet does not
// degrade the status.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	checks := map[string]Check{
		"database": h.checkDatabase(r.Context()),
		"api":      h.checkAPI(),
	}

	overall := "healthy"
	for _, c := range checks {
		if c.Status == "unhealthy" {
			overall = "degraded"
		}
	}

	code := http.StatusOK
	if overall != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthStatus{
		Status:    overall,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   version.Current(),
		Checks:    checks,
	})
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready. The service is ready once startup
// initialisation finished and the session database answers.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if h.readiness != nil && !h.readiness.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": "initialising",
		})
		return
	}

	if db := h.checkDatabase(r.Context()); db.Status != "healthy" {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "not_ready",
			"message": db.Message,
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// checkDatabase verifies session database connectivity.
func (h *HealthHandler) checkDatabase(ctx context.Context) Check {
	start := time.Now()
	err := h.db.PingContext(ctx)
	latency := time.Since(start)

	if err != nil {
		return Check{
			Status:  "unhealthy",
			Message: err.Error(),
			Latency: latency.String(),
		}
	}
	return Check{
		Status:  "healthy",
		Message: "Connected",
		Latency: latency.String(),
	}
}

// checkAPI reports the latest scheduled probe of the remote API.
func (h *HealthHandler) checkAPI() Check {
	if h.probe == nil {
		return Check{Status: "unknown", Message: "Not probed"}
	}
	st := h.probe.Status()
	switch {
	case !st.Checked:
		return Check{Status: "unknown", Message: "Not probed yet"}
	case !st.Healthy:
		return Check{Status: "unhealthy", Message: st.Error, Latency: st.Latency.String()}
	}
	return Check{
		Status:  "healthy",
		Message: "Checked " + st.CheckedAt.UTC().Format(time.RFC3339),
		Latency: st.Latency.String(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// LoadingPage renders the neutral page shown while the service starts. It
// reloads itself and never touches the session.
func LoadingPage(renderer *render.Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		data := render.TemplateData{Title: "Loading", Refresh: spinnerRefresh}
		if err := renderer.RenderPage(w, http.StatusServiceUnavailable, "pages/loading", data); err != nil {
			logAndHTTPError(w, "Service starting", http.StatusServiceUnavailable, "failed to render loading page", "error", err)
		}
	}
}
