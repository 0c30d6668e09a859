// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/virtualspaces/boothadmin/internal/chart"
	"github.com/virtualspaces/boothadmin/internal/model"
	"github.com/virtualspaces/boothadmin/internal/resource"
	"github.com/virtualspaces/boothadmin/internal/service"
)

// AnalyticsHandler serves the Analytics tab.
type AnalyticsHandler struct {
	shell  *Shell
	loader *resource.Loader[model.Analytics]
	charts *chart.Renderer
}

// NewAnalyticsHandler creates an AnalyticsHandler.
func NewAnalyticsHandler(shell *Shell, visitors *service.VisitorService, charts *chart.Renderer) *AnalyticsHandler {
	fetch := func(ctx context.Context) (model.Analytics, error) {
		return visitors.Analytics(ctx, shell.boothID)
	}
	return &AnalyticsHandler{
		shell:  shell,
		loader: newLoader(shell, "analytics", msgAnalyticsFailed, fetch),
		charts: charts,
	}
}

// AnalyticsView is the data of the Analytics tab.
type AnalyticsView struct {
	View      resource.View
	Error     string
	Analytics model.Analytics
	Average   string
	Shares    []model.LocationShare
	Chart     template.HTML
}

// Show handles GET /dashboard/analytics.
func (h *AnalyticsHandler) Show(w http.ResponseWriter, r *http.Request) {
	st := loadTab(r, h.shell.viewKey(r), h.loader)

	view := AnalyticsView{View: st.View(nil), Error: st.Err}
	if view.View == resource.ViewData {
		view.Analytics = st.Data
		view.Average = st.Data.AverageVisits()
		view.Shares = st.Data.LocationShares()
		if h.charts != nil {
			snippet, err := h.charts.LocationShare(view.Shares)
			if err != nil {
				slog.Warn("rendering location chart failed", "error", err)
			}
			view.Chart = snippet
		}
	}

	data := h.shell.page(r, "Analytics", TabAnalytics, view)
	if view.View == resource.ViewSpinner {
		data.Refresh = spinnerRefresh
	}
	if view.Chart != "" {
		data.ChartScript = h.charts.ScriptURL()
	}
	h.shell.render(w, r, http.StatusOK, "dashboard/analytics", data)
}
