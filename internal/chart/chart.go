// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package chart renders the analytics charts as HTML snippets for the
// dashboard templates.
package chart

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/virtualspaces/boothadmin/internal/model"
)

const (
	locationChartID = "location-share"
	defaultHeight   = "320px"
	scriptName      = "echarts.min.js"

	defaultAssetsHost = "https://go-echarts.github.io/go-echarts-assets/assets/"
)

// Renderer builds chart snippets that load the ECharts runtime from
// AssetsHost.
type Renderer struct {
	assetsHost string
}

// New creates a Renderer. An empty host keeps the go-echarts default.
func New(assetsHost string) *Renderer {
	if assetsHost != "" && !strings.HasSuffix(assetsHost, "/") {
		assetsHost += "/"
	}
	return &Renderer{assetsHost: assetsHost}
}

// ScriptURL is the ECharts runtime the page must load before any snippet.
func (r *Renderer) ScriptURL() string {
	host := r.assetsHost
	if host == "" {
		host = defaultAssetsHost
	}
	return host + scriptName
}

// LocationShare renders the visitor location pie. It returns an empty
// snippet when there is nothing to plot.
func (r *Renderer) LocationShare(shares []model.LocationShare) (template.HTML, error) {
	data := make([]opts.PieData, 0, len(shares))
	for _, s := range shares {
		if s.Count <= 0 {
			continue
		}
		data = append(data, opts.PieData{Name: s.Location, Value: s.Count})
	}
	if len(data) == 0 {
		return "", nil
	}

	initOpts := opts.Initialization{
		ChartID: locationChartID,
		Width:   "100%",
		Height:  defaultHeight,
	}
	if r.assetsHost != "" {
		initOpts.AssetsHost = r.assetsHost
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(
		charts.WithInitializationOpts(initOpts),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "item"}),
		charts.WithLegendOpts(opts.Legend{Show: opts.Bool(true), Orient: "vertical", Left: "left"}),
	)
	pie.AddSeries("Visits", data,
		charts.WithPieChartOpts(opts.PieChart{Radius: []string{"40%", "70%"}}),
		charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Formatter: "{b}: {d}%"}),
	)

	snippet, err := renderSnippet(pie)
	if err != nil {
		return "", err
	}
	return template.HTML(snippet), nil
}

// renderSnippet converts the go-echarts template panic into an error.
func renderSnippet(pie *charts.Pie) (out string, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("rendering chart: %v", rec)
		}
	}()
	s := pie.RenderSnippet()
	return s.Element + s.Script, nil
}
