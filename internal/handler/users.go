// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/virtualspaces/boothadmin/internal/cache"
	"github.com/virtualspaces/boothadmin/internal/model"
	"github.com/virtualspaces/boothadmin/internal/resource"
	"github.com/virtualspaces/boothadmin/internal/service"
)

// selection is the visitor row a session has expanded on the Users tab.
type selection struct {
	VisitorID    string                               `json:"visitorId"`
	Interactions resource.State[[]model.Interaction] `json:"interactions"`
}

// UsersHandler serves the Users tab.
type UsersHandler struct {
	shell      *Shell
	visitors   *service.VisitorService
	loader     *resource.Loader[[]model.Visitor]
	selections *cache.Typed[selection]
}

// NewUsersHandler creates a UsersHandler.
func NewUsersHandler(shell *Shell, visitors *service.VisitorService) *UsersHandler {
	fetch := func(ctx context.Context) ([]model.Visitor, error) {
		return visitors.Visitors(ctx, shell.boothID)
	}
	h := &UsersHandler{
		shell:      shell,
		visitors:   visitors,
		loader:     newLoader(shell, "visitors", msgUsersFailed, fetch),
		selections: cache.NewTyped[selection](shell.views, "users.selection", shell.viewTTL),
	}
	shell.onForget(h.clearSelection)
	return h
}

func (h *UsersHandler) clearSelection(ctx context.Context, key string) {
	if err := h.selections.Delete(ctx, key); err != nil {
		slog.Warn("clearing visitor selection failed", "error", err)
	}
}

// CategoryTab is one interaction filter button.
type CategoryTab struct {
	Category model.InteractionCategory
	Count    int
	Active   bool
	URL      string
}

// UsersView is the data of the Users tab.
type UsersView struct {
	View     resource.View
	Error    string
	Query    string
	Visitors []model.Visitor
	Total    int

	Selected          *model.Visitor
	InteractionsView  resource.View
	InteractionsError string
	Interactions      []model.Interaction
	Category          model.InteractionCategory
	Categories        []CategoryTab

	Details  *model.Visitor
	CloseURL string
}

// Show handles GET /dashboard/users. Mounting the tab fetches the visitor
// list and collapses any selection; local transitions keep both.
func (h *UsersHandler) Show(w http.ResponseWriter, r *http.Request) {
	key := h.shell.viewKey(r)
	st := loadTab(r, key, h.loader)

	var sel selection
	if isKeep(r) {
		sel, _ = h.selections.Get(r.Context(), key)
	} else {
		h.clearSelection(r.Context(), key)
	}

	q := r.URL.Query()
	query := q.Get(paramQuery)
	category := model.ParseCategory(q.Get(paramCategory))

	view := UsersView{
		View:     st.View(func(v []model.Visitor) bool { return len(v) == 0 }),
		Error:    st.Err,
		Query:    query,
		Visitors: model.SearchVisitors(st.Data, query),
		Total:    len(st.Data),
		Category: category,
		CloseURL: keepURL(RouteUsers, paramQuery, query, paramCategory, categoryParam(category)),
	}

	if sel.VisitorID != "" {
		if v, ok := model.FindVisitor(st.Data, sel.VisitorID); ok {
			view.Selected = &v
			view.InteractionsView = sel.Interactions.View(nil)
			view.InteractionsError = sel.Interactions.Err
			view.Interactions = model.FilterInteractions(sel.Interactions.Data, category)
			view.Categories = categoryTabs(sel.Interactions.Data, category, query)
		}
	}

	if id := q.Get(paramDetails); id != "" {
		if v, ok := model.FindVisitor(st.Data, id); ok {
			view.Details = &v
		}
	}

	data := h.shell.page(r, "Users", TabUsers, view)
	if view.View == resource.ViewSpinner {
		data.Refresh = spinnerRefresh
	}
	h.shell.render(w, r, http.StatusOK, "dashboard/users", data)
}

// Select handles POST /dashboard/users/select. Choosing the selected row
// again collapses it; choosing another row replaces the selection and
// fetches that visitor's interactions.
func (h *UsersHandler) Select(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.shell.renderer, keepURL(RouteUsers), msgInvalidForm)
		return
	}

	key := h.shell.viewKey(r)
	id := r.FormValue("id")
	query := r.FormValue(paramQuery)
	category := model.ParseCategory(r.FormValue(paramCategory))
	back := keepURL(RouteUsers, paramQuery, query, paramCategory, categoryParam(category))

	current, _ := h.selections.Get(r.Context(), key)
	if id == "" || current.VisitorID == id {
		h.clearSelection(r.Context(), key)
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	visitors := h.loader.Ensure(r.Context(), key)
	if _, ok := model.FindVisitor(visitors.Data, id); !ok {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	interactions := resource.Fetch(r.Context(), "interactions", msgInteractionsFailed,
		func(ctx context.Context) ([]model.Interaction, error) {
			return h.visitors.Interactions(ctx, h.shell.boothID, id)
		})

	next := selection{VisitorID: id, Interactions: interactions}
	if err := h.selections.Set(r.Context(), key, next); err != nil {
		slog.Warn("saving visitor selection failed", "error", err)
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// categoryParam leaves the default category out of URLs.
func categoryParam(c model.InteractionCategory) string {
	if c == model.CategoryAll {
		return ""
	}
	return string(c)
}

func categoryTabs(all []model.Interaction, active model.InteractionCategory, query string) []CategoryTab {
	counts := model.CountByCategory(all)
	tabs := make([]CategoryTab, 0, len(model.InteractionCategories))
	for _, c := range model.InteractionCategories {
		tabs = append(tabs, CategoryTab{
			Category: c,
			Count:    counts[c],
			Active:   c == active,
			URL:      keepURL(RouteUsers, paramQuery, query, paramCategory, categoryParam(c)),
		})
	}
	return tabs
}
