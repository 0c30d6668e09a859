// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/virtualspaces/boothadmin/internal/markup"
	"github.com/virtualspaces/boothadmin/internal/model"
	"github.com/virtualspaces/boothadmin/internal/resource"
	"github.com/virtualspaces/boothadmin/internal/service"
)

// CustomizeHandler serves the Customize tab: booth media listing, upload
// and delete.
type CustomizeHandler struct {
	shell       *Shell
	media       *service.MediaService
	loader      *resource.Loader[[]model.Booth]
	description template.HTML
}

// NewCustomizeHandler creates a CustomizeHandler. description is markdown
// shown above the upload form.
func NewCustomizeHandler(shell *Shell, media *service.MediaService, md *markup.Renderer, description string) *CustomizeHandler {
	h := &CustomizeHandler{shell: shell, media: media}
	h.loader = newLoader(shell, "booths", msgBoothsFailed, h.fetchBooths)

	if md != nil && description != "" {
		html, err := md.Render(description)
		if err != nil {
			slog.Warn("rendering booth description failed", "error", err)
		}
		h.description = html
	}
	return h
}

// fetchBooths groups the booth's media and labels booths from the
// directory. A failing directory lookup only costs the names.
func (h *CustomizeHandler) fetchBooths(ctx context.Context) ([]model.Booth, error) {
	booths, err := h.media.BoothMedia(ctx, h.shell.boothID)
	if err != nil {
		return nil, err
	}

	summaries, err := h.media.Booths(ctx)
	if err != nil {
		slog.Warn("listing booths failed", "error", err)
		return booths, nil
	}
	booths = model.WithListedBooth(booths, summaries, h.shell.boothID)
	model.NameBooths(booths, summaries)
	return booths, nil
}

// CustomizeView is the data of the Customize tab.
type CustomizeView struct {
	View        resource.View
	Error       string
	Booths      []model.Booth
	Selected    model.Booth
	HasSelected bool
	MediaType   model.MediaType
	MediaTypes  []model.MediaType
	Positions   []int
	Position    string
	Errors      FieldErrors
	Description template.HTML
}

// Show handles GET /dashboard/customize.
func (h *CustomizeHandler) Show(w http.ResponseWriter, r *http.Request) {
	st := loadTab(r, h.shell.viewKey(r), h.loader)
	q := r.URL.Query()
	view := h.view(st, q.Get(paramBooth), q.Get(paramType), "")
	h.renderView(w, r, http.StatusOK, view)
}

func (h *CustomizeHandler) view(st resource.State[[]model.Booth], boothID, mediaType, position string) CustomizeView {
	view := CustomizeView{
		View:        st.View(func(b []model.Booth) bool { return len(b) == 0 }),
		Error:       st.Err,
		Booths:      st.Data,
		MediaTypes:  model.MediaTypes,
		Position:    position,
		Errors:      FieldErrors{},
		Description: h.description,
	}

	t, ok := model.ParseMediaType(mediaType)
	if !ok {
		t = model.MediaImage
	}
	view.MediaType = t
	view.Positions = model.PositionOptions(t)

	if boothID == "" && len(st.Data) > 0 {
		boothID = st.Data[0].ID
	}
	view.Selected, view.HasSelected = model.FindBooth(st.Data, boothID)
	return view
}

func (h *CustomizeHandler) renderView(w http.ResponseWriter, r *http.Request, status int, view CustomizeView) {
	data := h.shell.page(r, "Customize", TabCustomize, view)
	if view.View == resource.ViewSpinner {
		data.Refresh = spinnerRefresh
	}
	h.shell.render(w, r, status, "dashboard/customize", data)
}

// Upload handles POST /dashboard/customize/upload.
func (h *CustomizeHandler) Upload(w http.ResponseWriter, r *http.Request) {
	key := h.shell.viewKey(r)

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var tooLarge *http.MaxBytesError
		msg := msgInvalidForm
		if errors.As(err, &tooLarge) {
			msg = "File is too large"
		}
		flashError(w, r, h.shell.renderer, keepURL(RouteCustomize), msg)
		return
	}

	form := uploadForm{
		BoothID:   r.FormValue("boothId"),
		MediaType: r.FormValue("mediaType"),
		Position:  r.FormValue("position"),
	}
	file, header, err := r.FormFile("file")
	if err == nil {
		defer func() { _ = file.Close() }()
		form.HasFile = header.Size > 0
	}

	mediaType, position, errs := form.validate()
	if errs.Any() {
		st := h.loader.Ensure(r.Context(), key)
		view := h.view(st, form.BoothID, form.MediaType, form.Position)
		view.Errors = errs
		h.renderView(w, r, http.StatusUnprocessableEntity, view)
		return
	}

	err = h.media.Upload(r.Context(), service.Upload{
		MediaType:   mediaType,
		BoothID:     form.BoothID,
		Position:    position,
		FileName:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Body:        file,
	})
	if err != nil {
		slog.Error("media upload failed",
			"booth_id", form.BoothID,
			"media_type", mediaType,
			"position", position,
			"error", err,
		)
		st := h.loader.Ensure(r.Context(), key)
		view := h.view(st, form.BoothID, string(mediaType), form.Position)
		view.Errors.Add("form", msgUploadFailed)
		h.renderView(w, r, http.StatusBadGateway, view)
		return
	}

	slog.Info("media uploaded",
		"booth_id", form.BoothID,
		"media_type", mediaType,
		"position", position,
		"file", service.SafeFileName(header.Filename),
	)
	h.loader.Load(r.Context(), key)
	flashSuccess(w, r, h.shell.renderer,
		keepURL(RouteCustomize, paramBooth, form.BoothID, paramType, string(mediaType)),
		msgUploadSuccess)
}

// DeleteView is the data of the delete confirmation page.
type DeleteView struct {
	Media     model.MediaItem
	Booth     string
	MediaType model.MediaType
	CancelURL string
}

// ConfirmDelete handles GET /dashboard/customize/media/{id}/delete.
func (h *CustomizeHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	st := h.loader.Ensure(r.Context(), h.shell.viewKey(r))
	item, ok := model.FindMedia(st.Data, chi.URLParam(r, "id"))
	if !ok {
		flashError(w, r, h.shell.renderer, keepURL(RouteCustomize), msgMediaNotFound)
		return
	}

	view := DeleteView{
		Media:     item,
		Booth:     item.BoothID,
		MediaType: item.MediaType,
		CancelURL: keepURL(RouteCustomize, paramBooth, item.BoothID, paramType, string(item.MediaType)),
	}
	h.shell.render(w, r, http.StatusOK, "dashboard/confirm_delete",
		h.shell.page(r, "Delete Media", TabCustomize, view))
}

// Delete handles POST /dashboard/customize/media/{id}/delete. Only an
// explicit confirm=yes issues the delete call.
func (h *CustomizeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		flashError(w, r, h.shell.renderer, keepURL(RouteCustomize), msgInvalidForm)
		return
	}

	id := chi.URLParam(r, "id")
	back := keepURL(RouteCustomize, paramBooth, r.FormValue("boothId"), paramType, r.FormValue("mediaType"))

	if r.FormValue("confirm") != "yes" {
		http.Redirect(w, r, back, http.StatusSeeOther)
		return
	}

	if err := h.media.Delete(r.Context(), id); err != nil {
		slog.Error("media delete failed", "media_id", id, "error", err)
		flashError(w, r, h.shell.renderer, back, msgDeleteFailed)
		return
	}

	slog.Info("media deleted", "media_id", id)
	h.loader.Load(r.Context(), h.shell.viewKey(r))
	flashSuccess(w, r, h.shell.renderer, back, msgDeleteSuccess)
}
