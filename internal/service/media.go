// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/mozillazg/go-unidecode"

	"github.com/virtualspaces/boothadmin/internal/apiclient"
	"github.com/virtualspaces/boothadmin/internal/model"
)

// MediaService covers booth media endpoints.
type MediaService struct {
	api *apiclient.Client
}

// NewMediaService creates a MediaService.
func NewMediaService(api *apiclient.Client) *MediaService {
	return &MediaService{api: api}
}

// Booths returns the booth directory.
func (s *MediaService) Booths(ctx context.Context) ([]model.BoothSummary, error) {
	var booths []model.BoothSummary
	if err := s.api.Get(ctx, "/booths", &booths); err != nil {
		return nil, err
	}
	return booths, nil
}

// Booth returns a single booth.
func (s *MediaService) Booth(ctx context.Context, id string) (model.BoothSummary, error) {
	var booth model.BoothSummary
	if err := s.api.Get(ctx, "/booths/"+url.PathEscape(id), &booth); err != nil {
		return model.BoothSummary{}, err
	}
	return booth, nil
}

// BoothMedia fetches the flat media list of a booth and groups it.
func (s *MediaService) BoothMedia(ctx context.Context, boothID string) ([]model.Booth, error) {
	var items []model.MediaItem
	if err := s.api.Get(ctx, "/booths/booth/"+url.PathEscape(boothID), &items); err != nil {
		return nil, err
	}
	return model.GroupMedia(items), nil
}

// Upload is a media upload request.
type Upload struct {
	MediaType   model.MediaType
	BoothID     string
	Position    int
	FileName    string
	ContentType string
	Body        io.Reader
}

// Upload sends a file to a booth slot.
func (s *MediaService) Upload(ctx context.Context, u Upload) error {
	fields := []apiclient.Field{
		{Name: "MediaType", Value: string(u.MediaType)},
		{Name: "BoothId", Value: u.BoothID},
		{Name: "Position", Value: strconv.Itoa(u.Position)},
	}
	file := apiclient.FilePart{
		Field:       "file",
		FileName:    SafeFileName(u.FileName),
		ContentType: u.ContentType,
		Body:        u.Body,
	}
	return s.api.PostMultipart(ctx, "/admin/upload", fields, file, nil)
}

// Delete removes a media item.
func (s *MediaService) Delete(ctx context.Context, mediaID string) error {
	return s.api.Delete(ctx, "/admin/media/"+url.PathEscape(mediaID), nil)
}

// SafeFileName transliterates name to ASCII and replaces anything outside
// [A-Za-z0-9._-] so object storage keys stay URL friendly.
func SafeFileName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	ext := path.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	clean := func(s string) string {
		var b strings.Builder
		lastDash := false
		for _, r := range unidecode.Unidecode(s) {
			switch {
			case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '.':
				b.WriteRune(r)
				lastDash = false
			default:
				if !lastDash && b.Len() > 0 {
					b.WriteByte('-')
					lastDash = true
				}
			}
		}
		return strings.Trim(b.String(), "-.")
	}

	stem = clean(stem)
	if stem == "" {
		stem = "file"
	}
	ext = strings.ToLower(clean(strings.TrimPrefix(ext, ".")))
	if ext == "" {
		return stem
	}
	return stem + "." + ext
}
