// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"net/url"

	"github.com/virtualspaces/boothadmin/internal/apiclient"
	"github.com/virtualspaces/boothadmin/internal/model"
)

// VisitorService covers the per-booth visitor endpoints.
type VisitorService struct {
	api *apiclient.Client
}

// NewVisitorService creates a VisitorService.
func NewVisitorService(api *apiclient.Client) *VisitorService {
	return &VisitorService{api: api}
}

// Visitors lists the booth's visitors.
func (s *VisitorService) Visitors(ctx context.Context, boothID string) ([]model.Visitor, error) {
	var visitors []model.Visitor
	if err := s.api.Get(ctx, "/admin/"+url.PathEscape(boothID)+"/visitors", &visitors); err != nil {
		return nil, err
	}
	return visitors, nil
}

// Analytics returns the booth's visit aggregate.
func (s *VisitorService) Analytics(ctx context.Context, boothID string) (model.Analytics, error) {
	var analytics model.Analytics
	if err := s.api.Get(ctx, "/admin/"+url.PathEscape(boothID)+"/users/analytics", &analytics); err != nil {
		return model.Analytics{}, err
	}
	return analytics, nil
}

// Interactions lists one visitor's interactions at the booth.
func (s *VisitorService) Interactions(ctx context.Context, boothID, visitorID string) ([]model.Interaction, error) {
	var interactions []model.Interaction
	p := "/admin/" + url.PathEscape(boothID) + "/visitor/" + url.PathEscape(visitorID) + "/interactions"
	if err := s.api.Get(ctx, p, &interactions); err != nil {
		return nil, err
	}
	return interactions, nil
}
