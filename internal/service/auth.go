// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service wraps the booth API endpoints in typed operations used by
// the session store and the dashboard tabs.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/virtualspaces/boothadmin/internal/apiclient"
	"github.com/virtualspaces/boothadmin/internal/model"
)

// ErrNoToken is returned when an auth response carries no token.
var ErrNoToken = errors.New("auth response has no token")

// AuthService covers the /auth endpoints.
type AuthService struct {
	api *apiclient.Client
}

// NewAuthService creates an AuthService.
func NewAuthService(api *apiclient.Client) *AuthService {
	return &AuthService{api: api}
}

// Login exchanges credentials for a token and the admin record.
func (s *AuthService) Login(ctx context.Context, creds model.LoginCredentials) (string, model.User, error) {
	var resp model.AuthResponse
	if err := s.api.Post(ctx, "/auth/login", creds, &resp); err != nil {
		return "", model.User{}, err
	}
	return s.complete(ctx, resp)
}

// Register creates an admin account and signs it in.
func (s *AuthService) Register(ctx context.Context, creds model.RegisterCredentials) (string, model.User, error) {
	var resp model.AuthResponse
	if err := s.api.Post(ctx, "/auth/register", creds, &resp); err != nil {
		return "", model.User{}, err
	}
	return s.complete(ctx, resp)
}

// Me returns the user the token in ctx belongs to.
func (s *AuthService) Me(ctx context.Context) (model.User, error) {
	var user model.User
	if err := s.api.Get(ctx, "/auth/me", &user); err != nil {
		return model.User{}, err
	}
	return user, nil
}

// complete resolves the identity of an auth response, asking /auth/me when
// the payload only carried a token.
func (s *AuthService) complete(ctx context.Context, resp model.AuthResponse) (string, model.User, error) {
	if resp.Token == "" {
		return "", model.User{}, ErrNoToken
	}
	if user, ok := resp.Identity(); ok {
		return resp.Token, user, nil
	}
	user, err := s.Me(apiclient.WithToken(ctx, resp.Token))
	if err != nil {
		return "", model.User{}, fmt.Errorf("resolving user: %w", err)
	}
	return resp.Token, user, nil
}
