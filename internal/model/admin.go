// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the records exchanged with the booth API and the
// pure helpers the dashboard derives from them: media grouping, interaction
// classification, analytics math and relative times.
package model

import "strings"

// RoleAdmin is the role carried by booth administrators.
const RoleAdmin = "admin"

// User is the authenticated administrator as reported by the API.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// IsZero reports whether the record carries no identity.
func (u User) IsZero() bool {
	return u.ID == "" && u.Email == "" && u.Username == ""
}

// DisplayName returns the username, falling back to the email address.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}

// Initial returns the upper-cased first letter of the display name.
func (u User) Initial() string {
	name := u.DisplayName()
	if name == "" {
		return "?"
	}
	return strings.ToUpper(string([]rune(name)[:1]))
}

// LoginCredentials is the body of POST /auth/login.
type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterCredentials is the body of POST /auth/register.
type RegisterCredentials struct {
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	SecretCode string `json:"secretCode"`
}

// AuthResponse covers both login ({adminDetails, token}) and register
// ({user, token}) payloads.
type AuthResponse struct {
	Token        string `json:"token"`
	AdminDetails *User  `json:"adminDetails,omitempty"`
	User         *User  `json:"user,omitempty"`
}

// Identity returns whichever user record the response carried.
func (r AuthResponse) Identity() (User, bool) {
	switch {
	case r.AdminDetails != nil && !r.AdminDetails.IsZero():
		return *r.AdminDetails, true
	case r.User != nil && !r.User.IsZero():
		return *r.User, true
	}
	return User{}, false
}
