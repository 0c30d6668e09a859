// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/virtualspaces/boothadmin/internal/model"
)

// minPasswordLength applies to registration only; sign-in accepts whatever
// the server accepts.
const minPasswordLength = 6

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// FieldErrors maps a form field name to its validation message.
type FieldErrors map[string]string

// Add records msg for field unless the field already has an error.
func (e FieldErrors) Add(field, msg string) {
	if _, ok := e[field]; !ok {
		e[field] = msg
	}
}

// Any reports whether at least one field failed.
func (e FieldErrors) Any() bool {
	return len(e) > 0
}

func validateEmail(errs FieldErrors, email string) {
	switch {
	case email == "":
		errs.Add("email", "Email is required")
	case !emailPattern.MatchString(email):
		errs.Add("email", "Email is invalid")
	}
}

// loginForm is the sign-in form as submitted.
type loginForm struct {
	Email    string
	Password string
}

func (f loginForm) validate() FieldErrors {
	errs := FieldErrors{}
	validateEmail(errs, f.Email)
	if f.Password == "" {
		errs.Add("password", "Password is required")
	}
	return errs
}

// registerForm is the registration form as submitted.
type registerForm struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
	SecretCode      string
}

func (f registerForm) validate() FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(f.Username) == "" {
		errs.Add("username", "Username is required")
	}
	validateEmail(errs, f.Email)
	switch {
	case f.Password == "":
		errs.Add("password", "Password is required")
	case len(f.Password) < minPasswordLength:
		errs.Add("password", "Password must be at least 6 characters")
	}
	if f.Password != f.ConfirmPassword {
		errs.Add("confirmPassword", "Passwords do not match")
	}
	if strings.TrimSpace(f.SecretCode) == "" {
		errs.Add("secretCode", "Secret code is required")
	}
	return errs
}

// uploadForm is the media upload form as submitted, before the file part.
type uploadForm struct {
	BoothID   string
	MediaType string
	Position  string
	HasFile   bool
}

// validate checks the form against the slot limits of the media type and
// returns the parsed type and position.
func (f uploadForm) validate() (model.MediaType, int, FieldErrors) {
	errs := FieldErrors{}
	if !f.HasFile || f.BoothID == "" || strings.TrimSpace(f.Position) == "" {
		errs.Add("form", msgUploadMissing)
	}

	t, ok := model.ParseMediaType(f.MediaType)
	if !ok {
		errs.Add("mediaType", "Media type is invalid")
		return t, 0, errs
	}

	pos, err := strconv.Atoi(strings.TrimSpace(f.Position))
	if f.Position != "" && (err != nil || !t.ValidPosition(pos)) {
		errs.Add("position", "Position must be between 1 and "+strconv.Itoa(t.MaxPositions())+" for "+t.PluralLabel())
	}
	return t, pos, errs
}
