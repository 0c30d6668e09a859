// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package handler provides HTTP handlers for the booth dashboard.
package handler

// Route paths.
const (
	RouteLogin        = "/auth/login"
	RouteRegister     = "/auth/register"
	RouteAnalytics    = "/dashboard/analytics"
	RouteCustomize    = "/dashboard/customize"
	RouteUpload       = "/dashboard/customize/upload"
	RouteMediaDelete  = "/dashboard/customize/media/{id}/delete"
	RouteUsers        = "/dashboard/users"
	RouteUsersSelect  = "/dashboard/users/select"
	RouteLogout       = "/dashboard/logout"
	RouteHealth       = "/health"
	RouteHealthLive   = "/health/live"
	RouteHealthReady  = "/health/ready"
	RouteStaticPrefix = "/static/"
)

// Dashboard tab names.
const (
	TabAnalytics = "analytics"
	TabCustomize = "customize"
	TabUsers     = "users"
)

// Query parameters.
const (
	// paramKeep marks a local transition: the tab reuses its loaded data.
	paramKeep     = "keep"
	paramQuery    = "q"
	paramCategory = "category"
	paramDetails  = "details"
	paramBooth    = "booth"
	paramType     = "type"
)

// User-visible messages.
const (
	msgLoginFailed        = "Invalid email or password"
	msgRegisterFailed     = "Registration failed. Please check your information."
	msgSignInBusy         = "A sign-in is already in progress. Please wait."
	msgSignedOut          = "You have been signed out."
	msgAnalyticsFailed    = "Failed to load analytics data"
	msgBoothsFailed       = "Failed to load booth data"
	msgUsersFailed        = "Failed to load user data"
	msgInteractionsFailed = "Failed to load user interactions"
	msgUploadMissing      = "Please select a file, booth, and position"
	msgUploadSuccess      = "Media uploaded successfully!"
	msgUploadFailed       = "Failed to upload media"
	msgDeleteSuccess      = "Media deleted successfully!"
	msgDeleteFailed       = "Failed to delete media"
	msgMediaNotFound      = "Media not found"
	msgInvalidForm        = "Invalid form data"
)

// maxUploadSize caps the multipart body accepted by the upload form.
const maxUploadSize = 100 << 20
