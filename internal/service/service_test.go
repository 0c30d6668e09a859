// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtualspaces/boothadmin/internal/apiclient"
	"github.com/virtualspaces/boothadmin/internal/model"
)

func newAPI(t *testing.T, mux *http.ServeMux) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	api, err := apiclient.New(apiclient.Config{BaseURL: srv.URL})
	require.NoError(t, err)
	return api
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func TestAuthLoginAdminDetails(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds model.LoginCredentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		assert.Equal(t, "admin@example.com", creds.Email)
		writeJSON(w, map[string]any{
			"token":        "tok",
			"adminDetails": map[string]string{"id": "a1", "username": "admin", "email": creds.Email, "role": "admin"},
		})
	})
	svc := NewAuthService(newAPI(t, mux))

	token, user, err := svc.Login(context.Background(), model.LoginCredentials{Email: "admin@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "tok", token)
	assert.Equal(t, "a1", user.ID)
	assert.Equal(t, model.RoleAdmin, user.Role)
}

func TestAuthRegisterFallsBackToMe(t *testing.T) {
	var meCalls atomic.Int32
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"token": "new-token"})
	})
	mux.HandleFunc("GET /auth/me", func(w http.ResponseWriter, r *http.Request) {
		meCalls.Add(1)
		assert.Equal(t, "Bearer new-token", r.Header.Get("Authorization"))
		writeJSON(w, map[string]string{"id": "u9", "username": "neo", "email": "neo@example.com"})
	})
	svc := NewAuthService(newAPI(t, mux))

	token, user, err := svc.Register(context.Background(), model.RegisterCredentials{Username: "neo", SecretCode: "x"})
	require.NoError(t, err)
	assert.Equal(t, "new-token", token)
	assert.Equal(t, "u9", user.ID)
	assert.EqualValues(t, 1, meCalls.Load())
}

func TestAuthLoginFailureAndMissingToken(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		writeJSON(w, map[string]string{"message": "Invalid credentials"})
	})
	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"user": map[string]string{"id": "u1"}})
	})
	svc := NewAuthService(newAPI(t, mux))

	_, _, err := svc.Login(context.Background(), model.LoginCredentials{})
	require.Error(t, err)
	assert.Equal(t, "Invalid credentials", apiclient.ServerMessage(err))

	_, _, err = svc.Register(context.Background(), model.RegisterCredentials{})
	assert.ErrorIs(t, err, ErrNoToken)
}

func TestMediaBoothMediaGroups(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /booths/booth/b1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
			{"id":"m1","fileName":"a.png","mediaType":"IMAGE","boothId":"b1","mediaPosition":1},
			{"id":"m2","fileName":"b.pdf","mediaType":"pdf","boothId":"b1","mediaPosition":"2"}
		]`)
	})
	svc := NewMediaService(newAPI(t, mux))

	booths, err := svc.BoothMedia(context.Background(), "b1")
	require.NoError(t, err)
	require.Len(t, booths, 1)
	assert.Len(t, booths[0].Items(model.MediaImage), 1)
	assert.Len(t, booths[0].Items(model.MediaPDF), 1)
	assert.Equal(t, 2, booths[0].Items(model.MediaPDF)[0].Position)
}

func TestMediaBoothsDirectory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /booths", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []map[string]string{{"id": "b1", "name": "Pevonia"}})
	})
	mux.HandleFunc("GET /booths/b1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"id": "b1", "name": "Pevonia"})
	})
	svc := NewMediaService(newAPI(t, mux))

	list, err := svc.Booths(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.BoothSummary{{ID: "b1", Name: "Pevonia"}}, list)

	one, err := svc.Booth(context.Background(), "b1")
	require.NoError(t, err)
	assert.Equal(t, "Pevonia", one.Name)
}

func TestMediaUploadAndDelete(t *testing.T) {
	var deleted string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /admin/upload", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "VIDEO", r.FormValue("MediaType"))
		assert.Equal(t, "3", r.FormValue("Position"))
		_, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		assert.Equal(t, "Demo-reel.mp4", hdr.Filename)
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("DELETE /admin/media/{id}", func(w http.ResponseWriter, r *http.Request) {
		deleted = r.PathValue("id")
		w.WriteHeader(http.StatusNoContent)
	})
	svc := NewMediaService(newAPI(t, mux))

	err := svc.Upload(context.Background(), Upload{
		MediaType: model.MediaVideo,
		BoothID:   "b1",
		Position:  3,
		FileName:  "Démo reel.MP4",
		Body:      strings.NewReader("data"),
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), "m7"))
	assert.Equal(t, "m7", deleted)
}

func TestSafeFileName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"photo.png", "photo.png"},
		{"Résumé final (v2).PDF", "Resume-final-v2.pdf"},
		{`C:\Users\me\logo.svg`, "logo.svg"},
		{"", "file"},
		{"***", "file"},
	}

	for _, tt := range tests {
		if got := SafeFileName(tt.in); got != tt.want {
			t.Errorf("SafeFileName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestVisitorEndpoints(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /admin/b1/visitors", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"v1","username":"alice","visitCount":2,"createdAt":"2025-05-16T10:08:04.87774074"}]`)
	})
	mux.HandleFunc("GET /admin/b1/users/analytics", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, model.Analytics{TotalUsers: 2, TotalVisits: 5, LocationData: []model.LocationCount{{Location: "Paris", Count: 5}}})
	})
	mux.HandleFunc("GET /admin/b1/visitor/v1/interactions", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"i1","actionType":"login","createdAt":"2025-05-16T10:09:00Z"}]`)
	})
	svc := NewVisitorService(newAPI(t, mux))
	ctx := context.Background()

	visitors, err := svc.Visitors(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, visitors, 1)
	assert.Equal(t, 2, visitors[0].VisitCount)

	analytics, err := svc.Analytics(ctx, "b1")
	require.NoError(t, err)
	assert.Equal(t, "2.50", analytics.AverageVisits())

	interactions, err := svc.Interactions(ctx, "b1", "v1")
	require.NoError(t, err)
	require.Len(t, interactions, 1)
	assert.Equal(t, "Logged in", model.DescribeInteraction(interactions[0]))
}
