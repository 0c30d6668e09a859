// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/virtualspaces/boothadmin/internal/apiclient"
	"github.com/virtualspaces/boothadmin/internal/cache"
	"github.com/virtualspaces/boothadmin/internal/middleware"
	"github.com/virtualspaces/boothadmin/internal/render"
	"github.com/virtualspaces/boothadmin/internal/service"
	"github.com/virtualspaces/boothadmin/internal/session"
	"github.com/virtualspaces/boothadmin/web"
)

const testBoothID = "f17ec1f8-78bd-4553-bf6f-9a139f21aba3"

// fakeAPI is an in-process stand-in for the booth REST API.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	loginStatus  int
	loginMessage string
	failAnalytic bool
	failUpload   bool
	failVisitors bool
	failInteract bool
	media        []map[string]any
	deleted      []string
	uploads      []url.Values
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		calls: make(map[string]int),
		media: []map[string]any{
			{"id": "m1", "fileName": "hero.png", "mediaType": "image", "boothId": testBoothID, "mediaPosition": 1},
			{"id": "m2", "fileName": "brochure.pdf", "mediaType": "PDF", "boothId": testBoothID, "mediaPosition": "2"},
		},
	}
}

func (f *fakeAPI) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) set(fn func(f *fakeAPI)) {
	f.mu.Lock()
	fn(f)
	f.mu.Unlock()
}

func writeTestJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		f.hit("login")
		f.mu.Lock()
		status, msg := f.loginStatus, f.loginMessage
		f.mu.Unlock()
		if status != 0 {
			writeTestJSON(w, status, map[string]string{"message": msg})
			return
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		writeTestJSON(w, http.StatusOK, map[string]any{
			"token": "opaque-token",
			"adminDetails": map[string]string{
				"id": "a1", "username": "admin", "email": body["email"], "role": "admin",
			},
		})
	})

	mux.HandleFunc("POST /auth/register", func(w http.ResponseWriter, r *http.Request) {
		f.hit("register")
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["secretCode"] != "letmein" {
			writeTestJSON(w, http.StatusForbidden, map[string]string{"message": "Invalid secret code"})
			return
		}
		writeTestJSON(w, http.StatusCreated, map[string]any{
			"token": "new-token",
			"user":  map[string]string{"id": "u2", "username": body["username"], "email": body["email"]},
		})
	})

	mux.HandleFunc("GET /admin/{booth}/users/analytics", func(w http.ResponseWriter, r *http.Request) {
		f.hit("analytics")
		f.mu.Lock()
		fail := f.failAnalytic
		f.mu.Unlock()
		if fail {
			writeTestJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
			return
		}
		writeTestJSON(w, http.StatusOK, map[string]any{
			"totalUsers":  4,
			"totalVisits": 10,
			"locationData": []map[string]any{
				{"location": "Toronto", "count": 6},
				{"location": "", "count": 4},
			},
		})
	})

	mux.HandleFunc("GET /admin/{booth}/visitors", func(w http.ResponseWriter, r *http.Request) {
		f.hit("visitors")
		f.mu.Lock()
		fail := f.failVisitors
		f.mu.Unlock()
		if fail {
			writeTestJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
			return
		}
		writeTestJSON(w, http.StatusOK, []map[string]any{
			{"id": "v1-aaaaaaaaaaaa", "username": "ann", "email": "ann@example.com", "location": "Toronto", "visitCount": 3},
			{"id": "v2-bbbbbbbbbbbb", "username": "bob", "email": "bob@example.com", "visitCount": 1},
		})
	})

	mux.HandleFunc("GET /admin/{booth}/visitor/{id}/interactions", func(w http.ResponseWriter, r *http.Request) {
		f.hit("interactions:" + r.PathValue("id"))
		f.mu.Lock()
		fail := f.failInteract
		f.mu.Unlock()
		if fail {
			writeTestJSON(w, http.StatusInternalServerError, map[string]string{"message": "boom"})
			return
		}
		writeTestJSON(w, http.StatusOK, []map[string]any{
			{"id": "i1", "actionElement": "pdf", "actionType": "click", "createdAt": "2026-01-02T10:00:00Z"},
			{"id": "i2", "actionElement": "video", "actionType": "watch", "createdAt": "2026-01-02T11:00:00Z"},
			{"id": "i3", "actionElement": "booth", "actionType": "login", "createdAt": "2026-01-02T12:00:00Z"},
		})
	})

	mux.HandleFunc("GET /booths", func(w http.ResponseWriter, r *http.Request) {
		f.hit("booths")
		writeTestJSON(w, http.StatusOK, []map[string]string{{"id": testBoothID, "name": "Pevonia"}})
	})

	mux.HandleFunc("GET /booths/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.hit("booth")
		writeTestJSON(w, http.StatusOK, map[string]string{"id": r.PathValue("id"), "name": "Pevonia"})
	})

	mux.HandleFunc("GET /booths/booth/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.hit("media")
		f.mu.Lock()
		items := append([]map[string]any{}, f.media...)
		f.mu.Unlock()
		writeTestJSON(w, http.StatusOK, items)
	})

	mux.HandleFunc("POST /admin/upload", func(w http.ResponseWriter, r *http.Request) {
		f.hit("upload")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.failUpload {
			writeTestJSON(w, http.StatusInternalServerError, map[string]string{"message": "storage down"})
			return
		}
		f.uploads = append(f.uploads, r.MultipartForm.Value)
		w.WriteHeader(http.StatusCreated)
	})

	mux.HandleFunc("DELETE /admin/media/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.hit("delete")
		id := r.PathValue("id")
		f.mu.Lock()
		defer f.mu.Unlock()
		f.deleted = append(f.deleted, id)
		kept := f.media[:0]
		for _, m := range f.media {
			if m["id"] != id {
				kept = append(kept, m)
			}
		}
		f.media = kept
		w.WriteHeader(http.StatusNoContent)
	})

	return mux
}

// harness runs the dashboard routes against a fakeAPI.
type harness struct {
	t      *testing.T
	api    *fakeAPI
	server *httptest.Server
	client *http.Client
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	api := newFakeAPI()
	upstream := httptest.NewServer(api.handler())
	t.Cleanup(upstream.Close)

	client, err := apiclient.New(apiclient.Config{BaseURL: upstream.URL})
	require.NoError(t, err)

	sm := scs.New()
	sm.Store = memstore.New()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		MediaBase:      "https://media.example.com/booth/",
	})
	require.NoError(t, err)

	views := cache.NewMemoryCache(cache.MemoryOptions{})
	t.Cleanup(func() { _ = views.Close() })

	media := service.NewMediaService(client)
	visitors := service.NewVisitorService(client)
	store := session.NewStore(sm, service.NewAuthService(client))

	shell := NewShell(ShellConfig{
		Renderer:  renderer,
		Sessions:  sm,
		Media:     media,
		Views:     views,
		BoothID:   testBoothID,
		BoothName: "Fallback Booth",
	})
	auth := NewAuthHandler(renderer, store, shell, middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig()))
	analytics := NewAnalyticsHandler(shell, visitors, nil)
	customize := NewCustomizeHandler(shell, media, nil, "")
	users := NewUsersHandler(shell, visitors)

	r := chi.NewRouter()
	Pages{Auth: auth, Analytics: analytics, Customize: customize, Users: users}.Mount(r, chi.Chain(
		sm.LoadAndSave,
		middleware.LoadIdentity(store),
		middleware.Guard(GuardRoutes()),
	))

	server := httptest.NewServer(r)
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)

	return &harness{
		t:      t,
		api:    api,
		server: server,
		client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// response is a fully read reply.
type response struct {
	Status   int
	Location string
	Body     string
}

func (h *harness) do(req *http.Request) response {
	h.t.Helper()
	resp, err := h.client.Do(req)
	require.NoError(h.t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(h.t, err)
	return response{Status: resp.StatusCode, Location: resp.Header.Get("Location"), Body: string(body)}
}

func (h *harness) get(path string) response {
	h.t.Helper()
	req, err := http.NewRequest(http.MethodGet, h.server.URL+path, nil)
	require.NoError(h.t, err)
	return h.do(req)
}

func (h *harness) post(path string, form url.Values) response {
	h.t.Helper()
	req, err := http.NewRequest(http.MethodPost, h.server.URL+path, strings.NewReader(form.Encode()))
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req)
}

func (h *harness) postMultipart(path string, fields map[string]string, fileName string, content []byte) response {
	h.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(h.t, mw.WriteField(k, v))
	}
	if fileName != "" {
		part, err := mw.CreateFormFile("file", fileName)
		require.NoError(h.t, err)
		_, err = part.Write(content)
		require.NoError(h.t, err)
	}
	require.NoError(h.t, mw.Close())

	req, err := http.NewRequest(http.MethodPost, h.server.URL+path, &buf)
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return h.do(req)
}

// signIn logs the harness client in and checks it lands on the dashboard.
func (h *harness) signIn() {
	h.t.Helper()
	resp := h.post(RouteLogin, url.Values{"email": {"admin@example.com"}, "password": {"secret1"}})
	require.Equal(h.t, http.StatusSeeOther, resp.Status, resp.Body)
	require.Equal(h.t, RouteAnalytics, resp.Location)
}
