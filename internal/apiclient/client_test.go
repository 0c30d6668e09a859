// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(Config{BaseURL: srv.URL + "/", UserAgent: "boothadmin/test"})
	require.NoError(t, err)
	return c
}

func TestNewRequiresBaseURL(t *testing.T) {
	_, err := New(Config{})
	assert.Error(t, err)
}

func TestGetAttachesTokenAndDecodes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/booths", r.URL.Path)
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		assert.Equal(t, "boothadmin/test", r.Header.Get("User-Agent"))
		_ = json.NewEncoder(w).Encode([]map[string]string{{"id": "b1"}})
	})

	var out []struct {
		ID string `json:"id"`
	}
	err := c.Get(WithToken(context.Background(), "tok-1"), "/booths", &out)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "b1", out[0].ID)
}

func TestNoTokenNoAuthorizationHeader(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, c.Delete(context.Background(), "/admin/media/1", nil))
}

func TestPostSendsJSON(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.co", body["email"])
		_, _ = w.Write([]byte(`{"token":"t"}`))
	})

	var out struct {
		Token string `json:"token"`
	}
	require.NoError(t, c.Post(context.Background(), "/auth/login", map[string]string{"email": "a@b.co"}, &out))
	assert.Equal(t, "t", out.Token)
}

func TestErrorMessagePassthrough(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"message field", `{"message":"Invalid credentials"}`, "Invalid credentials"},
		{"error field", `{"error":"Secret code is wrong"}`, "Secret code is wrong"},
		{"plain text", "upstream exploded\n", "upstream exploded"},
		{"markup stripped", `{"message":"<b>Bad</b> & wrong"}`, "Bad & wrong"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, tt.body)
			})
			err := c.Get(context.Background(), "/auth/me", nil)
			require.Error(t, err)
			assert.Equal(t, tt.want, ServerMessage(err))
			assert.True(t, IsStatus(err, http.StatusUnauthorized))
		})
	}
}

func TestErrorMessageTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("é", maxMessageRunes+50)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "x" + long})
	})

	err := c.Get(context.Background(), "/booths", nil)
	require.Error(t, err)
	msg := ServerMessage(err)
	assert.True(t, utf8.ValidString(msg))
	assert.Equal(t, maxMessageRunes, utf8.RuneCountInString(msg))
	assert.Equal(t, "x"+strings.Repeat("é", maxMessageRunes-1), msg)
}

func TestPostMultipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "PDF", r.FormValue("MediaType"))
		assert.Equal(t, "b1", r.FormValue("BoothId"))
		assert.Equal(t, "2", r.FormValue("Position"))
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer func() { _ = f.Close() }()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "brochure.pdf", hdr.Filename)
		assert.Equal(t, "%PDF-1.4", string(data))
		w.WriteHeader(http.StatusCreated)
	})

	err := c.PostMultipart(context.Background(), "/admin/upload",
		[]Field{{"MediaType", "PDF"}, {"BoothId", "b1"}, {"Position", "2"}},
		FilePart{Field: "file", FileName: "brochure.pdf", ContentType: "application/pdf", Body: strings.NewReader("%PDF-1.4")},
		nil)
	require.NoError(t, err)
}

func TestPing(t *testing.T) {
	ok := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	assert.NoError(t, ok.Ping(context.Background()))

	down := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	assert.Error(t, down.Ping(context.Background()))
}
