// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
)

// Lifetime is the absolute lifetime of a browser session.
const Lifetime = 24 * time.Hour

// New creates a session manager persisted in the SQLite sessions table.
func New(db *sql.DB, isDev bool) *scs.SessionManager {
	sm := scs.New()
	sm.Store = sqlite3store.New(db)
	sm.Codec = tolerantCodec{}

	sm.Lifetime = Lifetime
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"
	sm.Cookie.Secure = !isDev
	if !isDev {
		sm.Cookie.Name = "__Host-session"
	}

	return sm
}

// tolerantCodec decodes unreadable session blobs as empty sessions instead
// of failing the request, so a corrupted record behaves as "signed out".
type tolerantCodec struct {
	scs.GobCodec
}

func (c tolerantCodec) Decode(b []byte) (time.Time, map[string]interface{}, error) {
	deadline, values, err := c.GobCodec.Decode(b)
	if err != nil {
		slog.Warn("discarding unreadable session", "error", err)
		return time.Now().Add(Lifetime), map[string]interface{}{}, nil
	}
	return deadline, values, nil
}
