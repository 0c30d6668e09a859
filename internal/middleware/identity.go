// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"

	"github.com/virtualspaces/boothadmin/internal/apiclient"
	"github.com/virtualspaces/boothadmin/internal/logging"
	"github.com/virtualspaces/boothadmin/internal/model"
	"github.com/virtualspaces/boothadmin/internal/session"
)

// LoadIdentity adopts the persisted session record for the request. It must
// run after the session manager's LoadAndSave. Downstream handlers find the
// record via session.FromContext and API calls carry its token.
func LoadIdentity(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec, ok := store.Restore(r.Context())
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := session.WithRecord(r.Context(), rec)
			ctx = apiclient.WithToken(ctx, rec.Token)
			ctx = logging.WithUser(ctx, rec.User.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUser returns the signed-in user, or nil when the request is
// unauthenticated.
func GetUser(r *http.Request) *model.User {
	rec, ok := session.FromContext(r.Context())
	if !ok {
		return nil
	}
	u := rec.User
	return &u
}
