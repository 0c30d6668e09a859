// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session holds the authenticated identity of each browser session.
//
// The token and the user record travel together as one Record stored under a
// single session key, so a session either has both or neither. The Store is
// created once at startup and injected wherever the identity is needed.
package session

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/golang-jwt/jwt/v4"

	"github.com/virtualspaces/boothadmin/internal/model"
)

// recordKey is the session key of the persisted Record.
const recordKey = "auth.record"

// Errors returned by Store operations.
var (
	ErrInFlight      = errors.New("session: sign-in already in progress")
	ErrMissingSecret = errors.New("session: registration requires a secret code")
)

// Record is the persisted identity of a signed-in administrator.
type Record struct {
	Token string
	User  model.User
}

func init() {
	gob.Register(Record{})
}

// usable reports whether the record can be adopted at now. A JWT whose exp
// claim has passed is not usable; opaque tokens are accepted as they are.
func (r Record) usable(now time.Time) bool {
	if strings.TrimSpace(r.Token) == "" || r.User.IsZero() {
		return false
	}
	exp, ok := tokenExpiry(r.Token)
	return !ok || now.Before(exp)
}

// tokenExpiry reads the exp claim of a JWT without verifying its signature.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(int64(exp), 0), true
}

// Authenticator performs the remote credential exchange.
type Authenticator interface {
	Login(ctx context.Context, creds model.LoginCredentials) (string, model.User, error)
	Register(ctx context.Context, creds model.RegisterCredentials) (string, model.User, error)
}

// Store reads and writes the session identity.
type Store struct {
	sm   *scs.SessionManager
	auth Authenticator
	now  func() time.Time

	mu       sync.Mutex
	inflight map[string]struct{}
}

// NewStore creates a Store.
func NewStore(sm *scs.SessionManager, auth Authenticator) *Store {
	return &Store{
		sm:       sm,
		auth:     auth,
		now:      time.Now,
		inflight: make(map[string]struct{}),
	}
}

// Manager returns the underlying session manager.
func (s *Store) Manager() *scs.SessionManager {
	return s.sm
}

// Restore adopts the persisted record of the session in ctx without any
// network call. Unusable records (malformed, incomplete or expired) are
// removed and the session is treated as signed out.
func (s *Store) Restore(ctx context.Context) (Record, bool) {
	v := s.sm.Get(ctx, recordKey)
	if v == nil {
		return Record{}, false
	}

	rec, ok := v.(Record)
	if !ok || !rec.usable(s.now()) {
		s.sm.Remove(ctx, recordKey)
		slog.Info("cleared stale session record", "malformed", !ok)
		return Record{}, false
	}
	return rec, true
}

// Busy reports whether a sign-in is in flight for the session in ctx.
func (s *Store) Busy(ctx context.Context) bool {
	key := s.sm.Token(ctx)
	if key == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, busy := s.inflight[key]
	return busy
}

// Login authenticates against the API and, on success, persists token and
// user together. On failure the session is left untouched.
func (s *Store) Login(ctx context.Context, creds model.LoginCredentials) (model.User, error) {
	return s.signIn(ctx, func() (string, model.User, error) {
		return s.auth.Login(ctx, creds)
	})
}

// Register creates an account and signs it in with the same contract as
// Login.
func (s *Store) Register(ctx context.Context, creds model.RegisterCredentials) (model.User, error) {
	if strings.TrimSpace(creds.SecretCode) == "" {
		return model.User{}, ErrMissingSecret
	}
	return s.signIn(ctx, func() (string, model.User, error) {
		return s.auth.Register(ctx, creds)
	})
}

func (s *Store) signIn(ctx context.Context, exchange func() (string, model.User, error)) (model.User, error) {
	release, err := s.begin(ctx)
	if err != nil {
		return model.User{}, err
	}
	defer release()

	token, user, err := exchange()
	if err != nil {
		return model.User{}, err
	}

	if err := s.sm.RenewToken(ctx); err != nil {
		return model.User{}, fmt.Errorf("renewing session token: %w", err)
	}
	s.sm.Put(ctx, recordKey, Record{Token: token, User: user})
	return user, nil
}

// begin marks a sign-in in flight for the session. Requests without a
// session cookie cannot share state, so they are never blocked.
func (s *Store) begin(ctx context.Context) (func(), error) {
	key := s.sm.Token(ctx)
	if key == "" {
		return func() {}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return nil, ErrInFlight
	}
	s.inflight[key] = struct{}{}

	return func() {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
	}, nil
}

// Logout removes the record and destroys the session. No request is made
// to the API.
func (s *Store) Logout(ctx context.Context) error {
	s.sm.Remove(ctx, recordKey)
	if err := s.sm.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

type recordCtxKey struct{}

// WithRecord stores the adopted record in ctx.
func WithRecord(ctx context.Context, rec Record) context.Context {
	return context.WithValue(ctx, recordCtxKey{}, rec)
}

// FromContext returns the record adopted for the current request.
func FromContext(ctx context.Context) (Record, bool) {
	rec, ok := ctx.Value(recordCtxKey{}).(Record)
	return rec, ok
}
