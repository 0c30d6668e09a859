// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package resource implements the fetch-and-render lifecycle shared by the
// dashboard tabs: a resource is Idle, Loading, Loaded or Failed, and the
// status alone decides what a tab renders.
package resource

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/virtualspaces/boothadmin/internal/cache"
)

// Status is the lifecycle position of a resource.
type Status int

// Lifecycle states.
const (
	Idle Status = iota
	Loading
	Loaded
	Failed
)

var statusNames = [...]string{"idle", "loading", "loaded", "failed"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(b []byte) error {
	for i, name := range statusNames {
		if string(b) == name {
			*s = Status(i)
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", b)
}

// View is what a tab renders for a state.
type View string

// Render outcomes.
const (
	ViewSpinner View = "spinner"
	ViewError   View = "error"
	ViewEmpty   View = "empty"
	ViewData    View = "data"
)

// State is a snapshot of a resource.
type State[T any] struct {
	Status    Status    `json:"status"`
	Data      T         `json:"data"`
	Err       string    `json:"error,omitempty"`
	StartedAt time.Time `json:"startedAt"`
}

// View applies the render rule: spinner until loaded, the error banner on
// failure, the empty state when isEmpty reports no data, the data otherwise.
func (s State[T]) View(isEmpty func(T) bool) View {
	switch s.Status {
	case Loaded:
		if isEmpty != nil && isEmpty(s.Data) {
			return ViewEmpty
		}
		return ViewData
	case Failed:
		return ViewError
	}
	return ViewSpinner
}

// Fetcher retrieves a resource. The context carries the caller's token.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Fetch runs fn once and returns Loaded or Failed. The failure carries the
// user-visible message, the cause is logged.
func Fetch[T any](ctx context.Context, name, failMessage string, fn Fetcher[T]) State[T] {
	data, err := fn(ctx)
	if err != nil {
		slog.Error("fetch failed", "resource", name, "error", err)
		return State[T]{Status: Failed, Err: failMessage}
	}
	return State[T]{Status: Loaded, Data: data}
}

// Loader keeps one State per session key in the view-state cache.
type Loader[T any] struct {
	name        string
	failMessage string
	fetch       Fetcher[T]
	states      *cache.Typed[State[T]]
	staleAfter  time.Duration
	now         func() time.Time
}

// LoaderConfig configures a Loader.
type LoaderConfig[T any] struct {
	Name        string
	FailMessage string
	Fetch       Fetcher[T]
	Cache       cache.Cacher
	TTL         time.Duration
	StaleAfter  time.Duration // a Loading entry older than this counts as absent
}

// NewLoader creates a Loader.
func NewLoader[T any](cfg LoaderConfig[T]) *Loader[T] {
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = time.Minute
	}
	return &Loader[T]{
		name:        cfg.Name,
		failMessage: cfg.FailMessage,
		fetch:       cfg.Fetch,
		states:      cache.NewTyped[State[T]](cfg.Cache, cfg.Name, cfg.TTL),
		staleAfter:  cfg.StaleAfter,
		now:         time.Now,
	}
}

// Peek returns the stored state without fetching. Absent or stale entries
// are Idle.
func (l *Loader[T]) Peek(ctx context.Context, key string) State[T] {
	st, ok := l.states.Get(ctx, key)
	if !ok {
		return State[T]{Status: Idle}
	}
	if st.Status == Loading && l.now().Sub(st.StartedAt) > l.staleAfter {
		return State[T]{Status: Idle}
	}
	return st
}

// Load fetches unconditionally, recording Loading first.
func (l *Loader[T]) Load(ctx context.Context, key string) State[T] {
	l.store(ctx, key, State[T]{Status: Loading, StartedAt: l.now()})
	st := Fetch(ctx, l.name, l.failMessage, l.fetch)
	l.store(ctx, key, st)
	return st
}

// Ensure returns the stored state, loading only when none exists.
func (l *Loader[T]) Ensure(ctx context.Context, key string) State[T] {
	if st := l.Peek(ctx, key); st.Status != Idle {
		return st
	}
	return l.Load(ctx, key)
}

// Invalidate drops the stored state.
func (l *Loader[T]) Invalidate(ctx context.Context, key string) {
	if err := l.states.Delete(ctx, key); err != nil {
		slog.Warn("dropping view state failed", "resource", l.name, "error", err)
	}
}

func (l *Loader[T]) store(ctx context.Context, key string, st State[T]) {
	if err := l.states.Set(ctx, key, st); err != nil {
		slog.Warn("saving view state failed", "resource", l.name, "error", err)
	}
}
