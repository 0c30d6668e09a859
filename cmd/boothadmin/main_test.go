// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/virtualspaces/boothadmin/internal/middleware"
	"github.com/virtualspaces/boothadmin/internal/scheduler"
	"github.com/virtualspaces/boothadmin/internal/store"
)

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestPrepare(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	newProbe := func() *scheduler.Probe {
		return scheduler.NewProbe(pingerFunc(func(context.Context) error { return nil }), 0, logger)
	}

	t.Run("opens the gate after migrations", func(t *testing.T) {
		db, err := store.NewDB(filepath.Join(t.TempDir(), "sessions.db"))
		require.NoError(t, err)
		t.Cleanup(func() { _ = db.Close() })

		readiness := middleware.NewReadiness(http.NotFoundHandler())
		probe := newProbe()
		require.NoError(t, prepare(context.Background(), db, probe, readiness))
		assert.True(t, readiness.Ready())
		assert.True(t, probe.Status().Checked)
	})

	t.Run("reports migration failure", func(t *testing.T) {
		db, err := store.NewDB(filepath.Join(t.TempDir(), "sessions.db"))
		require.NoError(t, err)
		require.NoError(t, db.Close())

		readiness := middleware.NewReadiness(http.NotFoundHandler())
		err = prepare(context.Background(), db, newProbe(), readiness)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "running migrations")
		assert.False(t, readiness.Ready())
	})
}
