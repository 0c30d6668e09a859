// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func TestRequestHandlerAddsContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo, false)

	ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "req-42")
	ctx = WithUser(ctx, "admin@example.com")
	logger.InfoContext(ctx, "tab loaded", "tab", "users")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("invalid JSON output %q: %v", buf.String(), err)
	}
	if rec["request_id"] != "req-42" {
		t.Errorf("request_id = %v", rec["request_id"])
	}
	if rec["user"] != "admin@example.com" {
		t.Errorf("user = %v", rec["user"])
	}
	if rec["tab"] != "users" {
		t.Errorf("tab = %v", rec["tab"])
	}
}

func TestRequestHandlerWithoutContext(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, slog.LevelInfo, true).With("component", "probe")

	logger.Info("ping")
	out := buf.String()
	if strings.Contains(out, "request_id") {
		t.Errorf("unexpected request_id in %q", out)
	}
	if !strings.Contains(out, "component=probe") {
		t.Errorf("WithAttrs lost: %q", out)
	}

	buf.Reset()
	logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug should be filtered at info: %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}
