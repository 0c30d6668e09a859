// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNew(t *testing.T) {
	logger := discardLogger()
	s := New(logger)
	if s.cron == nil {
		t.Error("New() scheduler has nil cron")
	}
	if s.logger != logger {
		t.Error("New() scheduler has wrong logger")
	}
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		spec    string
		wantErr bool
	}{
		{"@every 1m", false},
		{"*/5 * * * *", false},
		{"@hourly", false},
		{"", true},
		{"every minute", true},
		{"* * *", true},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			if err := ValidateSchedule(tt.spec); (err != nil) != tt.wantErr {
				t.Errorf("ValidateSchedule(%q) error = %v, wantErr %v", tt.spec, err, tt.wantErr)
			}
		})
	}
}

func TestScheduler_AddStartStop(t *testing.T) {
	s := New(discardLogger())

	if err := s.Add("probe", "@every 1m", func() {}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := s.Add("probe", "@every 1m", func() {}); err == nil {
		t.Error("duplicate name should be rejected")
	}
	if err := s.Add("bad", "nope", func() {}); err == nil {
		t.Error("invalid schedule should be rejected")
	}
	if s.Jobs() != 1 {
		t.Errorf("Jobs() = %d, want 1", s.Jobs())
	}

	s.Start()
	s.Stop()
}

type fakePinger struct{ err error }

func (f *fakePinger) Ping(context.Context) error { return f.err }

func TestProbe(t *testing.T) {
	pinger := &fakePinger{}
	p := NewProbe(pinger, 0, discardLogger())

	if st := p.Status(); st.Checked {
		t.Fatal("status should be unchecked before the first run")
	}

	st := p.Check(context.Background())
	if !st.Checked || !st.Healthy || st.Error != "" {
		t.Errorf("healthy check = %+v", st)
	}

	pinger.err = errors.New("connection refused")
	p.Check(context.Background())
	st = p.Status()
	if st.Healthy || st.Error != "connection refused" {
		t.Errorf("failed check = %+v", st)
	}
}
