// Narcomap - Community Hazard Mapping and Moderation
// Copyright 2026 Narcomap contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/narcomap/narcomap

package logging

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zerolog.Level{
		"trace":   zerolog.TraceLevel,
		"debug":   zerolog.DebugLevel,
		"info":    zerolog.InfoLevel,
		"":        zerolog.InfoLevel,
		"warn":    zerolog.WarnLevel,
		"WARNING": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"fatal":   zerolog.FatalLevel,
		"bogus":   zerolog.InfoLevel,
		" Info ":  zerolog.InfoLevel,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewLoggerRespectsLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := newLogger(Config{Level: "warn"}, &buf)

	l.Info().Msg("dropped")
	l.Warn().Msg("kept")

	out := buf.String()
	if strings.Contains(out, "dropped") {
		t.Error("info event leaked past warn level")
	}
	if !strings.Contains(out, "kept") {
		t.Error("warn event missing")
	}
}

func TestTestLoggerEmitsJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	l := NewTestLogger(&buf)
	l.Info().Str("marker_id", "m1").Msg("created")

	var event map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if event["marker_id"] != "m1" || event["message"] != "created" {
		t.Errorf("unexpected event: %v", event)
	}
	if _, ok := event["time"]; !ok {
		t.Error("expected timestamp field")
	}
}

func TestCtxEnrichment(t *testing.T) {
	var buf bytes.Buffer
	old := Logger()
	SetLogger(NewTestLogger(&buf))
	defer SetLogger(old)

	ctx := ContextWithRequestID(context.Background(), "req-1")
	ctx = ContextWithActorID(ctx, "actor-1")
	ctx, corrID := ContextWithNewCorrelationID(ctx)

	Ctx(ctx).Info().Msg("hello")

	var event map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if event["request_id"] != "req-1" {
		t.Errorf("request_id missing: %v", event)
	}
	if event["actor_id"] != "actor-1" {
		t.Errorf("actor_id missing: %v", event)
	}
	if event["correlation_id"] != corrID {
		t.Errorf("correlation_id missing: %v", event)
	}
}

func TestPackageLevelEvents(t *testing.T) {
	var buf bytes.Buffer
	old := Logger()
	SetLogger(NewTestLogger(&buf))
	defer SetLogger(old)

	Debug().Str("k", "v").Msg("debug event")
	Info().Msg("info event")
	Warn().Msg("warn event")
	Error().Msg("error event")
	Err(errors.New("boom")).Msg("err event")
	Err(nil).Msg("nil err event")

	out := buf.String()
	for _, want := range []string{"debug event", "info event", "warn event", "error event", `"error":"boom"`, "nil err event"} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output: %s", want, out)
		}
	}
}

func TestContextAccessorsEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	if RequestIDFromContext(ctx) != "" || CorrelationIDFromContext(ctx) != "" || ActorIDFromContext(ctx) != "" {
		t.Error("expected empty identifiers on a bare context")
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	old := Logger()
	SetLogger(NewTestLogger(&buf))
	defer SetLogger(old)

	WithComponent("moderation").Info().Msg("x")
	if !strings.Contains(buf.String(), `"component":"moderation"`) {
		t.Errorf("component tag missing: %s", buf.String())
	}
}
