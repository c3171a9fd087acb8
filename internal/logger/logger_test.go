package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker", "test"} {
		t.Run(env, func(t *testing.T) {
			l, err := NewLogger(env)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if l == nil {
				t.Fatal("expected logger")
			}
		})
	}
}

func TestNewLogger_UnknownEnv(t *testing.T) {
	if _, err := NewLogger("staging"); err == nil {
		t.Fatal("expected error for unknown env")
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger("prod", "loud"); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("prod", "warn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zap.InfoLevel) {
		t.Error("info must be disabled with warn override")
	}
	if !l.Core().Enabled(zap.WarnLevel) {
		t.Error("warn must be enabled with warn override")
	}
}

func TestContextRoundTrip(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	l := zap.New(core)

	ctx := ContextWithLogger(context.Background(), l)
	FromContext(ctx).Info("hello")

	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}
}

func TestFromContextOr(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	fallback := zap.New(core)

	FromContextOr(context.Background(), fallback).Info("fallback")
	if logs.Len() != 1 {
		t.Fatalf("expected fallback logger to be used, got %d entries", logs.Len())
	}

	FromContextOr(ContextWithLogger(context.Background(), zap.NewNop()), fallback).Info("ctx")
	if logs.Len() != 1 {
		t.Fatalf("expected context logger to win, got %d entries", logs.Len())
	}
}

func TestWithFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)

	ctx := WithFields(context.Background(), zap.New(core), zap.Int("query_index", 3))
	FromContext(ctx).Info("searching")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["query_index"]; got != int64(3) {
		t.Errorf("query_index = %v, want 3", got)
	}
}

func TestWithFields_NilFallback(t *testing.T) {
	ctx := WithFields(context.Background(), nil, zap.String("k", "v"))
	FromContext(ctx).Info("must not panic")
}
